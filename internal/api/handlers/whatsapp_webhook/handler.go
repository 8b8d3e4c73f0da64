package whatsapp_webhook

import (
	"net/http"
	"strings"

	"github.com/m04kA/SMC-TourBookingService/internal/integrations/twilio"
	ingestMessage "github.com/m04kA/SMC-TourBookingService/internal/usecase/ingest_message"
)

const maxBodyBytes = 1 << 20

type Handler struct {
	useCase   IngestMessageUseCase
	authToken string
	publicURL string
	logger    Logger
}

// NewHandler создает handler. Пустой authToken отключает проверку подписи;
// publicURL задаёт внешний адрес сервиса, если он за прокси.
func NewHandler(useCase IngestMessageUseCase, authToken, publicURL string, logger Logger) *Handler {
	return &Handler{
		useCase:   useCase,
		authToken: authToken,
		publicURL: strings.TrimRight(publicURL, "/"),
		logger:    logger,
	}
}

// Handle POST /api/webhooks/whatsapp
// Отвечает TwiML; 200 для некорректных сообщений и сбоев бота, 403 при неверной подписи
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		h.logger.Warn("POST /webhooks/whatsapp - Failed to parse form: %v", err)
		writeTwiML(w, http.StatusOK, "")
		return
	}

	if h.authToken != "" && !twilio.VerifySignature(h.authToken, h.requestURL(r), r.PostForm, r.Header.Get(twilio.HeaderSignature)) {
		h.logger.Warn("POST /webhooks/whatsapp - Invalid signature")
		writeTwiML(w, http.StatusForbidden, "")
		return
	}

	msg, err := twilio.ParseForm(r.PostForm)
	if err != nil {
		h.logger.Warn("POST /webhooks/whatsapp - Malformed message: %v", err)
		writeTwiML(w, http.StatusOK, "")
		return
	}

	result, err := h.useCase.Execute(r.Context(), &ingestMessage.Request{Message: msg})
	if err != nil {
		h.logger.Error("POST /webhooks/whatsapp - Failed to ingest message: sid=%s, error=%v", msg.MessageSid, err)
		writeTwiML(w, http.StatusInternalServerError, "")
		return
	}

	h.logger.Info("POST /webhooks/whatsapp - Message ingested: sid=%s, duplicate=%t", msg.MessageSid, result.Duplicate)
	writeTwiML(w, http.StatusOK, result.Reply)
}

// requestURL адрес, который подписывал Twilio: publicURL или схема и хост запроса
func (h *Handler) requestURL(r *http.Request) string {
	if h.publicURL != "" {
		return h.publicURL + r.URL.RequestURI()
	}
	scheme := "http"
	if r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https") {
		scheme = "https"
	}
	return scheme + "://" + r.Host + r.URL.RequestURI()
}

func writeTwiML(w http.ResponseWriter, status int, reply string) {
	w.Header().Set("Content-Type", twilio.ContentType)
	w.WriteHeader(status)
	_, _ = w.Write(twilio.TwiML(reply))
}
