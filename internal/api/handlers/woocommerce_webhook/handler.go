package woocommerce_webhook

import (
	"errors"
	"io"
	"net/http"

	"github.com/m04kA/SMC-TourBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-TourBookingService/internal/integrations/woocommerce"
	ingestOrder "github.com/m04kA/SMC-TourBookingService/internal/usecase/ingest_order"
)

const (
	maxBodyBytes        = 1 << 20
	msgInvalidSignature = "invalid webhook signature"
)

type Handler struct {
	useCase IngestOrderUseCase
	secret  string
	logger  Logger
}

// NewHandler создает handler; пустой secret отключает проверку подписи
func NewHandler(useCase IngestOrderUseCase, secret string, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		secret:  secret,
		logger:  logger,
	}
}

// Handle POST /api/webhooks/woocommerce
// Некорректные заказы подтверждаются с received=false, сбой хранилища отдаёт 500 для повторной доставки
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		h.logger.Warn("POST /webhooks/woocommerce - Failed to read body: %v", err)
		handlers.RespondJSON(w, http.StatusOK, WebhookResponse{Received: false})
		return
	}

	// Ping приходит при сохранении вебхука и не несёт заказа
	if woocommerce.IsPing(body) {
		h.logger.Info("POST /webhooks/woocommerce - Ping received")
		handlers.RespondJSON(w, http.StatusOK, WebhookResponse{Received: true})
		return
	}

	if h.secret != "" && !woocommerce.VerifySignature(body, h.secret, r.Header.Get(woocommerce.HeaderSignature)) {
		h.logger.Warn("POST /webhooks/woocommerce - Invalid signature, topic=%q", r.Header.Get(woocommerce.HeaderTopic))
		handlers.RespondUnauthorized(w, msgInvalidSignature)
		return
	}

	order, err := woocommerce.ParseOrder(body)
	if err != nil {
		h.logger.Warn("POST /webhooks/woocommerce - Malformed payload: %v", err)
		handlers.RespondJSON(w, http.StatusOK, WebhookResponse{Received: false})
		return
	}

	result, err := h.useCase.Execute(r.Context(), &ingestOrder.Request{Order: order})
	if err != nil {
		switch {
		case errors.Is(err, ingestOrder.ErrInvalidInput):
			handlers.RespondJSON(w, http.StatusOK, WebhookResponse{Received: false})
		default:
			h.logger.Error("POST /webhooks/woocommerce - Failed to ingest order: order_id=%d, error=%v", order.ID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /webhooks/woocommerce - Order ingested: order_id=%d, lines=%d", order.ID, len(result.Lines))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
