// Package api wires endpoint handlers into the HTTP router.
package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelReservationHandler "github.com/m04kA/SMC-TourBookingService/internal/api/handlers/cancel_reservation"
	createActivityHandler "github.com/m04kA/SMC-TourBookingService/internal/api/handlers/create_activity"
	createCapacityHandler "github.com/m04kA/SMC-TourBookingService/internal/api/handlers/create_capacity"
	createReservationHandler "github.com/m04kA/SMC-TourBookingService/internal/api/handlers/create_reservation"
	deleteActivityHandler "github.com/m04kA/SMC-TourBookingService/internal/api/handlers/delete_activity"
	exportReservationsHandler "github.com/m04kA/SMC-TourBookingService/internal/api/handlers/export_reservations"
	getActivityHandler "github.com/m04kA/SMC-TourBookingService/internal/api/handlers/get_activity"
	getBotSettingsHandler "github.com/m04kA/SMC-TourBookingService/internal/api/handlers/get_bot_settings"
	getCapacityHandler "github.com/m04kA/SMC-TourBookingService/internal/api/handlers/get_capacity"
	getReservationHandler "github.com/m04kA/SMC-TourBookingService/internal/api/handlers/get_reservation"
	healthHandler "github.com/m04kA/SMC-TourBookingService/internal/api/handlers/health"
	listActivitiesHandler "github.com/m04kA/SMC-TourBookingService/internal/api/handlers/list_activities"
	listReservationsHandler "github.com/m04kA/SMC-TourBookingService/internal/api/handlers/list_reservations"
	reservationStatsHandler "github.com/m04kA/SMC-TourBookingService/internal/api/handlers/reservation_stats"
	resizeCapacityHandler "github.com/m04kA/SMC-TourBookingService/internal/api/handlers/resize_capacity"
	updateActivityHandler "github.com/m04kA/SMC-TourBookingService/internal/api/handlers/update_activity"
	updateBotSettingsHandler "github.com/m04kA/SMC-TourBookingService/internal/api/handlers/update_bot_settings"
	whatsappWebhookHandler "github.com/m04kA/SMC-TourBookingService/internal/api/handlers/whatsapp_webhook"
	woocommerceWebhookHandler "github.com/m04kA/SMC-TourBookingService/internal/api/handlers/woocommerce_webhook"
	"github.com/m04kA/SMC-TourBookingService/internal/api/middleware"
	activitiesService "github.com/m04kA/SMC-TourBookingService/internal/service/activities"
	botSettingsService "github.com/m04kA/SMC-TourBookingService/internal/service/botsettings"
	capacityService "github.com/m04kA/SMC-TourBookingService/internal/service/capacity"
	reservationsService "github.com/m04kA/SMC-TourBookingService/internal/service/reservations"
	cancelReservationUC "github.com/m04kA/SMC-TourBookingService/internal/usecase/cancel_reservation"
	createReservationUC "github.com/m04kA/SMC-TourBookingService/internal/usecase/create_reservation"
	ingestMessageUC "github.com/m04kA/SMC-TourBookingService/internal/usecase/ingest_message"
	ingestOrderUC "github.com/m04kA/SMC-TourBookingService/internal/usecase/ingest_order"
	resolveCapacityUC "github.com/m04kA/SMC-TourBookingService/internal/usecase/resolve_capacity"
	"github.com/m04kA/SMC-TourBookingService/pkg/metrics"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Deps сервисы и use cases, из которых собираются handlers
type Deps struct {
	Activities   *activitiesService.Service
	Capacity     *capacityService.Service
	Reservations *reservationsService.Service
	BotSettings  *botSettingsService.Service

	ResolveCapacity   *resolveCapacityUC.UseCase
	CreateReservation *createReservationUC.UseCase
	CancelReservation *cancelReservationUC.UseCase
	IngestOrder       *ingestOrderUC.UseCase
	IngestMessage     *ingestMessageUC.UseCase

	// Metrics nil отключает HTTP-метрики и /metrics
	Metrics     *metrics.Metrics
	MetricsPath string

	// RateLimiter nil отключает ограничение публичного создания бронирований
	RateLimiter *middleware.RateLimiter

	WooCommerceSecret string
	TwilioAuthToken   string
	PublicURL         string

	HealthChecks map[string]healthHandler.Pinger

	Logger Logger
}

// NewRouter собирает маршруты сервиса
func NewRouter(d *Deps) *mux.Router {
	log := d.Logger

	// Инициализируем handlers
	listActivities := listActivitiesHandler.NewHandler(d.Activities, log)
	getActivity := getActivityHandler.NewHandler(d.Activities, log)
	createActivity := createActivityHandler.NewHandler(d.Activities, log)
	updateActivity := updateActivityHandler.NewHandler(d.Activities, log)
	deleteActivity := deleteActivityHandler.NewHandler(d.Activities, log)

	getCapacity := getCapacityHandler.NewHandler(d.ResolveCapacity, log)
	createCapacity := createCapacityHandler.NewHandler(d.Capacity, log)
	resizeCapacity := resizeCapacityHandler.NewHandler(d.Capacity, log)

	createReservation := createReservationHandler.NewHandler(d.CreateReservation, log)
	cancelReservation := cancelReservationHandler.NewHandler(d.CancelReservation, log)
	getReservation := getReservationHandler.NewHandler(d.Reservations, log)
	listReservations := listReservationsHandler.NewHandler(d.Reservations, log)
	reservationStats := reservationStatsHandler.NewHandler(d.Reservations, log)
	exportReservations := exportReservationsHandler.NewHandler(d.Reservations, log)

	woocommerceWebhook := woocommerceWebhookHandler.NewHandler(d.IngestOrder, d.WooCommerceSecret, log)
	whatsappWebhook := whatsappWebhookHandler.NewHandler(d.IngestMessage, d.TwilioAuthToken, d.PublicURL, log)

	getBotSettings := getBotSettingsHandler.NewHandler(d.BotSettings, log)
	updateBotSettings := updateBotSettingsHandler.NewHandler(d.BotSettings, log)

	health := healthHandler.NewHandler(d.HealthChecks, log)

	r := mux.NewRouter()

	if d.Metrics != nil {
		r.Use(middleware.MetricsMiddleware(d.Metrics))
		path := d.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.Handle(path, promhttp.Handler()).Methods(http.MethodGet)
	}

	r.HandleFunc("/health", health.Handle).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	api.HandleFunc("/activities", listActivities.Handle).Methods(http.MethodGet)
	api.HandleFunc("/activities/{id:[0-9]+}", getActivity.Handle).Methods(http.MethodGet)

	// Слоты с учётом расписания по умолчанию
	api.HandleFunc("/capacity", getCapacity.Handle).Methods(http.MethodGet)

	// Публичное создание бронирования, ограничено по IP
	var createReservationRoute http.Handler = http.HandlerFunc(createReservation.Handle)
	if d.RateLimiter != nil {
		createReservationRoute = d.RateLimiter.Middleware(createReservationRoute)
	}
	api.Handle("/reservations", createReservationRoute).Methods(http.MethodPost)

	// Вебхуки аутентифицируются подписью
	api.HandleFunc("/webhooks/woocommerce", woocommerceWebhook.Handle).Methods(http.MethodPost)
	api.HandleFunc("/webhooks/whatsapp", whatsappWebhook.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Каталог ---
	protected.HandleFunc("/activities", createActivity.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/activities/{id:[0-9]+}", updateActivity.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/activities/{id:[0-9]+}", deleteActivity.Handle).Methods(http.MethodDelete)

	// --- Вместимость ---
	protected.HandleFunc("/capacity", createCapacity.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/capacity/{id:[0-9]+}", resizeCapacity.Handle).Methods(http.MethodPatch)

	// --- Бронирования ---
	protected.HandleFunc("/reservations", listReservations.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/reservations/stats", reservationStats.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/reservations/export", exportReservations.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/reservations/{id:[0-9]+}", getReservation.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/reservations/{id:[0-9]+}/cancel", cancelReservation.Handle).Methods(http.MethodPatch)

	// --- Бот ---
	protected.HandleFunc("/bot-settings", getBotSettings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bot-settings", updateBotSettings.Handle).Methods(http.MethodPut)

	return r
}
