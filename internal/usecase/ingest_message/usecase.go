package ingest_message

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-TourBookingService/internal/domain"
	messageRepo "github.com/m04kA/SMC-TourBookingService/internal/infra/storage/message"
	"github.com/m04kA/SMC-TourBookingService/internal/integrations/botservice"
	"github.com/m04kA/SMC-TourBookingService/internal/integrations/twilio"
	"github.com/m04kA/SMC-TourBookingService/internal/usecase/create_reservation"
	"github.com/m04kA/SMC-TourBookingService/pkg/ptr"
)

const channel = "whatsapp"

// UseCase приём входящих сообщений WhatsApp: сохранение, ответ бота и бронирование по намерению
type UseCase struct {
	messageRepo MessageRepository
	settings    SettingsProvider
	bot         BotClient
	creator     ReservationCreator
	metrics     MetricsRecorder
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	messageRepo MessageRepository,
	settings SettingsProvider,
	bot BotClient,
	creator ReservationCreator,
	metrics MetricsRecorder,
	logger Logger,
) *UseCase {
	return &UseCase{
		messageRepo: messageRepo,
		settings:    settings,
		bot:         bot,
		creator:     creator,
		metrics:     metrics,
		logger:      logger,
	}
}

// Execute обрабатывает сообщение. Сбои бота не являются ошибкой: клиент получает текст по умолчанию.
// Ошибка возвращается только пока входящее сообщение не сохранено, чтобы повтор доставки дошёл до бота.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req.Message == nil {
		return nil, fmt.Errorf("%w: message is required", ErrInvalidInput)
	}
	in := req.Message
	uc.logger.Info("IngestMessage: sid=%s from=%s", in.MessageSid, in.From)

	// 1. Повторная доставка того же MessageSid подтверждается без пересылки боту
	exists, err := uc.messageRepo.ExistsByExternalID(ctx, domain.ChannelWhatsApp, in.MessageSid)
	if err != nil {
		return nil, uc.internal("check duplicate", err)
	}
	if exists {
		return uc.duplicate(in.MessageSid), nil
	}

	// 2. Настройки бота читаем до записи, иначе повтор будет принят за дубликат
	settings, err := uc.settings.Get(ctx)
	if err != nil {
		return nil, uc.internal("get bot settings", err)
	}

	// 3. Сохраняем входящее сообщение со всеми полями провайдера
	inbound, err := uc.messageRepo.Create(ctx, &domain.Message{
		Channel:     domain.ChannelWhatsApp,
		Direction:   domain.DirectionInbound,
		ExternalID:  ptr.Ptr(in.MessageSid),
		From:        in.From,
		To:          in.To,
		Body:        in.Body,
		ProfileName: in.ProfileName,
		Payload:     in.Params,
	})
	if errors.Is(err, messageRepo.ErrDuplicateMessage) {
		return uc.duplicate(in.MessageSid), nil
	}
	if err != nil {
		return nil, uc.internal("store inbound message", err)
	}

	// Дальше сообщение считается принятым: клиент всегда получает ответ

	if !settings.Enabled {
		uc.storeOutbound(ctx, in, settings.FallbackReply)
		uc.metrics.WebhookEvent(channel, "fallback")
		return &Response{Reply: settings.FallbackReply}, nil
	}

	// 4. Пересылаем боту
	botReply, err := uc.bot.Reply(ctx, botservice.ReplyRequest{
		ConversationID: twilio.PhoneNumber(in.From),
		MessageID:      in.MessageSid,
		From:           in.From,
		ProfileName:    in.ProfileName,
		Body:           in.Body,
		WelcomeMessage: settings.WelcomeMessage,
	})
	if err != nil {
		uc.logger.Warn("IngestMessage: bot failed for sid=%s, using fallback: %v", in.MessageSid, err)
		uc.storeOutbound(ctx, in, settings.FallbackReply)
		uc.metrics.WebhookEvent(channel, "bot_error")
		return &Response{Reply: settings.FallbackReply}, nil
	}

	if botReply.Booking == nil {
		uc.storeOutbound(ctx, in, botReply.Text)
		uc.metrics.WebhookEvent(channel, "replied")
		return &Response{Reply: botReply.Text}, nil
	}

	// 5. Намерение забронировать проходит обычный допуск.
	// Текст бота написан до допуска, поэтому при отказе отвечаем текстом по умолчанию.
	created, err := uc.creator.Execute(ctx, bookingRequest(in, botReply.Booking))
	if err != nil {
		if errors.Is(err, create_reservation.ErrInternal) {
			uc.logger.Error("IngestMessage: booking for sid=%s failed: %v", in.MessageSid, err)
		} else {
			uc.logger.Warn("IngestMessage: booking for sid=%s rejected: %v", in.MessageSid, err)
		}
		uc.storeOutbound(ctx, in, settings.FallbackReply)
		uc.metrics.WebhookEvent(channel, "booking_rejected")
		return &Response{Reply: settings.FallbackReply}, nil
	}

	// 6. Сохраняем ответ бота и связываем переписку с бронированием
	ids := []int64{inbound.ID}
	if outbound := uc.storeOutbound(ctx, in, botReply.Text); outbound != nil {
		ids = append(ids, outbound.ID)
	}
	if err := uc.messageRepo.LinkReservation(ctx, ids, created.Reservation.ID); err != nil {
		uc.logger.Error("IngestMessage: link messages to reservation id=%d failed: %v", created.Reservation.ID, err)
	}

	uc.logger.Info("IngestMessage: sid=%s booked reservation id=%d", in.MessageSid, created.Reservation.ID)
	uc.metrics.WebhookEvent(channel, "booked")
	return &Response{Reply: botReply.Text, ReservationID: ptr.Ptr(created.Reservation.ID)}, nil
}

// storeOutbound сохраняет исходящий ответ; пустой ответ не сохраняется.
// Ошибка только логируется.
func (uc *UseCase) storeOutbound(ctx context.Context, in *twilio.InboundMessage, body string) *domain.Message {
	if body == "" {
		return nil
	}
	out, err := uc.messageRepo.Create(ctx, &domain.Message{
		Channel:   domain.ChannelWhatsApp,
		Direction: domain.DirectionOutbound,
		From:      in.To,
		To:        in.From,
		Body:      body,
	})
	if err != nil {
		uc.logger.Error("IngestMessage: store outbound message for sid=%s: %v", in.MessageSid, err)
		return nil
	}
	return out
}

func (uc *UseCase) duplicate(sid string) *Response {
	uc.logger.Info("IngestMessage: sid=%s already processed", sid)
	uc.metrics.WebhookEvent(channel, "duplicate")
	return &Response{Duplicate: true}
}

func (uc *UseCase) internal(step string, err error) error {
	uc.logger.Error("IngestMessage: %s: %v", step, err)
	uc.metrics.WebhookEvent(channel, "error")
	return fmt.Errorf("%w: %s: %v", ErrInternal, step, err)
}

// bookingRequest заполняет контакты клиента из сообщения, если бот их не передал
func bookingRequest(in *twilio.InboundMessage, intent *botservice.BookingIntent) *create_reservation.Request {
	req := &create_reservation.Request{
		ActivityID:    intent.ActivityID,
		ActivitySlug:  intent.ActivitySlug,
		Date:          intent.Date,
		Time:          intent.Time,
		Seats:         intent.Seats,
		CustomerName:  intent.CustomerName,
		CustomerEmail: intent.CustomerEmail,
		CustomerPhone: intent.CustomerPhone,
		Source:        string(domain.SourceWhatsApp),
		ExternalID:    ptr.Ptr(in.MessageSid),
	}
	if req.CustomerName == "" {
		req.CustomerName = in.ProfileName
	}
	if req.CustomerPhone == "" {
		req.CustomerPhone = twilio.PhoneNumber(in.From)
	}
	if intent.Notes != "" {
		req.Notes = ptr.Ptr(intent.Notes)
	}
	return req
}
