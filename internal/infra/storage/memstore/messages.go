package memstore

import (
	"context"

	"github.com/m04kA/SMC-TourBookingService/internal/domain"
	botsettingsRepo "github.com/m04kA/SMC-TourBookingService/internal/infra/storage/botsettings"
	messageRepo "github.com/m04kA/SMC-TourBookingService/internal/infra/storage/message"
)

type MessageRepository struct {
	s *Store
}

func (r *MessageRepository) Create(ctx context.Context, m *domain.Message) (*domain.Message, error) {
	defer r.s.lock(ctx)()
	t := r.s.t

	var key msgKey
	if m.ExternalID != nil {
		key = msgKey{channel: m.Channel, id: *m.ExternalID}
		if _, ok := t.msgExternal[key]; ok {
			return nil, messageRepo.ErrDuplicateMessage
		}
	}

	t.messageSeq++
	m.ID = t.messageSeq
	m.CreatedAt = r.s.now()
	t.messages[m.ID] = copyMessage(m)
	if m.ExternalID != nil {
		t.msgExternal[key] = m.ID
	}

	return m, nil
}

func (r *MessageRepository) ExistsByExternalID(ctx context.Context, channel domain.MessageChannel, externalID string) (bool, error) {
	defer r.s.lock(ctx)()

	_, ok := r.s.t.msgExternal[msgKey{channel: channel, id: externalID}]
	return ok, nil
}

func (r *MessageRepository) LinkReservation(ctx context.Context, messageIDs []int64, reservationID int64) error {
	defer r.s.lock(ctx)()

	for _, id := range messageIDs {
		if m, ok := r.s.t.messages[id]; ok {
			rid := reservationID
			m.ReservationID = &rid
		}
	}
	return nil
}

// ByReservation возвращает сообщения переписки, привязанные к бронированию
func (r *MessageRepository) ByReservation(ctx context.Context, reservationID int64) []*domain.Message {
	defer r.s.lock(ctx)()

	var result []*domain.Message
	for _, m := range r.s.t.messages {
		if m.ReservationID != nil && *m.ReservationID == reservationID {
			result = append(result, copyMessage(m))
		}
	}
	return result
}

type BotSettingsRepository struct {
	s *Store
}

func (r *BotSettingsRepository) Get(ctx context.Context) (*domain.BotSettings, error) {
	defer r.s.lock(ctx)()

	if r.s.t.bot == nil {
		return nil, botsettingsRepo.ErrSettingsNotFound
	}
	cp := *r.s.t.bot
	return &cp, nil
}

func (r *BotSettingsRepository) Upsert(ctx context.Context, settings *domain.BotSettings) (*domain.BotSettings, error) {
	defer r.s.lock(ctx)()

	settings.UpdatedAt = r.s.now()
	cp := *settings
	r.s.t.bot = &cp
	return settings, nil
}
