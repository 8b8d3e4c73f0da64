package ingest_message

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TourBookingService/internal/domain"
	"github.com/m04kA/SMC-TourBookingService/internal/infra/cache/capacitycache"
	"github.com/m04kA/SMC-TourBookingService/internal/infra/events"
	"github.com/m04kA/SMC-TourBookingService/internal/infra/storage/memstore"
	"github.com/m04kA/SMC-TourBookingService/internal/integrations/botservice"
	"github.com/m04kA/SMC-TourBookingService/internal/integrations/twilio"
	botSettingsService "github.com/m04kA/SMC-TourBookingService/internal/service/botsettings"
	"github.com/m04kA/SMC-TourBookingService/internal/usecase/create_reservation"
	"github.com/m04kA/SMC-TourBookingService/pkg/logger"
	"github.com/m04kA/SMC-TourBookingService/pkg/metrics"
)

type fakeBot struct {
	reply *botservice.Reply
	err   error
	calls []botservice.ReplyRequest
}

func (b *fakeBot) Reply(_ context.Context, req botservice.ReplyRequest) (*botservice.Reply, error) {
	b.calls = append(b.calls, req)
	return b.reply, b.err
}

type fixture struct {
	store *memstore.Store
	bot   *fakeBot
	uc    *UseCase
}

func setup(t *testing.T, enabled bool) *fixture {
	t.Helper()
	ctx := context.Background()
	s := memstore.New()
	_, err := s.Activities().Create(ctx, &domain.Activity{
		Slug: "city-tour", Name: "City tour", Price: 25, Currency: "EUR", Active: true,
		Schedule: domain.Schedule{DefaultSeats: 10},
	})
	require.NoError(t, err)

	settings := domain.DefaultBotSettings()
	settings.Enabled = enabled
	_, err = s.BotSettings().Upsert(ctx, settings)
	require.NoError(t, err)

	log := logger.NewNop()
	creator := create_reservation.NewUseCase(s.Activities(), s.Capacity(), s.Reservations(), s.TxManager(),
		capacitycache.Nop{}, events.Nop{}, metrics.Nop{}, log)
	bot := &fakeBot{}
	uc := NewUseCase(s.Messages(), botSettingsService.NewService(s.BotSettings(), log), bot, creator, metrics.Nop{}, log)
	return &fixture{store: s, bot: bot, uc: uc}
}

func inbound(sid string) *Request {
	return &Request{Message: &twilio.InboundMessage{
		MessageSid:  sid,
		From:        "whatsapp:+33600000000",
		To:          "whatsapp:+14155238886",
		Body:        "Two seats for the city tour on June 1st",
		ProfileName: "Ann",
		Params:      map[string]string{"MessageSid": sid, "NumMedia": "0"},
	}}
}

func TestExecute_DisabledRepliesWithFallback(t *testing.T) {
	f := setup(t, false)

	resp, err := f.uc.Execute(context.Background(), inbound("SM1"))
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultBotSettings().FallbackReply, resp.Reply)
	assert.Empty(t, f.bot.calls)
}

func TestExecute_DuplicateIsNotForwarded(t *testing.T) {
	ctx := context.Background()
	f := setup(t, true)
	f.bot.reply = &botservice.Reply{Text: "Hello!"}

	first, err := f.uc.Execute(ctx, inbound("SM1"))
	require.NoError(t, err)
	assert.Equal(t, "Hello!", first.Reply)

	second, err := f.uc.Execute(ctx, inbound("SM1"))
	require.NoError(t, err)
	assert.True(t, second.Duplicate)
	assert.Empty(t, second.Reply)
	assert.Len(t, f.bot.calls, 1)
}

func TestExecute_BookingIntentCreatesLinkedReservation(t *testing.T) {
	ctx := context.Background()
	f := setup(t, true)
	f.bot.reply = &botservice.Reply{
		Text:    "Booked 2 seats!",
		Booking: &botservice.BookingIntent{ActivitySlug: "city-tour", Date: "2024-06-01", Seats: 2},
	}

	resp, err := f.uc.Execute(ctx, inbound("SM42"))
	require.NoError(t, err)
	require.NotNil(t, resp.ReservationID)

	r, err := f.store.Reservations().GetByExternalID(ctx, domain.SourceWhatsApp, "SM42")
	require.NoError(t, err)
	assert.Equal(t, *resp.ReservationID, r.ID)
	assert.Equal(t, "Ann", r.CustomerName)
	assert.Equal(t, "+33600000000", r.CustomerPhone)
	assert.Equal(t, 2, r.Seats)

	linked := f.store.Messages().ByReservation(ctx, r.ID)
	require.Len(t, linked, 2)
	directions := []domain.MessageDirection{linked[0].Direction, linked[1].Direction}
	assert.ElementsMatch(t, []domain.MessageDirection{domain.DirectionInbound, domain.DirectionOutbound}, directions)
}

func TestExecute_BotFailureFallsBack(t *testing.T) {
	f := setup(t, true)
	f.bot.err = errors.New("bot down")

	resp, err := f.uc.Execute(context.Background(), inbound("SM7"))
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultBotSettings().FallbackReply, resp.Reply)
}

func TestExecute_RejectedIntentRepliesWithFallback(t *testing.T) {
	ctx := context.Background()
	f := setup(t, true)
	f.bot.reply = &botservice.Reply{
		Text:    "Booked 50 seats!",
		Booking: &botservice.BookingIntent{ActivitySlug: "city-tour", Date: "2024-06-01", Seats: 50},
	}

	resp, err := f.uc.Execute(ctx, inbound("SM8"))
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultBotSettings().FallbackReply, resp.Reply)
	assert.Nil(t, resp.ReservationID)

	_, err = f.store.Reservations().GetByExternalID(ctx, domain.SourceWhatsApp, "SM8")
	assert.Error(t, err)
}

// flakySettings отказывает первые failures вызовов
type flakySettings struct {
	next     SettingsProvider
	failures int
}

func (s *flakySettings) Get(ctx context.Context) (*domain.BotSettings, error) {
	if s.failures > 0 {
		s.failures--
		return nil, errors.New("db down")
	}
	return s.next.Get(ctx)
}

func TestExecute_SettingsFailureLeavesRetryForwardable(t *testing.T) {
	ctx := context.Background()
	f := setup(t, true)
	f.bot.reply = &botservice.Reply{Text: "Hello!"}
	settings := &flakySettings{next: botSettingsService.NewService(f.store.BotSettings(), logger.NewNop()), failures: 1}
	uc := NewUseCase(f.store.Messages(), settings, f.bot, f.uc.creator, metrics.Nop{}, logger.NewNop())

	_, err := uc.Execute(ctx, inbound("SM9"))
	require.ErrorIs(t, err, ErrInternal)

	retry, err := uc.Execute(ctx, inbound("SM9"))
	require.NoError(t, err)
	assert.False(t, retry.Duplicate)
	assert.Equal(t, "Hello!", retry.Reply)
	assert.Len(t, f.bot.calls, 1)
}

// failingOutbound сохраняет входящие сообщения и отказывает на исходящих
type failingOutbound struct {
	MessageRepository
}

func (r failingOutbound) Create(ctx context.Context, m *domain.Message) (*domain.Message, error) {
	if m.Direction == domain.DirectionOutbound {
		return nil, errors.New("disk full")
	}
	return r.MessageRepository.Create(ctx, m)
}

func TestExecute_OutboundStoreFailureStillReplies(t *testing.T) {
	f := setup(t, true)
	f.bot.reply = &botservice.Reply{Text: "Hello!"}
	uc := NewUseCase(failingOutbound{f.store.Messages()}, f.uc.settings, f.bot, f.uc.creator, metrics.Nop{}, logger.NewNop())

	resp, err := uc.Execute(context.Background(), inbound("SM10"))
	require.NoError(t, err)
	assert.Equal(t, "Hello!", resp.Reply)
}
