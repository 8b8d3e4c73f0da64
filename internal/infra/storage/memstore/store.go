// Package memstore keeps all service tables in process memory. It implements
// the same contracts as the PostgreSQL repositories and serializes
// transactions with a single lock, restoring a snapshot when one fails.
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/m04kA/SMC-TourBookingService/internal/domain"
)

type tables struct {
	activities   map[int64]*domain.Activity
	capacity     map[int64]*domain.Capacity
	slots        map[domain.SlotKey]int64
	reservations map[int64]*domain.Reservation
	external     map[externalKey]int64
	messages     map[int64]*domain.Message
	msgExternal  map[msgKey]int64
	bot          *domain.BotSettings

	activitySeq    int64
	capacitySeq    int64
	reservationSeq int64
	messageSeq     int64
}

type externalKey struct {
	source domain.ReservationSource
	id     string
}

type msgKey struct {
	channel domain.MessageChannel
	id      string
}

func newTables() *tables {
	return &tables{
		activities:   make(map[int64]*domain.Activity),
		capacity:     make(map[int64]*domain.Capacity),
		slots:        make(map[domain.SlotKey]int64),
		reservations: make(map[int64]*domain.Reservation),
		external:     make(map[externalKey]int64),
		messages:     make(map[int64]*domain.Message),
		msgExternal:  make(map[msgKey]int64),
	}
}

func (t *tables) clone() *tables {
	c := &tables{
		activities:     make(map[int64]*domain.Activity, len(t.activities)),
		capacity:       make(map[int64]*domain.Capacity, len(t.capacity)),
		slots:          make(map[domain.SlotKey]int64, len(t.slots)),
		reservations:   make(map[int64]*domain.Reservation, len(t.reservations)),
		external:       make(map[externalKey]int64, len(t.external)),
		messages:       make(map[int64]*domain.Message, len(t.messages)),
		msgExternal:    make(map[msgKey]int64, len(t.msgExternal)),
		activitySeq:    t.activitySeq,
		capacitySeq:    t.capacitySeq,
		reservationSeq: t.reservationSeq,
		messageSeq:     t.messageSeq,
	}
	for k, v := range t.activities {
		c.activities[k] = copyActivity(v)
	}
	for k, v := range t.capacity {
		cp := *v
		c.capacity[k] = &cp
	}
	for k, v := range t.slots {
		c.slots[k] = v
	}
	for k, v := range t.reservations {
		c.reservations[k] = copyReservation(v)
	}
	for k, v := range t.external {
		c.external[k] = v
	}
	for k, v := range t.messages {
		c.messages[k] = copyMessage(v)
	}
	for k, v := range t.msgExternal {
		c.msgExternal[k] = v
	}
	if t.bot != nil {
		b := *t.bot
		c.bot = &b
	}
	return c
}

// Store in-memory хранилище
type Store struct {
	mu  sync.Mutex
	t   *tables
	now func() time.Time
}

// New создает пустое хранилище
func New() *Store {
	return &Store{t: newTables(), now: time.Now}
}

type txKey struct{}

// lock берёт мьютекс хранилища, если контекст не несёт транзакцию этого же хранилища
func (s *Store) lock(ctx context.Context) func() {
	if s.inTx(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) inTx(ctx context.Context) bool {
	owner, _ := ctx.Value(txKey{}).(*Store)
	return owner == s
}

// Activities репозиторий активностей
func (s *Store) Activities() *ActivityRepository { return &ActivityRepository{s: s} }

// Capacity репозиторий слотов
func (s *Store) Capacity() *CapacityRepository { return &CapacityRepository{s: s} }

// Reservations репозиторий бронирований
func (s *Store) Reservations() *ReservationRepository { return &ReservationRepository{s: s} }

// Messages репозиторий сообщений
func (s *Store) Messages() *MessageRepository { return &MessageRepository{s: s} }

// BotSettings репозиторий настроек бота
func (s *Store) BotSettings() *BotSettingsRepository { return &BotSettingsRepository{s: s} }

// TxManager менеджер транзакций поверх этого хранилища
func (s *Store) TxManager() *TxManager { return &TxManager{s: s} }

// TxManager выполняет функцию под эксклюзивной блокировкой хранилища.
// Ошибка или паника откатывают все изменения fn.
type TxManager struct {
	s *Store
}

func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TxManager) run(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	s := m.s
	if s.inTx(ctx) {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.t.clone()
	defer func() {
		if p := recover(); p != nil {
			s.t = snapshot
			panic(p)
		}
	}()

	if err = fn(context.WithValue(ctx, txKey{}, s)); err != nil {
		s.t = snapshot
		return err
	}
	return nil
}

func copyActivity(a *domain.Activity) *domain.Activity {
	cp := *a
	cp.Images = append([]string(nil), a.Images...)
	cp.Schedule.Weekdays = append([]time.Weekday(nil), a.Schedule.Weekdays...)
	cp.Schedule.Times = append(cp.Schedule.Times[:0:0], a.Schedule.Times...)
	if a.OriginalPrice != nil {
		v := *a.OriginalPrice
		cp.OriginalPrice = &v
	}
	return &cp
}

func copyReservation(r *domain.Reservation) *domain.Reservation {
	cp := *r
	if r.ExternalID != nil {
		v := *r.ExternalID
		cp.ExternalID = &v
	}
	if r.Notes != nil {
		v := *r.Notes
		cp.Notes = &v
	}
	if r.CancelledAt != nil {
		v := *r.CancelledAt
		cp.CancelledAt = &v
	}
	return &cp
}

func copyMessage(m *domain.Message) *domain.Message {
	cp := *m
	if m.ExternalID != nil {
		v := *m.ExternalID
		cp.ExternalID = &v
	}
	if m.ReservationID != nil {
		v := *m.ReservationID
		cp.ReservationID = &v
	}
	if m.Payload != nil {
		cp.Payload = make(map[string]string, len(m.Payload))
		for k, v := range m.Payload {
			cp.Payload[k] = v
		}
	}
	return &cp
}
