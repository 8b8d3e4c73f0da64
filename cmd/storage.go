package main

import (
	"context"
	"time"

	"github.com/m04kA/SMC-TourBookingService/internal/domain"
	activityRepo "github.com/m04kA/SMC-TourBookingService/internal/infra/storage/activity"
	botSettingsRepo "github.com/m04kA/SMC-TourBookingService/internal/infra/storage/botsettings"
	capacityRepo "github.com/m04kA/SMC-TourBookingService/internal/infra/storage/capacity"
	"github.com/m04kA/SMC-TourBookingService/internal/infra/storage/memstore"
	messageRepo "github.com/m04kA/SMC-TourBookingService/internal/infra/storage/message"
	reservationRepo "github.com/m04kA/SMC-TourBookingService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-TourBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-TourBookingService/pkg/txmanager"
	"github.com/m04kA/SMC-TourBookingService/pkg/types"
)

// Общие наборы методов, которые реализуют и PostgreSQL-репозитории, и memstore

type activityStore interface {
	Create(ctx context.Context, a *domain.Activity) (*domain.Activity, error)
	Update(ctx context.Context, a *domain.Activity) (*domain.Activity, error)
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Activity, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Activity, error)
	List(ctx context.Context, filter domain.ActivityFilter) ([]*domain.Activity, error)
}

type capacityStore interface {
	Create(ctx context.Context, c *domain.Capacity) (*domain.Capacity, error)
	Materialize(ctx context.Context, activityID int64, date time.Time, t types.TimeString, totalSeats int) (*domain.Capacity, error)
	GetByID(ctx context.Context, id int64) (*domain.Capacity, error)
	GetByKey(ctx context.Context, activityID int64, date time.Time, t types.TimeString) (*domain.Capacity, error)
	List(ctx context.Context, filter domain.CapacityFilter) ([]*domain.Capacity, error)
	Reserve(ctx context.Context, id int64, seats int) (*domain.Capacity, error)
	Release(ctx context.Context, id int64, seats int) (*domain.Capacity, error)
	Resize(ctx context.Context, id int64, totalSeats int) (*domain.Capacity, error)
}

type reservationStore interface {
	Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error)
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	GetByExternalID(ctx context.Context, source domain.ReservationSource, externalID string) (*domain.Reservation, error)
	List(ctx context.Context, filter domain.ReservationFilter) ([]*domain.Reservation, error)
	MarkCancelled(ctx context.Context, id int64, at time.Time) error
	Confirm(ctx context.Context, id int64) error
	ExistsForActivity(ctx context.Context, activityID int64) (bool, error)
	Stats(ctx context.Context, filter domain.StatsFilter) (*domain.ReservationStats, error)
}

type messageStore interface {
	Create(ctx context.Context, m *domain.Message) (*domain.Message, error)
	ExistsByExternalID(ctx context.Context, channel domain.MessageChannel, externalID string) (bool, error)
	LinkReservation(ctx context.Context, messageIDs []int64, reservationID int64) error
}

type botSettingsStore interface {
	Get(ctx context.Context) (*domain.BotSettings, error)
	Upsert(ctx context.Context, s *domain.BotSettings) (*domain.BotSettings, error)
}

type txManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// repositories набор хранилищ выбранного драйвера
type repositories struct {
	activities   activityStore
	capacity     capacityStore
	reservations reservationStore
	messages     messageStore
	botSettings  botSettingsStore
	tx           txManager
}

func postgresRepositories(db *dbmetrics.DB, maxAttempts int) *repositories {
	return &repositories{
		activities:   activityRepo.NewRepository(db),
		capacity:     capacityRepo.NewRepository(db),
		reservations: reservationRepo.NewRepository(db),
		messages:     messageRepo.NewRepository(db),
		botSettings:  botSettingsRepo.NewRepository(db),
		tx:           txmanager.NewTransactionManager(db).WithMaxAttempts(maxAttempts),
	}
}

func memoryRepositories() *repositories {
	s := memstore.New()
	return &repositories{
		activities:   s.Activities(),
		capacity:     s.Capacity(),
		reservations: s.Reservations(),
		messages:     s.Messages(),
		botSettings:  s.BotSettings(),
		tx:           s.TxManager(),
	}
}
