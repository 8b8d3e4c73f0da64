package message

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-TourBookingService/internal/domain"
	"github.com/m04kA/SMC-TourBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-TourBookingService/pkg/pgerr"
	"github.com/m04kA/SMC-TourBookingService/pkg/psqlbuilder"
)

// Repository репозиторий сообщений мессенджеров
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория сообщений
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет сообщение; повтор внешнего id в канале даёт ErrDuplicateMessage
func (r *Repository) Create(ctx context.Context, m *domain.Message) (*domain.Message, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	payload := m.Payload
	if payload == nil {
		payload = map[string]string{}
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - marshal payload: %w", ErrBuildQuery, err)
	}

	query, args, err := psqlbuilder.Insert("messages").
		Columns(
			"channel",
			"direction",
			"external_id",
			"from_address",
			"to_address",
			"body",
			"profile_name",
			"reservation_id",
			"payload",
		).
		Values(
			m.Channel,
			m.Direction,
			m.ExternalID,
			m.From,
			m.To,
			m.Body,
			m.ProfileName,
			m.ReservationID,
			string(raw),
		).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&m.ID, &m.CreatedAt)
	if pgerr.IsUniqueViolation(err) {
		return nil, ErrDuplicateMessage
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return m, nil
}

// ExistsByExternalID проверяет, сохранено ли сообщение провайдера
func (r *Repository) ExistsByExternalID(ctx context.Context, channel domain.MessageChannel, externalID string) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("messages").
		Where(squirrel.Eq{"channel": channel, "external_id": externalID}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: ExistsByExternalID - build select query: %w", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: ExistsByExternalID - scan: %w", ErrScanRow, err)
	}

	return true, nil
}

// LinkReservation привязывает сообщения к бронированию, созданному по переписке
func (r *Repository) LinkReservation(ctx context.Context, messageIDs []int64, reservationID int64) error {
	if len(messageIDs) == 0 {
		return nil
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("messages").
		Set("reservation_id", reservationID).
		Where(squirrel.Eq{"id": messageIDs}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: LinkReservation - build update query: %w", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: LinkReservation - execute update: %w", ErrExecQuery, err)
	}

	return nil
}
