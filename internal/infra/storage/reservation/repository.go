package reservation

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-TourBookingService/internal/domain"
	"github.com/m04kA/SMC-TourBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-TourBookingService/pkg/pgerr"
	"github.com/m04kA/SMC-TourBookingService/pkg/psqlbuilder"
)

var columns = []string{
	"r.id",
	"r.code",
	"r.activity_id",
	"r.capacity_id",
	"r.slot_date",
	"r.slot_time",
	"r.customer_name",
	"r.customer_email",
	"r.customer_phone",
	"r.seats",
	"r.status",
	"r.source",
	"r.external_id",
	"r.notes",
	"r.total_price",
	"r.currency",
	"a.name",
	"r.created_at",
	"r.updated_at",
	"r.cancelled_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
// Повтор внешнего id для того же источника даёт ErrDuplicateExternalID (уникальный индекс)
func (r *Repository) Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("reservations").
		Columns(
			"code",
			"activity_id",
			"capacity_id",
			"slot_date",
			"slot_time",
			"customer_name",
			"customer_email",
			"customer_phone",
			"seats",
			"status",
			"source",
			"external_id",
			"notes",
			"total_price",
			"currency",
		).
		Values(
			res.Code,
			res.ActivityID,
			res.CapacityID,
			res.Date.Format(domain.DateFormat),
			res.Time,
			res.CustomerName,
			res.CustomerEmail,
			res.CustomerPhone,
			res.Seats,
			res.Status,
			res.Source,
			res.ExternalID,
			res.Notes,
			res.TotalPrice,
			res.Currency,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&res.ID, &res.CreatedAt, &res.UpdatedAt)
	if pgerr.IsUniqueViolation(err) {
		return nil, ErrDuplicateExternalID
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return res, nil
}

// GetByID получает бронирование по ID
// В транзакции блокирует строку бронирования (FOR UPDATE OF r)
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	return r.getOne(ctx, squirrel.Eq{"r.id": id})
}

// GetByExternalID получает бронирование по внешнему id источника
func (r *Repository) GetByExternalID(ctx context.Context, source domain.ReservationSource, externalID string) (*domain.Reservation, error) {
	return r.getOne(ctx, squirrel.Eq{"r.source": source, "r.external_id": externalID})
}

func (r *Repository) getOne(ctx context.Context, where squirrel.Eq) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := baseSelect().Where(where)
	if dbmetrics.IsInTransaction(ctx) {
		builder = builder.Suffix("FOR UPDATE OF r")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: getOne - build select query: %w", ErrBuildQuery, err)
	}

	res, err := scanReservation(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: getOne - scan reservation: %w", ErrScanRow, err)
	}

	return res, nil
}

// List получает бронирования по фильтру, новые первыми
func (r *Repository) List(ctx context.Context, filter domain.ReservationFilter) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := applyFilter(baseSelect(), filter).
		OrderBy("r.created_at DESC", "r.id DESC")
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute select: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan reservation: %w", ErrScanRow, err)
		}
		result = append(result, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows iteration: %w", ErrScanRow, err)
	}

	return result, nil
}

// MarkCancelled переводит бронирование в cancelled.
// Условие status <> 'cancelled' не даёт отменить дважды при гонке.
func (r *Repository) MarkCancelled(ctx context.Context, id int64, at time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservations").
		Set("status", domain.StatusCancelled).
		Set("cancelled_at", at).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.NotEq{"status": domain.StatusCancelled}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: MarkCancelled - build update query: %w", ErrBuildQuery, err)
	}

	return r.execGuarded(ctx, executor, query, args, "MarkCancelled")
}

// Confirm переводит pending-бронирование в confirmed
func (r *Repository) Confirm(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservations").
		Set("status", domain.StatusConfirmed).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": domain.StatusPending}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Confirm - build update query: %w", ErrBuildQuery, err)
	}

	return r.execGuarded(ctx, executor, query, args, "Confirm")
}

func (r *Repository) execGuarded(ctx context.Context, executor DBExecutor, query string, args []interface{}, op string) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %w", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %w", ErrExecQuery, op, err)
	}
	if rowsAffected == 0 {
		return ErrStatusConflict
	}

	return nil
}

// ExistsForActivity проверяет, есть ли бронирования по активности (в любом статусе)
func (r *Repository) ExistsForActivity(ctx context.Context, activityID int64) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("reservations").
		Where(squirrel.Eq{"activity_id": activityID}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: ExistsForActivity - build select query: %w", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: ExistsForActivity - scan: %w", ErrScanRow, err)
	}

	return true, nil
}

// Stats агрегирует бронирования по дате слота
func (r *Repository) Stats(ctx context.Context, filter domain.StatsFilter) (*domain.ReservationStats, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(
		"source",
		"status",
		"COUNT(*)",
		"COALESCE(SUM(seats), 0)",
		"COALESCE(SUM(total_price), 0)",
	).
		From("reservations").
		GroupBy("source", "status")
	if filter.DateFrom != nil {
		builder = builder.Where(squirrel.GtOrEq{"slot_date": filter.DateFrom.Format(domain.DateFormat)})
	}
	if filter.DateTo != nil {
		builder = builder.Where(squirrel.LtOrEq{"slot_date": filter.DateTo.Format(domain.DateFormat)})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Stats - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: Stats - execute select: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	var groups []domain.StatsGroup
	for rows.Next() {
		var g domain.StatsGroup
		if err := rows.Scan(&g.Source, &g.Status, &g.Count, &g.Seats, &g.Amount); err != nil {
			return nil, fmt.Errorf("%w: Stats - scan group: %w", ErrScanRow, err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: Stats - rows iteration: %w", ErrScanRow, err)
	}

	return domain.AggregateStats(groups), nil
}

func baseSelect() squirrel.SelectBuilder {
	return psqlbuilder.Select(columns...).
		From("reservations r").
		Join("activities a ON a.id = r.activity_id")
}

func applyFilter(builder squirrel.SelectBuilder, filter domain.ReservationFilter) squirrel.SelectBuilder {
	if filter.Status != nil {
		builder = builder.Where(squirrel.Eq{"r.status": *filter.Status})
	}
	if filter.Source != nil {
		builder = builder.Where(squirrel.Eq{"r.source": *filter.Source})
	}
	if filter.ActivityID != nil {
		builder = builder.Where(squirrel.Eq{"r.activity_id": *filter.ActivityID})
	}
	if filter.DateFrom != nil {
		builder = builder.Where(squirrel.GtOrEq{"r.slot_date": filter.DateFrom.Format(domain.DateFormat)})
	}
	if filter.DateTo != nil {
		builder = builder.Where(squirrel.LtOrEq{"r.slot_date": filter.DateTo.Format(domain.DateFormat)})
	}
	return builder
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReservation(row rowScanner) (*domain.Reservation, error) {
	var (
		res        domain.Reservation
		externalID sql.NullString
		notes      sql.NullString
	)

	err := row.Scan(
		&res.ID,
		&res.Code,
		&res.ActivityID,
		&res.CapacityID,
		&res.Date,
		&res.Time,
		&res.CustomerName,
		&res.CustomerEmail,
		&res.CustomerPhone,
		&res.Seats,
		&res.Status,
		&res.Source,
		&externalID,
		&notes,
		&res.TotalPrice,
		&res.Currency,
		&res.ActivityName,
		&res.CreatedAt,
		&res.UpdatedAt,
		&res.CancelledAt,
	)
	if err != nil {
		return nil, err
	}

	res.Date = domain.DateOnly(res.Date)
	if externalID.Valid {
		res.ExternalID = &externalID.String
	}
	if notes.Valid {
		res.Notes = &notes.String
	}

	return &res, nil
}
