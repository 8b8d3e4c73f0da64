package capacity

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-TourBookingService/internal/domain"
	"github.com/m04kA/SMC-TourBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-TourBookingService/pkg/pgerr"
	"github.com/m04kA/SMC-TourBookingService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-TourBookingService/pkg/types"
)

var columns = []string{
	"id",
	"activity_id",
	"slot_date",
	"slot_time",
	"total_seats",
	"reserved_seats",
	"created_at",
	"updated_at",
}

// Repository репозиторий слотов вместимости
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория слотов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает слот; занятый ключ (activity, date, time) даёт ErrCapacityExists
func (r *Repository) Create(ctx context.Context, c *domain.Capacity) (*domain.Capacity, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("capacity").
		Columns("activity_id", "slot_date", "slot_time", "total_seats", "reserved_seats").
		Values(c.ActivityID, dateParam(c.Date), c.Time, c.TotalSeats, c.ReservedSeats).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	switch {
	case pgerr.IsUniqueViolation(err):
		return nil, ErrCapacityExists
	case pgerr.IsForeignKeyViolation(err):
		return nil, ErrActivityNotFound
	case err != nil:
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return c, nil
}

// Materialize сохраняет виртуальный слот, если строки с таким ключом ещё нет,
// и возвращает актуальную строку. Гонка двух материализаций решается ON CONFLICT DO NOTHING.
func (r *Repository) Materialize(ctx context.Context, activityID int64, date time.Time, t types.TimeString, totalSeats int) (*domain.Capacity, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("capacity").
		Columns("activity_id", "slot_date", "slot_time", "total_seats", "reserved_seats").
		Values(activityID, dateParam(date), t, totalSeats, 0).
		Suffix("ON CONFLICT (activity_id, slot_date, slot_time) DO NOTHING").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Materialize - build insert query: %w", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		if pgerr.IsForeignKeyViolation(err) {
			return nil, ErrActivityNotFound
		}
		return nil, fmt.Errorf("%w: Materialize - execute insert: %w", ErrExecQuery, err)
	}

	return r.GetByKey(ctx, activityID, date, t)
}

// GetByID получает слот по ID
// В транзакции блокирует строку (FOR UPDATE)
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Capacity, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByKey получает слот по (activity, date, time)
func (r *Repository) GetByKey(ctx context.Context, activityID int64, date time.Time, t types.TimeString) (*domain.Capacity, error) {
	return r.getOne(ctx, squirrel.Eq{
		"activity_id": activityID,
		"slot_date":   dateParam(date),
		"slot_time":   t,
	})
}

func (r *Repository) getOne(ctx context.Context, where squirrel.Eq) (*domain.Capacity, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(columns...).
		From("capacity").
		Where(where)
	if dbmetrics.IsInTransaction(ctx) {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: getOne - build select query: %w", ErrBuildQuery, err)
	}

	c, err := scanCapacity(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrCapacityNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: getOne - scan capacity: %w", ErrScanRow, err)
	}

	return c, nil
}

// List получает сохранённые слоты по фильтру, без блокировок
func (r *Repository) List(ctx context.Context, filter domain.CapacityFilter) ([]*domain.Capacity, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(columns...).
		From("capacity").
		OrderBy("slot_date ASC", "slot_time ASC", "activity_id ASC")
	if filter.ActivityID != nil {
		builder = builder.Where(squirrel.Eq{"activity_id": *filter.ActivityID})
	}
	if filter.DateFrom != nil {
		builder = builder.Where(squirrel.GtOrEq{"slot_date": dateParam(*filter.DateFrom)})
	}
	if filter.DateTo != nil {
		builder = builder.Where(squirrel.LtOrEq{"slot_date": dateParam(*filter.DateTo)})
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

	result := make([]*domain.Capacity, 0)
	for rows.Next() {
		c, err := scanCapacity(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan capacity: %w", ErrScanRow, err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows iteration: %w", ErrScanRow, err)
	}

	return result, nil
}

// Reserve атомарно занимает seats мест.
// Условие reserved_seats + seats <= total_seats проверяется в самом UPDATE,
// поэтому два конкурентных запроса не могут превысить вместимость.
func (r *Repository) Reserve(ctx context.Context, id int64, seats int) (*domain.Capacity, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("capacity").
		Set("reserved_seats", squirrel.Expr("reserved_seats + ?", seats)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Expr("reserved_seats + ? <= total_seats", seats)).
		Suffix("RETURNING " + strings.Join(columns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Reserve - build update query: %w", ErrBuildQuery, err)
	}

	c, err := scanCapacity(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows || pgerr.IsCheckViolation(err) {
		return nil, ErrInsufficientSeats
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Reserve - execute update: %w", ErrExecQuery, err)
	}

	return c, nil
}

// Release возвращает seats мест; не опускает reserved_seats ниже нуля
func (r *Repository) Release(ctx context.Context, id int64, seats int) (*domain.Capacity, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("capacity").
		Set("reserved_seats", squirrel.Expr("reserved_seats - ?", seats)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.GtOrEq{"reserved_seats": seats}).
		Suffix("RETURNING " + strings.Join(columns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Release - build update query: %w", ErrBuildQuery, err)
	}

	c, err := scanCapacity(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrInsufficientReserved
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Release - execute update: %w", ErrExecQuery, err)
	}

	return c, nil
}

// Resize меняет total_seats; новое значение не может быть меньше reserved_seats
func (r *Repository) Resize(ctx context.Context, id int64, totalSeats int) (*domain.Capacity, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("capacity").
		Set("total_seats", totalSeats).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.LtOrEq{"reserved_seats": totalSeats}).
		Suffix("RETURNING " + strings.Join(columns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Resize - build update query: %w", ErrBuildQuery, err)
	}

	c, err := scanCapacity(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		// Строки нет или новое значение меньше занятых мест
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, ErrBelowReserved
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Resize - execute update: %w", ErrExecQuery, err)
	}

	return c, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCapacity(row rowScanner) (*domain.Capacity, error) {
	var c domain.Capacity
	err := row.Scan(
		&c.ID,
		&c.ActivityID,
		&c.Date,
		&c.Time,
		&c.TotalSeats,
		&c.ReservedSeats,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.Date = domain.DateOnly(c.Date)
	return &c, nil
}

// dateParam передаёт дату строкой, чтобы часовой пояс сессии не сдвигал DATE
func dateParam(t time.Time) string {
	return t.Format(domain.DateFormat)
}
