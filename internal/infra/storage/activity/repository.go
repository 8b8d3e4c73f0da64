package activity

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-TourBookingService/internal/domain"
	"github.com/m04kA/SMC-TourBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-TourBookingService/pkg/pgerr"
	"github.com/m04kA/SMC-TourBookingService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-TourBookingService/pkg/types"
)

var columns = []string{
	"id",
	"slug",
	"name",
	"description",
	"images",
	"price",
	"original_price",
	"currency",
	"duration_minutes",
	"featured",
	"rating",
	"review_count",
	"active",
	"schedule_weekdays",
	"schedule_times",
	"default_seats",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с активностями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория активностей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую активность
func (r *Repository) Create(ctx context.Context, a *domain.Activity) (*domain.Activity, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("activities").
		Columns(
			"slug",
			"name",
			"description",
			"images",
			"price",
			"original_price",
			"currency",
			"duration_minutes",
			"featured",
			"rating",
			"review_count",
			"active",
			"schedule_weekdays",
			"schedule_times",
			"default_seats",
		).
		Values(
			a.Slug,
			a.Name,
			a.Description,
			pq.Array(nonNil(a.Images)),
			a.Price,
			a.OriginalPrice,
			a.Currency,
			a.DurationMinutes,
			a.Featured,
			a.Rating,
			a.ReviewCount,
			a.Active,
			pq.Array(weekdaysToInts(a.Schedule.Weekdays)),
			pq.Array(timesToStrings(a.Schedule.Times)),
			a.Schedule.DefaultSeats,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if pgerr.IsUniqueViolation(err) {
		return nil, ErrSlugTaken
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return a, nil
}

// Update перезаписывает все поля активности
func (r *Repository) Update(ctx context.Context, a *domain.Activity) (*domain.Activity, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("activities").
		Set("slug", a.Slug).
		Set("name", a.Name).
		Set("description", a.Description).
		Set("images", pq.Array(nonNil(a.Images))).
		Set("price", a.Price).
		Set("original_price", a.OriginalPrice).
		Set("currency", a.Currency).
		Set("duration_minutes", a.DurationMinutes).
		Set("featured", a.Featured).
		Set("rating", a.Rating).
		Set("review_count", a.ReviewCount).
		Set("active", a.Active).
		Set("schedule_weekdays", pq.Array(weekdaysToInts(a.Schedule.Weekdays))).
		Set("schedule_times", pq.Array(timesToStrings(a.Schedule.Times))).
		Set("default_seats", a.Schedule.DefaultSeats).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": a.ID}).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %w", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&a.CreatedAt, &a.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrActivityNotFound
	}
	if pgerr.IsUniqueViolation(err) {
		return nil, ErrSlugTaken
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Update - execute update: %w", ErrExecQuery, err)
	}

	return a, nil
}

// Delete удаляет активность вместе с её слотами; бронирования блокируют удаление
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("activities").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if pgerr.IsForeignKeyViolation(err) {
		return ErrActivityInUse
	}
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %w", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrActivityNotFound
	}

	return nil
}

// GetByID получает активность по ID
// В транзакции берёт FOR SHARE, чтобы поля бронирования не менялись до коммита
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Activity, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetBySlug получает активность по slug
func (r *Repository) GetBySlug(ctx context.Context, slug string) (*domain.Activity, error) {
	return r.getOne(ctx, squirrel.Eq{"slug": slug})
}

func (r *Repository) getOne(ctx context.Context, where squirrel.Eq) (*domain.Activity, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(columns...).
		From("activities").
		Where(where)
	if dbmetrics.IsInTransaction(ctx) {
		builder = builder.Suffix("FOR SHARE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: getOne - build select query: %w", ErrBuildQuery, err)
	}

	a, err := scanActivity(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrActivityNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: getOne - scan activity: %w", ErrScanRow, err)
	}

	return a, nil
}

// List получает список активностей, отсортированный по имени
func (r *Repository) List(ctx context.Context, filter domain.ActivityFilter) ([]*domain.Activity, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(columns...).
		From("activities").
		OrderBy("name ASC", "id ASC")
	if filter.Featured != nil {
		builder = builder.Where(squirrel.Eq{"featured": *filter.Featured})
	}
	if filter.OnlyActive {
		builder = builder.Where(squirrel.Eq{"active": true})
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

	activities := make([]*domain.Activity, 0)
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan activity: %w", ErrScanRow, err)
		}
		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows iteration: %w", ErrScanRow, err)
	}

	return activities, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanActivity(row rowScanner) (*domain.Activity, error) {
	var (
		a             domain.Activity
		images        pq.StringArray
		originalPrice sql.NullFloat64
		weekdays      pq.Int64Array
		times         pq.StringArray
		createdAt     time.Time
		updatedAt     time.Time
	)

	err := row.Scan(
		&a.ID,
		&a.Slug,
		&a.Name,
		&a.Description,
		&images,
		&a.Price,
		&originalPrice,
		&a.Currency,
		&a.DurationMinutes,
		&a.Featured,
		&a.Rating,
		&a.ReviewCount,
		&a.Active,
		&weekdays,
		&times,
		&a.Schedule.DefaultSeats,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.Images = []string(images)
	if originalPrice.Valid {
		v := originalPrice.Float64
		a.OriginalPrice = &v
	}
	for _, d := range weekdays {
		a.Schedule.Weekdays = append(a.Schedule.Weekdays, time.Weekday(d))
	}
	for _, s := range times {
		ts, err := types.NewTimeStringFromString(s)
		if err != nil {
			return nil, fmt.Errorf("schedule time %q: %w", s, err)
		}
		a.Schedule.Times = append(a.Schedule.Times, ts)
	}
	a.CreatedAt = createdAt
	a.UpdatedAt = updatedAt

	return &a, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func weekdaysToInts(days []time.Weekday) []int64 {
	out := make([]int64, 0, len(days))
	for _, d := range days {
		out = append(out, int64(d))
	}
	return out
}

func timesToStrings(times []types.TimeString) []string {
	out := make([]string, 0, len(times))
	for _, t := range times {
		out = append(out, t.String())
	}
	return out
}
