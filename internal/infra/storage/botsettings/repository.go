package botsettings

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-TourBookingService/internal/domain"
	"github.com/m04kA/SMC-TourBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-TourBookingService/pkg/psqlbuilder"
)

// settingsRowID единственная строка таблицы bot_settings
const settingsRowID = 1

// Repository репозиторий настроек бота
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория настроек бота
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Get получает сохранённые настройки
func (r *Repository) Get(ctx context.Context) (*domain.BotSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("enabled", "welcome_message", "fallback_reply", "updated_at").
		From("bot_settings").
		Where(squirrel.Eq{"id": settingsRowID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Get - build select query: %w", ErrBuildQuery, err)
	}

	var s domain.BotSettings
	err = executor.QueryRowContext(ctx, query, args...).Scan(&s.Enabled, &s.WelcomeMessage, &s.FallbackReply, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrSettingsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - scan settings: %w", ErrExecQuery, err)
	}

	return &s, nil
}

// Upsert сохраняет настройки, создавая строку при первом вызове
func (r *Repository) Upsert(ctx context.Context, s *domain.BotSettings) (*domain.BotSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bot_settings").
		Columns("id", "enabled", "welcome_message", "fallback_reply").
		Values(settingsRowID, s.Enabled, s.WelcomeMessage, s.FallbackReply).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			enabled = EXCLUDED.enabled,
			welcome_message = EXCLUDED.welcome_message,
			fallback_reply = EXCLUDED.fallback_reply,
			updated_at = NOW()
		RETURNING updated_at`).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %w", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&s.UpdatedAt); err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %w", ErrExecQuery, err)
	}

	return s, nil
}
