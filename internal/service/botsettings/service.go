package botsettings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-TourBookingService/internal/domain"
	settingsRepo "github.com/m04kA/SMC-TourBookingService/internal/infra/storage/botsettings"
	"github.com/m04kA/SMC-TourBookingService/internal/service/botsettings/models"
	"github.com/m04kA/SMC-TourBookingService/pkg/validation"
)

const maxTextLength = 1600 // лимит длины сообщения WhatsApp

// Service сервис настроек WhatsApp-бота
type Service struct {
	repo   SettingsRepository
	logger Logger
}

// NewService создает новый экземпляр сервиса
func NewService(repo SettingsRepository, logger Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Get возвращает сохранённые настройки или значения по умолчанию
func (s *Service) Get(ctx context.Context) (*domain.BotSettings, error) {
	settings, err := s.repo.Get(ctx)
	if errors.Is(err, settingsRepo.ErrSettingsNotFound) {
		return domain.DefaultBotSettings(), nil
	}
	if err != nil {
		s.logger.Error("Get: repository error: %v", err)
		return nil, fmt.Errorf("%w: get settings: %v", ErrInternal, err)
	}
	return settings, nil
}

// GetSettings возвращает настройки для API
func (s *Service) GetSettings(ctx context.Context) (*models.SettingsResponse, error) {
	settings, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	return models.FromDomain(settings), nil
}

// Update частично обновляет настройки
func (s *Service) Update(ctx context.Context, req *models.UpdateSettingsRequest) (*models.SettingsResponse, error) {
	s.logger.Info("Update: enabled=%v", req.Enabled)

	// 1. Текущие настройки
	settings, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	// 2. Применяем изменения
	if req.Enabled != nil {
		settings.Enabled = *req.Enabled
	}
	if req.WelcomeMessage != nil {
		settings.WelcomeMessage = strings.TrimSpace(*req.WelcomeMessage)
	}
	if req.FallbackReply != nil {
		settings.FallbackReply = strings.TrimSpace(*req.FallbackReply)
	}

	// 3. Валидация
	if len(settings.WelcomeMessage) > maxTextLength {
		return nil, invalid("welcomeMessage", fmt.Sprintf("must not exceed %d characters", maxTextLength))
	}
	if len(settings.FallbackReply) > maxTextLength {
		return nil, invalid("fallbackReply", fmt.Sprintf("must not exceed %d characters", maxTextLength))
	}
	if settings.FallbackReply == "" {
		return nil, invalid("fallbackReply", "is required")
	}

	// 4. Сохраняем
	saved, err := s.repo.Upsert(ctx, settings)
	if err != nil {
		s.logger.Error("Update: repository error: %v", err)
		return nil, fmt.Errorf("%w: save settings: %v", ErrInternal, err)
	}

	s.logger.Info("Update: bot settings saved, enabled=%t", saved.Enabled)
	return models.FromDomain(saved), nil
}

func invalid(field, message string) error {
	return fmt.Errorf("%w: %w", ErrInvalidInput, validation.NewFieldError(field, message))
}
