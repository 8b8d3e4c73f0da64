package models

import (
	"time"

	"github.com/m04kA/SMC-TourBookingService/internal/domain"
)

// UpdateSettingsRequest запрос на изменение настроек; обновляются только переданные поля
type UpdateSettingsRequest struct {
	Enabled        *bool   `json:"enabled,omitempty"`
	WelcomeMessage *string `json:"welcomeMessage,omitempty"`
	FallbackReply  *string `json:"fallbackReply,omitempty"`
}

// SettingsResponse настройки бота
type SettingsResponse struct {
	Enabled        bool       `json:"enabled"`
	WelcomeMessage string     `json:"welcomeMessage"`
	FallbackReply  string     `json:"fallbackReply"`
	UpdatedAt      *time.Time `json:"updatedAt,omitempty"` // nil, пока настройки не сохранены
}

// FromDomain конвертирует domain модель в response
func FromDomain(s *domain.BotSettings) *SettingsResponse {
	resp := &SettingsResponse{
		Enabled:        s.Enabled,
		WelcomeMessage: s.WelcomeMessage,
		FallbackReply:  s.FallbackReply,
	}
	if !s.UpdatedAt.IsZero() {
		updated := s.UpdatedAt
		resp.UpdatedAt = &updated
	}
	return resp
}
