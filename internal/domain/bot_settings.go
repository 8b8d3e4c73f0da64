package domain

import "time"

// BotSettings controls the WhatsApp bot. Stored as a single row.
type BotSettings struct {
	Enabled        bool
	WelcomeMessage string
	FallbackReply  string
	UpdatedAt      time.Time
}

// DefaultBotSettings used until an operator saves settings
func DefaultBotSettings() *BotSettings {
	return &BotSettings{
		Enabled:        false,
		WelcomeMessage: "Hello! How can we help you plan your trip?",
		FallbackReply:  "Thanks for your message. An agent will reply shortly.",
	}
}
