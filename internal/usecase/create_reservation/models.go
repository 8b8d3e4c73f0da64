package create_reservation

import (
	"github.com/m04kA/SMC-TourBookingService/internal/domain"
)

// Request входные данные для создания бронирования.
// Активность задаётся id или slug; Status и Source по умолчанию pending и direct.
type Request struct {
	ActivityID    int64
	ActivitySlug  string
	Date          string // YYYY-MM-DD
	Time          string // HH:MM, пусто для слота на весь день
	Seats         int
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	Status        string
	Source        string
	ExternalID    *string
	Notes         *string
}

// Response созданное бронирование. Replayed=true, если бронирование
// с тем же внешним id уже было записано и возвращено без изменений.
type Response struct {
	Reservation *domain.Reservation
	Replayed    bool
}
