package cancel_reservation

import "github.com/m04kA/SMC-TourBookingService/internal/domain"

// Request входные данные для отмены бронирования
type Request struct {
	ReservationID int64
}

// Response отменённое бронирование; Changed=false, если оно уже было отменено
type Response struct {
	Reservation *domain.Reservation
	Changed     bool
}
