package domain

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Business validation constants
const (
	MaxSlugLength         = 100
	MaxNameLength         = 200
	MaxNotesLength        = 500
	MaxCustomerNameLength = 200
	MaxSeatsPerRequest    = 100
	MaxTotalSeats         = 10000
	MaxDurationMinutes    = 60 * 24 * 14 // две недели
	MaxImages             = 20
	DefaultCurrency       = "EUR"
)

// Limits for paginated lists
const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

// ActiveStatuses statuses that hold seats on a capacity row
var ActiveStatuses = []ReservationStatus{
	StatusPending,
	StatusConfirmed,
}
