package resolve_capacity

import (
	"github.com/m04kA/SMC-TourBookingService/internal/domain"
)

// Request параметры запроса слотов в виде строк из query.
// Date и диапазон From/To взаимоисключающие.
type Request struct {
	Date     string // YYYY-MM-DD
	From     string // YYYY-MM-DD
	To       string // YYYY-MM-DD
	Activity string // числовой id или slug
}

// Response упорядоченный список слотов
type Response struct {
	Slots []domain.CapacitySlot
}
