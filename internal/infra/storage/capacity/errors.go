package capacity

import "errors"

var (
	// ErrCapacityNotFound возвращается, когда слот не найден
	ErrCapacityNotFound = errors.New("capacity.repository: capacity not found")

	// ErrCapacityExists возвращается при создании слота с уже занятым ключом (activity, date, time)
	ErrCapacityExists = errors.New("capacity.repository: capacity for this slot already exists")

	// ErrActivityNotFound возвращается, когда слот ссылается на несуществующую активность
	ErrActivityNotFound = errors.New("capacity.repository: activity not found")

	// ErrInsufficientSeats возвращается, когда условное резервирование не затронуло ни одной строки
	ErrInsufficientSeats = errors.New("capacity.repository: not enough remaining seats")

	// ErrInsufficientReserved возвращается, когда освобождается больше мест, чем занято
	ErrInsufficientReserved = errors.New("capacity.repository: releasing more seats than reserved")

	// ErrBelowReserved возвращается при попытке уменьшить вместимость ниже занятых мест
	ErrBelowReserved = errors.New("capacity.repository: total seats below reserved seats")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("capacity.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("capacity.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("capacity.repository: failed to scan row")
)
