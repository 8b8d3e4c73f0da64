package capacity

import "errors"

var (
	// ErrCapacityNotFound возвращается, когда слот не найден
	ErrCapacityNotFound = errors.New("capacity: slot not found")

	// ErrActivityNotFound возвращается, когда активность слота не существует
	ErrActivityNotFound = errors.New("capacity: activity not found")

	// ErrCapacityExists возвращается при повторном создании слота с тем же ключом
	ErrCapacityExists = errors.New("capacity: slot already exists")

	// ErrBelowReserved возвращается при уменьшении вместимости ниже занятых мест
	ErrBelowReserved = errors.New("capacity: total seats below reserved seats")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("capacity: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("capacity: internal error")
)
