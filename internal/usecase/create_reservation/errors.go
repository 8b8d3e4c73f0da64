package create_reservation

import "errors"

var (
	// ErrActivityNotFound возвращается, когда активность не найдена или неактивна
	ErrActivityNotFound = errors.New("create_reservation: activity not found")

	// ErrSlotNotFound возвращается, когда для ключа нет ни строки, ни слота в расписании
	ErrSlotNotFound = errors.New("create_reservation: slot not found")

	// ErrCapacityExceeded возвращается, когда свободных мест меньше запрошенных
	ErrCapacityExceeded = errors.New("create_reservation: not enough remaining seats")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_reservation: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_reservation: internal error")
)
