package activities

import "errors"

var (
	// ErrActivityNotFound возвращается, когда активность не найдена
	ErrActivityNotFound = errors.New("activities: activity not found")

	// ErrSlugTaken возвращается при повторном использовании slug
	ErrSlugTaken = errors.New("activities: slug already taken")

	// ErrActivityInUse возвращается при удалении активности с бронированиями
	ErrActivityInUse = errors.New("activities: activity has reservations")

	// ErrBookingFieldsLocked возвращается при изменении цены, расписания и т.п. после первого бронирования
	ErrBookingFieldsLocked = errors.New("activities: booking fields are locked once reservations exist")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("activities: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("activities: internal error")
)
