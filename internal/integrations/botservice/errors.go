package botservice

import "errors"

var (
	// ErrNotConfigured возвращается, когда адрес оркестратора не задан
	ErrNotConfigured = errors.New("botservice client: url is not configured")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("botservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("botservice client: invalid response")
)
