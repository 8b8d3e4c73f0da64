package ingest_order

import "errors"

var (
	// ErrInvalidInput возвращается при пустом заказе
	ErrInvalidInput = errors.New("ingest_order: invalid input data")

	// ErrInternal возвращается при ошибках хранилища; платформа повторит доставку
	ErrInternal = errors.New("ingest_order: internal error")
)
