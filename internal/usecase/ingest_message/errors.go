package ingest_message

import "errors"

var (
	// ErrInvalidInput возвращается при пустом сообщении
	ErrInvalidInput = errors.New("ingest_message: invalid input data")

	// ErrInternal возвращается при ошибках хранилища
	ErrInternal = errors.New("ingest_message: internal error")
)
