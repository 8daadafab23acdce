package rooms

import "errors"

var (
	// ErrInvalidInput возвращается при некорректном списке комнат
	ErrInvalidInput = errors.New("rooms: invalid input")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("rooms: internal error")
)
