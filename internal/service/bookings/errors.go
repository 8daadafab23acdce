package bookings

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("bookings: invalid input")

	// ErrInvalidDate возвращается при некорректном формате даты
	ErrInvalidDate = errors.New("bookings: invalid date")

	// ErrInvalidTimeRange возвращается, когда начало периода позже конца
	ErrInvalidTimeRange = errors.New("bookings: start date after end date")

	// ErrRangeTooLong возвращается, когда период выборки слишком длинный
	ErrRangeTooLong = errors.New("bookings: date range too long")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("bookings: internal error")
)
