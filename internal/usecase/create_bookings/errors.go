package create_bookings

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_bookings: invalid input")

	// ErrWindowClosed возвращается, когда дата вне окна бронирования
	ErrWindowClosed = errors.New("create_bookings: booking window closed")

	// ErrRoomNotFound возвращается, когда комната не найдена
	ErrRoomNotFound = errors.New("create_bookings: room not found")

	// ErrQuotaExceeded возвращается при превышении дневного лимита пользователя
	ErrQuotaExceeded = errors.New("create_bookings: daily quota exceeded")

	// ErrCategoryConflict возвращается при нарушении правила комнат "Geral"
	ErrCategoryConflict = errors.New("create_bookings: general room conflict")

	// ErrSlotTaken возвращается, когда слот уже занят или повторяется в запросе
	ErrSlotTaken = errors.New("create_bookings: slot already taken")

	// ErrPersistence возвращается при ошибке записи; пакет откатывается целиком
	ErrPersistence = errors.New("create_bookings: persistence failure")
)

const msgPersistence = "Não foi possível salvar os agendamentos. Nenhum horário foi reservado, tente novamente."

// ValidationError отказ с текстом для пользователя.
// Kind один из sentinel-ошибок пакета, errors.Is работает через Unwrap.
type ValidationError struct {
	Kind   error
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: %s", e.Kind, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Kind
}

func reject(kind error, format string, args ...interface{}) error {
	return &ValidationError{Kind: kind, Reason: fmt.Sprintf(format, args...)}
}

// UserMessage возвращает текст ошибки для пользователя
func UserMessage(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Reason
	}
	return msgPersistence
}

// outcome метка результата для метрик
func outcome(err error) string {
	switch {
	case err == nil:
		return "committed"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrWindowClosed):
		return "window_closed"
	case errors.Is(err, ErrRoomNotFound):
		return "room_not_found"
	case errors.Is(err, ErrQuotaExceeded):
		return "quota_exceeded"
	case errors.Is(err, ErrCategoryConflict):
		return "category_conflict"
	case errors.Is(err, ErrSlotTaken):
		return "slot_taken"
	default:
		return "persistence_failure"
	}
}
