package mailer

import "errors"

var (
	// ErrNoSlots возвращается, когда в подтверждении нет слотов
	ErrNoSlots = errors.New("mailer: confirmation has no slots")

	// ErrRender ошибка формирования письма
	ErrRender = errors.New("mailer: failed to render message")

	// ErrSend ошибка отправки письма
	ErrSend = errors.New("mailer: failed to send message")
)
