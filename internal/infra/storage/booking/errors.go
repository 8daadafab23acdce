package booking

import "errors"

var (
	// ErrSlotConflict возвращается, когда слот (комната, дата, период) уже занят
	ErrSlotConflict = errors.New("booking.repository: slot already booked")

	// ErrConcurrentUpdate возвращается при конфликте сериализации конкурентных транзакций
	ErrConcurrentUpdate = errors.New("booking.repository: concurrent update")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")
)
