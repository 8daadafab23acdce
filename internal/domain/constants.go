package domain

// Business validation constants
const (
	// Бронирований одного пользователя на дату
	MaxBookingsPerUserPerDay = 3
	// Разных комнат "Geral" у пользователя на дату
	MaxGeneralRoomsPerDay = 2
	// Периодов с комнатой "Geral" у пользователя на дату
	MaxGeneralPeriodsPerDay = 2

	MaxSlotsPerRequest = 10
	MaxNameLength      = 120
	MaxEmailLength     = 254
	MaxListRangeDays   = 62
	WorkDaysPerWeek    = 5

	GeneralRoomPrefix = "Geral "
)

// Time format constants
const (
	DateFormat        = "2006-01-02" // YYYY-MM-DD
	DisplayDateFormat = "02/01/2006" // DD/MM/YYYY
)

// DefaultRoomNames комнаты лаборатории по умолчанию, порядок определяет их ID
var DefaultRoomNames = []string{
	"Geral 1",
	"Geral 2",
	"Geral 3",
	"Geral 4",
	"Geral 5",
	"Citometria - Bancada",
	"Sala Clara - Lupa esquerda",
	"Geologia 1",
	"Geologia Micrótomo",
	"Cultivo A1",
}
