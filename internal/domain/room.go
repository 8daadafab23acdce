package domain

import "strings"

// RoomCategory категория комнаты
type RoomCategory string

const (
	CategoryGeneral     RoomCategory = "general"     // Общие комнаты "Geral N", действует правило эксклюзивности
	CategorySpecialized RoomCategory = "specialized" // Специализированные комнаты и оборудование
)

// IsValid проверяет, что категория известна
func (c RoomCategory) IsValid() bool {
	return c == CategoryGeneral || c == CategorySpecialized
}

// Room комната или рабочее место лаборатории
type Room struct {
	ID       int64
	Name     string
	Category RoomCategory
}

// IsGeneral returns true for shared "Geral" rooms
func (r *Room) IsGeneral() bool {
	return r.Category == CategoryGeneral
}

// CategoryForName определяет категорию по имени комнаты при первичном заполнении
func CategoryForName(name string) RoomCategory {
	if strings.HasPrefix(name, GeneralRoomPrefix) {
		return CategoryGeneral
	}
	return CategorySpecialized
}
