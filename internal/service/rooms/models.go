package rooms

import "github.com/itvlab/lab-scheduler/internal/domain"

// RoomResponse комната в ответе API
type RoomResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// FromDomainRooms конвертирует список domain моделей в DTO
func FromDomainRooms(rooms []*domain.Room) []RoomResponse {
	resp := make([]RoomResponse, 0, len(rooms))
	for _, r := range rooms {
		resp = append(resp, RoomResponse{
			ID:       r.ID,
			Name:     r.Name,
			Category: string(r.Category),
		})
	}
	return resp
}
