package create_bookings

import (
	"strings"
	"unicode/utf8"

	"github.com/itvlab/lab-scheduler/internal/domain"
	"github.com/itvlab/lab-scheduler/pkg/types"
)

// validateRequest структурная проверка и нормализация запроса
func validateRequest(req *Request) (*input, error) {
	if len(req.Slots) == 0 {
		return nil, reject(ErrInvalidInput, "Selecione ao menos um horário.")
	}
	if len(req.Slots) > domain.MaxSlotsPerRequest {
		return nil, reject(ErrInvalidInput, "É possível reservar no máximo %d horários por solicitação.", domain.MaxSlotsPerRequest)
	}

	// Пользователь идентифицируется по имени без пробелов по краям
	userName := strings.TrimSpace(req.UserName)
	if userName == "" {
		return nil, reject(ErrInvalidInput, "O nome é obrigatório.")
	}
	if utf8.RuneCountInString(userName) > domain.MaxNameLength {
		return nil, reject(ErrInvalidInput, "O nome deve ter no máximo %d caracteres.", domain.MaxNameLength)
	}

	userEmail := strings.TrimSpace(req.UserEmail)
	if !isValidEmail(userEmail) {
		return nil, reject(ErrInvalidInput, "E-mail inválido.")
	}

	var coordinator *string
	if req.CoordinatorName != nil {
		name := strings.TrimSpace(*req.CoordinatorName)
		if utf8.RuneCountInString(name) > domain.MaxNameLength {
			return nil, reject(ErrInvalidInput, "O nome do coordenador deve ter no máximo %d caracteres.", domain.MaxNameLength)
		}
		if name != "" {
			coordinator = &name
		}
	}

	in := &input{
		userName:    userName,
		userEmail:   userEmail,
		coordinator: coordinator,
		slots:       make([]domain.Slot, 0, len(req.Slots)),
	}

	seenDates := make(map[types.Date]struct{})
	for i, s := range req.Slots {
		n := i + 1
		if s.RoomID <= 0 {
			return nil, reject(ErrInvalidInput, "Horário %d: sala inválida.", n)
		}
		date, err := types.ParseDate(s.Date)
		if err != nil {
			return nil, reject(ErrInvalidInput, "Horário %d: data inválida, use o formato AAAA-MM-DD.", n)
		}
		period := domain.Period(s.Period)
		if !period.IsValid() {
			return nil, reject(ErrInvalidInput, "Horário %d: período inválido, use %q ou %q.", n, domain.PeriodMorning, domain.PeriodAfternoon)
		}

		in.slots = append(in.slots, domain.Slot{RoomID: s.RoomID, Date: date, Period: period})
		if _, ok := seenDates[date]; !ok {
			seenDates[date] = struct{}{}
			in.dates = append(in.dates, date)
		}
	}

	return in, nil
}

// isValidEmail минимальная синтаксическая проверка: "@" и точка в доменной части
func isValidEmail(email string) bool {
	if email == "" || utf8.RuneCountInString(email) > domain.MaxEmailLength || strings.ContainsAny(email, " \t\r\n") {
		return false
	}
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return false
	}
	host := email[at+1:]
	dot := strings.LastIndex(host, ".")
	return dot > 0 && dot < len(host)-1
}

// checkRooms все комнаты запроса существуют
func checkRooms(slots []domain.Slot, rooms map[int64]*domain.Room) error {
	for _, s := range slots {
		if _, ok := rooms[s.RoomID]; !ok {
			return reject(ErrRoomNotFound, "Sala com ID %d não encontrada.", s.RoomID)
		}
	}
	return nil
}

// checkQuota существующие + запрошенные бронирования пользователя на дату не превышают лимит
func checkQuota(in *input, existing []*domain.Booking) error {
	perDate := make(map[types.Date]int)
	for _, b := range existing {
		perDate[b.BookingDate]++
	}
	requested := make(map[types.Date]int)
	for _, s := range in.slots {
		requested[s.Date]++
	}

	for _, d := range in.dates {
		if perDate[d]+requested[d] > domain.MaxBookingsPerUserPerDay {
			return reject(ErrQuotaExceeded,
				"Limite de %d agendamentos por dia excedido em %s: você já possui %d e solicitou %d.",
				domain.MaxBookingsPerUserPerDay, d.Format(domain.DisplayDateFormat), perDate[d], requested[d])
		}
	}
	return nil
}

// checkGeneralRooms правило комнат "Geral":
// не больше одной комнаты Geral на (дату, период), не больше двух разных комнат Geral
// и двух периодов с Geral на дату, с учетом уже существующих бронирований пользователя.
func checkGeneralRooms(in *input, existing []*domain.Booking, rooms map[int64]*domain.Room) error {
	type dayUsage struct {
		rooms   map[int64]struct{}
		periods map[domain.Period]struct{}
	}
	usage := make(map[types.Date]*dayUsage)
	dayOf := func(d types.Date) *dayUsage {
		u, ok := usage[d]
		if !ok {
			u = &dayUsage{rooms: make(map[int64]struct{}), periods: make(map[domain.Period]struct{})}
			usage[d] = u
		}
		return u
	}

	existingByDP := make(map[domain.DayPeriod][]*domain.Booking)
	for _, b := range existing {
		if b.RoomCategory != domain.CategoryGeneral {
			continue
		}
		dp := b.Slot().DayPeriod()
		existingByDP[dp] = append(existingByDP[dp], b)
		u := dayOf(b.BookingDate)
		u.rooms[b.RoomID] = struct{}{}
		u.periods[b.Period] = struct{}{}
	}

	requestedByDP := make(map[domain.DayPeriod]int64)
	for _, s := range in.slots {
		room := rooms[s.RoomID]
		if !room.IsGeneral() {
			continue
		}
		dp := s.DayPeriod()
		date := s.Date.Format(domain.DisplayDateFormat)

		if other, ok := requestedByDP[dp]; ok && other != s.RoomID {
			return reject(ErrCategoryConflict,
				"Só é permitida uma sala Geral por período: %s e %s foram solicitadas em %s (%s).",
				rooms[other].Name, room.Name, date, s.Period)
		}
		requestedByDP[dp] = s.RoomID

		for _, b := range existingByDP[dp] {
			if b.RoomID != s.RoomID {
				return reject(ErrCategoryConflict,
					"Você já possui a sala %s em %s (%s); só é permitida uma sala Geral por período.",
					b.RoomName, date, s.Period)
			}
		}

		u := dayOf(s.Date)
		u.rooms[s.RoomID] = struct{}{}
		u.periods[s.Period] = struct{}{}

		if len(u.rooms) > domain.MaxGeneralRoomsPerDay {
			return reject(ErrCategoryConflict,
				"Limite de %d salas Geral diferentes por dia excedido em %s.", domain.MaxGeneralRoomsPerDay, date)
		}
		if len(u.periods) > domain.MaxGeneralPeriodsPerDay {
			return reject(ErrCategoryConflict,
				"Limite de %d períodos com sala Geral por dia excedido em %s.", domain.MaxGeneralPeriodsPerDay, date)
		}
	}

	return nil
}

// checkSlotsFree слоты не заняты в хранилище и не повторяются внутри запроса
func checkSlotsFree(slots []domain.Slot, taken []*domain.Booking, rooms map[int64]*domain.Room) error {
	occupied := make(map[domain.Slot]struct{}, len(taken))
	for _, b := range taken {
		occupied[b.Slot()] = struct{}{}
	}

	seen := make(map[domain.Slot]struct{}, len(slots))
	for _, s := range slots {
		date := s.Date.Format(domain.DisplayDateFormat)
		if _, ok := occupied[s]; ok {
			return reject(ErrSlotTaken, "A sala %s já está reservada em %s (%s).", rooms[s.RoomID].Name, date, s.Period)
		}
		if _, ok := seen[s]; ok {
			return reject(ErrSlotTaken, "A sala %s em %s (%s) foi selecionada mais de uma vez.", rooms[s.RoomID].Name, date, s.Period)
		}
		seen[s] = struct{}{}
	}
	return nil
}
