package get_bookings

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/itvlab/lab-scheduler/internal/api/handlers"
	"github.com/itvlab/lab-scheduler/internal/domain"
	"github.com/itvlab/lab-scheduler/internal/service/bookings"
	"github.com/itvlab/lab-scheduler/internal/service/bookings/models"
)

const (
	msgMissingDates = "Os parâmetros start_date e end_date são obrigatórios."
	msgInvalidDate  = "Data inválida, use o formato AAAA-MM-DD."
	msgInvalidRange = "A data inicial deve ser anterior ou igual à data final."
)

var msgRangeTooLong = fmt.Sprintf("O período consultado não pode exceder %d dias.", domain.MaxListRangeDays)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/bookings?start_date=YYYY-MM-DD&end_date=YYYY-MM-DD
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	req := &models.ListBookingsRequest{
		StartDate: r.URL.Query().Get("start_date"),
		EndDate:   r.URL.Query().Get("end_date"),
	}

	result, err := h.service.ListBookings(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /bookings - Missing dates: %v", err)
			handlers.RespondBadRequest(w, msgMissingDates)

		case errors.Is(err, bookings.ErrInvalidDate):
			h.logger.Warn("GET /bookings - Invalid date: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDate)

		case errors.Is(err, bookings.ErrInvalidTimeRange):
			h.logger.Warn("GET /bookings - Invalid range: start=%s, end=%s", req.StartDate, req.EndDate)
			handlers.RespondBadRequest(w, msgInvalidRange)

		case errors.Is(err, bookings.ErrRangeTooLong):
			h.logger.Warn("GET /bookings - Range too long: start=%s, end=%s", req.StartDate, req.EndDate)
			handlers.RespondBadRequest(w, msgRangeTooLong)

		default:
			h.logger.Error("GET /bookings - Failed to list bookings: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
