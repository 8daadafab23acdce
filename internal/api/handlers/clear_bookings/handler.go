package clear_bookings

import (
	"errors"
	"io"
	"net/http"

	"github.com/itvlab/lab-scheduler/internal/api/handlers"
	"github.com/itvlab/lab-scheduler/internal/service/bookings"
)

const (
	msgInvalidRequestBody = "Corpo da requisição inválido."
	msgInvalidFilter      = "Filtro inválido."
	msgInvalidDate        = "Data inválida, use o formato AAAA-MM-DD."
	msgInvalidRange       = "A data inicial deve ser anterior ou igual à data final."
	msgCleared            = "Agendamentos removidos com sucesso."
)

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

// Handle POST /api/admin/clear-bookings
// Пустое тело и пустой фильтр удаляют все бронирования.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req ClearBookingsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("POST /admin/clear-bookings - Invalid request body: %v", err)
		handlers.RespondErrorDetails(w, http.StatusBadRequest, msgInvalidRequestBody, err.Error())
		return
	}

	deleted, err := h.service.Clear(r.Context(), req.ToServiceRequest())
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidDate):
			h.logger.Warn("POST /admin/clear-bookings - Invalid date: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDate)

		case errors.Is(err, bookings.ErrInvalidTimeRange):
			h.logger.Warn("POST /admin/clear-bookings - Invalid range: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRange)

		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("POST /admin/clear-bookings - Invalid filter: %v", err)
			handlers.RespondErrorDetails(w, http.StatusBadRequest, msgInvalidFilter, err.Error())

		default:
			h.logger.Error("POST /admin/clear-bookings - Failed to clear bookings: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /admin/clear-bookings - Deleted %d bookings", deleted)
	handlers.RespondJSON(w, http.StatusOK, ClearBookingsResponse{Message: msgCleared, Deleted: deleted})
}
