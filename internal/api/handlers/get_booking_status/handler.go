package get_booking_status

import (
	"net/http"

	"github.com/itvlab/lab-scheduler/internal/api/handlers"
)

type Handler struct {
	useCase GetBookingStatusUseCase
	logger  Logger
}

func NewHandler(useCase GetBookingStatusUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/booking-status
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	resp, err := h.useCase.Execute(r.Context())
	if err != nil {
		h.logger.Error("GET /booking-status - Failed: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(resp))
}
