package create_bookings

import (
	"errors"
	"net/http"

	"github.com/itvlab/lab-scheduler/internal/api/handlers"
	createBookings "github.com/itvlab/lab-scheduler/internal/usecase/create_bookings"
)

const (
	msgInvalidRequestBody = "Corpo da requisição inválido."
	msgCreated            = "Agendamento(s) realizado(s) com sucesso!"
	msgRolledBack         = "Transação revertida, nenhum horário foi salvo. Pode reenviar a solicitação."
)

type Handler struct {
	useCase CreateBookingsUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondErrorDetails(w, http.StatusBadRequest, msgInvalidRequestBody, err.Error())
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest())
	if err != nil {
		reason := createBookings.UserMessage(err)
		switch {
		case errors.Is(err, createBookings.ErrInvalidInput),
			errors.Is(err, createBookings.ErrWindowClosed):
			h.logger.Warn("POST /bookings - Rejected: user=%q, error=%v", req.UserName, err)
			handlers.RespondBadRequest(w, reason)

		case errors.Is(err, createBookings.ErrRoomNotFound):
			h.logger.Warn("POST /bookings - Room not found: user=%q, error=%v", req.UserName, err)
			handlers.RespondNotFound(w, reason)

		case errors.Is(err, createBookings.ErrQuotaExceeded),
			errors.Is(err, createBookings.ErrCategoryConflict),
			errors.Is(err, createBookings.ErrSlotTaken):
			h.logger.Warn("POST /bookings - Conflict: user=%q, error=%v", req.UserName, err)
			handlers.RespondConflict(w, reason)

		default:
			h.logger.Error("POST /bookings - Failed to create bookings: user=%q, error=%v", req.UserName, err)
			handlers.RespondErrorDetails(w, http.StatusInternalServerError, reason, msgRolledBack)
		}
		return
	}

	h.logger.Info("POST /bookings - Bookings created successfully: user=%q, count=%d, notification_sent=%t",
		req.UserName, len(result.Bookings), result.NotificationSent)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
