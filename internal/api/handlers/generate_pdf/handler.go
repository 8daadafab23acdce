package generate_pdf

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/itvlab/lab-scheduler/internal/api/handlers"
	"github.com/itvlab/lab-scheduler/pkg/types"
)

const msgInvalidDate = "Data inválida, use o formato AAAA-MM-DD."

type Handler struct {
	service      ScheduleService
	renderer     Renderer
	timeProvider TimeProvider
	logger       Logger
}

type Option func(h *Handler)

// WithTimeProvider подменяет источник текущей даты для недели по умолчанию
func WithTimeProvider(tp TimeProvider) Option {
	return func(h *Handler) {
		h.timeProvider = tp
	}
}

func NewHandler(service ScheduleService, renderer Renderer, logger Logger, opts ...Option) *Handler {
	h := &Handler{
		service:      service,
		renderer:     renderer,
		timeProvider: realTimeProvider{},
		logger:       logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Handle GET /api/generate-pdf?week_start_date=YYYY-MM-DD
// Без параметра используется текущая неделя.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	date := types.DateOf(h.timeProvider.Now())
	if raw := r.URL.Query().Get("week_start_date"); raw != "" {
		d, err := types.ParseDate(raw)
		if err != nil {
			h.logger.Warn("GET /generate-pdf - Invalid week_start_date=%q: %v", raw, err)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		date = d
	}

	week, err := h.service.WeekSchedule(r.Context(), date)
	if err != nil {
		h.logger.Error("GET /generate-pdf - Failed to load week %s: %v", date, err)
		handlers.RespondInternalError(w)
		return
	}

	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, week); err != nil {
		h.logger.Error("GET /generate-pdf - Failed to render week %s: %v", week.Start, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /generate-pdf - Week %s rendered, %d bytes", week.Start, buf.Len())
	handlers.RespondFile(w, "application/pdf", fmt.Sprintf("escala_%s.pdf", week.Start), buf.Bytes())
}
