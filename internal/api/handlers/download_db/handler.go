package download_db

import (
	"net/http"

	"github.com/itvlab/lab-scheduler/internal/api/handlers"
)

type Handler struct {
	service ExportService
	logger  Logger
}

func NewHandler(service ExportService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /download-db
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	export, err := h.service.Export(r.Context())
	if err != nil {
		h.logger.Error("GET /download-db - Export failed: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /download-db - Sending %s (%d bytes) to %s", export.FileName, len(export.Body), r.RemoteAddr)
	handlers.RespondFile(w, export.ContentType, export.FileName, export.Body)
}
