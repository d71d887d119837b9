package httpapi

import (
	"net/http"

	"seedbreed/internal/service"

	"go.uber.org/zap"
)

type DashboardHandler struct {
	svc    *service.DashboardService
	logger *zap.Logger
}

func NewDashboardHandler(svc *service.DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{svc: svc, logger: logger}
}

func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, "DashboardStats", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(stats))
}
