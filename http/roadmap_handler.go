package http

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"greengain/domain"
	"greengain/service"
)

type RoadmapHandler struct {
	service *service.RoadmapService
	logger  *zap.Logger
}

func NewRoadmapHandler(service *service.RoadmapService, logger *zap.Logger) *RoadmapHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoadmapHandler{service: service, logger: logger}
}

// Analyze handles POST /roadmap/analyze.
func (h *RoadmapHandler) Analyze(w http.ResponseWriter, r *http.Request) {

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var roadmap domain.Roadmap
	if !decodeJSON(w, r, &roadmap) {
		return
	}

	analysis, err := h.service.Analyze(r.Context(), roadmap)
	if errors.Is(err, service.ErrInvalidRoadmap) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		h.logger.Error("roadmap analysis failed", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, analysis)
}
