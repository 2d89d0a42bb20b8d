package http

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"greengain/domain"
	"greengain/repository"
	"greengain/service"
)

type CreditHandler struct {
	credits *service.CreditService
	filler  *service.AutoFiller
	exports *service.ExportService
	logger  *zap.Logger
}

func NewCreditHandler(
	credits *service.CreditService,
	filler *service.AutoFiller,
	exports *service.ExportService,
	logger *zap.Logger,
) *CreditHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CreditHandler{credits: credits, filler: filler, exports: exports, logger: logger}
}

// Calculate handles POST /credits/calculate.
func (h *CreditHandler) Calculate(w http.ResponseWriter, r *http.Request) {

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var costs domain.ItemizedCosts
	if !decodeJSON(w, r, &costs) {
		return
	}

	result := h.credits.Calculate(r.Context(), service.SourceAPI, r.Header.Get(SessionHeader), costs)
	writeJSONWithETag(w, r, result)
}

type autoFillResponse struct {
	service.AutoFillResult
	Result domain.CreditResult `json:"result"`
}

// AutoFill handles POST /credits/autofill. The body is a list of upgrade
// recommendations; the response carries the filled costs and their credit.
func (h *CreditHandler) AutoFill(w http.ResponseWriter, r *http.Request) {

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var recs []domain.Recommendation
	if !decodeJSON(w, r, &recs) {
		return
	}
	if len(recs) > service.MaxRecommendationsPerRequest {
		http.Error(w, "too many recommendations", http.StatusBadRequest)
		return
	}

	filled := h.filler.Fill(recs)
	result := h.credits.Calculate(r.Context(), service.SourceAutoFill, r.Header.Get(SessionHeader), filled.Costs)
	writeJSON(w, http.StatusOK, autoFillResponse{AutoFillResult: filled, Result: result})
}

// Export handles GET /credits/export and serves the session's latest
// estimate as a downloadable summary.
func (h *CreditHandler) Export(w http.ResponseWriter, r *http.Request) {

	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sessionID := r.Header.Get(SessionHeader)
	if sessionID == "" {
		http.Error(w, SessionHeader+" header is required", http.StatusBadRequest)
		return
	}

	est, err := h.credits.Latest(r.Context(), sessionID)
	if errors.Is(err, repository.ErrEstimateNotFound) {
		http.Error(w, "no estimate for session", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("failed to load estimate", zap.String("session", sessionID), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	summary := h.exports.Build(est, h.credits.Rules().TaxYear)
	w.Header().Set("Content-Disposition", `attachment; filename="`+h.exports.FileName(summary.GeneratedAt)+`"`)
	writeJSON(w, http.StatusOK, summary)
}

// Rules handles GET /credits/rules.
func (h *CreditHandler) Rules(w http.ResponseWriter, r *http.Request) {

	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, h.credits.Rules())
}
