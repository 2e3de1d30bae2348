// internal/api/search.go
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"insurance-portal/internal/common/metrics"
	"insurance-portal/internal/models"
	"insurance-portal/internal/overrides"
)

// searchRequest carries the family, the shared settings and any overrides
// the client keeps locally (device-scoped benefits and premium edits).
type searchRequest struct {
	Members        []models.FamilyMember `json:"members"`
	Settings       models.SharedSettings `json:"settings"`
	LocalOverrides struct {
		Benefits map[string]models.BenefitSet    `json:"benefits"`
		Premiums map[string]overrides.PremiumEdit `json:"premiums"`
	} `json:"localOverrides"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	start := time.Now()
	body := s.readValidated(w, r, searchPostSchema)
	if body == nil {
		metrics.SearchesTotal.WithLabelValues("rejected").Inc()
		return
	}

	var req searchRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		metrics.SearchesTotal.WithLabelValues("rejected").Inc()
		return
	}

	snap, warning := s.overrides.Shared(r.Context())
	for planID, b := range req.LocalOverrides.Benefits {
		snap.LocalBenefits[planID] = b
	}
	for key, p := range req.LocalOverrides.Premiums {
		snap.LocalPremiums[key] = p
	}

	result, err := s.engine.Search(r.Context(), req.Members, req.Settings, snap)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		metrics.SearchesTotal.WithLabelValues("error").Inc()
		s.obs.RecordSearch(r.Context(), "error")
		return
	}

	metrics.SearchesTotal.WithLabelValues("ok").Inc()
	s.obs.RecordSearch(r.Context(), "ok")
	s.obs.RecordSearchDuration(r.Context(), time.Since(start), "ok")

	resp := map[string]interface{}{
		"success": true,
		"results": result.Members,
	}
	if len(result.Skipped) > 0 {
		resp["skipped"] = result.Skipped
	}
	if warning != "" {
		resp["warnings"] = []string{warning}
	}
	writeJSON(w, http.StatusOK, resp)
}
