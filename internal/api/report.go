// internal/api/report.go
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"insurance-portal/internal/models"
)

// reportRequest is a fully resolved comparison: the client sends back the
// member results it received from a search, with the plans it wants in the
// document flagged Selected.
type reportRequest struct {
	Results  map[int]models.MemberResult `json:"results"`
	Settings models.SharedSettings       `json:"settings"`
}

// handleReport renders the printable comparison document. Unlike the JSON
// resources it responds with HTML; envelope headers still apply.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req reportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if len(req.Results) == 0 {
		writeError(w, http.StatusBadRequest, "results are required")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := s.assembler.Assemble(w, req.Results, req.Settings, time.Now()); err != nil {
		// Headers are already out; the truncated document is all we can do.
		s.log.Error("report rendering failed", map[string]interface{}{"error": err.Error()})
	}
}
