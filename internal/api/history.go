// internal/api/history.go
package api

import (
	"encoding/json"
	"net/http"

	"insurance-portal/internal/history"
)

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, http.StatusServiceUnavailable, "report history is disabled")
		return
	}

	switch r.Method {
	case http.MethodGet:
		snapshots, err := s.history.List(r.Context())
		if err != nil {
			s.log.Error("history list failed", map[string]interface{}{"error": err.Error()})
			writeError(w, http.StatusInternalServerError, "failed to load report history")
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"history": snapshots,
		})

	case http.MethodPost:
		body := s.readValidated(w, r, historyPostSchema)
		if body == nil {
			return
		}
		var snap history.Snapshot
		if err := json.Unmarshal(body, &snap); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON payload")
			return
		}
		saved, err := s.history.Save(r.Context(), snap)
		if err != nil {
			s.log.Error("history save failed", map[string]interface{}{"error": err.Error()})
			writeError(w, http.StatusInternalServerError, "failed to save report snapshot")
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"id":      saved.ID,
		})

	default:
		methodNotAllowed(w)
	}
}
