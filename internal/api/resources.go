// internal/api/resources.go
package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	apperrors "insurance-portal/internal/common/errors"
	"insurance-portal/internal/common/validation"
	"insurance-portal/internal/models"
	"insurance-portal/internal/overrides"
)

// legacyEditPrefix marks plan-identity edits stored inside the benefits
// collection by older clients; GET re-exposes them under the same keys.
const legacyEditPrefix = "PLAN_EDIT_"

// readValidated reads the body and validates it against a JSON schema,
// responding 400 on failure. Returns nil when the request was already
// answered.
func (s *Server) readValidated(w http.ResponseWriter, r *http.Request, schema string) []byte {
	body, err := io.ReadAll(r.Body)
	if err != nil || len(body) == 0 {
		writeError(w, http.StatusBadRequest, "request body required")
		return nil
	}
	result, err := validation.ValidateJSON(schema, body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return nil
	}
	if !result.Valid {
		e := apperrors.NewInvalidPayloadError(result.FirstError())
		s.log.Warn(e.Message, map[string]interface{}{
			"code":    string(e.Code),
			"path":    r.URL.Path,
			"details": e.Details,
		})
		writeError(w, http.StatusBadRequest, result.FirstError())
		return nil
	}
	return body
}

// ---- /api/benefits ----

func (s *Server) handleBenefits(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		snap, warning := s.overrides.Shared(r.Context())
		out := make(map[string]interface{}, len(snap.Benefits)+len(snap.PlanEdits))
		for key, b := range snap.Benefits {
			out[key] = b
		}
		for planID, edit := range snap.PlanEdits {
			out[legacyEditPrefix+planID] = edit
		}
		resp := map[string]interface{}{"success": true, "benefits": out}
		if warning != "" {
			resp["warning"] = warning
		}
		writeJSON(w, http.StatusOK, resp)

	case http.MethodPost:
		body := s.readValidated(w, r, benefitsPostSchema)
		if body == nil {
			return
		}
		var req struct {
			PlanKey  string          `json:"planKey"`
			Benefits json.RawMessage `json:"benefits"`
		}
		if err := json.Unmarshal(body, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON payload")
			return
		}

		// Edits posted under the reserved prefix are plan-identity edits.
		if planID, ok := strings.CutPrefix(req.PlanKey, legacyEditPrefix); ok {
			var edit overrides.PlanEdit
			if err := json.Unmarshal(req.Benefits, &edit); err != nil {
				writeError(w, http.StatusBadRequest, "invalid plan edit payload")
				return
			}
			synced := s.overrides.SavePlanEdit(r.Context(), planID, edit)
			writeSyncResult(w, map[string]interface{}{"planKey": req.PlanKey}, synced)
			return
		}

		var b models.BenefitSet
		if err := json.Unmarshal(req.Benefits, &b); err != nil {
			writeError(w, http.StatusBadRequest, "invalid benefits payload")
			return
		}
		synced := s.overrides.SaveBenefits(r.Context(), req.PlanKey, b)
		writeSyncResult(w, map[string]interface{}{"planKey": req.PlanKey}, synced)

	default:
		methodNotAllowed(w)
	}
}

// ---- /api/plan-edits ----

func (s *Server) handlePlanEdits(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		snap, warning := s.overrides.Shared(r.Context())
		resp := map[string]interface{}{"success": true, "edits": snap.PlanEdits}
		if warning != "" {
			resp["warning"] = warning
		}
		writeJSON(w, http.StatusOK, resp)

	case http.MethodPost:
		body := s.readValidated(w, r, planEditPostSchema)
		if body == nil {
			return
		}
		var req struct {
			PlanID string             `json:"planId"`
			Edits  overrides.PlanEdit `json:"edits"`
		}
		if err := json.Unmarshal(body, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON payload")
			return
		}
		synced := s.overrides.SavePlanEdit(r.Context(), req.PlanID, req.Edits)
		writeSyncResult(w, map[string]interface{}{"planId": req.PlanID}, synced)

	case http.MethodDelete:
		body := s.readValidated(w, r, planEditDeleteSchema)
		if body == nil {
			return
		}
		var req struct {
			PlanID string `json:"planId"`
		}
		if err := json.Unmarshal(body, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON payload")
			return
		}
		synced := s.overrides.DeletePlanEdit(r.Context(), req.PlanID)
		writeSyncResult(w, map[string]interface{}{"planId": req.PlanID}, synced)

	default:
		methodNotAllowed(w)
	}
}

// ---- /api/manual-plans ----

func (s *Server) handleManualPlans(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		snap, warning := s.overrides.Shared(r.Context())
		resp := map[string]interface{}{"success": true, "plans": snap.ManualPlans}
		if warning != "" {
			resp["warning"] = warning
		}
		writeJSON(w, http.StatusOK, resp)

	case http.MethodPost:
		body := s.readValidated(w, r, manualPlansPostSchema)
		if body == nil {
			return
		}
		var req struct {
			Plans map[string][]models.ManualPlanRecord `json:"plans"`
		}
		if err := json.Unmarshal(body, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON payload")
			return
		}
		fillManualPlanIDs(req.Plans, time.Now())
		synced := s.overrides.SaveManualPlans(r.Context(), req.Plans)
		writeSyncResult(w, map[string]interface{}{}, synced)

	case http.MethodDelete:
		body := s.readValidated(w, r, manualPlanDeleteSchema)
		if body == nil {
			return
		}
		var req struct {
			ProviderKey string `json:"providerKey"`
			PlanID      string `json:"planId"`
		}
		if err := json.Unmarshal(body, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON payload")
			return
		}
		synced := s.overrides.DeleteManualPlan(r.Context(), req.ProviderKey, req.PlanID)
		writeSyncResult(w, map[string]interface{}{"planId": req.PlanID}, synced)

	default:
		methodNotAllowed(w)
	}
}

// fillManualPlanIDs assigns `{providerKey}_{unixMillis}` identities to
// records the client did not identify, keeping ids unique within a batch.
func fillManualPlanIDs(plans map[string][]models.ManualPlanRecord, now time.Time) {
	millis := now.UnixMilli()
	for providerKey, records := range plans {
		for i := range records {
			if records[i].ID == "" {
				records[i].ID = providerKey + "_" + strconv.FormatInt(millis, 10)
				millis++
			}
		}
		plans[providerKey] = records
	}
}

// writeSyncResult reports a write outcome: success either way, but with an
// explicit flag and warning when the edit was retained locally only.
func writeSyncResult(w http.ResponseWriter, fields map[string]interface{}, synced bool) {
	resp := map[string]interface{}{"success": true, "cloudSynced": synced}
	for k, v := range fields {
		resp[k] = v
	}
	if !synced {
		resp["warning"] = "cloud sync failed, change kept locally"
	}
	writeJSON(w, http.StatusOK, resp)
}
