package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"insurance-portal/internal/common/logger"
	"insurance-portal/internal/common/observability"
	"insurance-portal/internal/engine/benefits"
	"insurance-portal/internal/engine/comparison"
	"insurance-portal/internal/models"
	"insurance-portal/internal/overrides"
	"insurance-portal/internal/ratetable"
	"insurance-portal/internal/report"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestServer(t *testing.T) *Server {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	log := logger.NewZapAdapter(zaptest.NewLogger(t))
	table := ratetable.New(ratetable.Rates{
		"ORIENT": {
			"IMED_DXB_LSB": {
				"18-30": {"M": 698, "F": 1185},
				"31-45": {"M": 745, "F": 1320},
			},
		},
	})
	engine := comparison.NewEngine(table, benefits.NewResolver(nil), log).
		WithClock(func() time.Time { return time.Date(2024, 7, 15, 12, 0, 0, 0, time.UTC) })
	overrideSvc := overrides.NewService(overrides.NewRedisStore(client, log), log)
	providers := []models.ManualProvider{{ID: "salama", Name: "Salama", Networks: []string{"Gold"}}}

	return NewServer(engine, overrideSvc, nil, report.NewAssembler(), providers, observability.New("test"), log)
}

func doJSON(t *testing.T, s *Server, method, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, path, body)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

// ==========================
// Envelope Tests
// ==========================

func TestServer_OptionsPreflight(t *testing.T) {
	s := createTestServer(t)

	for _, path := range []string{"/api/benefits", "/api/plan-edits", "/api/manual-plans", "/api/search"} {
		rec := doJSON(t, s, http.MethodOptions, path, nil)
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"), path)
		assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "OPTIONS", path)
	}
}

func TestServer_NoCacheHeaders(t *testing.T) {
	s := createTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/api/benefits", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Cache-Control"), "no-store")
	assert.Equal(t, "no-cache", rec.Header().Get("Pragma"))
	assert.Equal(t, "0", rec.Header().Get("Expires"))
}

func TestServer_MethodNotAllowed(t *testing.T) {
	s := createTestServer(t)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodPut, "/api/benefits"},
		{http.MethodDelete, "/api/benefits"},
		{http.MethodPut, "/api/plan-edits"},
		{http.MethodPost, "/api/providers"},
		{http.MethodGet, "/api/search"},
		{http.MethodGet, "/api/report"},
		{http.MethodPost, "/healthz"},
	}

	for _, tt := range tests {
		rec := doJSON(t, s, tt.method, tt.path, nil)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code, "%s %s", tt.method, tt.path)
		body := decodeBody(t, rec)
		assert.Equal(t, false, body["success"])
	}
}

func TestServer_Health(t *testing.T) {
	s := createTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeBody(t, rec)["success"])
}

// ==========================
// Resource Tests
// ==========================

func TestServer_BenefitsRoundTrip(t *testing.T) {
	s := createTestServer(t)

	post := doJSON(t, s, http.MethodPost, "/api/benefits", map[string]interface{}{
		"planKey":  "ORIENT_IMED_DXB_LSB",
		"benefits": map[string]interface{}{"annualLimit": "AED 250,000"},
	})
	require.Equal(t, http.StatusOK, post.Code)
	assert.Equal(t, true, decodeBody(t, post)["cloudSynced"])

	get := doJSON(t, s, http.MethodGet, "/api/benefits", nil)
	require.Equal(t, http.StatusOK, get.Code)
	body := decodeBody(t, get)
	stored := body["benefits"].(map[string]interface{})["ORIENT_IMED_DXB_LSB"].(map[string]interface{})
	assert.Equal(t, "AED 250,000", stored["annualLimit"])
}

func TestServer_BenefitsPostValidation(t *testing.T) {
	s := createTestServer(t)

	tests := []struct {
		name    string
		payload interface{}
	}{
		{name: "empty body", payload: nil},
		{name: "missing planKey", payload: map[string]interface{}{"benefits": map[string]interface{}{}}},
		{name: "missing benefits", payload: map[string]interface{}{"planKey": "X"}},
		{name: "empty planKey", payload: map[string]interface{}{"planKey": "", "benefits": map[string]interface{}{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, s, http.MethodPost, "/api/benefits", tt.payload)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, false, decodeBody(t, rec)["success"])
		})
	}
}

func TestServer_BenefitsPostRoutesLegacyPlanEdits(t *testing.T) {
	s := createTestServer(t)

	post := doJSON(t, s, http.MethodPost, "/api/benefits", map[string]interface{}{
		"planKey":  "PLAN_EDIT_ORIENT_IMED_DXB_LSB",
		"benefits": map[string]interface{}{"plan": "Renamed"},
	})
	require.Equal(t, http.StatusOK, post.Code)

	get := doJSON(t, s, http.MethodGet, "/api/plan-edits", nil)
	body := decodeBody(t, get)
	edits := body["edits"].(map[string]interface{})
	edit := edits["ORIENT_IMED_DXB_LSB"].(map[string]interface{})
	assert.Equal(t, "Renamed", edit["plan"])
}

func TestServer_PlanEditLifecycle(t *testing.T) {
	s := createTestServer(t)

	post := doJSON(t, s, http.MethodPost, "/api/plan-edits", map[string]interface{}{
		"planId": "ORIENT_IMED_DXB_LSB",
		"edits":  map[string]interface{}{"network": "Custom Network"},
	})
	require.Equal(t, http.StatusOK, post.Code)

	get := doJSON(t, s, http.MethodGet, "/api/plan-edits", nil)
	edits := decodeBody(t, get)["edits"].(map[string]interface{})
	require.Contains(t, edits, "ORIENT_IMED_DXB_LSB")

	del := doJSON(t, s, http.MethodDelete, "/api/plan-edits", map[string]interface{}{
		"planId": "ORIENT_IMED_DXB_LSB",
	})
	require.Equal(t, http.StatusOK, del.Code)

	get = doJSON(t, s, http.MethodGet, "/api/plan-edits", nil)
	edits = decodeBody(t, get)["edits"].(map[string]interface{})
	assert.NotContains(t, edits, "ORIENT_IMED_DXB_LSB")
}

func TestServer_ManualPlansLifecycle(t *testing.T) {
	s := createTestServer(t)

	post := doJSON(t, s, http.MethodPost, "/api/manual-plans", map[string]interface{}{
		"plans": map[string]interface{}{
			"salama": []map[string]interface{}{
				{"provider": "Salama", "plan": "Gold", "network": "Gold", "premium": 1200},
			},
		},
	})
	require.Equal(t, http.StatusOK, post.Code)

	get := doJSON(t, s, http.MethodGet, "/api/manual-plans", nil)
	plans := decodeBody(t, get)["plans"].(map[string]interface{})
	records := plans["salama"].([]interface{})
	require.Len(t, records, 1)
	id := records[0].(map[string]interface{})["id"].(string)
	assert.Contains(t, id, "salama_", "missing record id is generated")

	del := doJSON(t, s, http.MethodDelete, "/api/manual-plans", map[string]interface{}{
		"providerKey": "salama",
		"planId":      id,
	})
	require.Equal(t, http.StatusOK, del.Code)

	get = doJSON(t, s, http.MethodGet, "/api/manual-plans", nil)
	plans = decodeBody(t, get)["plans"].(map[string]interface{})
	if records, ok := plans["salama"].([]interface{}); ok {
		assert.Empty(t, records)
	}
}

func TestServer_Providers(t *testing.T) {
	s := createTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/api/providers", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	providers := decodeBody(t, rec)["providers"].([]interface{})
	require.Len(t, providers, 1)
	assert.Equal(t, "Salama", providers[0].(map[string]interface{})["name"])
}

// ==========================
// Search Endpoint Tests
// ==========================

func TestServer_Search(t *testing.T) {
	s := createTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/search", map[string]interface{}{
		"members": []map[string]interface{}{
			{"id": 1, "name": "Ahmed", "dob": "1990-01-15", "gender": "Male", "sponsorship": "Principal"},
		},
		"settings": map[string]interface{}{
			"location":       "Dubai",
			"salaryCategory": "below4000",
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	results := body["results"].(map[string]interface{})
	res := results["1"].(map[string]interface{})
	assert.Equal(t, float64(35), res["age"])
	comparison := res["comparison"].([]interface{})
	require.Len(t, comparison, 1)
	assert.Equal(t, float64(745), comparison[0].(map[string]interface{})["premium"])
}

func TestServer_SearchAppliesLocalOverrides(t *testing.T) {
	s := createTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/search", map[string]interface{}{
		"members": []map[string]interface{}{
			{"id": 1, "dob": "1990-01-15", "gender": "Male", "sponsorship": "Principal"},
		},
		"settings": map[string]interface{}{
			"location":       "Dubai",
			"salaryCategory": "below4000",
		},
		"localOverrides": map[string]interface{}{
			"premiums": map[string]interface{}{
				"1_ORIENT_IMED_DXB_LSB": map[string]interface{}{"premium": 500},
			},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	results := decodeBody(t, rec)["results"].(map[string]interface{})
	comparison := results["1"].(map[string]interface{})["comparison"].([]interface{})
	assert.Equal(t, float64(500), comparison[0].(map[string]interface{})["premium"])
}

func TestServer_SearchValidation(t *testing.T) {
	s := createTestServer(t)

	tests := []struct {
		name    string
		payload interface{}
	}{
		{name: "no members", payload: map[string]interface{}{
			"members":  []interface{}{},
			"settings": map[string]interface{}{"location": "Dubai", "salaryCategory": "below4000"},
		}},
		{name: "bad location enum", payload: map[string]interface{}{
			"members":  []map[string]interface{}{{"id": 1}},
			"settings": map[string]interface{}{"location": "Abu Dhabi", "salaryCategory": "below4000"},
		}},
		{name: "missing settings", payload: map[string]interface{}{
			"members": []map[string]interface{}{{"id": 1}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, s, http.MethodPost, "/api/search", tt.payload)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestServer_SearchReportsSkippedMembers(t *testing.T) {
	s := createTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/search", map[string]interface{}{
		"members": []map[string]interface{}{
			{"id": 1, "dob": "1990-01-15", "gender": "Male", "sponsorship": "Principal"},
			{"id": 2, "name": "NoDOB", "gender": "Female", "sponsorship": "Wife"},
		},
		"settings": map[string]interface{}{
			"location":       "Dubai",
			"salaryCategory": "below4000",
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	skipped := body["skipped"].([]interface{})
	require.Len(t, skipped, 1)
	assert.Equal(t, float64(2), skipped[0].(map[string]interface{})["memberId"])
}

// ==========================
// Report & History Tests
// ==========================

func TestServer_ReportRendersSelectedPlans(t *testing.T) {
	s := createTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/report", map[string]interface{}{
		"results": map[string]interface{}{
			"1": map[string]interface{}{
				"member": map[string]interface{}{"id": 1, "name": "Ahmed", "relationship": "Self"},
				"age":    35,
				"comparison": []map[string]interface{}{
					{"id": "A", "provider": "ORIENT", "plan": "Basic", "premium": 745, "selected": true, "status": "recommended"},
					{"id": "B", "provider": "MEDNET", "plan": "Pearl", "premium": 2790, "selected": false, "status": "none"},
				},
			},
		},
		"settings": map[string]interface{}{"location": "Dubai", "salaryCategory": "below4000"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")

	html := rec.Body.String()
	assert.Contains(t, html, "Ahmed")
	assert.Contains(t, html, "Basic")
	assert.NotContains(t, html, "Pearl", "unselected plans stay out of the document")
}

func TestServer_HistoryDisabled(t *testing.T) {
	s := createTestServer(t) // history store is nil

	rec := doJSON(t, s, http.MethodGet, "/api/report-history", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, false, decodeBody(t, rec)["success"])
}
