package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/medclaims/claims-dashboard/internal/analysis"
	"github.com/medclaims/claims-dashboard/internal/claims"
	"github.com/medclaims/claims-dashboard/internal/models"
	"github.com/medclaims/claims-dashboard/internal/proxy"
)

func newTestServer(t *testing.T, backendURL string) (*Server, *claims.Store) {
	t.Helper()

	logger := zap.NewNop()
	store := claims.NewStore(logger)
	store.Seed()

	server := NewServer(
		ServerConfig{Host: "127.0.0.1", Port: 0},
		store,
		claims.NewFactory(store, logger),
		analysis.NewClient(backendURL, time.Second, logger),
		proxy.NewForwarder(backendURL, time.Second, logger),
		claims.NewExporter(logger),
		logger,
	)
	return server, store
}

func doRequest(server *Server, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	server.Router().ServeHTTP(w, req)
	return w
}

func validClaimBody() map[string]interface{} {
	return map[string]interface{}{
		"firstName":   "John",
		"lastName":    "Doe",
		"dob":         "1990-01-01",
		"patientId":   "PAT-1",
		"claimType":   "outpatient",
		"serviceDate": "2024-02-01",
		"provider":    "City Clinic",
		"amount":      "100.00",
		"diagnosis":   "Checkup",
	}
}

func TestListClaims(t *testing.T) {
	server, _ := newTestServer(t, "http://127.0.0.1:1")

	t.Run("all claims", func(t *testing.T) {
		w := doRequest(server, httptest.NewRequest(http.MethodGet, "/api/claims", nil))
		require.Equal(t, http.StatusOK, w.Code)

		var got []models.Claim
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Len(t, got, 5)
		assert.Equal(t, "CLM-2024-001", got[0].ID)
	})

	t.Run("filtered by status", func(t *testing.T) {
		w := doRequest(server, httptest.NewRequest(http.MethodGet, "/api/claims?status=pending", nil))
		require.Equal(t, http.StatusOK, w.Code)

		var got []models.Claim
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		require.NotEmpty(t, got)
		for _, claim := range got {
			assert.Equal(t, models.StatusPending, claim.Status)
		}
	})
}

func TestListClaimsNoMatchesIsEmptyList(t *testing.T) {
	logger := zap.NewNop()
	store := claims.NewStore(logger)
	server := NewServer(
		ServerConfig{Host: "127.0.0.1", Port: 0},
		store,
		claims.NewFactory(store, logger),
		analysis.NewClient("http://127.0.0.1:1", time.Second, logger),
		proxy.NewForwarder("http://127.0.0.1:1", time.Second, logger),
		claims.NewExporter(logger),
		logger,
	)

	w := doRequest(server, httptest.NewRequest(http.MethodGet, "/api/claims?status=rejected", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()))
}

func TestGetClaim(t *testing.T) {
	server, _ := newTestServer(t, "http://127.0.0.1:1")

	t.Run("found", func(t *testing.T) {
		w := doRequest(server, httptest.NewRequest(http.MethodGet, "/api/claims/CLM-2024-001", nil))
		require.Equal(t, http.StatusOK, w.Code)

		var got models.Claim
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, "Sarah Johnson", got.PatientName)
		assert.Len(t, got.Timeline, 5)
	})

	t.Run("not found", func(t *testing.T) {
		w := doRequest(server, httptest.NewRequest(http.MethodGet, "/api/claims/CLM-9999-999", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "Claim not found")
	})
}

func TestCreateClaimJSON(t *testing.T) {
	t.Run("valid submission", func(t *testing.T) {
		server, store := newTestServer(t, "http://127.0.0.1:1")

		body, _ := json.Marshal(validClaimBody())
		req := httptest.NewRequest(http.MethodPost, "/api/claims", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		w := doRequest(server, req)
		require.Equal(t, http.StatusOK, w.Code)

		var got models.Claim
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, fmt.Sprintf("CLM-%d-006", time.Now().Year()), got.ID)
		assert.Equal(t, "John Doe", got.PatientName)
		assert.Equal(t, models.StatusPending, got.Status)
		assert.Equal(t, 6, store.Len())
	})

	t.Run("with analysis result", func(t *testing.T) {
		server, _ := newTestServer(t, "http://127.0.0.1:1")

		payload := validClaimBody()
		payload["analysis"] = map[string]interface{}{
			"status":     "approved",
			"confidence": 91,
		}
		body, _ := json.Marshal(payload)
		req := httptest.NewRequest(http.MethodPost, "/api/claims", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		w := doRequest(server, req)
		require.Equal(t, http.StatusOK, w.Code)

		var got models.Claim
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, models.StatusApproved, got.Status)
		require.NotNil(t, got.AIAnalysis)
		assert.InDelta(t, 91, got.AIAnalysis.Confidence, 0.001)
	})

	t.Run("missing fields", func(t *testing.T) {
		server, store := newTestServer(t, "http://127.0.0.1:1")

		payload := validClaimBody()
		delete(payload, "provider")
		body, _ := json.Marshal(payload)
		req := httptest.NewRequest(http.MethodPost, "/api/claims", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		w := doRequest(server, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "provider")
		assert.Equal(t, 5, store.Len())
	})
}

func TestCreateClaimMultipart(t *testing.T) {
	server, _ := newTestServer(t, "http://127.0.0.1:1")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for key, value := range validClaimBody() {
		require.NoError(t, mw.WriteField(key, value.(string)))
	}
	analysisJSON, _ := json.Marshal(analysis.MockResult())
	require.NoError(t, mw.WriteField("analysis", string(analysisJSON)))

	fw, err := mw.CreateFormFile("documents", "receipt.pdf")
	require.NoError(t, err)
	_, err = fw.Write(bytes.Repeat([]byte("x"), 2048))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/claims", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	w := doRequest(server, req)
	require.Equal(t, http.StatusOK, w.Code)

	var got models.Claim
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, models.StatusApproved, got.Status)
	require.Len(t, got.Documents, 1)
	assert.Equal(t, "receipt.pdf", got.Documents[0].Name)
	require.NotNil(t, got.AIAnalysis)
	assert.Equal(t, models.AnalysisSourceFallback, got.AIAnalysis.Source)
}

func TestUpdateClaimStatus(t *testing.T) {
	t.Run("via query param", func(t *testing.T) {
		server, store := newTestServer(t, "http://127.0.0.1:1")

		req := httptest.NewRequest(http.MethodPut, "/api/claims/CLM-2024-005/status?status=approved", nil)
		w := doRequest(server, req)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Status updated successfully")

		claim, err := store.Find("CLM-2024-005")
		require.NoError(t, err)
		assert.Equal(t, models.StatusApproved, claim.Status)
	})

	t.Run("via json body", func(t *testing.T) {
		server, store := newTestServer(t, "http://127.0.0.1:1")

		req := httptest.NewRequest(http.MethodPut, "/api/claims/CLM-2024-005/status",
			strings.NewReader(`{"status":"rejected"}`))
		req.Header.Set("Content-Type", "application/json")
		w := doRequest(server, req)
		require.Equal(t, http.StatusOK, w.Code)

		claim, err := store.Find("CLM-2024-005")
		require.NoError(t, err)
		assert.Equal(t, models.StatusRejected, claim.Status)
	})

	t.Run("invalid status", func(t *testing.T) {
		server, _ := newTestServer(t, "http://127.0.0.1:1")

		req := httptest.NewRequest(http.MethodPut, "/api/claims/CLM-2024-005/status?status=bogus", nil)
		w := doRequest(server, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown claim", func(t *testing.T) {
		server, _ := newTestServer(t, "http://127.0.0.1:1")

		req := httptest.NewRequest(http.MethodPut, "/api/claims/CLM-9999-999/status?status=approved", nil)
		w := doRequest(server, req)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestUploadDocument(t *testing.T) {
	server, store := newTestServer(t, "http://127.0.0.1:1")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "scan.pdf")
	require.NoError(t, err)
	_, err = fw.Write([]byte("pdf bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/claims/CLM-2024-001/documents", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	w := doRequest(server, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Document uploaded successfully")

	claim, err := store.Find("CLM-2024-001")
	require.NoError(t, err)
	require.NotEmpty(t, claim.Documents)
	assert.Equal(t, "scan.pdf", claim.Documents[len(claim.Documents)-1].Name)
}

func TestGetStats(t *testing.T) {
	server, _ := newTestServer(t, "http://127.0.0.1:1")

	w := doRequest(server, httptest.NewRequest(http.MethodGet, "/api/stats", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var stats models.Stats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 5, stats.Total)
	assert.Equal(t, 1, stats.Approved)
	assert.Equal(t, 2, stats.Pending)
	assert.Equal(t, 1, stats.Rejected)
}

func TestExportClaims(t *testing.T) {
	server, _ := newTestServer(t, "http://127.0.0.1:1")

	w := doRequest(server, httptest.NewRequest(http.MethodGet, "/api/claims/export", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetCellValue(f.GetSheetName(0), "A2")
	require.NoError(t, err)
	assert.Equal(t, "CLM-2024-001", got)
}

func TestAnalyzeDocumentFallback(t *testing.T) {
	// Backend unreachable: the endpoint still answers with mock data
	server, _ := newTestServer(t, "http://127.0.0.1:1")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("document", "claim.pdf")
	require.NoError(t, err)
	_, err = fw.Write([]byte("pdf bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("claimType", "medical_claim"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	w := doRequest(server, req)
	require.Equal(t, http.StatusOK, w.Code)

	var result models.AnalysisResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, *analysis.MockResult(), result)
}

func TestAnalyzeDocumentLive(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/claims/upload", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(models.BackendAnalysisResponse{
			DocumentAnalysis: &models.DocumentAnalysis{
				OverallStatus:     models.OverallStatusComplete,
				CompletenessScore: 90,
				ConfidenceLevel:   87,
				ProcessingNotes:   "Looks complete.",
			},
		})
	}))
	defer backend.Close()

	server, _ := newTestServer(t, backend.URL)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("document", "claim.pdf")
	require.NoError(t, err)
	_, err = fw.Write([]byte("pdf bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	w := doRequest(server, req)
	require.Equal(t, http.StatusOK, w.Code)

	var result models.AnalysisResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, models.StatusApproved, result.Status)
	assert.Equal(t, models.AnalysisSourceLive, result.Source)
}

func TestProxy(t *testing.T) {
	t.Run("relays backend response", func(t *testing.T) {
		backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/policies/POL12345678", r.URL.Path)
			assert.Equal(t, "full=1", r.URL.RawQuery)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"ok":true}`))
		}))
		defer backend.Close()

		server, _ := newTestServer(t, backend.URL)

		req := httptest.NewRequest(http.MethodGet, "/api/proxy/api/policies/POL12345678?full=1", nil)
		w := doRequest(server, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.JSONEq(t, `{"ok":true}`, w.Body.String())
	})

	t.Run("relays post body", func(t *testing.T) {
		var received []byte
		backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			received, _ = io.ReadAll(r.Body)
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{}`))
		}))
		defer backend.Close()

		server, _ := newTestServer(t, backend.URL)

		req := httptest.NewRequest(http.MethodPost, "/api/proxy/api/claims/validate",
			strings.NewReader(`{"policy_number":"POL12345678"}`))
		req.Header.Set("Content-Type", "application/json")
		w := doRequest(server, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"policy_number":"POL12345678"}`, string(received))
	})

	t.Run("backend unreachable", func(t *testing.T) {
		server, _ := newTestServer(t, "http://127.0.0.1:1")

		req := httptest.NewRequest(http.MethodGet, "/api/proxy/api/policies/POL12345678", nil)
		w := doRequest(server, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "Proxy request failed")
	})
}

func TestCORSPreflight(t *testing.T) {
	server, _ := newTestServer(t, "http://127.0.0.1:1")

	req := httptest.NewRequest(http.MethodOptions, "/api/claims", nil)
	w := doRequest(server, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	m.Run()
}
