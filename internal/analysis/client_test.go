package analysis

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/medclaims/claims-dashboard/internal/models"
)

func TestClient_Analyze(t *testing.T) {
	t.Run("normalizes a live backend response", func(t *testing.T) {
		backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/api/claims/upload", r.URL.Path)

			require.NoError(t, r.ParseMultipartForm(1<<20))
			assert.Equal(t, "medical_claim", r.FormValue("claim_type"))

			file, header, err := r.FormFile("document")
			require.NoError(t, err)
			defer file.Close()
			assert.Equal(t, "invoice.pdf", header.Filename)

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
				"claim_id": "DOC_20240115_093000",
				"status": "analyzed",
				"document_analysis": {
					"overall_status": "COMPLETE",
					"confidence_level": 90,
					"completeness_score": 85,
					"processing_notes": "Looks complete"
				}
			}`))
		}))
		defer backend.Close()

		client := NewClient(backend.URL, 5*time.Second, zap.NewNop())
		result := client.Analyze(context.Background(), "invoice.pdf", []byte("%PDF-1.4"), "medical_claim")

		assert.Equal(t, models.StatusApproved, result.Status)
		assert.Equal(t, 90.0, result.Confidence)
		assert.Equal(t, models.AnalysisSourceLive, result.Source)
	})

	t.Run("unreachable backend degrades to mock", func(t *testing.T) {
		client := NewClient("http://127.0.0.1:1", time.Second, zap.NewNop())
		result := client.Analyze(context.Background(), "invoice.pdf", []byte("data"), "medical_claim")

		assert.Equal(t, MockResult(), result)
	})

	t.Run("non-2xx degrades to mock", func(t *testing.T) {
		backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer backend.Close()

		client := NewClient(backend.URL, time.Second, zap.NewNop())
		result := client.Analyze(context.Background(), "invoice.pdf", []byte("data"), "medical_claim")

		assert.Equal(t, models.AnalysisSourceFallback, result.Source)
		assert.Equal(t, models.StatusApproved, result.Status)
	})

	t.Run("malformed body degrades to mock", func(t *testing.T) {
		backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>not json</html>"))
		}))
		defer backend.Close()

		client := NewClient(backend.URL, time.Second, zap.NewNop())
		result := client.Analyze(context.Background(), "invoice.pdf", []byte("data"), "medical_claim")

		assert.Equal(t, MockResult(), result)
	})
}
