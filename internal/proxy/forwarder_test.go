package proxy

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestForwarder_Forward(t *testing.T) {
	var gotMethod, gotPath, gotQuery, gotBody string

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		data, _ := io.ReadAll(r.Body)
		gotBody = string(data)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer backend.Close()

	forwarder := NewForwarder(backend.URL, 5*time.Second, zap.NewNop())

	t.Run("relays method path query and body", func(t *testing.T) {
		result, err := forwarder.Forward(context.Background(),
			http.MethodPost, "/api/claims/validate", "verbose=1",
			strings.NewReader(`{"claim_id":"CLM-1"}`))
		require.NoError(t, err)

		assert.Equal(t, http.MethodPost, gotMethod)
		assert.Equal(t, "/api/claims/validate", gotPath)
		assert.Equal(t, "verbose=1", gotQuery)
		assert.JSONEq(t, `{"claim_id":"CLM-1"}`, gotBody)

		assert.Equal(t, http.StatusCreated, result.StatusCode)
		assert.JSONEq(t, `{"ok":true}`, string(result.Body))
		assert.Equal(t, "application/json", result.ContentType)
	})

	t.Run("relays backend error status unchanged", func(t *testing.T) {
		errBackend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"nope"}`, http.StatusNotFound)
		}))
		defer errBackend.Close()

		result, err := NewForwarder(errBackend.URL, time.Second, zap.NewNop()).
			Forward(context.Background(), http.MethodGet, "/api/missing", "", nil)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, result.StatusCode)
	})

	t.Run("unreachable backend returns an error", func(t *testing.T) {
		_, err := NewForwarder("http://127.0.0.1:1", time.Second, zap.NewNop()).
			Forward(context.Background(), http.MethodGet, "/api/status", "", nil)
		assert.Error(t, err)
	})
}
