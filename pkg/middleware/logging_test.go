package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"imagehub/pkg/logging"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewLoggerTo(&buf, logging.LevelInfo)

	var correlationID string
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(RequestLogger(logger))
	r.Get("/share/{token}", func(w http.ResponseWriter, r *http.Request) {
		correlationID = logging.GetCorrelationID(r.Context())
		w.WriteHeader(http.StatusGone)
	})

	req := httptest.NewRequest(http.MethodGet, "/share/secretToken123", nil)
	req.Header.Set("X-Request-Id", "req-7")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "req-7", correlationID)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "/share/{token}", entry["route"])
	assert.Equal(t, float64(http.StatusGone), entry["status"])
	assert.Equal(t, "req-7", entry["correlation_id"])
	assert.NotContains(t, buf.String(), "secretToken123")
}
