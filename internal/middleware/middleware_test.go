package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"econtab/internal/infrastructure"
	"econtab/internal/shared/testutil"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
}

func TestRequestIDGeneratesWhenAbsent(t *testing.T) {
	var gotTraceID string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTraceID = infrastructure.GetTraceID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotEmpty(t, gotTraceID)
	assert.Equal(t, gotTraceID, rec.Header().Get("X-Request-ID"))
}

func TestRequestIDHonorsIncomingHeader(t *testing.T) {
	var gotTraceID string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTraceID = infrastructure.GetTraceID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "trace-abc")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "trace-abc", gotTraceID)
	assert.Equal(t, "trace-abc", rec.Header().Get("X-Request-ID"))
}

func TestStructuredLogger(t *testing.T) {
	logger, captured := testutil.NewCaptureLogger(t)
	h := RequestID(StructuredLogger(logger)(okHandler()))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/formats", nil))

	require.True(t, captured.HasMessage("request completed"))
	records := captured.Records()
	last := records[len(records)-1]
	assert.Equal(t, "GET", last.Attrs["method"])
	assert.Equal(t, "/api/v1/formats", last.Attrs["path"])
	assert.EqualValues(t, 200, last.Attrs["status"])
}

func TestRecoverer(t *testing.T) {
	logger, captured := testutil.NewCaptureLogger(t)
	h := Recoverer(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	require.NotPanics(t, func() {
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "INTERNAL_ERROR")
	assert.True(t, captured.HasMessage("panic recovered"))
}

func TestRateLimiter(t *testing.T) {
	logger, _ := testutil.NewCaptureLogger(t)
	rl := NewRateLimiter(1, 2, logger)
	h := rl.Handler(okHandler())

	codes := make([]int, 0, 4)
	for i := 0; i < 4; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, http.StatusOK, codes[0])
	assert.Equal(t, http.StatusOK, codes[1], "burst of two passes")
	assert.Equal(t, http.StatusTooManyRequests, codes[2])
	assert.Equal(t, http.StatusTooManyRequests, codes[3])
}
