package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimit_OverBudgetGetsTaggedRejection(t *testing.T) {
	t.Parallel()

	handler := RateLimit(1, time.Minute, nil)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	newReq := func() *http.Request {
		r := httptest.NewRequest(http.MethodPost, "/v1/verification/request", nil)
		r.RemoteAddr = "203.0.113.7:4821"
		return r
	}

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, newReq())
	require.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, newReq())
	require.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Contains(t, second.Body.String(), "RATE_LIMIT_EXCEEDED")
	assert.Contains(t, second.Body.String(), `"success": false`)
}
