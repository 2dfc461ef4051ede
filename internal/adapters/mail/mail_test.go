package mail

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tixoraa/tixoraa-backend/internal/domain/valueobject/delivery"
	"github.com/tixoraa/tixoraa-backend/pkg/env"
)

func TestClassifyDeliveryError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want delivery.Kind
	}{
		{"unauthorized status", errors.New("401 Unauthorized"), delivery.KindAuthError},
		{"invalid api key", errors.New("invalid API key provided"), delivery.KindAuthError},
		{"unverified sender", errors.New("403: you must verify a domain before sending"), delivery.KindSenderUnverified},
		{"rate limited", errors.New("429 Too Many Requests"), delivery.KindRateLimited},
		{"timeout", errors.New("dial tcp: i/o timeout"), delivery.KindNetworkError},
		{"opaque provider error", errors.New("internal server error"), delivery.KindNetworkError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := classifyDeliveryError(tt.err)
			assert.Equal(t, tt.want, result.Kind)
			assert.Equal(t, tt.err.Error(), result.Detail)
			assert.False(t, result.Success())
		})
	}
}

func TestVerificationTemplates(t *testing.T) {
	t.Parallel()

	expiresAt := time.Date(2026, time.August, 25, 12, 30, 0, 0, time.UTC)

	text := verificationText("Tixoraa", "482913", expiresAt)
	assert.Contains(t, text, "482913")
	assert.Contains(t, text, "Tixoraa")
	assert.Contains(t, text, "12:30")

	html := verificationHTML("Tixoraa", "482913", expiresAt)
	assert.Contains(t, html, "482913")
	assert.Contains(t, html, "12:30")
}

func TestResendMailer_LogOnlyModes(t *testing.T) {
	t.Parallel()

	m := NewResendMailer(ResendMailerArgs{
		APIKey: "re_test_key",
		From:   "no-reply@tixoraa.com",
		Mode:   env.Test,
	})

	result := m.SendCode(context.Background(), "attendee@tixoraa.com", "482913", time.Now().Add(15*time.Minute))
	assert.True(t, result.Success())
	assert.Equal(t, delivery.KindOk, result.Kind)
}

func TestResendMailer_SuccessfulSendReportsOk(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"re_482913"}`))
	}))
	defer srv.Close()

	m := NewResendMailer(ResendMailerArgs{
		APIKey: "re_test_key",
		From:   "no-reply@tixoraa.com",
		Mode:   env.Prod,
	})
	baseURL, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)
	m.client.BaseURL = baseURL

	result := m.SendCode(context.Background(), "attendee@tixoraa.com", "482913", time.Now().Add(15*time.Minute))
	assert.Equal(t, delivery.KindOk, result.Kind)
	assert.True(t, result.Success())
}

func TestResendMailer_NoClientFallsBackToLog(t *testing.T) {
	t.Parallel()

	m := NewResendMailer(ResendMailerArgs{
		From: "no-reply@tixoraa.com",
		Mode: env.Prod,
	})

	result := m.SendCode(context.Background(), "attendee@tixoraa.com", "482913", time.Now().Add(15*time.Minute))
	assert.True(t, result.Success())
}
