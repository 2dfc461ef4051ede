package mail

import (
	"strings"

	"github.com/tixoraa/tixoraa-backend/internal/domain/valueobject/delivery"
)

// classifyDeliveryError buckets a provider error by its message. The Resend
// SDK surfaces API failures as plain errors, so substring matching on the
// status text is the stable option.
func classifyDeliveryError(err error) delivery.Result {
	msg := err.Error()
	lower := strings.ToLower(msg)

	switch {
	case strings.Contains(lower, "401") || strings.Contains(lower, "unauthorized") || strings.Contains(lower, "invalid api key"):
		return delivery.Result{Kind: delivery.KindAuthError, Detail: msg}
	case strings.Contains(lower, "403") || strings.Contains(lower, "verify a domain") || strings.Contains(lower, "not verified"):
		return delivery.Result{Kind: delivery.KindSenderUnverified, Detail: msg}
	case strings.Contains(lower, "429") || strings.Contains(lower, "rate limit") || strings.Contains(lower, "too many requests"):
		return delivery.Result{Kind: delivery.KindRateLimited, Detail: msg}
	default:
		return delivery.Result{Kind: delivery.KindNetworkError, Detail: msg}
	}
}
