package delivery

// Kind tags the outcome of one email delivery attempt so callers can log and
// branch without parsing provider errors.
type Kind string

const (
	KindOk               Kind = "ok"
	KindAuthError        Kind = "auth_error"
	KindSenderUnverified Kind = "sender_unverified"
	KindRateLimited      Kind = "rate_limited"
	KindNetworkError     Kind = "network_error"
)

// Result is a mailer's whole answer. Provider failures never escape the
// mail adapter as raw errors; they arrive here, tagged.
type Result struct {
	Kind   Kind
	Detail string
}

func (r Result) Success() bool {
	return r.Kind == KindOk
}

func Ok() Result {
	return Result{Kind: KindOk}
}
