package errorx

type Code string

func (c Code) String() string {
	return string(c)
}

const (
	// Client errors (4xx)
	CodeInvalid           Code = "INVALID"
	CodeValidationFailed  Code = "VALIDATION_FAILED"
	CodeMalformedJSON     Code = "MALFORMED_JSON"
	CodeNotFound          Code = "NOT_FOUND"
	CodeConflict          Code = "CONFLICT"
	CodeAlreadyProcessed  Code = "ALREADY_PROCESSED"
	CodeCodeNotRedeemable Code = "CODE_NOT_REDEEMABLE"
	CodeResendTooSoon     Code = "RESEND_TOO_SOON"
	CodeRateLimitExceeded Code = "RATE_LIMIT_EXCEEDED"

	// Server errors (5xx)
	CodeInternal           Code = "INTERNAL_ERROR"
	CodeServiceUnavailable Code = "SERVICE_UNAVAILABLE"
)
