package verification

import (
	"time"

	"github.com/tixoraa/tixoraa-backend/internal/domain/event"
)

const EventStreamName = "events_verification"

type CodeIssued struct {
	event.Header
	event.Otel
	CodeID    int64     `json:"code_id"`
	Email     string    `json:"email"`
	Code      string    `json:"code"`
	Purpose   Purpose   `json:"purpose"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (e CodeIssued) GetStreamName() string {
	return EventStreamName
}

type CodeResent struct {
	event.Header
	event.Otel
	CodeID    int64     `json:"code_id"`
	Email     string    `json:"email"`
	Code      string    `json:"code"`
	Purpose   Purpose   `json:"purpose"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (e CodeResent) GetStreamName() string {
	return EventStreamName
}

type CodeRedeemed struct {
	event.Header
	event.Otel
	CodeID  int64   `json:"code_id"`
	Email   string  `json:"email"`
	Purpose Purpose `json:"purpose"`
}

func (e CodeRedeemed) GetStreamName() string {
	return EventStreamName
}
