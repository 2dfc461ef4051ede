package mocks

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/tixoraa/tixoraa-backend/internal/domain/valueobject/delivery"
)

type SentCode struct {
	To        string
	Code      string
	ExpiresAt time.Time
}

// MockCodeMailer records deliveries and answers with a configurable result.
type MockCodeMailer struct {
	mu     sync.Mutex
	sent   []SentCode
	result delivery.Result
}

func NewMockCodeMailer() *MockCodeMailer {
	return &MockCodeMailer{
		result: delivery.Ok(),
	}
}

func (m *MockCodeMailer) SendCode(ctx context.Context, to, code string, expiresAt time.Time) delivery.Result {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sent = append(m.sent, SentCode{To: to, Code: code, ExpiresAt: expiresAt})
	return m.result
}

// FailWith makes every subsequent delivery report the given result.
func (m *MockCodeMailer) FailWith(result delivery.Result) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.result = result
}

func (m *MockCodeMailer) Sent() []SentCode {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]SentCode{}, m.sent...)
}

func (m *MockCodeMailer) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sent = nil
}

func (m *MockCodeMailer) AssertCodeSent(t *testing.T, email, code string) {
	t.Helper()
	for _, s := range m.Sent() {
		if s.To == email && s.Code == code {
			return
		}
	}
	t.Errorf("expected code %s sent to %s not found", code, email)
}

func (m *MockCodeMailer) AssertNothingSent(t *testing.T) {
	t.Helper()
	if sent := m.Sent(); len(sent) != 0 {
		t.Errorf("expected no deliveries, got %d", len(sent))
	}
}
