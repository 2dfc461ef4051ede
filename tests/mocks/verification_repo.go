package mocks

import (
	"context"
	"sync"
	"testing"

	"github.com/tixoraa/tixoraa-backend/internal/domain/event"
	"github.com/tixoraa/tixoraa-backend/internal/domain/verification"
	"github.com/tixoraa/tixoraa-backend/pkg/errorx"
)

// VerificationCodeRepo is an in-memory stand-in for the postgres repo. All
// operations run under one mutex, so consumption stays atomic under
// concurrent redemption attempts the same way the conditional UPDATE does.
type VerificationCodeRepo struct {
	mu     sync.Mutex
	nextID int64
	codes  map[int64]*verification.VerificationCode
	events []event.Event
}

func NewVerificationCodeRepo() *VerificationCodeRepo {
	return &VerificationCodeRepo{
		nextID: 1,
		codes:  make(map[int64]*verification.VerificationCode),
	}
}

func (r *VerificationCodeRepo) SaveCode(ctx context.Context, v *verification.VerificationCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	v.AssignID(r.nextID)
	r.nextID++
	r.codes[v.ID()] = v
	r.collectEvents(v)
	return nil
}

func (r *VerificationCodeRepo) GetLatestByEmail(ctx context.Context, email string) (*verification.VerificationCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v := r.latestRedeemableByEmail(email)
	if v == nil {
		return nil, errorx.NewNotFound()
	}
	return v, nil
}

func (r *VerificationCodeRepo) ConsumeByEmailAndCode(ctx context.Context, email, code string) (*verification.VerificationCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v := r.latestRedeemableByEmail(email)
	if v == nil || !v.Matches(code) {
		return nil, verification.ErrCodeNotRedeemable
	}

	if err := v.MarkAsUsed(); err != nil {
		return nil, err
	}
	r.collectEvents(v)
	return v, nil
}

func (r *VerificationCodeRepo) UpdateCode(ctx context.Context, v *verification.VerificationCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.codes[v.ID()]; !ok {
		return errorx.NewNotFound()
	}
	r.codes[v.ID()] = v
	r.collectEvents(v)
	return nil
}

func (r *VerificationCodeRepo) latestRedeemableByEmail(email string) *verification.VerificationCode {
	var latest *verification.VerificationCode
	for _, v := range r.codes {
		if v.Email() != email || !v.IsRedeemable() {
			continue
		}
		if latest == nil || v.CreatedAt().After(latest.CreatedAt()) {
			latest = v
		}
	}
	return latest
}

func (r *VerificationCodeRepo) collectEvents(v *verification.VerificationCode) {
	if events := v.GetUncommittedEvents(); len(events) > 0 {
		r.events = append(r.events, events...)
		v.MarkEventsAsCommitted()
	}
}

func (r *VerificationCodeRepo) SeedCode(t *testing.T, v *verification.VerificationCode) {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()

	if v.ID() == 0 {
		v.AssignID(r.nextID)
		r.nextID++
	} else if v.ID() >= r.nextID {
		r.nextID = v.ID() + 1
	}
	r.codes[v.ID()] = v
	v.MarkEventsAsCommitted()
}

func (r *VerificationCodeRepo) GetByID(t *testing.T, id int64) *verification.VerificationCode {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.codes[id]
	if !ok {
		t.Fatalf("verification code %d not found", id)
	}
	return v
}

func (r *VerificationCodeRepo) Events() []event.Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]event.Event{}, r.events...)
}

func (r *VerificationCodeRepo) AssertEventCount(t *testing.T, want int) {
	t.Helper()
	if got := len(r.Events()); got != want {
		t.Errorf("expected %d events, got %d", want, got)
	}
}

// RequireEventExists returns the first recorded event of the same type as
// the template, failing the test when none was published.
func RequireEventExists[T event.Event](t *testing.T, r *VerificationCodeRepo, template T) T {
	t.Helper()
	for _, e := range r.Events() {
		if typed, ok := e.(T); ok {
			return typed
		}
	}
	t.Fatalf("expected event %T not found", template)
	return template
}
