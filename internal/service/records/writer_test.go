package records

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SessionService/internal/domain"
	paymentRepo "github.com/m04kA/SMC-SessionService/internal/infra/storage/payment"
)

type mockLogger struct{}

func (m *mockLogger) Info(format string, v ...interface{})  {}
func (m *mockLogger) Warn(format string, v ...interface{})  {}
func (m *mockLogger) Error(format string, v ...interface{}) {}

// fakeTx имитирует транзакцию: при ошибке записи из fn откатываются
type fakeTx struct {
	store *fakeStore
}

func (f *fakeTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	sessions := len(f.store.sessions)
	payments := len(f.store.payments)
	if err := fn(ctx); err != nil {
		f.store.sessions = f.store.sessions[:sessions]
		f.store.payments = f.store.payments[:payments]
		return err
	}
	return nil
}

type fakeStore struct {
	sessions   []domain.Session
	payments   []domain.Payment
	sessionErr error
	paymentErr error
}

type fakeSessionRepo struct{ store *fakeStore }

func (r *fakeSessionRepo) Create(ctx context.Context, s *domain.Session) error {
	if r.store.sessionErr != nil {
		return r.store.sessionErr
	}
	r.store.sessions = append(r.store.sessions, *s)
	return nil
}

type fakePaymentRepo struct{ store *fakeStore }

func (r *fakePaymentRepo) Create(ctx context.Context, p *domain.Payment) error {
	if r.store.paymentErr != nil {
		return r.store.paymentErr
	}
	r.store.payments = append(r.store.payments, *p)
	return nil
}

func newTestWriter(store *fakeStore) *Writer {
	w := NewWriter(&fakeSessionRepo{store: store}, &fakePaymentRepo{store: store}, &fakeTx{store: store}, &mockLogger{})
	n := 0
	w.newID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	return w
}

func newRecords() (*domain.Session, *domain.Payment) {
	return &domain.Session{
			TherapistID:   "T1",
			ClientID:      "C1",
			SessionType:   domain.SessionTypeChat,
			Status:        domain.SessionStatusCompleted,
			ScheduledTime: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
			OrderID:       "O1",
		}, &domain.Payment{
			OrderID:      "O1",
			Amount:       1500,
			Currency:     "LKR",
			PayoutStatus: domain.PayoutStatusPaid,
		}
}

func TestWriter_Write(t *testing.T) {
	store := &fakeStore{}
	w := newTestWriter(store)
	session, payment := newRecords()

	sessionID, err := w.Write(context.Background(), session, payment)

	require.NoError(t, err)
	assert.Equal(t, "id-1", sessionID)
	require.Len(t, store.sessions, 1)
	require.Len(t, store.payments, 1)

	assert.Equal(t, domain.SessionStatusScheduled, store.sessions[0].Status)
	assert.Equal(t, domain.DefaultSessionDurationMinutes, store.sessions[0].DurationMinutes)
	assert.Equal(t, "id-2", store.payments[0].ID)
	assert.Equal(t, sessionID, store.payments[0].SessionID)
	assert.Equal(t, domain.PaymentStatusCompleted, store.payments[0].Status)
	// выплата всегда стартует с pending, что бы ни передал вызывающий
	assert.Equal(t, domain.PayoutStatusPending, store.payments[0].PayoutStatus)
}

func TestWriter_Write_PaymentFailureLeavesNoSession(t *testing.T) {
	store := &fakeStore{paymentErr: errors.New("connection lost")}
	w := newTestWriter(store)
	session, payment := newRecords()

	_, err := w.Write(context.Background(), session, payment)

	assert.True(t, errors.Is(err, ErrInternal))
	assert.Empty(t, store.sessions)
	assert.Empty(t, store.payments)
}

func TestWriter_Write_DuplicateOrder(t *testing.T) {
	store := &fakeStore{paymentErr: fmt.Errorf("%w: order_id=O1", paymentRepo.ErrDuplicateOrder)}
	w := newTestWriter(store)
	session, payment := newRecords()

	_, err := w.Write(context.Background(), session, payment)

	assert.True(t, errors.Is(err, ErrAlreadyRecorded))
	assert.Empty(t, store.sessions)
}

func TestWriter_Write_SessionFailure(t *testing.T) {
	store := &fakeStore{sessionErr: errors.New("timeout")}
	w := newTestWriter(store)
	session, payment := newRecords()

	_, err := w.Write(context.Background(), session, payment)

	assert.True(t, errors.Is(err, ErrInternal))
	assert.Empty(t, store.payments)
}

func TestWriter_Write_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *domain.Session)
	}{
		{name: "no therapist", mutate: func(s *domain.Session) { s.TherapistID = "" }},
		{name: "no client", mutate: func(s *domain.Session) { s.ClientID = "" }},
		{name: "unknown type", mutate: func(s *domain.Session) { s.SessionType = "hologram" }},
		{name: "no time", mutate: func(s *domain.Session) { s.ScheduledTime = time.Time{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{}
			session, payment := newRecords()
			tt.mutate(session)

			_, err := newTestWriter(store).Write(context.Background(), session, payment)

			assert.True(t, errors.Is(err, ErrInvalidRecord))
			assert.Empty(t, store.sessions)
		})
	}
}
