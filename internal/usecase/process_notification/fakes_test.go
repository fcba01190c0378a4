package process_notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SessionService/internal/domain"
	availabilityRepo "github.com/m04kA/SMC-SessionService/internal/infra/storage/availability"
	paymentRepo "github.com/m04kA/SMC-SessionService/internal/infra/storage/payment"
	pendingRepo "github.com/m04kA/SMC-SessionService/internal/infra/storage/pendingbooking"
	"github.com/m04kA/SMC-SessionService/internal/integrations/daily"
)

type mockLogger struct{}

func (m *mockLogger) Info(format string, v ...interface{})  {}
func (m *mockLogger) Warn(format string, v ...interface{})  {}
func (m *mockLogger) Error(format string, v ...interface{}) {}

// memStore хранилище в памяти; fakeTx откатывает его при ошибке
type memStore struct {
	ledger       map[string]domain.WebhookLog
	pending      map[string]domain.PendingBooking
	availability map[string]domain.TherapistAvailability
	sessions     []domain.Session
	payments     []domain.Payment

	existsErr  error
	recordErr  error
	sessionErr error
}

func newMemStore() *memStore {
	return &memStore{
		ledger:       map[string]domain.WebhookLog{},
		pending:      map[string]domain.PendingBooking{},
		availability: map[string]domain.TherapistAvailability{},
	}
}

type snapshot struct {
	ledger       map[string]domain.WebhookLog
	pending      map[string]domain.PendingBooking
	availability map[string]domain.TherapistAvailability
	sessions     int
	payments     int
}

func (s *memStore) snapshot() snapshot {
	snap := snapshot{
		ledger:       map[string]domain.WebhookLog{},
		pending:      map[string]domain.PendingBooking{},
		availability: map[string]domain.TherapistAvailability{},
		sessions:     len(s.sessions),
		payments:     len(s.payments),
	}
	for k, v := range s.ledger {
		snap.ledger[k] = v
	}
	for k, v := range s.pending {
		snap.pending[k] = v
	}
	for k, v := range s.availability {
		snap.availability[k] = v
	}
	return snap
}

func (s *memStore) restore(snap snapshot) {
	s.ledger = snap.ledger
	s.pending = snap.pending
	s.availability = snap.availability
	s.sessions = s.sessions[:snap.sessions]
	s.payments = s.payments[:snap.payments]
}

type fakeTx struct {
	store *memStore
}

func (f *fakeTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	snap := f.store.snapshot()
	if err := fn(ctx); err != nil {
		f.store.restore(snap)
		return err
	}
	return nil
}

// Ledger

type memLedger struct{ store *memStore }

func (l *memLedger) Exists(ctx context.Context, orderID string) (bool, error) {
	if l.store.existsErr != nil {
		return false, l.store.existsErr
	}
	entry, ok := l.store.ledger[orderID]
	return ok && entry.Outcome == domain.WebhookOutcomeSuccess, nil
}

func (l *memLedger) Record(ctx context.Context, entry *domain.WebhookLog) (bool, error) {
	if l.store.recordErr != nil {
		return false, l.store.recordErr
	}
	if existing, ok := l.store.ledger[entry.OrderID]; ok && existing.Outcome == domain.WebhookOutcomeSuccess {
		return false, nil
	}
	l.store.ledger[entry.OrderID] = *entry
	return true, nil
}

// Pending bookings

type memPending struct{ store *memStore }

func (p *memPending) GetByOrderID(ctx context.Context, orderID string) (*domain.PendingBooking, error) {
	b, ok := p.store.pending[orderID]
	if !ok {
		return nil, pendingRepo.ErrPendingBookingNotFound
	}
	return &b, nil
}

func (p *memPending) MarkCompleted(ctx context.Context, orderID, sessionID string) error {
	b, ok := p.store.pending[orderID]
	if !ok || b.Status != domain.PendingBookingStatusPending {
		return pendingRepo.ErrAlreadyCompleted
	}
	now := time.Now().UTC()
	b.Status = domain.PendingBookingStatusCompleted
	b.SessionID = &sessionID
	b.CompletedAt = &now
	p.store.pending[orderID] = b
	return nil
}

// Sessions / payments

type memSessions struct{ store *memStore }

func (r *memSessions) Create(ctx context.Context, s *domain.Session) error {
	if r.store.sessionErr != nil {
		return r.store.sessionErr
	}
	r.store.sessions = append(r.store.sessions, *s)
	return nil
}

type memPayments struct{ store *memStore }

func (r *memPayments) Create(ctx context.Context, p *domain.Payment) error {
	for _, existing := range r.store.payments {
		if existing.OrderID == p.OrderID {
			return fmt.Errorf("%w: order_id=%s", paymentRepo.ErrDuplicateOrder, p.OrderID)
		}
	}
	r.store.payments = append(r.store.payments, *p)
	return nil
}

// Availability

type memAvailability struct{ store *memStore }

func (r *memAvailability) GetByTherapistID(ctx context.Context, therapistID string) (*domain.TherapistAvailability, error) {
	doc, ok := r.store.availability[therapistID]
	if !ok {
		return nil, availabilityRepo.ErrAvailabilityNotFound
	}
	// глубокая копия слотов, как после чтения из БД
	cp := domain.TherapistAvailability{TherapistID: doc.TherapistID}
	for _, sd := range doc.SpecialDates {
		cp.SpecialDates = append(cp.SpecialDates, domain.SpecialDate{Date: sd.Date, Slots: append([]domain.TimeSlot(nil), sd.Slots...)})
	}
	for _, wd := range doc.WeeklySchedule {
		cp.WeeklySchedule = append(cp.WeeklySchedule, domain.WeeklyDay{DayOfWeek: wd.DayOfWeek, Slots: append([]domain.TimeSlot(nil), wd.Slots...)})
	}
	return &cp, nil
}

func (r *memAvailability) UpdateSchedules(ctx context.Context, availability *domain.TherapistAvailability) error {
	r.store.availability[availability.TherapistID] = *availability
	return nil
}

// Rooms

type fakeRooms struct {
	err   error
	calls int
}

func (r *fakeRooms) CreateRoom(ctx context.Context, sessionType domain.SessionType, expiresAt time.Time) (*daily.Room, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	name := fmt.Sprintf("room-%d", r.calls)
	return &daily.Room{Name: name, URL: "https://example.daily.co/" + name}, nil
}

// Events

type fakePublisher struct {
	events []domain.SessionProvisionedEvent
	err    error
}

func (p *fakePublisher) PublishJSON(ctx context.Context, key string, v any) error {
	if p.err != nil {
		return p.err
	}
	event, ok := v.(domain.SessionProvisionedEvent)
	if !ok {
		return errors.New("unexpected event type")
	}
	p.events = append(p.events, event)
	return nil
}

// Metrics

type fakeMetrics struct {
	pipeline []string
	rooms    []string
	slots    []string
}

func (m *fakeMetrics) IncPipelineOutcome(entrypoint, outcome string) {
	m.pipeline = append(m.pipeline, entrypoint+":"+outcome)
}

func (m *fakeMetrics) IncRoomProvisioning(sessionType, result string) {
	m.rooms = append(m.rooms, sessionType+":"+result)
}

func (m *fakeMetrics) IncAvailabilityOutcome(outcome string) {
	m.slots = append(m.slots, outcome)
}
