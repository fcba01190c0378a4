package create_session

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
	pendingRepo "github.com/m04kA/SMC-SessionService/internal/infra/storage/pendingbooking"
	therapistRepo "github.com/m04kA/SMC-SessionService/internal/infra/storage/therapist"
	"github.com/m04kA/SMC-SessionService/internal/integrations/daily"
	"github.com/m04kA/SMC-SessionService/internal/service/availability"
	"github.com/m04kA/SMC-SessionService/internal/service/records"
)

type mockLogger struct{}

func (m *mockLogger) Info(format string, v ...interface{})  {}
func (m *mockLogger) Warn(format string, v ...interface{})  {}
func (m *mockLogger) Error(format string, v ...interface{}) {}

type store struct {
	therapists map[string]domain.Therapist
	pending    map[string]domain.PendingBooking
	sessions   []domain.Session
	payments   []domain.Payment

	therapistErr error
	paymentErr   error
	// хуки имитируют шлюз, зафиксировавший заказ параллельно
	completeHook  func()
	beforePayment func()
}

type fakeTx struct{ s *store }

func (f *fakeTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	sessions, payments := len(f.s.sessions), len(f.s.payments)
	if err := fn(ctx); err != nil {
		f.s.sessions = f.s.sessions[:sessions]
		f.s.payments = f.s.payments[:payments]
		return err
	}
	return nil
}

type fakeTherapists struct{ s *store }

func (r *fakeTherapists) GetByID(ctx context.Context, id string) (*domain.Therapist, error) {
	if r.s.therapistErr != nil {
		return nil, r.s.therapistErr
	}
	t, ok := r.s.therapists[id]
	if !ok {
		return nil, therapistRepo.ErrTherapistNotFound
	}
	return &t, nil
}

type fakePending struct{ s *store }

func (r *fakePending) GetByOrderID(ctx context.Context, orderID string) (*domain.PendingBooking, error) {
	b, ok := r.s.pending[orderID]
	if !ok {
		return nil, pendingRepo.ErrPendingBookingNotFound
	}
	return &b, nil
}

func (r *fakePending) MarkCompleted(ctx context.Context, orderID, sessionID string) error {
	if r.s.completeHook != nil {
		r.s.completeHook()
	}
	b, ok := r.s.pending[orderID]
	if !ok || b.IsCompleted() {
		return pendingRepo.ErrAlreadyCompleted
	}
	b.Status = domain.PendingBookingStatusCompleted
	b.SessionID = &sessionID
	r.s.pending[orderID] = b
	return nil
}

type fakeSessions struct{ s *store }

func (r *fakeSessions) Create(ctx context.Context, session *domain.Session) error {
	r.s.sessions = append(r.s.sessions, *session)
	return nil
}

type fakePayments struct{ s *store }

func (r *fakePayments) Create(ctx context.Context, p *domain.Payment) error {
	if r.s.beforePayment != nil {
		r.s.beforePayment()
	}
	if r.s.paymentErr != nil {
		return r.s.paymentErr
	}
	r.s.payments = append(r.s.payments, *p)
	return nil
}

type fakeRooms struct {
	err   error
	calls int
}

func (r *fakeRooms) CreateRoom(ctx context.Context, sessionType domain.SessionType, expiresAt time.Time) (*daily.Room, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return &daily.Room{Name: "room-1", URL: "https://example.daily.co/room-1"}, nil
}

type fakeAvailability struct {
	state    availability.SlotState
	checkErr error
	outcome  availability.Outcome
	booked   []time.Time
}

func (a *fakeAvailability) CheckSlot(ctx context.Context, therapistID string, instant time.Time) (availability.SlotState, error) {
	return a.state, a.checkErr
}

func (a *fakeAvailability) MarkBooked(ctx context.Context, therapistID string, instant time.Time) availability.Outcome {
	a.booked = append(a.booked, instant)
	return a.outcome
}

type fakePublisher struct {
	events []domain.SessionProvisionedEvent
}

func (p *fakePublisher) PublishJSON(ctx context.Context, key string, v any) error {
	p.events = append(p.events, v.(domain.SessionProvisionedEvent))
	return nil
}

type fakeMetrics struct {
	pipeline []string
	rooms    []string
}

func (m *fakeMetrics) IncPipelineOutcome(entrypoint, outcome string) {
	m.pipeline = append(m.pipeline, entrypoint+":"+outcome)
}

func (m *fakeMetrics) IncRoomProvisioning(sessionType, result string) {
	m.rooms = append(m.rooms, sessionType+":"+result)
}

type testEnv struct {
	store        *store
	rooms        *fakeRooms
	availability *fakeAvailability
	publisher    *fakePublisher
	metrics      *fakeMetrics
	uc           *UseCase
}

func newTestEnv() *testEnv {
	s := &store{
		therapists: map[string]domain.Therapist{
			"T1":     {ID: "T1", DisplayName: "Dr. Perera", IsActive: true},
			"T-away": {ID: "T-away", DisplayName: "Dr. Silva", IsActive: false},
		},
		pending: map[string]domain.PendingBooking{},
	}
	env := &testEnv{
		store:        s,
		rooms:        &fakeRooms{},
		availability: &fakeAvailability{state: availability.SlotStateOpen, outcome: availability.OutcomeUpdated},
		publisher:    &fakePublisher{},
		metrics:      &fakeMetrics{},
	}
	tx := &fakeTx{s: s}
	writer := records.NewWriter(&fakeSessions{s: s}, &fakePayments{s: s}, tx, &mockLogger{})

	env.uc = NewUseCase(
		&fakeTherapists{s: s},
		&fakePending{s: s},
		env.rooms,
		writer,
		env.availability,
		env.publisher,
		tx,
		env.metrics,
		domain.RoomTTLHours,
		&mockLogger{},
	)
	return env
}

func newRequest(sessionType string) *Request {
	return &Request{
		ClientID: "C1",
		BookingData: BookingData{
			TherapistID: "T1",
			SessionTime: "2024-05-01T14:00:00+05:30",
			SessionType: sessionType,
			Duration:    60,
		},
		PaymentData: PaymentData{
			OrderID:   "O1",
			PaymentID: "P1",
			Amount:    1500,
			Currency:  "lkr",
			Method:    "VISA",
		},
	}
}

var scheduledUTC = time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC)

// pendingBooking заказ O1, совпадающий с newRequest для указанного клиента
func pendingBooking(clientID string, sessionType domain.SessionType, status domain.PendingBookingStatus, sessionID *string) domain.PendingBooking {
	return domain.PendingBooking{
		OrderID:         "O1",
		TherapistID:     "T1",
		ClientID:        clientID,
		SessionType:     sessionType,
		ScheduledTime:   scheduledUTC,
		DurationMinutes: 60,
		Status:          status,
		SessionID:       sessionID,
	}
}

func TestExecute_Success(t *testing.T) {
	env := newTestEnv()

	resp, err := env.uc.Execute(context.Background(), newRequest("video"))

	require.NoError(t, err)
	assert.True(t, resp.Success)
	require.Len(t, env.store.sessions, 1)
	assert.Equal(t, resp.SessionID, env.store.sessions[0].ID)

	session := env.store.sessions[0]
	assert.Equal(t, scheduledUTC, session.ScheduledTime)
	assert.Equal(t, "room-1", session.RoomName)
	assert.Equal(t, domain.SessionStatusScheduled, session.Status)

	require.Len(t, env.store.payments, 1)
	assert.Equal(t, "LKR", env.store.payments[0].Currency)
	assert.Equal(t, domain.PayoutStatusPending, env.store.payments[0].PayoutStatus)
	assert.Equal(t, resp.SessionID, env.store.payments[0].SessionID)

	assert.Len(t, env.availability.booked, 1)
	require.Len(t, env.publisher.events, 1)
	assert.Equal(t, domain.SourceDirect, env.publisher.events[0].Source)
	assert.Equal(t, []string{"direct:processed"}, env.metrics.pipeline)
}

func TestExecute_ChatSkipsRoom(t *testing.T) {
	env := newTestEnv()

	_, err := env.uc.Execute(context.Background(), newRequest("chat"))

	require.NoError(t, err)
	assert.Equal(t, 0, env.rooms.calls)
	assert.False(t, env.store.sessions[0].HasRoom())
}

func TestExecute_RoomFailureAbortsBeforeWrites(t *testing.T) {
	env := newTestEnv()
	env.rooms.err = errors.New("daily unreachable")

	_, err := env.uc.Execute(context.Background(), newRequest("audio"))

	assert.True(t, errors.Is(err, ErrRoomProvisioning))
	assert.Empty(t, env.store.sessions)
	assert.Empty(t, env.store.payments)
	assert.Empty(t, env.availability.booked)
	assert.Empty(t, env.publisher.events)
	assert.Contains(t, env.metrics.rooms, "audio:failed")
}

func TestExecute_TherapistChecks(t *testing.T) {
	env := newTestEnv()

	req := newRequest("chat")
	req.BookingData.TherapistID = "T404"
	_, err := env.uc.Execute(context.Background(), req)
	assert.True(t, errors.Is(err, ErrTherapistNotFound))

	req = newRequest("chat")
	req.BookingData.TherapistID = "T-away"
	_, err = env.uc.Execute(context.Background(), req)
	assert.True(t, errors.Is(err, ErrTherapistInactive))

	env.store.therapistErr = errors.New("connection refused")
	_, err = env.uc.Execute(context.Background(), newRequest("chat"))
	assert.True(t, errors.Is(err, ErrInternal))

	assert.Empty(t, env.store.sessions)
}

func TestExecute_SlotTaken(t *testing.T) {
	env := newTestEnv()
	env.availability.state = availability.SlotStateTaken

	_, err := env.uc.Execute(context.Background(), newRequest("video"))

	assert.True(t, errors.Is(err, ErrSlotNotAvailable))
	assert.Equal(t, 0, env.rooms.calls)
	assert.Empty(t, env.store.sessions)
}

func TestExecute_SlotCheckErrorIsIgnored(t *testing.T) {
	env := newTestEnv()
	env.availability.state = availability.SlotStateUnknown
	env.availability.checkErr = errors.New("timeout")

	resp, err := env.uc.Execute(context.Background(), newRequest("chat"))

	require.NoError(t, err)
	assert.True(t, resp.Success)
}

func TestExecute_NoMatchingSlotStillCreates(t *testing.T) {
	env := newTestEnv()
	env.availability.state = availability.SlotStateUnknown
	env.availability.outcome = availability.OutcomeNoMatchingSlot

	resp, err := env.uc.Execute(context.Background(), newRequest("chat"))

	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Len(t, env.store.sessions, 1)
	assert.Equal(t, "no_matching_slot", env.publisher.events[0].AvailabilityOutcome)
}

func TestExecute_CompletesPendingBooking(t *testing.T) {
	env := newTestEnv()
	env.store.pending["O1"] = pendingBooking("C1", domain.SessionTypeChat, domain.PendingBookingStatusPending, nil)

	resp, err := env.uc.Execute(context.Background(), newRequest("chat"))

	require.NoError(t, err)
	pending := env.store.pending["O1"]
	assert.True(t, pending.IsCompleted())
	require.NotNil(t, pending.SessionID)
	assert.Equal(t, resp.SessionID, *pending.SessionID)
}

func TestExecute_AlreadyProvisionedReturnsExistingSession(t *testing.T) {
	env := newTestEnv()
	existing := "S-gateway"
	env.store.pending["O1"] = pendingBooking("C1", domain.SessionTypeVideo, domain.PendingBookingStatusCompleted, &existing)

	resp, err := env.uc.Execute(context.Background(), newRequest("video"))

	require.NoError(t, err)
	assert.Equal(t, "S-gateway", resp.SessionID)
	assert.True(t, resp.Success)
	assert.Equal(t, 0, env.rooms.calls)
	assert.Empty(t, env.store.sessions)
}

func TestExecute_GatewayWinsRace(t *testing.T) {
	env := newTestEnv()
	env.store.pending["O1"] = pendingBooking("C1", domain.SessionTypeChat, domain.PendingBookingStatusPending, nil)
	gatewaySession := "S-gateway"
	env.store.completeHook = func() {
		b := env.store.pending["O1"]
		b.Status = domain.PendingBookingStatusCompleted
		b.SessionID = &gatewaySession
		env.store.pending["O1"] = b
	}

	resp, err := env.uc.Execute(context.Background(), newRequest("chat"))

	require.NoError(t, err)
	assert.Equal(t, "S-gateway", resp.SessionID)
	assert.Empty(t, env.store.sessions)
	assert.Empty(t, env.store.payments)
	assert.Empty(t, env.availability.booked)
	assert.Equal(t, []string{"direct:already_completed"}, env.metrics.pipeline)
}

func TestExecute_DuplicatePaymentReturnsExistingSession(t *testing.T) {
	env := newTestEnv()
	env.store.pending["O1"] = pendingBooking("C1", domain.SessionTypeVideo, domain.PendingBookingStatusPending, nil)
	gatewaySession := "S-gateway"
	env.store.beforePayment = func() {
		b := env.store.pending["O1"]
		b.Status = domain.PendingBookingStatusCompleted
		b.SessionID = &gatewaySession
		env.store.pending["O1"] = b
	}
	env.store.paymentErr = fmt.Errorf("%w: order_id=O1", paymentRepo.ErrDuplicateOrder)

	resp, err := env.uc.Execute(context.Background(), newRequest("video"))

	require.NoError(t, err)
	assert.Equal(t, "S-gateway", resp.SessionID)
	assert.Empty(t, env.store.sessions)
	assert.Equal(t, 1, env.rooms.calls)
}

func TestExecute_DuplicateWithoutKnownSession(t *testing.T) {
	env := newTestEnv()
	env.store.paymentErr = fmt.Errorf("%w: order_id=O1", paymentRepo.ErrDuplicateOrder)

	_, err := env.uc.Execute(context.Background(), newRequest("chat"))

	assert.True(t, errors.Is(err, ErrInternal))
}

func TestExecute_ForeignOrderIsRejected(t *testing.T) {
	env := newTestEnv()
	env.store.pending["O1"] = pendingBooking("C-owner", domain.SessionTypeVideo, domain.PendingBookingStatusPending, nil)

	req := newRequest("video")
	req.ClientID = "C-other"
	_, err := env.uc.Execute(context.Background(), req)

	assert.True(t, errors.Is(err, ErrOrderNotOwned))
	pending := env.store.pending["O1"]
	assert.False(t, pending.IsCompleted())
	assert.Nil(t, pending.SessionID)
	assert.Empty(t, env.store.sessions)
	assert.Empty(t, env.store.payments)
	assert.Equal(t, 0, env.rooms.calls)
	assert.Empty(t, env.availability.booked)
	assert.Equal(t, []string{"direct:rejected"}, env.metrics.pipeline)
}

func TestExecute_ForeignCompletedOrderDoesNotLeakSession(t *testing.T) {
	env := newTestEnv()
	ownerSession := "S-owner"
	env.store.pending["O1"] = pendingBooking("C-owner", domain.SessionTypeVideo, domain.PendingBookingStatusCompleted, &ownerSession)

	req := newRequest("video")
	req.ClientID = "C-other"
	resp, err := env.uc.Execute(context.Background(), req)

	assert.True(t, errors.Is(err, ErrOrderNotOwned))
	assert.Nil(t, resp)
}

func TestExecute_OrderBookingMismatch(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *Request)
	}{
		{name: "other therapist", mutate: func(r *Request) { r.BookingData.TherapistID = "T2" }},
		{name: "other time", mutate: func(r *Request) { r.BookingData.SessionTime = "2024-05-01T15:00:00+05:30" }},
		{name: "other session type", mutate: func(r *Request) { r.BookingData.SessionType = "chat" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv()
			env.store.therapists["T2"] = domain.Therapist{ID: "T2", IsActive: true}
			env.store.pending["O1"] = pendingBooking("C1", domain.SessionTypeVideo, domain.PendingBookingStatusPending, nil)

			req := newRequest("video")
			tt.mutate(req)
			_, err := env.uc.Execute(context.Background(), req)

			assert.True(t, errors.Is(err, ErrBookingMismatch))
			booking := env.store.pending["O1"]
			assert.False(t, booking.IsCompleted())
			assert.Empty(t, env.store.sessions)
		})
	}
}

func TestExecute_PersistenceFailure(t *testing.T) {
	env := newTestEnv()
	env.store.paymentErr = errors.New("disk full")

	_, err := env.uc.Execute(context.Background(), newRequest("video"))

	assert.True(t, errors.Is(err, ErrInternal))
	assert.Empty(t, env.store.sessions)
	assert.Empty(t, env.availability.booked)
}

func TestExecute_Validation(t *testing.T) {
	env := newTestEnv()

	tests := []struct {
		name    string
		mutate  func(r *Request)
		wantErr error
	}{
		{name: "no caller", mutate: func(r *Request) { r.ClientID = "" }, wantErr: ErrUnauthenticated},
		{name: "no therapist", mutate: func(r *Request) { r.BookingData.TherapistID = " " }, wantErr: ErrInvalidInput},
		{name: "unknown type", mutate: func(r *Request) { r.BookingData.SessionType = "sms" }, wantErr: ErrInvalidInput},
		{name: "zero duration", mutate: func(r *Request) { r.BookingData.Duration = 0 }, wantErr: ErrInvalidInput},
		{name: "bad time", mutate: func(r *Request) { r.BookingData.SessionTime = "tomorrow 2pm" }, wantErr: ErrInvalidInput},
		{name: "no order", mutate: func(r *Request) { r.PaymentData.OrderID = "" }, wantErr: ErrInvalidInput},
		{name: "negative amount", mutate: func(r *Request) { r.PaymentData.Amount = -1 }, wantErr: ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := newRequest("chat")
			tt.mutate(req)

			_, err := env.uc.Execute(context.Background(), req)
			assert.True(t, errors.Is(err, tt.wantErr))
		})
	}

	assert.Empty(t, env.store.sessions)
}

func TestValidateRequest_BookingIDFallback(t *testing.T) {
	req := newRequest("chat")
	req.PaymentData.OrderID = ""
	req.PaymentData.BookingID = "B-77"

	b, err := validateRequest(req)

	require.NoError(t, err)
	assert.Equal(t, "B-77", b.orderID)
}
