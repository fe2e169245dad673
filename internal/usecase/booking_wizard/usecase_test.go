package booking_wizard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	"github.com/m04kA/SMC-SalonBookingService/internal/events"
	"github.com/m04kA/SMC-SalonBookingService/internal/infra/sessions"
	"github.com/m04kA/SMC-SalonBookingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-SalonBookingService/internal/integrations/fixtures"
	"github.com/m04kA/SMC-SalonBookingService/internal/service/slots"
	"github.com/m04kA/SMC-SalonBookingService/internal/service/slots/models"
	"github.com/m04kA/SMC-SalonBookingService/internal/usecase/compute_availability"
	"github.com/m04kA/SMC-SalonBookingService/pkg/logger"
	"github.com/m04kA/SMC-SalonBookingService/pkg/metrics"
	"github.com/m04kA/SMC-SalonBookingService/pkg/ptr"
	"github.com/m04kA/SMC-SalonBookingService/pkg/types"
)

const (
	friday  = types.Date("2026-10-16")
	tuesday = types.Date("2026-10-20")
)

var now = time.Date(2026, 10, 15, 8, 0, 0, 0, time.UTC)

type fixedClock struct{}

func (fixedClock) Now() time.Time { return now }

type countingMetrics struct {
	mu     sync.Mutex
	counts map[string]int
}

func (m *countingMetrics) IncWizardStep(step, result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.counts == nil {
		m.counts = make(map[string]int)
	}
	m.counts[step+":"+result]++
}

type failingSlots struct{}

func (failingSlots) Reserve(context.Context, *models.ReserveRequest) (*domain.Slot, error) {
	return nil, errors.New("connection refused")
}

// gatedSlots задерживает Reserve, пока тест не откроет gate
type gatedSlots struct {
	next    SlotService
	entered chan struct{}
	gate    chan struct{}
}

func (g *gatedSlots) Reserve(ctx context.Context, req *models.ReserveRequest) (*domain.Slot, error) {
	g.entered <- struct{}{}
	<-g.gate
	return g.next.Reserve(ctx, req)
}

type fixture struct {
	uc      *UseCase
	store   *memory.SlotStore
	slots   *slots.Service
	metrics *countingMetrics
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := logger.NewNop()
	store := memory.NewSlotStore()
	catalog := fixtures.Demo()
	availability := compute_availability.NewUseCase(store, catalog, compute_availability.DefaultSettings(), log).
		WithTimeProvider(fixedClock{})
	slotService := slots.NewService(store, catalog, availability, events.NewBus(log), (*metrics.Metrics)(nil), log).
		WithClock(func() time.Time { return now })

	m := &countingMetrics{}
	uc := NewUseCase(sessions.NewMemoryStore(0), catalog, availability, slotService, m, log).
		WithTimeProvider(fixedClock{})
	return &fixture{uc: uc, store: store, slots: slotService, metrics: m}
}

func client(name string) domain.ClientDetails {
	return domain.ClientDetails{Name: name, Contact: domain.Contact{Email: "client@example.com"}}
}

// toDetails проводит новую сессию до шага ввода контактов
func (f *fixture) toDetails(t *testing.T, employeeID *int64, date types.Date, start string) string {
	t.Helper()
	ctx := context.Background()

	started, err := f.uc.Start(ctx, 1)
	require.NoError(t, err)
	id := started.Session.ID

	_, err = f.uc.SelectService(ctx, id, 100)
	require.NoError(t, err)
	_, err = f.uc.SelectEmployee(ctx, id, employeeID)
	require.NoError(t, err)
	resp, err := f.uc.SelectDateTime(ctx, id, &DateTimeRequest{Date: date, StartTime: types.TimeString(start)})
	require.NoError(t, err)
	require.Equal(t, domain.StepEnterDetails, resp.Session.Step)
	return id
}

func TestWizard_HappyPath(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	started, err := f.uc.Start(ctx, 1)
	require.NoError(t, err)
	id := started.Session.ID
	assert.NotEmpty(t, id)
	assert.Equal(t, domain.StepSelectService, started.Session.Step)

	resp, err := f.uc.SelectService(ctx, id, 100)
	require.NoError(t, err)
	assert.Equal(t, domain.StepSelectEmployee, resp.Session.Step)
	assert.Equal(t, []int64{10, 20}, resp.Session.Selection.QualifiedEmployeeIDs)

	resp, err = f.uc.SelectEmployee(ctx, id, ptr.Ptr(int64(10)))
	require.NoError(t, err)
	assert.Equal(t, domain.StepSelectDateTime, resp.Session.Step)

	resp, err = f.uc.SelectDateTime(ctx, id, &DateTimeRequest{Date: friday, StartTime: "10:30"})
	require.NoError(t, err)
	assert.Equal(t, domain.StepEnterDetails, resp.Session.Step)
	assert.Equal(t, types.TimeString("11:00"), resp.Session.Selection.EndTime)

	// состояние переживает повторную загрузку
	loaded, err := f.uc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.StepEnterDetails, loaded.Session.Step)

	resp, err = f.uc.SubmitDetails(ctx, id, client("  Maria "))
	require.NoError(t, err)
	assert.Equal(t, domain.StepConfirmed, resp.Session.Step)
	require.NotNil(t, resp.Slot)
	assert.Equal(t, resp.Slot.ID, resp.Session.SlotID)
	assert.Equal(t, domain.SlotStatusReserved, resp.Slot.Status)

	reservation, ok := resp.Slot.Reservation()
	require.True(t, ok)
	assert.Equal(t, "Maria", reservation.ClientName)
	assert.Equal(t, domain.SourceWizard, reservation.Source)

	_, err = f.uc.Get(ctx, id)
	assert.ErrorIs(t, err, ErrSessionNotFound, "confirmed session is removed")

	assert.Equal(t, 1, f.metrics.counts["enter_details:success"])
}

func TestWizard_AnyEmployeeAssignsLowestID(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	// Анна и Борис оба свободны во вторник в 13:00
	first := f.toDetails(t, nil, tuesday, "13:00")
	second := f.toDetails(t, nil, tuesday, "13:00")
	third := f.toDetails(t, nil, tuesday, "13:00")

	resp, err := f.uc.SubmitDetails(ctx, first, client("Maria"))
	require.NoError(t, err)
	assert.Equal(t, int64(10), resp.Slot.EmployeeID)
	assert.Equal(t, int64(10), *resp.Session.Selection.EmployeeID)

	resp, err = f.uc.SubmitDetails(ctx, second, client("Ivan"))
	require.NoError(t, err)
	assert.Equal(t, int64(20), resp.Slot.EmployeeID)

	_, err = f.uc.SubmitDetails(ctx, third, client("Olga"))
	assert.ErrorIs(t, err, domain.ErrSlotUnavailable)

	kept, err := f.uc.Get(ctx, third)
	require.NoError(t, err)
	assert.Equal(t, domain.StepEnterDetails, kept.Session.Step)
	require.NotNil(t, kept.Session.Selection.Client)
	assert.Equal(t, "Olga", kept.Session.Selection.Client.Name)
	assert.Equal(t, 1, f.metrics.counts["enter_details:conflict"])
}

func TestWizard_ConcurrentSubmits(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	ids := []string{
		f.toDetails(t, ptr.Ptr(int64(10)), friday, "10:30"),
		f.toDetails(t, ptr.Ptr(int64(10)), friday, "10:30"),
	}

	results := make([]error, len(ids))
	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			_, results[i] = f.uc.SubmitDetails(ctx, id, client("Client"))
		}(i, id)
	}
	wg.Wait()

	successes, conflicts := 0, 0
	for _, err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, domain.ErrSlotUnavailable):
			conflicts++
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, conflicts)

	reserved, err := f.store.GetSlots(ctx, domain.SlotQuery{SalonID: 1, From: friday, To: friday})
	require.NoError(t, err)
	assert.Len(t, reserved, 1)
}

func TestWizard_ValidationKeepsStep(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	started, err := f.uc.Start(ctx, 1)
	require.NoError(t, err)
	id := started.Session.ID

	_, err = f.uc.SelectEmployee(ctx, id, ptr.Ptr(int64(10)))
	assert.ErrorIs(t, err, domain.ErrInvalidStep, "no forward skipping")

	_, err = f.uc.SelectService(ctx, id, 999)
	assert.ErrorIs(t, err, ErrServiceNotFound)

	_, err = f.uc.SelectService(ctx, id, 100)
	require.NoError(t, err)

	_, err = f.uc.SelectEmployee(ctx, id, ptr.Ptr(int64(30)))
	assert.ErrorIs(t, err, domain.ErrServiceEmployeeMismatch)

	_, err = f.uc.SelectEmployee(ctx, id, ptr.Ptr(int64(99)))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.uc.SelectEmployee(ctx, id, ptr.Ptr(int64(10)))
	require.NoError(t, err)

	_, err = f.uc.SelectDateTime(ctx, id, &DateTimeRequest{Date: friday, StartTime: "10:10"})
	assert.ErrorIs(t, err, domain.ErrSlotUnavailable, "off grid")

	_, err = f.uc.SelectDateTime(ctx, id, &DateTimeRequest{Date: "2026-10-14", StartTime: "10:00"})
	assert.ErrorIs(t, err, domain.ErrValidation, "past date")

	_, err = f.uc.SelectDateTime(ctx, id, &DateTimeRequest{Date: "16.10.2026", StartTime: "10:00"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	resp, err := f.uc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.StepSelectDateTime, resp.Session.Step)

	_, err = f.uc.SelectDateTime(ctx, id, &DateTimeRequest{Date: friday, StartTime: "09:00"})
	require.NoError(t, err)

	_, err = f.uc.SubmitDetails(ctx, id, domain.ClientDetails{Name: "Maria"})
	assert.ErrorIs(t, err, ErrInvalidInput, "contact required")

	_, err = f.uc.SubmitDetails(ctx, id, domain.ClientDetails{Name: "Maria", Contact: domain.Contact{Email: "not-an-email"}})
	assert.ErrorIs(t, err, domain.ErrValidation)

	resp, err = f.uc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.StepEnterDetails, resp.Session.Step)

	resp, err = f.uc.SubmitDetails(ctx, id, domain.ClientDetails{Name: "Maria", Contact: domain.Contact{Phone: "+49 (30) 123-4567"}})
	require.NoError(t, err)
	assert.Equal(t, domain.StepConfirmed, resp.Session.Step)
	assert.Equal(t, "+49301234567", resp.Session.Selection.Client.Contact.Phone)
}

func TestWizard_SelectionStaleAtSubmit(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	id := f.toDetails(t, ptr.Ptr(int64(10)), friday, "11:00")

	// персонал заблокировал время после выбора клиентом
	_, err := f.slots.Block(ctx, domain.Actor{UserID: 1, CanEdit: true}, &models.BlockRequest{
		SalonID: 1, EmployeeID: 10, Date: friday, StartTime: "11:00", EndTime: "12:00",
	})
	require.NoError(t, err)

	_, err = f.uc.SubmitDetails(ctx, id, client("Maria"))
	assert.ErrorIs(t, err, domain.ErrSlotUnavailable)
	assert.Equal(t, "that time is no longer available, please choose another", domain.ErrSlotUnavailable.Error())

	resp, err := f.uc.GoBack(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.StepSelectDateTime, resp.Session.Step)
	assert.Equal(t, types.TimeString("11:00"), resp.Session.Selection.StartTime, "own step selection is kept")
	assert.Nil(t, resp.Session.Selection.Client)
	require.NotNil(t, resp.Session.Selection.EmployeeID)
	assert.Equal(t, int64(10), *resp.Session.Selection.EmployeeID)
}

func TestWizard_GoBack(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	id := f.toDetails(t, ptr.Ptr(int64(20)), tuesday, "12:00")

	_, err := f.uc.GoBackTo(ctx, id, domain.StepEnterDetails)
	assert.ErrorIs(t, err, domain.ErrInvalidStep, "not a prior step")

	_, err = f.uc.GoBackTo(ctx, id, domain.StepConfirmed)
	assert.ErrorIs(t, err, domain.ErrInvalidStep)

	_, err = f.uc.GoBackTo(ctx, id, domain.WizardStep("payment"))
	assert.ErrorIs(t, err, domain.ErrInvalidStep)

	resp, err := f.uc.GoBackTo(ctx, id, domain.StepSelectEmployee)
	require.NoError(t, err)
	assert.Equal(t, domain.StepSelectEmployee, resp.Session.Step)
	assert.Empty(t, resp.Session.Selection.Date)
	assert.Empty(t, resp.Session.Selection.StartTime)
	require.NotNil(t, resp.Session.Selection.ServiceID, "earlier selections are kept")
	assert.Equal(t, int64(100), *resp.Session.Selection.ServiceID)

	resp, err = f.uc.GoBack(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.StepSelectService, resp.Session.Step)

	_, err = f.uc.GoBack(ctx, id)
	assert.ErrorIs(t, err, domain.ErrInvalidStep, "first step")
}

func TestWizard_InfrastructureFailureAbandons(t *testing.T) {
	ctx := context.Background()
	log := logger.NewNop()
	store := memory.NewSlotStore()
	catalog := fixtures.Demo()
	availability := compute_availability.NewUseCase(store, catalog, compute_availability.DefaultSettings(), log).
		WithTimeProvider(fixedClock{})
	uc := NewUseCase(sessions.NewMemoryStore(0), catalog, availability, failingSlots{}, &countingMetrics{}, log).
		WithTimeProvider(fixedClock{})
	f := &fixture{uc: uc, store: store}

	id := f.toDetails(t, ptr.Ptr(int64(10)), friday, "09:00")

	_, err := uc.SubmitDetails(ctx, id, client("Maria"))
	assert.ErrorIs(t, err, ErrInternal)

	_, err = uc.Get(ctx, id)
	assert.ErrorIs(t, err, ErrSessionNotFound, "abandoned session is removed")

	slotsLeft, err := store.GetSlots(ctx, domain.SlotQuery{SalonID: 1, From: friday, To: friday})
	require.NoError(t, err)
	assert.Empty(t, slotsLeft, "nothing written")
}

func TestWizard_StartUnknownSalon(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Start(context.Background(), 99)
	assert.ErrorIs(t, err, ErrSalonNotFound)

	_, err = f.uc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestWizard_ConcurrentSubmitBooksOnce(t *testing.T) {
	ctx := context.Background()
	log := logger.NewNop()
	store := memory.NewSlotStore()
	catalog := fixtures.Demo()
	availability := compute_availability.NewUseCase(store, catalog, compute_availability.DefaultSettings(), log).
		WithTimeProvider(fixedClock{})
	slotService := slots.NewService(store, catalog, availability, events.NewBus(log), (*metrics.Metrics)(nil), log).
		WithClock(func() time.Time { return now })
	gated := &gatedSlots{next: slotService, entered: make(chan struct{}, 4), gate: make(chan struct{})}
	uc := NewUseCase(sessions.NewMemoryStore(0), catalog, availability, gated, &countingMetrics{}, log).
		WithTimeProvider(fixedClock{})
	f := &fixture{uc: uc, store: store}

	// Анна и Борис оба свободны во вторник в 13:00
	id := f.toDetails(t, nil, tuesday, "13:00")

	type result struct {
		resp *Response
		err  error
	}
	first := make(chan result, 1)
	go func() {
		resp, err := uc.SubmitDetails(ctx, id, client("Maria"))
		first <- result{resp: resp, err: err}
	}()
	<-gated.entered

	_, err := uc.SubmitDetails(ctx, id, client("Maria"))
	assert.ErrorIs(t, err, ErrSessionBusy)
	assert.ErrorIs(t, err, domain.ErrSessionConflict)

	_, err = uc.GoBack(ctx, id)
	assert.ErrorIs(t, err, ErrSessionBusy, "no back navigation while committing")

	busy, err := uc.Get(ctx, id)
	require.NoError(t, err)
	assert.True(t, busy.Session.Committing)

	close(gated.gate)
	res := <-first
	require.NoError(t, res.err)
	assert.Equal(t, domain.StepConfirmed, res.resp.Session.Step)
	assert.False(t, res.resp.Session.Committing)

	_, err = uc.Get(ctx, id)
	assert.ErrorIs(t, err, ErrSessionNotFound, "confirmed session is discarded")

	_, err = uc.SubmitDetails(ctx, id, client("Maria"))
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = uc.GoBack(ctx, id)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	booked, err := store.GetSlots(ctx, domain.SlotQuery{SalonID: 1, From: tuesday, To: tuesday})
	require.NoError(t, err)
	assert.Len(t, booked, 1, "one reservation per session")
	assert.Len(t, gated.entered, 0, "the second submit never reached the slot service")
}

func TestWizard_StaleWriteAfterConfirmDoesNotReviveSession(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	id := f.toDetails(t, ptr.Ptr(int64(10)), friday, "09:00")
	stale, err := f.uc.Get(ctx, id)
	require.NoError(t, err)

	_, err = f.uc.SubmitDetails(ctx, id, client("Maria"))
	require.NoError(t, err)

	f.uc.release(ctx, stale.Session)
	_, err = f.uc.Get(ctx, id)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
