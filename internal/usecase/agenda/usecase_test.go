package agenda

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	"github.com/m04kA/SMC-SalonBookingService/internal/events"
	"github.com/m04kA/SMC-SalonBookingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-SalonBookingService/internal/integrations/fixtures"
	"github.com/m04kA/SMC-SalonBookingService/internal/service/slots"
	"github.com/m04kA/SMC-SalonBookingService/internal/service/slots/models"
	"github.com/m04kA/SMC-SalonBookingService/internal/usecase/compute_availability"
	"github.com/m04kA/SMC-SalonBookingService/pkg/logger"
	"github.com/m04kA/SMC-SalonBookingService/pkg/metrics"
	"github.com/m04kA/SMC-SalonBookingService/pkg/types"
)

const friday = types.Date("2026-10-16")

var (
	employees = []domain.Employee{
		{ID: 10, Name: "Anna"},
		{ID: 20, Name: "Boris"},
	}
	services = []domain.Service{
		{ID: 100, Name: "Haircut", DurationMinutes: 30},
		{ID: 101, Name: "Colouring", DurationMinutes: 90},
	}
)

func reserved(id string, employeeID int64, start, end string, serviceID int64) *domain.Slot {
	return &domain.Slot{
		ID: id, SalonID: 1, EmployeeID: employeeID, Date: friday,
		StartTime: types.TimeString(start), EndTime: types.TimeString(end),
		Status:  domain.SlotStatusReserved,
		Payload: domain.ReservedPayload{ClientName: "Maria", ServiceID: serviceID},
	}
}

func blocked(id string, employeeID int64, start, end, reason string) *domain.Slot {
	return &domain.Slot{
		ID: id, SalonID: 1, EmployeeID: employeeID, Date: friday,
		StartTime: types.TimeString(start), EndTime: types.TimeString(end),
		Status:  domain.SlotStatusBlocked,
		Payload: domain.BlockedPayload{Reason: reason},
	}
}

func available(id string, employeeID int64, start, end string) *domain.Slot {
	return &domain.Slot{
		ID: id, SalonID: 1, EmployeeID: employeeID, Date: friday,
		StartTime: types.TimeString(start), EndTime: types.TimeString(end),
		Status:  domain.SlotStatusAvailable,
		Payload: domain.AvailablePayload{},
	}
}

func TestPresent_LabelsAndColors(t *testing.T) {
	corrupt := &domain.Slot{
		ID: "x", SalonID: 1, EmployeeID: 20, Date: friday,
		StartTime: "16:00", EndTime: "16:30", Status: domain.SlotStatus("cancelled"),
	}
	mismatched := reserved("m", 20, "17:00", "17:30", 100)
	mismatched.Payload = domain.BlockedPayload{}

	entries := Present([]*domain.Slot{
		blocked("b2", 10, "15:00", "16:00", ""),
		reserved("r", 10, "10:00", "10:30", 100),
		blocked("b1", 10, "13:00", "14:00", "lunch"),
		available("a", 20, "10:00", "10:30"),
		corrupt,
		mismatched,
		reserved("r2", 20, "09:00", "09:30", 999),
	}, employees, services, domain.NewAgendaFilter("", ""))

	require.Len(t, entries, 7)

	byID := make(map[string]CalendarEntry)
	for _, e := range entries {
		byID[e.SlotID] = e
	}

	assert.Equal(t, "Maria - Haircut", byID["r"].Label)
	assert.Equal(t, domain.ColorReserved, byID["r"].Color)
	assert.Equal(t, "Anna", byID["r"].EmployeeName)
	require.NotNil(t, byID["r"].ServiceID)
	assert.Equal(t, int64(100), *byID["r"].ServiceID)

	assert.Equal(t, "lunch", byID["b1"].Label)
	assert.Equal(t, domain.LabelBlocked, byID["b2"].Label)
	assert.Equal(t, domain.ColorBlocked, byID["b2"].Color)

	assert.Equal(t, domain.LabelAvailable, byID["a"].Label)
	assert.Equal(t, domain.ColorAvailable, byID["a"].Color)

	assert.Equal(t, domain.LabelUnknown, byID["x"].Label)
	assert.Equal(t, domain.ColorUnknown, byID["x"].Color)
	assert.Equal(t, domain.SlotStatus("cancelled"), byID["x"].Status)
	assert.Equal(t, domain.LabelUnknown, byID["m"].Label)

	assert.Equal(t, "Maria - Service #999", byID["r2"].Label)

	order := make([]string, 0, len(entries))
	for _, e := range entries {
		order = append(order, e.SlotID)
	}
	assert.Equal(t, []string{"r2", "r", "a", "b1", "b2", "x", "m"}, order)
}

func TestPresent_Filters(t *testing.T) {
	slots := []*domain.Slot{
		reserved("r1", 10, "09:00", "09:30", 100),
		reserved("r2", 20, "09:00", "10:30", 101),
		blocked("b", 10, "13:00", "14:00", "lunch"),
		available("a", 20, "11:00", "11:30"),
	}

	tests := []struct {
		name     string
		employee string
		service  string
		want     []string
	}{
		{name: "all", employee: "all", service: "all", want: []string{"r1", "r2", "a", "b"}},
		{name: "employee only", employee: "10", service: "all", want: []string{"r1", "b"}},
		{name: "service only", employee: "all", service: "101", want: []string{"r2"}},
		{name: "both", employee: "20", service: "100", want: []string{}},
		{name: "unknown employee", employee: "99", service: "all", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := Present(slots, employees, services, domain.NewAgendaFilter(tt.employee, tt.service))
			ids := make([]string, 0, len(entries))
			for _, e := range entries {
				ids = append(ids, e.SlotID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestPresent_Empty(t *testing.T) {
	entries := Present(nil, employees, services, domain.NewAgendaFilter("", ""))
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

type fixture struct {
	uc    *UseCase
	store *memory.SlotStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := logger.NewNop()
	now := time.Date(2026, 10, 15, 8, 0, 0, 0, time.UTC)
	store := memory.NewSlotStore()
	catalog := fixtures.Demo()
	availability := compute_availability.NewUseCase(store, catalog, compute_availability.DefaultSettings(), log).
		WithTimeProvider(clock(now))
	slotService := slots.NewService(store, catalog, availability, events.NewBus(log), (*metrics.Metrics)(nil), log).
		WithClock(func() time.Time { return now })
	return &fixture{uc: NewUseCase(store, catalog, slotService, log), store: store}
}

type clock time.Time

func (c clock) Now() time.Time { return time.Time(c) }

var editor = domain.Actor{UserID: 7, CanEdit: true}

func TestLoad_WithStaffActions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	lunch, err := f.uc.BlockRange(ctx, editor, &models.BlockRequest{
		SalonID: 1, EmployeeID: 10, Date: friday, StartTime: "13:00", EndTime: "14:00", Reason: "lunch",
	})
	require.NoError(t, err)

	f.store.Put(*reserved("", 20, "09:00", "09:30", 100))
	f.store.Put(domain.Slot{
		SalonID: 2, EmployeeID: 40, Date: friday, StartTime: "10:00", EndTime: "11:00",
		Status: domain.SlotStatusBlocked, Payload: domain.BlockedPayload{},
	})

	resp, err := f.uc.Load(ctx, &Request{SalonID: 1, From: friday, To: friday})
	require.NoError(t, err)
	assert.Equal(t, domain.FilterAll, resp.Filter.Employee)
	require.Len(t, resp.Entries, 2)
	assert.Equal(t, "Maria - Haircut", resp.Entries[0].Label)
	assert.Equal(t, "Boris", resp.Entries[0].EmployeeName)
	assert.Equal(t, "lunch", resp.Entries[1].Label)

	detail, err := f.uc.ViewDetail(ctx, lunch.ID)
	require.NoError(t, err)
	assert.Equal(t, "Anna", detail.EmployeeName)

	_, err = f.uc.ReleaseSlot(ctx, editor, lunch.ID)
	require.NoError(t, err)

	resp, err = f.uc.Load(ctx, &Request{SalonID: 1, From: friday, To: friday, Filter: domain.NewAgendaFilter("10", "all")})
	require.NoError(t, err)
	require.Len(t, resp.Entries, 1)
	assert.Equal(t, domain.LabelAvailable, resp.Entries[0].Label)
	assert.Empty(t, resp.Entries[0].Reason)
}

func TestLoad_Validation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	tests := []struct {
		name string
		req  *Request
		want error
	}{
		{name: "reversed", req: &Request{SalonID: 1, From: "2026-10-17", To: "2026-10-16"}, want: ErrInvalidRange},
		{name: "too long", req: &Request{SalonID: 1, From: "2026-10-01", To: "2026-12-02"}, want: ErrInvalidRange},
		{name: "bad date", req: &Request{SalonID: 1, From: "2026-13-01", To: "2026-12-02"}, want: ErrInvalidRange},
		{name: "bad filter", req: &Request{SalonID: 1, From: friday, To: friday, Filter: domain.NewAgendaFilter("anna", "")}, want: domain.ErrValidation},
		{name: "unknown salon", req: &Request{SalonID: 99, From: friday, To: friday}, want: ErrSalonNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.Load(ctx, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := f.uc.Load(ctx, &Request{SalonID: 1, From: "2026-10-01", To: "2026-12-01"})
	assert.NoError(t, err, "62 days inclusive")

	_, err = f.uc.ReleaseSlot(ctx, domain.Actor{UserID: 1}, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
