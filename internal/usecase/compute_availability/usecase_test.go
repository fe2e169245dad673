package compute_availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	"github.com/m04kA/SMC-SalonBookingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-SalonBookingService/internal/integrations/fixtures"
	"github.com/m04kA/SMC-SalonBookingService/pkg/logger"
	"github.com/m04kA/SMC-SalonBookingService/pkg/ptr"
	"github.com/m04kA/SMC-SalonBookingService/pkg/types"
)

const friday = types.Date("2026-10-16")

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time { return c.now }

func morning() domain.DaySchedule {
	return domain.DaySchedule{Windows: []domain.TimeWindow{{Start: "09:00", End: "12:00"}}}
}

func testSalon() *domain.Salon {
	day := morning()
	return &domain.Salon{
		ID:       1,
		Name:     "Downtown",
		Timezone: "UTC",
		WorkingHours: domain.WorkingHours{
			Monday: day, Tuesday: day, Wednesday: day, Thursday: day, Friday: day,
		},
		Employees: []domain.Employee{
			{ID: 20, Name: "Boris", SalonID: 1, ServiceIDs: []int64{100}},
			{ID: 10, Name: "Anna", SalonID: 1, ServiceIDs: []int64{100, 103, 104}},
			{ID: 30, Name: "Vera", SalonID: 1},
		},
		Services: []domain.Service{
			{ID: 100, Name: "Haircut", DurationMinutes: 30},
			{ID: 103, Name: "Long treatment", DurationMinutes: 180},
			{ID: 104, Name: "Too long", DurationMinutes: 181},
			{ID: 105, Name: "Manicure", DurationMinutes: 45, EmployeeIDs: []int64{30}},
		},
	}
}

type fixture struct {
	uc    *UseCase
	store *memory.SlotStore
	clock *fixedClock
}

func newFixture(t *testing.T, salon *domain.Salon, settings Settings) *fixture {
	t.Helper()
	store := memory.NewSlotStore()
	clock := &fixedClock{now: time.Date(2026, 10, 15, 8, 0, 0, 0, time.UTC)}
	uc := NewUseCase(store, fixtures.NewCatalog(salon), settings, logger.NewNop()).WithTimeProvider(clock)
	return &fixture{uc: uc, store: store, clock: clock}
}

func (f *fixture) put(t *testing.T, employeeID int64, start, end string, status domain.SlotStatus) {
	t.Helper()
	var payload domain.SlotPayload
	switch status {
	case domain.SlotStatusReserved:
		payload = domain.ReservedPayload{ClientName: "Client", ServiceID: 100}
	case domain.SlotStatusBlocked:
		payload = domain.BlockedPayload{Reason: "lunch"}
	case domain.SlotStatusAvailable:
		payload = domain.AvailablePayload{}
	}
	f.store.Put(domain.Slot{
		SalonID: 1, EmployeeID: employeeID, Date: friday,
		StartTime: types.TimeString(start), EndTime: types.TimeString(end),
		Status: status, Payload: payload,
	})
}

func starts(windows []Window) []string {
	result := make([]string, len(windows))
	for i, w := range windows {
		result[i] = w.StartTime.String()
	}
	return result
}

func request(employeeID *int64, serviceID int64, date types.Date) *Request {
	return &Request{SalonID: 1, EmployeeID: employeeID, ServiceID: serviceID, Date: date}
}

func TestExecute_SixWindowsInThreeHours(t *testing.T) {
	f := newFixture(t, testSalon(), DefaultSettings())

	resp, err := f.uc.Execute(context.Background(), request(ptr.Ptr(int64(10)), 100, friday))
	require.NoError(t, err)

	assert.Equal(t, []string{"09:00", "09:30", "10:00", "10:30", "11:00", "11:30"}, starts(resp.Windows))
	assert.Equal(t, 30, resp.DurationMinutes)
	for _, w := range resp.Windows {
		assert.Equal(t, w.StartTime.Minutes()+30, w.EndTime.Minutes())
	}
}

func TestExecute_ReservedSlotRemovesWindow(t *testing.T) {
	f := newFixture(t, testSalon(), DefaultSettings())
	f.put(t, 10, "10:00", "10:30", domain.SlotStatusReserved)

	resp, err := f.uc.Execute(context.Background(), request(ptr.Ptr(int64(10)), 100, friday))
	require.NoError(t, err)

	assert.Equal(t, []string{"09:00", "09:30", "10:30", "11:00", "11:30"}, starts(resp.Windows))
}

func TestExecute_StepsRestartAfterOccupiedTime(t *testing.T) {
	f := newFixture(t, testSalon(), DefaultSettings())
	f.put(t, 10, "10:15", "10:45", domain.SlotStatusBlocked)
	f.put(t, 10, "09:00", "09:30", domain.SlotStatusAvailable)

	resp, err := f.uc.Execute(context.Background(), request(ptr.Ptr(int64(10)), 100, friday))
	require.NoError(t, err)

	assert.Equal(t, []string{"09:00", "09:30", "10:45", "11:15"}, starts(resp.Windows))
}

func TestExecute_ExactFit(t *testing.T) {
	f := newFixture(t, testSalon(), DefaultSettings())

	resp, err := f.uc.Execute(context.Background(), request(ptr.Ptr(int64(10)), 103, friday))
	require.NoError(t, err)
	require.Len(t, resp.Windows, 1)
	assert.Equal(t, Window{EmployeeID: 10, StartTime: "09:00", EndTime: "12:00"}, resp.Windows[0])

	resp, err = f.uc.Execute(context.Background(), request(ptr.Ptr(int64(10)), 104, friday))
	require.NoError(t, err)
	assert.Empty(t, resp.Windows)
}

func TestExecute_AnyEmployeeUnion(t *testing.T) {
	f := newFixture(t, testSalon(), DefaultSettings())
	f.put(t, 20, "09:00", "09:30", domain.SlotStatusReserved)

	resp, err := f.uc.Execute(context.Background(), request(nil, 100, friday))
	require.NoError(t, err)
	require.Len(t, resp.Windows, 11)

	assert.Equal(t, Window{EmployeeID: 10, StartTime: "09:00", EndTime: "09:30"}, resp.Windows[0])
	assert.Equal(t, Window{EmployeeID: 10, StartTime: "09:30", EndTime: "10:00"}, resp.Windows[1])
	assert.Equal(t, Window{EmployeeID: 20, StartTime: "09:30", EndTime: "10:00"}, resp.Windows[2])

	for i := 1; i < len(resp.Windows); i++ {
		prev, cur := resp.Windows[i-1], resp.Windows[i]
		assert.False(t, cur.StartTime.IsBefore(prev.StartTime))
		if cur.StartTime == prev.StartTime {
			assert.Less(t, prev.EmployeeID, cur.EmployeeID)
		}
	}
}

func TestExecute_QualificationFromServiceSide(t *testing.T) {
	f := newFixture(t, testSalon(), DefaultSettings())

	resp, err := f.uc.Execute(context.Background(), request(nil, 105, friday))
	require.NoError(t, err)
	require.NotEmpty(t, resp.Windows)
	for _, w := range resp.Windows {
		assert.Equal(t, int64(30), w.EmployeeID)
	}
}

func TestExecute_ClosedDay(t *testing.T) {
	f := newFixture(t, testSalon(), DefaultSettings())

	resp, err := f.uc.Execute(context.Background(), request(nil, 100, "2026-10-17"))
	require.NoError(t, err)
	assert.Empty(t, resp.Windows)
}

func TestExecute_DateValidation(t *testing.T) {
	f := newFixture(t, testSalon(), DefaultSettings())
	ctx := context.Background()

	_, err := f.uc.Execute(ctx, request(nil, 100, "2026-10-14"))
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.ErrorIs(t, err, ErrDateInPast)

	_, err = f.uc.Execute(ctx, request(nil, 100, types.Date("2026-10-15").AddDays(61)))
	assert.ErrorIs(t, err, ErrDateTooFarInFuture)

	_, err = f.uc.Execute(ctx, request(nil, 100, types.Date("2026-10-15").AddDays(60)))
	assert.NoError(t, err)

	_, err = f.uc.Execute(ctx, request(nil, 100, "16.10.2026"))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestExecute_TodayExcludesElapsedWindows(t *testing.T) {
	tests := []struct {
		name   string
		now    time.Time
		notice int
		want   []string
	}{
		{name: "mid window", now: time.Date(2026, 10, 16, 10, 10, 30, 0, time.UTC), want: []string{"10:30", "11:00", "11:30"}},
		{name: "exactly at start", now: time.Date(2026, 10, 16, 10, 30, 0, 0, time.UTC), want: []string{"10:30", "11:00", "11:30"}},
		{name: "second after start", now: time.Date(2026, 10, 16, 10, 30, 1, 0, time.UTC), want: []string{"11:00", "11:30"}},
		{name: "with notice", now: time.Date(2026, 10, 16, 10, 0, 0, 0, time.UTC), notice: 60, want: []string{"11:00", "11:30"}},
		{name: "after closing", now: time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC), want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := DefaultSettings()
			settings.MinNoticeMinutes = tt.notice
			f := newFixture(t, testSalon(), settings)
			f.clock.now = tt.now

			resp, err := f.uc.Execute(context.Background(), request(ptr.Ptr(int64(10)), 100, friday))
			require.NoError(t, err)
			assert.Equal(t, tt.want, starts(resp.Windows))
		})
	}
}

func TestExecute_NoticeCrossesMidnight(t *testing.T) {
	settings := DefaultSettings()
	settings.MinNoticeMinutes = 12 * 60
	f := newFixture(t, testSalon(), settings)
	f.clock.now = time.Date(2026, 10, 15, 22, 0, 0, 0, time.UTC)

	resp, err := f.uc.Execute(context.Background(), request(ptr.Ptr(int64(10)), 100, friday))
	require.NoError(t, err)
	assert.Equal(t, []string{"10:00", "10:30", "11:00", "11:30"}, starts(resp.Windows))
}

func TestExecute_SalonTimezone(t *testing.T) {
	salon := testSalon()
	salon.Timezone = "Europe/Moscow"
	f := newFixture(t, salon, DefaultSettings())
	// 22:00 UTC = 01:00 следующего дня в Москве
	f.clock.now = time.Date(2026, 10, 15, 22, 0, 0, 0, time.UTC)

	_, err := f.uc.Execute(context.Background(), request(nil, 100, "2026-10-15"))
	assert.ErrorIs(t, err, ErrDateInPast)

	resp, err := f.uc.Execute(context.Background(), request(ptr.Ptr(int64(10)), 100, friday))
	require.NoError(t, err)
	assert.Len(t, resp.Windows, 6)
}

func TestExecute_ConfiguredStep(t *testing.T) {
	tests := []struct {
		name string
		step int
		want []string
	}{
		{name: "wider than duration", step: 60, want: []string{"09:00", "10:00", "11:00"}},
		{name: "shorter than duration is raised", step: 15, want: []string{"09:00", "09:30", "10:00", "10:30", "11:00", "11:30"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := DefaultSettings()
			settings.StepMinutes = tt.step
			f := newFixture(t, testSalon(), settings)

			resp, err := f.uc.Execute(context.Background(), request(ptr.Ptr(int64(10)), 100, friday))
			require.NoError(t, err)
			assert.Equal(t, tt.want, starts(resp.Windows))
			for i := 1; i < len(resp.Windows); i++ {
				assert.LessOrEqual(t, resp.Windows[i-1].EndTime.Minutes(), resp.Windows[i].StartTime.Minutes(), "windows overlap")
			}
		})
	}
}

func TestExecute_LookupErrors(t *testing.T) {
	f := newFixture(t, testSalon(), DefaultSettings())
	ctx := context.Background()

	_, err := f.uc.Execute(ctx, &Request{SalonID: 9, ServiceID: 100, Date: friday})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.uc.Execute(ctx, request(nil, 999, friday))
	assert.ErrorIs(t, err, ErrServiceNotFound)

	_, err = f.uc.Execute(ctx, request(ptr.Ptr(int64(99)), 100, friday))
	assert.ErrorIs(t, err, ErrEmployeeNotFound)

	_, err = f.uc.Execute(ctx, request(ptr.Ptr(int64(30)), 100, friday))
	assert.ErrorIs(t, err, domain.ErrServiceEmployeeMismatch)
}

func TestExecute_Idempotent(t *testing.T) {
	f := newFixture(t, testSalon(), DefaultSettings())
	f.put(t, 10, "11:00", "11:30", domain.SlotStatusReserved)

	first, err := f.uc.Execute(context.Background(), request(nil, 100, friday))
	require.NoError(t, err)
	second, err := f.uc.Execute(context.Background(), request(nil, 100, friday))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestIsBookable(t *testing.T) {
	f := newFixture(t, testSalon(), DefaultSettings())
	f.put(t, 10, "10:00", "10:30", domain.SlotStatusReserved)
	ctx := context.Background()

	assert.NoError(t, f.uc.IsBookable(ctx, 1, 10, 100, friday, "10:30", "11:00"))

	err := f.uc.IsBookable(ctx, 1, 10, 100, friday, "10:00", "10:30")
	assert.ErrorIs(t, err, domain.ErrSlotUnavailable)

	err = f.uc.IsBookable(ctx, 1, 10, 100, friday, "10:30", "11:30")
	assert.ErrorIs(t, err, domain.ErrSlotUnavailable, "end must match the service duration")

	err = f.uc.IsBookable(ctx, 1, 10, 100, friday, "10:15", "10:45")
	assert.ErrorIs(t, err, domain.ErrSlotUnavailable, "off-grid start")
}

func TestFindWindows_CandidatesByEmployee(t *testing.T) {
	f := newFixture(t, testSalon(), DefaultSettings())

	windows, err := f.uc.FindWindows(context.Background(), request(nil, 100, friday), "10:30")
	require.NoError(t, err)
	require.Len(t, windows, 2)
	assert.Equal(t, int64(10), windows[0].EmployeeID)
	assert.Equal(t, int64(20), windows[1].EmployeeID)
}

func TestFreeIntervals(t *testing.T) {
	working := []interval{{540, 720}, {780, 1080}}
	occupied := mergeIntervals([]interval{{500, 560}, {600, 630}, {620, 660}, {700, 800}})

	assert.Equal(t, []interval{{560, 600}, {660, 700}, {800, 1080}}, freeIntervals(working, occupied))
}
