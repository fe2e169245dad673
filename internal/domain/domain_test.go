package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBookingService/pkg/types"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to SlotStatus
		want     bool
	}{
		{SlotStatusAvailable, SlotStatusReserved, true},
		{SlotStatusAvailable, SlotStatusBlocked, true},
		{SlotStatusReserved, SlotStatusAvailable, true},
		{SlotStatusBlocked, SlotStatusAvailable, true},
		{SlotStatusReserved, SlotStatusBlocked, false},
		{SlotStatusBlocked, SlotStatusReserved, false},
		{SlotStatusAvailable, SlotStatusAvailable, false},
		{SlotStatus("archived"), SlotStatusAvailable, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))

			err := ValidateTransition(tt.from, tt.to)
			if tt.want {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidTransition)
				assert.ErrorIs(t, err, ErrValidation)
			}
		})
	}
}

func TestRequiresEditRights(t *testing.T) {
	assert.False(t, RequiresEditRights(SlotStatusAvailable, SlotStatusReserved))
	assert.True(t, RequiresEditRights(SlotStatusAvailable, SlotStatusBlocked))
	assert.True(t, RequiresEditRights(SlotStatusReserved, SlotStatusAvailable))
	assert.True(t, RequiresEditRights(SlotStatusBlocked, SlotStatusAvailable))
}

func TestSlot_Payload(t *testing.T) {
	slot := &Slot{
		Status: SlotStatusReserved,
		Payload: ReservedPayload{
			ClientName: "Anna",
			Contact:    Contact{Email: "anna@example.com"},
			ServiceID:  7,
		},
	}

	assert.True(t, slot.IsConsistent())
	reservation, ok := slot.Reservation()
	require.True(t, ok)
	assert.Equal(t, "Anna", reservation.ClientName)

	_, ok = slot.Block()
	assert.False(t, ok)

	slot.Payload = BlockedPayload{Reason: "lunch"}
	assert.False(t, slot.IsConsistent())

	slot.Payload = nil
	assert.False(t, slot.IsConsistent())
}

func TestClientDetails_Validate(t *testing.T) {
	tests := []struct {
		name    string
		details ClientDetails
		wantErr bool
	}{
		{
			name:    "email only",
			details: ClientDetails{Name: "Anna", Contact: Contact{Email: "anna@example.com"}},
		},
		{
			name:    "phone with separators",
			details: ClientDetails{Name: "Anna", Contact: Contact{Phone: "+49 (151) 234-5678"}},
		},
		{
			name:    "phone with 00 prefix",
			details: ClientDetails{Name: "Anna", Contact: Contact{Phone: "0049 151 2345678"}},
		},
		{
			name:    "empty name",
			details: ClientDetails{Name: "  ", Contact: Contact{Email: "anna@example.com"}},
			wantErr: true,
		},
		{
			name:    "no contact",
			details: ClientDetails{Name: "Anna"},
			wantErr: true,
		},
		{
			name:    "malformed email",
			details: ClientDetails{Name: "Anna", Contact: Contact{Email: "anna-at-example"}},
			wantErr: true,
		},
		{
			name:    "malformed phone",
			details: ClientDetails{Name: "Anna", Contact: Contact{Phone: "call me"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.details.Normalize().Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func testSalon() *Salon {
	weekday := DaySchedule{Windows: []TimeWindow{{Start: "09:00", End: "12:00"}}}
	return &Salon{
		ID:   1,
		Name: "Demo",
		WorkingHours: WorkingHours{
			Monday: weekday, Tuesday: weekday, Wednesday: weekday, Thursday: weekday, Friday: weekday,
		},
		Employees: []Employee{
			{ID: 20, Name: "Bob", SalonID: 1, ServiceIDs: []int64{100}},
			{ID: 10, Name: "Alice", SalonID: 1},
			{
				ID: 30, Name: "Carol", SalonID: 1,
				WorkingHours: &WorkingHours{Saturday: DaySchedule{Windows: []TimeWindow{{Start: "10:00", End: "14:00"}}}},
			},
		},
		Services: []Service{
			{ID: 100, Name: "Haircut", DurationMinutes: 30, EmployeeIDs: []int64{10}},
			{ID: 200, Name: "Coloring", DurationMinutes: 90},
		},
	}
}

func TestSalon_Qualification(t *testing.T) {
	salon := testSalon()

	assert.True(t, salon.IsQualified(10, 100), "listed on the service")
	assert.True(t, salon.IsQualified(20, 100), "listed on the employee")
	assert.False(t, salon.IsQualified(30, 100))
	assert.False(t, salon.IsQualified(10, 200))
	assert.False(t, salon.IsQualified(99, 100), "unknown employee")
	assert.False(t, salon.IsQualified(10, 999), "unknown service")

	qualified := salon.QualifiedEmployees(100)
	require.Len(t, qualified, 2)
	assert.Equal(t, int64(10), qualified[0].ID)
	assert.Equal(t, int64(20), qualified[1].ID)
}

func TestSalon_WorkingWindows(t *testing.T) {
	salon := testSalon()
	monday := types.Date("2026-10-12")
	saturday := types.Date("2026-10-17")

	alice, _ := salon.FindEmployee(10)
	carol, _ := salon.FindEmployee(30)

	assert.Equal(t, []TimeWindow{{Start: "09:00", End: "12:00"}}, salon.WorkingWindows(alice, monday))
	assert.Empty(t, salon.WorkingWindows(alice, saturday))
	assert.Empty(t, salon.WorkingWindows(carol, monday))
	assert.Equal(t, []TimeWindow{{Start: "10:00", End: "14:00"}}, salon.WorkingWindows(carol, saturday))
}

func TestSalon_Location(t *testing.T) {
	salon := &Salon{Timezone: "Europe/Moscow"}
	assert.Equal(t, "Europe/Moscow", salon.Location().String())

	salon.Timezone = "Mars/Olympus"
	assert.Equal(t, time.UTC, salon.Location())
}

func TestTimeWindow_Overlaps(t *testing.T) {
	w := TimeWindow{Start: "10:00", End: "10:30"}

	assert.True(t, w.Overlaps(TimeWindow{Start: "10:15", End: "11:00"}))
	assert.True(t, w.Overlaps(TimeWindow{Start: "09:00", End: "12:00"}))
	assert.False(t, w.Overlaps(TimeWindow{Start: "10:30", End: "11:00"}))
	assert.False(t, w.Overlaps(TimeWindow{Start: "09:30", End: "10:00"}))
}

func TestAgendaFilter(t *testing.T) {
	filter := NewAgendaFilter("", "")
	assert.Equal(t, AgendaFilter{Employee: FilterAll, Service: FilterAll}, filter)
	assert.True(t, filter.MatchesService(nil))

	filter = NewAgendaFilter("10", "100")
	require.NoError(t, filter.Validate())
	assert.True(t, filter.MatchesEmployee(10))
	assert.False(t, filter.MatchesEmployee(20))

	serviceID := int64(100)
	assert.True(t, filter.MatchesService(&serviceID))
	assert.False(t, filter.MatchesService(nil))

	assert.ErrorIs(t, NewAgendaFilter("bob", "").Validate(), ErrValidation)
}

func TestWizardSession_ClearAfter(t *testing.T) {
	serviceID, employeeID := int64(100), int64(10)
	newSession := func() *WizardSession {
		return &WizardSession{
			Step: StepEnterDetails,
			Selection: BookingSelection{
				ServiceID:  &serviceID,
				EmployeeID: &employeeID,
				Date:       "2026-10-16",
				StartTime:  "10:00",
				EndTime:    "10:30",
				Client:     &ClientDetails{Name: "Anna"},
			},
		}
	}

	s := newSession()
	s.ClearAfter(StepSelectEmployee)
	assert.NotNil(t, s.Selection.ServiceID)
	assert.NotNil(t, s.Selection.EmployeeID)
	assert.True(t, s.Selection.Date.IsZero())
	assert.True(t, s.Selection.StartTime.IsZero())
	assert.Nil(t, s.Selection.Client)

	s = newSession()
	s.ClearAfter(StepSelectService)
	assert.NotNil(t, s.Selection.ServiceID)
	assert.Nil(t, s.Selection.EmployeeID)

	prev, ok := StepEnterDetails.Previous()
	assert.True(t, ok)
	assert.Equal(t, StepSelectDateTime, prev)

	_, ok = StepSelectService.Previous()
	assert.False(t, ok)
}
