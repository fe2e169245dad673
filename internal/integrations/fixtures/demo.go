package fixtures

import (
	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	"github.com/m04kA/SMC-SalonBookingService/pkg/types"
)

// Demo возвращает встроенный демо-каталог
// Салон 1: два окна в будни, короткая суббота; у Бориса собственный график.
// Салон 2: работает без перерыва со вторника по воскресенье.
func Demo() *Catalog {
	weekday := domain.DaySchedule{Windows: []domain.TimeWindow{
		window("09:00", "12:00"),
		window("13:00", "18:00"),
	}}
	saturday := domain.DaySchedule{Windows: []domain.TimeWindow{window("10:00", "14:00")}}

	downtown := &domain.Salon{
		ID:       1,
		Name:     "Downtown Studio",
		Timezone: domain.DefaultTimezone,
		WorkingHours: domain.WorkingHours{
			Monday:    weekday,
			Tuesday:   weekday,
			Wednesday: weekday,
			Thursday:  weekday,
			Friday:    weekday,
			Saturday:  saturday,
		},
		Employees: []domain.Employee{
			{ID: 10, Name: "Anna", SalonID: 1, ServiceIDs: []int64{100, 101}},
			{ID: 20, Name: "Boris", SalonID: 1, ServiceIDs: []int64{100}, WorkingHours: &domain.WorkingHours{
				Tuesday:  allDay("12:00", "20:00"),
				Thursday: allDay("12:00", "20:00"),
				Saturday: allDay("10:00", "16:00"),
			}},
			{ID: 30, Name: "Vera", SalonID: 1},
		},
		Services: []domain.Service{
			{ID: 100, Name: "Haircut", DurationMinutes: 30, Price: 25},
			{ID: 101, Name: "Colouring", DurationMinutes: 90, Price: 70},
			{ID: 102, Name: "Beard trim", DurationMinutes: 15, Price: 10, EmployeeIDs: []int64{20}},
			{ID: 103, Name: "Manicure", DurationMinutes: 45, Price: 30, EmployeeIDs: []int64{30}},
		},
	}

	open := allDay("10:00", "19:00")
	riverside := &domain.Salon{
		ID:       2,
		Name:     "Riverside",
		Timezone: "Europe/Berlin",
		WorkingHours: domain.WorkingHours{
			Tuesday:   open,
			Wednesday: open,
			Thursday:  open,
			Friday:    open,
			Saturday:  open,
			Sunday:    open,
		},
		Employees: []domain.Employee{
			{ID: 40, Name: "Greta", SalonID: 2, ServiceIDs: []int64{200, 201}},
		},
		Services: []domain.Service{
			{ID: 200, Name: "Massage", DurationMinutes: 60, Price: 55},
			{ID: 201, Name: "Facial", DurationMinutes: 45, Price: 40},
		},
	}

	return NewCatalog(downtown, riverside)
}

func window(start, end string) domain.TimeWindow {
	return domain.TimeWindow{Start: types.TimeString(start), End: types.TimeString(end)}
}

func allDay(start, end string) domain.DaySchedule {
	return domain.DaySchedule{Windows: []domain.TimeWindow{window(start, end)}}
}
