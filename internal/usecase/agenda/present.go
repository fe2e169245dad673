package agenda

import (
	"fmt"
	"sort"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
)

// Present превращает слоты в упорядоченные записи календаря
// Слот остается, если он проходит оба фильтра; некорректный статус показывается как "unknown"
func Present(
	slots []*domain.Slot,
	employees []domain.Employee,
	services []domain.Service,
	filter domain.AgendaFilter,
) []CalendarEntry {
	employeeNames := make(map[int64]string, len(employees))
	for _, e := range employees {
		employeeNames[e.ID] = e.Name
	}
	serviceNames := make(map[int64]string, len(services))
	for _, s := range services {
		serviceNames[s.ID] = s.Name
	}

	entries := make([]CalendarEntry, 0, len(slots))
	for _, slot := range slots {
		if slot == nil {
			continue
		}
		if !filter.MatchesEmployee(slot.EmployeeID) || !filter.MatchesService(serviceOf(slot)) {
			continue
		}

		entry := CalendarEntry{
			SlotID:       slot.ID,
			EmployeeID:   slot.EmployeeID,
			EmployeeName: employeeNames[slot.EmployeeID],
			Date:         slot.Date,
			StartTime:    slot.StartTime,
			EndTime:      slot.EndTime,
			Status:       slot.Status,
		}
		describe(&entry, slot, serviceNames)
		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Date != b.Date {
			return a.Date.Before(b.Date)
		}
		if a.StartTime != b.StartTime {
			return a.StartTime.IsBefore(b.StartTime)
		}
		if a.EmployeeID != b.EmployeeID {
			return a.EmployeeID < b.EmployeeID
		}
		return a.SlotID < b.SlotID
	})

	return entries
}

// describe заполняет подпись и цвет по статусу
func describe(entry *CalendarEntry, slot *domain.Slot, serviceNames map[int64]string) {
	if !slot.IsConsistent() {
		entry.Label = domain.LabelUnknown
		entry.Color = domain.ColorUnknown
		return
	}

	switch p := slot.Payload.(type) {
	case domain.ReservedPayload:
		serviceID := p.ServiceID
		name, ok := serviceNames[serviceID]
		if !ok {
			name = fmt.Sprintf("Service #%d", serviceID)
		}
		entry.ServiceID = &serviceID
		entry.ServiceName = name
		entry.ClientName = p.ClientName
		entry.Label = p.ClientName + " - " + name
		entry.Color = domain.ColorReserved
	case domain.BlockedPayload:
		entry.Reason = p.Reason
		entry.Label = domain.LabelBlocked
		if p.Reason != "" {
			entry.Label = p.Reason
		}
		entry.Color = domain.ColorBlocked
	case domain.AvailablePayload:
		entry.Label = domain.LabelAvailable
		entry.Color = domain.ColorAvailable
	default:
		entry.Label = domain.LabelUnknown
		entry.Color = domain.ColorUnknown
	}
}

func serviceOf(slot *domain.Slot) *int64 {
	if reservation, ok := slot.Reservation(); ok {
		id := reservation.ServiceID
		return &id
	}
	return nil
}
