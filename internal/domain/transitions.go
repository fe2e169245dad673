package domain

import "fmt"

// allowedTransitions таблица переходов статусов слота
// reserved <-> blocked не определены: сначала слот нужно освободить
var allowedTransitions = map[SlotStatus][]SlotStatus{
	SlotStatusAvailable: {SlotStatusReserved, SlotStatusBlocked},
	SlotStatusReserved:  {SlotStatusAvailable},
	SlotStatusBlocked:   {SlotStatusAvailable},
}

// CanTransition returns true if the transition from -> to is defined
func CanTransition(from, to SlotStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidateTransition возвращает ErrInvalidTransition для неопределенного перехода
func ValidateTransition(from, to SlotStatus) error {
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}

// RequiresEditRights returns true if the transition may only be done by staff
func RequiresEditRights(from, to SlotStatus) bool {
	return to == SlotStatusBlocked || (from.IsOccupied() && to == SlotStatusAvailable)
}
