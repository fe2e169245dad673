package booking_wizard

import (
	"fmt"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
)

// checkStep проверяет, что сессия открыта и находится на ожидаемом шаге
func checkStep(session *domain.WizardSession, expected domain.WizardStep) error {
	if session.Step.IsFinal() {
		return fmt.Errorf("%w: session is %s", ErrSessionClosed, session.Step)
	}
	if session.Step != expected {
		return fmt.Errorf("%w: expected %s, session is at %s", ErrInvalidStep, expected, session.Step)
	}
	return nil
}

// checkBackTarget проверяет, что target строго раньше текущего шага
func checkBackTarget(session *domain.WizardSession, target domain.WizardStep) error {
	if session.Step.IsFinal() {
		return fmt.Errorf("%w: session is %s", ErrSessionClosed, session.Step)
	}
	if target.Index() < 0 || target.IsFinal() {
		return fmt.Errorf("%w: unknown step %q", ErrInvalidStep, target)
	}
	if target.Index() >= session.Step.Index() {
		return fmt.Errorf("%w: cannot move from %s to %s", ErrInvalidStep, session.Step, target)
	}
	return nil
}

func validateDateTime(req *DateTimeRequest) error {
	if err := req.Date.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
