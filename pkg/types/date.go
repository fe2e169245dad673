package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout формат календарной даты
const DateLayout = "2006-01-02"

// ErrInvalidDate возвращается при некорректном формате даты
var ErrInvalidDate = errors.New("invalid date format")

// Date календарная дата в формате YYYY-MM-DD без привязки к часовому поясу
type Date string

// NewDate создает Date из time.Time в его собственном часовом поясе
func NewDate(t time.Time) Date {
	return Date(t.Format(DateLayout))
}

// ParseDate парсит строку YYYY-MM-DD
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return NewDate(t), nil
}

// Time возвращает полночь даты в указанном часовом поясе
func (d Date) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(DateLayout, string(d), loc)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Weekday возвращает день недели
func (d Date) Weekday() time.Weekday {
	return d.Time(time.UTC).Weekday()
}

// AddDays возвращает дату, сдвинутую на n дней
func (d Date) AddDays(n int) Date {
	return NewDate(d.Time(time.UTC).AddDate(0, 0, n))
}

// DaysUntil возвращает количество дней от d до other
func (d Date) DaysUntil(other Date) int {
	return int(other.Time(time.UTC).Sub(d.Time(time.UTC)).Hours() / 24)
}

// Before проверяет, что d строго раньше other
func (d Date) Before(other Date) bool {
	return d < other
}

// After проверяет, что d строго позже other
func (d Date) After(other Date) bool {
	return d > other
}

// IsZero проверяет, что дата не задана
func (d Date) IsZero() bool {
	return d == ""
}

// Validate проверяет формат даты
func (d Date) Validate() error {
	parsed, err := ParseDate(string(d))
	if err != nil {
		return err
	}
	if parsed != d {
		return fmt.Errorf("%w: %q", ErrInvalidDate, string(d))
	}
	return nil
}

func (d Date) String() string {
	return string(d)
}

// Scan реализует sql.Scanner (postgres DATE возвращает time.Time, sqlite хранит TEXT)
func (d *Date) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*d = ""
		return nil
	case string:
		if len(v) > len(DateLayout) {
			v = v[:len(DateLayout)]
		}
		parsed, err := ParseDate(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case []byte:
		return d.Scan(string(v))
	case time.Time:
		*d = NewDate(v)
		return nil
	default:
		return fmt.Errorf("%w: unsupported type %T", ErrInvalidDate, src)
	}
}

// Value реализует driver.Valuer
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return string(d), nil
}
