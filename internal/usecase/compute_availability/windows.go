package compute_availability

import (
	"sort"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	"github.com/m04kA/SMC-SalonBookingService/pkg/types"
)

// interval полуинтервал в минутах от начала суток
type interval struct {
	start, end int
}

func toIntervals(windows []domain.TimeWindow) []interval {
	result := make([]interval, 0, len(windows))
	for _, w := range windows {
		if !w.Start.IsBefore(w.End) {
			continue
		}
		result = append(result, interval{start: w.Start.Minutes(), end: w.End.Minutes()})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].start < result[j].start
	})
	return result
}

// mergeIntervals объединяет пересекающиеся и смежные интервалы
// Вход должен быть отсортирован по началу
func mergeIntervals(sorted []interval) []interval {
	merged := make([]interval, 0, len(sorted))
	for _, iv := range sorted {
		last := len(merged) - 1
		if last >= 0 && iv.start <= merged[last].end {
			if iv.end > merged[last].end {
				merged[last].end = iv.end
			}
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}

// freeIntervals вычитает занятые интервалы из рабочих
// Оба списка отсортированы по началу, рабочие интервалы не пересекаются
func freeIntervals(working, occupied []interval) []interval {
	free := make([]interval, 0, len(working))

	for _, w := range working {
		cursor := w.start
		for _, o := range occupied {
			if o.end <= cursor || o.start >= w.end {
				continue
			}
			if o.start > cursor {
				free = append(free, interval{start: cursor, end: o.start})
			}
			if o.end > cursor {
				cursor = o.end
			}
		}
		if cursor < w.end {
			free = append(free, interval{start: cursor, end: w.end})
		}
	}

	return free
}

// generateWindows нарезает свободные интервалы на окна длительностью duration с шагом step
// Шаг отсчитывается от начала каждого свободного интервала; окна, начинающиеся раньше minStart, отбрасываются
func generateWindows(employeeID int64, free []interval, duration, step, minStart int) []Window {
	windows := make([]Window, 0)

	for _, f := range free {
		for start := f.start; start+duration <= f.end; start += step {
			if start < minStart {
				continue
			}
			windows = append(windows, Window{
				EmployeeID: employeeID,
				StartTime:  mustTime(start),
				EndTime:    mustTime(start + duration),
			})
		}
	}

	return windows
}

// sortWindows упорядочивает окна по началу, затем по ID сотрудника
func sortWindows(windows []Window) {
	sort.SliceStable(windows, func(i, j int) bool {
		a, b := windows[i], windows[j]
		if a.StartTime != b.StartTime {
			return a.StartTime.IsBefore(b.StartTime)
		}
		return a.EmployeeID < b.EmployeeID
	})
}

// mustTime конвертирует минуты в TimeString; значения ограничены рабочими окнами суток
func mustTime(minutes int) types.TimeString {
	t, err := types.TimeStringFromMinutes(minutes)
	if err != nil {
		panic(err)
	}
	return t
}
