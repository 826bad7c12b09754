package slots

import "time"

// Interval — полуоткрытый интервал [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps проверяет пересечение двух полуоткрытых интервалов.
// Записи "встык" (конец одной равен началу другой) не конфликтуют.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start.Before(o.End) && o.Start.Before(i.End)
}

// FromStarts разворачивает список начал занятых событий в интервалы
// одинаковой длительности.
func FromStarts(starts []time.Time, duration time.Duration) []Interval {
	intervals := make([]Interval, 0, len(starts))
	for _, s := range starts {
		intervals = append(intervals, Interval{Start: s, End: s.Add(duration)})
	}
	return intervals
}

// Taken сообщает, конфликтует ли кандидат [start, start+duration)
// хотя бы с одним занятым интервалом.
func Taken(start time.Time, duration time.Duration, busy []Interval) bool {
	candidate := Interval{Start: start, End: start.Add(duration)}
	for _, b := range busy {
		if candidate.Overlaps(b) {
			return true
		}
	}
	return false
}

// Grid описывает сетку слотов рабочего дня. Последний предлагаемый
// слот начинается в EndHour:00.
type Grid struct {
	StartHour int
	EndHour   int
	Step      time.Duration
	Duration  time.Duration
}

// Available возвращает свободные начала слотов на день по возрастанию.
// Кандидаты, начинающиеся не позже now, отбрасываются; остальные
// проверяются на пересечение с busy.
func (g Grid) Available(day time.Time, busy []Interval, now time.Time) []time.Time {
	loc := day.Location()
	first := time.Date(day.Year(), day.Month(), day.Day(), g.StartHour, 0, 0, 0, loc)
	last := time.Date(day.Year(), day.Month(), day.Day(), g.EndHour, 0, 0, 0, loc)

	var free []time.Time
	for start := first; !start.After(last); start = start.Add(g.Step) {
		if !start.After(now) {
			continue
		}
		if Taken(start, g.Duration, busy) {
			continue
		}
		free = append(free, start)
	}
	return free
}
