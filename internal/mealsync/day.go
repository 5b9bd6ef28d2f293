package mealsync

import "time"

// DayWindow is the [local midnight, next local midnight) interval of one
// calendar day.
type DayWindow struct {
	Start time.Time
	End   time.Time
}

// DayOf returns the window containing t, in t's location.
func DayOf(t time.Time) DayWindow {
	y, m, d := t.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	return DayWindow{Start: start, End: start.AddDate(0, 0, 1)}
}

func (w DayWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}
