package entities

import "time"

// Weekday convention used throughout: 1=Monday .. 7=Sunday.

// Schedule describes when a pharmacy operates. A 24/7 pharmacy is always
// open regardless of its working-day set.
type Schedule struct {
	Is24x7      bool  `json:"is_24_7" db:"is_24_7"`
	WorkingDays []int `json:"working_days" db:"-"`
}

// IsOpenAt reports whether the pharmacy is open at the given instant.
// Evaluation is at day granularity: a pharmacy is open on any instant of
// a working day. Opening/closing clock times are not consulted.
func (s Schedule) IsOpenAt(t time.Time) bool {
	if s.Is24x7 {
		return true
	}
	day := isoWeekday(t)
	for _, d := range s.WorkingDays {
		if d == day {
			return true
		}
	}
	return false
}

// isoWeekday maps Go's Sunday-based weekday to 1=Monday..7=Sunday.
func isoWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}
