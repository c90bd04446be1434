package moderation

import (
	"time"

	"hearth/internal/model"
)

const minutesPerDay = 24 * 60

// ValidQuietHours reports whether q describes a usable window.
func ValidQuietHours(q model.QuietHours) bool {
	if !q.Enabled {
		return true
	}
	if q.Start < 0 || q.Start >= minutesPerDay || q.End < 0 || q.End >= minutesPerDay {
		return false
	}
	_, err := time.LoadLocation(q.Zone)
	return err == nil
}

func location(q model.QuietHours) *time.Location {
	if q.Zone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(q.Zone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func minuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// InQuietHours reports whether t falls inside q in q's timezone.
// Start is inclusive, End exclusive; Start == End is an empty window.
func InQuietHours(q model.QuietHours, t time.Time) bool {
	if !q.Enabled || q.Start == q.End {
		return false
	}
	m := minuteOfDay(t.In(location(q)))
	if q.Start < q.End {
		return m >= q.Start && m < q.End
	}
	return m >= q.Start || m < q.End
}

// quietEnd returns the instant the window containing t closes. The end is
// built on the local wall clock, so DST transitions do not shift it.
func quietEnd(q model.QuietHours, t time.Time) time.Time {
	local := t.In(location(q))
	end := time.Date(local.Year(), local.Month(), local.Day(), q.End/60, q.End%60, 0, 0, local.Location())
	if !end.After(local) {
		end = time.Date(local.Year(), local.Month(), local.Day()+1, q.End/60, q.End%60, 0, 0, local.Location())
	}
	return end
}
