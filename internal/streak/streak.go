// Package streak tracks consecutive calendar days with at least one watch.
package streak

import (
	"slices"
	"time"

	"github.com/HO1806/reeltrack/internal/domain"
)

// Milestones are the streak lengths worth celebrating.
var Milestones = []int{3, 7, 14, 30, 50, 100, 365}

// Update advances the streak counters in settings given the current library.
// Calendar days are taken in now's location. The returned bool reports
// whether anything changed; settings is never modified in place.
func Update(settings domain.Settings, library []domain.Entry, now time.Time) (domain.Settings, bool) {
	today := now.Format(domain.DateLayout)
	if !watchedOn(library, now) {
		return settings, false
	}
	if settings.LastWatchedDate == today {
		return settings, false
	}

	yesterday := now.AddDate(0, 0, -1).Format(domain.DateLayout)

	next := settings
	if settings.LastWatchedDate == yesterday {
		next.CurrentStreak = settings.CurrentStreak + 1
	} else {
		next.CurrentStreak = 1
	}
	next.BestStreak = max(settings.BestStreak, next.CurrentStreak)
	next.LastWatchedDate = today
	return next, true
}

// IsMilestone reports whether n is one of the celebrated streak lengths.
func IsMilestone(n int) bool {
	return slices.Contains(Milestones, n)
}

func watchedOn(library []domain.Entry, now time.Time) bool {
	y, m, d := now.Date()
	for i := range library {
		w := library[i].DateWatched
		if w == nil {
			continue
		}
		wy, wm, wd := w.In(now.Location()).Date()
		if wy == y && wm == m && wd == d {
			return true
		}
	}
	return false
}
