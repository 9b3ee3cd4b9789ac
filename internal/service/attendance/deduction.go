package attendance

import (
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/clock"
)

// deductedMinutes is the break plus lateness and early departure beyond the grace.
// Rotating shifts only deduct the break unless penalties are enabled.
func deductedMinutes(ww workWindow, actualIn, actualOut time.Time, rotatingPenalties bool) int {
	if !ww.scheduled {
		return 0
	}

	deducted := ww.bounds.BreakMinutes
	switch ww.window.Kind() {
	case schedule.WindowFixedWeekly:
		deducted += penaltyMinutes(ww, actualIn, actualOut)
	case schedule.WindowRotating:
		if rotatingPenalties {
			deducted += penaltyMinutes(ww, actualIn, actualOut)
		}
	}
	return deducted
}

func penaltyMinutes(ww workWindow, actualIn, actualOut time.Time) int {
	late := clock.WholeMinutes(actualIn.Sub(ww.bounds.Start))
	earlyDeparture := clock.WholeMinutes(ww.bounds.End.Sub(actualOut))
	return max(0, late-ww.grace) + max(0, earlyDeparture-ww.grace)
}
