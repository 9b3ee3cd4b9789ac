package attendance

import "time"

// normalizeForDisplay clips an early punch-in to the shift start and a late
// punch-out to the shift end. Unscheduled windows keep the actual times, as
// does any pair the clipping would invert.
func normalizeForDisplay(actualIn time.Time, actualOut *time.Time, ww workWindow) (time.Time, *time.Time) {
	if !ww.scheduled {
		return actualIn, copyTime(actualOut)
	}

	in := actualIn
	if in.Before(ww.bounds.Start) {
		in = ww.bounds.Start
	}
	if actualOut == nil {
		return in, nil
	}

	out := *actualOut
	if out.After(ww.bounds.End) {
		out = ww.bounds.End
	}
	if !out.After(in) {
		return actualIn, copyTime(actualOut)
	}
	return in, &out
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
