package hydrograph

import "time"

// IcePredicate reports whether a timestamp falls inside an ice-affected
// period. Ice-affected observations are excluded from recession estimation
// and from the strict-baseflow reference.
type IcePredicate func(t time.Time) bool

// IceMonths builds a predicate that flags every day in the given months.
func IceMonths(months ...time.Month) IcePredicate {
	flagged := make(map[time.Month]bool, len(months))
	for _, m := range months {
		flagged[m] = true
	}
	return func(t time.Time) bool {
		return flagged[t.Month()]
	}
}

// IceWindow builds a predicate for a month/day window. Windows that wrap
// around the new year (e.g. Nov 1 through Mar 31) are supported.
func IceWindow(begMonth time.Month, begDay int, endMonth time.Month, endDay int) IcePredicate {
	beg := int(begMonth)*100 + begDay
	end := int(endMonth)*100 + endDay
	return func(t time.Time) bool {
		d := int(t.Month())*100 + t.Day()
		if beg <= end {
			return d >= beg && d <= end
		}
		return d >= beg || d <= end
	}
}

// IceMask evaluates the predicate at every timestamp of the series.
// A nil predicate yields an all-false mask.
func IceMask(s *Series, p IcePredicate) []bool {
	mask := make([]bool, s.Len())
	if p == nil {
		return mask
	}
	for i, t := range s.Timestamps {
		mask[i] = p(t)
	}
	return mask
}
