package entitlement

import "time"

// MonthKey identifies a calendar month in YYYY-MM form. It is computed once
// at the request boundary and passed through every call, so the engine never
// reads the wall clock on its own and tests can pin time.
type MonthKey string

func MonthKeyFor(t time.Time) MonthKey {
	return MonthKey(t.Format("2006-01"))
}

func CurrentMonthKey() MonthKey {
	return MonthKeyFor(time.Now().UTC())
}

func (k MonthKey) String() string {
	return string(k)
}
