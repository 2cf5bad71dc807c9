package report

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// Period is an inclusive reporting date range.
type Period struct {
	From time.Time
	To   time.Time
}

// ParsePeriod parses two YYYY-MM-DD dates.
func ParsePeriod(from, to string) (Period, error) {
	f, err := time.Parse(dateLayout, from)
	if err != nil {
		return Period{}, fmt.Errorf("invalid from date %q: %w", from, err)
	}
	t, err := time.Parse(dateLayout, to)
	if err != nil {
		return Period{}, fmt.Errorf("invalid to date %q: %w", to, err)
	}
	if t.Before(f) {
		return Period{}, fmt.Errorf("period end %s is before start %s", to, from)
	}
	return Period{From: f, To: t}, nil
}

// MonthPeriod returns the calendar month containing t.
func MonthPeriod(t time.Time) Period {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return Period{From: first, To: first.AddDate(0, 1, -1)}
}

func (p Period) String() string {
	return p.From.Format(dateLayout) + " to " + p.To.Format(dateLayout)
}

// FilingPeriod renders the GSTR-1 return period (MMYYYY) of the period end.
func (p Period) FilingPeriod() string {
	if p.To.IsZero() {
		return ""
	}
	return p.To.Format("012006")
}

// Slug renders the period for file names: "2024-04-01_2024-04-30".
func (p Period) Slug() string {
	return p.From.Format(dateLayout) + "_" + p.To.Format(dateLayout)
}
