package gst

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DimensionKey is implemented by the key types of the four summary dimensions.
type DimensionKey interface {
	comparable
	String() string
}

// RateKey keys the rate-wise summary; it renders as "18%".
type RateKey TaxRate

func (k RateKey) String() string { return TaxRate(k).String() }

// ParseRateKey parses "18%" (or "18").
func ParseRateKey(s string) (RateKey, error) {
	n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if err != nil {
		return 0, fmt.Errorf("rate key %q: %w", s, err)
	}
	if !TaxRate(n).Valid() {
		return 0, fmt.Errorf("rate key %q: not a statutory rate", s)
	}
	return RateKey(n), nil
}

// HSNKey keys the HSN-wise summary by the full HSN/SAC code.
type HSNKey string

func (k HSNKey) String() string { return string(k) }

// StateKey keys the state-wise summary by place-of-supply state code.
type StateKey StateCode

func (k StateKey) String() string { return string(k) }

// MonthKey keys the month-wise summary by calendar month of the invoice date.
type MonthKey struct {
	Year  int
	Month time.Month
}

// MonthOf returns the key for t's calendar month. No timezone conversion is
// applied; the invoice date is taken as a plain calendar date.
func MonthOf(t time.Time) MonthKey {
	return MonthKey{Year: t.Year(), Month: t.Month()}
}

func (k MonthKey) String() string { return fmt.Sprintf("%04d-%02d", k.Year, int(k.Month)) }

// Label renders the month as "Apr 2024".
func (k MonthKey) Label() string {
	return fmt.Sprintf("%s %d", k.Month.String()[:3], k.Year)
}

// ParseMonthKey parses "2024-04".
func ParseMonthKey(s string) (MonthKey, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return MonthKey{}, fmt.Errorf("month key %q: %w", s, err)
	}
	return MonthOf(t), nil
}

func parseKey[K DimensionKey](s string) (K, error) {
	var zero K
	var (
		v   any
		err error
	)
	switch any(zero).(type) {
	case RateKey:
		v, err = ParseRateKey(s)
	case HSNKey:
		v = HSNKey(s)
	case StateKey:
		v = StateKey(s)
	case MonthKey:
		v, err = ParseMonthKey(s)
	default:
		return zero, fmt.Errorf("unsupported dimension key type %T", zero)
	}
	if err != nil {
		return zero, err
	}
	return v.(K), nil
}
