package report

import (
	"fmt"

	"gstbill/internal/gst"
)

// MalformedSummaryError is returned when a summary lacks one of its required
// dimension mappings. An empty mapping is valid; a missing one is not.
type MalformedSummaryError struct {
	Key string
}

func (e *MalformedSummaryError) Error() string {
	return fmt.Sprintf("malformed summary: missing %q", e.Key)
}

// checkSummary verifies every required dimension is present.
func checkSummary(s *gst.GSTSummary) error {
	switch {
	case s == nil:
		return &MalformedSummaryError{Key: "summary"}
	case s.RateWise == nil:
		return &MalformedSummaryError{Key: "rate_wise"}
	case s.HSNWise == nil:
		return &MalformedSummaryError{Key: "hsn_wise"}
	case s.StateWise == nil:
		return &MalformedSummaryError{Key: "state_wise"}
	case s.MonthWise == nil:
		return &MalformedSummaryError{Key: "month_wise"}
	}
	return nil
}
