package report

import (
	"encoding/json"
	"fmt"

	"gstbill/internal/gst"
)

// ToJSON renders the summary as indented JSON. Amounts are encoded as exact
// decimal strings and dimension objects keep their insertion order, so
// FromJSON restores the same totals.
func ToJSON(s *gst.GSTSummary) (string, error) {
	if err := checkSummary(s); err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding summary: %w", err)
	}
	return string(data), nil
}

// FromJSON parses a summary produced by ToJSON. A document missing any
// dimension object yields a *MalformedSummaryError.
func FromJSON(data string) (*gst.GSTSummary, error) {
	var s gst.GSTSummary
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		return nil, fmt.Errorf("decoding summary: %w", err)
	}
	if err := checkSummary(&s); err != nil {
		return nil, err
	}
	if s.Documents == nil {
		s.Documents = []gst.InvoiceDocument{}
	}
	return &s, nil
}
