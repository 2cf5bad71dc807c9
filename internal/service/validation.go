package service

import (
	"strings"

	"gstbill/internal/domain"
	"gstbill/internal/gst"
)

func normalizeGSTIN(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// resolveState parses a state given as code, "29-Karnataka" or name. When it
// is empty the state is taken from the GSTIN.
func resolveState(state, gstin string) (gst.StateCode, error) {
	if strings.TrimSpace(state) == "" {
		if code, ok := gst.StateFromGSTIN(gstin); ok {
			return code, nil
		}
		return "", domain.ErrInvalidStateCode
	}
	code, ok := gst.ParseStateCode(state)
	if !ok {
		return "", domain.ErrInvalidStateCode
	}
	return code, nil
}

// checkParty validates a GSTIN (optional) against the party's state.
func checkParty(gstin string, state gst.StateCode) error {
	if !state.Valid() {
		return domain.ErrInvalidStateCode
	}
	if gstin == "" {
		return nil
	}
	if !gst.ValidGSTIN(gstin) {
		return domain.ErrInvalidGSTIN
	}
	if code, _ := gst.StateFromGSTIN(gstin); code != state {
		return domain.ErrGSTINStateMismatch
	}
	return nil
}

// panFromGSTIN extracts the PAN embedded in characters 3-12 of a GSTIN.
func panFromGSTIN(gstin string) string {
	if len(gstin) < 12 {
		return ""
	}
	return gstin[2:12]
}
