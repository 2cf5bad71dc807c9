package gst

import (
	"regexp"
	"strings"
)

// StateCode is the two-digit GST code of an Indian state or union territory.
type StateCode string

var stateNames = map[StateCode]string{
	"01": "Jammu and Kashmir",
	"02": "Himachal Pradesh",
	"03": "Punjab",
	"04": "Chandigarh",
	"05": "Uttarakhand",
	"06": "Haryana",
	"07": "Delhi",
	"08": "Rajasthan",
	"09": "Uttar Pradesh",
	"10": "Bihar",
	"11": "Sikkim",
	"12": "Arunachal Pradesh",
	"13": "Nagaland",
	"14": "Manipur",
	"15": "Mizoram",
	"16": "Tripura",
	"17": "Meghalaya",
	"18": "Assam",
	"19": "West Bengal",
	"20": "Jharkhand",
	"21": "Odisha",
	"22": "Chhattisgarh",
	"23": "Madhya Pradesh",
	"24": "Gujarat",
	"25": "Daman and Diu",
	"26": "Dadra and Nagar Haveli and Daman and Diu",
	"27": "Maharashtra",
	"28": "Andhra Pradesh (Old)",
	"29": "Karnataka",
	"30": "Goa",
	"31": "Lakshadweep",
	"32": "Kerala",
	"33": "Tamil Nadu",
	"34": "Puducherry",
	"35": "Andaman and Nicobar Islands",
	"36": "Telangana",
	"37": "Andhra Pradesh",
	"38": "Ladakh",
	"97": "Other Territory",
}

var gstinPattern = regexp.MustCompile(`^\d{2}[A-Z]{5}\d{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)

// Valid reports whether s is a known state code.
func (s StateCode) Valid() bool {
	_, ok := stateNames[s]
	return ok
}

// Name returns the state's display name, or "" for unknown codes.
func (s StateCode) Name() string {
	return stateNames[s]
}

// Label renders the code as "29-Karnataka", the form used on invoices and in
// GSTR-1 place-of-supply fields.
func (s StateCode) Label() string {
	if name := s.Name(); name != "" {
		return string(s) + "-" + name
	}
	return string(s)
}

// ParseStateCode accepts "29", "29-Karnataka" or "Karnataka" (any case).
func ParseStateCode(s string) (StateCode, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if len(s) >= 2 {
		code := StateCode(s[:2])
		if code.Valid() && (len(s) == 2 || s[2] == '-' || s[2] == ' ') {
			return code, true
		}
	}
	if len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
		code := StateCode("0" + s)
		return code, code.Valid()
	}
	for code, name := range stateNames {
		if strings.EqualFold(name, s) {
			return code, true
		}
	}
	return "", false
}

// ValidGSTIN checks the 15-character GSTIN format and that it starts with a
// known state code.
func ValidGSTIN(gstin string) bool {
	if !gstinPattern.MatchString(gstin) {
		return false
	}
	return StateCode(gstin[:2]).Valid()
}

// StateFromGSTIN returns the state code embedded in a GSTIN.
func StateFromGSTIN(gstin string) (StateCode, bool) {
	if len(gstin) < 2 {
		return "", false
	}
	code := StateCode(gstin[:2])
	return code, code.Valid()
}
