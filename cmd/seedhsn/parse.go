package main

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"gstbill/internal/gst"
)

const batchSize = 500

type rateEntry struct {
	code        string
	description string
	rate        gst.TaxRate
}

// rateSet collects unique (code, rate) pairs in workbook order. Rates that
// are not GST slabs (e.g. 3% on gold, 0.25% on rough diamonds) are counted
// in skipped and left out.
type rateSet struct {
	seen    map[string]bool
	entries []rateEntry
	skipped int
}

func newRateSet() *rateSet {
	return &rateSet{seen: make(map[string]bool)}
}

func (s *rateSet) add(code, description string, pct decimal.Decimal) bool {
	code = strings.TrimSpace(code)
	if !isNumeric(code) || len(code) < 4 {
		return false
	}
	rate, err := gst.ParseTaxRate(pct)
	if err != nil {
		s.skipped++
		return false
	}
	key := code + "|" + rate.String()
	if s.seen[key] {
		return false
	}
	s.seen[key] = true
	s.entries = append(s.entries, rateEntry{code: code, description: strings.TrimSpace(description), rate: rate})
	return true
}

// addGoods reads the goods sheet. Columns: F=4-digit code, H=its description,
// I=6-digit, J=description, K=8-digit, M=description, N=GST rate. Data starts
// on the sixth row. The most specific code is added first.
func (s *rateSet) addGoods(rows [][]string) int {
	added := 0
	for i := 5; i < len(rows); i++ {
		row := rows[i]
		rates := parseRates(cellVal(row, 13))
		if len(rates) != 1 {
			continue
		}
		for _, col := range [][2]int{{10, 12}, {8, 9}, {5, 7}} {
			if s.add(cellVal(row, col[0]), cellVal(row, col[1]), rates[0]) {
				added++
			}
		}
	}
	return added
}

// addServices reads SAC_Master. Columns: A=4-digit SAC, B=description,
// C=6-digit SAC, D=description, E=free-text rate. Data starts on the fourth row.
func (s *rateSet) addServices(rows [][]string) int {
	added := 0
	for i := 3; i < len(rows); i++ {
		row := rows[i]
		for _, rate := range parseRates(cellVal(row, 4)) {
			if s.add(cellVal(row, 2), cellVal(row, 3), rate) {
				added++
			}
			if s.add(cellVal(row, 0), cellVal(row, 1), rate) {
				added++
			}
		}
	}
	return added
}

var ratePattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*%`)

// parseRates extracts every distinct percentage from a rate cell:
//
//	"18%"                                   -> [18]
//	"Exempt", "Nil"                         -> [0]
//	"12%-18%"                               -> [12 18]
//	"1% (without ITC) or 5% (without ITC)"  -> [1 5]
//
// A bare number is read as a percentage; spreadsheet cells formatted as
// percent come through as "0.18" and are scaled up.
func parseRates(cell string) []decimal.Decimal {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return nil
	}
	switch strings.ToLower(cell) {
	case "exempt", "nil":
		return []decimal.Decimal{decimal.Zero}
	}

	if d, err := decimal.NewFromString(cell); err == nil {
		if d.LessThan(decimal.NewFromInt(1)) && d.IsPositive() {
			d = d.Mul(decimal.NewFromInt(100))
		}
		return []decimal.Decimal{d}
	}

	var rates []decimal.Decimal
	for _, m := range ratePattern.FindAllStringSubmatch(cell, -1) {
		d, err := decimal.NewFromString(m[1])
		if err != nil {
			continue
		}
		dup := false
		for _, r := range rates {
			if r.Equal(d) {
				dup = true
				break
			}
		}
		if !dup {
			rates = append(rates, d)
		}
	}
	return rates
}

func writeSeed(w io.Writer, entries []rateEntry) error {
	header := fmt.Sprintf("-- HSN/SAC rate master generated by cmd/seedhsn.\n-- %d entries.\nBEGIN;\n\nTRUNCATE hsn_rates;\n\n", len(entries))
	if _, err := io.WriteString(w, header); err != nil {
		return err
	}
	for i := 0; i < len(entries); i += batchSize {
		end := min(i+batchSize, len(entries))
		if err := writeBatch(w, entries[i:end]); err != nil {
			return fmt.Errorf("batch at offset %d: %w", i, err)
		}
	}
	_, err := io.WriteString(w, "\nCOMMIT;\n")
	return err
}

func writeBatch(w io.Writer, batch []rateEntry) error {
	var b strings.Builder
	b.WriteString("INSERT INTO hsn_rates (code, description, gst_rate) VALUES\n")
	for i := range batch {
		e := &batch[i]
		if i > 0 {
			b.WriteString(",\n")
		}
		fmt.Fprintf(&b, "  ('%s', '%s', %d)", escapeSQL(e.code), escapeSQL(e.description), int(e.rate))
	}
	b.WriteString(";\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func cellVal(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}

func isNumeric(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return s != ""
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
