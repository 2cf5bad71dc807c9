package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gstbill/internal/gst"
)

func TestParseRates(t *testing.T) {
	tests := []struct {
		cell string
		want []string
	}{
		{"18%", []string{"18"}},
		{"Exempt", []string{"0"}},
		{"NIL", []string{"0"}},
		{"12%-18%", []string{"12", "18"}},
		{"1% (without ITC) or 5% (without ITC)", []string{"1", "5"}},
		{"5% or 5%", []string{"5"}},
		{"0.18", []string{"18"}},
		{"28", []string{"28"}},
		{"", nil},
		{"as applicable", nil},
	}
	for _, tt := range tests {
		t.Run(tt.cell, func(t *testing.T) {
			got := parseRates(tt.cell)
			require.Len(t, got, len(tt.want))
			for i, w := range tt.want {
				assert.Equal(t, w, got[i].String())
			}
		})
	}
}

func TestRateSet_Add(t *testing.T) {
	set := newRateSet()
	rates := parseRates("18%")

	assert.True(t, set.add(" 8471 ", "Computers", rates[0]))
	assert.False(t, set.add("8471", "Computers again", rates[0]), "duplicate code and rate")
	assert.False(t, set.add("847", "too short", rates[0]))
	assert.False(t, set.add("84AB", "not numeric", rates[0]))
	assert.False(t, set.add("7108", "Gold", parseRates("3%")[0]))

	require.Len(t, set.entries, 1)
	assert.Equal(t, "8471", set.entries[0].code)
	assert.Equal(t, gst.TaxRate(18), set.entries[0].rate)
	assert.Equal(t, 1, set.skipped)
}

func TestRateSet_AddGoods(t *testing.T) {
	rows := make([][]string, 5)
	rows = append(rows,
		[]string{"", "", "", "", "", "8471", "", "ADP machines", "847130", "Portable", "84713010", "", "Laptops", "18%"},
		[]string{"", "", "", "", "", "1006", "", "Rice", "", "", "", "", "", "5%-12%"},
	)

	set := newRateSet()
	added := set.addGoods(rows)

	assert.Equal(t, 3, added)
	require.Len(t, set.entries, 3)
	assert.Equal(t, "84713010", set.entries[0].code, "most specific code first")
	assert.Equal(t, "847130", set.entries[1].code)
	assert.Equal(t, "8471", set.entries[2].code)
}

func TestRateSet_AddServices(t *testing.T) {
	rows := make([][]string, 3)
	rows = append(rows,
		[]string{"9954", "Construction services", "995411", "Residential buildings", "12%-18%"},
		[]string{"9963", "Accommodation", "", "", "Exempt"},
	)

	set := newRateSet()
	added := set.addServices(rows)

	assert.Equal(t, 5, added)
	codes := make([]string, 0, len(set.entries))
	for _, e := range set.entries {
		codes = append(codes, e.code+"@"+e.rate.String())
	}
	assert.Equal(t, []string{"995411@12%", "9954@12%", "995411@18%", "9954@18%", "9963@0%"}, codes)
}

func TestWriteSeed(t *testing.T) {
	entries := []rateEntry{
		{code: "8471", description: "Computers", rate: 18},
		{code: "0401", description: "Milk 'fresh'", rate: 0},
	}
	var buf bytes.Buffer
	require.NoError(t, writeSeed(&buf, entries))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "-- HSN/SAC rate master"))
	assert.Contains(t, out, "TRUNCATE hsn_rates;")
	assert.Contains(t, out, "INSERT INTO hsn_rates (code, description, gst_rate) VALUES")
	assert.Contains(t, out, "('8471', 'Computers', 18)")
	assert.Contains(t, out, "('0401', 'Milk ''fresh''', 0)")
	assert.True(t, strings.HasSuffix(out, "COMMIT;\n"))
}

func TestWriteSeed_Batches(t *testing.T) {
	entries := make([]rateEntry, batchSize+1)
	for i := range entries {
		entries[i] = rateEntry{code: "9999", rate: 5}
	}
	var buf bytes.Buffer
	require.NoError(t, writeSeed(&buf, entries))
	assert.Equal(t, 2, strings.Count(buf.String(), "INSERT INTO hsn_rates"))
}
