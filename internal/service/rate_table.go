package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"gstbill/internal/gst"
	"gstbill/internal/port"
)

// LoadRateTable builds the HSN rate table from the master rows in the
// database. An empty master falls back to the built-in default table.
func LoadRateTable(ctx context.Context, repo port.HSNRepository, log logrus.FieldLogger) (*gst.RateTable, error) {
	rows, err := repo.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading hsn master: %w", err)
	}
	if len(rows) == 0 {
		table := gst.DefaultRateTable()
		log.WithField("prefixes", table.Len()).Warn("hsn master is empty, using built-in rate table")
		return table, nil
	}

	entries := make([]gst.RateEntry, len(rows))
	for i := range rows {
		entries[i] = gst.RateEntry{Code: rows[i].Code, Description: rows[i].Description, Rate: rows[i].Rate}
	}
	table := gst.NewRateTable(entries)
	log.WithFields(logrus.Fields{"rows": len(rows), "prefixes": table.Len()}).Info("rate table loaded")
	return table, nil
}
