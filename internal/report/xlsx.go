package report

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"gstbill/internal/gst"
)

const defaultSheet = "Sheet1"

// ToXLSX writes the summary as a workbook with one worksheet per section of
// the CSV layout. Amount columns are numeric cells formatted to two places.
func ToXLSX(s *gst.GSTSummary, p Period, w io.Writer) error {
	if err := checkSummary(s); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: 2})
	if err != nil {
		return fmt.Errorf("creating amount style: %w", err)
	}

	for i, sec := range buildSections(s) {
		if _, err := f.NewSheet(sec.Sheet); err != nil {
			return fmt.Errorf("creating sheet %s: %w", sec.Sheet, err)
		}
		if err := writeSheet(f, sec, p, bold, money); err != nil {
			return err
		}
		if i == 0 {
			idx, _ := f.GetSheetIndex(sec.Sheet)
			f.SetActiveSheet(idx)
		}
	}
	if err := f.DeleteSheet(defaultSheet); err != nil {
		return fmt.Errorf("removing default sheet: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sec section, p Period, bold, money int) error {
	sheet := sec.Sheet
	if err := f.SetSheetRow(sheet, "A1", &[]any{ReportTitle + " - " + sec.Title}); err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, "A2", &[]any{"Period", p.From.Format(dateLayout), p.To.Format(dateLayout)}); err != nil {
		return err
	}

	header := make([]any, len(sec.Header))
	for i, h := range sec.Header {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A4", &header); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(sec.Header), 4)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "A1", bold); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A4", last, bold); err != nil {
		return err
	}

	for r, row := range sec.Rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+5)
			if err != nil {
				return err
			}
			if err := setCell(f, sheet, cell, sec.Header[c], v, money); err != nil {
				return fmt.Errorf("sheet %s cell %s: %w", sheet, cell, err)
			}
		}
	}
	return nil
}

func setCell(f *excelize.File, sheet, cell, column, v string, money int) error {
	if isAmountColumn(column) && v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return err
		}
		if err := f.SetCellFloat(sheet, cell, d.InexactFloat64(), 2, 64); err != nil {
			return err
		}
		return f.SetCellStyle(sheet, cell, cell, money)
	}
	return f.SetCellStr(sheet, cell, v)
}

func isAmountColumn(column string) bool {
	for _, c := range amountColumns {
		if c == column {
			return true
		}
	}
	return column == "Intra-State Taxable" || column == "Inter-State Taxable"
}
