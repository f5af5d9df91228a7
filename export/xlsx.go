package export

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/scipunch/newspulse/report"
)

// SheetName is the single worksheet of the XLSX export
const SheetName = "Notícias"

var columnWidths = map[string]float64{"A": 70, "B": 14, "C": 60, "D": 20}

// WriteXLSX writes rows to a one sheet workbook with a bold header row
func WriteXLSX(w io.Writer, rows []report.Row) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("could not name sheet: %w", err)
	}

	headerRow := make([]any, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &headerRow); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetRowStyle(SheetName, 1, 1, bold); err != nil {
		return err
	}

	for i, rec := range toRecords(rows) {
		row := []any{rec.Title, rec.Sentiment, rec.Link, nil}
		if rec.Date != nil {
			row[3] = *rec.Date
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return err
		}
		if rec.Link != "" {
			linkCell, _ := excelize.CoordinatesToCellName(3, i+2)
			if err := f.SetCellHyperLink(SheetName, linkCell, rec.Link, "External"); err != nil {
				// the URL stays as plain text
				slog.Debug("hyperlink skipped", "link", rec.Link, "error", err)
			}
		}
	}

	for col, width := range columnWidths {
		if err := f.SetColWidth(SheetName, col, col, width); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("could not write workbook: %w", err)
	}
	return nil
}
