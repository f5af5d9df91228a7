package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"github.com/scipunch/newspulse/report"
)

const csvSeparator = ';'

// utf8BOM lets spreadsheet applications detect the encoding
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type csvRecord struct {
	Title     string `csv:"titulo"`
	Sentiment string `csv:"sentimento"`
	Link      string `csv:"link"`
	Date      string `csv:"data"`
}

// WriteCSV writes rows as semicolon separated UTF-8 with a byte order mark.
// Unknown dates are empty cells.
func WriteCSV(w io.Writer, rows []report.Row) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return err
	}

	records := make([]csvRecord, 0, len(rows))
	for _, rec := range toRecords(rows) {
		c := csvRecord{Title: rec.Title, Sentiment: rec.Sentiment, Link: rec.Link}
		if rec.Date != nil {
			c.Date = *rec.Date
		}
		records = append(records, c)
	}

	cw := csv.NewWriter(w)
	cw.Comma = csvSeparator
	if len(records) == 0 {
		// header only
		if err := cw.Write(header); err != nil {
			return err
		}
		cw.Flush()
		return cw.Error()
	}
	if err := gocsv.MarshalCSV(records, gocsv.NewSafeCSVWriter(cw)); err != nil {
		return fmt.Errorf("could not encode CSV: %w", err)
	}
	return nil
}
