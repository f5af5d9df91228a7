// Package export writes the news table to CSV, XLSX and JSON files.
package export

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/scipunch/newspulse/report"
)

type Format string

const (
	CSV  Format = "csv"
	XLSX Format = "xlsx"
	JSON Format = "json"
)

// Formats lists every supported format
var Formats = []Format{CSV, XLSX, JSON}

// baseName is shared by every exported file
const baseName = "noticias"

// FileName returns the name of the file written for f
func (f Format) FileName() string {
	return baseName + "." + string(f)
}

// ParseFormats parses a comma separated list such as "csv,json".
// Duplicates are dropped and order is preserved.
func ParseFormats(s string) ([]Format, error) {
	var formats []Format
	seen := make(map[Format]bool)
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		f := Format(part)
		if !f.valid() {
			return nil, fmt.Errorf("unsupported export format '%s'", part)
		}
		if seen[f] {
			continue
		}
		seen[f] = true
		formats = append(formats, f)
	}
	return formats, nil
}

func (f Format) valid() bool {
	for _, known := range Formats {
		if f == known {
			return true
		}
	}
	return false
}

// Encode writes rows to w in format f
func Encode(w io.Writer, f Format, rows []report.Row) error {
	switch f {
	case CSV:
		return WriteCSV(w, rows)
	case XLSX:
		return WriteXLSX(w, rows)
	case JSON:
		return WriteJSON(w, rows)
	default:
		return fmt.Errorf("unsupported export format '%s'", f)
	}
}

// Save writes one file per format into dir and returns the written paths
func Save(dir string, formats []Format, rows []report.Row) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory '%s' with %w", dir, err)
	}

	paths := make([]string, 0, len(formats))
	for _, f := range formats {
		path := filepath.Join(dir, f.FileName())
		if err := saveFile(path, f, rows); err != nil {
			return paths, err
		}
		slog.Info("export written", "format", f, "path", path, "rows", len(rows))
		paths = append(paths, path)
	}
	return paths, nil
}

func saveFile(path string, f Format, rows []report.Row) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create '%s' with %w", path, err)
	}
	defer out.Close()

	if err := Encode(out, f, rows); err != nil {
		return fmt.Errorf("%s export failed with %w", f, err)
	}
	return out.Close()
}

// record is the column layout shared by every format. Date is nil when
// the publish date is unknown.
type record struct {
	Title     string  `json:"titulo"`
	Sentiment string  `json:"sentimento"`
	Link      string  `json:"link"`
	Date      *string `json:"data"`
}

var header = []string{"titulo", "sentimento", "link", "data"}

func toRecords(rows []report.Row) []record {
	records := make([]record, 0, len(rows))
	for _, r := range rows {
		rec := record{
			Title:     r.Title,
			Sentiment: string(r.Sentiment),
			Link:      r.Link,
		}
		if r.Published != nil {
			d := report.FormatDate(r)
			rec.Date = &d
		}
		records = append(records, rec)
	}
	return records
}
