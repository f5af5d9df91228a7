package export

import (
	"encoding/json"
	"io"

	"github.com/scipunch/newspulse/report"
)

// WriteJSON writes rows as an indented array. Non-ASCII text and HTML
// characters are kept literal and unknown dates are null.
func WriteJSON(w io.Writer, rows []report.Row) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	return enc.Encode(toRecords(rows))
}
