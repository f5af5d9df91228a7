package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"unicode/utf8"
)

const (
	dateLayout    = "2006-01-02 15:04:05"
	minTitleWidth = 20
	barWidth      = 30
)

// FormatDate renders a publish date the way the table and exports show it,
// empty when unknown
func FormatDate(r Row) string {
	if r.Published == nil {
		return ""
	}
	return r.Published.Format(dateLayout)
}

// WriteTerminal prints the dashboard as plain text sized to width columns
func WriteTerminal(w io.Writer, d Dashboard, width int) error {
	b := &errWriter{w: w}

	b.printf("Notícias: %s\n", d.Query)
	if !d.FetchedAt.IsZero() {
		b.printf("Atualizado em %s\n", d.FetchedAt.Local().Format(dateLayout))
	}
	if d.Since != nil {
		b.printf("A partir de %s\n", d.Since.Format(sinceLayout))
	}
	b.printf("\n")

	b.printf("Sentimentos\n")
	if d.ChartErr != nil {
		b.printf("  %s\n", Describe(d.ChartErr))
	} else {
		for _, s := range d.Distribution.Slices {
			bar := strings.Repeat("#", int(s.Percent*barWidth/100+0.5))
			b.printf("  %-9s %3d %5.1f%% %s\n", s.Label, s.Count, s.Percent, bar)
		}
	}
	b.printf("\n")

	b.printf("Palavras frequentes\n")
	if d.CloudErr != nil {
		b.printf("  %s\n", Describe(d.CloudErr))
	} else {
		b.printf("%s\n", wrapWords(d.Words, width))
	}
	b.printf("\n")

	if d.RowsErr != nil {
		b.printf("%s\n", Describe(d.RowsErr))
	} else if b.err == nil {
		b.err = writeTable(w, d.Rows, width)
	}

	b.printf("\n%s\n", Disclaimer)
	return b.err
}

func writeTable(w io.Writer, rows []Row, width int) error {
	// index, sentiment and date columns plus padding
	titleWidth := max(width-len(dateLayout)-9-4-8, minTitleWidth)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tTítulo\tSentimento\tData")
	for _, r := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", r.Index, ellipsize(r.Title, titleWidth), r.Sentiment, FormatDate(r))
	}
	return tw.Flush()
}

func wrapWords(words []WordCount, width int) string {
	var sb strings.Builder
	line := 2
	sb.WriteString("  ")
	for i, wc := range words {
		entry := fmt.Sprintf("%s(%d)", wc.Word, wc.Count)
		n := utf8.RuneCountInString(entry)
		if i > 0 && line+n+1 > width {
			sb.WriteString("\n  ")
			line = 2
		} else if i > 0 {
			sb.WriteString(" ")
			line++
		}
		sb.WriteString(entry)
		line += n
	}
	return sb.String()
}

func ellipsize(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-1]) + "…"
}

type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
