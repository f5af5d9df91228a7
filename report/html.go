package report

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

var dashboardTemplate = template.Must(
	template.New("dashboard.html").Funcs(template.FuncMap{
		"describe":   Describe,
		"disclaimer": func() string { return Disclaimer },
		"formatDate": FormatDate,
		"formatTime": func(t time.Time) string { return t.Local().Format(dateLayout) },
		"formatDay":  func(t *time.Time) string { return t.Format(sinceLayout) },
	}).ParseFS(templateFS, "templates/*.html"),
)

// WriteHTML renders the dashboard as a standalone HTML page
func WriteHTML(w io.Writer, d Dashboard) error {
	if err := dashboardTemplate.Execute(w, d); err != nil {
		return fmt.Errorf("could not render dashboard HTML: %w", err)
	}
	return nil
}

// SaveHTML writes the dashboard page to path, creating parent directories
func SaveHTML(path string, d Dashboard) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for '%s' with %w", path, err)
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create dashboard HTML file: %w", err)
	}
	defer out.Close()

	if err := WriteHTML(out, d); err != nil {
		return err
	}
	return out.Close()
}
