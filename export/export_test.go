package export

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"

	"github.com/scipunch/newspulse/report"
	"github.com/scipunch/newspulse/sentiment"
)

func sampleRows() []report.Row {
	published := time.Date(2025, 10, 17, 10, 0, 0, 0, time.UTC)
	return []report.Row{
		{
			Index:     1,
			Title:     "Avanço <b>; IA",
			Sentiment: sentiment.Positive,
			Link:      "https://example.com/?a=1&b=2",
			Published: &published,
		},
		{
			Index:     2,
			Title:     "Sem data",
			Sentiment: sentiment.Neutral,
			Link:      "https://example.com/2",
		},
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		input   string
		want    []Format
		wantErr bool
	}{
		{"", nil, false},
		{"csv", []Format{CSV}, false},
		{"json, XLSX ,csv", []Format{JSON, XLSX, CSV}, false},
		{"csv,csv", []Format{CSV}, false},
		{"csv,pdf", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormats(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormats(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseFormats(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleRows()); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	data := buf.Bytes()
	if !bytes.HasPrefix(data, utf8BOM) {
		t.Fatal("CSV does not start with a UTF-8 BOM")
	}

	r := csv.NewReader(bytes.NewReader(data[len(utf8BOM):]))
	r.Comma = ';'
	got, err := r.ReadAll()
	if err != nil {
		t.Fatalf("failed to read CSV back: %v", err)
	}
	want := [][]string{
		{"titulo", "sentimento", "link", "data"},
		{"Avanço <b>; IA", "Positivo", "https://example.com/?a=1&b=2", "2025-10-17 10:00:00"},
		{"Sem data", "Neutro", "https://example.com/2", ""},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("CSV mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}
	want := string(utf8BOM) + "titulo;sentimento;link;data\n"
	if buf.String() != want {
		t.Errorf("WriteCSV = %q, want %q", buf.String(), want)
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, sampleRows()); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	want := `[
    {
        "titulo": "Avanço <b>; IA",
        "sentimento": "Positivo",
        "link": "https://example.com/?a=1&b=2",
        "data": "2025-10-17 10:00:00"
    },
    {
        "titulo": "Sem data",
        "sentimento": "Neutro",
        "link": "https://example.com/2",
        "data": null
    }
]
`
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("JSON mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteJSON_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, nil); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}
	if buf.String() != "[]\n" {
		t.Errorf("WriteJSON = %q, want empty array", buf.String())
	}
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, sampleRows()); err != nil {
		t.Fatalf("WriteXLSX failed: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("failed to open workbook: %v", err)
	}
	defer f.Close()

	if diff := cmp.Diff([]string{SheetName}, f.GetSheetList()); diff != "" {
		t.Errorf("sheet list mismatch (-want +got):\n%s", diff)
	}
	got, err := f.GetRows(SheetName)
	if err != nil {
		t.Fatalf("GetRows failed: %v", err)
	}
	want := [][]string{
		{"titulo", "sentimento", "link", "data"},
		{"Avanço <b>; IA", "Positivo", "https://example.com/?a=1&b=2", "2025-10-17 10:00:00"},
		{"Sem data", "Neutro", "https://example.com/2"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	paths, err := Save(dir, Formats, sampleRows())
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	want := []string{
		filepath.Join(dir, "noticias.csv"),
		filepath.Join(dir, "noticias.xlsx"),
		filepath.Join(dir, "noticias.json"),
	}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Errorf("paths mismatch (-want +got):\n%s", diff)
	}
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			t.Errorf("missing export %s: %v", p, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("export %s is empty", p)
		}
	}
}

func TestEncode_Unsupported(t *testing.T) {
	if err := Encode(&bytes.Buffer{}, Format("pdf"), nil); err == nil {
		t.Error("expected error for unsupported format")
	}
}
