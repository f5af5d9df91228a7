package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestRead_Missing(t *testing.T) {
	conf, err := Read(filepath.Join(t.TempDir(), "absent.toml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected ErrNotExist, got %v", err)
	}
	if diff := cmp.Diff(Default(), conf); diff != "" {
		t.Errorf("missing config should yield defaults (-want +got):\n%s", diff)
	}
}

func TestRead_Overrides(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	blob := `
query = "robótica Teresina"
limit = 20
tracing = true

[feed]
timeout = "3s"
user_agent = "newspulse-test"

[feed.locale]
hl = "en-US"
gl = "US"
ceid = "US:en"

[lexicon]
positive = ["bom"]
`
	if err := os.WriteFile(cfgPath, []byte(blob), 0644); err != nil {
		t.Fatal(err)
	}

	conf, err := Read(cfgPath)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if conf.Query != "robótica Teresina" || conf.Limit != 20 || !conf.Tracing {
		t.Errorf("top-level fields not decoded: %+v", conf)
	}
	if conf.Feed.Timeout.Duration != 3*time.Second {
		t.Errorf("timeout = %s, want 3s", conf.Feed.Timeout)
	}
	if conf.Feed.Locale.Edition != "US:en" {
		t.Errorf("locale not decoded: %+v", conf.Feed.Locale)
	}
	if conf.Feed.Endpoint == "" {
		t.Error("unset endpoint should keep the default")
	}

	lx, err := conf.BuildLexicon()
	if err != nil {
		t.Fatalf("BuildLexicon failed: %v", err)
	}
	// one custom positive plus the six default negatives
	if lx.Len() != 7 {
		t.Errorf("lexicon size = %d, want 7", lx.Len())
	}
}

func TestWriteRead_RoundTrip(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "nested", "config.toml")
	want := Default()
	want.Query = "ia"
	want.Lexicon.Negative = []string{"ruim"}

	if err := Write(cfgPath, want); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	got, err := Read(cfgPath)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		limit   int
		wantErr bool
	}{
		{"default", DefaultLimit, false},
		{"min", MinLimit, false},
		{"max", MaxLimit, false},
		{"too small", 4, true},
		{"too large", 31, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf := Default()
			conf.Limit = tt.limit
			if err := conf.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got := DefaultPath(); got != "/tmp/xdg/newspulse/config.toml" {
		t.Errorf("DefaultPath() = %s", got)
	}
}
