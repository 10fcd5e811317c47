package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    LogLevel
		wantErr bool
	}{
		{"", Info, false},
		{"debug", Debug, false},
		{" INFO ", Info, false},
		{"warning", Warn, false},
		{"error", Error, false},
		{"verbose", Info, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v, error %v", tt.in, got, err, tt.want, tt.wantErr)
		}
	}
}

func TestNewZapLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	log, sync, err := NewZapLogger(Info, path)
	if err != nil {
		t.Fatalf("NewZapLogger() error = %v", err)
	}
	log.Debugf("hidden %d", 1)
	log.With("owner", "alice").Infof("report refreshed in %s", "1s")
	sync()

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(raw)
	if strings.Contains(out, "hidden") {
		t.Errorf("debug entry written at info level: %s", out)
	}
	if !strings.Contains(out, `"msg":"report refreshed in 1s"`) || !strings.Contains(out, `"owner":"alice"`) {
		t.Errorf("missing info entry: %s", out)
	}
}

func TestNewZapLogger_UnknownLevel(t *testing.T) {
	if _, _, err := NewZapLogger(LogLevel(42)); err == nil {
		t.Error("NewZapLogger() with unknown level succeeded")
	}
}
