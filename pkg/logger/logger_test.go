package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestProgressAlwaysIgnoresVerbose(t *testing.T) {
	var buf bytes.Buffer
	log := NewLoggerWithWriter("info", false, &buf)

	log.ProgressAlways("📠", "Starting scan")
	log.Progress("🔍", "hidden detail")

	got := buf.String()
	if !strings.Contains(got, "📠 Starting scan") {
		t.Errorf("expected milestone in output, got %q", got)
	}
	if strings.Contains(got, "hidden detail") {
		t.Errorf("verbose-only progress leaked: %q", got)
	}
}

func TestCommandEchoOnlyWhenVerbose(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		want    string
	}{
		{name: "quiet", verbose: false, want: ""},
		{name: "verbose", verbose: true, want: "$ scanimage --device 'epson2:net:10.0.0.5 x' --mode Gray\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := NewLoggerWithWriter("info", tt.verbose, &buf)
			log.Command("scanimage", []string{"--device", "epson2:net:10.0.0.5 x", "--mode", "Gray"})
			if buf.String() != tt.want {
				t.Errorf("expected %q, got %q", tt.want, buf.String())
			}
		})
	}
}

func TestLevels(t *testing.T) {
	var buf bytes.Buffer
	log := NewLoggerWithWriter("warn", true, &buf)

	log.Debug("debug")
	log.Info("info")
	log.Warn("warn %d", 1)
	log.Error("error %d", 2)

	got := buf.String()
	if strings.Contains(got, "[DEBUG]") || strings.Contains(got, "[INFO]") {
		t.Errorf("messages below level were written: %q", got)
	}
	if !strings.Contains(got, "[WARN] warn 1") || !strings.Contains(got, "[ERROR] error 2") {
		t.Errorf("expected warn and error lines, got %q", got)
	}
}

func TestFormatCommandQuotesSingleQuotes(t *testing.T) {
	got := FormatCommand("convert", []string{"it's.tiff"})
	want := `convert 'it'\''s.tiff'`
	if got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}
