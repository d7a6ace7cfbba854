package logger

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"
)

func TestParseTime(t *testing.T) {
	tests := []struct {
		elapsed time.Duration
		h, m, s uint32
	}{
		{0, 0, 0, 0},
		{59 * time.Second, 0, 0, 59},
		{61 * time.Second, 0, 1, 1},
		{time.Hour + 2*time.Minute + 3*time.Second, 1, 2, 3},
		{3*time.Hour + 1500*time.Millisecond, 3, 0, 2},
	}
	for _, test := range tests {
		h, m, s := ParseTime(test.elapsed)
		if h != test.h || m != test.m || s != test.s {
			t.Errorf("unexpected result for %v, wanted %d:%d:%d, got %d:%d:%d", test.elapsed, test.h, test.m, test.s, h, m, s)
		}
	}
}

func TestNewLogger_WritesToOutput(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stdout)

	log := NewLogger("warning", "Test")
	log.Info("hidden")
	log.Warning("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message must be filtered at warning level: %v", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "WARNING") {
		t.Errorf("missing warning message in %v", out)
	}
}

func TestNewLogger_UnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stdout)

	log := NewLogger("verbose", "Test")
	log.Debug("debug")
	log.Info("info")

	out := buf.String()
	if strings.Contains(out, "debug") || !strings.Contains(out, "info") {
		t.Errorf("unexpected output %v", out)
	}
}
