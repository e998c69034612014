package debug

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func withDebug(t *testing.T) *bytes.Buffer {
	t.Helper()
	prevEnabled, prevLogger := enabled, logger
	t.Cleanup(func() {
		enabled, logger = prevEnabled, prevLogger
	})
	var buf bytes.Buffer
	SetEnabled(true)
	SetOutput(&buf)
	return &buf
}

func TestLog_Disabled(t *testing.T) {
	buf := withDebug(t)
	SetEnabled(false)
	Log("hidden %d", 1)
	LogIf(true, "hidden")
	LogTiming("hidden", time.Second)
	if buf.Len() != 0 {
		t.Errorf("expected no output when disabled, got %q", buf.String())
	}
}

func TestLog_Enabled(t *testing.T) {
	buf := withDebug(t)
	Log("loaded %d principles", 10)
	if !strings.Contains(buf.String(), "[MM_DEBUG]") || !strings.Contains(buf.String(), "loaded 10 principles") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestLogIf(t *testing.T) {
	buf := withDebug(t)
	LogIf(false, "skip")
	LogIf(true, "keep")
	if strings.Contains(buf.String(), "skip") || !strings.Contains(buf.String(), "keep") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestLogEnterExit(t *testing.T) {
	buf := withDebug(t)
	LogEnterExit("render")()
	out := buf.String()
	if !strings.Contains(out, "-> render") || !strings.Contains(out, "<- render") {
		t.Errorf("unexpected output %q", out)
	}
}
