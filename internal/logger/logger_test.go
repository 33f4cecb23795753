package logger

import (
	"bytes"
	"os"
	"strings"
	"sync"
	"testing"
	"time"
)

func capture(t *testing.T, verboseOn bool) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(verboseOn)
	t.Cleanup(func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
		now = time.Now
	})
	return &buf
}

func TestSetVerbose(t *testing.T) {
	capture(t, false)

	if IsVerbose() {
		t.Error("expected verbose to be false initially")
	}
	SetVerbose(true)
	if !IsVerbose() {
		t.Error("expected verbose to be true after SetVerbose(true)")
	}
}

func TestDebug(t *testing.T) {
	buf := capture(t, true)

	Debug("staging %s", "config.json")

	if got := buf.String(); got != "[DEBUG] staging config.json\n" {
		t.Errorf("unexpected output: %q", got)
	}
}

func TestDebugAndInfo_Quiet(t *testing.T) {
	buf := capture(t, false)

	Debug("hidden")
	Info("hidden")
	Section("hidden")

	if buf.Len() > 0 {
		t.Errorf("expected no output when verbose is disabled, got %q", buf.String())
	}
}

func TestSection(t *testing.T) {
	buf := capture(t, true)

	Section("Register tap")

	if got := buf.String(); got != "\n=== Register tap ===\n" {
		t.Errorf("unexpected section output: %q", got)
	}
}

func TestInfo(t *testing.T) {
	buf := capture(t, true)

	Info("discovered %d streams", 3)

	if got := buf.String(); got != "[INFO] discovered 3 streams\n" {
		t.Errorf("unexpected info output: %q", got)
	}
}

func TestWarn_PrintsWhenQuiet(t *testing.T) {
	buf := capture(t, false)

	Warn("recording run: %s", "disk full")

	if got := buf.String(); got != "[WARN] recording run: disk full\n" {
		t.Errorf("unexpected warn output: %q", got)
	}
}

func TestStage(t *testing.T) {
	buf := capture(t, true)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	calls := 0
	now = func() time.Time {
		calls++
		return base.Add(time.Duration(calls-1) * 1500 * time.Millisecond)
	}

	done := Stage("discovery")
	done()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", buf.String())
	}
	if lines[0] != "[DEBUG] discovery: started" {
		t.Errorf("unexpected start line: %q", lines[0])
	}
	if lines[1] != "[DEBUG] discovery: done in 1.5s" {
		t.Errorf("unexpected done line: %q", lines[1])
	}
}

func TestConcurrentAccess(t *testing.T) {
	buf := capture(t, true)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			Debug("concurrent %d", i)
			Warn("concurrent %d", i)
			IsVerbose()
		}()
	}
	wg.Wait()

	if got := strings.Count(buf.String(), "\n"); got != 20 {
		t.Errorf("expected 20 lines, got %d", got)
	}
}
