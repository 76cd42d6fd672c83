package utils

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func captureConsole(t *testing.T) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, errOut bytes.Buffer
	oldOut, oldErr := Stdout, Stderr
	oldNoColor := color.NoColor
	Stdout, Stderr = &out, &errOut
	color.NoColor = true
	t.Cleanup(func() {
		Stdout, Stderr = oldOut, oldErr
		color.NoColor = oldNoColor
		QuietMode = false
		DebugMode = false
	})
	return &out, &errOut
}

func TestPrinters(t *testing.T) {
	out, errOut := captureConsole(t)

	PrintMessage("hello %d", 1)
	PrintNote("note")
	PrintWarning("careful")
	PrintError("broken")
	PrintDebug("hidden")

	if got := out.String(); got != "[CANDLE] hello 1\n[CANDLE][NOTE] note\n" {
		t.Errorf("stdout = %q", got)
	}
	if got := errOut.String(); got != "[CANDLE][WARN] careful\n[CANDLE][ERR]  broken\n" {
		t.Errorf("stderr = %q", got)
	}
}

func TestQuietAndDebugModes(t *testing.T) {
	out, errOut := captureConsole(t)

	QuietMode = true
	PrintMessage("suppressed")
	PrintNote("suppressed")
	PrintWarning("still shown")
	if out.Len() != 0 {
		t.Errorf("quiet mode leaked stdout: %q", out.String())
	}
	if !strings.Contains(errOut.String(), "still shown") {
		t.Errorf("warnings must survive quiet mode")
	}

	DebugMode = true
	PrintDebug("now visible")
	if !strings.Contains(errOut.String(), "[DBG]  now visible") {
		t.Errorf("debug line missing: %q", errOut.String())
	}
}
