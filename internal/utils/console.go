package utils

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// DebugMode controls whether PrintDebug output is visible.
var DebugMode = false

// QuietMode controls whether verbose messages are suppressed (errors/warnings still shown)
var QuietMode = false

// projectPrefix is the standard tag for all logs.
const projectPrefix = "[CANDLE]"

// Output streams. Tests swap these to capture log lines.
var (
	Stdout io.Writer = os.Stdout
	Stderr io.Writer = os.Stderr
)

var (
	red      = color.New(color.FgRed).SprintFunc()
	green    = color.New(color.FgGreen).SprintFunc()
	yellow   = color.New(color.FgYellow).SprintFunc()
	blueBold = color.New(color.FgBlue, color.Bold).SprintFunc()
	magenta  = color.New(color.FgMagenta).SprintFunc()
	cyan     = color.New(color.FgCyan).SprintFunc()
	faint    = color.New(color.FgWhite).SprintFunc()
	bold     = color.New(color.Bold).SprintFunc()
)

// Styles used for inline highlighting in messages and tables.

func StyleError(msg string) string   { return red(msg) }
func StyleSuccess(msg string) string { return green(msg) }
func StyleWarning(msg string) string { return yellow(msg) }
func StyleHint(msg string) string    { return cyan(msg) }
func StyleNote(msg string) string    { return magenta(msg) }
func StyleInfo(msg string) string    { return magenta(msg) }
func StyleDebug(msg string) string   { return faint(msg) }
func StyleCommand(cmd string) string { return faint(cmd) }
func StyleTitle(title string) string { return bold(cyan(title)) }
func StylePath(path string) string   { return blueBold(path) }
func StyleName(name string) string   { return yellow(name) }

// StyleNumber formats counts such as node and task totals.
func StyleNumber(num interface{}) string {
	return magenta(fmt.Sprint(num))
}

// logLine writes one tagged line. An empty tag yields "[CANDLE] msg".
func logLine(w io.Writer, tag, format string, a []interface{}) {
	sep := ""
	if tag == "" {
		sep = " "
	}
	fmt.Fprintf(w, "%s%s%s%s\n", projectPrefix, tag, sep, fmt.Sprintf(format, a...))
}

// PrintMessage prints an untagged progress line.
func PrintMessage(format string, a ...interface{}) {
	if !QuietMode {
		logLine(Stdout, "", format, a)
	}
}

// PrintSuccess prints "[CANDLE][PASS] msg".
func PrintSuccess(format string, a ...interface{}) {
	if !QuietMode {
		logLine(Stdout, StyleSuccess("[PASS]")+" ", format, a)
	}
}

// PrintError prints "[CANDLE][ERR]  msg" to Stderr. Never suppressed.
func PrintError(format string, a ...interface{}) {
	logLine(Stderr, StyleError("[ERR] ")+" ", format, a)
}

// PrintWarning prints "[CANDLE][WARN] msg" to Stderr. Never suppressed.
func PrintWarning(format string, a ...interface{}) {
	logLine(Stderr, StyleWarning("[WARN]")+" ", format, a)
}

// PrintHint prints a suggestion for the next command to run.
func PrintHint(format string, a ...interface{}) {
	if !QuietMode {
		logLine(Stdout, StyleHint("[HINT]")+" ", format, a)
	}
}

// PrintNote prints planner notices and other neutral remarks.
func PrintNote(format string, a ...interface{}) {
	if !QuietMode {
		logLine(Stdout, StyleNote("[NOTE]")+" ", format, a)
	}
}

// PrintDebug prints to Stderr only when DebugMode is set.
func PrintDebug(format string, a ...interface{}) {
	if DebugMode {
		logLine(Stderr, StyleDebug("[DBG] ")+" ", format, a)
	}
}
