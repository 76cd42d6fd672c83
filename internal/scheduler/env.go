package scheduler

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fnlcr-bids-sdsi/candle-wrappers/internal/utils"
)

// FormatExports writes one `export NAME=VALUE` line per export.
func FormatExports(w io.Writer, exports []Export) error {
	for _, e := range exports {
		if _, err := fmt.Fprintf(w, "export %s=%s\n", e.Name, shellQuote(e.Value)); err != nil {
			return err
		}
	}
	return nil
}

// WriteExportFile writes exports to path for run_workflows.sh to source,
// creating the parent directory when needed.
func WriteExportFile(path string, exports []Export) error {
	if err := utils.EnsureDir(filepath.Dir(path)); err != nil {
		return &ExportWriteError{Path: path, Err: err}
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, utils.PermFile)
	if err != nil {
		return &ExportWriteError{Path: path, Err: err}
	}

	writer := bufio.NewWriter(file)
	if err := FormatExports(writer, exports); err != nil {
		file.Close()
		return &ExportWriteError{Path: path, Err: err}
	}
	if err := writer.Flush(); err != nil {
		file.Close()
		return &ExportWriteError{Path: path, Err: err}
	}
	if err := file.Close(); err != nil {
		return &ExportWriteError{Path: path, Err: err}
	}

	utils.PrintDebug("Wrote %d exports to %s", len(exports), utils.StylePath(path))
	return nil
}

// shellQuote leaves plain words bare and wraps anything else in double quotes.
// Parameter expansion stays live inside the quotes.
func shellQuote(v string) string {
	if v == "" || isShellWord(v) {
		return v
	}
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "`", "\\`")
	return `"` + r.Replace(v) + `"`
}

func isShellWord(v string) bool {
	for _, c := range v {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case strings.ContainsRune("_-./:=,+@%", c):
		default:
			return false
		}
	}
	return true
}
