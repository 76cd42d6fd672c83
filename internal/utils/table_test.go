package utils

import (
	"bytes"
	"testing"
)

func TestPrintTable(t *testing.T) {
	var buf bytes.Buffer
	PrintTable(&buf, "Checked keywords:", []KeyValue{
		{"nworkers", 5},
		{"worker_type", "cpu"},
	})

	want := "Checked keywords:\n\n" +
		"  nworkers:        5\n" +
		"  worker_type:     cpu\n"
	if got := buf.String(); got != want {
		t.Errorf("PrintTable() =\n%q\nwant\n%q", got, want)
	}
}

func TestPrintTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	PrintTable(&buf, "Nothing:", nil)
	if got := buf.String(); got != "Nothing:\n\n" {
		t.Errorf("PrintTable(nil) = %q", got)
	}
}
