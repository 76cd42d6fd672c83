package utils

import (
	"fmt"
	"io"
	"strings"
)

// KeyValue is one row of a printed table.
type KeyValue struct {
	Key   string
	Value interface{}
}

// PrintTable writes a title followed by rows aligned five columns past the
// longest key:
//
//	Title
//
//	  nworkers:          5
//	  worker_type:       cpu
func PrintTable(w io.Writer, title string, rows []KeyValue) {
	maxLen := 0
	for _, row := range rows {
		if len(row.Key) > maxLen {
			maxLen = len(row.Key)
		}
	}

	fmt.Fprintf(w, "%s\n\n", title)
	for _, row := range rows {
		label := row.Key + ":"
		fmt.Fprintf(w, "  %s%s %v\n", label, strings.Repeat(" ", maxLen+5-len(label)), row.Value)
	}
}
