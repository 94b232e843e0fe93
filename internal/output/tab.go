// Package output provides result-table formatters.
package output

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/inodb/vibe-trace/internal/table"
)

// TabWriter writes result tables in tab-delimited format.
type TabWriter struct {
	w *bufio.Writer
}

// NewTabWriter creates a new tab-delimited writer.
func NewTabWriter(w io.Writer) *TabWriter {
	return &TabWriter{w: bufio.NewWriter(w)}
}

// WriteTable writes the header line followed by every row.
func (tw *TabWriter) WriteTable(t *table.Table) error {
	if _, err := tw.w.WriteString(strings.Join(t.Columns(), "\t") + "\n"); err != nil {
		return err
	}
	cols := len(t.Columns())
	for r := 0; r < t.RowCount(); r++ {
		for c := 0; c < cols; c++ {
			if c > 0 {
				if err := tw.w.WriteByte('\t'); err != nil {
					return err
				}
			}
			if _, err := tw.w.WriteString(strconv.FormatInt(t.Value(r, c), 10)); err != nil {
				return err
			}
		}
		if err := tw.w.WriteByte('\n'); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes buffered output.
func (tw *TabWriter) Flush() error {
	return tw.w.Flush()
}
