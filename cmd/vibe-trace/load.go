package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/inodb/vibe-trace/internal/interval"
	"github.com/inodb/vibe-trace/internal/store"
)

func newLoadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "load <db> <track> <csv-file>",
		Short: "Load spans from a CSV file into a track",
		Long: `Load spans into a named track of a DuckDB trace store.

The CSV file has one span per line as id,ts,dur. A header line is
skipped if present. Ids must be unique within a track.`,
		Example: `  vibe-trace load trace.duckdb cpu cpu.csv
  cat gpu.csv | vibe-trace load trace.duckdb gpu -`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoad(args[0], args[1], args[2])
		},
	}
}

func runLoad(dbPath, track, csvPath string) error {
	var in io.Reader
	if csvPath == "-" {
		in = os.Stdin
	} else {
		f, err := os.Open(csvPath)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	spans, err := parseSpans(in)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", csvPath, err)
	}

	s, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.InsertSpans(track, spans); err != nil {
		return fmt.Errorf("loading track %q: %w", track, err)
	}

	fmt.Printf("Loaded %d spans into track %q\n", len(spans), track)
	return nil
}

// parseSpans reads id,ts,dur records. The first record is treated as a
// header if its id field is not numeric.
func parseSpans(in io.Reader) ([]interval.Interval, error) {
	r := csv.NewReader(in)
	r.FieldsPerRecord = 3
	r.TrimLeadingSpace = true

	var spans []interval.Interval
	line := 0
	for {
		rec, err := r.Read()
		if err == io.EOF {
			return spans, nil
		}
		if err != nil {
			return nil, err
		}
		line++

		id, err := strconv.ParseUint(rec[0], 10, 32)
		if err != nil {
			if line == 1 {
				continue // header
			}
			return nil, fmt.Errorf("line %d: bad id %q", line, rec[0])
		}
		ts, err := strconv.ParseUint(rec[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad ts %q", line, rec[1])
		}
		dur, err := strconv.ParseUint(rec[2], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad dur %q", line, rec[2])
		}

		spans = append(spans, interval.Interval{
			Start: ts,
			End:   ts + dur,
			ID:    uint32(id),
		})
	}
}
