package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/vibe-trace/internal/engine"
	"github.com/inodb/vibe-trace/internal/output"
	"github.com/inodb/vibe-trace/internal/store"
)

func newIntersectCmd(verbose *bool) *cobra.Command {
	var (
		saveAs  string
		workers int
	)

	cmd := &cobra.Command{
		Use:   "intersect <db> <track> <track>...",
		Short: "Intersect two or more tracks",
		Long: `Find every time window where one span from each of the given tracks
was active at the same time.

The result has columns ts, dur and one id_<k> column per track, holding
the matched span's id from the k-th track argument. Rows are printed
tab-separated in no particular order; use --save to write them back into
the store as a queryable table instead.`,
		Example: `  vibe-trace intersect trace.duckdb cpu gpu
  vibe-trace intersect trace.duckdb cpu gpu io --save busy_windows`,
		Args: cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Config is only read in PersistentPreRunE, so the flag
			// default cannot come from viper directly.
			if !cmd.Flags().Changed("workers") {
				workers = viper.GetInt("intersect.workers")
			}
			return runIntersect(args[0], args[1:], saveAs, workers, *verbose)
		},
	}

	cmd.Flags().StringVar(&saveAs, "save", "", "Write the result into the store under this table name")
	cmd.Flags().IntVar(&workers, "workers", 0, "Worker count for narrowing stages (0 = serial)")

	return cmd
}

func runIntersect(dbPath string, tracks []string, saveAs string, workers int, verbose bool) error {
	logger, err := newLogger(verbose)
	if err != nil {
		return err
	}
	defer logger.Sync()

	s, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer s.Close()

	args := make([]engine.Handle, len(tracks))
	for i, track := range tracks {
		set, err := s.LoadIntervals(track)
		if err != nil {
			return fmt.Errorf("loading track %q: %w", track, err)
		}
		logger.Debug("loaded track",
			zap.String("track", track),
			zap.Int("spans", len(set)))
		args[i] = engine.BuildIntervalSet(set)
	}

	e := engine.New()
	e.SetLogger(logger)
	e.SetWorkers(workers)

	res, err := e.Invoke(engine.FuncIntervalIntersect, args)
	if err != nil {
		return err
	}
	tab, err := res.Table()
	if err != nil {
		return err
	}

	if saveAs != "" {
		if err := s.WriteTable(saveAs, tab); err != nil {
			return fmt.Errorf("saving result: %w", err)
		}
		fmt.Printf("Saved %d rows as table %q\n", tab.RowCount(), saveAs)
		return nil
	}

	tw := output.NewTabWriter(os.Stdout)
	if err := tw.WriteTable(tab); err != nil {
		return err
	}
	return tw.Flush()
}
