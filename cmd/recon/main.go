// Command recon replays a prepped record directory through the order
// book and prints level-5 volume snapshots as they're produced, the same
// goroutine-per-stream idiom the teacher's illustrative example used for
// its live trade/price/depth streams.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/shiryu-mmt/marketreplay/internal/config"
	"github.com/shiryu-mmt/marketreplay/internal/event"
	"github.com/shiryu-mmt/marketreplay/internal/obslog"
	"github.com/shiryu-mmt/marketreplay/internal/replay"
	"github.com/shiryu-mmt/marketreplay/internal/store"
)

const priceBasis = 4

func main() {
	root := &cobra.Command{
		Use:   "recon DIRS...",
		Short: "replay prepped record directories and print book snapshots",
		Args:  cobra.MinimumNArgs(1),
		RunE:  run,
	}
	config.BindCommon(root)
	config.BindRecon(root)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	log := obslog.New(config.LogLevel())
	cfg := config.ResolveRecon()

	for _, dir := range args {
		records, err := readRecords(filepath.Join(dir, "records.bin.zst"))
		if err != nil {
			return fmt.Errorf("recon: %s: %w", dir, err)
		}

		drv := replay.New(priceBasis, replay.DepthLevel, 5, false)
		snaps, err := drv.Run(records)
		if err != nil {
			return fmt.Errorf("recon: %s: %w", dir, err)
		}

		if !cfg.WithoutValidation {
			if err := drv.Book.IntegrityCheck(); err != nil {
				return fmt.Errorf("recon: %s: integrity check: %w", dir, err)
			}
		}

		out := make(chan replay.Snapshot, 16)
		go func() {
			defer close(out)
			for _, s := range snaps {
				out <- s
			}
		}()
		for s := range out {
			printSnapshot(dir, s)
		}
		log.Info().Str("dir", dir).Int("snapshots", len(snaps)).Msg("replay complete")
	}
	return nil
}

func readRecords(path string) ([]event.Record, error) {
	dec, f, err := store.OpenRecordReader(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	defer dec.Close()

	var records []event.Record
	for {
		r, err := event.ReadRecord(dec)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, nil
}

func printSnapshot(dir string, s replay.Snapshot) {
	if s.Volume == nil {
		return
	}
	fmt.Printf("[%s] t=%d asks=%d bids=%d\n", dir, s.Time, len(s.Volume.Ask), len(s.Volume.Bid))
}
