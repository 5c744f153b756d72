// Command prep translates one or more raw venue capture files (Nasdaq
// ITCH or NYSE Arca Integrated) into the compressed, fixed-schema record
// files cmd/recon and downstream backtesting tools consume. Each input
// file gets its own output directory, marked with a .done sentinel once
// fully processed so a rerun can skip it.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/shiryu-mmt/marketreplay/internal/arca"
	"github.com/shiryu-mmt/marketreplay/internal/book"
	"github.com/shiryu-mmt/marketreplay/internal/config"
	"github.com/shiryu-mmt/marketreplay/internal/event"
	"github.com/shiryu-mmt/marketreplay/internal/itch"
	"github.com/shiryu-mmt/marketreplay/internal/obslog"
	"github.com/shiryu-mmt/marketreplay/internal/price"
	"github.com/shiryu-mmt/marketreplay/internal/stat"
	"github.com/shiryu-mmt/marketreplay/internal/store"
)

const intervalNanos = 1_000_000_000

func main() {
	root := &cobra.Command{
		Use:   "prep FILES...",
		Short: "translate raw venue captures into fixed-schema record files",
		Args:  cobra.MinimumNArgs(1),
		RunE:  run,
	}
	config.BindCommon(root)
	config.BindPrep(root)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	log := obslog.New(config.LogLevel())
	cfg := config.ResolvePrep()

	g, ctx := errgroup.WithContext(cmd.Context())
	for _, path := range args {
		path := path
		g.Go(func() error {
			return processFile(ctx, path, cfg.OutDir, cfg.NoCache, log)
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("prep: %w", err)
	}
	return nil
}

func processFile(_ context.Context, path, outDir string, noCache bool, log zerolog.Logger) error {
	dir, err := store.ForInput(path, outDir)
	if err != nil {
		return err
	}
	if !noCache && dir.Done() {
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var (
		records []event.Record
		noii    []event.Record
		bbo     []event.Record
		mpid    map[uint32]string
		basis   uint64
	)

	switch venueOf(path) {
	case venueITCH:
		tr := itch.NewTranslator(stockNameOf(path), log)
		r := itch.NewReader(f)
		for {
			m, err := r.Next()
			if err == io.EOF {
				break
			}
			if err != nil {
				return fmt.Errorf("decode %s: %w", path, err)
			}
			tr.Handle(m)
		}
		records, noii, bbo, mpid = tr.Records(), tr.NOIIRecords(), tr.BBORecords(), tr.MPIDMap()
		basis = 4
	case venueArca:
		tr := arca.New(log)
		r := arca.NewReader(f)
		for {
			m, err := r.Next()
			if err == io.EOF {
				break
			}
			if err != nil {
				return fmt.Errorf("decode %s: %w", path, err)
			}
			tr.Handle(m)
		}
		records = tr.Records()
		basis = 4
	default:
		return fmt.Errorf("prep: %s: unrecognized venue extension", path)
	}

	if err := writeRecords(dir, records, noii, bbo, mpid); err != nil {
		return err
	}
	if err := writeStat(dir, records, basis); err != nil {
		return err
	}
	return dir.MarkDone()
}

func writeRecords(dir store.Dir, records, noii, bbo []event.Record, mpid map[uint32]string) error {
	if err := writeSide(dir.RecordsWriter, records); err != nil {
		return err
	}
	if len(noii) > 0 {
		if err := writeSide(dir.NOIIWriter, noii); err != nil {
			return err
		}
	}
	if len(bbo) > 0 {
		if err := writeSide(dir.BBOWriter, bbo); err != nil {
			return err
		}
	}
	if mpid != nil {
		if err := dir.WriteJSON("mpid_map.json.zst", mpid); err != nil {
			return err
		}
	}
	return nil
}

func writeSide(open func() (*store.RecordWriter, error), records []event.Record) error {
	w, err := open()
	if err != nil {
		return err
	}
	defer w.Close()
	for _, r := range records {
		if _, err := r.WriteTo(w); err != nil {
			return err
		}
	}
	return nil
}

// writeStat replays records into a book and an interval accumulator so the
// prepped directory also carries the market-stat blob (day summary plus
// final LOB level-5 snapshot) alongside the raw record streams.
func writeStat(dir store.Dir, records []event.Record, basis uint64) error {
	b := book.New()
	builder := stat.NewBuilder(0, intervalNanos)
	for _, r := range records {
		switch r.Type {
		case event.Add:
			b.Insert(book.Order{ID: book.OrderID(r.OrderID), Side: price.Side(r.Side),
				Price: price.P{Mantissa: r.Price, Basis: basis}, Qty: r.Qty, Time: r.Time, Info: r.Aux})
		case event.Delete:
			b.Remove(book.OrderID(r.OrderID))
		case event.Cancelled:
			b.Reduce(book.OrderID(r.OrderID), r.Qty)
		case event.Executed:
			b.Reduce(book.OrderID(r.OrderID), r.Qty)
		case event.ExecutedWithPrice:
			b.Reduce(book.OrderID(r.OrderID), r.Qty)
			builder.UpdateExecute(r.Time, price.P{Mantissa: r.Price, Basis: basis}, r.Qty)
		case event.Replace:
			b.Replace(book.OrderID(r.Aux), book.Order{ID: book.OrderID(r.OrderID), Side: price.Side(r.Side),
				Price: price.P{Mantissa: r.Price, Basis: basis}, Qty: r.Qty, Time: r.Time})
		}
	}
	blob := struct {
		Summary stat.DaySummary
		LOB     book.LevelSummary
	}{Summary: builder.Summary(), LOB: stat.LOBLevel5(b)}
	return dir.WriteJSON("stat.json.zst", blob)
}

type venue int

const (
	venueUnknown venue = iota
	venueITCH
	venueArca
)

func venueOf(path string) venue {
	lower := strings.ToLower(path)
	switch {
	case strings.Contains(lower, "itch"):
		return venueITCH
	case strings.Contains(lower, "arca"), strings.Contains(lower, "taq"):
		return venueArca
	default:
		return venueUnknown
	}
}

func stockNameOf(path string) string {
	base := path
	if i := strings.LastIndexByte(base, '/'); i >= 0 {
		base = base[i+1:]
	}
	return base
}
