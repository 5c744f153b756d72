// Package store implements the on-disk layout spec.md §6 describes: one
// output directory per input file, zstd-compressed record/side-channel
// files, and a .done sentinel marking a file as already processed.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// Dir is one file's output directory: <out-dir>/<input-file-stem>/.
type Dir struct {
	Path string
}

// ForInput derives the output directory for an input path, stripping the
// venue file's own double extension (e.g. "20230101.NASDAQ_ITCH50.gz" ->
// "20230101").
func ForInput(inputPath, outDir string) (Dir, error) {
	base := filepath.Base(inputPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.TrimSuffix(base, filepath.Ext(base))
	dir := filepath.Join(outDir, base)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Dir{}, fmt.Errorf("store: create output dir: %w", err)
	}
	return Dir{Path: dir}, nil
}

// Done reports whether this directory already holds a .done sentinel —
// the input file has already been fully processed.
func (d Dir) Done() bool {
	_, err := os.Stat(filepath.Join(d.Path, ".done"))
	return err == nil
}

// MarkDone writes the .done sentinel.
func (d Dir) MarkDone() error {
	return os.WriteFile(filepath.Join(d.Path, ".done"), nil, 0o644)
}

func (d Dir) path(suffix string) string {
	return filepath.Join(d.Path, suffix)
}

// RecordWriter zstd-compresses a stream of fixed-width records to one of
// the named side files (records, NOII, BBO).
type RecordWriter struct {
	f   *os.File
	enc *zstd.Encoder
}

func newRecordWriter(path string) (*RecordWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("store: create %s: %w", path, err)
	}
	enc, err := zstd.NewWriter(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("store: zstd writer: %w", err)
	}
	return &RecordWriter{f: f, enc: enc}, nil
}

// RecordsWriter opens "<dir>/records.bin.zst".
func (d Dir) RecordsWriter() (*RecordWriter, error) {
	return newRecordWriter(d.path("records.bin.zst"))
}

// NOIIWriter opens "<dir>/records.noii.bin.zst".
func (d Dir) NOIIWriter() (*RecordWriter, error) {
	return newRecordWriter(d.path("records.noii.bin.zst"))
}

// BBOWriter opens "<dir>/records.bbo.bin.zst".
func (d Dir) BBOWriter() (*RecordWriter, error) {
	return newRecordWriter(d.path("records.bbo.bin.zst"))
}

// Write writes raw bytes (already-encoded records) to the underlying
// zstd stream.
func (w *RecordWriter) Write(p []byte) (int, error) {
	return w.enc.Write(p)
}

// Close flushes and closes the writer.
func (w *RecordWriter) Close() error {
	if err := w.enc.Close(); err != nil {
		w.f.Close()
		return err
	}
	return w.f.Close()
}

// WriteJSON zstd-compresses v as JSON to name within d — used for the
// mpid compact-code map and the market-stat blob.
func (d Dir) WriteJSON(name string, v interface{}) error {
	f, err := os.Create(d.path(name))
	if err != nil {
		return fmt.Errorf("store: create %s: %w", name, err)
	}
	defer f.Close()
	enc, err := zstd.NewWriter(f)
	if err != nil {
		return fmt.Errorf("store: zstd writer: %w", err)
	}
	defer enc.Close()
	return json.NewEncoder(enc).Encode(v)
}

// ReadJSON decompresses and decodes name within d into v.
func (d Dir) ReadJSON(name string, v interface{}) error {
	f, err := os.Open(d.path(name))
	if err != nil {
		return fmt.Errorf("store: open %s: %w", name, err)
	}
	defer f.Close()
	dec, err := zstd.NewReader(f)
	if err != nil {
		return fmt.Errorf("store: zstd reader: %w", err)
	}
	defer dec.Close()
	return json.NewDecoder(dec).Decode(v)
}

// OpenRecordReader opens a zstd-compressed fixed-width record stream for
// reading.
func OpenRecordReader(path string) (*zstd.Decoder, *os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	dec, err := zstd.NewReader(f)
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("store: zstd reader: %w", err)
	}
	return dec, f, nil
}
