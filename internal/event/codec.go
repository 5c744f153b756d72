package event

import (
	"encoding/binary"
	"fmt"
	"io"
)

// RecordSize is the byte width of one encoded record: nine little-endian
// u64 fields. The wire format is pinned to little-endian regardless of
// host byte order so .bin.zst files are portable across machines — the
// original writer used native endianness, which spec.md calls out as a
// portability defect to fix rather than reproduce.
const RecordSize = NumFields * 8

// Encode writes r into buf, which must be at least RecordSize bytes.
func (r Record) Encode(buf []byte) {
	f := r.fields()
	for i, v := range f {
		binary.LittleEndian.PutUint64(buf[i*8:], v)
	}
}

// Decode reads one record from buf, which must be at least RecordSize
// bytes.
func Decode(buf []byte) (Record, error) {
	if len(buf) < RecordSize {
		return Record{}, fmt.Errorf("event: short record, got %d bytes want %d", len(buf), RecordSize)
	}
	var f [NumFields]uint64
	for i := range f {
		f[i] = binary.LittleEndian.Uint64(buf[i*8:])
	}
	return fromFields(f), nil
}

// WriteTo encodes r and writes it to w.
func (r Record) WriteTo(w io.Writer) (int64, error) {
	var buf [RecordSize]byte
	r.Encode(buf[:])
	n, err := w.Write(buf[:])
	return int64(n), err
}

// ReadRecord reads exactly one record from r.
func ReadRecord(r io.Reader) (Record, error) {
	var buf [RecordSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return Record{}, err
	}
	return Decode(buf[:])
}
