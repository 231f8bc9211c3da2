// Package column reads and writes key column segments: a non-decreasing
// sequence of int32 keys stored as a snappy framed stream.
//
// The stream starts with a magic header, followed by the first key as a
// zigzag varint and every later key as the unsigned varint delta from its
// predecessor.
package column

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/golang/snappy"
)

// Magic opens every column segment.
const Magic = "FLCOL\x01"

var (
	// ErrBadMagic is returned when a stream does not start with Magic.
	ErrBadMagic = errors.New("not a key column segment")
	// ErrOutOfOrder is returned when a key is smaller than its predecessor.
	ErrOutOfOrder = errors.New("key column must be non-decreasing")
	// ErrCorrupt is returned for a delta that overflows the key range.
	ErrCorrupt = errors.New("corrupt key column")
)

var scratchPool = sync.Pool{
	New: func() any {
		b := make([]byte, binary.MaxVarintLen64)
		return &b
	},
}

// Writer encodes keys into a column segment.
type Writer struct {
	sw    *snappy.Writer
	last  int32
	count int
}

// NewWriter writes the segment header to w and returns a Writer. Close must
// be called to flush the final frame.
func NewWriter(w io.Writer) (*Writer, error) {
	sw := snappy.NewBufferedWriter(w)
	if _, err := io.WriteString(sw, Magic); err != nil {
		return nil, fmt.Errorf("write column header: %w", err)
	}
	return &Writer{sw: sw}, nil
}

// Write appends key. Keys must not decrease.
func (w *Writer) Write(key int32) error {
	bp := scratchPool.Get().(*[]byte)
	defer scratchPool.Put(bp)
	buf := *bp

	var n int
	if w.count == 0 {
		n = binary.PutVarint(buf, int64(key))
	} else {
		if key < w.last {
			return fmt.Errorf("key %d after %d: %w", key, w.last, ErrOutOfOrder)
		}
		n = binary.PutUvarint(buf, uint64(int64(key)-int64(w.last)))
	}
	if _, err := w.sw.Write(buf[:n]); err != nil {
		return fmt.Errorf("write key %d: %w", key, err)
	}
	w.last = key
	w.count++
	return nil
}

// Count returns the number of keys written.
func (w *Writer) Count() int {
	return w.count
}

// Close flushes buffered frames. It does not close the underlying writer.
func (w *Writer) Close() error {
	if err := w.sw.Close(); err != nil {
		return fmt.Errorf("flush column: %w", err)
	}
	return nil
}

// Reader decodes a column segment.
type Reader struct {
	br    *bufio.Reader
	last  int32
	count int
}

// NewReader checks the segment header and returns a Reader positioned at the
// first key.
func NewReader(r io.Reader) (*Reader, error) {
	br := bufio.NewReader(snappy.NewReader(r))
	header := make([]byte, len(Magic))
	if _, err := io.ReadFull(br, header); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrBadMagic
		}
		return nil, fmt.Errorf("read column header: %w", err)
	}
	if string(header) != Magic {
		return nil, ErrBadMagic
	}
	return &Reader{br: br}, nil
}

// Next returns the next key, or io.EOF after the last one.
func (r *Reader) Next() (int32, error) {
	if r.count == 0 {
		v, err := binary.ReadVarint(r.br)
		if err != nil {
			return 0, r.readErr(err)
		}
		if int64(int32(v)) != v {
			return 0, fmt.Errorf("first key %d: %w", v, ErrCorrupt)
		}
		r.last = int32(v)
		r.count++
		return r.last, nil
	}

	d, err := binary.ReadUvarint(r.br)
	if err != nil {
		return 0, r.readErr(err)
	}
	v := int64(r.last) + int64(d)
	if d > uint64(1<<32) || int64(int32(v)) != v {
		return 0, fmt.Errorf("delta %d after key %d: %w", d, r.last, ErrCorrupt)
	}
	r.last = int32(v)
	r.count++
	return r.last, nil
}

func (r *Reader) readErr(err error) error {
	if errors.Is(err, io.EOF) {
		return io.EOF
	}
	return fmt.Errorf("read key %d: %w", r.count, err)
}

// Inserter receives decoded keys.
type Inserter interface {
	Insert(key int32)
}

// Load decodes every key from r into dst and returns how many were loaded.
func Load(r io.Reader, dst Inserter) (int, error) {
	cr, err := NewReader(r)
	if err != nil {
		return 0, err
	}
	n := 0
	for {
		key, err := cr.Next()
		if errors.Is(err, io.EOF) {
			return n, nil
		}
		if err != nil {
			return n, err
		}
		dst.Insert(key)
		n++
	}
}
