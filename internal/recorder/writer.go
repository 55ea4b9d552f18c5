package recorder

import (
	"bufio"
	"encoding/binary"
	"os"
	"path/filepath"

	"github.com/yanun0323/errors"
)

const (
	defaultBufferSize = 256 * 1024
	maxPayloadLen     = int(^uint32(0) >> 1)
)

var (
	ErrWriterClosed    = errors.New("history writer closed")
	ErrPayloadTooLarge = errors.New("history payload too large")
)

// Writer appends records to a single history file. History segments
// are written once and never appended to afterwards, so the writer is
// synchronous and syncs once on Close.
type Writer struct {
	f         *os.File
	w         *bufio.Writer
	seq       uint64
	headerBuf [recordHeaderSize]byte
	closed    bool
}

// NewWriter creates the target file, making parent directories as
// needed. An existing file is truncated.
func NewWriter(path string) (*Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(err, "create history dir")
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrap(err, "create history file")
	}
	return &Writer{f: f, w: bufio.NewWriterSize(f, defaultBufferSize)}, nil
}

// Append writes one record. Sequence numbers are assigned in append
// order.
func (w *Writer) Append(kind RecordKind, ts int64, payload []byte) error {
	if w.closed {
		return ErrWriterClosed
	}
	if len(payload) > maxPayloadLen {
		return ErrPayloadTooLarge
	}

	w.seq++
	encodeHeader(w.headerBuf[:], Header{Kind: kind, Seq: w.seq, Ts: ts}, len(payload))
	if _, err := w.w.Write(w.headerBuf[:]); err != nil {
		return errors.Wrap(err, "write record header")
	}
	if _, err := w.w.Write(payload); err != nil {
		return errors.Wrap(err, "write record payload")
	}

	var crcBuf [recordChecksumSize]byte
	binary.LittleEndian.PutUint32(crcBuf[:], checksum(w.headerBuf[:], payload))
	if _, err := w.w.Write(crcBuf[:]); err != nil {
		return errors.Wrap(err, "write record checksum")
	}
	return nil
}

// Count returns the number of records appended so far.
func (w *Writer) Count() uint64 { return w.seq }

// Close flushes buffered data and syncs the file.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	if err := w.w.Flush(); err != nil {
		w.f.Close()
		return errors.Wrap(err, "flush history file")
	}
	if err := w.f.Sync(); err != nil {
		w.f.Close()
		return errors.Wrap(err, "sync history file")
	}
	return w.f.Close()
}
