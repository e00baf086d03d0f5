// Package journal records every kernel event as compressed JSON lines.
package journal

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// segment is the open file for one simulated hour.
type segment struct {
	hour int64
	f    *os.File
	enc  *zstd.Encoder
	buf  *bufio.Writer
}

func (s *segment) close() error {
	return errors.Join(s.buf.Flush(), s.enc.Close(), s.f.Close())
}

// HourlyWriter appends JSON lines to zstd-compressed segments, one segment
// per simulated hour. Reopening an hour appends a new zstd frame.
type HourlyWriter struct {
	dir    string
	prefix string

	mu  sync.Mutex
	cur *segment
}

// NewHourlyWriter writes segments under dir. Nothing is created until the
// first Append.
func NewHourlyWriter(dir, prefix string) *HourlyWriter {
	return &HourlyWriter{dir: dir, prefix: prefix}
}

// Path names the segment holding simulated hour.
func (w *HourlyWriter) Path(hour int64) string {
	return filepath.Join(w.dir, fmt.Sprintf("%s-h%06d.jsonl.zst", w.prefix, hour))
}

// Append writes v as one line to the segment for simTime and flushes it.
func (w *HourlyWriter) Append(simTime float64, v any) error {
	line, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	hour := int64(simTime / 3600)
	if w.cur == nil || w.cur.hour != hour {
		if err := w.switchTo(hour); err != nil {
			return err
		}
	}
	buf := w.cur.buf
	if _, err := buf.Write(append(line, '\n')); err != nil {
		return err
	}
	return buf.Flush()
}

// Close finishes the open segment, if any.
func (w *HourlyWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.release()
}

func (w *HourlyWriter) release() error {
	if w.cur == nil {
		return nil
	}
	err := w.cur.close()
	w.cur = nil
	return err
}

func (w *HourlyWriter) switchTo(hour int64) error {
	if err := w.release(); err != nil {
		return fmt.Errorf("close segment: %w", err)
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(w.Path(hour), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		f.Close()
		return err
	}
	w.cur = &segment{hour: hour, f: f, enc: enc, buf: bufio.NewWriterSize(enc, 64*1024)}
	return nil
}
