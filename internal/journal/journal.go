package journal

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"

	"github.com/talgya/econwar/internal/clock"
	"github.com/talgya/econwar/internal/events"
)

// Entry is one journaled event.
type Entry struct {
	ID      uuid.UUID       `json:"id"`
	Seq     uint64          `json:"seq"`
	SimTime float64         `json:"sim_time"`
	Kind    string          `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}

// Journal writes every event published on a bus.
type Journal struct {
	w     *HourlyWriter
	clock clock.Clock
	log   *slog.Logger
	sub   events.Subscription
	bus   *events.Bus
	seq   uint64
	fails int
}

// Open subscribes a journal writing under dir to bus.
func Open(dir string, bus *events.Bus, clk clock.Clock) *Journal {
	j := &Journal{
		w:     NewHourlyWriter(dir, "events"),
		clock: clk,
		log:   slog.Default().With("component", "journal"),
		bus:   bus,
	}
	j.sub = bus.SubscribeAll(j.record)
	return j
}

func (j *Journal) record(e events.Event) {
	payload, err := json.Marshal(e)
	if err != nil {
		j.fail(err, e)
		return
	}
	j.seq++
	entry := Entry{
		ID:      uuid.New(),
		Seq:     j.seq,
		SimTime: j.clock.Now(),
		Kind:    e.Kind().String(),
		Payload: payload,
	}
	if err := j.w.Append(entry.SimTime, entry); err != nil {
		j.fail(err, e)
	}
}

func (j *Journal) fail(err error, e events.Event) {
	j.fails++
	j.log.Error("journal write failed", "kind", e.Kind().String(), "error", err)
}

// Written reports how many entries were journaled.
func (j *Journal) Written() uint64 { return j.seq }

// Failures reports how many events could not be journaled.
func (j *Journal) Failures() int { return j.fails }

// Close unsubscribes and finishes the current file.
func (j *Journal) Close() error {
	j.bus.Unsubscribe(j.sub)
	if err := j.w.Close(); err != nil {
		return fmt.Errorf("close journal: %w", err)
	}
	return nil
}

// ReadFile decodes every entry in a journal file.
func ReadFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("zstd reader: %w", err)
	}
	defer dec.Close()

	var out []Entry
	r := bufio.NewReader(dec)
	for {
		line, err := r.ReadBytes('\n')
		if len(line) > 0 {
			var e Entry
			if jerr := json.Unmarshal(line, &e); jerr != nil {
				return out, fmt.Errorf("entry %d: %w", len(out)+1, jerr)
			}
			out = append(out, e)
		}
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
	}
}
