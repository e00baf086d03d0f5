package persistence

import (
	"encoding/json"
	"fmt"

	"github.com/talgya/econwar/internal/clock"
	"github.com/talgya/econwar/internal/events"
)

// EventRecord is one row of the event log.
type EventRecord struct {
	SimTime float64 `db:"sim_time"`
	Kind    string  `db:"kind"`
	Payload string  `db:"payload"`
}

// NewEventRecord encodes e as published at simTime.
func NewEventRecord(simTime float64, e events.Event) (EventRecord, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return EventRecord{}, fmt.Errorf("encode %s: %w", e.Kind(), err)
	}
	return EventRecord{SimTime: simTime, Kind: e.Kind().String(), Payload: string(b)}, nil
}

// SaveEvents appends events to the database.
func (db *DB) SaveEvents(records []EventRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, r := range records {
		_, err := tx.Exec(
			"INSERT INTO events (sim_time, kind, payload) VALUES (?, ?, ?)",
			r.SimTime, r.Kind, r.Payload,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// RecentEvents returns the most recent N events, newest first.
func (db *DB) RecentEvents(limit int) ([]EventRecord, error) {
	var records []EventRecord
	err := db.conn.Select(&records,
		"SELECT sim_time, kind, payload FROM events ORDER BY id DESC LIMIT ?",
		limit,
	)
	return records, err
}

// EventBuffer collects bus events between saves.
type EventBuffer struct {
	bus     *events.Bus
	clock   clock.Clock
	sub     events.Subscription
	pending []EventRecord
	dropped int
}

// BufferEvents subscribes a buffer to every event on bus.
func BufferEvents(bus *events.Bus, clk clock.Clock) *EventBuffer {
	b := &EventBuffer{bus: bus, clock: clk}
	b.sub = bus.SubscribeAll(b.add)
	return b
}

func (b *EventBuffer) add(e events.Event) {
	r, err := NewEventRecord(b.clock.Now(), e)
	if err != nil {
		b.dropped++
		return
	}
	b.pending = append(b.pending, r)
}

// Len reports how many events await a flush.
func (b *EventBuffer) Len() int { return len(b.pending) }

// Dropped reports how many events could not be encoded.
func (b *EventBuffer) Dropped() int { return b.dropped }

// Flush writes pending events to db. They stay pending if the write fails.
func (b *EventBuffer) Flush(db *DB) error {
	if err := db.SaveEvents(b.pending); err != nil {
		return fmt.Errorf("save events: %w", err)
	}
	b.pending = b.pending[:0]
	return nil
}

// Close stops buffering.
func (b *EventBuffer) Close() {
	b.bus.Unsubscribe(b.sub)
}
