// Package persistence provides SQLite storage for kernel snapshots and the
// event log.
package persistence

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/econwar/internal/economy"
	"github.com/talgya/econwar/internal/social"
	"github.com/talgya/econwar/internal/warfare"
)

// Meta keys written by SaveState.
const (
	MetaSimTime         = "sim_time"
	MetaLastPowerUpdate = "last_power_update"
	MetaLastRecovery    = "last_recovery"
)

// DB wraps a SQLite connection for kernel state persistence.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Wrap uses an existing connection whose schema is already in place.
func Wrap(conn *sqlx.DB) *DB {
	return &DB{conn: conn}
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS ledger (
		faction INTEGER PRIMARY KEY,
		economic_power REAL NOT NULL,
		damage_dealt REAL NOT NULL,
		damage_received REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS specializations (
		faction INTEGER PRIMARY KEY,
		specialty TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS disruptions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		route TEXT NOT NULL,
		kind TEXT NOT NULL,
		start_time REAL NOT NULL,
		duration_minutes REAL NOT NULL,
		severity_mult REAL NOT NULL,
		responsible_faction INTEGER NOT NULL,
		economic_impact REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS blockades (
		territory INTEGER PRIMARY KEY,
		blockading_faction INTEGER NOT NULL,
		tax_rate REAL NOT NULL,
		established_time REAL NOT NULL,
		total_revenue REAL NOT NULL,
		convoys_affected INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS alliances (
		faction_a INTEGER NOT NULL,
		faction_b INTEGER NOT NULL,
		multiplier REAL NOT NULL,
		PRIMARY KEY (faction_a, faction_b)
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sim_time REAL NOT NULL,
		kind TEXT NOT NULL,
		payload TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS world_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_sim_time ON events(sim_time);
	CREATE INDEX IF NOT EXISTS idx_disruptions_route ON disruptions(route);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveState writes a kernel snapshot (full replace) in one transaction.
func (db *DB) SaveState(st warfare.State) error {
	slog.Info("saving warfare state",
		"factions", len(st.Ledger),
		"disruptions", len(st.Disruptions),
		"blockades", len(st.Blockades),
		"alliances", len(st.Alliances),
	)

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"ledger", "specializations", "disruptions", "blockades", "alliances"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for _, r := range st.Ledger {
		_, err := tx.Exec(`INSERT INTO ledger
			(faction, economic_power, damage_dealt, damage_received)
			VALUES (?, ?, ?, ?)`,
			int(r.Faction), r.EconomicPower, r.DamageDealt, r.DamageReceived,
		)
		if err != nil {
			return fmt.Errorf("insert ledger %d: %w", r.Faction, err)
		}
	}

	for _, s := range st.Specializations {
		if !s.Assigned {
			continue
		}
		_, err := tx.Exec("INSERT INTO specializations (faction, specialty) VALUES (?, ?)",
			int(s.Faction), s.Specialty.String())
		if err != nil {
			return fmt.Errorf("insert specialization %d: %w", s.Faction, err)
		}
	}

	for _, d := range st.Disruptions {
		_, err := tx.Exec(`INSERT INTO disruptions
			(route, kind, start_time, duration_minutes, severity_mult, responsible_faction, economic_impact)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			string(d.Route), d.Kind.String(), d.StartTime, d.DurationMinutes,
			d.SeverityMult, int(d.ResponsibleFaction), d.EconomicImpact,
		)
		if err != nil {
			return fmt.Errorf("insert disruption on %s: %w", d.Route, err)
		}
	}

	for _, b := range st.Blockades {
		_, err := tx.Exec(`INSERT INTO blockades
			(territory, blockading_faction, tax_rate, established_time, total_revenue, convoys_affected)
			VALUES (?, ?, ?, ?, ?, ?)`,
			int(b.Territory), int(b.BlockadingFaction), b.TaxRate,
			b.EstablishedTime, b.TotalRevenue, b.ConvoysAffected,
		)
		if err != nil {
			return fmt.Errorf("insert blockade %d: %w", b.Territory, err)
		}
	}

	for _, a := range st.Alliances {
		_, err := tx.Exec("INSERT INTO alliances (faction_a, faction_b, multiplier) VALUES (?, ?, ?)",
			int(a.A), int(a.B), a.Multiplier)
		if err != nil {
			return fmt.Errorf("insert alliance %d-%d: %w", a.A, a.B, err)
		}
	}

	meta := []struct {
		key string
		val float64
	}{
		{MetaSimTime, st.Time},
		{MetaLastPowerUpdate, st.LastPowerUpdate},
		{MetaLastRecovery, st.LastRecovery},
	}
	for _, m := range meta {
		if _, err := tx.Exec("INSERT OR REPLACE INTO world_meta (key, value) VALUES (?, ?)",
			m.key, strconv.FormatFloat(m.val, 'g', -1, 64)); err != nil {
			return fmt.Errorf("save meta %s: %w", m.key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	slog.Info("warfare state saved", "sim_time", st.Time)
	return nil
}

// HasState reports whether a snapshot has been saved.
func (db *DB) HasState() bool {
	_, err := db.GetMeta(MetaSimTime)
	return err == nil
}

type specializationRow struct {
	Faction   int    `db:"faction"`
	Specialty string `db:"specialty"`
}

type disruptionRow struct {
	Route              string  `db:"route"`
	Kind               string  `db:"kind"`
	StartTime          float64 `db:"start_time"`
	DurationMinutes    float64 `db:"duration_minutes"`
	SeverityMult       float64 `db:"severity_mult"`
	ResponsibleFaction int     `db:"responsible_faction"`
	EconomicImpact     float64 `db:"economic_impact"`
}

// LoadState reads the saved snapshot. Disruptions keep their insertion order.
func (db *DB) LoadState() (warfare.State, error) {
	var st warfare.State

	for key, dst := range map[string]*float64{
		MetaSimTime:         &st.Time,
		MetaLastPowerUpdate: &st.LastPowerUpdate,
		MetaLastRecovery:    &st.LastRecovery,
	} {
		v, err := db.metaFloat(key)
		if err != nil {
			return st, fmt.Errorf("load meta %s: %w", key, err)
		}
		*dst = v
	}

	if err := db.conn.Select(&st.Ledger,
		"SELECT faction, economic_power, damage_dealt, damage_received FROM ledger ORDER BY faction"); err != nil {
		return st, fmt.Errorf("load ledger: %w", err)
	}

	var specs []specializationRow
	if err := db.conn.Select(&specs, "SELECT faction, specialty FROM specializations ORDER BY faction"); err != nil {
		return st, fmt.Errorf("load specializations: %w", err)
	}
	for _, r := range specs {
		kind, err := economy.ParseSpecialty(r.Specialty)
		if err != nil {
			return st, fmt.Errorf("specialization %d: %w", r.Faction, err)
		}
		st.Specializations = append(st.Specializations, warfare.Specialization{
			Faction:   social.FactionID(r.Faction),
			Specialty: kind,
			Assigned:  true,
		})
	}

	var dis []disruptionRow
	if err := db.conn.Select(&dis, `SELECT route, kind, start_time, duration_minutes,
		severity_mult, responsible_faction, economic_impact FROM disruptions ORDER BY id`); err != nil {
		return st, fmt.Errorf("load disruptions: %w", err)
	}
	for _, r := range dis {
		kind, err := economy.ParseDisruptionKind(r.Kind)
		if err != nil {
			return st, fmt.Errorf("disruption on %s: %w", r.Route, err)
		}
		st.Disruptions = append(st.Disruptions, warfare.RouteDisruption{
			Route: economy.RouteID(r.Route),
			Disruption: warfare.Disruption{
				Kind:               kind,
				StartTime:          r.StartTime,
				DurationMinutes:    r.DurationMinutes,
				SeverityMult:       r.SeverityMult,
				ResponsibleFaction: social.FactionID(r.ResponsibleFaction),
				EconomicImpact:     r.EconomicImpact,
				Permanent:          kind.Permanent(),
			},
		})
	}

	if err := db.conn.Select(&st.Blockades, `SELECT territory, blockading_faction, tax_rate,
		established_time, total_revenue, convoys_affected FROM blockades ORDER BY territory`); err != nil {
		return st, fmt.Errorf("load blockades: %w", err)
	}

	if err := db.conn.Select(&st.Alliances,
		"SELECT faction_a, faction_b, multiplier FROM alliances ORDER BY faction_a, faction_b"); err != nil {
		return st, fmt.Errorf("load alliances: %w", err)
	}

	return st, nil
}

// SaveMeta stores a key-value pair in world metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO world_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM world_meta WHERE key = ?", key)
	return value, err
}

func (db *DB) metaFloat(key string) (float64, error) {
	s, err := db.GetMeta(key)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.ParseFloat(s, 64)
}
