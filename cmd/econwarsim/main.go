// Command econwarsim runs the economic warfare kernel headless against
// generated influence and convoy oracles.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/talgya/econwar/internal/clock"
	"github.com/talgya/econwar/internal/config"
	"github.com/talgya/econwar/internal/economy"
	"github.com/talgya/econwar/internal/engine"
	"github.com/talgya/econwar/internal/entropy"
	"github.com/talgya/econwar/internal/events"
	"github.com/talgya/econwar/internal/journal"
	"github.com/talgya/econwar/internal/oracle"
	"github.com/talgya/econwar/internal/persistence"
	"github.com/talgya/econwar/internal/telemetry"
	"github.com/talgya/econwar/internal/warfare"
)

const (
	routeCount     = 12
	territoryCount = 24
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	slog.Info("econwarsim: economic warfare kernel")

	// ── Configuration ─────────────────────────────────────────────────
	cfg := config.Default()
	if path := os.Getenv("ECONWAR_CONFIG"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			slog.Error("failed to load config", "error", err)
			os.Exit(1)
		}
		cfg = loaded
		slog.Info("config loaded", "path", path)
	}
	cfg.DBPath = envOrDefault("ECONWAR_DB", cfg.DBPath)
	cfg.Seed = envInt64OrDefault("ECONWAR_SEED", cfg.Seed)

	// ── Database ──────────────────────────────────────────────────────
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		slog.Error("failed to create data dir", "error", err)
		os.Exit(1)
	}
	db, err := persistence.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database opened", "path", cfg.DBPath)

	// ── Oracles (deterministic from seed) ─────────────────────────────
	rng := rand.New(rand.NewSource(cfg.Seed + 100))
	traffic := make(map[economy.RouteID]float64, routeCount)
	for i := 1; i <= routeCount; i++ {
		traffic[economy.RouteID(fmt.Sprintf("route-%02d", i))] = float64(rng.Intn(40))
	}
	convoys := oracle.NewStaticConvoy(traffic)
	influence := oracle.NewNoiseInfluence(cfg.Seed)
	influence.Drift = 1.0 / engine.SimSecondsPerDay

	// ── Telemetry ─────────────────────────────────────────────────────
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)
	defer provider.Shutdown(context.Background())

	metrics, err := telemetry.New(nil)
	if err != nil {
		slog.Error("failed to create metrics", "error", err)
		os.Exit(1)
	}

	// ── Kernel ────────────────────────────────────────────────────────
	clk := clock.NewManual(0)
	bus := events.NewBus()
	sub := warfare.New(clk, entropy.NewSeeded(cfg.Seed),
		warfare.WithBus(bus),
		warfare.WithInfluence(influence),
		warfare.WithConvoys(convoys),
	)
	if err := sub.Initialize(cfg.Warfare); err != nil {
		slog.Error("invalid warfare config", "error", err)
		os.Exit(1)
	}

	if db.HasState() {
		slog.Info("found saved warfare state, loading...")
		st, err := db.LoadState()
		if err != nil {
			slog.Error("failed to load state", "error", err)
			os.Exit(1)
		}
		clk.Set(st.Time)
		influence.Advance(st.Time)
		if err := sub.Restore(st); err != nil {
			slog.Error("failed to restore state", "error", err)
			os.Exit(1)
		}
		slog.Info("warfare state restored", "sim_time", engine.SimTime(st.Time))
	}

	// Subscribers attach after Initialize/Restore so they see only live events.
	metrics.Attach(bus)
	jrnl := journal.Open(cfg.JournalDir, bus, clk)
	eventLog := persistence.BufferEvents(bus, clk)

	save := func(reason string) {
		if err := db.SaveState(sub.Snapshot()); err != nil {
			slog.Error("save failed", "reason", reason, "error", err)
			return
		}
		if err := eventLog.Flush(db); err != nil {
			slog.Error("event log flush failed", "reason", reason, "error", err)
		}
	}

	// ── Engine ────────────────────────────────────────────────────────
	rivalry := engine.NewRivalry(sub, entropy.NewSeeded(cfg.Seed+1), convoys.Routes, territoryCount)

	eng := engine.NewEngine(clk, sub)
	eng.Interval = time.Duration(cfg.TickIntervalMs) * time.Millisecond
	eng.SimSecondsPerTick = cfg.SimSecondsPerTick

	lastSave := clk.Now()
	eng.OnTick = func(_ uint64, now float64) {
		influence.Advance(cfg.SimSecondsPerTick)
		rivalry.Step()
		if cfg.AutosaveEverySimSeconds > 0 && now-lastSave >= cfg.AutosaveEverySimSeconds {
			save("autosave")
			lastSave = now
		}
	}
	eng.OnHour = func(_ uint64, now float64) {
		engine.LogReport(slog.Default(), sub, now)
	}
	eng.OnDay = func(_ uint64, _ float64) {
		rivalry.Decay(engine.SimSecondsPerDay)
		logMetrics(reader)
	}

	// ── Start ─────────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Printf("\nEconomic warfare running: %d factions, %d routes, %d territories.\n",
		len(sub.Factions()), routeCount, territoryCount)
	if clk.Now() > 0 {
		fmt.Printf("Resuming at %s\n", engine.SimTime(clk.Now()))
	}
	fmt.Println("Starting simulation... (Ctrl+C to stop)")

	if err := eng.Run(ctx); err != nil {
		slog.Error("engine stopped with error", "error", err)
	}

	// Final save on shutdown.
	slog.Info("final save...")
	eng.Do(func() { save("shutdown") })
	eventLog.Close()
	if err := jrnl.Close(); err != nil {
		slog.Error("journal close failed", "error", err)
	}
	logMetrics(reader)

	fmt.Println("Simulation stopped. Warfare state saved.")
}

func logMetrics(reader *sdkmetric.ManualReader) {
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		slog.Warn("metrics collect failed", "error", err)
		return
	}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				var total int64
				for _, dp := range data.DataPoints {
					total += dp.Value
				}
				slog.Info("metric", "name", m.Name, "value", total)
			case metricdata.Sum[float64]:
				var total float64
				for _, dp := range data.DataPoints {
					total += dp.Value
				}
				slog.Info("metric", "name", m.Name, "value", fmt.Sprintf("%.2f", total))
			}
		}
	}
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt64OrDefault(key string, defaultVal int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return defaultVal
}
