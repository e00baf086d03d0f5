// Package telemetry turns kernel events into OpenTelemetry metrics.
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/talgya/econwar/internal/events"
)

// ScopeName is the instrumentation scope of every instrument.
const ScopeName = "github.com/talgya/econwar"

// Metrics holds the instruments fed from the event bus.
type Metrics struct {
	events         metric.Int64Counter
	disruptions    metric.Int64Counter
	activeBlockade metric.Int64UpDownCounter
	investment     metric.Float64Counter
	returns        metric.Float64Counter
	severity       metric.Float64Histogram
	recovered      metric.Float64Counter
}

// New creates the instruments on meter, or on the global meter provider when
// meter is nil.
func New(meter metric.Meter) (*Metrics, error) {
	if meter == nil {
		meter = otel.Meter(ScopeName)
	}
	var (
		m   Metrics
		err error
	)
	if m.events, err = meter.Int64Counter("econwar.events.total",
		metric.WithDescription("Kernel events published"),
		metric.WithUnit("{event}"),
	); err != nil {
		return nil, fmt.Errorf("events counter: %w", err)
	}
	if m.disruptions, err = meter.Int64Counter("econwar.disruptions.total",
		metric.WithDescription("Route disruptions applied"),
		metric.WithUnit("{disruption}"),
	); err != nil {
		return nil, fmt.Errorf("disruptions counter: %w", err)
	}
	if m.activeBlockade, err = meter.Int64UpDownCounter("econwar.blockades.active",
		metric.WithDescription("Territorial blockades in force"),
		metric.WithUnit("{blockade}"),
	); err != nil {
		return nil, fmt.Errorf("blockades counter: %w", err)
	}
	if m.investment, err = meter.Float64Counter("econwar.actions.investment",
		metric.WithDescription("Resources invested in resolved warfare actions"),
	); err != nil {
		return nil, fmt.Errorf("investment counter: %w", err)
	}
	if m.returns, err = meter.Float64Counter("econwar.actions.return",
		metric.WithDescription("Actual return of resolved warfare actions"),
	); err != nil {
		return nil, fmt.Errorf("return counter: %w", err)
	}
	if m.severity, err = meter.Float64Histogram("econwar.retaliation.severity",
		metric.WithDescription("Severity of automatic and manual retaliation"),
		metric.WithExplicitBucketBoundaries(10, 100, 500, 1000, 5000, 10000, 50000),
	); err != nil {
		return nil, fmt.Errorf("severity histogram: %w", err)
	}
	if m.recovered, err = meter.Float64Counter("econwar.supply_chain.recovered",
		metric.WithDescription("Damage removed by reported recovery steps"),
	); err != nil {
		return nil, fmt.Errorf("recovered counter: %w", err)
	}
	return &m, nil
}

// Attach subscribes m to every event on bus.
func (m *Metrics) Attach(bus *events.Bus) events.Subscription {
	return bus.SubscribeAll(m.Observe)
}

// Observe records one event.
func (m *Metrics) Observe(e events.Event) {
	ctx := context.Background()
	m.events.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", e.Kind().String())))

	switch ev := e.(type) {
	case events.RouteDisrupted:
		m.disruptions.Add(ctx, 1, metric.WithAttributes(attribute.String("disruption_kind", ev.DisruptionKind.String())))
	case events.BlockadeEstablished:
		m.activeBlockade.Add(ctx, 1)
	case events.BlockadeRemoved:
		m.activeBlockade.Add(ctx, -1)
	case events.WarfareAction:
		attrs := metric.WithAttributes(attribute.String("action_kind", ev.ActionKind.String()))
		m.investment.Add(ctx, ev.InvestmentCost, attrs)
		m.returns.Add(ctx, ev.ActualReturn, attrs)
	case events.EconomicRetaliation:
		m.severity.Record(ctx, ev.Severity, metric.WithAttributes(attribute.String("category", ev.Category)))
	case events.SupplyChainEvent:
		if ev.Tag == events.TagSupplyChainRecovery {
			m.recovered.Add(ctx, ev.EconomicImpact)
		}
	}
}
