package engine

import (
	"log/slog"
	"math"

	"github.com/dustin/go-humanize"

	"github.com/talgya/econwar/internal/social"
	"github.com/talgya/econwar/internal/warfare"
)

// LogReport writes an economic summary of sub: one line for the world and
// one per faction.
func LogReport(log *slog.Logger, sub *warfare.Subsystem, simTime float64) {
	blockades := sub.GetActiveTerritorialBlockades()
	revenue := 0.0
	for _, b := range blockades {
		revenue += b.TotalRevenue
	}
	log.Info("economic report",
		"sim_time", SimTime(simTime),
		"disrupted_routes", len(sub.DisruptedRoutes()),
		"blockades", len(blockades),
		"blockade_revenue", amount(revenue),
	)

	for _, rec := range sub.LedgerRecords() {
		f := rec.Faction
		log.Info("faction economy",
			"faction", social.FactionName(f),
			"power", amount(rec.EconomicPower),
			"damage_dealt", amount(rec.DamageDealt),
			"damage_received", amount(rec.DamageReceived),
			"efficiency", humanize.FtoaWithDigits(sub.CalculateSupplyChainEfficiency(f), 3),
			"allies", len(sub.GetEconomicAllies(f)),
		)
	}
}

// amount formats a resource quantity with thousands separators.
func amount(v float64) string {
	return humanize.Commaf(math.Round(v*100) / 100)
}
