// Package warfare is the economic-warfare simulation kernel: route disruption,
// territorial blockades, specialized economic actions with stochastic outcomes,
// automatic retaliation, damage recovery and alliance bookkeeping.
//
// The kernel is single-threaded. Every command and Tick runs to completion on
// the caller's goroutine; hosts that need concurrency must serialize access.
package warfare

import (
	"fmt"

	"github.com/talgya/econwar/internal/economy"
	"github.com/talgya/econwar/internal/social"
)

// Config holds the tunables of the kernel.
type Config struct {
	BlockadeInfluenceThreshold     float64 `yaml:"blockade_influence_threshold" json:"blockade_influence_threshold"`
	MaxBlockadeTaxRate             float64 `yaml:"max_blockade_tax_rate" json:"max_blockade_tax_rate"`
	DisruptionImpactMultiplier     float64 `yaml:"disruption_impact_multiplier" json:"disruption_impact_multiplier"`
	RetaliationThreshold           float64 `yaml:"retaliation_threshold" json:"retaliation_threshold"`
	EnableEconomicRetaliation      bool    `yaml:"enable_economic_retaliation" json:"enable_economic_retaliation"`
	SupplyChainRecoveryRate        float64 `yaml:"supply_chain_recovery_rate" json:"supply_chain_recovery_rate"`
	AllianceBenefitBaseMultiplier  float64 `yaml:"alliance_benefit_base_multiplier" json:"alliance_benefit_base_multiplier"`
	AllianceBreakPenaltyMultiplier float64 `yaml:"alliance_break_penalty_multiplier" json:"alliance_break_penalty_multiplier"`

	// Scheduler cadence, simulated seconds.
	PowerUpdateInterval float64 `yaml:"power_update_interval" json:"power_update_interval"`
	RecoveryInterval    float64 `yaml:"recovery_interval" json:"recovery_interval"`

	// Placeholder convoy throughput used for blockade revenue.
	BlockadeRevenuePerSecond float64 `yaml:"blockade_revenue_per_second" json:"blockade_revenue_per_second"`
	// Recovery amounts at or below this are applied silently.
	RecoveryEventThreshold float64 `yaml:"recovery_event_threshold" json:"recovery_event_threshold"`
	// Nesting limit for automatic retaliation.
	MaxRetaliationDepth int `yaml:"max_retaliation_depth" json:"max_retaliation_depth"`

	DefaultSpecializations map[social.FactionID]economy.SpecialtyKind `yaml:"default_specializations" json:"default_specializations"`
}

// DefaultConfig returns the canonical configuration.
func DefaultConfig() Config {
	return Config{
		BlockadeInfluenceThreshold:     0.75,
		MaxBlockadeTaxRate:             0.25,
		DisruptionImpactMultiplier:     1.5,
		RetaliationThreshold:           0.1,
		EnableEconomicRetaliation:      true,
		SupplyChainRecoveryRate:        0.05,
		AllianceBenefitBaseMultiplier:  1.2,
		AllianceBreakPenaltyMultiplier: 0.7,
		PowerUpdateInterval:            30,
		RecoveryInterval:               60,
		BlockadeRevenuePerSecond:       10.0,
		RecoveryEventThreshold:         10,
		MaxRetaliationDepth:            1,
		DefaultSpecializations: map[social.FactionID]economy.SpecialtyKind{
			1: economy.CorporateLogistics,
			2: economy.ScrapEconomics,
			3: economy.GuerrillaDisruption,
			4: economy.MarketManipulationSpecialty,
			5: economy.MobileTradeNetworks,
			6: economy.InformationEconomy,
			7: economy.CommunityLogistics,
		},
	}
}

// Validate reports the first out-of-range setting.
func (c Config) Validate() error {
	switch {
	case c.BlockadeInfluenceThreshold < 0 || c.BlockadeInfluenceThreshold > 1:
		return fmt.Errorf("blockade_influence_threshold %v outside [0,1]", c.BlockadeInfluenceThreshold)
	case c.MaxBlockadeTaxRate < 0 || c.MaxBlockadeTaxRate > 1:
		return fmt.Errorf("max_blockade_tax_rate %v outside [0,1]", c.MaxBlockadeTaxRate)
	case c.DisruptionImpactMultiplier < 0:
		return fmt.Errorf("disruption_impact_multiplier %v is negative", c.DisruptionImpactMultiplier)
	case c.RetaliationThreshold < 0:
		return fmt.Errorf("retaliation_threshold %v is negative", c.RetaliationThreshold)
	case c.SupplyChainRecoveryRate < 0:
		return fmt.Errorf("supply_chain_recovery_rate %v is negative", c.SupplyChainRecoveryRate)
	case c.AllianceBenefitBaseMultiplier <= 0 || c.AllianceBreakPenaltyMultiplier <= 0:
		return fmt.Errorf("alliance multipliers must be positive")
	case c.PowerUpdateInterval <= 0 || c.RecoveryInterval <= 0:
		return fmt.Errorf("scheduler intervals must be positive")
	case c.BlockadeRevenuePerSecond < 0:
		return fmt.Errorf("blockade_revenue_per_second %v is negative", c.BlockadeRevenuePerSecond)
	case c.MaxRetaliationDepth < 0:
		return fmt.Errorf("max_retaliation_depth %d is negative", c.MaxRetaliationDepth)
	}
	for f, s := range c.DefaultSpecializations {
		if !f.Valid() {
			return fmt.Errorf("default specialization for invalid faction %d", int(f))
		}
		if !s.Valid() {
			return fmt.Errorf("faction %d: unknown specialty %d", int(f), uint8(s))
		}
	}
	return nil
}
