// Package events provides the typed, synchronous publish/subscribe bus the
// warfare kernel reports every observable state change through.
package events

import (
	"fmt"

	"github.com/talgya/econwar/internal/economy"
	"github.com/talgya/econwar/internal/social"
)

// Kind identifies one of the six event payloads.
type Kind uint8

const (
	KindRouteDisrupted Kind = iota + 1
	KindBlockadeEstablished
	KindBlockadeRemoved
	KindWarfareAction
	KindSupplyChain
	KindEconomicRetaliation
)

var kindNames = map[Kind]string{
	KindRouteDisrupted:      "route_disrupted",
	KindBlockadeEstablished: "blockade_established",
	KindBlockadeRemoved:     "blockade_removed",
	KindWarfareAction:       "warfare_action",
	KindSupplyChain:         "supply_chain",
	KindEconomicRetaliation: "economic_retaliation",
}

// Kinds lists all event kinds.
func Kinds() []Kind {
	return []Kind{
		KindRouteDisrupted, KindBlockadeEstablished, KindBlockadeRemoved,
		KindWarfareAction, KindSupplyChain, KindEconomicRetaliation,
	}
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Event is implemented by every payload type.
type Event interface {
	Kind() Kind
}

// Supply-chain event tags.
const (
	TagRouteRepaired               = "RouteRepaired"
	TagSupplyChainRecovery         = "SupplyChainRecovery"
	TagEconomicAllianceEstablished = "EconomicAllianceEstablished"
	TagEconomicAllianceBroken      = "EconomicAllianceBroken"
)

// Retaliation categories.
const (
	CategoryMajor = "Major"
	CategoryMinor = "Minor"
)

// MajorRetaliationSeverity is the severity above which a retaliation is Major.
const MajorRetaliationSeverity = 1000.0

// RouteDisrupted is published when a disruption is added to a route.
type RouteDisrupted struct {
	RouteID            economy.RouteID        `json:"route_id"`
	DisruptionKind     economy.DisruptionKind `json:"disruption_kind"`
	ResponsibleFaction social.FactionID       `json:"responsible_faction"`
	DurationMinutes    float64                `json:"duration_minutes"`
}

// BlockadeEstablished is published when a territory comes under blockade.
type BlockadeEstablished struct {
	TerritoryID social.TerritoryID `json:"territory_id"`
	Faction     social.FactionID   `json:"faction"`
	TaxRate     float64            `json:"tax_rate"`
}

// BlockadeRemoved is published when a territory's blockade is lifted.
type BlockadeRemoved struct {
	TerritoryID social.TerritoryID `json:"territory_id"`
}

// WarfareAction is published after an action resolves, successful or not.
type WarfareAction struct {
	Initiator      social.FactionID   `json:"initiator"`
	ActionKind     economy.ActionKind `json:"action_kind"`
	InvestmentCost float64            `json:"investment_cost"`
	ActualReturn   float64            `json:"actual_return"`
}

// SupplyChainEvent is the general-purpose event used for repair, recovery and alliances.
type SupplyChainEvent struct {
	Tag             string           `json:"tag"`
	AffectedFaction social.FactionID `json:"affected_faction"`
	EconomicImpact  float64          `json:"economic_impact"`
}

// EconomicRetaliation is published after an automatic counter-action.
type EconomicRetaliation struct {
	Retaliator social.FactionID `json:"retaliator"`
	Target     social.FactionID `json:"target"`
	Severity   float64          `json:"severity"`
	Category   string           `json:"category"`
}

func (RouteDisrupted) Kind() Kind      { return KindRouteDisrupted }
func (BlockadeEstablished) Kind() Kind { return KindBlockadeEstablished }
func (BlockadeRemoved) Kind() Kind     { return KindBlockadeRemoved }
func (WarfareAction) Kind() Kind       { return KindWarfareAction }
func (SupplyChainEvent) Kind() Kind    { return KindSupplyChain }
func (EconomicRetaliation) Kind() Kind { return KindEconomicRetaliation }

// RetaliationCategory classifies a retaliation by severity.
func RetaliationCategory(severity float64) string {
	if severity > MajorRetaliationSeverity {
		return CategoryMajor
	}
	return CategoryMinor
}
