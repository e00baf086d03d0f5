// Package economy defines the closed sets of economic-warfare kinds and the
// canonical tables attached to them.
package economy

import "fmt"

// RouteID is an opaque, stable convoy route name.
type RouteID string

// DisruptionKind is the cause of a route disruption.
type DisruptionKind uint8

const (
	SignalJam DisruptionKind = iota
	BridgeOut
	Blockade
	Sabotage
	Pirates
	Siege
)

var disruptionNames = [...]string{"SignalJam", "BridgeOut", "Blockade", "Sabotage", "Pirates", "Siege"}

// viabilityMultipliers scale a route's viability per active disruption.
var viabilityMultipliers = [...]float64{0.8, 0.3, 0.6, 0.4, 0.7, 0.1}

// DisruptionKinds lists every disruption kind in declaration order.
func DisruptionKinds() []DisruptionKind {
	return []DisruptionKind{SignalJam, BridgeOut, Blockade, Sabotage, Pirates, Siege}
}

// Valid reports whether k is a known kind.
func (k DisruptionKind) Valid() bool { return int(k) < len(disruptionNames) }

// ViabilityMultiplier returns the factor applied to route viability.
func (k DisruptionKind) ViabilityMultiplier() float64 {
	if !k.Valid() {
		return 1.0
	}
	return viabilityMultipliers[k]
}

// Permanent reports whether disruptions of this kind ignore timed expiry and repair.
func (k DisruptionKind) Permanent() bool {
	return k == Sabotage || k == BridgeOut
}

func (k DisruptionKind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("DisruptionKind(%d)", uint8(k))
	}
	return disruptionNames[k]
}

func (k DisruptionKind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("unknown disruption kind %d", uint8(k))
	}
	return []byte(k.String()), nil
}

func (k *DisruptionKind) UnmarshalText(b []byte) error {
	v, err := ParseDisruptionKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// ParseDisruptionKind resolves a kind from its name.
func ParseDisruptionKind(s string) (DisruptionKind, error) {
	for i, name := range disruptionNames {
		if name == s {
			return DisruptionKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown disruption kind %q", s)
}

// ActionKind is an economic-warfare action a faction can invest in.
type ActionKind uint8

const (
	SupplyInterdiction ActionKind = iota
	InfrastructureSabotage
	TerritorialBlockade
	ConvoyProtection
	EconomicEspionage
	MarketManipulation
	SupplyChainHardening
)

var actionNames = [...]string{
	"SupplyInterdiction", "InfrastructureSabotage", "TerritorialBlockade",
	"ConvoyProtection", "EconomicEspionage", "MarketManipulation", "SupplyChainHardening",
}

var (
	returnMultipliers = [...]float64{2.0, 2.5, 1.5, 1.3, 1.6, 2.2, 1.2}
	baseRisks         = [...]float64{0.8, 1.5, 1.2, 0.6, 1.0, 0.7, 0.4}
)

// ActionKinds lists every action kind in declaration order.
func ActionKinds() []ActionKind {
	return []ActionKind{
		SupplyInterdiction, InfrastructureSabotage, TerritorialBlockade,
		ConvoyProtection, EconomicEspionage, MarketManipulation, SupplyChainHardening,
	}
}

// Valid reports whether k is a known kind.
func (k ActionKind) Valid() bool { return int(k) < len(actionNames) }

// ReturnMultiplier is the expected return per unit of investment.
func (k ActionKind) ReturnMultiplier() float64 {
	if !k.Valid() {
		return 0
	}
	return returnMultipliers[k]
}

// BaseRisk is the risk level before investment scaling.
func (k ActionKind) BaseRisk() float64 {
	if !k.Valid() {
		return 0
	}
	return baseRisks[k]
}

func (k ActionKind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("ActionKind(%d)", uint8(k))
	}
	return actionNames[k]
}

func (k ActionKind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("unknown action kind %d", uint8(k))
	}
	return []byte(k.String()), nil
}

func (k *ActionKind) UnmarshalText(b []byte) error {
	v, err := ParseActionKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// ParseActionKind resolves a kind from its name.
func ParseActionKind(s string) (ActionKind, error) {
	for i, name := range actionNames {
		if name == s {
			return ActionKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown action kind %q", s)
}
