package economy

import "fmt"

// SpecialtyKind is a faction's economic doctrine.
type SpecialtyKind uint8

const (
	ScrapEconomics SpecialtyKind = iota
	MarketManipulationSpecialty
	GuerrillaDisruption
	CorporateLogistics
	MobileTradeNetworks
	InformationEconomy
	CommunityLogistics
)

var specialtyNames = [...]string{
	"ScrapEconomics", "MarketManipulation", "GuerrillaDisruption", "CorporateLogistics",
	"MobileTradeNetworks", "InformationEconomy", "CommunityLogistics",
}

// Preset is the canonical bonus profile of a specialty.
type Preset struct {
	EfficiencyBonus    float64
	TerritoryBonusMult float64
	BonusActions       []ActionKind
	Description        string
}

var presets = [...]Preset{
	ScrapEconomics: {1.5, 1.3, []ActionKind{SupplyInterdiction},
		"Salvage-driven economy that thrives on severed supply lines"},
	MarketManipulationSpecialty: {1.4, 1.2, []ActionKind{MarketManipulation, EconomicEspionage},
		"Financial warfare through price control and market intelligence"},
	GuerrillaDisruption: {1.6, 1.1, []ActionKind{InfrastructureSabotage, SupplyInterdiction},
		"Hit-and-run strikes against infrastructure and convoys"},
	CorporateLogistics: {1.3, 1.4, []ActionKind{SupplyChainHardening, ConvoyProtection},
		"Hardened, insured supply chains with escorted convoys"},
	MobileTradeNetworks: {1.2, 1.5, []ActionKind{ConvoyProtection},
		"Caravan networks that reroute around contested ground"},
	InformationEconomy: {1.3, 1.3, []ActionKind{EconomicEspionage, MarketManipulation},
		"Intelligence brokerage feeding market operations"},
	CommunityLogistics: {1.2, 1.6, []ActionKind{ConvoyProtection, SupplyChainHardening},
		"Cooperative logistics rooted in held territory"},
}

// Specialties lists every specialty in declaration order.
func Specialties() []SpecialtyKind {
	return []SpecialtyKind{
		ScrapEconomics, MarketManipulationSpecialty, GuerrillaDisruption, CorporateLogistics,
		MobileTradeNetworks, InformationEconomy, CommunityLogistics,
	}
}

// Valid reports whether s is a known specialty.
func (s SpecialtyKind) Valid() bool { return int(s) < len(specialtyNames) }

// Preset returns the canonical bonus profile. The returned slice is a copy.
func (s SpecialtyKind) Preset() Preset {
	if !s.Valid() {
		return Preset{EfficiencyBonus: 1.0, TerritoryBonusMult: 1.0}
	}
	p := presets[s]
	p.BonusActions = append([]ActionKind(nil), p.BonusActions...)
	return p
}

func (s SpecialtyKind) String() string {
	if !s.Valid() {
		return fmt.Sprintf("SpecialtyKind(%d)", uint8(s))
	}
	return specialtyNames[s]
}

func (s SpecialtyKind) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("unknown specialty %d", uint8(s))
	}
	return []byte(s.String()), nil
}

func (s *SpecialtyKind) UnmarshalText(b []byte) error {
	v, err := ParseSpecialty(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseSpecialty resolves a specialty from its name.
func ParseSpecialty(name string) (SpecialtyKind, error) {
	for i, n := range specialtyNames {
		if n == name {
			return SpecialtyKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown specialty %q", name)
}
