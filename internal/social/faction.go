// Package social provides faction and territory identities shared by the
// warfare kernel, its event stream, and its adapters.
package social

import "fmt"

// FactionID identifies a faction. Valid ids are small positive integers;
// negative values mean "none" or "unattributed".
type FactionID int

// NoFaction marks an unattributed actor or target.
const NoFaction FactionID = -1

// Valid reports whether id names a real faction.
func (id FactionID) Valid() bool { return id > 0 }

// Faction is the static profile of an economic faction.
type Faction struct {
	ID   FactionID   `json:"id"`
	Name string      `json:"name"`
	Kind FactionKind `json:"kind"`
}

// FactionKind categorizes the nature of a faction.
type FactionKind uint8

const (
	FactionCorporate    FactionKind = iota // Chartered logistics and trade houses
	FactionScavenger                       // Salvage crews and scrap markets
	FactionInsurgent                       // Irregular raiders
	FactionSyndicate                       // Financial and market cartels
	FactionNomadic                         // Caravan and mobile trade networks
	FactionIntelligence                    // Information brokers
	FactionCommunal                        // Cooperative settlements
)

// String returns the lower-case kind name used in logs.
func (k FactionKind) String() string {
	switch k {
	case FactionCorporate:
		return "corporate"
	case FactionScavenger:
		return "scavenger"
	case FactionInsurgent:
		return "insurgent"
	case FactionSyndicate:
		return "syndicate"
	case FactionNomadic:
		return "nomadic"
	case FactionIntelligence:
		return "intelligence"
	case FactionCommunal:
		return "communal"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// SeedFactions creates the 7 factions a fresh economy starts with.
// Ids 1..7 line up with the default specialization map.
func SeedFactions() []*Faction {
	return []*Faction{
		{ID: 1, Name: "Meridian Consolidated", Kind: FactionCorporate},
		{ID: 2, Name: "Rust Salvage Union", Kind: FactionScavenger},
		{ID: 3, Name: "Ashfall Irregulars", Kind: FactionInsurgent},
		{ID: 4, Name: "Gilded Exchange", Kind: FactionSyndicate},
		{ID: 5, Name: "Long Road Caravans", Kind: FactionNomadic},
		{ID: 6, Name: "Quiet Ledger", Kind: FactionIntelligence},
		{ID: 7, Name: "Hearth Cooperative", Kind: FactionCommunal},
	}
}

// FactionName returns the seed name for id, or a numeric label.
func FactionName(id FactionID) string {
	for _, f := range SeedFactions() {
		if f.ID == id {
			return f.Name
		}
	}
	if !id.Valid() {
		return "unattributed"
	}
	return fmt.Sprintf("faction-%d", int(id))
}
