package warfare

import (
	"slices"

	"github.com/talgya/econwar/internal/events"
	"github.com/talgya/econwar/internal/social"
)

// Blockade is a faction-imposed tax on traffic through a territory.
type Blockade struct {
	Territory         social.TerritoryID `json:"territory" db:"territory"`
	BlockadingFaction social.FactionID   `json:"blockading_faction" db:"blockading_faction"`
	TaxRate           float64            `json:"tax_rate" db:"tax_rate"`
	EstablishedTime   float64            `json:"established_time" db:"established_time"`
	TotalRevenue      float64            `json:"total_revenue" db:"total_revenue"`
	ConvoysAffected   int                `json:"convoys_affected" db:"convoys_affected"`
}

// blockadeStore holds at most one blockade per territory.
type blockadeStore struct {
	byTerritory map[social.TerritoryID]*Blockade
}

func newBlockadeStore() *blockadeStore {
	return &blockadeStore{byTerritory: make(map[social.TerritoryID]*Blockade)}
}

func (s *blockadeStore) get(t social.TerritoryID) (Blockade, bool) {
	b, ok := s.byTerritory[t]
	if !ok {
		return Blockade{}, false
	}
	return *b, true
}

func (s *blockadeStore) put(b Blockade) {
	mustHold(s.byTerritory[b.Territory] == nil, "territory %d blockaded twice", int(b.Territory))
	s.byTerritory[b.Territory] = &b
}

func (s *blockadeStore) remove(t social.TerritoryID) bool {
	if _, ok := s.byTerritory[t]; !ok {
		return false
	}
	delete(s.byTerritory, t)
	return true
}

// accrue adds revenue for dt seconds and refreshes the affected convoy count.
func (s *blockadeStore) accrue(dt, revenuePerSecond float64, convoys int) {
	for _, b := range s.byTerritory {
		b.TotalRevenue += b.TaxRate * revenuePerSecond * dt
		if convoys >= 0 {
			b.ConvoysAffected = convoys
		}
	}
}

func (s *blockadeStore) all() []Blockade {
	out := make([]Blockade, 0, len(s.byTerritory))
	for _, b := range s.byTerritory {
		out = append(out, *b)
	}
	slices.SortFunc(out, func(a, b Blockade) int { return int(a.Territory) - int(b.Territory) })
	return out
}

// CheckBlockade returns why faction could not blockade territory, or nil.
func (s *Subsystem) CheckBlockade(territory social.TerritoryID, faction social.FactionID) error {
	switch {
	case !s.initialized:
		return ErrNotInitialized
	case !territory.Valid():
		return ErrInvalidTerritory
	case !faction.Valid():
		return ErrInvalidFaction
	}
	if _, ok := s.blockades.get(territory); ok {
		return ErrDuplicateBlockade
	}
	if s.influenceOf(territory, faction) < s.cfg.BlockadeInfluenceThreshold {
		return ErrInsufficientInfluence
	}
	return nil
}

// CanEstablishBlockade reports whether EstablishTerritorialBlockade would succeed.
func (s *Subsystem) CanEstablishBlockade(territory social.TerritoryID, faction social.FactionID) bool {
	return s.CheckBlockade(territory, faction) == nil
}

// EstablishTerritorialBlockade blockades territory with taxRate clamped to
// [0, MaxBlockadeTaxRate] and publishes BlockadeEstablished.
func (s *Subsystem) EstablishTerritorialBlockade(territory social.TerritoryID, faction social.FactionID, taxRate float64) bool {
	const op = "EstablishTerritorialBlockade"
	if err := s.CheckBlockade(territory, faction); err != nil {
		return s.reject(op, err, "territory", territory, "faction", faction)
	}
	if !finite(taxRate) {
		return s.reject(op, ErrInvalidArgument, "tax_rate", taxRate)
	}

	b := Blockade{
		Territory:         territory,
		BlockadingFaction: faction,
		TaxRate:           clamp(taxRate, 0, s.cfg.MaxBlockadeTaxRate),
		EstablishedTime:   s.clock.Now(),
	}
	s.blockades.put(b)

	s.log.Info("blockade established", "territory", territory, "faction", faction, "tax_rate", b.TaxRate)
	s.publish(events.BlockadeEstablished{TerritoryID: territory, Faction: faction, TaxRate: b.TaxRate})
	return true
}

// RemoveTerritorialBlockade lifts territory's blockade. It is a no-op
// returning false when there is none.
func (s *Subsystem) RemoveTerritorialBlockade(territory social.TerritoryID, removing social.FactionID) bool {
	const op = "RemoveTerritorialBlockade"
	if !s.initialized {
		return s.reject(op, ErrNotInitialized)
	}
	b, ok := s.blockades.get(territory)
	if !ok {
		return s.reject(op, ErrNoBlockade, "territory", territory)
	}
	s.blockades.remove(territory)

	s.log.Info("blockade removed",
		"territory", territory,
		"by", removing,
		"holder", b.BlockadingFaction,
		"revenue", b.TotalRevenue,
	)
	s.publish(events.BlockadeRemoved{TerritoryID: territory})
	return true
}

// GetTerritorialBlockade returns territory's blockade, if any.
func (s *Subsystem) GetTerritorialBlockade(territory social.TerritoryID) (Blockade, bool) {
	return s.blockades.get(territory)
}

// GetActiveTerritorialBlockades lists all blockades ordered by territory.
func (s *Subsystem) GetActiveTerritorialBlockades() []Blockade {
	return s.blockades.all()
}

// GetBlockadeRevenue returns the total revenue collected by faction's blockades.
func (s *Subsystem) GetBlockadeRevenue(faction social.FactionID) float64 {
	total := 0.0
	for _, b := range s.blockades.all() {
		if b.BlockadingFaction == faction {
			total += b.TotalRevenue
		}
	}
	return total
}
