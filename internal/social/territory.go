package social

// TerritoryID identifies a contested region. Negative values mean "none".
type TerritoryID int

// NoTerritory marks an absent territory.
const NoTerritory TerritoryID = -1

// Valid reports whether id names a real territory.
func (id TerritoryID) Valid() bool { return id >= 0 }
