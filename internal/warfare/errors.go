package warfare

import (
	"errors"
	"fmt"
	"math"
)

// Validation failures. Commands report them as false/zero results; the
// Check* helpers return them directly.
var (
	ErrNotInitialized        = errors.New("subsystem not initialized")
	ErrInvalidFaction        = errors.New("invalid faction id")
	ErrInvalidTerritory      = errors.New("invalid territory id")
	ErrInvalidArgument       = errors.New("invalid argument")
	ErrUnknownRoute          = errors.New("unknown route")
	ErrDuplicateBlockade     = errors.New("territory already blockaded")
	ErrInsufficientInfluence = errors.New("insufficient influence")
	ErrNoBlockade            = errors.New("no blockade on territory")
	ErrAlreadyAllied         = errors.New("factions already allied")
	ErrNotAllied             = errors.New("factions not allied")
	ErrRetaliationDisabled   = errors.New("economic retaliation disabled")
	ErrBelowThreshold        = errors.New("damage below retaliation threshold")
)

// InvariantError is raised (via panic) when kernel state is found inconsistent.
type InvariantError struct {
	Msg string
}

func (e *InvariantError) Error() string { return "warfare invariant violated: " + e.Msg }

// mustHold aborts on a broken invariant.
func mustHold(cond bool, format string, args ...any) {
	if !cond {
		panic(&InvariantError{Msg: fmt.Sprintf(format, args...)})
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func lerp(a, b, alpha float64) float64 {
	return a + (b-a)*alpha
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
