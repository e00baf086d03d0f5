package warfare

import (
	"github.com/talgya/econwar/internal/economy"
	"github.com/talgya/econwar/internal/events"
	"github.com/talgya/econwar/internal/social"
)

const (
	retaliationSeverityMult = 1.2
	retaliationCostShare    = 0.8
)

// CalculateRetaliationSeverity scales damage by the attacked faction's economic power.
func (s *Subsystem) CalculateRetaliationSeverity(attacked social.FactionID, damage float64) float64 {
	power := s.ledger.lookup(attacked).EconomicPower
	return damage * retaliationSeverityMult * clamp(power/BaseEconomicPower, 0.5, 2.0)
}

// TriggerEconomicRetaliation has attacked counter-strike attacker with a
// SupplyInterdiction sized to the damage, then publishes EconomicRetaliation.
// It returns the severity. Retaliations never trigger further retaliation.
func (s *Subsystem) TriggerEconomicRetaliation(attacked, attacker social.FactionID, damage float64) (float64, bool) {
	const op = "TriggerEconomicRetaliation"
	switch {
	case !s.initialized:
		return 0, s.reject(op, ErrNotInitialized)
	case !attacked.Valid() || !attacker.Valid() || attacked == attacker:
		return 0, s.reject(op, ErrInvalidFaction, "attacked", attacked, "attacker", attacker)
	case !s.cfg.EnableEconomicRetaliation:
		return 0, s.reject(op, ErrRetaliationDisabled)
	case !finite(damage) || damage < s.cfg.RetaliationThreshold:
		return 0, s.reject(op, ErrBelowThreshold, "damage", damage)
	}
	return s.retaliate(attacked, attacker, damage), true
}

func (s *Subsystem) retaliate(attacked, attacker social.FactionID, damage float64) float64 {
	severity := s.CalculateRetaliationSeverity(attacked, damage)
	counter := s.newAction(economy.SupplyInterdiction, attacked, attacker, "", severity*retaliationCostShare)

	s.retaliationDepth++
	s.execute(counter)
	s.retaliationDepth--

	category := events.RetaliationCategory(severity)
	s.log.Info("economic retaliation",
		"retaliator", attacked,
		"target", attacker,
		"severity", severity,
		"category", category,
	)
	s.publish(events.EconomicRetaliation{
		Retaliator: attacked,
		Target:     attacker,
		Severity:   severity,
		Category:   category,
	})
	return severity
}
