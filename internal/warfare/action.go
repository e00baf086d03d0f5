package warfare

import (
	"github.com/google/uuid"

	"github.com/talgya/econwar/internal/economy"
	"github.com/talgya/econwar/internal/entropy"
	"github.com/talgya/econwar/internal/events"
	"github.com/talgya/econwar/internal/social"
)

// Success-chance shaping.
const (
	baseSuccessChance = 0.70
	minSuccessChance  = 0.10
	maxSuccessChance  = 0.95
	failedReturnShare = 0.2
)

// Action is a proposed economic-warfare operation.
type Action struct {
	ID             uuid.UUID          `json:"id"`
	Kind           economy.ActionKind `json:"kind"`
	Initiator      social.FactionID   `json:"initiator"`
	Target         social.FactionID   `json:"target"`
	InvestmentCost float64            `json:"investment_cost"`
	ExpectedReturn float64            `json:"expected_return"`
	RiskLevel      float64            `json:"risk_level"`
	TargetData     string             `json:"target_data,omitempty"`
	ExecutionTime  float64            `json:"execution_time"`
}

// CalculateActionRiskLevel scales kind's base risk by investment size.
func (s *Subsystem) CalculateActionRiskLevel(kind economy.ActionKind, investmentCost float64) float64 {
	return kind.BaseRisk() * clamp(investmentCost/2000, 0.5, 2.0)
}

// CreateEconomicWarfareAction builds an action stamped with the current time.
func (s *Subsystem) CreateEconomicWarfareAction(kind economy.ActionKind, initiator, target social.FactionID, targetData string, investmentCost float64) (Action, bool) {
	const op = "CreateEconomicWarfareAction"
	if err := s.checkAction(kind, initiator, target, investmentCost); err != nil {
		return Action{}, s.reject(op, err, "initiator", initiator, "target", target, "kind", kind)
	}
	return s.newAction(kind, initiator, target, targetData, investmentCost), true
}

func (s *Subsystem) newAction(kind economy.ActionKind, initiator, target social.FactionID, targetData string, investmentCost float64) Action {
	return Action{
		ID:             uuid.New(),
		Kind:           kind,
		Initiator:      initiator,
		Target:         target,
		InvestmentCost: investmentCost,
		ExpectedReturn: investmentCost * kind.ReturnMultiplier(),
		RiskLevel:      s.CalculateActionRiskLevel(kind, investmentCost),
		TargetData:     targetData,
		ExecutionTime:  s.clock.Now(),
	}
}

func (s *Subsystem) checkAction(kind economy.ActionKind, initiator, target social.FactionID, investmentCost float64) error {
	switch {
	case !s.initialized:
		return ErrNotInitialized
	case !initiator.Valid() || target == 0 || target == initiator:
		return ErrInvalidFaction
	case !kind.Valid() || !finite(investmentCost) || investmentCost < 0:
		return ErrInvalidArgument
	}
	return nil
}

// CalculateActionSuccessChance returns the probability, within [0.10, 0.95],
// that a resolves successfully.
func (s *Subsystem) CalculateActionSuccessChance(a Action) float64 {
	riskFactor := lerp(1.2, 0.5, a.RiskLevel)
	spec := s.specs.efficiencyBonus(a.Initiator, a.Kind)
	investment := clamp(a.InvestmentCost/1000, 0.8, 1.5)
	return clamp(baseSuccessChance*riskFactor*spec*investment, minSuccessChance, maxSuccessChance)
}

// ExecuteEconomicWarfareAction resolves a against one random draw, updates the
// ledger, may trigger retaliation from the target, publishes WarfareAction and
// returns the initiator's net result (actual return minus investment).
func (s *Subsystem) ExecuteEconomicWarfareAction(a Action) (float64, bool) {
	const op = "ExecuteEconomicWarfareAction"
	if err := s.checkAction(a.Kind, a.Initiator, a.Target, a.InvestmentCost); err != nil {
		return 0, s.reject(op, err, "initiator", a.Initiator, "target", a.Target, "kind", a.Kind)
	}
	if !finite(a.ExpectedReturn) || a.ExpectedReturn < 0 || !finite(a.RiskLevel) {
		return 0, s.reject(op, ErrInvalidArgument, "action", a.ID)
	}
	return s.execute(a), true
}

func (s *Subsystem) execute(a Action) float64 {
	chance := s.CalculateActionSuccessChance(a)
	draw := entropy.FloatFromSource(s.rng)

	var actual float64
	if draw <= chance {
		actual = a.ExpectedReturn * s.specs.efficiencyBonus(a.Initiator, a.Kind)
		s.ledger.addDealt(a.Initiator, actual)
		if a.Target.Valid() {
			s.ledger.addReceived(a.Target, actual)
			if s.cfg.EnableEconomicRetaliation &&
				actual >= s.cfg.RetaliationThreshold &&
				s.retaliationDepth < s.cfg.MaxRetaliationDepth {
				s.retaliate(a.Target, a.Initiator, actual)
			}
		}
	} else {
		actual = a.ExpectedReturn * failedReturnShare
	}

	s.log.Debug("warfare action resolved",
		"action", a.ID,
		"kind", a.Kind,
		"initiator", a.Initiator,
		"target", a.Target,
		"chance", chance,
		"draw", draw,
		"success", draw <= chance,
		"return", actual,
	)
	s.publish(events.WarfareAction{
		Initiator:      a.Initiator,
		ActionKind:     a.Kind,
		InvestmentCost: a.InvestmentCost,
		ActualReturn:   actual,
	})
	return actual - a.InvestmentCost
}
