package warfare

// Tick advances the kernel by dt simulated seconds: expired disruptions are
// swept, blockade revenue accrues, and power recompute and damage recovery run
// once their intervals have elapsed on the clock.
func (s *Subsystem) Tick(dt float64) {
	if !s.initialized || !finite(dt) || dt < 0 {
		return
	}
	now := s.clock.Now()

	if n := s.disruptions.sweep(now); n > 0 {
		s.log.Debug("expired disruptions swept", "count", n, "now", now)
	}

	s.blockades.accrue(dt, s.cfg.BlockadeRevenuePerSecond, s.activeConvoys())

	if now-s.lastPowerUpdate >= s.cfg.PowerUpdateInterval {
		s.ledger.recomputePower()
		s.lastPowerUpdate = now
	}

	if elapsed := now - s.lastRecovery; elapsed >= s.cfg.RecoveryInterval {
		s.ProcessSupplyChainRecovery(elapsed)
		s.lastRecovery = now
	}
}

// activeConvoys counts routes carrying traffic, or -1 without a convoy oracle.
func (s *Subsystem) activeConvoys() int {
	if s.convoys == nil {
		return -1
	}
	n := 0
	for _, r := range s.convoys.Routes() {
		if s.convoys.TrafficVolume(r) > 0 {
			n++
		}
	}
	return n
}
