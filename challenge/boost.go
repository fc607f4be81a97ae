package challenge

import "time"

const defaultRechargeInterval = 100 * time.Millisecond

// BoostPolicy keeps the human's boost within what the purchased upgrades allow.
// Without a boost upgrade the ceiling is zero.
type BoostPolicy struct {
	MaxBoost         int
	Clamp            bool
	Recharge         bool
	RechargeInterval time.Duration

	lastBump time.Time
}

func NewBoostPolicy(c *Challenge, upgrades Upgrades, now time.Time) *BoostPolicy {
	maxBoost := 0
	if upgrades.Has(UpgradeBoost100) {
		maxBoost = 100
	} else if upgrades.Has(UpgradeBoost33) {
		maxBoost = 33
	}

	return &BoostPolicy{
		MaxBoost:         maxBoost,
		Clamp:            !c.HasLimitation(LimitationHalfField),
		Recharge:         upgrades.Has(UpgradeBoostRecharge),
		RechargeInterval: defaultRechargeInterval,
		lastBump:         now,
	}
}

// Adjust returns the boost the human car should be set to, and whether a
// state change is needed at all.
func (b *BoostPolicy) Adjust(boost int, now time.Time) (int, bool) {
	desired, changed := boost, false

	if b.Clamp && boost > b.MaxBoost {
		desired, changed = b.MaxBoost, true
	}

	if b.Recharge && boost < b.MaxBoost && now.Sub(b.lastBump) > b.RechargeInterval {
		b.lastBump = now
		desired, changed = min(boost+1, b.MaxBoost), true
	}

	return desired, changed
}
