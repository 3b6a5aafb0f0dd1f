package memory

import "math"

// TierPolicy controls forgetting for one importance tier.
type TierPolicy struct {
	// GraceTurns is how long after the last access a record keeps its full
	// confidence.
	GraceTurns uint64 `json:"grace_turns"`
	// HalfLifeTurns is the number of turns past the grace window for the
	// retained confidence to halve.
	HalfLifeTurns float64 `json:"half_life_turns"`
	// DropBelow removes the record once its retained confidence falls
	// under this threshold. Zero disables removal for the tier.
	DropBelow float64 `json:"drop_below"`
	// DemoteAfter demotes the record one importance tier once its age
	// exceeds this many turns. Zero disables demotion. This is the only
	// path by which importance decreases.
	DemoteAfter uint64 `json:"demote_after"`
}

// DecayPolicy is the tunable retention model: higher importance tolerates
// larger age before confidence reduction and removal.
type DecayPolicy struct {
	// ReinforceBoost is the confidence gained per reinforcement, clamped
	// to 1.
	ReinforceBoost float64 `json:"reinforce_boost"`

	Trivial  TierPolicy `json:"trivial"`
	Normal   TierPolicy `json:"normal"`
	High     TierPolicy `json:"high"`
	Critical TierPolicy `json:"critical"`
}

// DefaultDecayPolicy returns the stock retention curve: unreinforced
// normal-importance memories are gone within roughly 850 turns, trivial
// ones far sooner, while high and critical memories survive well past turn
// 1000.
func DefaultDecayPolicy() DecayPolicy {
	return DecayPolicy{
		ReinforceBoost: 0.15,
		Trivial:        TierPolicy{GraceTurns: 25, HalfLifeTurns: 100, DropBelow: 0.10},
		Normal:         TierPolicy{GraceTurns: 200, HalfLifeTurns: 150, DropBelow: 0.05},
		High:           TierPolicy{GraceTurns: 500, HalfLifeTurns: 400, DropBelow: 0.02, DemoteAfter: 2000},
		Critical:       TierPolicy{GraceTurns: 1000, HalfLifeTurns: 800, DemoteAfter: 5000},
	}
}

// Tier returns the policy for an importance level. Unspecified importance
// maps to the normal tier.
func (p DecayPolicy) Tier(imp Importance) TierPolicy {
	switch imp {
	case ImportanceTrivial:
		return p.Trivial
	case ImportanceHigh:
		return p.High
	case ImportanceCritical:
		return p.Critical
	}
	return p.Normal
}

// retained computes the confidence an anchor decays to after age turns
// under the tier policy.
func (tp TierPolicy) retained(anchor float64, age uint64) float64 {
	if age <= tp.GraceTurns {
		return anchor
	}
	if tp.HalfLifeTurns <= 0 {
		return anchor
	}
	past := float64(age - tp.GraceTurns)
	return clamp01(anchor * math.Pow(0.5, past/tp.HalfLifeTurns))
}
