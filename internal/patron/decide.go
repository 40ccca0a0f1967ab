package patron

import (
	"fmt"
	"log/slog"
)

// Decision is the patron's chosen action for one cycle.
type Decision struct {
	Action    string `json:"action"` // "none" or "gift"
	Rationale string `json:"rationale"`
	Gift      *Gift  `json:"gift"`
}

// Gift is the payload for POST /api/v1/sponsor.
type Gift struct {
	TributeID string `json:"tribute_id"`
	Item      string `json:"item"`
}

// Budget bounds how the patron spends sponsor points.
type Budget struct {
	Cost       int // points per gift
	Capacity   int // tribute inventory capacity
	MinUrgency int // needs below this are left alone
}

// DefaultBudget matches the stock contest settings.
func DefaultBudget() Budget {
	return Budget{Cost: 25, Capacity: 4, MinUrgency: 60}
}

// Decide picks at most one gift. Sponsors can only act while the games
// are running, and a patron who cannot afford a gift does nothing.
func Decide(snap *Snapshot, b Budget) Decision {
	switch snap.Status.Stage {
	case "Bloodbath", "Day", "Night", "Fallen":
	default:
		return none(fmt.Sprintf("stage %s is not open to sponsors", snap.Status.Stage))
	}
	if snap.Status.SponsorPoints < b.Cost {
		return none(fmt.Sprintf("only %d sponsor points left", snap.Status.SponsorPoints))
	}

	needs := Triage(snap, b.Capacity)
	if len(needs) == 0 || needs[0].Urgency < b.MinUrgency {
		return none("nobody is in real trouble")
	}

	n := needs[0]
	slog.Debug("triage", "candidates", len(needs), "top", n.Name, "urgency", n.Urgency)
	return Decision{
		Action:    "gift",
		Rationale: fmt.Sprintf("%s needs %s (urgency %d)", n.Name, n.Item, n.Urgency),
		Gift:      &Gift{TributeID: n.TributeID, Item: n.Item},
	}
}

func none(rationale string) Decision {
	return Decision{Action: "none", Rationale: rationale}
}
