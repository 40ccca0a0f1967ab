package engine

import (
	"github.com/google/uuid"

	"github.com/talgya/tribute-arena/internal/agents"
	"github.com/talgya/tribute-arena/internal/catalog"
)

// LogEntry is one line of the contest narrative.
type LogEntry struct {
	ID         string        `json:"id"`
	Text       string        `json:"text"`
	Kind       catalog.Phase `json:"kind"` // Feast and Arena entries occur inside a Day
	Day        int           `json:"day"`
	PhaseName  string        `json:"phase"`
	DeathNames []string      `json:"death_names,omitempty"`
	TributeIDs []string      `json:"tribute_ids,omitempty"`
}

// Involves reports whether the entry mentions tribute id.
func (e LogEntry) Involves(id string) bool {
	for _, tid := range e.TributeIDs {
		if tid == id {
			return true
		}
	}
	return false
}

// RoundHistory is every entry produced by one phase.
type RoundHistory struct {
	Phase string     `json:"phase"`
	Day   int        `json:"day"`
	Logs  []LogEntry `json:"logs"`
}

// Deaths counts the deaths recorded in the round.
func (h RoundHistory) Deaths() int {
	n := 0
	for _, e := range h.Logs {
		n += len(e.DeathNames)
	}
	return n
}

func newEntry(kind catalog.Phase, day int, phaseName, text string, group ...*agents.Tribute) LogEntry {
	e := LogEntry{
		ID:        uuid.NewString(),
		Text:      text,
		Kind:      kind,
		Day:       day,
		PhaseName: phaseName,
	}
	for _, t := range group {
		e.TributeIDs = append(e.TributeIDs, t.ID)
	}
	return e
}

func names(group []*agents.Tribute) []string {
	out := make([]string, len(group))
	for i, t := range group {
		out[i] = t.Name
	}
	return out
}
