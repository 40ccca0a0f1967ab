// Alliances: loose pacts between tributes, identified by a shared label.
// The career pack is seeded at the reaping and never dissolves; every other
// alliance forms in the arena and falls apart once it is down to one member.
package social

import (
	"sort"

	"github.com/google/uuid"

	"github.com/talgya/tribute-arena/internal/agents"
)

// FormationAffinity is the average warmth toward the actor a social group
// needs before it becomes an alliance.
const FormationAffinity = 20

// Alliance is a summary of one pact's living members.
type Alliance struct {
	ID      string   `json:"id"`
	Career  bool     `json:"career"`
	Members []string `json:"members"`
}

// NewAllianceID returns a fresh alliance label.
func NewAllianceID() string {
	return "alliance-" + uuid.NewString()[:8]
}

// IsCareer reports whether id is the career pack.
func IsCareer(id string) bool {
	return id == agents.CareerAllianceID
}

// TryForm binds a social group into a new alliance when the others' average
// affinity toward actor is above FormationAffinity. Members who already
// belong to an alliance keep theirs. It returns the new label.
func TryForm(actor *agents.Tribute, group []*agents.Tribute) (string, bool) {
	if actor.AllianceID != "" || len(group) < 2 {
		return "", false
	}
	total, others := 0, 0
	for _, t := range group {
		if t.ID == actor.ID {
			continue
		}
		total += agents.Affinity(t, actor)
		others++
	}
	if others == 0 || total/others <= FormationAffinity {
		return "", false
	}

	id := NewAllianceID()
	for _, t := range group {
		if t.AllianceID == "" {
			t.AllianceID = id
		}
	}
	return id, true
}

// Fragment clears the label of every living tribute whose alliance,
// the career pack aside, has fewer than two living members. It returns
// the dissolved labels.
func Fragment(r agents.Roster) []string {
	counts := make(map[string]int)
	for _, t := range r.Living() {
		if t.AllianceID != "" && !IsCareer(t.AllianceID) {
			counts[t.AllianceID]++
		}
	}

	var dissolved []string
	for _, t := range r.Living() {
		if t.AllianceID == "" || IsCareer(t.AllianceID) || counts[t.AllianceID] >= 2 {
			continue
		}
		dissolved = append(dissolved, t.AllianceID)
		t.AllianceID = ""
	}
	return dissolved
}

// Alliances lists every pact with at least one living member, sorted by label.
func Alliances(r agents.Roster) []Alliance {
	byID := make(map[string]*Alliance)
	for _, t := range r.Living() {
		if t.AllianceID == "" {
			continue
		}
		a, ok := byID[t.AllianceID]
		if !ok {
			a = &Alliance{ID: t.AllianceID, Career: IsCareer(t.AllianceID)}
			byID[t.AllianceID] = a
		}
		a.Members = append(a.Members, t.ID)
	}

	out := make([]Alliance, 0, len(byID))
	for _, a := range byID {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
