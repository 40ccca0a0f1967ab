package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/talgya/tribute-arena/internal/agents"
)

func TestBuiltinCatalogIsClean(t *testing.T) {
	if findings := Lint(Builtin()); len(findings) != 0 {
		for _, f := range findings {
			t.Log(f)
		}
		t.Fatalf("built-in catalog has %d lint findings", len(findings))
	}
}

func TestBuiltinHasEveryPool(t *testing.T) {
	c := Builtin()
	for name, n := range map[string]int{
		"bloodbath": len(c.Bloodbath),
		"general":   len(c.General),
		"fatal":     len(c.Fatal),
		"night":     len(c.Night),
		"training":  len(c.Training),
		"arena":     len(c.Arena),
	} {
		if n == 0 {
			t.Fatalf("pool %s is empty", name)
		}
	}
}

func TestPoolFor(t *testing.T) {
	c := Builtin()
	cases := []struct {
		phase Phase
		want  int
	}{
		{PhaseBloodbath, len(c.Bloodbath)},
		{PhaseDay, len(c.General) + len(c.Fatal)},
		{PhaseNight, len(c.Night) + len(c.Fatal)},
		{PhaseTraining, len(c.Training)},
		{PhaseReaping, 0},
	}
	for _, tc := range cases {
		if got := len(c.PoolFor(tc.phase)); got != tc.want {
			t.Fatalf("PoolFor(%s) = %d events, want %d", tc.phase, got, tc.want)
		}
	}
}

func TestPoolForReturnsACopy(t *testing.T) {
	c := Builtin()
	pool := c.PoolFor(PhaseDay)
	pool[0].Text = "changed"
	if c.General[0].Text == "changed" {
		t.Fatalf("PoolFor shares backing storage with the catalog")
	}
}

func TestBuiltinReturnsIndependentCopies(t *testing.T) {
	a := Builtin()
	a.General = append(a.General, ev(1, 1, "(P1) is only in a."))
	b := Builtin()
	if len(b.General) == len(a.General) {
		t.Fatalf("appending to one catalog leaked into another")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name  string
		event Event
		ok    bool
	}{
		{"kill", kill(2, 1, "(P1) kills (P2)."), true},
		{"victim out of range", Event{Text: "(P1)", Players: 1, Fatal: true, Victims: []int{1}}, false},
		{"killer out of range", Event{Text: "(P1) (P2)", Players: 2, Fatal: true, Killers: []int{2}, Victims: []int{1}}, false},
		{"self kill", Event{Text: "(P1)", Players: 1, Fatal: true, Killers: []int{0}, Victims: []int{0}}, false},
		{"self harm", Event{Text: "(P1)", Players: 1, Fatal: true, Killers: []int{0}, Victims: []int{0}, Tags: Tags(TagSelfHarm)}, true},
		{"fatal without victims", Event{Text: "(P1)", Players: 1, Fatal: true}, false},
		{"extra placeholder", Event{Text: "(P1) and (P2)", Players: 1}, false},
		{"no players", Event{Text: "(P1)"}, false},
	}
	for _, tc := range cases {
		err := tc.event.Validate()
		if (err == nil) != tc.ok {
			t.Fatalf("%s: Validate() = %v, want ok=%v", tc.name, err, tc.ok)
		}
	}
}

func TestTagSet(t *testing.T) {
	s := Tags(TagKill, TagSneak, TagStealth)
	if !s.Has(TagKill) || !s.Has(TagStealth) || s.Has(TagSocial) {
		t.Fatalf("Has mismatch for %s", s)
	}
	if !s.Any(TagSocial, TagSneak) || s.Any(TagFood, TagSleep) {
		t.Fatalf("Any mismatch for %s", s)
	}
	if got := s.String(); got != "Kill,Sneak,Stealth" {
		t.Fatalf("String() = %q", got)
	}

	parsed, err := ParseTags([]string{"kill", "SNEAK", "Stealth"})
	if err != nil || parsed != s {
		t.Fatalf("ParseTags = %v, %v", parsed, err)
	}
	if _, err := ParseTags([]string{"Kil"}); err == nil {
		t.Fatalf("ParseTags accepted an unknown tag")
	}
}

func TestConditionHolds(t *testing.T) {
	tr := &agents.Tribute{Stats: agents.Stats{Health: 100, Sanity: 100, Hunger: 85}}
	if !CondStarving.Holds(tr) || CondDesperate.Holds(tr) || !CondNone.Holds(tr) {
		t.Fatalf("condition mismatch for hunger 85")
	}
	tr.Stats.Health = 25
	if !CondDesperate.Holds(tr) || !CondInjured.Holds(tr) {
		t.Fatalf("condition mismatch for health 25")
	}
}

func TestConsumeResolve(t *testing.T) {
	required := []string{"Food", "Rope"}
	if got := (Consume{}).Resolve(required); len(got) != 0 {
		t.Fatalf("nothing mode consumed %v", got)
	}
	if got := ConsumeAll.Resolve(required); len(got) != 2 {
		t.Fatalf("required mode consumed %v", got)
	}
	if got := ConsumeOnly("Food").Resolve(required); len(got) != 1 || got[0] != "Food" {
		t.Fatalf("subset mode consumed %v", got)
	}
}

func TestRender(t *testing.T) {
	got := Render("(P1) stabs (P2) while (P2)'s back is turned.", []string{"Cato", "Rue"})
	if got != "Cato stabs Rue while Rue's back is turned." {
		t.Fatalf("Render() = %q", got)
	}
}

func TestResolveItem(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"knife", "Knife", true},
		{"Knfie", "Knife", true},
		{"explosive", "Explosives", true},
		{"first aid kt", "First Aid Kit", true},
		{"helicopter", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := ResolveItem(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("ResolveItem(%q) = %q, %v; want %q, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestLintFlagsUnknownItems(t *testing.T) {
	c := &Catalog{General: []Event{
		ev(1, 1, "(P1) finds a knfie.").gains("Knfie"),
		ev(1, 1, "(P1) eats.").requires("Bread").consumes(ConsumeOnly("Water")),
	}}
	findings := Lint(c)
	if len(findings) != 2 {
		t.Fatalf("findings = %v, want 2", findings)
	}
	if findings[0].Suggestion != "Knife" {
		t.Fatalf("suggestion = %q, want Knife", findings[0].Suggestion)
	}
}

const samplePack = `
name: swamp
description: Extra events for a marsh arena.
events:
  - pool: general
    text: "(P1) wades through the swamp."
    players: 1
    tags: [Travel]
    movement: true
  - pool: fatal
    text: "(P1) drowns (P2) in the bog."
    players: 2
    fatal: true
    killers: [0]
    victims: [1]
    weight: 2
    tags: [Kill, Environment]
  - pool: night
    text: "(P1) cooks a frog over the fire."
    players: 1
    tags: [Food, Camp]
    item_required: [Food, Rope]
    consume: [Food]
    trait_required: [Survivalist]
    condition: starving
arena:
  - text: "The swamp rises."
    damage: 10
`

func TestParsePack(t *testing.T) {
	p, err := ParsePack([]byte(samplePack))
	if err != nil {
		t.Fatalf("ParsePack: %v", err)
	}
	if p.Name != "swamp" || p.Count() != 4 {
		t.Fatalf("pack = %+v", p)
	}
	cook := p.Events["night"][0]
	if cook.Condition != CondStarving || cook.Consume.Mode != ConsumeSubset || cook.TraitRequired[0] != agents.TraitSurvivalist {
		t.Fatalf("night event decoded wrong: %+v", cook)
	}
	if !p.Events["general"][0].Movement {
		t.Fatalf("movement flag lost")
	}

	c := Builtin()
	before := len(c.Fatal)
	c.Apply(p)
	if len(c.Fatal) != before+1 {
		t.Fatalf("Apply did not extend the fatal pool")
	}
}

func TestParsePackRejects(t *testing.T) {
	cases := map[string]string{
		"missing name":    "events: []\n",
		"unknown pool":    "name: x\nevents:\n  - {pool: feast, text: \"(P1)\", players: 1}\n",
		"no placeholder":  "name: x\nevents:\n  - {pool: general, text: \"nobody\", players: 1}\n",
		"unknown field":   "name: x\nextra: 1\n",
		"unknown tag":     "name: x\nevents:\n  - {pool: general, text: \"(P1)\", players: 1, tags: [Dance]}\n",
		"unknown trait":   "name: x\nevents:\n  - {pool: general, text: \"(P1)\", players: 1, trait_required: [Lucky]}\n",
		"bad victim":      "name: x\nevents:\n  - {pool: fatal, text: \"(P1)\", players: 1, fatal: true, victims: [3]}\n",
		"not yaml at all": "name: [unterminated\n",
	}
	for name, doc := range cases {
		if _, err := ParsePack([]byte(doc)); err == nil {
			t.Fatalf("%s: ParsePack accepted %q", name, doc)
		}
	}
}

func TestLoadFromDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "swamp.yaml")
	if err := os.WriteFile(path, []byte(samplePack), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(c.Arena) != len(arenaEvents)+1 {
		t.Fatalf("arena pool = %d", len(c.Arena))
	}

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	if err == nil || !strings.Contains(err.Error(), "missing.yaml") {
		t.Fatalf("Load(missing) error = %v", err)
	}
}
