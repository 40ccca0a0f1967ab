package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/talgya/tribute-arena/internal/agents"
)

//go:embed pack.schema.json
var packSchemaJSON string

var packSchema = jsonschema.MustCompileString("pack.schema.json", packSchemaJSON)

// Pack is a set of extra events loaded from a YAML file.
type Pack struct {
	Name        string
	Description string
	Events      map[string][]Event // pool name → events
	Arena       []ArenaEvent
}

// Count returns the number of events the pack adds.
func (p *Pack) Count() int {
	n := len(p.Arena)
	for _, events := range p.Events {
		n += len(events)
	}
	return n
}

type packFile struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	Events      []packEvent `yaml:"events"`
	Arena       []packArena `yaml:"arena"`
}

type packEvent struct {
	Pool          string   `yaml:"pool"`
	Text          string   `yaml:"text"`
	Players       int      `yaml:"players"`
	Fatal         bool     `yaml:"fatal"`
	Killers       []int    `yaml:"killers"`
	Victims       []int    `yaml:"victims"`
	Weight        float64  `yaml:"weight"`
	Tags          []string `yaml:"tags"`
	ItemGain      []string `yaml:"item_gain"`
	ItemRequired  []string `yaml:"item_required"`
	TraitRequired []string `yaml:"trait_required"`
	Condition     string   `yaml:"condition"`
	Consume       any      `yaml:"consume"`
	HealthDamage  int      `yaml:"health_damage"`
	Movement      bool     `yaml:"movement"`
}

type packArena struct {
	Text       string `yaml:"text"`
	Damage     int    `yaml:"damage"`
	SanityLoss int    `yaml:"sanity_loss"`
	Heal       bool   `yaml:"heal"`
	Feed       bool   `yaml:"feed"`
}

// LoadPack reads and validates a YAML event pack.
func LoadPack(path string) (*Pack, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pack %s: %w", path, err)
	}
	p, err := ParsePack(raw)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", path, err)
	}
	return p, nil
}

// ParsePack decodes a pack document, validates it against the pack schema
// and converts it to events.
func ParsePack(raw []byte) (*Pack, error) {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	// The schema validator wants JSON-shaped values.
	js, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("normalize: %w", err)
	}
	var normalized any
	if err := json.Unmarshal(js, &normalized); err != nil {
		return nil, fmt.Errorf("normalize: %w", err)
	}
	if err := packSchema.Validate(normalized); err != nil {
		return nil, fmt.Errorf("schema: %w", err)
	}

	var f packFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("decode pack: %w", err)
	}

	p := &Pack{
		Name:        f.Name,
		Description: f.Description,
		Events:      make(map[string][]Event),
	}
	for i, pe := range f.Events {
		e, err := pe.toEvent()
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		p.Events[pe.Pool] = append(p.Events[pe.Pool], e)
	}
	for _, pa := range f.Arena {
		p.Arena = append(p.Arena, ArenaEvent(pa))
	}
	return p, nil
}

func (pe packEvent) toEvent() (Event, error) {
	tags, err := ParseTags(pe.Tags)
	if err != nil {
		return Event{}, err
	}
	cond, ok := ParseCondition(pe.Condition)
	if !ok {
		return Event{}, fmt.Errorf("unknown condition %q", pe.Condition)
	}
	consume, err := parseConsume(pe.Consume)
	if err != nil {
		return Event{}, err
	}

	e := Event{
		Text:         pe.Text,
		Players:      pe.Players,
		Fatal:        pe.Fatal,
		Killers:      pe.Killers,
		Victims:      pe.Victims,
		Weight:       pe.Weight,
		Tags:         tags,
		ItemGain:     pe.ItemGain,
		ItemRequired: pe.ItemRequired,
		Condition:    cond,
		Consume:      consume,
		HealthDamage: pe.HealthDamage,
		Movement:     pe.Movement,
	}
	for _, name := range pe.TraitRequired {
		if !agents.ValidTrait(name) {
			return Event{}, fmt.Errorf("unknown trait %q", name)
		}
		e.TraitRequired = append(e.TraitRequired, agents.Trait(name))
	}
	if err := e.Validate(); err != nil {
		return Event{}, err
	}
	return e, nil
}

func parseConsume(v any) (Consume, error) {
	switch c := v.(type) {
	case nil:
		return Consume{}, nil
	case string:
		switch c {
		case "none":
			return Consume{}, nil
		case "required":
			return ConsumeAll, nil
		}
		return Consume{}, fmt.Errorf("unknown consume mode %q", c)
	case []any:
		items := make([]string, 0, len(c))
		for _, item := range c {
			s, ok := item.(string)
			if !ok {
				return Consume{}, fmt.Errorf("consume item %v is not a string", item)
			}
			items = append(items, s)
		}
		return ConsumeOnly(items...), nil
	}
	return Consume{}, fmt.Errorf("unsupported consume value %v", v)
}

// Apply appends the pack's events to the catalog's pools.
func (c *Catalog) Apply(p *Pack) {
	for pool, events := range p.Events {
		switch pool {
		case "bloodbath":
			c.Bloodbath = append(c.Bloodbath, events...)
		case "general":
			c.General = append(c.General, events...)
		case "fatal":
			c.Fatal = append(c.Fatal, events...)
		case "night":
			c.Night = append(c.Night, events...)
		case "training":
			c.Training = append(c.Training, events...)
		}
	}
	c.Arena = append(c.Arena, p.Arena...)
}

// Load returns the built-in catalog extended with every pack in paths.
func Load(paths ...string) (*Catalog, error) {
	c := Builtin()
	for _, path := range paths {
		p, err := LoadPack(path)
		if err != nil {
			return nil, err
		}
		c.Apply(p)
	}
	return c, nil
}
