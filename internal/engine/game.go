// Game drives a contest from the reaping to a winner, one phase per Advance.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/talgya/tribute-arena/internal/agents"
	"github.com/talgya/tribute-arena/internal/catalog"
	"github.com/talgya/tribute-arena/internal/odds"
	"github.com/talgya/tribute-arena/internal/social"
	"github.com/talgya/tribute-arena/internal/weather"
)

// Stage is where the contest stands between two calls to Advance.
type Stage uint8

const (
	StageReaping Stage = iota
	StageTraining
	StageBloodbath
	StageDay
	StageNight
	StageFallen // deaths are being announced; Pending holds what comes next
	StageWinner
)

var stageNames = [...]string{"Reaping", "Training", "Bloodbath", "Day", "Night", "Fallen", "Winner"}

// String returns the stage label.
func (s Stage) String() string {
	if int(s) < len(stageNames) {
		return stageNames[s]
	}
	return fmt.Sprintf("Stage(%d)", s)
}

// MarshalText renders the stage as its label.
func (s Stage) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a stage label.
func (s *Stage) UnmarshalText(b []byte) error {
	v, err := ParseStage(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseStage converts a label back into a Stage.
func ParseStage(name string) (Stage, error) {
	for i, n := range stageNames {
		if n == name {
			return Stage(i), nil
		}
	}
	return 0, fmt.Errorf("unknown stage %q", name)
}

// phase maps a simulated stage to its catalog phase.
func (s Stage) phase() catalog.Phase {
	switch s {
	case StageBloodbath:
		return catalog.PhaseBloodbath
	case StageNight:
		return catalog.PhaseNight
	default:
		return catalog.PhaseDay
	}
}

// Settings are the contest rules a Game is created with.
type Settings struct {
	FatalityRate    float64
	EnableWeather   bool
	MinDays         int
	MaxDays         int
	OddsSimulations int
	WeatherSeed     int64
	SponsorPoints   int
	SponsorCost     int
}

// DefaultSettings mirrors the stock configuration.
func DefaultSettings() Settings {
	return Settings{
		FatalityRate:    1.0,
		EnableWeather:   true,
		MinDays:         5,
		MaxDays:         10,
		OddsSimulations: odds.DefaultSimulations,
		SponsorPoints:   100,
		SponsorCost:     25,
	}
}

// SponsorGifts are the items a silver parachute can carry.
var SponsorGifts = []string{"Food", "Water", "Medicine", "Bandages"}

var (
	ErrGameOver       = errors.New("the contest is over")
	ErrNoSuchTribute  = errors.New("no such tribute")
	ErrTributeDead    = errors.New("tribute is dead")
	ErrNoPoints       = errors.New("not enough sponsor points")
	ErrUnknownGift    = errors.New("not a sponsor gift")
	ErrNotInArena     = errors.New("sponsors can only help once the games begin")
	ErrNoSubscription = errors.New("subscriber limit reached")
)

// Archive persists a contest as it unfolds.
type Archive interface {
	SaveRoster(roster agents.Roster) error
	SaveRound(round RoundHistory) error
	SaveMeta(meta map[string]string) error
}

// State is a point-in-time summary of the contest.
type State struct {
	Stage              Stage        `json:"stage"`
	Pending            Stage        `json:"pending"`
	Day                int          `json:"day"`
	DaysSinceLastDeath int          `json:"days_since_last_death"`
	Weather            weather.Kind `json:"weather"`
	Alive              int          `json:"alive"`
	Total              int          `json:"total"`
	SponsorPoints      int          `json:"sponsor_points"`
	Rounds             int          `json:"rounds"`
	Winner             string       `json:"winner,omitempty"`
}

// Game owns the contest state. All methods are safe for concurrent use.
type Game struct {
	mu       sync.Mutex
	sim      *Simulator
	settings Settings
	forecast *weather.Forecaster
	archive  Archive
	log      *slog.Logger

	stage              Stage
	pending            Stage
	day                int
	daysSinceLastDeath int
	weather            weather.Kind
	sponsorPoints      int

	roster  agents.Roster
	logs    []LogEntry
	history []RoundHistory
	fallen  []*agents.Tribute

	subs    map[int]chan LogEntry
	nextSub int
	maxSubs int
}

// NewGame reaps a fresh roster and prices it.
func NewGame(sim *Simulator, settings Settings, archive Archive) *Game {
	if settings.WeatherSeed == 0 {
		settings.WeatherSeed = int64(sim.Rand.Intn(1 << 30))
	}
	roster := agents.NewSpawner(sim.Rand, sim.Arena).InitializeRoster()
	g := &Game{
		sim:           sim,
		settings:      settings,
		forecast:      weather.NewForecaster(settings.WeatherSeed),
		archive:       archive,
		log:           sim.logger().With("component", "game"),
		stage:         StageReaping,
		sponsorPoints: settings.SponsorPoints,
		roster:        odds.Recalculate(roster, settings.OddsSimulations),
		subs:          make(map[int]chan LogEntry),
	}
	g.log.Info("tributes reaped", "count", len(g.roster), "weather_seed", settings.WeatherSeed)
	g.persist(nil)
	return g
}

// SetSubscriberLimit caps concurrent subscribers; zero means unlimited.
func (g *Game) SetSubscriberLimit(n int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.maxSubs = n
}

// Advance moves the contest forward one step and returns the new stage.
func (g *Game) Advance(ctx context.Context) (Stage, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.stage == StageWinner {
		return g.stage, ErrGameOver
	}
	if g.stage == StageFallen {
		g.stage = g.pending
		g.checkWinner()
		g.persist(nil)
		return g.stage, nil
	}
	if g.checkWinner() {
		g.persist(nil)
		return g.stage, nil
	}

	switch g.stage {
	case StageReaping:
		g.stage = StageTraining
		g.publish(newEntry(catalog.PhaseReaping, 0, StageReaping.String(),
			"The Tributes have been reaped. Let the training begin!"))
		g.persist(nil)
	case StageTraining:
		g.runTraining()
	default:
		g.runPhase()
	}
	return g.stage, nil
}

func (g *Game) runTraining() {
	res := g.sim.SimulateTraining(g.roster)
	g.roster = odds.Recalculate(res.Roster, g.settings.OddsSimulations)
	for _, e := range res.Logs {
		g.publish(e)
	}
	round := RoundHistory{Phase: StageTraining.String(), Day: 0, Logs: res.Logs}
	g.history = append(g.history, round)

	g.stage = StageBloodbath
	g.day = 1
	g.weather = g.weatherFor(g.day)
	g.persist(&round)
}

func (g *Game) runPhase() {
	current := g.stage
	next, nextDay := StageNight, g.day
	switch current {
	case StageBloodbath:
		next = StageDay
	case StageNight:
		next, nextDay = StageDay, g.day+1
	}

	res := g.sim.SimulatePhase(g.roster, PhaseParams{
		Phase:              current.phase(),
		DaysSinceLastDeath: g.daysSinceLastDeath,
		Day:                g.day,
		MinDays:            g.settings.MinDays,
		MaxDays:            g.settings.MaxDays,
		Weather:            g.weather,
		FatalityRate:       g.settings.FatalityRate,
		WeatherEnabled:     g.settings.EnableWeather,
	})
	g.roster = odds.Recalculate(res.Roster, g.settings.OddsSimulations)
	for _, e := range res.Logs {
		g.publish(e)
	}
	round := RoundHistory{Phase: current.String(), Day: g.day, Logs: res.Logs}
	g.history = append(g.history, round)

	if res.Deaths > 0 {
		g.daysSinceLastDeath = 0
		g.fallen = append(g.fallen, res.Fallen...)
		g.pending = next
		g.stage = StageFallen
	} else {
		g.daysSinceLastDeath++
		g.stage = next
	}
	if nextDay != g.day {
		g.day = nextDay
		g.weather = g.weatherFor(g.day)
	}

	g.log.Info("round complete",
		"round", current.String(),
		"deaths", res.Deaths,
		"alive", g.roster.AliveCount(),
		"next", g.stage.String(),
	)
	g.persist(&round)
}

// checkWinner ends the contest once at most one tribute is left.
func (g *Game) checkWinner() bool {
	if g.stage == StageReaping || g.stage == StageTraining || g.stage == StageFallen {
		return false
	}
	if g.roster.AliveCount() > 1 {
		return false
	}
	g.stage = StageWinner
	if w := g.winner(); w != nil {
		g.log.Info("victor crowned", "tribute", w.Name, "kills", w.KillCount, "day", g.day)
	} else {
		g.log.Info("no survivors", "day", g.day)
	}
	return true
}

func (g *Game) weatherFor(day int) weather.Kind {
	if !g.settings.EnableWeather {
		return weather.Clear
	}
	return g.forecast.ForDay(day)
}

// Sponsor drops a gift to a living tribute. An empty gift picks one at
// random; otherwise the name is matched loosely against SponsorGifts.
func (g *Game) Sponsor(id, gift string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch g.stage {
	case StageWinner:
		return "", ErrGameOver
	case StageReaping, StageTraining:
		return "", ErrNotInArena
	}
	t := g.roster.Find(id)
	if t == nil {
		return "", fmt.Errorf("%w: %s", ErrNoSuchTribute, id)
	}
	if !t.Alive() {
		return "", fmt.Errorf("%w: %s", ErrTributeDead, t.Name)
	}
	if g.sponsorPoints < g.settings.SponsorCost {
		return "", ErrNoPoints
	}

	item := SponsorGifts[g.sim.Rand.Intn(len(SponsorGifts))]
	if gift != "" {
		resolved, ok := catalog.ResolveItem(gift)
		if !ok || !slices.Contains(SponsorGifts, resolved) {
			return "", fmt.Errorf("%w: %q", ErrUnknownGift, gift)
		}
		item = resolved
	}

	t.AddItems(g.sim.capacity(), item)
	g.sponsorPoints -= g.settings.SponsorCost
	e := newEntry(catalog.PhaseDay, g.day, g.stage.String(), "A silver parachute brings a gift to the arena.", t)
	g.publish(e)
	g.log.Info("sponsor gift", "tribute", t.Name, "item", item, "points_left", g.sponsorPoints)
	g.persist(nil)
	return item, nil
}

// Subscribe returns a channel of new log entries and a cancel func.
// Entries are dropped for subscribers that fall behind.
func (g *Game) Subscribe(buffer int) (<-chan LogEntry, func(), error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.maxSubs > 0 && len(g.subs) >= g.maxSubs {
		return nil, nil, ErrNoSubscription
	}
	ch := make(chan LogEntry, buffer)
	id := g.nextSub
	g.nextSub++
	g.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			g.mu.Lock()
			defer g.mu.Unlock()
			delete(g.subs, id)
			close(ch)
		})
	}
	return ch, cancel, nil
}

func (g *Game) publish(e LogEntry) {
	g.logs = append(g.logs, e)
	for _, ch := range g.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

func (g *Game) persist(round *RoundHistory) {
	if g.archive == nil {
		return
	}
	if round != nil {
		if err := g.archive.SaveRound(*round); err != nil {
			g.log.Error("archive round", "error", err)
		}
	}
	if err := g.archive.SaveRoster(g.roster); err != nil {
		g.log.Error("archive roster", "error", err)
	}
	if err := g.archive.SaveMeta(g.meta()); err != nil {
		g.log.Error("archive meta", "error", err)
	}
}

// State summarizes the contest.
func (g *Game) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	s := State{
		Stage:              g.stage,
		Pending:            g.pending,
		Day:                g.day,
		DaysSinceLastDeath: g.daysSinceLastDeath,
		Weather:            g.weather,
		Alive:              g.roster.AliveCount(),
		Total:              len(g.roster),
		SponsorPoints:      g.sponsorPoints,
		Rounds:             len(g.history),
	}
	if w := g.winner(); w != nil && g.stage == StageWinner {
		s.Winner = w.Name
	}
	return s
}

// Tributes returns a copy of the roster.
func (g *Game) Tributes() agents.Roster {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.roster.Clone()
}

// Tribute returns a copy of one tribute, or nil.
func (g *Game) Tribute(id string) *agents.Tribute {
	g.mu.Lock()
	defer g.mu.Unlock()
	if t := g.roster.Find(id); t != nil {
		return t.Clone()
	}
	return nil
}

// History returns every completed round.
func (g *Game) History() []RoundHistory {
	g.mu.Lock()
	defer g.mu.Unlock()
	return slices.Clone(g.history)
}

// Logs returns the full narrative so far.
func (g *Game) Logs() []LogEntry {
	g.mu.Lock()
	defer g.mu.Unlock()
	return slices.Clone(g.logs)
}

// Fallen returns the dead in the order they fell, as they were at death.
func (g *Game) Fallen() []*agents.Tribute {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]*agents.Tribute, len(g.fallen))
	for i, t := range g.fallen {
		out[i] = t.Clone()
	}
	return out
}

// Alliances lists the pacts still standing.
func (g *Game) Alliances() []social.Alliance {
	g.mu.Lock()
	defer g.mu.Unlock()
	return social.Alliances(g.roster)
}

func (g *Game) winner() *agents.Tribute {
	if living := g.roster.Living(); len(living) == 1 {
		return living[0]
	}
	return nil
}

// Summary is the post-game report.
type Summary struct {
	Winner    *agents.Tribute   `json:"winner,omitempty"`
	Ranking   []*agents.Tribute `json:"ranking"`
	TopKiller *agents.Tribute   `json:"top_killer,omitempty"`
	Days      int               `json:"days"`
	Deaths    int               `json:"deaths"`
	Events    int               `json:"events"`
}

// Summary ranks the tributes: the winner first, then the fallen from the
// last to die to the first.
func (g *Game) Summary() Summary {
	g.mu.Lock()
	defer g.mu.Unlock()

	s := Summary{Days: g.day, Deaths: len(g.fallen), Events: len(g.logs)}
	seen := make(map[string]bool)
	if w := g.winner(); w != nil {
		s.Winner = w.Clone()
		s.Ranking = append(s.Ranking, s.Winner)
		seen[w.ID] = true
	}
	for i := len(g.fallen) - 1; i >= 0; i-- {
		// Ranking shows the final record, not the death snapshot.
		t := g.roster.Find(g.fallen[i].ID)
		if t == nil || seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		s.Ranking = append(s.Ranking, t.Clone())
	}
	for _, t := range g.roster {
		if !seen[t.ID] {
			s.Ranking = append(s.Ranking, t.Clone())
		}
	}

	for _, t := range s.Ranking {
		if t.KillCount > 0 && (s.TopKiller == nil || t.KillCount > s.TopKiller.KillCount) {
			s.TopKiller = t
		}
	}
	return s
}
