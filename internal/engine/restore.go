package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/talgya/tribute-arena/internal/agents"
	"github.com/talgya/tribute-arena/internal/weather"
)

// Archive meta keys.
const (
	MetaStage         = "stage"
	MetaPending       = "pending"
	MetaDay           = "day"
	MetaSinceDeath    = "days_since_last_death"
	MetaWeather       = "weather"
	MetaWeatherSeed   = "weather_seed"
	MetaSponsorPoints = "sponsor_points"
	MetaFallen        = "fallen"
)

func (g *Game) meta() map[string]string {
	ids := make([]string, len(g.fallen))
	for i, t := range g.fallen {
		ids[i] = t.ID
	}
	return map[string]string{
		MetaStage:         g.stage.String(),
		MetaPending:       g.pending.String(),
		MetaDay:           strconv.Itoa(g.day),
		MetaSinceDeath:    strconv.Itoa(g.daysSinceLastDeath),
		MetaWeather:       g.weather.String(),
		MetaWeatherSeed:   strconv.FormatInt(g.settings.WeatherSeed, 10),
		MetaSponsorPoints: strconv.Itoa(g.sponsorPoints),
		MetaFallen:        strings.Join(ids, ","),
	}
}

// Saved is an archived contest.
type Saved struct {
	Roster agents.Roster
	Rounds []RoundHistory
	Meta   map[string]string
}

// RestoreGame resumes an archived contest. The fallen are rebuilt from
// the roster's final records.
func RestoreGame(sim *Simulator, settings Settings, archive Archive, saved Saved) (*Game, error) {
	if len(saved.Roster) == 0 {
		return nil, fmt.Errorf("restore: empty roster")
	}
	g := &Game{
		sim:      sim,
		settings: settings,
		archive:  archive,
		log:      sim.logger().With("component", "game"),
		roster:   saved.Roster.Clone(),
		history:  append([]RoundHistory(nil), saved.Rounds...),
		subs:     make(map[int]chan LogEntry),
	}
	for _, r := range saved.Rounds {
		g.logs = append(g.logs, r.Logs...)
	}

	var err error
	m := saved.Meta
	if g.stage, err = ParseStage(m[MetaStage]); err != nil {
		return nil, fmt.Errorf("restore: %w", err)
	}
	if g.pending, err = ParseStage(m[MetaPending]); err != nil {
		return nil, fmt.Errorf("restore: %w", err)
	}
	var ok bool
	if g.weather, ok = weather.ParseKind(m[MetaWeather]); !ok {
		return nil, fmt.Errorf("restore: unknown weather %q", m[MetaWeather])
	}
	ints := []struct {
		key string
		dst *int
	}{
		{MetaDay, &g.day},
		{MetaSinceDeath, &g.daysSinceLastDeath},
		{MetaSponsorPoints, &g.sponsorPoints},
	}
	for _, f := range ints {
		if *f.dst, err = strconv.Atoi(m[f.key]); err != nil {
			return nil, fmt.Errorf("restore %s: %w", f.key, err)
		}
	}
	if g.settings.WeatherSeed, err = strconv.ParseInt(m[MetaWeatherSeed], 10, 64); err != nil {
		return nil, fmt.Errorf("restore %s: %w", MetaWeatherSeed, err)
	}
	g.forecast = weather.NewForecaster(g.settings.WeatherSeed)

	if ids := m[MetaFallen]; ids != "" {
		for _, id := range strings.Split(ids, ",") {
			if t := g.roster.Find(id); t != nil {
				g.fallen = append(g.fallen, t.Clone())
			}
		}
	}

	g.log.Info("contest restored", "stage", g.stage.String(), "day", g.day, "alive", g.roster.AliveCount())
	return g, nil
}
