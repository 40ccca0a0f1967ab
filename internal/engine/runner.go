package engine

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"sync/atomic"
	"time"
)

// pausePoll is how often a paused runner checks whether it was resumed.
const pausePoll = 100 * time.Millisecond

// Runner auto-plays a Game, one Advance per interval.
type Runner struct {
	Game     *Game
	Interval time.Duration // base delay between steps

	speed atomic.Uint64 // float64 bits; 1.0 = base interval, 0 = paused
	steps atomic.Uint64
}

// NewRunner creates a runner at normal speed.
func NewRunner(g *Game, interval time.Duration) *Runner {
	r := &Runner{Game: g, Interval: interval}
	r.SetSpeed(1.0)
	return r
}

// SetSpeed changes the playback multiplier. Zero or less pauses.
func (r *Runner) SetSpeed(speed float64) {
	r.speed.Store(math.Float64bits(speed))
}

// Speed returns the playback multiplier.
func (r *Runner) Speed() float64 {
	return math.Float64frombits(r.speed.Load())
}

// Steps returns how many times the runner has advanced the game.
func (r *Runner) Steps() uint64 {
	return r.steps.Load()
}

// Run advances the game until a winner is crowned or ctx is done.
func (r *Runner) Run(ctx context.Context) error {
	slog.Info("runner started", "interval", r.Interval, "speed", r.Speed())
	defer func() { slog.Info("runner stopped", "steps", r.Steps()) }()

	for {
		speed := r.Speed()
		delay := pausePoll
		if speed > 0 {
			delay = time.Duration(float64(r.Interval) / speed)
		}
		if delay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
		if speed <= 0 {
			continue
		}

		stage, err := r.Game.Advance(ctx)
		if errors.Is(err, ErrGameOver) {
			return nil
		}
		if err != nil {
			return err
		}
		r.steps.Add(1)
		if stage == StageWinner {
			return nil
		}
	}
}
