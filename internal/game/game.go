// Package game plays Getting to Philosophy: starting from an article it
// follows the first unread link of each page, backtracking to the
// discovering page when a page runs out of links, until it reaches the
// target or a terminal condition.
package game

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonesrussell/philosophy/internal/logger"
	"github.com/jonesrussell/philosophy/internal/page"
	"github.com/jonesrussell/philosophy/internal/store"
	"github.com/jonesrussell/philosophy/internal/wiki"
)

// ErrNegativeMaxHops is returned by New for a negative hop limit.
var ErrNegativeMaxHops = errors.New("max hops must not be negative")

// Hop is reported to the observer after each move.
type Hop struct {
	// Index is the 1-based hop number.
	Index int
	Key   wiki.Key
	// Backtrack is true when the move returned to the page that discovered
	// the previous one.
	Backtrack bool
	// Missing is true when the wiki has no article for Key.
	Missing bool
}

// Option configures a Game.
type Option func(*Game)

// WithLogger sets the game logger.
func WithLogger(log logger.Interface) Option {
	return func(g *Game) {
		if log != nil {
			g.log = log
		}
	}
}

// WithHopObserver registers fn to be called after every hop.
func WithHopObserver(fn func(Hop)) Option {
	return func(g *Game) {
		g.observer = fn
	}
}

// Game is a single play. It is built once per invocation and discarded after
// Play returns.
type Game struct {
	store    *store.Store
	target   *store.Entry
	maxHops  int
	hops     []*store.Entry
	observer func(Hop)
	log      logger.Interface
}

// New resolves and fetches the target right away. A missing target is not
// an error here; Play reports it.
func New(ctx context.Context, s *store.Store, targetRef string, maxHops int, opts ...Option) (*Game, error) {
	if maxHops < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeMaxHops, maxHops)
	}

	g := &Game{
		store:   s,
		maxHops: maxHops,
		log:     logger.NewNoOp(),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.log = g.log.WithComponent("game")

	target, err := s.Fetch(ctx, targetRef, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch target: %w", err)
	}
	g.target = target

	return g, nil
}

// Play walks from startRef until a terminal outcome. The error is non-nil
// only when the run was aborted, in which case the outcome is meaningless.
func (g *Game) Play(ctx context.Context, startRef string) (Outcome, error) {
	start := time.Now()

	if g.target.Missing() {
		g.log.Info("Target does not exist", "target", g.target.Key.String())
		return TargetMissing, nil
	}

	current, err := g.store.Fetch(ctx, startRef, nil)
	if err != nil {
		return 0, fmt.Errorf("fetch start: %w", err)
	}

	for {
		if outcome, done := g.terminal(current); done {
			g.log.Info("Game over",
				"outcome", outcome.String(),
				"hops", len(g.hops),
				"fetches", g.store.Fetches(),
				"duration", time.Since(start),
			)
			return outcome, nil
		}

		if err := ctx.Err(); err != nil {
			return 0, fmt.Errorf("play: %w", err)
		}

		next, kind, err := g.store.Move(ctx, current.Page)
		if err != nil {
			return 0, fmt.Errorf("hop %d from %s: %w", len(g.hops)+1, current.Key, err)
		}
		if kind == page.StepExhausted {
			g.log.Info("Game over", "outcome", DeadEnd.String(), "hops", len(g.hops))
			return DeadEnd, nil
		}

		g.record(next, kind == page.StepBacktrack)
		current = next
	}
}

// terminal checks the stop conditions in order: target reached, hop budget
// spent, nothing to read.
func (g *Game) terminal(current *store.Entry) (Outcome, bool) {
	switch {
	case current != nil && current.Key == g.target.Key:
		return Found, true
	case len(g.hops) == g.maxHops:
		return HopLimitExceeded, true
	case current == nil || current.Missing():
		return NoCurrentPage, true
	default:
		return 0, false
	}
}

func (g *Game) record(to *store.Entry, backtrack bool) {
	g.hops = append(g.hops, to)

	hop := Hop{
		Index:     len(g.hops),
		Key:       to.Key,
		Backtrack: backtrack,
		Missing:   to.Missing(),
	}

	g.log.Debug("Hop", "index", hop.Index, "key", hop.Key.String(), "backtrack", hop.Backtrack)
	if g.observer != nil {
		g.observer(hop)
	}
}

// Hops returns the entries visited after the start page, in order.
func (g *Game) Hops() []*store.Entry {
	out := make([]*store.Entry, len(g.hops))
	copy(out, g.hops)
	return out
}

// Target returns the target entry.
func (g *Game) Target() *store.Entry {
	return g.target
}
