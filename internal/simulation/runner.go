// Package simulation drives scenario matches round by round, writing the
// narration and map to an output stream, with graceful interruption on signals.
package simulation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/config"
	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/scenario"
	"github.com/cory-johannsen/skirmish/internal/observability"
)

// Outcome summarises a finished match.
type Outcome struct {
	MatchID string
	// Rounds is the number of rounds played.
	Rounds int
	// Winner is the index of the only team left standing, or -1.
	Winner int
	// Survivors are the names of the characters still alive, in turn order.
	Survivors []string
	// Interrupted is true when the context was cancelled before the match ended.
	Interrupted bool
}

// Runner plays scenarios on an Engine.
type Runner struct {
	engine *combat.Engine
	out    io.Writer
	logger *zap.Logger
}

// NewRunner creates a Runner writing narration to out.
//
// Precondition: engine, out and logger must be non-nil.
func NewRunner(engine *combat.Engine, out io.Writer, logger *zap.Logger) *Runner {
	return &Runner{engine: engine, out: out, logger: logger}
}

// NotifyContext returns a context cancelled on SIGINT or SIGTERM.
func NotifyContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}

// Run builds sc as match id and plays up to rounds rounds. The match ends
// early when at most one team is left. Scripted moves are applied before each
// round; rejected orders are logged and skipped.
//
// Precondition: sc must be validated; src must be non-nil.
// Postcondition: The match is removed from the engine on return. Cancelling ctx
// stops the match between rounds with Outcome.Interrupted set and a nil error.
func (r *Runner) Run(ctx context.Context, id string, base config.MatchConfig, sc *scenario.Scenario, rounds int, src dice.Source) (Outcome, error) {
	start := time.Now()
	out := Outcome{MatchID: id, Winner: -1}

	cfg := sc.Match(base)
	logger := observability.MatchLogger(r.logger, id, cfg)
	g, err := r.engine.StartMatch(id, cfg, src, logger)
	if err != nil {
		return out, err
	}
	defer r.engine.EndMatch(id)

	script, err := sc.Populate(g, cfg.MoveHitDamage)
	if err != nil {
		return out, fmt.Errorf("populating match %q: %w", id, err)
	}
	logger.Info("match started",
		zap.String("scenario", sc.Name),
		zap.Int("characters", len(g.Characters())),
		zap.Int("rounds", rounds),
	)
	r.printf("%s\n\n", g.Map())

	for round := 1; round <= rounds; round++ {
		if len(g.LivingTeams()) <= 1 {
			break
		}
		for _, err := range script.Apply(round) {
			logger.Warn("scripted move rejected", zap.Int("round", round), zap.Error(err))
		}
		res, err := g.RunOneRound(ctx)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			out.Interrupted = true
			logger.Info("match interrupted", zap.Int("round", round))
			break
		}
		if err != nil {
			return out, err
		}
		out.Rounds = res.Round
		r.printRound(g, res)
	}

	living := g.LivingTeams()
	if len(living) == 1 {
		out.Winner = living[0]
	}
	for _, c := range g.Characters() {
		out.Survivors = append(out.Survivors, c.Name)
	}
	r.printOutcome(out)
	logger.Info("match finished",
		zap.Int("rounds", out.Rounds),
		zap.Int("winner", out.Winner),
		zap.Strings("survivors", out.Survivors),
		zap.Bool("interrupted", out.Interrupted),
		zap.Duration("elapsed", time.Since(start)),
	)
	return out, nil
}

func (r *Runner) printRound(g *combat.Game, res combat.RoundResult) {
	r.printf("== Round %d ==\n", res.Round)
	for _, line := range res.Narration {
		r.printf("%s\n", line)
	}
	for _, skipped := range res.Skipped {
		r.printf("(skipped) %v\n", skipped)
	}
	r.printf("\n%s\n\n", g.Map())
}

func (r *Runner) printOutcome(o Outcome) {
	switch {
	case o.Interrupted:
		r.printf("Interrupted after %d rounds.\n", o.Rounds)
	case o.Winner >= 0:
		r.printf("Team %d wins after %d rounds: %s\n", o.Winner, o.Rounds, strings.Join(o.Survivors, ", "))
	default:
		r.printf("No winner after %d rounds.\n", o.Rounds)
	}
}

func (r *Runner) printf(format string, args ...any) {
	if _, err := fmt.Fprintf(r.out, format, args...); err != nil {
		r.logger.Warn("writing narration", zap.Error(err))
	}
}
