package combat

import (
	"context"
	"fmt"
	"slices"

	"github.com/looplab/fsm"
	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/event"
)

// Round phases.
const (
	PhaseIdle     = "idle"
	PhaseMovement = "movement"
	PhaseSkill    = "skill"
	PhaseEnd      = "end"
)

const (
	evMove   = "move"
	evAct    = "act"
	evSettle = "settle"
	evFinish = "finish"
	evAbort  = "abort"
)

func newPhaseMachine(g *Game) *fsm.FSM {
	return fsm.NewFSM(
		PhaseIdle,
		fsm.Events{
			{Name: evMove, Src: []string{PhaseIdle}, Dst: PhaseMovement},
			{Name: evAct, Src: []string{PhaseMovement}, Dst: PhaseSkill},
			{Name: evSettle, Src: []string{PhaseSkill}, Dst: PhaseEnd},
			{Name: evFinish, Src: []string{PhaseEnd}, Dst: PhaseIdle},
			{Name: evAbort, Src: []string{PhaseMovement, PhaseSkill, PhaseEnd}, Dst: PhaseIdle},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				g.logger.Debug("round phase",
					zap.Int("round", g.round),
					zap.String("from", e.Src),
					zap.String("to", e.Dst),
				)
			},
		},
	)
}

// ActionError records a character whose action was skipped this round.
// Skipped actions never abort the round for other characters.
type ActionError struct {
	Actor string
	Phase string
	Err   error
}

// Error implements error.
func (e *ActionError) Error() string {
	return fmt.Sprintf("%s (%s phase): %v", e.Actor, e.Phase, e.Err)
}

// Unwrap returns the underlying error.
func (e *ActionError) Unwrap() error { return e.Err }

// RoundResult is what one call to RunOneRound produced.
type RoundResult struct {
	// Round is the 1-based number of the round just played.
	Round int
	// Narration is the human-readable account of the round in order.
	Narration []string
	// Skipped lists actions that could not be carried out.
	Skipped []*ActionError
}

// RunOneRound plays one full round: movement for every character in agility
// order, then skills in the same order, then the end-of-round notification.
//
// Precondition: the game must be idle.
// Postcondition: The game is idle again and Round() is incremented. The error is
// non-nil only when the round could not be started or ctx was cancelled between
// phases; per-character failures are reported in RoundResult.Skipped.
func (g *Game) RunOneRound(ctx context.Context) (RoundResult, error) {
	if err := ctx.Err(); err != nil {
		return RoundResult{}, err
	}
	if err := g.phase.Event(ctx, evMove); err != nil {
		return RoundResult{}, fmt.Errorf("starting round %d: %w", g.round+1, err)
	}
	g.round++
	g.narration = nil
	var skipped []*ActionError

	sortByAgilityDesc(g.roster)
	for _, c := range slices.Clone(g.roster) {
		if !c.live {
			continue
		}
		if err := g.moveCharacter(c); err != nil {
			skipped = append(skipped, g.skip(c, PhaseMovement, err))
		}
	}

	if err := g.advancePhase(ctx, evAct); err != nil {
		return g.result(skipped), err
	}
	for _, c := range slices.Clone(g.roster) {
		if !c.live {
			continue
		}
		if err := g.act(c); err != nil {
			skipped = append(skipped, g.skip(c, PhaseSkill, err))
		}
		c.Handle(event.RoundFinish)
	}

	if err := g.advancePhase(ctx, evSettle); err != nil {
		return g.result(skipped), err
	}
	for _, c := range slices.Clone(g.roster) {
		if c.live {
			c.Handle(event.GameRoundFinish)
		}
	}

	if err := g.phase.Event(ctx, evFinish); err != nil {
		return g.result(skipped), fmt.Errorf("finishing round %d: %w", g.round, err)
	}
	g.logger.Info("round finished",
		zap.Int("round", g.round),
		zap.Int("alive", len(g.roster)),
		zap.Int("skipped", len(skipped)),
	)
	return g.result(skipped), nil
}

// advancePhase moves to the next phase, or back to idle when ctx was cancelled.
func (g *Game) advancePhase(ctx context.Context, ev string) error {
	if err := ctx.Err(); err != nil {
		_ = g.phase.Event(context.Background(), evAbort)
		return fmt.Errorf("round %d interrupted: %w", g.round, err)
	}
	if err := g.phase.Event(ctx, ev); err != nil {
		_ = g.phase.Event(context.Background(), evAbort)
		return fmt.Errorf("round %d: %w", g.round, err)
	}
	return nil
}

func (g *Game) result(skipped []*ActionError) RoundResult {
	return RoundResult{Round: g.round, Narration: g.narration, Skipped: skipped}
}

func (g *Game) skip(c *Character, phase string, err error) *ActionError {
	ae := &ActionError{Actor: c.Name, Phase: phase, Err: err}
	g.logger.Warn("action skipped",
		zap.Int("round", g.round),
		zap.String("character", c.Name),
		zap.String("phase", phase),
		zap.Error(err),
	)
	return ae
}

// moveCharacter runs one character's movement turn.
func (g *Game) moveCharacter(c *Character) error {
	c.Handle(event.NewRound)
	defer c.Handle(event.MovementFinish)

	mv, ok := c.Movement()
	if !ok {
		return nil
	}
	occupant, err := g.grid.Move(c, mv)
	if err != nil {
		return err
	}
	p, _ := g.grid.Position(c)
	g.narrate(fmt.Sprintf("%s moves %s to %s", c.Name, mv, p))
	if occupant == nil {
		return nil
	}
	target := occupant.(*Character)
	g.narrate(fmt.Sprintf("%s runs into %s", c.Name, target.Name))
	c.Handle(MovementHit{Source: c, Target: target})
	if target.live {
		target.Handle(MovementHitBy{Source: c, Target: target})
	}
	return nil
}

// act runs one character's skill turn against its nearest enemy.
func (g *Game) act(c *Character) error {
	target, err := g.FindNearestEnemy(c)
	if err != nil {
		return err
	}
	target.Handle(SkillHit{Skill: c.selection, Target: target, Args: c.selectionArgs})
	return nil
}
