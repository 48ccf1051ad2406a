// Package solver implements the solving backend contract with an exact
// branch-and-bound search over the model's bounded integer variables. A
// root LP relaxation solved with gonum's simplex provides the global upper
// bound used to prove optimality early.
package solver

import (
	"context"
	"fmt"
	"time"

	"github.com/kilianp07/labstaff/core/solve"
	"github.com/kilianp07/labstaff/infra/logger"
	"github.com/kilianp07/labstaff/internal/eventbus"
)

// Progress reports an improved incumbent found during the search.
type Progress struct {
	Solutions int
	Objective int64
}

// BranchBound is the default solving backend.
type BranchBound struct {
	log logger.Logger
	bus *eventbus.Bus[Progress]
}

// New creates a BranchBound backend. The bus may be nil when nobody listens
// for progress events.
func New(log logger.Logger, bus *eventbus.Bus[Progress]) *BranchBound {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &BranchBound{log: log, bus: bus}
}

// Solve searches for the assignment maximizing the model objective. It
// honors the wall-clock budget: on exhaustion the best incumbent is
// returned with StatusFeasible. An invalid model yields StatusInvalid and a
// model that admits no assignment yields StatusInfeasible.
func (b *BranchBound) Solve(ctx context.Context, m *solve.Model, p solve.Params) (solve.Solution, error) {
	if err := validate(m); err != nil {
		b.log.Errorf("model rejected: %v", err)
		return solve.Solution{Status: solve.StatusInvalid}, nil
	}
	budget := time.Duration(p.TimeBudgetSeconds * float64(time.Second))
	if budget <= 0 {
		budget = 60 * time.Second
	}
	b.log.Debugw("starting search", map[string]any{
		"vars":        len(m.Vars),
		"constraints": len(m.Cons),
		"budget":      budget.String(),
		"workers":     p.Workers,
	})

	s := newSearcher(ctx, m, time.Now().Add(budget))
	if vals, obj, ok := s.baseline(); ok {
		s.record(vals, obj)
		b.publish(s)
	}
	bound, haveBound := lpBound(m)
	if haveBound {
		b.log.Debugf("lp relaxation bound: %d", bound)
		if s.haveBest && s.bestObj >= bound {
			return solve.Solution{Status: solve.StatusOptimal, Objective: s.bestObj, Values: s.best}, nil
		}
	}
	s.onImprove = func() {
		b.publish(s)
		if haveBound && s.bestObj >= bound {
			s.stop = true
		}
	}

	s.dfs(0)

	switch {
	case !s.haveBest:
		if s.timedOut {
			// Nothing found inside the budget; the caller cannot tell a hard
			// model from an undersized budget, so report the truth.
			return solve.Solution{Status: solve.StatusFeasible}, fmt.Errorf("budget exhausted before any solution was found")
		}
		return solve.Solution{Status: solve.StatusInfeasible}, nil
	case s.timedOut && !s.stop:
		b.log.Infof("budget exhausted, returning incumbent objective=%d solutions=%d", s.bestObj, s.solutions)
		return solve.Solution{Status: solve.StatusFeasible, Objective: s.bestObj, Values: s.best}, nil
	default:
		b.log.Infof("optimal objective=%d solutions=%d", s.bestObj, s.solutions)
		return solve.Solution{Status: solve.StatusOptimal, Objective: s.bestObj, Values: s.best}, nil
	}
}

func (b *BranchBound) publish(s *searcher) {
	if b.bus != nil {
		b.bus.Publish(Progress{Solutions: s.solutions, Objective: s.bestObj})
	}
	b.log.Debugf("incumbent %d after %d solutions", s.bestObj, s.solutions)
}

func validate(m *solve.Model) error {
	if m == nil {
		return fmt.Errorf("nil model")
	}
	for i, v := range m.Vars {
		if v.Lo > v.Hi {
			return fmt.Errorf("variable %d (%s) has empty domain [%d, %d]", i, v.Name, v.Lo, v.Hi)
		}
	}
	check := func(terms []solve.Term, what string) error {
		for _, t := range terms {
			if t.Var < 0 || t.Var >= len(m.Vars) {
				return fmt.Errorf("%s references unknown variable %d", what, t.Var)
			}
		}
		return nil
	}
	for i, c := range m.Cons {
		if c.Op != solve.OpLE && c.Op != solve.OpEQ {
			return fmt.Errorf("constraint %d has unknown comparator", i)
		}
		if err := check(c.Terms, fmt.Sprintf("constraint %d", i)); err != nil {
			return err
		}
	}
	return check(m.Obj, "objective")
}
