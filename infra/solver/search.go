package solver

import (
	"context"
	"time"

	"github.com/kilianp07/labstaff/core/solve"
)

// consState tracks one constraint during the search: the sum of assigned
// terms plus the min/max still reachable from unassigned ones.
type consState struct {
	op     solve.Op
	rhs    int64
	sum    int64
	minRem int64
	maxRem int64
}

// varRef links a variable to one constraint it participates in.
type varRef struct {
	cons int
	coef int64
}

type searcher struct {
	ctx      context.Context
	m        *solve.Model
	deadline time.Time

	vals    []int64
	order   []int // free variables in branch order
	cons    []consState
	touch   [][]varRef // per variable: constraints it appears in
	objCoef []int64

	objFixed int64
	objRem   int64

	best      []int64
	bestObj   int64
	haveBest  bool
	solutions int
	onImprove func()

	timedOut bool
	stop     bool
}

func newSearcher(ctx context.Context, m *solve.Model, deadline time.Time) *searcher {
	s := &searcher{
		ctx:      ctx,
		m:        m,
		deadline: deadline,
		vals:     make([]int64, len(m.Vars)),
		cons:     make([]consState, len(m.Cons)),
		touch:    make([][]varRef, len(m.Vars)),
		objCoef:  make([]int64, len(m.Vars)),
	}
	for _, t := range m.Obj {
		s.objCoef[t.Var] += t.Coef
	}
	free := make([]bool, len(m.Vars))
	for i, v := range m.Vars {
		s.vals[i] = v.Lo
		if v.Lo < v.Hi {
			free[i] = true
			s.order = append(s.order, i)
			s.objRem += maxContrib(s.objCoef[i], v)
		} else {
			s.objFixed += s.objCoef[i] * v.Lo
		}
	}
	for ci, c := range m.Cons {
		s.cons[ci].op = c.Op
		s.cons[ci].rhs = c.RHS
		for _, t := range c.Terms {
			v := m.Vars[t.Var]
			if free[t.Var] {
				s.cons[ci].minRem += minTerm(t.Coef, v)
				s.cons[ci].maxRem += maxTerm(t.Coef, v)
				s.touch[t.Var] = append(s.touch[t.Var], varRef{cons: ci, coef: t.Coef})
			} else {
				s.cons[ci].sum += t.Coef * v.Lo
			}
		}
	}
	return s
}

func minTerm(coef int64, v solve.Var) int64 {
	if coef >= 0 {
		return coef * v.Lo
	}
	return coef * v.Hi
}

func maxTerm(coef int64, v solve.Var) int64 {
	if coef >= 0 {
		return coef * v.Hi
	}
	return coef * v.Lo
}

func maxContrib(coef int64, v solve.Var) int64 {
	return maxTerm(coef, v)
}

// assign fixes variable vi to val, updating constraint and objective state.
func (s *searcher) assign(vi int, val int64) {
	v := s.m.Vars[vi]
	s.vals[vi] = val
	for _, r := range s.touch[vi] {
		c := &s.cons[r.cons]
		c.sum += r.coef * val
		c.minRem -= minTerm(r.coef, v)
		c.maxRem -= maxTerm(r.coef, v)
	}
	s.objFixed += s.objCoef[vi] * val
	s.objRem -= maxContrib(s.objCoef[vi], v)
}

func (s *searcher) unassign(vi int, val int64) {
	v := s.m.Vars[vi]
	for _, r := range s.touch[vi] {
		c := &s.cons[r.cons]
		c.sum -= r.coef * val
		c.minRem += minTerm(r.coef, v)
		c.maxRem += maxTerm(r.coef, v)
	}
	s.objFixed -= s.objCoef[vi] * val
	s.objRem += maxContrib(s.objCoef[vi], v)
	s.vals[vi] = v.Lo
}

// feasibleAfter checks only the constraints touching vi.
func (s *searcher) feasibleAfter(vi int) bool {
	for _, r := range s.touch[vi] {
		c := s.cons[r.cons]
		switch c.op {
		case solve.OpLE:
			if c.sum+c.minRem > c.rhs {
				return false
			}
		case solve.OpEQ:
			if c.sum+c.minRem > c.rhs || c.sum+c.maxRem < c.rhs {
				return false
			}
		}
	}
	return true
}

func (s *searcher) expired() bool {
	if s.timedOut {
		return true
	}
	select {
	case <-s.ctx.Done():
		s.timedOut = true
		return true
	default:
	}
	if time.Now().After(s.deadline) {
		s.timedOut = true
	}
	return s.timedOut
}

// dfs explores assignments of order[depth:]. Leaves reached through the
// incremental feasibility checks satisfy every constraint exactly.
func (s *searcher) dfs(depth int) {
	if s.stop || s.expired() {
		return
	}
	if s.haveBest && s.objFixed+s.objRem <= s.bestObj {
		return
	}
	if depth == len(s.order) {
		s.record(s.vals, s.objFixed)
		if s.onImprove != nil {
			s.onImprove()
		}
		return
	}
	vi := s.order[depth]
	v := s.m.Vars[vi]
	for _, val := range s.branchValues(vi, v) {
		s.assign(vi, val)
		if s.feasibleAfter(vi) {
			s.dfs(depth + 1)
		}
		s.unassign(vi, val)
		if s.stop || s.timedOut {
			return
		}
	}
}

// branchValues orders the domain so values pulling the objective up are
// tried first.
func (s *searcher) branchValues(vi int, v solve.Var) []int64 {
	vals := make([]int64, 0, v.Hi-v.Lo+1)
	if s.objCoef[vi] > 0 {
		for x := v.Hi; x >= v.Lo; x-- {
			vals = append(vals, x)
		}
	} else {
		for x := v.Lo; x <= v.Hi; x++ {
			vals = append(vals, x)
		}
	}
	return vals
}

func (s *searcher) record(vals []int64, obj int64) {
	if s.haveBest && obj <= s.bestObj {
		return
	}
	s.best = append([]int64(nil), vals...)
	s.bestObj = obj
	s.haveBest = true
	s.solutions++
}

// baseline builds a cheap first incumbent: every free variable at its lower
// bound, then one repair pass over the equality constraints. For the
// staffing model this is the all-short assignment, which is always valid.
func (s *searcher) baseline() ([]int64, int64, bool) {
	vals := make([]int64, len(s.m.Vars))
	for i, v := range s.m.Vars {
		vals[i] = v.Lo
	}
	adjusted := make([]bool, len(s.m.Vars))
	for _, c := range s.m.Cons {
		if c.Op != solve.OpEQ {
			continue
		}
		var sum int64
		for _, t := range c.Terms {
			sum += t.Coef * vals[t.Var]
		}
		deficit := c.RHS - sum
		if deficit == 0 {
			continue
		}
		repaired := false
		for _, t := range c.Terms {
			if t.Coef == 0 || adjusted[t.Var] {
				continue
			}
			if deficit%t.Coef != 0 {
				continue
			}
			next := vals[t.Var] + deficit/t.Coef
			v := s.m.Vars[t.Var]
			if next < v.Lo || next > v.Hi {
				continue
			}
			vals[t.Var] = next
			adjusted[t.Var] = true
			repaired = true
			break
		}
		if !repaired {
			return nil, 0, false
		}
	}
	// Full verification; the repair pass is heuristic.
	for _, c := range s.m.Cons {
		var sum int64
		for _, t := range c.Terms {
			sum += t.Coef * vals[t.Var]
		}
		if c.Op == solve.OpLE && sum > c.RHS {
			return nil, 0, false
		}
		if c.Op == solve.OpEQ && sum != c.RHS {
			return nil, 0, false
		}
	}
	var obj int64
	for i := range vals {
		obj += s.objCoef[i] * vals[i]
	}
	return vals, obj, true
}
