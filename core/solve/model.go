package solve

import (
	"errors"
	"fmt"

	"github.com/kilianp07/labstaff/core/availability"
	"github.com/kilianp07/labstaff/core/model"
)

// Objective weights. Shortage dominates so the solver always prefers
// reducing unmet headcount over adding arbitrary extra assignments; the
// small bonus rewards spreading partial coverage across slots.
const (
	ShortagePenalty = 1000
	CoverageBonus   = 10
)

// ErrNoSchedulableData indicates there is nothing to solve: zero valid slots
// or zero TAs with availability data.
var ErrNoSchedulableData = errors.New("no schedulable data")

// Var is a bounded integer decision variable. Booleans use bounds [0, 1];
// variables fixed at construction time use Lo == Hi.
type Var struct {
	Name string
	Lo   int64
	Hi   int64
}

// Op is a linear constraint comparator.
type Op int

const (
	OpLE Op = iota
	OpEQ
)

// Term is one coefficient of a linear expression.
type Term struct {
	Var  int
	Coef int64
}

// Constraint is a linear constraint sum(Terms) Op RHS.
type Constraint struct {
	Terms []Term
	Op    Op
	RHS   int64
}

// Model is the decision model handed to the backend: variables, linear
// constraints and a linear maximize objective, plus the bookkeeping needed
// to project a solution back onto TAs and slots. It is built once, solved
// once and read once.
type Model struct {
	Vars []Var
	Cons []Constraint
	// Obj is the linear objective, to maximize.
	Obj []Term

	// TAs is the schedulable population in roster order. TAs without
	// availability data get no variables and are absent here.
	TAs   []model.TA
	Slots []model.Slot
	// Assign maps [ta index][slot index] to the assignment variable.
	Assign [][]int
	// Short maps [slot index] to the shortage variable.
	Short []int
}

func (m *Model) addVar(name string, lo, hi int64) int {
	m.Vars = append(m.Vars, Var{Name: name, Lo: lo, Hi: hi})
	return len(m.Vars) - 1
}

// Build translates the inputs into the decision model. The translation is
// deterministic: identical inputs produce an identical model.
func Build(tas []model.TA, avail *availability.Matrix, slots []model.Slot, caps Caps) (*Model, error) {
	if len(slots) == 0 {
		return nil, fmt.Errorf("%w: no valid slots", ErrNoSchedulableData)
	}
	sched := avail.Scheduled(tas)
	if len(sched) == 0 {
		return nil, fmt.Errorf("%w: no TAs with availability data", ErrNoSchedulableData)
	}
	if caps.MaxDailyHours <= 0 || caps.MaxLabsPerTA <= 0 {
		return nil, fmt.Errorf("caps must be positive, got %+v", caps)
	}

	m := &Model{TAs: sched, Slots: slots}

	// Assignment variables, fixed to zero when any hour of the slot is
	// unavailable for the TA.
	m.Assign = make([][]int, len(sched))
	for ti, ta := range sched {
		m.Assign[ti] = make([]int, len(slots))
		for si, s := range slots {
			hi := int64(1)
			if !avail.Free(ta.Name, s.Day, s.Start, s.End) {
				hi = 0
			}
			m.Assign[ti][si] = m.addVar(fmt.Sprintf("x_%d_%d", ti, s.ID), 0, hi)
		}
	}

	// Shortage variables, one per slot in [0, required].
	m.Short = make([]int, len(slots))
	for si, s := range slots {
		m.Short[si] = m.addVar(fmt.Sprintf("short_%d", s.ID), 0, int64(s.Required))
	}

	// Balance: assigned + shortage == required.
	for si, s := range slots {
		terms := make([]Term, 0, len(sched)+1)
		for ti := range sched {
			terms = append(terms, Term{Var: m.Assign[ti][si], Coef: 1})
		}
		terms = append(terms, Term{Var: m.Short[si], Coef: 1})
		m.Cons = append(m.Cons, Constraint{Terms: terms, Op: OpEQ, RHS: int64(s.Required)})
	}

	// Hired-hour caps.
	for ti, ta := range sched {
		terms := make([]Term, 0, len(slots))
		for si, s := range slots {
			terms = append(terms, Term{Var: m.Assign[ti][si], Coef: int64(s.Duration())})
		}
		m.Cons = append(m.Cons, Constraint{Terms: terms, Op: OpLE, RHS: int64(ta.HiredHours)})
	}

	// Pairwise overlap and daily caps, per day. Grouping by day first keeps
	// the overlap pass off slot pairs that can never intersect.
	dayOrder, byDay := groupByDay(slots)
	slotIdx := make(map[int]int, len(slots))
	for si, s := range slots {
		slotIdx[s.ID] = si
	}
	for ti := range sched {
		for _, day := range dayOrder {
			daySlots := byDay[day]
			for i := 0; i < len(daySlots); i++ {
				for j := i + 1; j < len(daySlots); j++ {
					if !model.Overlaps(daySlots[i], daySlots[j]) {
						continue
					}
					m.Cons = append(m.Cons, Constraint{
						Terms: []Term{
							{Var: m.Assign[ti][slotIdx[daySlots[i].ID]], Coef: 1},
							{Var: m.Assign[ti][slotIdx[daySlots[j].ID]], Coef: 1},
						},
						Op:  OpLE,
						RHS: 1,
					})
				}
			}
			terms := make([]Term, 0, len(daySlots))
			for _, s := range daySlots {
				terms = append(terms, Term{Var: m.Assign[ti][slotIdx[s.ID]], Coef: int64(s.Duration())})
			}
			m.Cons = append(m.Cons, Constraint{Terms: terms, Op: OpLE, RHS: int64(caps.MaxDailyHours)})
		}
	}

	// Distinct-section cap via one indicator per (TA, section): assigning
	// any slot of the section forces the indicator to one.
	sections, bySection := groupBySection(slots)
	for ti := range sched {
		inds := make([]Term, 0, len(sections))
		for _, sec := range sections {
			ind := m.addVar(fmt.Sprintf("lab_%d_%s", ti, sec), 0, 1)
			for _, s := range bySection[sec] {
				m.Cons = append(m.Cons, Constraint{
					Terms: []Term{
						{Var: m.Assign[ti][slotIdx[s.ID]], Coef: 1},
						{Var: ind, Coef: -1},
					},
					Op:  OpLE,
					RHS: 0,
				})
			}
			inds = append(inds, Term{Var: ind, Coef: 1})
		}
		m.Cons = append(m.Cons, Constraint{Terms: inds, Op: OpLE, RHS: int64(caps.MaxLabsPerTA)})
	}

	// Maximize assigned hours, heavily penalize shortage, lightly reward
	// every filled seat.
	for ti := range sched {
		for si, s := range slots {
			m.Obj = append(m.Obj, Term{Var: m.Assign[ti][si], Coef: int64(s.Duration()) + CoverageBonus})
		}
	}
	for si := range slots {
		m.Obj = append(m.Obj, Term{Var: m.Short[si], Coef: -ShortagePenalty})
	}
	return m, nil
}

// groupByDay groups slots by day preserving first-seen day order so model
// construction stays deterministic.
func groupByDay(slots []model.Slot) ([]string, map[string][]model.Slot) {
	byDay := model.SlotsByDay(slots)
	var order []string
	seen := make(map[string]bool, len(byDay))
	for _, s := range slots {
		if !seen[s.Day] {
			seen[s.Day] = true
			order = append(order, s.Day)
		}
	}
	return order, byDay
}

func groupBySection(slots []model.Slot) ([]string, map[string][]model.Slot) {
	bySection := make(map[string][]model.Slot)
	var order []string
	for _, s := range slots {
		if _, ok := bySection[s.Section]; !ok {
			order = append(order, s.Section)
		}
		bySection[s.Section] = append(bySection[s.Section], s)
	}
	return order, bySection
}
