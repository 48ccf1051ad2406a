package solve

import "context"

// Status is the outcome reported by a solving backend.
type Status int

const (
	// StatusInvalid means the backend rejected the model itself. With the
	// shortage variables the model is always satisfiable, so this signals a
	// construction defect, never a staffing outcome.
	StatusInvalid Status = iota
	// StatusInfeasible means no assignment satisfies the constraints.
	StatusInfeasible
	// StatusFeasible means the budget ran out before optimality was proven;
	// the best incumbent is returned.
	StatusFeasible
	// StatusOptimal means the returned assignment maximizes the objective.
	StatusOptimal
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusFeasible:
		return "feasible"
	case StatusInfeasible:
		return "infeasible"
	case StatusInvalid:
		return "invalid"
	}
	return "unknown"
}

// Solution is the solved variable assignment. Values is indexed like
// Model.Vars. Multiple optimal assignments may exist for the same objective;
// any of them is a valid answer.
type Solution struct {
	Status    Status
	Objective int64
	Values    []int64
}

// Backend is the combinatorial optimization engine the model is delegated
// to. It must honor the wall-clock budget in Params and return its best
// incumbent rather than abort when the budget runs out.
type Backend interface {
	Solve(ctx context.Context, m *Model, p Params) (Solution, error)
}
