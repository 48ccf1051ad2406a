package solver

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	"github.com/kilianp07/labstaff/core/solve"
)

// lpBound solves the LP relaxation of the model with the simplex method and
// returns an integer upper bound on the objective. The bound lets the
// search stop as soon as the incumbent reaches it. A false return means the
// relaxation could not be solved; the search then runs without the bound.
func lpBound(m *solve.Model) (int64, bool) {
	n := len(m.Vars)
	if n == 0 {
		return 0, false
	}

	// Simplex minimizes, so negate the objective.
	c := make([]float64, n)
	for _, t := range m.Obj {
		c[t.Var] -= float64(t.Coef)
	}

	var eqCount, leCount int
	for _, con := range m.Cons {
		if con.Op == solve.OpEQ {
			eqCount++
		} else {
			leCount++
		}
	}

	// Inequalities: the LE constraints plus both bounds of every variable.
	gRows := leCount + 2*n
	g := mat.NewDense(gRows, n, nil)
	h := make([]float64, gRows)
	row := 0
	for _, con := range m.Cons {
		if con.Op != solve.OpLE {
			continue
		}
		for _, t := range con.Terms {
			g.Set(row, t.Var, g.At(row, t.Var)+float64(t.Coef))
		}
		h[row] = float64(con.RHS)
		row++
	}
	for i, v := range m.Vars {
		g.Set(row, i, 1)
		h[row] = float64(v.Hi)
		row++
		g.Set(row, i, -1)
		h[row] = -float64(v.Lo)
		row++
	}

	var a *mat.Dense
	var b []float64
	if eqCount > 0 {
		a = mat.NewDense(eqCount, n, nil)
		b = make([]float64, eqCount)
		row = 0
		for _, con := range m.Cons {
			if con.Op != solve.OpEQ {
				continue
			}
			for _, t := range con.Terms {
				a.Set(row, t.Var, a.At(row, t.Var)+float64(t.Coef))
			}
			b[row] = float64(con.RHS)
			row++
		}
	} else {
		a = mat.NewDense(1, n, nil)
		b = []float64{0}
	}

	cStd, aStd, bStd := lp.Convert(c, g, h, a, b)
	opt, _, err := lp.Simplex(cStd, aStd, bStd, 1e-7, nil)
	if err != nil {
		return 0, false
	}
	// The relaxation minimized -objective; an integral objective lets the
	// bound round down.
	return int64(math.Floor(-opt + 1e-6)), true
}
