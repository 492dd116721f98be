package solver

import (
	"math/big"
)

// SolveRational solves matrix * x = vector exactly over the rationals using
// Gauss-Jordan elimination with the same pivot selection as Solve.
// Every entry is kept reduced, so magnitudes stay bounded at the cost of a
// GCD per operation.
func SolveRational(matrix [][]*big.Int, vector []*big.Int) ([]*big.Rat, error) {
	ai, bi, err := copySystem(matrix, vector)
	if err != nil {
		return nil, err
	}
	n := len(ai)

	a := make([][]*big.Rat, n)
	b := make([]*big.Rat, n)
	for i := range ai {
		a[i] = make([]*big.Rat, n)
		for j := range ai[i] {
			a[i][j] = new(big.Rat).SetInt(ai[i][j])
		}
		b[i] = new(big.Rat).SetInt(bi[i])
	}

	tmp := new(big.Rat)
	for p := 0; p < n; p++ {
		best := p
		for i := p + 1; i < n; i++ {
			if ratCmpAbs(a[i][p], a[best][p]) > 0 {
				best = i
			}
		}
		a[p], a[best] = a[best], a[p]
		b[p], b[best] = b[best], b[p]

		if a[p][p].Sign() == 0 {
			return nil, &SingularMatrixError{Column: p, Size: n}
		}

		// Scale pivot row
		inv := new(big.Rat).Inv(a[p][p])
		for j := p; j < n; j++ {
			a[p][j].Mul(a[p][j], inv)
		}
		b[p].Mul(b[p], inv)

		// Eliminate above and below
		for i := 0; i < n; i++ {
			if i == p || a[i][p].Sign() == 0 {
				continue
			}
			factor := new(big.Rat).Set(a[i][p])
			for j := p; j < n; j++ {
				a[i][j].Sub(a[i][j], tmp.Mul(factor, a[p][j]))
			}
			b[i].Sub(b[i], tmp.Mul(factor, b[p]))
		}
	}

	return b, nil
}

// SolveIntegral runs SolveRational and requires every component of the
// solution to be an integer.
func SolveIntegral(matrix [][]*big.Int, vector []*big.Int) ([]*big.Int, error) {
	sol, err := SolveRational(matrix, vector)
	if err != nil {
		return nil, err
	}

	out := make([]*big.Int, len(sol))
	for i, r := range sol {
		if !r.IsInt() {
			return nil, &NonIntegralSolutionError{
				Row:         i,
				Numerator:   r.Num().String(),
				Denominator: r.Denom().String(),
			}
		}
		out[i] = new(big.Int).Set(r.Num())
	}
	return out, nil
}

func ratCmpAbs(x, y *big.Rat) int {
	ax := new(big.Rat).Abs(x)
	ay := new(big.Rat).Abs(y)
	return ax.Cmp(ay)
}
