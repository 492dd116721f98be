package solver

import (
	"fmt"
	"math/big"
)

// Solve solves matrix * x = vector exactly over the integers using
// fraction-free Gaussian elimination with partial pivoting.
//
// Forward elimination never divides: each row below the pivot is updated as
// row_i[j] = row_i[j]*pivot - row_p[j]*factor, which zeroes row_i[p] at the
// cost of growing entry magnitudes. All division is deferred to
// back-substitution and must be exact, otherwise a NonIntegralSolutionError
// is returned.
//
// The inputs are copied and never modified. Only rows are swapped, so
// result[i] is the value of the variable in original column i.
func Solve(matrix [][]*big.Int, vector []*big.Int) ([]*big.Int, error) {
	a, b, err := copySystem(matrix, vector)
	if err != nil {
		return nil, err
	}
	n := len(a)

	// Forward elimination
	for p := 0; p < n; p++ {
		pivotRow := selectPivot(a, p)

		// Swap rows
		a[p], a[pivotRow] = a[pivotRow], a[p]
		b[p], b[pivotRow] = b[pivotRow], b[p]

		pivot := a[p][p]
		if pivot.Sign() == 0 {
			return nil, &SingularMatrixError{Column: p, Size: n}
		}

		// Eliminate below
		tmp := new(big.Int)
		for i := p + 1; i < n; i++ {
			if a[i][p].Sign() == 0 {
				continue
			}
			factor := new(big.Int).Set(a[i][p])
			for j := p; j < n; j++ {
				a[i][j].Mul(a[i][j], pivot)
				a[i][j].Sub(a[i][j], tmp.Mul(a[p][j], factor))
			}
			b[i].Mul(b[i], pivot)
			b[i].Sub(b[i], tmp.Mul(b[p], factor))
		}
	}

	// Back substitution
	solutions := make([]*big.Int, n)
	rem := new(big.Int)
	tmp := new(big.Int)
	for i := n - 1; i >= 0; i-- {
		num := new(big.Int).Set(b[i])
		for j := i + 1; j < n; j++ {
			num.Sub(num, tmp.Mul(a[i][j], solutions[j]))
		}

		q := new(big.Int)
		q.QuoRem(num, a[i][i], rem)
		if rem.Sign() != 0 {
			return nil, &NonIntegralSolutionError{
				Row:         i,
				Numerator:   num.String(),
				Denominator: a[i][i].String(),
			}
		}
		solutions[i] = q
	}

	return solutions, nil
}

// selectPivot returns the row in [p, n) with the largest |a[row][p]|,
// preferring the first occurrence on ties.
func selectPivot(a [][]*big.Int, p int) int {
	best := p
	for i := p + 1; i < len(a); i++ {
		if a[i][p].CmpAbs(a[best][p]) > 0 {
			best = i
		}
	}
	return best
}

// copySystem validates the shape of the system and returns deep copies
func copySystem(matrix [][]*big.Int, vector []*big.Int) ([][]*big.Int, []*big.Int, error) {
	n := len(matrix)
	if n == 0 {
		return nil, nil, &DimensionError{Reason: "empty system"}
	}
	if len(vector) != n {
		return nil, nil, &DimensionError{Reason: fmt.Sprintf("matrix has %d rows but vector has %d entries", n, len(vector))}
	}

	a := make([][]*big.Int, n)
	b := make([]*big.Int, n)
	for i := range matrix {
		if len(matrix[i]) != n {
			return nil, nil, &DimensionError{Reason: fmt.Sprintf("row %d has %d entries, want %d", i, len(matrix[i]), n)}
		}
		a[i] = make([]*big.Int, n)
		for j, v := range matrix[i] {
			if v == nil {
				return nil, nil, &DimensionError{Reason: fmt.Sprintf("nil entry at [%d][%d]", i, j)}
			}
			a[i][j] = new(big.Int).Set(v)
		}
		if vector[i] == nil {
			return nil, nil, &DimensionError{Reason: fmt.Sprintf("nil vector entry at %d", i)}
		}
		b[i] = new(big.Int).Set(vector[i])
	}
	return a, b, nil
}
