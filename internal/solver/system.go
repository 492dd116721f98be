package solver

import (
	"fmt"
	"math/big"
	"strings"
)

// Method selects the elimination strategy
type Method int

const (
	MethodBareiss Method = iota
	MethodRational
)

func (m Method) String() string {
	switch m {
	case MethodRational:
		return "rational"
	default:
		return "bareiss"
	}
}

// ParseMethod parses a method name as used in configuration
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "bareiss", "fraction-free":
		return MethodBareiss, nil
	case "rational":
		return MethodRational, nil
	}
	return MethodBareiss, fmt.Errorf("unknown solver method %q", s)
}

// Solve dispatches to the solver for m
func (m Method) Solve(matrix [][]*big.Int, vector []*big.Int) ([]*big.Int, error) {
	if m == MethodRational {
		return SolveIntegral(matrix, vector)
	}
	return Solve(matrix, vector)
}

// LinearSystem accumulates named integer equations of the form
// sum(coeffs[i] * vars[i]) = constant
type LinearSystem struct {
	coeffs    [][]*big.Int // coefficient matrix
	constants []*big.Int   // right-hand side constants
	vars      []string     // variable names
}

// NewLinearSystem creates a new linear system
func NewLinearSystem() *LinearSystem {
	return &LinearSystem{}
}

// AddVariable adds a variable to the system
func (ls *LinearSystem) AddVariable(name string) int {
	ls.vars = append(ls.vars, name)
	return len(ls.vars) - 1
}

// AddEquation adds an equation to the system.
// coeffs maps variable index to coefficient; absent variables are zero.
func (ls *LinearSystem) AddEquation(coeffs map[int]*big.Int, constant *big.Int) {
	row := make([]*big.Int, len(ls.vars))
	for i := range row {
		row[i] = big.NewInt(0)
	}
	for idx, coeff := range coeffs {
		if idx < len(row) {
			row[idx] = new(big.Int).Set(coeff)
		}
	}
	ls.coeffs = append(ls.coeffs, row)
	ls.constants = append(ls.constants, new(big.Int).Set(constant))
}

// Solve solves the system with the given method and returns a map of
// variable name to value. The system must be square.
func (ls *LinearSystem) Solve(m Method) (map[string]*big.Int, error) {
	if len(ls.coeffs) == 0 || len(ls.vars) == 0 {
		return nil, &DimensionError{Reason: "empty system"}
	}
	if len(ls.coeffs) < len(ls.vars) {
		return nil, &DimensionError{Reason: "underdetermined system"}
	}
	if len(ls.coeffs) > len(ls.vars) {
		return nil, &DimensionError{Reason: "overdetermined system"}
	}

	// Rows added before a later AddVariable are short; pad them
	matrix := make([][]*big.Int, len(ls.coeffs))
	for i, row := range ls.coeffs {
		matrix[i] = make([]*big.Int, len(ls.vars))
		for j := range matrix[i] {
			if j < len(row) {
				matrix[i][j] = row[j]
			} else {
				matrix[i][j] = new(big.Int)
			}
		}
	}

	solutions, err := m.Solve(matrix, ls.constants)
	if err != nil {
		return nil, err
	}

	result := make(map[string]*big.Int, len(ls.vars))
	for i, name := range ls.vars {
		result[name] = solutions[i]
	}
	return result, nil
}

// CanSolve returns true if the system is square and non-empty
func (ls *LinearSystem) CanSolve() bool {
	return len(ls.vars) > 0 && len(ls.coeffs) == len(ls.vars)
}

// NumEquations returns the number of equations
func (ls *LinearSystem) NumEquations() int {
	return len(ls.coeffs)
}

// NumVariables returns the number of variables
func (ls *LinearSystem) NumVariables() int {
	return len(ls.vars)
}
