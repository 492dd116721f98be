package solver

import (
	"errors"
	"math/big"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

var bigIntComparer = cmp.Comparer(func(x, y *big.Int) bool { return x.Cmp(y) == 0 })

func ints(vs ...int64) []*big.Int {
	out := make([]*big.Int, len(vs))
	for i, v := range vs {
		out[i] = big.NewInt(v)
	}
	return out
}

func matrixOf(rows ...[]int64) [][]*big.Int {
	out := make([][]*big.Int, len(rows))
	for i, r := range rows {
		out[i] = ints(r...)
	}
	return out
}

func mulVec(a [][]*big.Int, x []*big.Int) []*big.Int {
	out := make([]*big.Int, len(a))
	tmp := new(big.Int)
	for i, row := range a {
		out[i] = new(big.Int)
		for j, v := range row {
			out[i].Add(out[i], tmp.Mul(v, x[j]))
		}
	}
	return out
}

func TestSolveSimple(t *testing.T) {
	// 2x + 3y = 8, x + y = 3
	a := matrixOf([]int64{2, 3}, []int64{1, 1})
	b := ints(8, 3)

	got, err := Solve(a, b)
	require.NoError(t, err)
	if diff := cmp.Diff(ints(1, 2), got, bigIntComparer); diff != "" {
		t.Errorf("Solve mismatch (-want +got):\n%s", diff)
	}
}

func TestSolveVandermonde(t *testing.T) {
	// y = x^2 + 2x + 3 at x = 1, 2, 3
	a := matrixOf([]int64{1, 1, 1}, []int64{4, 2, 1}, []int64{9, 3, 1})
	b := ints(6, 11, 18)

	got, err := Solve(a, b)
	require.NoError(t, err)
	if diff := cmp.Diff(ints(1, 2, 3), got, bigIntComparer); diff != "" {
		t.Errorf("Solve mismatch (-want +got):\n%s", diff)
	}
}

func TestSolveNeedsRowSwap(t *testing.T) {
	// zero in the first pivot position forces a swap
	a := matrixOf([]int64{0, 1}, []int64{1, 0})
	b := ints(7, -4)

	got, err := Solve(a, b)
	require.NoError(t, err)
	if diff := cmp.Diff(ints(-4, 7), got, bigIntComparer); diff != "" {
		t.Errorf("Solve mismatch (-want +got):\n%s", diff)
	}
}

func TestSolveLargeValues(t *testing.T) {
	huge, _ := new(big.Int).SetString("123456789012345678901234567890123456789", 10)
	x := []*big.Int{huge, new(big.Int).Neg(huge), big.NewInt(5)}
	a := matrixOf([]int64{1, 1, 1}, []int64{4, 2, 1}, []int64{9, 3, 1})

	got, err := Solve(a, mulVec(a, x))
	require.NoError(t, err)
	if diff := cmp.Diff(x, got, bigIntComparer); diff != "" {
		t.Errorf("Solve mismatch (-want +got):\n%s", diff)
	}
}

func TestSolveDoesNotMutateInputs(t *testing.T) {
	rows := [][]int64{{0, 2, 1}, {3, 1, 1}, {1, 1, 4}}
	x := ints(1, -2, 3)
	a := matrixOf(rows...)
	b := mulVec(a, x)
	aBefore := matrixOf(rows...)
	bBefore := ints(-1, 4, 11)
	require.Empty(t, cmp.Diff(bBefore, b, bigIntComparer))

	got, err := Solve(a, b)
	require.NoError(t, err)
	if diff := cmp.Diff(x, got, bigIntComparer); diff != "" {
		t.Errorf("Solve mismatch (-want +got):\n%s", diff)
	}

	rat, err := SolveRational(a, b)
	require.NoError(t, err)
	for i, v := range rat {
		require.True(t, v.IsInt(), "x[%d] = %s", i, v)
		require.Zero(t, v.Num().Cmp(x[i]), "x[%d] = %s", i, v)
	}

	if diff := cmp.Diff(aBefore, a, bigIntComparer); diff != "" {
		t.Errorf("matrix mutated (-before +after):\n%s", diff)
	}
	if diff := cmp.Diff(bBefore, b, bigIntComparer); diff != "" {
		t.Errorf("vector mutated (-before +after):\n%s", diff)
	}
}

func TestSolveErrorDoesNotMutateInputs(t *testing.T) {
	rows := [][]int64{{3, 1, 2}, {1, 2, 3}, {3, 1, 2}}
	a := matrixOf(rows...)
	b := ints(4, 5, 4)

	_, err := Solve(a, b)
	require.ErrorIs(t, err, ErrSingularMatrix)
	_, err = SolveRational(a, b)
	require.ErrorIs(t, err, ErrSingularMatrix)

	if diff := cmp.Diff(matrixOf(rows...), a, bigIntComparer); diff != "" {
		t.Errorf("matrix mutated (-before +after):\n%s", diff)
	}
	if diff := cmp.Diff(ints(4, 5, 4), b, bigIntComparer); diff != "" {
		t.Errorf("vector mutated (-before +after):\n%s", diff)
	}
}

func TestSolveSingular(t *testing.T) {
	tests := []struct {
		name string
		a    [][]*big.Int
		b    []*big.Int
	}{
		{"zero row", matrixOf([]int64{1, 2}, []int64{0, 0}), ints(1, 0)},
		{"identical rows", matrixOf([]int64{1, 2, 3}, []int64{4, 5, 6}, []int64{1, 2, 3}), ints(1, 2, 1)},
		{"proportional rows", matrixOf([]int64{2, 4}, []int64{1, 2}), ints(2, 1)},
		{"zero matrix", matrixOf([]int64{0}), ints(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Solve(tt.a, tt.b)
			require.ErrorIs(t, err, ErrSingularMatrix)

			var singular *SingularMatrixError
			require.True(t, errors.As(err, &singular))
			require.Equal(t, len(tt.a), singular.Size)

			_, err = SolveIntegral(tt.a, tt.b)
			require.ErrorIs(t, err, ErrSingularMatrix)
		})
	}
}

func TestSolveNonIntegral(t *testing.T) {
	// 2x = 1
	_, err := Solve(matrixOf([]int64{2}), ints(1))
	require.ErrorIs(t, err, ErrNonIntegralSolution)

	var nonIntegral *NonIntegralSolutionError
	require.True(t, errors.As(err, &nonIntegral))
	require.Equal(t, 0, nonIntegral.Row)
	require.Equal(t, "1", nonIntegral.Numerator)
	require.Equal(t, "2", nonIntegral.Denominator)

	// x + y = 1, x - y = 0
	_, err = Solve(matrixOf([]int64{1, 1}, []int64{1, -1}), ints(1, 0))
	require.ErrorIs(t, err, ErrNonIntegralSolution)

	_, err = SolveIntegral(matrixOf([]int64{1, 1}, []int64{1, -1}), ints(1, 0))
	require.ErrorIs(t, err, ErrNonIntegralSolution)
}

func TestSolveDimensionErrors(t *testing.T) {
	tests := []struct {
		name string
		a    [][]*big.Int
		b    []*big.Int
	}{
		{"empty", nil, nil},
		{"vector length", matrixOf([]int64{1, 0}, []int64{0, 1}), ints(1)},
		{"non-square", matrixOf([]int64{1, 0, 0}, []int64{0, 1, 0}), ints(1, 1)},
		{"nil entry", [][]*big.Int{{nil}}, ints(1)},
		{"nil vector entry", matrixOf([]int64{1}), []*big.Int{nil}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Solve(tt.a, tt.b)
			require.ErrorIs(t, err, ErrDimension)
		})
	}
}

func TestSelectPivot(t *testing.T) {
	a := matrixOf([]int64{1, 0}, []int64{-3, 0}, []int64{3, 0}, []int64{2, 0})
	require.Equal(t, 1, selectPivot(a, 0), "ties keep the first occurrence")

	a = matrixOf([]int64{0, 0}, []int64{0, 0})
	require.Equal(t, 0, selectPivot(a, 0))
}

func TestSolveRational(t *testing.T) {
	// x + y = 1, x - y = 0 => x = y = 1/2
	got, err := SolveRational(matrixOf([]int64{1, 1}, []int64{1, -1}), ints(1, 0))
	require.NoError(t, err)
	require.Len(t, got, 2)
	half := big.NewRat(1, 2)
	require.Zero(t, got[0].Cmp(half), "x = %s", got[0].RatString())
	require.Zero(t, got[1].Cmp(half), "y = %s", got[1].RatString())
}

func TestSolveAgreesWithRational(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 6).Draw(t, "n")
		entry := rapid.Int64Range(-50, 50)

		a := make([][]*big.Int, n)
		for i := range a {
			a[i] = make([]*big.Int, n)
			for j := range a[i] {
				a[i][j] = big.NewInt(entry.Draw(t, "a"))
			}
		}
		x := make([]*big.Int, n)
		for i := range x {
			x[i] = big.NewInt(rapid.Int64Range(-1_000_000, 1_000_000).Draw(t, "x"))
		}
		b := mulVec(a, x)

		if _, err := SolveRational(a, b); errors.Is(err, ErrSingularMatrix) {
			if _, err := Solve(a, b); !errors.Is(err, ErrSingularMatrix) {
				t.Fatalf("rational solver found a singular matrix, fraction-free solver returned %v", err)
			}
			return
		}

		got, err := Solve(a, b)
		if err != nil {
			t.Fatalf("Solve: %v", err)
		}
		if diff := cmp.Diff(b, mulVec(a, got), bigIntComparer); diff != "" {
			t.Fatalf("A*x != b (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff(x, got, bigIntComparer); diff != "" {
			t.Fatalf("Solve mismatch (-want +got):\n%s", diff)
		}

		viaRational, err := SolveIntegral(a, b)
		if err != nil {
			t.Fatalf("SolveIntegral: %v", err)
		}
		if diff := cmp.Diff(x, viaRational, bigIntComparer); diff != "" {
			t.Fatalf("SolveIntegral mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestParseMethod(t *testing.T) {
	tests := []struct {
		input    string
		expected Method
		wantErr  bool
	}{
		{"", MethodBareiss, false},
		{"bareiss", MethodBareiss, false},
		{"Fraction-Free", MethodBareiss, false},
		{" rational ", MethodRational, false},
		{"lu", MethodBareiss, true},
	}

	for _, tt := range tests {
		m, err := ParseMethod(tt.input)
		if tt.wantErr {
			require.Error(t, err)
			continue
		}
		require.NoError(t, err)
		require.Equal(t, tt.expected, m)
		require.Equal(t, tt.expected.String(), m.String())
	}
}
