package shamir

import (
	"fmt"
	"math/big"
	"sort"

	"secret-recovery/internal/radix"
	"secret-recovery/internal/solver"
)

// Share is one encoded point of the secret polynomial. Index is the
// 1-based x-coordinate.
type Share struct {
	Index  int
	Base   int
	Digits string
}

// DecodedShare is a share with its value decoded
type DecodedShare struct {
	X *big.Int
	Y *big.Int
}

// Decode decodes the share's digits into an (x, y) point
func Decode(s Share) (DecodedShare, error) {
	y, err := radix.Decode(s.Digits, s.Base)
	if err != nil {
		return DecodedShare{}, fmt.Errorf("share %d: %w", s.Index, err)
	}
	return DecodedShare{X: big.NewInt(int64(s.Index)), Y: y}, nil
}

// Reconstructor recovers polynomial constants with a chosen solver method
type Reconstructor struct {
	Method solver.Method
}

// Reconstruct recovers the secret from shares indexed 1..k using the
// default solver.
func Reconstruct(shares []Share, k int) (*big.Int, error) {
	return Reconstructor{}.Reconstruct(shares, k)
}

// ReconstructPoints recovers the constant term of the polynomial through
// points using the default solver.
func ReconstructPoints(points []DecodedShare) (*big.Int, error) {
	return Reconstructor{}.ReconstructPoints(points)
}

// Reconstruct recovers the secret from the shares with indices 1..k.
// Shares are matched by their own Index, so the order of the slice does not
// matter; shares with an index above k are ignored.
func (r Reconstructor) Reconstruct(shares []Share, k int) (*big.Int, error) {
	if k < 1 {
		return nil, &InsufficientDataError{Need: k}
	}

	byIndex := make(map[int]Share, k)
	for _, s := range shares {
		if s.Index < 1 || s.Index > k {
			continue
		}
		if _, dup := byIndex[s.Index]; dup {
			return nil, &DuplicateShareError{X: fmt.Sprint(s.Index)}
		}
		byIndex[s.Index] = s
	}
	if len(byIndex) < k {
		var missing []int
		for i := 1; i <= k; i++ {
			if _, ok := byIndex[i]; !ok {
				missing = append(missing, i)
			}
		}
		return nil, &InsufficientDataError{Need: k, Have: len(byIndex), Missing: missing}
	}

	points := make([]DecodedShare, k)
	for i := 1; i <= k; i++ {
		p, err := Decode(byIndex[i])
		if err != nil {
			return nil, err
		}
		points[i-1] = p
	}
	return r.ReconstructPoints(points)
}

// ReconstructPoints recovers the constant term of the degree len(points)-1
// polynomial through points. The x-coordinates must be distinct.
func (r Reconstructor) ReconstructPoints(points []DecodedShare) (*big.Int, error) {
	coeffs, err := r.Coefficients(points)
	if err != nil {
		return nil, err
	}
	return coeffs[len(coeffs)-1], nil
}

// Coefficients returns the polynomial through points, highest degree first
func (r Reconstructor) Coefficients(points []DecodedShare) ([]*big.Int, error) {
	if len(points) == 0 {
		return nil, &InsufficientDataError{Need: 1}
	}
	if err := checkDistinct(points); err != nil {
		return nil, err
	}

	matrix, vector := vandermonde(points)
	coeffs, err := r.Method.Solve(matrix, vector)
	if err != nil {
		return nil, fmt.Errorf("solve %dx%d system: %w", len(points), len(points), err)
	}
	return coeffs, nil
}

// vandermonde builds row i as [x_i^(k-1), ..., x_i^0] and vector[i] = y_i
func vandermonde(points []DecodedShare) ([][]*big.Int, []*big.Int) {
	k := len(points)
	matrix := make([][]*big.Int, k)
	vector := make([]*big.Int, k)

	for i, p := range points {
		row := make([]*big.Int, k)
		power := big.NewInt(1)
		for j := k - 1; j >= 0; j-- {
			row[j] = new(big.Int).Set(power)
			power.Mul(power, p.X)
		}
		matrix[i] = row
		vector[i] = new(big.Int).Set(p.Y)
	}
	return matrix, vector
}

func checkDistinct(points []DecodedShare) error {
	xs := make([]*big.Int, len(points))
	for i, p := range points {
		xs[i] = p.X
	}
	sort.Slice(xs, func(i, j int) bool { return xs[i].Cmp(xs[j]) < 0 })
	for i := 1; i < len(xs); i++ {
		if xs[i].Cmp(xs[i-1]) == 0 {
			return &DuplicateShareError{X: xs[i].String()}
		}
	}
	return nil
}

// Evaluate evaluates coeffs (highest degree first) at x with Horner's rule
func Evaluate(coeffs []*big.Int, x *big.Int) *big.Int {
	result := new(big.Int)
	for _, c := range coeffs {
		result.Mul(result, x)
		result.Add(result, c)
	}
	return result
}
