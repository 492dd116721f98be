package shamir

import (
	"math/big"
	"strconv"
)

// ShareValue is the encoded y-value of one share as supplied by callers
type ShareValue struct {
	Base  int
	Value string
}

// Input is the parsed reconstruction request: a threshold and shares keyed
// by their decimal index ("1", "2", ...).
type Input struct {
	K      int
	Shares map[string]ShareValue
}

// Select returns the shares for keys "1".."k" in index order
func (in Input) Select() ([]Share, error) {
	if in.K < 1 {
		return nil, &InsufficientDataError{Need: in.K}
	}

	shares := make([]Share, 0, in.K)
	for i := 1; i <= in.K; i++ {
		key := strconv.Itoa(i)
		v, ok := in.Shares[key]
		if !ok {
			return nil, &MissingShareError{Key: key, K: in.K}
		}
		shares = append(shares, Share{Index: i, Base: v.Base, Digits: v.Value})
	}
	return shares, nil
}

// ReconstructInput selects shares 1..k and recovers the secret
func (r Reconstructor) ReconstructInput(in Input) (*big.Int, error) {
	shares, err := in.Select()
	if err != nil {
		return nil, err
	}
	return r.Reconstruct(shares, in.K)
}

// Reconstruct recovers the secret with the default solver
func (in Input) Reconstruct() (*big.Int, error) {
	return Reconstructor{}.ReconstructInput(in)
}
