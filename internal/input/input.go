package input

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"secret-recovery/internal/shamir"
)

// ErrMalformed is returned for documents that are not valid share documents
var ErrMalformed = errors.New("malformed share document")

// Keys holds the metadata from the "keys" object
type Keys struct {
	N int `json:"n"`
	K int `json:"k"`
}

// Document is a parsed share document
type Document struct {
	N     int
	Input shamir.Input
}

type rootValue struct {
	Base  base   `json:"base"`
	Value string `json:"value"`
}

// base accepts either a JSON number or a decimal string ("16")
type base int

func (b *base) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*b = base(n)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("base must be a number or string, got %s", data)
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("invalid base %q", s)
	}
	*b = base(n)
	return nil
}

// Load reads and parses a share document from path
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Parse parses a share document:
//
//	{"keys": {"n": 4, "k": 3}, "1": {"base": "10", "value": "4"}, ...}
//
// k may also be given at the top level. Keys that are not positive decimal
// integers are ignored.
func Parse(data []byte) (*Document, error) {
	// Use a map to handle the dynamic keys ("1", "2", "3", etc.)
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: document must be an object", ErrMalformed)
	}

	doc := &Document{Input: shamir.Input{Shares: make(map[string]shamir.ShareValue)}}

	if msg, ok := raw["keys"]; ok {
		var keys Keys
		if err := json.Unmarshal(msg, &keys); err != nil {
			return nil, fmt.Errorf("%w: failed to parse 'keys' object: %v", ErrMalformed, err)
		}
		doc.N = keys.N
		doc.Input.K = keys.K
	} else if msg, ok := raw["k"]; ok {
		if err := json.Unmarshal(msg, &doc.Input.K); err != nil {
			return nil, fmt.Errorf("%w: failed to parse 'k': %v", ErrMalformed, err)
		}
	} else {
		return nil, fmt.Errorf("%w: threshold k is required", ErrMalformed)
	}

	for key, msg := range raw {
		idx, err := strconv.Atoi(key)
		if err != nil || idx < 1 || strconv.Itoa(idx) != key {
			continue
		}

		var rv rootValue
		if err := json.Unmarshal(msg, &rv); err != nil {
			return nil, fmt.Errorf("%w: failed to parse share %q: %v", ErrMalformed, key, err)
		}
		doc.Input.Shares[key] = shamir.ShareValue{Base: int(rv.Base), Value: rv.Value}
	}

	return doc, nil
}
