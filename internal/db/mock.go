package db

import (
	"context"
	"math/big"
	"strings"
	"sync"
	"time"

	"secret-recovery/internal/shamir"
)

// MockDB is an in-memory database for demo mode and tests
type MockDB struct {
	mu   sync.RWMutex
	recs []Reconstruction
}

// NewMock creates a new mock database
func NewMock() *MockDB {
	return &MockDB{}
}

// NewMockWithSampleData creates a mock database holding the two reference
// reconstructions (secrets 8 and 3)
func NewMockWithSampleData() *MockDB {
	m := NewMock()
	m.recs = []Reconstruction{
		{
			ID:          1,
			Fingerprint: shamir.Fingerprint(big.NewInt(8)),
			Source:      "sample/line.json",
			Threshold:   2,
			ShareCount:  2,
			Bases:       []int{16, 8},
			Method:      "bareiss",
			DurationUs:  41,
			CreatedAt:   "2026-10-01T10:30:00Z",
		},
		{
			ID:          2,
			Fingerprint: shamir.Fingerprint(big.NewInt(3)),
			Source:      "sample/quadratic.json",
			Threshold:   3,
			ShareCount:  3,
			Bases:       []int{10, 2, 16},
			Method:      "bareiss",
			DurationUs:  58,
			CreatedAt:   "2026-10-01T10:31:00Z",
		},
	}
	return m
}

func (m *MockDB) Close() error { return nil }

func (m *MockDB) Health(ctx context.Context) HealthStatus {
	return HealthStatus{Connected: true, LatencyMs: 1}
}

func (m *MockDB) SaveReconstruction(ctx context.Context, rec *Reconstruction) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec.ID = int64(len(m.recs) + 1)
	if rec.CreatedAt == "" {
		rec.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	saved := *rec
	saved.Bases = append([]int(nil), rec.Bases...)
	m.recs = append(m.recs, saved)
	return rec.ID, nil
}

func (m *MockDB) GetReconstructions(ctx context.Context, limit int) ([]Reconstruction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	recs := []Reconstruction{}
	for i := len(m.recs) - 1; i >= 0 && len(recs) < limit; i-- {
		recs = append(recs, m.recs[i])
	}
	return recs, nil
}

func (m *MockDB) GetReconstructionByFingerprint(ctx context.Context, fingerprint string) (*Reconstruction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.recs) - 1; i >= 0; i-- {
		if strings.EqualFold(m.recs[i].Fingerprint, fingerprint) {
			rec := m.recs[i]
			return &rec, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MockDB) GetStats(ctx context.Context) (*Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := &Stats{TotalReconstructions: len(m.recs), Healthy: true}
	seen := make(map[string]bool)
	for _, r := range m.recs {
		key := strings.ToLower(r.Fingerprint)
		if !seen[key] {
			seen[key] = true
			stats.DistinctSecrets++
		}
		if r.Threshold > stats.MaxThreshold {
			stats.MaxThreshold = r.Threshold
		}
	}
	return stats, nil
}
