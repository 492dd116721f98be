package db

import "context"

// Database defines the interface for database operations
type Database interface {
	Close() error
	Health(ctx context.Context) HealthStatus
	SaveReconstruction(ctx context.Context, rec *Reconstruction) (int64, error)
	GetReconstructions(ctx context.Context, limit int) ([]Reconstruction, error)
	GetReconstructionByFingerprint(ctx context.Context, fingerprint string) (*Reconstruction, error)
	GetStats(ctx context.Context) (*Stats, error)
}

// Ensure DB implements Database interface
var _ Database = (*DB)(nil)
var _ Database = (*MockDB)(nil)
