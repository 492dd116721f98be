package db

import (
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"secret-recovery/internal/retry"
)

// Common errors
var (
	ErrConnectionFailed = errors.New("database connection failed")
	ErrQueryTimeout     = errors.New("query timeout")
	ErrPoolExhausted    = errors.New("connection pool exhausted")
	ErrNotFound         = errors.New("not found")
)

// Reconstruction records one successful secret reconstruction. The secret
// itself is not stored; Fingerprint identifies it.
type Reconstruction struct {
	ID          int64  `json:"id"`
	Fingerprint string `json:"fingerprint"`
	Source      string `json:"source"`
	Threshold   int    `json:"threshold"`
	ShareCount  int    `json:"share_count"`
	Bases       []int  `json:"bases"`
	Method      string `json:"method"`
	DurationUs  int64  `json:"duration_us"`
	CreatedAt   string `json:"created_at"`
}

// Stats holds statistics
type Stats struct {
	TotalReconstructions int  `json:"total_reconstructions"`
	DistinctSecrets      int  `json:"distinct_secrets"`
	MaxThreshold         int  `json:"max_threshold"`
	Healthy              bool `json:"healthy"`
}

// HealthStatus represents database health
type HealthStatus struct {
	Connected       bool   `json:"connected"`
	LatencyMs       int64  `json:"latency_ms"`
	OpenConnections int    `json:"open_connections"`
	Error           string `json:"error,omitempty"`
}

// DB wraps database operations
type DB struct {
	conn *sql.DB
}

// New creates a new database connection, retrying transient connect failures
func New(ctx context.Context, databaseURL string) (*DB, error) {
	conn, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}

	conn.SetMaxOpenConns(25)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxLifetime(5 * time.Minute)
	conn.SetConnMaxIdleTime(1 * time.Minute)

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	err = retry.Do(ctx, retry.DefaultConfig(), func() error {
		pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		return conn.PingContext(pingCtx)
	})
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return db, nil
}

func (db *DB) migrate(ctx context.Context) error {
	_, err := db.conn.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS reconstructions (
			id BIGSERIAL PRIMARY KEY,
			fingerprint BYTEA NOT NULL,
			source TEXT NOT NULL,
			threshold INT NOT NULL,
			share_count INT NOT NULL,
			bases SMALLINT[] NOT NULL,
			method TEXT NOT NULL,
			duration_us BIGINT NOT NULL,
			created_at TIMESTAMPTZ DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_reconstructions_fingerprint ON reconstructions(fingerprint);
	`)
	return err
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// Health checks database connectivity
func (db *DB) Health(ctx context.Context) HealthStatus {
	status := HealthStatus{}
	start := time.Now()
	err := db.conn.PingContext(ctx)
	status.LatencyMs = time.Since(start).Milliseconds()

	if err != nil {
		status.Error = err.Error()
		return status
	}

	status.Connected = true
	status.OpenConnections = db.conn.Stats().OpenConnections
	return status
}

func (db *DB) wrapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "53300":
			return fmt.Errorf("%w: %v", ErrPoolExhausted, err)
		case "57014":
			return fmt.Errorf("%w: %v", ErrQueryTimeout, err)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrQueryTimeout, err)
	}
	return err
}

// hexToBytes converts hex string (with or without 0x) to bytes
func hexToBytes(s string) []byte {
	s = strings.TrimPrefix(s, "0x")
	b, _ := hex.DecodeString(s)
	return b
}

// bytesToHex converts bytes to 0x-prefixed hex string
func bytesToHex(b []byte) string {
	return "0x" + hex.EncodeToString(b)
}

// SaveReconstruction stores a reconstruction record and returns its ID
func (db *DB) SaveReconstruction(ctx context.Context, rec *Reconstruction) (int64, error) {
	bases := make([]int64, len(rec.Bases))
	for i, b := range rec.Bases {
		bases[i] = int64(b)
	}

	var id int64
	err := db.conn.QueryRowContext(ctx,
		`INSERT INTO reconstructions (fingerprint, source, threshold, share_count, bases, method, duration_us)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		hexToBytes(rec.Fingerprint), rec.Source, rec.Threshold, rec.ShareCount,
		pq.Array(bases), rec.Method, rec.DurationUs).Scan(&id)
	if err != nil {
		return 0, db.wrapError(err)
	}
	rec.ID = id
	return id, nil
}

const selectReconstructions = `SELECT id, fingerprint, source, threshold, share_count, bases, method, duration_us, created_at
	FROM reconstructions`

func scanReconstruction(rows interface{ Scan(...any) error }) (Reconstruction, error) {
	var rec Reconstruction
	var fingerprint []byte
	var bases pq.Int64Array
	var createdAt time.Time

	if err := rows.Scan(&rec.ID, &fingerprint, &rec.Source, &rec.Threshold, &rec.ShareCount,
		&bases, &rec.Method, &rec.DurationUs, &createdAt); err != nil {
		return rec, err
	}

	rec.Fingerprint = bytesToHex(fingerprint)
	rec.Bases = make([]int, len(bases))
	for i, b := range bases {
		rec.Bases[i] = int(b)
	}
	rec.CreatedAt = createdAt.Format(time.RFC3339)
	return rec, nil
}

// GetReconstructions returns the most recent reconstructions, newest first
func (db *DB) GetReconstructions(ctx context.Context, limit int) ([]Reconstruction, error) {
	rows, err := db.conn.QueryContext(ctx,
		selectReconstructions+` ORDER BY created_at DESC, id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, db.wrapError(err)
	}
	defer rows.Close()

	recs := []Reconstruction{}
	for rows.Next() {
		rec, err := scanReconstruction(rows)
		if err != nil {
			continue
		}
		recs = append(recs, rec)
	}
	return recs, db.wrapError(rows.Err())
}

// GetReconstructionByFingerprint returns the latest reconstruction of a secret
func (db *DB) GetReconstructionByFingerprint(ctx context.Context, fingerprint string) (*Reconstruction, error) {
	row := db.conn.QueryRowContext(ctx,
		selectReconstructions+` WHERE fingerprint = $1 ORDER BY created_at DESC, id DESC LIMIT 1`,
		hexToBytes(fingerprint))
	rec, err := scanReconstruction(row)
	if err != nil {
		return nil, db.wrapError(err)
	}
	return &rec, nil
}

// GetStats returns database statistics
func (db *DB) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{Healthy: true}

	health := db.Health(ctx)
	if !health.Connected {
		stats.Healthy = false
		return stats, nil
	}

	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*), COUNT(DISTINCT fingerprint), COALESCE(MAX(threshold), 0) FROM reconstructions`).
		Scan(&stats.TotalReconstructions, &stats.DistinctSecrets, &stats.MaxThreshold)
	if err != nil {
		return nil, db.wrapError(err)
	}
	return stats, nil
}
