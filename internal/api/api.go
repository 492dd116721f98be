package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"secret-recovery/internal/config"
	"secret-recovery/internal/db"
	"secret-recovery/internal/input"
	"secret-recovery/internal/logger"
	"secret-recovery/internal/radix"
	"secret-recovery/internal/runner"
	"secret-recovery/internal/shamir"
)

const (
	maxBodyBytes = 1 << 20
	defaultLimit = 100
	maxLimit     = 1000
)

// ReconstructResponse is returned by POST /api/reconstruct
type ReconstructResponse struct {
	Secret      string `json:"secret"`
	SecretHex   string `json:"secret_hex"`
	SecretBase  string `json:"secret_base,omitempty"`
	Base        int    `json:"base,omitempty"`
	Fingerprint string `json:"fingerprint"`
	K           int    `json:"k"`
	DurationUs  int64  `json:"duration_us"`
}

// ErrorResponse is returned for rejected requests
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// GlobalStats represents overall statistics
type GlobalStats struct {
	TotalReconstructions int    `json:"total_reconstructions"`
	DistinctSecrets      int    `json:"distinct_secrets"`
	MaxThresholdSeen     int    `json:"max_threshold_seen"`
	Method               string `json:"method"`
	MaxThreshold         int    `json:"max_threshold"`
	Workers              int    `json:"workers"`
	DatabaseHealthy      bool   `json:"database_healthy"`
}

// HealthResponse represents health check response
type HealthResponse struct {
	Status   string          `json:"status"`
	Database db.HealthStatus `json:"database"`
}

// Handler holds HTTP handler dependencies
type Handler struct {
	runner *runner.Runner
	db     db.Database
	logger *logger.Logger
	cfg    *config.Config
}

// NewHandler creates a new API handler
func NewHandler(rn *runner.Runner, database db.Database, log *logger.Logger, cfg *config.Config) *Handler {
	return &Handler{
		runner: rn,
		db:     database,
		logger: log,
		cfg:    cfg,
	}
}

// RegisterRoutes registers all HTTP routes
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/reconstruct", h.handleReconstruct)
	mux.HandleFunc("/api/reconstructions", h.handleReconstructions)
	mux.HandleFunc("/api/reconstructions/", h.handleReconstruction)
	mux.HandleFunc("/api/stats", h.handleStats)
	mux.HandleFunc("/api/health", h.handleHealth)
	mux.HandleFunc("/api/logs", h.handleLogs)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error, kind string) {
	writeJSON(w, status, ErrorResponse{Error: err.Error(), Kind: kind})
}

func (h *Handler) handleReconstruct(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	base := 0
	if s := r.URL.Query().Get("base"); s != "" {
		n, err := strconv.Atoi(s)
		if err == nil {
			err = radix.CheckBase(n)
		}
		if err != nil {
			writeError(w, http.StatusBadRequest, err, shamir.ErrorKind(err))
			return
		}
		base = n
	}

	source := r.URL.Query().Get("source")
	if source == "" {
		source = "api"
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, err, "")
		return
	}
	doc, err := input.Parse(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err, runner.KindMalformed)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	res := h.runner.Process(ctx, source, doc)
	if res.Err != nil {
		writeError(w, http.StatusUnprocessableEntity, res.Err, res.Kind)
		return
	}

	resp := ReconstructResponse{
		Secret:      res.Secret.String(),
		SecretHex:   shamir.Hex(res.Secret),
		Fingerprint: res.Fingerprint,
		K:           res.K,
		DurationUs:  res.Duration.Microseconds(),
	}
	if base != 0 {
		// base was validated above
		resp.SecretBase, _ = radix.Encode(res.Secret, base)
		resp.Base = base
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleReconstructions(w http.ResponseWriter, r *http.Request) {
	limit := defaultLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = min(n, maxLimit)
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	recs, err := h.db.GetReconstructions(ctx, limit)
	if err != nil {
		h.logger.Error("Failed to get reconstructions: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

func (h *Handler) handleReconstruction(w http.ResponseWriter, r *http.Request) {
	fingerprint := strings.TrimPrefix(r.URL.Path, "/api/reconstructions/")
	if fingerprint == "" {
		h.handleReconstructions(w, r)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	rec, err := h.db.GetReconstructionByFingerprint(ctx, fingerprint)
	if errors.Is(err, db.ErrNotFound) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("Failed to get reconstruction: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	dbStats, err := h.db.GetStats(ctx)

	stats := GlobalStats{
		Method:          h.cfg.SolverMethod.String(),
		MaxThreshold:    h.cfg.MaxThreshold,
		Workers:         h.cfg.Workers,
		DatabaseHealthy: true,
	}

	if err != nil {
		h.logger.Warn("Failed to get stats: %v", err)
		stats.DatabaseHealthy = false
	} else if dbStats != nil {
		stats.TotalReconstructions = dbStats.TotalReconstructions
		stats.DistinctSecrets = dbStats.DistinctSecrets
		stats.MaxThresholdSeen = dbStats.MaxThreshold
		stats.DatabaseHealthy = dbStats.Healthy
	}

	writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	dbHealth := h.db.Health(ctx)

	status, code := "healthy", http.StatusOK
	if !dbHealth.Connected {
		status, code = "unhealthy", http.StatusServiceUnavailable
	}

	writeJSON(w, code, HealthResponse{
		Status:   status,
		Database: dbHealth,
	})
}

func (h *Handler) handleLogs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.logger.GetEntries())
}
