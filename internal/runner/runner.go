package runner

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"path/filepath"
	"sync"
	"time"

	"secret-recovery/internal/config"
	"secret-recovery/internal/db"
	"secret-recovery/internal/input"
	"secret-recovery/internal/logger"
	"secret-recovery/internal/notify"
	"secret-recovery/internal/shamir"
)

// ErrThresholdTooLarge is returned when a document asks for more shares
// than the configured MAX_THRESHOLD.
var ErrThresholdTooLarge = errors.New("threshold exceeds limit")

// Error kinds for failures that do not come from the core packages
const (
	KindMalformed         = "MalformedInput"
	KindThresholdTooLarge = "ThresholdTooLarge"
	KindCanceled          = "Canceled"
)

// Result is the outcome of one reconstruction job
type Result struct {
	Path        string
	Secret      *big.Int
	Fingerprint string
	K           int
	Duration    time.Duration
	Err         error
	Kind        string
}

// OK reports whether the job recovered a secret
func (r Result) OK() bool {
	return r.Err == nil
}

// Runner reconstructs secrets from share documents, records them and sends
// notifications. Each job builds and solves its own system, so jobs run in
// parallel without sharing state.
type Runner struct {
	db           db.Database
	logger       *logger.Logger
	notifier     *notify.Notifier
	recon        shamir.Reconstructor
	workers      int
	maxThreshold int
}

// New creates a Runner from the application config
func New(database db.Database, log *logger.Logger, notifier *notify.Notifier, cfg *config.Config) *Runner {
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	return &Runner{
		db:           database,
		logger:       log.Named("runner"),
		notifier:     notifier,
		recon:        shamir.Reconstructor{Method: cfg.SolverMethod},
		workers:      workers,
		maxThreshold: cfg.MaxThreshold,
	}
}

// Run processes every path with a pool of workers. Results are returned in
// the order of paths.
func (r *Runner) Run(ctx context.Context, paths []string) []Result {
	results := make([]Result, len(paths))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < r.workers && w < len(paths); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = r.runFile(ctx, paths[i])
			}
		}()
	}

	for i := range paths {
		if ctx.Err() != nil {
			results[i] = Result{Path: paths[i], Err: ctx.Err(), Kind: KindCanceled}
			continue
		}
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}

func (r *Runner) runFile(ctx context.Context, path string) Result {
	if err := ctx.Err(); err != nil {
		return Result{Path: path, Err: err, Kind: KindCanceled}
	}

	doc, err := input.Load(path)
	if err != nil {
		res := Result{Path: path, Err: err, Kind: KindOf(err)}
		r.logger.Warn("%s: %v", path, err)
		r.notifyFailed(ctx, res)
		return res
	}
	res := r.Process(ctx, filepath.Base(path), doc)
	res.Path = path
	return res
}

// Process reconstructs the secret of a parsed document. source names the
// document in logs, records and notifications.
func (r *Runner) Process(ctx context.Context, source string, doc *input.Document) Result {
	res := Result{Path: source, K: doc.Input.K}

	if r.maxThreshold > 0 && doc.Input.K > r.maxThreshold {
		res.Err = fmt.Errorf("%w: k=%d, max %d", ErrThresholdTooLarge, doc.Input.K, r.maxThreshold)
		res.Kind = KindThresholdTooLarge
		r.logger.Warn("%s: %v", source, res.Err)
		r.notifyFailed(ctx, res)
		return res
	}

	start := time.Now()
	secret, err := r.recon.ReconstructInput(doc.Input)
	res.Secret = secret
	res.Duration = time.Since(start)

	if err != nil {
		res.Err = err
		res.Kind = KindOf(err)
		r.logger.Warn("%s: reconstruction failed (%s): %v", source, res.Kind, err)
		r.notifyFailed(ctx, res)
		return res
	}

	res.Fingerprint = shamir.Fingerprint(res.Secret)
	r.logger.Info("%s: recovered secret %s (k=%d, %s)", source, res.Fingerprint, res.K, res.Duration)

	shares, _ := doc.Input.Select()
	bases := make([]int, len(shares))
	for i, s := range shares {
		bases[i] = s.Base
	}
	rec := &db.Reconstruction{
		Fingerprint: res.Fingerprint,
		Source:      source,
		Threshold:   res.K,
		ShareCount:  len(doc.Input.Shares),
		Bases:       bases,
		Method:      r.recon.Method.String(),
		DurationUs:  res.Duration.Microseconds(),
	}
	if _, err := r.db.SaveReconstruction(ctx, rec); err != nil {
		r.logger.Warn("%s: failed to save reconstruction: %v", source, err)
	}

	if err := r.notifier.NotifyReconstructed(ctx, source, res.Fingerprint, res.K); err != nil {
		r.logger.Warn("[NOTIFY] Failed to send notification: %v", err)
	}

	return res
}

func (r *Runner) notifyFailed(ctx context.Context, res Result) {
	if err := r.notifier.NotifyFailed(ctx, res.Path, res.Kind, res.Err); err != nil {
		r.logger.Warn("[NOTIFY] Failed to send notification: %v", err)
	}
}

// KindOf names the kind of a reconstruction failure
func KindOf(err error) string {
	if kind := shamir.ErrorKind(err); kind != "" {
		return kind
	}
	switch {
	case errors.Is(err, input.ErrMalformed):
		return KindMalformed
	case errors.Is(err, ErrThresholdTooLarge):
		return KindThresholdTooLarge
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCanceled
	}
	return ""
}
