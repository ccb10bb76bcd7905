// Package probe verifies, before the control loop starts, that the
// services a session depends on are reachable: the network feed, the
// weather source, the local cache and the speech engine.
package probe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// defaultTimeout bounds a check that does not declare its own.
const defaultTimeout = 5 * time.Second

// Check is one startup verification.
type Check struct {
	Name string
	Run  func(ctx context.Context) error
	// Timeout bounds the check; zero means defaultTimeout.
	Timeout time.Duration
	// Critical failures abort startup. Non-critical ones degrade to
	// cached data or silence and only log.
	Critical bool
}

// Result is the outcome of one check.
type Result struct {
	Name     string
	Critical bool
	Err      error
	Elapsed  time.Duration
}

// RunAll executes the checks in order, each under its own deadline so a
// dead endpoint cannot hang startup.
func RunAll(ctx context.Context, checks []Check) []Result {
	results := make([]Result, len(checks))
	for i, c := range checks {
		timeout := c.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		checkCtx, cancel := context.WithTimeout(ctx, timeout)
		start := time.Now()
		err := c.Run(checkCtx)
		cancel()

		results[i] = Result{
			Name:     c.Name,
			Critical: c.Critical,
			Err:      err,
			Elapsed:  time.Since(start),
		}
	}
	return results
}

// Gate logs a summary of the results and returns the joined errors of the
// failed critical checks, nil when startup may proceed.
func Gate(results []Result) error {
	var critical []error

	for _, r := range results {
		took := r.Elapsed.Round(time.Millisecond)
		if r.Err == nil {
			slog.Info("Startup check passed", "check", r.Name, "took", took)
			continue
		}
		slog.Error("Startup check failed", "check", r.Name, "took", took, "critical", r.Critical, "error", r.Err)
		if r.Critical {
			critical = append(critical, fmt.Errorf("%s: %w", r.Name, r.Err))
		}
	}

	return errors.Join(critical...)
}
