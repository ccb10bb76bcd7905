// Package core runs the polling loop that ties telemetry, the two data
// snapshots, the resolver and playback together.
package core

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"voiceatis/pkg/config"
	"voiceatis/pkg/directory"
	"voiceatis/pkg/geo"
	"voiceatis/pkg/model"
	"voiceatis/pkg/network"
	"voiceatis/pkg/playback"
	"voiceatis/pkg/resolver"
	"voiceatis/pkg/sim"
)

// DirectorySource supplies the current airport directory snapshot.
type DirectorySource interface {
	Snapshot() *directory.Snapshot
}

// NetworkSource supplies the current online station snapshot.
type NetworkSource interface {
	Snapshot() *network.Snapshot
}

// Broadcaster reconciles playback with the resolver result.
type Broadcaster interface {
	Update(resolved model.ResolvedBroadcast)
	State() playback.State
	Current() model.ResolvedBroadcast
}

// Status is a point-in-time view of the control loop for the API.
type Status struct {
	TelemetryOK bool
	Telemetry   sim.Telemetry
	Radios      []model.TunedFrequency
	Resolved    model.ResolvedBroadcast
	LastCycle   time.Time
}

// Scheduler manages the central heartbeat and background jobs.
type Scheduler struct {
	cfg      *config.Config
	sim      sim.Client
	dir      DirectorySource
	net      NetworkSource
	playback Broadcaster
	jobs     []Job

	mu     sync.RWMutex
	status Status
}

// NewScheduler creates a new Scheduler.
func NewScheduler(cfg *config.Config, simClient sim.Client, dir DirectorySource, net NetworkSource, pb Broadcaster) *Scheduler {
	return &Scheduler{
		cfg:      cfg,
		sim:      simClient,
		dir:      dir,
		net:      net,
		playback: pb,
	}
}

// AddJob registers a background job.
func (s *Scheduler) AddJob(j Job) {
	s.jobs = append(s.jobs, j)
}

// Status returns the last cycle's view of the world.
func (s *Scheduler) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Start runs the main loop. It blocks until context is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	interval := time.Duration(s.cfg.Ticker.PollInterval)
	if interval <= 0 {
		interval = 3 * time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("Scheduler started", "interval", interval)

	// First cycle right away so the pilot does not wait a full interval
	// after startup.
	s.Tick(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Scheduler stopped")
			return
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick runs one polling cycle: evaluate background jobs, read telemetry,
// resolve the audible broadcast and hand it to playback.
func (s *Scheduler) Tick(ctx context.Context) {
	// 1. Background refreshers, fire and forget
	for _, job := range s.jobs {
		if job.ShouldFire() {
			go job.Run(ctx)
		}
	}

	// 2. Telemetry. Failure degrades to "nothing tuned" for this cycle;
	// the pilot hears silence until the simulator talks again.
	var radios []model.TunedFrequency
	tel, err := s.sim.GetTelemetry(ctx)
	telemetryOK := err == nil
	if err != nil {
		slog.Debug("failed to read telemetry", "error", err)
	} else {
		radios, err = s.sim.GetRadios(ctx)
		if err != nil {
			slog.Debug("failed to read radios", "error", err)
			telemetryOK = false
			radios = nil
		}
	}

	// 3. Resolve and reconcile playback
	resolved := resolver.Resolve(
		radios,
		geo.Point{Lat: tel.Latitude, Lon: tel.Longitude},
		s.dir.Snapshot(),
		s.net.Snapshot(),
		tel.Airborne(),
		s.cfg.Resolver.RadioRange.NM(),
	)
	s.playback.Update(resolved)

	s.mu.Lock()
	s.status = Status{
		TelemetryOK: telemetryOK,
		Telemetry:   tel,
		Radios:      radios,
		Resolved:    resolved,
		LastCycle:   time.Now(),
	}
	s.mu.Unlock()
}
