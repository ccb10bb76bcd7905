// Package network tracks the live controller stations of the online ATC
// network via the whazzup feed. Each refresh replaces the previous snapshot
// wholesale, so a station that went offline disappears on the next cycle.
package network

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"voiceatis/pkg/config"
	"voiceatis/pkg/model"
	"voiceatis/pkg/request"
)

// Snapshot is an immutable view of the online stations.
type Snapshot struct {
	Stations  []model.StationSnapshot
	UpdatedAt time.Time // feed timestamp
	FetchedAt time.Time // local download time
}

// Count returns the number of stations in the snapshot.
func (s *Snapshot) Count() int {
	if s == nil {
		return 0
	}
	return len(s.Stations)
}

// OnFrequency returns the stations transmitting on the given frequency.
func (s *Snapshot) OnFrequency(khz int) []model.StationSnapshot {
	if s == nil {
		return nil
	}
	var out []model.StationSnapshot
	for _, st := range s.Stations {
		if st.FrequencyKHz == khz {
			out = append(out, st)
		}
	}
	return out
}

// Age returns how long ago the snapshot was fetched.
func (s *Snapshot) Age() time.Duration {
	if s == nil {
		return 0
	}
	return time.Since(s.FetchedAt)
}

// Service owns the station snapshot and its refresh cycle.
type Service struct {
	client  *request.Client
	sources config.SourcesConfig
	logger  *slog.Logger

	snap atomic.Pointer[Snapshot]
}

// NewService creates the network service. The snapshot is nil until the
// first successful Refresh.
func NewService(client *request.Client, sources config.SourcesConfig, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{client: client, sources: sources, logger: logger}
}

// Snapshot returns the current station list, which may be nil before the
// first successful refresh.
func (s *Service) Snapshot() *Snapshot {
	return s.snap.Load()
}

// Refresh downloads the feed and swaps the snapshot. On failure the
// previous snapshot stays in place.
func (s *Service) Refresh(ctx context.Context) error {
	data, err := s.client.Get(ctx, s.sources.WhazzupURL)
	if err != nil {
		return err
	}

	stations, updatedAt, err := decodeWhazzup(data)
	if err != nil {
		return err
	}

	s.snap.Store(&Snapshot{
		Stations:  stations,
		UpdatedAt: updatedAt,
		FetchedAt: time.Now(),
	})
	s.logger.Debug("whazzup refreshed", "stations", len(stations))
	return nil
}
