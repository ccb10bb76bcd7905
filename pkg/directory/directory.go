// Package directory maintains the airport dataset: which airports exist,
// where they are, and which frequencies they carry. The bulk data comes
// from the OurAirports CSV dumps, refreshed at most once per day, with a
// local override file for corrections. The merged result is cached in
// SQLite so later starts work without network access.
package directory

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"voiceatis/pkg/config"
	"voiceatis/pkg/model"
	"voiceatis/pkg/request"
	"voiceatis/pkg/store"
)

const lastDownloadKey = "airports_last_download"

// Snapshot is an immutable view of the airport dataset. Readers hold a
// snapshot for the duration of one resolve pass; refreshes swap in a whole
// new snapshot and never mutate a published one.
type Snapshot struct {
	Airports map[string]*model.AirportRecord
	BuiltAt  time.Time
}

// Count returns the number of airports in the snapshot.
func (s *Snapshot) Count() int {
	if s == nil {
		return 0
	}
	return len(s.Airports)
}

// Airport looks up an airport by ICAO ident.
func (s *Snapshot) Airport(icao string) (*model.AirportRecord, bool) {
	if s == nil {
		return nil, false
	}
	a, ok := s.Airports[icao]
	return a, ok
}

// WithFrequency returns all airports that carry the given frequency.
func (s *Snapshot) WithFrequency(khz int) []*model.AirportRecord {
	if s == nil {
		return nil
	}
	var out []*model.AirportRecord
	for _, a := range s.Airports {
		if a.HasFrequency(khz) {
			out = append(out, a)
		}
	}
	return out
}

// Store is the persistence the directory needs: the airport cache plus the
// last-download bookkeeping.
type Store interface {
	store.AirportStore
	store.StateStore
}

// Service owns the airport snapshot and its refresh cycle.
type Service struct {
	client  *request.Client
	store   Store
	sources config.SourcesConfig
	cfg     config.DirectoryConfig
	logger  *slog.Logger

	snap atomic.Pointer[Snapshot]
}

// NewService creates the directory service. The snapshot is empty until
// Bootstrap or Refresh succeeds.
func NewService(client *request.Client, st Store, sources config.SourcesConfig, cfg config.DirectoryConfig, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		client:  client,
		store:   st,
		sources: sources,
		cfg:     cfg,
		logger:  logger,
	}
}

// Snapshot returns the current dataset, which may be nil before the first
// successful load.
func (s *Service) Snapshot() *Snapshot {
	return s.snap.Load()
}

// Bootstrap loads the dataset at startup. If today's download already
// happened, the SQLite cache is used directly; otherwise a fresh download
// is attempted, falling back to the cache when the network is unavailable.
func (s *Service) Bootstrap(ctx context.Context) error {
	if s.downloadedToday(ctx) {
		if err := s.loadFromCache(ctx); err == nil {
			return nil
		}
		s.logger.Warn("airport cache unreadable despite recent download, re-downloading")
	}

	if err := s.download(ctx); err != nil {
		s.logger.Warn("airport download failed, trying cache", "error", err)
		if cacheErr := s.loadFromCache(ctx); cacheErr != nil {
			return fmt.Errorf("no airport data available: download: %w", err)
		}
	}
	return nil
}

// Refresh re-downloads the dataset if the last download is older than a
// day. Called periodically; a failure keeps the previous snapshot.
func (s *Service) Refresh(ctx context.Context) error {
	if s.downloadedToday(ctx) {
		return nil
	}
	return s.download(ctx)
}

func (s *Service) downloadedToday(ctx context.Context) bool {
	day, ok := s.store.GetState(ctx, lastDownloadKey)
	return ok && day == time.Now().Format("2006-01-02")
}

func (s *Service) loadFromCache(ctx context.Context) error {
	airports, err := s.store.LoadAirports(ctx)
	if err != nil {
		return fmt.Errorf("failed to load airport cache: %w", err)
	}
	if len(airports) == 0 {
		return fmt.Errorf("airport cache is empty")
	}
	s.publish(airports)
	s.logger.Info("airport data loaded from cache", "airports", len(airports))
	return nil
}

func (s *Service) download(ctx context.Context) error {
	s.logger.Info("downloading airport data, this may take a while")

	freqData, err := s.client.Get(ctx, s.sources.FrequenciesURL)
	if err != nil {
		return fmt.Errorf("failed to download frequencies: %w", err)
	}
	freqs, err := parseFrequenciesCSV(freqData)
	if err != nil {
		return err
	}

	aptData, err := s.client.Get(ctx, s.sources.AirportsURL)
	if err != nil {
		return fmt.Errorf("failed to download airports: %w", err)
	}
	airports, err := parseAirportsCSV(aptData, freqs)
	if err != nil {
		return err
	}
	if len(airports) == 0 {
		return fmt.Errorf("airport download produced no usable records")
	}

	if err := s.store.ReplaceAirports(ctx, airports); err != nil {
		s.logger.Warn("failed to persist airport cache", "error", err)
	} else if err := s.store.SetState(ctx, lastDownloadKey, time.Now().Format("2006-01-02")); err != nil {
		s.logger.Warn("failed to persist download day", "error", err)
	}

	s.publish(airports)
	s.logger.Info("airport data downloaded", "airports", len(airports))
	return nil
}

// publish merges the override file over the bulk records and swaps the
// snapshot.
func (s *Service) publish(airports []model.AirportRecord) {
	byICAO := make(map[string]*model.AirportRecord, len(airports))
	for i := range airports {
		byICAO[airports[i].ICAO] = &airports[i]
	}

	if s.cfg.OverridePath != "" {
		overrides, err := parseOverrideFile(s.cfg.OverridePath)
		if err != nil {
			s.logger.Warn("override file unusable, ignoring", "path", s.cfg.OverridePath, "error", err)
		}
		for i := range overrides {
			byICAO[overrides[i].ICAO] = &overrides[i]
		}
	}

	s.snap.Store(&Snapshot{Airports: byICAO, BuiltAt: time.Now()})
}
