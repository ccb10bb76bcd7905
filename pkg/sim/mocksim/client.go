// Package mocksim provides a stationary simulator client for testing and
// for running without a flight simulator attached.
package mocksim

import (
	"context"
	"log/slog"
	"sync"

	"voiceatis/pkg/config"
	"voiceatis/pkg/model"
	"voiceatis/pkg/sim"
)

// MockClient implements sim.Client. The aircraft sits parked at the
// configured position with the configured frequencies tuned.
type MockClient struct {
	mu     sync.Mutex
	tel    sim.Telemetry
	radios []model.TunedFrequency
	closed bool
}

// NewClient creates a new mock simulator client from configuration.
func NewClient(cfg config.MockSimConfig) *MockClient {
	m := &MockClient{
		tel: sim.Telemetry{
			Latitude:   cfg.Lat,
			Longitude:  cfg.Lon,
			IsOnGround: cfg.OnGround,
		},
	}

	for _, rc := range []struct {
		radio model.Radio
		cfg   config.MockRadioConfig
	}{
		{model.RadioCOM1, cfg.COM1},
		{model.RadioCOM2, cfg.COM2},
		{model.RadioNAV1, cfg.NAV1},
		{model.RadioNAV2, cfg.NAV2},
	} {
		if rc.cfg.Frequency == "" {
			continue
		}
		khz, err := model.KHzFromMHzString(rc.cfg.Frequency)
		if err != nil {
			slog.Warn("Mock sim: ignoring unparsable frequency", "radio", rc.radio, "value", rc.cfg.Frequency, "error", err)
			continue
		}
		m.radios = append(m.radios, model.TunedFrequency{
			Radio:     rc.radio,
			KHz:       khz,
			Receiving: rc.cfg.Receiving(),
		})
	}

	return m
}

// GetTelemetry returns the current state of the simulated aircraft.
func (m *MockClient) GetTelemetry(ctx context.Context) (sim.Telemetry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return sim.Telemetry{}, sim.ErrNotConnected
	}
	return m.tel, nil
}

// GetRadios returns the tuned frequencies of the simulated aircraft.
func (m *MockClient) GetRadios(ctx context.Context) ([]model.TunedFrequency, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, sim.ErrNotConnected
	}
	out := make([]model.TunedFrequency, len(m.radios))
	copy(out, m.radios)
	return out, nil
}

// SetPosition moves the simulated aircraft.
func (m *MockClient) SetPosition(lat, lon float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tel.Latitude = lat
	m.tel.Longitude = lon
}

// SetOnGround toggles the on-ground flag.
func (m *MockClient) SetOnGround(onGround bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tel.IsOnGround = onGround
}

// TuneRadio retunes one receiver. A radio not yet present is added.
func (m *MockClient) TuneRadio(radio model.Radio, khz int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.radios {
		if m.radios[i].Radio == radio {
			m.radios[i].KHz = khz
			return
		}
	}
	m.radios = append(m.radios, model.TunedFrequency{Radio: radio, KHz: khz, Receiving: true})
}

// Close marks the client as disconnected.
func (m *MockClient) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
