package playback

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"voiceatis/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSynth struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (f *fakeSynth) Synthesize(ctx context.Context, text, voice, outputPath string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.calls = append(f.calls, text)
	return "wav", nil
}

func (f *fakeSynth) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeSynth) last() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return ""
	}
	return f.calls[len(f.calls)-1]
}

type fakePlayer struct {
	mu    sync.Mutex
	plays []string
	stops int
}

func (f *fakePlayer) Play(path string, onComplete func()) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.plays = append(f.plays, path)
	return nil
}

func (f *fakePlayer) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stops++
}

func (f *fakePlayer) playCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.plays)
}

func (f *fakePlayer) stopCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stops
}

type fakeMetar struct {
	mu      sync.Mutex
	metar   string
	err     error
	fetches int
}

func (f *fakeMetar) Metar(ctx context.Context, icao string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	if f.err != nil {
		return "", f.err
	}
	return f.metar, nil
}

func newTestController(t *testing.T) (*Controller, *fakeSynth, *fakePlayer, *fakeMetar) {
	t.Helper()
	synth := &fakeSynth{}
	player := &fakePlayer{}
	metar := &fakeMetar{metar: "EDDS 281220Z 27015KT 9999 FEW030 22/14 Q1018"}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c := NewController(synth, "Zira", player, metar, t.TempDir(), logger)
	return c, synth, player, metar
}

func stationBroadcast(info string) model.ResolvedBroadcast {
	lines := []string{
		"eu17.ts.ivao.aero/EDDS_ATIS",
		"Stuttgart Airport",
		fmt.Sprintf(" Information %s  recorded at 1220z", info),
		"EDDS 281220Z 27015KT 9999 FEW030 22/14 Q1018",
		"ARR RWY 25 / DEP RWY 25 / TRL FL70 / TA 5000ft",
		"CONFIRM ATIS INFO " + info + "  on initial contact",
	}
	return model.ResolvedBroadcast{
		Kind: model.BroadcastStation,
		Station: &model.StationSnapshot{
			Callsign:     "EDDS_ATIS",
			Role:         model.RoleATIS,
			FrequencyKHz: 126125,
			AtisLines:    lines,
			Software:     "aurora",
		},
		Airport: &model.AirportRecord{ICAO: "EDDS", Name: "Stuttgart"},
		RawText: strings.Join(lines, "\n"),
	}
}

func waitState(t *testing.T, c *Controller, want State) {
	t.Helper()
	require.Eventually(t, func() bool {
		return c.State() == want
	}, 2*time.Second, 10*time.Millisecond, "controller never reached state %s", want)
}

func TestControllerIdleOnSilence(t *testing.T) {
	c, synth, player, _ := newTestController(t)
	defer c.Shutdown()

	c.Update(model.Silence())
	assert.Equal(t, StateIdle, c.State())
	assert.Zero(t, synth.count())
	assert.Zero(t, player.playCount())
}

func TestControllerSpeaksStationBroadcast(t *testing.T) {
	c, synth, player, metar := newTestController(t)
	defer c.Shutdown()

	c.Update(stationBroadcast("GOLF"))
	waitState(t, c, StateSpeaking)

	assert.Equal(t, 1, synth.count())
	assert.Equal(t, 1, player.playCount())
	assert.Contains(t, synth.last(), "information Golf")
	assert.Zero(t, metar.fetches, "station broadcast must not fetch weather")
}

func TestControllerNoRestartOnEqualBroadcast(t *testing.T) {
	c, synth, player, _ := newTestController(t)
	defer c.Shutdown()

	c.Update(stationBroadcast("GOLF"))
	waitState(t, c, StateSpeaking)

	c.Update(stationBroadcast("GOLF"))
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, 1, synth.count())
	assert.Equal(t, 1, player.playCount())
}

func TestControllerTransitionsOnNewInformation(t *testing.T) {
	c, synth, player, _ := newTestController(t)
	defer c.Shutdown()

	c.Update(stationBroadcast("GOLF"))
	waitState(t, c, StateSpeaking)

	c.Update(stationBroadcast("HOTEL"))
	require.Eventually(t, func() bool {
		return synth.count() == 2
	}, 2*time.Second, 10*time.Millisecond)

	waitState(t, c, StateSpeaking)
	assert.GreaterOrEqual(t, player.stopCount(), 1, "old broadcast must be cancelled")
	assert.Contains(t, synth.last(), "information Hotel")
}

func TestControllerSilenceCancelsSpeech(t *testing.T) {
	c, _, player, _ := newTestController(t)
	defer c.Shutdown()

	c.Update(stationBroadcast("GOLF"))
	waitState(t, c, StateSpeaking)

	c.Update(model.Silence())
	assert.Equal(t, StateIdle, c.State())
	assert.GreaterOrEqual(t, player.stopCount(), 1)
}

func TestControllerMetarOnlyFetchesWeather(t *testing.T) {
	c, synth, _, metar := newTestController(t)
	defer c.Shutdown()

	c.Update(model.ResolvedBroadcast{
		Kind:    model.BroadcastMetarOnly,
		Airport: &model.AirportRecord{ICAO: "EDDS", Name: "Stuttgart"},
	})
	waitState(t, c, StateSpeaking)

	assert.Equal(t, 1, metar.fetches)
	assert.Contains(t, synth.last(), "weather information only")
}

func TestControllerMetarFetchFailure(t *testing.T) {
	c, synth, _, metar := newTestController(t)
	defer c.Shutdown()
	metar.err = errors.New("noaa unreachable")

	c.Update(model.ResolvedBroadcast{
		Kind:    model.BroadcastMetarOnly,
		Airport: &model.AirportRecord{ICAO: "EDDS", Name: "Stuttgart"},
	})

	require.Eventually(t, func() bool {
		return c.State() == StateIdle && metar.fetches > 0
	}, 2*time.Second, 10*time.Millisecond)
	assert.Zero(t, synth.count())
}

func TestControllerSynthesisFailure(t *testing.T) {
	c, synth, player, _ := newTestController(t)
	defer c.Shutdown()
	synth.err = errors.New("no voice installed")

	c.Update(stationBroadcast("GOLF"))

	require.Eventually(t, func() bool {
		return c.State() == StateIdle
	}, 2*time.Second, 10*time.Millisecond)
	assert.Zero(t, player.playCount())
}
