// Package playback turns resolver results into audible broadcasts. It owns
// the transition between what the pilot is hearing and what the resolver says
// they should be hearing.
package playback

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"voiceatis/pkg/atis"
	"voiceatis/pkg/model"
	"voiceatis/pkg/speech"

	"github.com/google/uuid"
)

// State is the controller's playback state.
type State string

const (
	// StateIdle means nothing is being spoken.
	StateIdle State = "idle"
	// StateTransitioning means a new broadcast is being prepared.
	StateTransitioning State = "transitioning"
	// StateSpeaking means a broadcast is playing.
	StateSpeaking State = "speaking"
)

// Synthesizer is the slice of the TTS provider the controller needs.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voice, outputPath string) (string, error)
}

// Player is the slice of the audio service the controller needs.
type Player interface {
	Play(filepath string, onComplete func()) error
	Stop()
}

// MetarSource supplies the weather text for METAR-only broadcasts.
type MetarSource interface {
	Metar(ctx context.Context, icao string) (string, error)
}

// Controller is the playback state machine. Update is called once per
// polling cycle with the freshly resolved broadcast; everything slow
// (weather fetch, synthesis) happens on a background goroutine so the
// polling loop never waits.
type Controller struct {
	tts     Synthesizer
	voice   string
	audio   Player
	weather MetarSource
	workDir string
	logger  *slog.Logger

	mu         sync.Mutex
	state      State
	currentKey string
	current    model.ResolvedBroadcast
	cancel     context.CancelFunc
	// gen invalidates completions of superseded broadcasts.
	gen int
}

// NewController creates a playback controller.
func NewController(synth Synthesizer, voice string, player Player, weather MetarSource, workDir string, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		tts:     synth,
		voice:   voice,
		audio:   player,
		weather: weather,
		workDir: workDir,
		logger:  logger,
		state:   StateIdle,
	}
}

// State returns the current playback state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Current returns the broadcast the controller is acting on.
func (c *Controller) Current() model.ResolvedBroadcast {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Update reconciles playback with the freshly resolved broadcast. Equal
// broadcasts are a no-op; a changed broadcast cancels any in-flight speech
// immediately and starts the new sequence in the background. Update never
// blocks on network or synthesis.
func (c *Controller) Update(resolved model.ResolvedBroadcast) {
	key := resolved.Key()

	c.mu.Lock()
	defer c.mu.Unlock()

	if key == c.currentKey {
		return
	}

	// The tuned broadcast changed; whatever is speaking is now wrong.
	c.gen++
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.audio.Stop()

	c.currentKey = key
	c.current = resolved

	if resolved.Kind == model.BroadcastSilence {
		c.state = StateIdle
		c.logger.Debug("Playback: silence")
		return
	}

	c.state = StateTransitioning
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	go c.speak(ctx, c.gen, resolved)
}

// Shutdown cancels playback and in-flight synthesis.
func (c *Controller) Shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.audio.Stop()
	c.state = StateIdle
	c.currentKey = ""
	c.current = model.Silence()
}

// speak prepares and plays one broadcast. It runs detached from the polling
// loop; ctx is cancelled when the broadcast is superseded.
func (c *Controller) speak(ctx context.Context, gen int, resolved model.ResolvedBroadcast) {
	text, err := c.composeText(ctx, resolved)
	if err != nil {
		c.logger.Error("Playback: failed to compose broadcast", "key", resolved.Key(), "error", err)
		c.settle(gen, StateIdle)
		return
	}
	if ctx.Err() != nil {
		return
	}

	outputPath := filepath.Join(c.workDir, fmt.Sprintf("voiceatis_%s", uuid.NewString()))
	format, err := c.tts.Synthesize(ctx, text, c.voice, outputPath)
	if err != nil {
		c.logger.Error("Playback: synthesis failed", "error", err)
		c.settle(gen, StateIdle)
		return
	}
	audioPath := outputPath + "." + format

	c.mu.Lock()
	if gen != c.gen || ctx.Err() != nil {
		c.mu.Unlock()
		os.Remove(audioPath)
		return
	}
	err = c.audio.Play(audioPath, func() { c.replay(gen, audioPath) })
	if err != nil {
		c.state = StateIdle
		c.mu.Unlock()
		c.logger.Error("Playback: play failed", "path", audioPath, "error", err)
		return
	}
	c.state = StateSpeaking
	c.mu.Unlock()

	c.logger.Info("Playback: speaking", "key", resolved.Key(), "chars", len(text))
}

// replay loops the broadcast, like a real transmitter repeating its tape,
// until the resolver supersedes it.
func (c *Controller) replay(gen int, audioPath string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return
	}
	if err := c.audio.Play(audioPath, func() { c.replay(gen, audioPath) }); err != nil {
		c.logger.Warn("Playback: replay failed", "path", audioPath, "error", err)
		c.state = StateIdle
	}
}

// settle moves to the given state unless the broadcast was superseded.
func (c *Controller) settle(gen int, state State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen == c.gen {
		c.state = state
	}
}

// composeText builds the spoken phrase sequence for a broadcast.
func (c *Controller) composeText(ctx context.Context, resolved model.ResolvedBroadcast) (string, error) {
	var parsed model.ParsedAtis

	switch resolved.Kind {
	case model.BroadcastMetarOnly:
		raw := resolved.RawText
		if raw == "" {
			metar, err := c.weather.Metar(ctx, resolved.Airport.ICAO)
			if err != nil {
				return "", fmt.Errorf("metar fetch for %s: %w", resolved.Airport.ICAO, err)
			}
			raw = metar
		}
		parsed = atis.ParseMetar(raw)
	case model.BroadcastStation:
		parsed = atis.Parse(resolved.Station.AtisLines, atis.DetectDialect(resolved.Station))
	default:
		return "", fmt.Errorf("nothing to speak for %s", resolved.Kind)
	}

	name, icao := "", ""
	if resolved.Airport != nil {
		name, icao = resolved.Airport.Name, resolved.Airport.ICAO
	} else if resolved.Station != nil {
		icao = resolved.Station.AirportICAO()
	}

	phrases := speech.Compose(&parsed, name, icao)
	return strings.Join(phrases, ", ") + ".", nil
}
