// Package audio provides audio playback for synthesized broadcasts.
package audio

import (
	"log/slog"
	"os"
	"sync"
	"time"

	"voiceatis/pkg/config"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
)

// Service defines the interface for audio playback control.
type Service interface {
	// Play starts playback of an audio file.
	// onComplete is called when playback finishes (not when stopped manually).
	Play(filepath string, onComplete func()) error
	// Stop stops current playback immediately.
	Stop()
	// Shutdown stops playback and cleans up resources/files.
	Shutdown()

	// IsPlaying returns true if audio is currently playing.
	IsPlaying() bool
	// SetVolume sets playback volume (0.0 to 1.0).
	SetVolume(vol float64)
	// Volume returns current volume level.
	Volume() float64
}

// Manager implements the Service interface using gopxl/beep.
type Manager struct {
	mu                 sync.RWMutex
	ctrl               *beep.Ctrl
	volume             float64
	lastBroadcastFile  string
	speakerInitialized bool
	currentSampleRate  beep.SampleRate
	streamer           *effects.Volume
	trackStreamer      beep.StreamSeekCloser
	config             *config.AudioConfig
}

// New creates a new Manager instance.
func New(cfg *config.AudioConfig) *Manager {
	vol := 1.0
	if cfg != nil {
		vol = cfg.Volume
	}
	return &Manager{
		volume: vol,
		config: cfg,
	}
}

// Play starts playback of an audio file.
func (m *Manager) Play(filepath string, onComplete func()) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Stop any current playback and close the file handle
	m.stopLocked()

	streamer, format, err := m.decodeStreamer(filepath)
	if err != nil {
		return err
	}

	if err := m.ensureSpeakerInitialized(streamer); err != nil {
		return err
	}

	// Resample streamer to target rate
	resampled := beep.Resample(3, format.SampleRate, m.currentSampleRate, streamer)

	var finalStreamer beep.Streamer = resampled
	if m.config != nil && m.config.RadioEffect {
		finalStreamer = NewRadioFilter(resampled, float64(m.currentSampleRate), m.config.LowCutoff, m.config.HighCutoff)
		slog.Debug("Audio: Radio effect applied",
			"low", m.config.LowCutoff,
			"high", m.config.HighCutoff)
	}

	// Map 0-1 linear volume to Beep logic (Base 2)
	volStreamer := &effects.Volume{
		Streamer: finalStreamer,
		Base:     2,
		Volume:   volumeToPower(m.volume),
		Silent:   m.volume <= 0.01,
	}

	m.streamer = volStreamer
	m.trackStreamer = streamer

	m.ctrl = &beep.Ctrl{Streamer: volStreamer}

	// Play with callback to clean up when done
	speaker.Play(beep.Seq(m.ctrl, beep.Callback(func() {
		// Launch goroutine so the speaker thread is not blocked
		go func() {
			m.mu.Lock()
			m.ctrl = nil
			m.mu.Unlock()
			streamer.Close()

			if onComplete != nil {
				onComplete()
			}
		}()
	})))

	// Delete the previous synthesis artifact now that the new one is loaded
	if m.lastBroadcastFile != "" && m.lastBroadcastFile != filepath {
		oldFile := m.lastBroadcastFile
		if err := os.Remove(oldFile); err == nil {
			slog.Debug("Audio: Cleaned up previous broadcast artifact", "path", oldFile)
		} else if !os.IsNotExist(err) {
			slog.Warn("Audio: Failed to cleanup previous broadcast artifact", "path", oldFile, "error", err)
		}
	}

	m.lastBroadcastFile = filepath

	slog.Debug("Playing audio", "path", filepath)

	return nil
}

// Stop stops current playback.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stopLocked()
}

func (m *Manager) stopLocked() {
	if m.trackStreamer != nil {
		m.trackStreamer.Close()
		m.trackStreamer = nil
	}
	if m.ctrl != nil {
		speaker.Clear()
		m.ctrl = nil
	}
}

func (m *Manager) ensureSpeakerInitialized(streamer beep.StreamSeekCloser) error {
	const targetSampleRate = 48000
	if !m.speakerInitialized {
		err := speaker.Init(beep.SampleRate(targetSampleRate), beep.SampleRate(targetSampleRate).N(time.Second/10))
		if err != nil {
			streamer.Close()
			slog.Error("Failed to initialize speaker", "error", err)
			return err
		}
		m.speakerInitialized = true
		m.currentSampleRate = beep.SampleRate(targetSampleRate)
	}
	return nil
}

// Shutdown stops playback and deletes any residual audio artifacts.
func (m *Manager) Shutdown() {
	m.Stop()

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.lastBroadcastFile != "" {
		if err := os.Remove(m.lastBroadcastFile); err == nil {
			slog.Debug("Audio: Shutdown cleanup of residual artifact", "path", m.lastBroadcastFile)
		} else if !os.IsNotExist(err) {
			slog.Warn("Audio: Failed to cleanup residual artifact on shutdown", "path", m.lastBroadcastFile, "error", err)
		}
		m.lastBroadcastFile = ""
	}
}

// IsPlaying returns true if audio is currently playing.
func (m *Manager) IsPlaying() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ctrl != nil
}

// SetVolume sets playback volume (0.0 to 1.0).
func (m *Manager) SetVolume(vol float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if vol < 0 {
		vol = 0
	} else if vol > 1 {
		vol = 1
	}
	m.volume = vol

	// Update live streamer if playing
	if m.streamer != nil {
		speaker.Lock()
		m.streamer.Volume = volumeToPower(vol)
		m.streamer.Silent = vol <= 0.01
		speaker.Unlock()
	}
}

// Volume returns current volume level.
func (m *Manager) Volume() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.volume
}

func (m *Manager) decodeStreamer(path string) (beep.StreamSeekCloser, beep.Format, error) {
	f, err := os.Open(path)
	if err != nil {
		slog.Error("Failed to open audio file", "path", path, "error", err)
		return nil, beep.Format{}, err
	}

	// WAV is what the synthesis engines emit; try it first
	streamer, format, err := wav.Decode(f)
	if err == nil {
		return streamer, format, nil
	}

	// Reopen for MP3 attempt (WAV decode failure leaves file state uncertain)
	f.Close()
	f, err = os.Open(path)
	if err != nil {
		return nil, beep.Format{}, err
	}
	defer func() {
		if err != nil {
			f.Close()
		}
	}()

	streamer, format, err = mp3.Decode(f)
	if err != nil {
		slog.Error("Failed to decode audio file", "path", path, "error", err)
		return nil, beep.Format{}, err
	}

	return streamer, format, nil
}
