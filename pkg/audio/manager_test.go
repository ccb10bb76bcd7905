package audio

import (
	"fmt"
	"testing"

	"voiceatis/pkg/config"
)

func TestNew(t *testing.T) {
	m := New(&config.AudioConfig{Volume: 1.0})
	if m == nil {
		t.Fatal("New returned nil")
	}
	if m.Volume() != 1.0 {
		t.Errorf("Expected default volume 1.0, got %f", m.Volume())
	}
}

func TestManager_StateAccessors(t *testing.T) {
	m := New(&config.AudioConfig{Volume: 1.0})

	tests := []struct {
		name   string
		action func(*Manager)
		check  func(*Manager) error
	}{
		{
			name:   "Default State",
			action: func(m *Manager) {},
			check: func(m *Manager) error {
				if m.Volume() != 1.0 {
					return errFmt("expected volume 1.0, got %f", m.Volume())
				}
				if m.IsPlaying() {
					return errFmt("expected IsPlaying false")
				}
				return nil
			},
		},
		{
			name: "Volume Control",
			action: func(m *Manager) {
				m.SetVolume(0.5)
			},
			check: func(m *Manager) error {
				if m.Volume() != 0.5 {
					return errFmt("expected volume 0.5, got %f", m.Volume())
				}
				return nil
			},
		},
		{
			name: "Volume Clamping Low",
			action: func(m *Manager) {
				m.SetVolume(-0.5)
			},
			check: func(m *Manager) error {
				if m.Volume() != 0 {
					return errFmt("expected volume 0, got %f", m.Volume())
				}
				return nil
			},
		},
		{
			name: "Volume Clamping High",
			action: func(m *Manager) {
				m.SetVolume(1.5)
			},
			check: func(m *Manager) error {
				if m.Volume() != 1.0 {
					return errFmt("expected volume 1.0, got %f", m.Volume())
				}
				return nil
			},
		},
		{
			name: "Stop Without Playback",
			action: func(m *Manager) {
				m.Stop()
			},
			check: func(m *Manager) error {
				if m.IsPlaying() {
					return errFmt("expected IsPlaying false after Stop")
				}
				return nil
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m.mu.Lock()
			m.volume = 1.0
			m.lastBroadcastFile = ""
			m.mu.Unlock()

			tt.action(m)
			if err := tt.check(m); err != nil {
				t.Error(err)
			}
		})
	}
}

func TestPlay_MissingFile(t *testing.T) {
	m := New(&config.AudioConfig{Volume: 1.0})
	if err := m.Play("testdata/does-not-exist.wav", nil); err == nil {
		t.Error("expected error for missing file")
	}
}

// Helper for concise error returning
type strErr string

func (e strErr) Error() string { return string(e) }
func errFmt(format string, a ...interface{}) error {
	return strErr(fmt.Sprintf(format, a...))
}
