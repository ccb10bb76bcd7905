package probe

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"voiceatis/pkg/config"
	"voiceatis/pkg/request"
	"voiceatis/pkg/store"
	"voiceatis/pkg/tts"
)

// Checks assembles the startup checks for the configured stack. Network
// endpoints are non-critical; the app degrades to cached data and silence
// when they are down.
func Checks(cfg *config.Config, client *request.Client, st store.StateStore, engine tts.Provider) []Check {
	return []Check{
		{
			Name:    "Whazzup Endpoint",
			Run:     endpointCheck(client, cfg.Sources.WhazzupURL),
			Timeout: 10 * time.Second,
		},
		{
			Name:    "METAR Endpoint",
			Run:     endpointCheck(client, cfg.Sources.MetarURL+"/EDDF.TXT"),
			Timeout: 10 * time.Second,
		},
		{
			Name: "State Store",
			Run: func(ctx context.Context) error {
				if err := st.SetState(ctx, "startup_check", "ok"); err != nil {
					return err
				}
				return st.DeleteState(ctx, "startup_check")
			},
			Critical: true,
		},
		{
			Name: "TTS Voices",
			Run: func(ctx context.Context) error {
				voices, err := engine.Voices(ctx)
				if err != nil {
					return err
				}
				if len(voices) == 0 {
					return fmt.Errorf("no voices installed")
				}
				return nil
			},
			Critical: true,
		},
		{
			Name: "TTS Work Directory",
			Run: func(ctx context.Context) error {
				if err := os.MkdirAll(cfg.TTS.WorkDir, 0o755); err != nil {
					return err
				}
				marker := filepath.Join(cfg.TTS.WorkDir, "startup_check.tmp")
				if err := os.WriteFile(marker, []byte("ok"), 0o644); err != nil {
					return err
				}
				return os.Remove(marker)
			},
			Critical: true,
		},
	}
}

func endpointCheck(client *request.Client, url string) func(context.Context) error {
	return func(ctx context.Context) error {
		_, err := client.Get(ctx, url)
		return err
	}
}
