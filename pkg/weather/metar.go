// Package weather fetches raw METAR reports from the NOAA text service,
// used when no controller is online for a tuned frequency.
package weather

import (
	"context"
	"fmt"
	"strings"

	"voiceatis/pkg/config"
	"voiceatis/pkg/request"
)

// Fetcher downloads METAR reports per station.
type Fetcher struct {
	client  *request.Client
	baseURL string
}

// NewFetcher creates a Fetcher against the configured METAR base URL.
func NewFetcher(client *request.Client, sources config.SourcesConfig) *Fetcher {
	return &Fetcher{client: client, baseURL: strings.TrimRight(sources.MetarURL, "/")}
}

// Metar returns the current METAR for the station, e.g. "EDDS".
// The NOAA files carry an issue timestamp on the first line and the report
// on the second.
func (f *Fetcher) Metar(ctx context.Context, icao string) (string, error) {
	icao = strings.ToUpper(strings.TrimSpace(icao))
	if len(icao) != 4 {
		return "", fmt.Errorf("invalid station ident %q", icao)
	}

	body, err := f.client.Get(ctx, fmt.Sprintf("%s/%s.TXT", f.baseURL, icao))
	if err != nil {
		return "", fmt.Errorf("failed to fetch metar for %s: %w", icao, err)
	}

	lines := strings.Split(strings.TrimSpace(string(body)), "\n")
	if len(lines) < 2 {
		return "", fmt.Errorf("unexpected metar format for %s", icao)
	}
	return strings.TrimSpace(lines[1]), nil
}
