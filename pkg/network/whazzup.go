package network

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"voiceatis/pkg/model"
)

// Wire types for the whazzup v2 JSON feed. Only the fields we consume are
// declared; the feed carries far more.

type whazzupFile struct {
	UpdatedAt time.Time      `json:"updatedAt"`
	Clients   whazzupClients `json:"clients"`
}

type whazzupClients struct {
	ATCs []whazzupATC `json:"atcs"`
}

type whazzupATC struct {
	Callsign        string          `json:"callsign"`
	SoftwareTypeID  string          `json:"softwareTypeId"`
	SoftwareVersion string          `json:"softwareVersion"`
	ATCSession      *whazzupSession `json:"atcSession"`
	LastTrack       *whazzupTrack   `json:"lastTrack"`
	ATIS            *whazzupAtis    `json:"atis"`
}

type whazzupSession struct {
	Frequency float64 `json:"frequency"` // MHz
	Position  string  `json:"position"`
}

type whazzupTrack struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type whazzupAtis struct {
	Lines []string `json:"lines"`
}

// decodeWhazzup parses the feed into station snapshots. Stations without a
// session or frequency are dropped; a malformed entry never takes down the
// whole refresh.
func decodeWhazzup(data []byte) ([]model.StationSnapshot, time.Time, error) {
	var file whazzupFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to decode whazzup: %w", err)
	}

	stations := make([]model.StationSnapshot, 0, len(file.Clients.ATCs))
	for _, atc := range file.Clients.ATCs {
		if atc.Callsign == "" || atc.ATCSession == nil || atc.ATCSession.Frequency <= 0 {
			continue
		}
		st := model.StationSnapshot{
			Callsign:        atc.Callsign,
			Role:            model.RoleFromCallsign(atc.Callsign),
			FrequencyKHz:    int(math.Round(atc.ATCSession.Frequency * 1000)),
			Software:        atc.SoftwareTypeID,
			SoftwareVersion: atc.SoftwareVersion,
			LastSeen:        file.UpdatedAt,
		}
		if atc.LastTrack != nil {
			st.Lat = atc.LastTrack.Latitude
			st.Lon = atc.LastTrack.Longitude
		}
		if atc.ATIS != nil {
			st.AtisLines = atc.ATIS.Lines
		}
		stations = append(stations, st)
	}
	return stations, file.UpdatedAt, nil
}
