// Package model defines the shared data types of the ATIS pipeline.
package model

import (
	"fmt"
	"hash/fnv"
	"strings"
	"time"
)

// Radio identifies one of the aircraft's tunable receivers.
type Radio string

const (
	RadioCOM1 Radio = "COM1"
	RadioCOM2 Radio = "COM2"
	RadioNAV1 Radio = "NAV1"
	RadioNAV2 Radio = "NAV2"
)

// TunedFrequency is the state of one radio for a single polling cycle.
// It is read fresh from telemetry every cycle and never persisted.
type TunedFrequency struct {
	Radio     Radio
	KHz       int
	Receiving bool
}

// Role is a controller position type.
type Role string

const (
	RoleATIS    Role = "ATIS"
	RoleDEL     Role = "DEL"
	RoleGND     Role = "GND"
	RoleTWR     Role = "TWR"
	RoleDEP     Role = "DEP"
	RoleAPP     Role = "APP"
	RoleUnknown Role = ""
)

// RoleFromCallsign derives the controller role from a station callsign
// suffix, e.g. "EDDF_GND" -> GND, "EDDF_A_TWR" -> TWR.
func RoleFromCallsign(callsign string) Role {
	idx := strings.LastIndex(callsign, "_")
	if idx < 0 || idx == len(callsign)-1 {
		return RoleUnknown
	}
	switch Role(callsign[idx+1:]) {
	case RoleATIS:
		return RoleATIS
	case RoleDEL:
		return RoleDEL
	case RoleGND:
		return RoleGND
	case RoleTWR:
		return RoleTWR
	case RoleDEP:
		return RoleDEP
	case RoleAPP:
		return RoleAPP
	}
	return RoleUnknown
}

// Frequency pairs a published frequency with the role it serves.
type Frequency struct {
	KHz  int
	Role Role
}

// AirportRecord is one entry of the airport directory.
type AirportRecord struct {
	ICAO        string
	Name        string
	Lat         float64
	Lon         float64
	ElevationFt float64
	// Frequencies preserves publication order; the first ATIS entry is the
	// primary broadcast frequency.
	Frequencies []Frequency
	// Override marks records loaded from the user dataset. On identifier
	// collision an override record replaces the bulk record wholesale.
	Override bool
}

// HasFrequency reports whether khz is published for this airport in any role.
func (a *AirportRecord) HasFrequency(khz int) bool {
	for _, f := range a.Frequencies {
		if f.KHz == khz {
			return true
		}
	}
	return false
}

// HasATISFrequency reports whether khz is published with the ATIS role.
func (a *AirportRecord) HasATISFrequency(khz int) bool {
	for _, f := range a.Frequencies {
		if f.KHz == khz && f.Role == RoleATIS {
			return true
		}
	}
	return false
}

// StationSnapshot is one online ATC station as seen in a network refresh.
// Snapshots are immutable; a station absent from a refresh is offline.
type StationSnapshot struct {
	Callsign     string
	Role         Role
	FrequencyKHz int
	Lat          float64
	Lon          float64
	// AtisLines is the raw broadcast text, line by line, as typed by the
	// controller or produced by their client.
	AtisLines []string
	// Software identifies the controller client ("aurora", "ivac"), used to
	// pick the text dialect.
	Software        string
	SoftwareVersion string
	LastSeen        time.Time
}

// AtisText joins the raw broadcast lines.
func (s *StationSnapshot) AtisText() string {
	return strings.Join(s.AtisLines, "\n")
}

// AirportICAO returns the airport identifier portion of the callsign.
func (s *StationSnapshot) AirportICAO() string {
	if idx := strings.Index(s.Callsign, "_"); idx > 0 {
		return s.Callsign[:idx]
	}
	return s.Callsign
}

// BroadcastKind discriminates the resolver outcome.
type BroadcastKind int

const (
	// BroadcastSilence means nothing receivable is tuned.
	BroadcastSilence BroadcastKind = iota
	// BroadcastStation means a live station's ATIS is receivable.
	BroadcastStation
	// BroadcastMetarOnly means a published ATIS frequency is tuned but no
	// station is online; the airport's METAR is read instead.
	BroadcastMetarOnly
)

func (k BroadcastKind) String() string {
	switch k {
	case BroadcastStation:
		return "station"
	case BroadcastMetarOnly:
		return "metar-only"
	default:
		return "silence"
	}
}

// ResolvedBroadcast is the single authoritative resolver result for one
// polling cycle. Exactly one instance is current at any time.
type ResolvedBroadcast struct {
	Kind    BroadcastKind
	Station *StationSnapshot // set when Kind == BroadcastStation
	Airport *AirportRecord   // set unless Kind == BroadcastSilence
	// RawText is the broadcast text the parser consumes: the station's ATIS
	// lines, or the airport METAR in METAR-only mode.
	RawText string
}

// Silence is the empty resolver outcome.
func Silence() ResolvedBroadcast {
	return ResolvedBroadcast{Kind: BroadcastSilence}
}

// Key identifies the broadcast for change detection: station identifier (or
// airport in METAR-only mode) plus a hash of the raw text. Two consecutive
// cycles with equal keys must not restart playback.
func (r ResolvedBroadcast) Key() string {
	if r.Kind == BroadcastSilence {
		return "silence"
	}
	ident := ""
	switch r.Kind {
	case BroadcastStation:
		ident = r.Station.Callsign
	case BroadcastMetarOnly:
		ident = r.Airport.ICAO
	}
	h := fnv.New64a()
	h.Write([]byte(r.RawText))
	return fmt.Sprintf("%s/%s/%x", r.Kind, ident, h.Sum64())
}

// Equal reports whether two broadcasts would sound identical.
func (r ResolvedBroadcast) Equal(other ResolvedBroadcast) bool {
	return r.Key() == other.Key()
}
