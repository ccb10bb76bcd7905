// Package resolver decides which single broadcast the pilot hears for a
// polling cycle: a live station, the airport's bare METAR, or silence.
// Resolve is a pure function of its inputs, which keeps every priority rule
// testable without network or simulator state.
package resolver

import (
	"voiceatis/pkg/directory"
	"voiceatis/pkg/geo"
	"voiceatis/pkg/model"
	"voiceatis/pkg/network"
)

// Role priority, most authoritative first. On the ground clearance comes
// before ground and tower; airborne the order flips toward approach.
var (
	groundPriority   = []model.Role{model.RoleDEL, model.RoleGND, model.RoleTWR, model.RoleDEP, model.RoleAPP}
	airbornePriority = []model.Role{model.RoleAPP, model.RoleTWR, model.RoleGND, model.RoleDEL, model.RoleDEP}
)

// rolePriority lower is better; roles outside the list (ATIS-only clients,
// unrecognized suffixes) rank after all listed ones but are still heard
// when nothing better matches.
func rolePriority(role model.Role, airborne bool) int {
	order := groundPriority
	if airborne {
		order = airbornePriority
	}
	for i, r := range order {
		if r == role {
			return i
		}
	}
	return len(order)
}

type candidate struct {
	station  model.StationSnapshot
	airport  *model.AirportRecord
	priority int
	// atisTagged marks that the tuned frequency is published with the ATIS
	// role in the directory; it breaks ties between same-priority stations.
	atisTagged bool
}

func (c candidate) betterThan(other *candidate) bool {
	if other == nil {
		return true
	}
	if c.priority != other.priority {
		return c.priority < other.priority
	}
	if c.atisTagged != other.atisTagged {
		return c.atisTagged
	}
	return false // first match wins
}

// Resolve selects at most one authoritative broadcast.
//
// For every receive-enabled tuned frequency, airports publishing that exact
// frequency within rangeNM are candidates. A live station is heard when it
// transmits on the exact tuned frequency and its callsign belongs to a
// candidate airport. With no station online, a tuned published ATIS
// frequency degrades to METAR-only. Anything else is silence.
//
// Airborne is external context from the caller's ground-speed/altitude
// heuristic, not derived here. A nil network snapshot counts as "no
// stations online" and degrades, never fails.
func Resolve(tuned []model.TunedFrequency, position geo.Point, dir *directory.Snapshot, net *network.Snapshot, airborne bool, rangeNM float64) model.ResolvedBroadcast {
	var best *candidate
	var metarFallback *model.AirportRecord

	for _, t := range tuned {
		if !t.Receiving || t.KHz <= 0 {
			continue
		}
		for _, apt := range dir.WithFrequency(t.KHz) {
			if geo.DistanceNM(position, geo.Point{Lat: apt.Lat, Lon: apt.Lon}) > rangeNM {
				continue
			}

			stations := net.OnFrequency(t.KHz)
			matched := false
			for _, st := range stations {
				if st.AirportICAO() != apt.ICAO {
					continue
				}
				matched = true
				c := candidate{
					station:    st,
					airport:    apt,
					priority:   rolePriority(st.Role, airborne),
					atisTagged: apt.HasATISFrequency(t.KHz),
				}
				if c.betterThan(best) {
					chosen := c
					best = &chosen
				}
			}

			if !matched && metarFallback == nil && apt.HasATISFrequency(t.KHz) {
				metarFallback = apt
			}
		}
	}

	if best != nil {
		return model.ResolvedBroadcast{
			Kind:    model.BroadcastStation,
			Station: &best.station,
			Airport: best.airport,
			RawText: best.station.AtisText(),
		}
	}
	if metarFallback != nil {
		// RawText stays empty; the playback pipeline fills in the fetched
		// METAR before diffing.
		return model.ResolvedBroadcast{
			Kind:    model.BroadcastMetarOnly,
			Airport: metarFallback,
		}
	}
	return model.Silence()
}
