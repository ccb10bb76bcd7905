package directory

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"voiceatis/pkg/model"
)

// OurAirports CSV column layout. The files carry a header row; we resolve
// columns by name so upstream column reordering does not break the parse.

// roleFromFrequencyType maps the OurAirports frequency type column to a
// controller role. Unlisted types (CTAF, UNIC, RDO, ...) are skipped.
func roleFromFrequencyType(t string) model.Role {
	switch strings.ToUpper(strings.TrimSpace(t)) {
	case "ATIS":
		return model.RoleATIS
	case "CLD":
		return model.RoleDEL
	case "GND":
		return model.RoleGND
	case "TWR":
		return model.RoleTWR
	case "DEP":
		return model.RoleDEP
	case "APP":
		return model.RoleAPP
	}
	return model.RoleUnknown
}

// parseFrequenciesCSV reads airport-frequencies.csv and returns the
// frequencies per airport ident, keeping only rows whose type maps to a
// controller role.
func parseFrequenciesCSV(data []byte) (map[string][]model.Frequency, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read frequencies header: %w", err)
	}
	idx := columnIndex(header)
	identCol, ok := idx["airport_ident"]
	if !ok {
		return nil, fmt.Errorf("frequencies csv missing airport_ident column")
	}
	typeCol, ok := idx["type"]
	if !ok {
		return nil, fmt.Errorf("frequencies csv missing type column")
	}
	mhzCol, ok := idx["frequency_mhz"]
	if !ok {
		return nil, fmt.Errorf("frequencies csv missing frequency_mhz column")
	}

	freqs := make(map[string][]model.Frequency)
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read frequencies row: %w", err)
		}
		if len(rec) <= mhzCol || len(rec) <= identCol || len(rec) <= typeCol {
			continue
		}
		role := roleFromFrequencyType(rec[typeCol])
		if role == model.RoleUnknown {
			continue
		}
		khz, err := model.KHzFromMHzString(rec[mhzCol])
		if err != nil {
			// A single bad row must not sink the dataset.
			continue
		}
		ident := strings.TrimSpace(rec[identCol])
		freqs[ident] = append(freqs[ident], model.Frequency{KHz: khz, Role: role})
	}
	return freqs, nil
}

// parseAirportsCSV reads airports.csv and returns records for airports that
// carry at least one known frequency. Airports without any frequency of
// interest are dropped to keep the snapshot small.
func parseAirportsCSV(data []byte, freqs map[string][]model.Frequency) ([]model.AirportRecord, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read airports header: %w", err)
	}
	idx := columnIndex(header)
	identCol, ok := idx["ident"]
	if !ok {
		return nil, fmt.Errorf("airports csv missing ident column")
	}
	nameCol, ok := idx["name"]
	if !ok {
		return nil, fmt.Errorf("airports csv missing name column")
	}
	latCol, ok := idx["latitude_deg"]
	if !ok {
		return nil, fmt.Errorf("airports csv missing latitude_deg column")
	}
	lonCol, ok := idx["longitude_deg"]
	if !ok {
		return nil, fmt.Errorf("airports csv missing longitude_deg column")
	}
	elevCol := -1
	if c, ok := idx["elevation_ft"]; ok {
		elevCol = c
	}

	var airports []model.AirportRecord
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read airports row: %w", err)
		}
		if len(rec) <= lonCol || len(rec) <= identCol {
			continue
		}

		ident := strings.TrimSpace(rec[identCol])
		// Only ICAO-style idents participate; local codes like "00A" or
		// "DE-0001" never match a network callsign.
		if len(ident) > 4 {
			continue
		}
		fs, ok := freqs[ident]
		if !ok {
			continue
		}

		lat, err := strconv.ParseFloat(rec[latCol], 64)
		if err != nil {
			continue
		}
		lon, err := strconv.ParseFloat(rec[lonCol], 64)
		if err != nil {
			continue
		}
		elev := 0.0
		if elevCol >= 0 && len(rec) > elevCol {
			if e, err := strconv.ParseFloat(strings.TrimSpace(rec[elevCol]), 64); err == nil {
				elev = e
			}
		}

		airports = append(airports, model.AirportRecord{
			ICAO:        ident,
			Name:        rec[nameCol],
			Lat:         lat,
			Lon:         lon,
			ElevationFt: elev,
			Frequencies: fs,
		})
	}
	return airports, nil
}

func columnIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(h)] = i
	}
	return idx
}
