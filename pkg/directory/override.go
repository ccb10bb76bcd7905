package directory

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"voiceatis/pkg/model"
)

// Override file format, one airport per line:
//
//	ICAO; 123.450^118.125; 48.689900; 9.222000; Airport Name
//
// Multiple ATIS frequencies are joined with "^". Lines starting with "#"
// are comments. An override record replaces the bulk record for the same
// ICAO wholesale.

// parseOverrideFile reads the user override file. A missing file is not an
// error; users without local corrections simply never create one.
func parseOverrideFile(path string) ([]model.AirportRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open override file: %w", err)
	}
	defer f.Close()
	return parseOverride(f)
}

func parseOverride(r io.Reader) ([]model.AirportRecord, error) {
	var airports []model.AirportRecord
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		rec, err := parseOverrideLine(line)
		if err != nil {
			return nil, fmt.Errorf("override line %d: %w", lineNo, err)
		}
		airports = append(airports, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read override file: %w", err)
	}
	return airports, nil
}

func parseOverrideLine(line string) (model.AirportRecord, error) {
	fields := strings.FieldsFunc(line, func(r rune) bool { return r == ';' || r == ',' })
	if len(fields) != 5 {
		return model.AirportRecord{}, fmt.Errorf("expected 5 fields, got %d", len(fields))
	}

	icao := strings.TrimSpace(fields[0])
	if icao == "" {
		return model.AirportRecord{}, fmt.Errorf("empty ICAO")
	}

	var freqs []model.Frequency
	for _, fr := range strings.Split(fields[1], "^") {
		khz, err := model.KHzFromMHzString(fr)
		if err != nil {
			return model.AirportRecord{}, err
		}
		freqs = append(freqs, model.Frequency{KHz: khz, Role: model.RoleATIS})
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(fields[2]), 64)
	if err != nil {
		return model.AirportRecord{}, fmt.Errorf("invalid latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(fields[3]), 64)
	if err != nil {
		return model.AirportRecord{}, fmt.Errorf("invalid longitude: %w", err)
	}

	return model.AirportRecord{
		ICAO:        icao,
		Name:        strings.TrimSpace(fields[4]),
		Lat:         lat,
		Lon:         lon,
		Frequencies: freqs,
		Override:    true,
	}, nil
}
