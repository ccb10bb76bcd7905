package atis

import (
	"regexp"
	"strings"

	"voiceatis/pkg/model"
)

// Dialect tags the text layout a station's controller client produces.
// Variants are tried in a fixed priority order; each either matches or
// defers to the next.
type Dialect int

const (
	DialectUnknown Dialect = iota
	DialectAurora
	DialectIvAc1
	DialectIvAc2
	DialectMetar
)

func (d Dialect) String() string {
	switch d {
	case DialectAurora:
		return "aurora"
	case DialectIvAc1:
		return "ivac1"
	case DialectIvAc2:
		return "ivac2"
	case DialectMetar:
		return "metar"
	}
	return "unknown"
}

var (
	infoLineRe  = regexp.MustCompile(`(?i)information\s+([A-Z]+)`)
	ivac2HdrRe  = regexp.MustCompile(`ATIS\s+([A-Z])\s+(\d{4})Z`)
	metarLineRe = regexp.MustCompile(`^[A-Z]{4}\s+\d{6}Z\s`)
)

// DetectDialect classifies a station's broadcast. The reported software
// type decides when present; the text layout is the fallback for clients
// that do not report one.
func DetectDialect(station *model.StationSnapshot) Dialect {
	switch {
	case strings.EqualFold(station.Software, "aurora"):
		return DialectAurora
	case strings.EqualFold(station.Software, "ivAc"):
		if strings.HasPrefix(station.SoftwareVersion, "1") {
			return DialectIvAc1
		}
		if strings.HasPrefix(station.SoftwareVersion, "2") {
			return DialectIvAc2
		}
	}
	return detectFromLines(station.AtisLines)
}

// detectFromLines guesses the dialect from the text layout alone.
func detectFromLines(lines []string) Dialect {
	if len(lines) == 0 {
		return DialectUnknown
	}
	for _, l := range lines {
		if ivac2HdrRe.MatchString(l) {
			return DialectIvAc2
		}
	}
	// Aurora puts the station name on its own line and the information
	// designator on the next; the first generation folds both into one.
	if len(lines) > 2 && infoLineRe.MatchString(lines[2]) && !infoLineRe.MatchString(lines[1]) {
		return DialectAurora
	}
	if len(lines) > 1 && infoLineRe.MatchString(lines[1]) {
		return DialectIvAc1
	}
	for _, l := range lines {
		if metarLineRe.MatchString(strings.TrimSpace(l)) {
			return DialectMetar
		}
	}
	return DialectUnknown
}
