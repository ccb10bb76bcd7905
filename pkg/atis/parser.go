// Package atis decodes the raw broadcast text of an online controller
// station into a structured record. The text comes in several client
// dialects plus bare METAR; every variant reconciles into the same shape.
// Parsing is never fatal: fields that cannot be matched stay unknown.
package atis

import (
	"regexp"
	"strconv"
	"strings"

	"voiceatis/pkg/model"
)

var (
	issueTimeRe = regexp.MustCompile(`(?i)(\d{4})z`)
	confirmRe   = regexp.MustCompile(`(?i)^confirm atis`)
	rwySegRe    = regexp.MustCompile(`(\d{2})([^0-9]*)`)
	ivac2RwyRe  = regexp.MustCompile(`^(ARR|DEP)\s+RWY\s+(\d{2})(.*)$`)
)

// Parse decodes a station broadcast. The dialect usually comes from the
// station's reported client software; pass DialectUnknown to detect from
// the text layout.
func Parse(lines []string, dialect Dialect) model.ParsedAtis {
	var p model.ParsedAtis
	if len(lines) == 0 {
		return p
	}
	if dialect == DialectUnknown {
		dialect = detectFromLines(lines)
	}

	switch dialect {
	case DialectAurora:
		parseAurora(&p, lines)
	case DialectIvAc1:
		parseIvAc1(&p, lines)
	case DialectIvAc2:
		parseIvAc2(&p, lines)
	default:
		parseBestEffort(&p, lines)
	}
	return p
}

// ParseMetar wraps a bare METAR report, used when no station is online for
// a tuned frequency. Remarks are cleared; only decoded weather is spoken.
func ParseMetar(metar string) model.ParsedAtis {
	var p model.ParsedAtis
	parseMetarInto(&p, metar)
	p.Remarks = ""
	p.MetarOnly = true
	return p
}

// Aurora layout: station name, information line, METAR, runway line,
// optional remark lines, then the confirm footer.
func parseAurora(p *model.ParsedAtis, lines []string) {
	if len(lines) > 2 {
		parseInfoLine(p, lines[1]+" "+lines[2])
	}
	if len(lines) > 3 {
		parseMetarInto(p, lines[3])
	}
	if len(lines) > 4 {
		parseRunwayLine(p, lines[4])
	}
	p.Remarks = collectRemarks(lines, 5)
}

// First-generation layout folds the station name and information
// designator into one line.
func parseIvAc1(p *model.ParsedAtis, lines []string) {
	if len(lines) > 1 {
		parseInfoLine(p, lines[1])
	}
	if len(lines) > 2 {
		parseMetarInto(p, lines[2])
	}
	if len(lines) > 3 {
		parseRunwayLine(p, lines[3])
	}
	p.Remarks = collectRemarks(lines, 4)
}

// Second-generation layout: "EGSS ARR/DEP ATIS H 2103Z" header, one line
// per runway declaration, a TA/TRL line, and a METAR line. Remarks from
// this dialect are dropped entirely, long-standing policy.
func parseIvAc2(p *model.ParsedAtis, lines []string) {
	if len(lines) > 1 {
		if m := ivac2HdrRe.FindStringSubmatch(lines[1]); m != nil {
			p.InfoLetter = m[1]
			p.IssueTime = m[2]
		}
	}
	for _, line := range lines[1:] {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "METAR "):
			parseMetarInto(p, strings.TrimPrefix(line, "METAR "))
		case strings.HasPrefix(line, "TA "):
			parseTransitionPair(p, line)
		default:
			if m := ivac2RwyRe.FindStringSubmatch(line); m != nil {
				addRunways(p, m[2], m[3], m[1] == "DEP")
			}
		}
	}
	p.Remarks = ""
}

// parseBestEffort handles unrecognized layouts: scan every line for a
// METAR-shaped report, an information designator, and runway markers.
func parseBestEffort(p *model.ParsedAtis, lines []string) {
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case metarLineRe.MatchString(trimmed):
			parseMetarInto(p, trimmed)
		case infoLineRe.MatchString(trimmed) && p.InfoLetter == "":
			parseInfoLine(p, trimmed)
		case strings.Contains(trimmed, "RWY"):
			parseRunwayLine(p, trimmed)
		}
	}
}

// parseInfoLine extracts the information designator and issue time from an
// "... information DELTA recorded at 2104z" line. The designator may be a
// spelling-alphabet word or a bare letter.
func parseInfoLine(p *model.ParsedAtis, line string) {
	if m := infoLineRe.FindStringSubmatch(line); m != nil {
		if letter := model.LetterFromPhonetic(m[1]); letter != "" {
			p.InfoLetter = letter
		}
	}
	if m := issueTimeRe.FindStringSubmatch(line); m != nil {
		p.IssueTime = m[1]
	}
}

// parseRunwayLine decodes the combined runway/transition line:
//
//	ARR RWY 07R/07L / DEP RWY 07C/18 / TRL FL060 / TA 5000FT
func parseRunwayLine(p *model.ParsedAtis, line string) {
	for _, seg := range strings.Split(line, " / ") {
		seg = strings.TrimSpace(seg)
		switch {
		case strings.HasPrefix(seg, "ARR"):
			parseRunwaySegment(p, seg, false)
		case strings.HasPrefix(seg, "DEP"):
			parseRunwaySegment(p, seg, true)
		case strings.HasPrefix(seg, "TRL"):
			lvl := strings.TrimSpace(strings.TrimPrefix(seg, "TRL"))
			lvl = strings.TrimPrefix(lvl, "FL")
			if v, err := strconv.Atoi(lvl); err == nil {
				p.TransitionLevel = v
			}
		case strings.HasPrefix(seg, "TA"):
			alt := strings.TrimSpace(strings.TrimPrefix(seg, "TA"))
			alt = strings.TrimSuffix(strings.ToUpper(alt), "FT")
			if v, err := strconv.Atoi(strings.TrimSpace(alt)); err == nil {
				p.TransitionAltitudeFt = v
			}
		}
	}
}

// parseRunwaySegment pulls runway idents out of one ARR/DEP segment.
// Idents come as "07R/07L", "26 L/R" (shared number, several letters), or
// a bare "18".
func parseRunwaySegment(p *model.ParsedAtis, seg string, departure bool) {
	for _, m := range rwySegRe.FindAllStringSubmatch(seg, -1) {
		addRunways(p, m[1], m[2], departure)
	}
}

// addRunways appends one runway per L/C/R letter found in the suffix, or
// the bare number when none is present.
func addRunways(p *model.ParsedAtis, number, suffix string, departure bool) {
	var idents []string
	for _, c := range suffix {
		switch c {
		case 'L', 'C', 'R':
			idents = append(idents, number+string(c))
		}
	}
	if len(idents) == 0 {
		idents = []string{number}
	}
	for _, id := range idents {
		appendRunway(p, id, departure)
	}
}

func appendRunway(p *model.ParsedAtis, ident string, departure bool) {
	for i := range p.Runways {
		if p.Runways[i].Ident == ident && p.Runways[i].Departure == departure {
			return
		}
	}
	p.Runways = append(p.Runways, model.RunwayUse{Ident: ident, Departure: departure, Arrival: !departure})
}

// parseTransitionPair decodes the second-generation "TA 6000 / TRL 75"
// line.
func parseTransitionPair(p *model.ParsedAtis, line string) {
	for _, part := range strings.Split(line, "/") {
		part = strings.TrimSpace(part)
		switch {
		case strings.HasPrefix(part, "TRL"):
			if v, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(part, "TRL"))); err == nil {
				p.TransitionLevel = v
			}
		case strings.HasPrefix(part, "TA"):
			if v, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(part, "TA"))); err == nil {
				p.TransitionAltitudeFt = v
			}
		}
	}
}

// collectRemarks joins the free-text lines between the structured block
// and the confirm footer.
func collectRemarks(lines []string, from int) string {
	var remarks []string
	for i := from; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" || confirmRe.MatchString(line) {
			continue
		}
		remarks = append(remarks, strings.TrimPrefix(line, "RMK "))
	}
	return strings.Join(remarks, ", ")
}
