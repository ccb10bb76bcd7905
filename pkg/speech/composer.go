// Package speech renders a parsed broadcast into the ordered sequence of
// spoken phrases handed to the speech engine. Unknown fields are omitted
// silently; the composer never speaks a placeholder.
package speech

import (
	"fmt"
	"strings"

	"voiceatis/pkg/model"
)

var runwaySideWords = map[byte]string{'L': "left", 'C': "center", 'R': "right"}

var coverageWords = map[string]string{
	model.CoverageFew:       "few",
	model.CoverageScattered: "scattered",
	model.CoverageBroken:    "broken",
	model.CoverageOvercast:  "overcast",
}

// Compose builds the phrase sequence for one broadcast. airportName is the
// directory's display name; icao is spelled phonetically in METAR-only
// mode, where no controller-written header exists.
func Compose(p *model.ParsedAtis, airportName, icao string) []string {
	var phrases []string

	phrases = appendHeader(phrases, p, airportName, icao)
	phrases = appendWind(phrases, p.Wind)
	phrases = appendVisibility(phrases, p)
	phrases = appendSky(phrases, p)
	phrases = appendTemperature(phrases, p)
	phrases = appendPressure(phrases, p.QNH)
	phrases = appendRunways(phrases, p.Runways)
	phrases = appendTransition(phrases, p)

	if p.Remarks != "" {
		phrases = append(phrases, ExpandNumbers(p.Remarks))
	}
	if p.MetarOnly {
		phrases = append(phrases, "no A T C station online, weather information only")
	}
	return phrases
}

func appendHeader(phrases []string, p *model.ParsedAtis, airportName, icao string) []string {
	name := airportName
	if name == "" {
		name = SpellPhonetic(icao)
	}
	if p.MetarOnly {
		return append(phrases, fmt.Sprintf("%s weather report", SpellPhonetic(icao)))
	}

	header := name
	if p.InfoLetter != "" {
		header = fmt.Sprintf("%s information %s", name, model.PhoneticWord(p.InfoLetter))
	}
	phrases = append(phrases, header)
	if p.IssueTime != "" {
		phrases = append(phrases, fmt.Sprintf("met report time %s", SpeakString(p.IssueTime)))
	}
	return phrases
}

func appendWind(phrases []string, w *model.Wind) []string {
	if w == nil {
		return phrases
	}

	var phrase string
	switch {
	case w.Calm():
		phrase = "wind calm"
	case w.Variable:
		phrase = fmt.Sprintf("wind variable, %s knots", SpeakInt(w.SpeedKt))
	default:
		phrase = fmt.Sprintf("wind %s degrees, %s knots", SpeakPadded(w.DirectionDeg, 3), SpeakInt(w.SpeedKt))
	}
	if w.GustKt > 0 {
		phrase += fmt.Sprintf(", maximum %s knots", SpeakInt(w.GustKt))
	}
	if w.HasVarRange {
		phrase += fmt.Sprintf(", variable between %s and %s degrees",
			SpeakPadded(w.VarFromDeg, 3), SpeakPadded(w.VarToDeg, 3))
	}
	return append(phrases, phrase)
}

func appendVisibility(phrases []string, p *model.ParsedAtis) []string {
	v := p.Visibility
	if v == nil {
		return phrases
	}
	if v.Unit == model.VisMeters {
		if v.Value >= 9999 {
			return append(phrases, "visibility 10 kilometers or more")
		}
		return append(phrases, fmt.Sprintf("visibility %d meters", int(v.Value)))
	}
	if v.Value == float64(int(v.Value)) {
		return append(phrases, fmt.Sprintf("visibility %d statute miles", int(v.Value)))
	}
	return append(phrases, fmt.Sprintf("visibility %s statute miles",
		speakDigitString(strings.TrimRight(fmt.Sprintf("%.2f", v.Value), "0"))))
}

func appendSky(phrases []string, p *model.ParsedAtis) []string {
	if p.CAVOK {
		return append(phrases, "clouds and visibility ok")
	}
	if p.SkyClear {
		return append(phrases, "sky clear")
	}
	for _, c := range p.Clouds {
		word, ok := coverageWords[c.Coverage]
		if !ok {
			continue
		}
		phrase := fmt.Sprintf("%s clouds at %d feet", word, c.BaseFt)
		switch c.Type {
		case "CB":
			phrase += ", cumulonimbus"
		case "TCU":
			phrase += ", towering cumulus"
		}
		phrases = append(phrases, phrase)
	}
	return phrases
}

func appendTemperature(phrases []string, p *model.ParsedAtis) []string {
	if p.TemperatureC != nil {
		phrases = append(phrases, fmt.Sprintf("temperature %s degrees Celsius", SpeakInt(*p.TemperatureC)))
	}
	if p.DewPointC != nil {
		phrases = append(phrases, fmt.Sprintf("dew point %s degrees Celsius", SpeakInt(*p.DewPointC)))
	}
	return phrases
}

func appendPressure(phrases []string, q *model.Pressure) []string {
	if q == nil {
		return phrases
	}
	if q.Unit == model.PressureHPa {
		return append(phrases, fmt.Sprintf("Q N H %s hectopascal", SpeakInt(int(q.Value))))
	}
	// 29.92 -> "altimeter 2 9 9 2"
	return append(phrases, fmt.Sprintf("altimeter %s", SpeakInt(int(q.Value*100+0.5))))
}

func appendRunways(phrases []string, runways []model.RunwayUse) []string {
	arr := runwayList(runways, false)
	dep := runwayList(runways, true)
	if arr != "" {
		phrases = append(phrases, "arrival runway "+arr)
	}
	if dep != "" {
		phrases = append(phrases, "departure runway "+dep)
	}
	return phrases
}

// runwayList renders "2 6 left and 2 6 right" for one direction.
func runwayList(runways []model.RunwayUse, departure bool) string {
	var parts []string
	for _, r := range runways {
		if departure && !r.Departure || !departure && !r.Arrival {
			continue
		}
		spoken := SpeakString(r.Ident[:2])
		if len(r.Ident) > 2 {
			if side, ok := runwaySideWords[r.Ident[2]]; ok {
				spoken += " " + side
			}
		}
		parts = append(parts, spoken)
	}
	return strings.Join(parts, " and ")
}

func appendTransition(phrases []string, p *model.ParsedAtis) []string {
	if p.TransitionAltitudeFt > 0 {
		phrases = append(phrases, fmt.Sprintf("transition altitude %d feet", p.TransitionAltitudeFt))
	}
	if p.TransitionLevel > 0 {
		phrases = append(phrases, fmt.Sprintf("transition level %s", SpeakInt(p.TransitionLevel)))
	}
	return phrases
}
