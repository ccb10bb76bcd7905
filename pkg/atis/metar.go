package atis

import (
	"regexp"
	"strconv"
	"strings"

	"voiceatis/pkg/model"
)

// Token grammars for the METAR-shaped weather line. Each token either
// matches exactly one grammar or lands in remarks verbatim.
var (
	windRe     = regexp.MustCompile(`^(\d{3}|VRB)(\d{2,3})(?:G(\d{2,3}))?KT$`)
	windVarRe  = regexp.MustCompile(`^(\d{3})V(\d{3})$`)
	visMeterRe = regexp.MustCompile(`^\d{4}$`)
	visSMRe    = regexp.MustCompile(`^(?:(\d{1,2})|(\d)/(\d))SM$`)
	visMixRe   = regexp.MustCompile(`^(\d)/(\d)SM$`)
	cloudRe    = regexp.MustCompile(`^(FEW|SCT|BKN|OVC)(\d{3})(CB|TCU)?$`)
	tempRe     = regexp.MustCompile(`^(M?\d{2})/(M?\d{2})$`)
	qnhHPaRe   = regexp.MustCompile(`^Q(\d{4})$`)
	qnhInHgRe  = regexp.MustCompile(`^A(\d{4})$`)
	issueRe    = regexp.MustCompile(`^(\d{2})(\d{4})Z$`)
	identRe    = regexp.MustCompile(`^[A-Z]{4}$`)
)

// parseMetarInto decodes a METAR-shaped line field by field. Unmatched
// tokens are collected into remarks; nothing here is fatal.
func parseMetarInto(p *model.ParsedAtis, text string) {
	tokens := strings.Fields(text)
	var remarks []string
	trend := false

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]

		// Trend groups (NOSIG, BECMG, TEMPO) are unsupported; everything
		// from the marker on is free text, not current weather.
		if tok == "NOSIG" || tok == "BECMG" || tok == "TEMPO" {
			trend = true
		}
		if trend {
			remarks = append(remarks, tok)
			continue
		}

		switch {
		case tok == "METAR" || tok == "SPECI" || tok == "AUTO":
			// Report-type markers carry no spoken content.

		case i == 0 && identRe.MatchString(tok):
			// Station ident heads the report.

		case issueRe.MatchString(tok):
			// The information line's time wins when both are present; the
			// report's day-time group only fills the gap in bare METARs.
			if p.IssueTime == "" {
				m := issueRe.FindStringSubmatch(tok)
				p.IssueTime = m[2]
			}

		case windRe.MatchString(tok):
			m := windRe.FindStringSubmatch(tok)
			w := &model.Wind{}
			if m[1] == "VRB" {
				w.Variable = true
			} else {
				w.DirectionDeg, _ = strconv.Atoi(m[1])
			}
			w.SpeedKt, _ = strconv.Atoi(m[2])
			if m[3] != "" {
				w.GustKt, _ = strconv.Atoi(m[3])
			}
			p.Wind = w

		case windVarRe.MatchString(tok):
			m := windVarRe.FindStringSubmatch(tok)
			if p.Wind != nil {
				p.Wind.VarFromDeg, _ = strconv.Atoi(m[1])
				p.Wind.VarToDeg, _ = strconv.Atoi(m[2])
				p.Wind.HasVarRange = true
			}

		case tok == "CAVOK":
			p.CAVOK = true

		case tok == "CLR" || tok == "SKC" || tok == "NSC" || tok == "NCD":
			p.SkyClear = true

		case visMeterRe.MatchString(tok) && p.Visibility == nil && p.Wind != nil:
			// A bare 4-digit group is metric visibility only in the slot
			// right after the wind; elsewhere it is ambiguous.
			v, _ := strconv.Atoi(tok)
			p.Visibility = &model.Visibility{Value: float64(v), Unit: model.VisMeters}

		case visSMRe.MatchString(tok):
			p.Visibility = parseStatuteMiles(tok, p.Visibility)

		case cloudRe.MatchString(tok):
			m := cloudRe.FindStringSubmatch(tok)
			base, _ := strconv.Atoi(m[2])
			p.Clouds = append(p.Clouds, model.CloudLayer{
				Coverage: m[1],
				BaseFt:   base * 100,
				Type:     m[3],
			})

		case tempRe.MatchString(tok):
			m := tempRe.FindStringSubmatch(tok)
			p.TemperatureC = parseSignedTemp(m[1])
			p.DewPointC = parseSignedTemp(m[2])

		case qnhHPaRe.MatchString(tok):
			m := qnhHPaRe.FindStringSubmatch(tok)
			v, _ := strconv.Atoi(m[1])
			p.QNH = &model.Pressure{Value: float64(v), Unit: model.PressureHPa}

		case qnhInHgRe.MatchString(tok):
			m := qnhInHgRe.FindStringSubmatch(tok)
			v, _ := strconv.Atoi(m[1])
			p.QNH = &model.Pressure{Value: float64(v) / 100, Unit: model.PressureInHg}

		case isWholeMilePrefix(tok, tokens, i):
			// "1 1/2SM" spans two tokens.
			whole, _ := strconv.Atoi(tok)
			frac := parseStatuteMiles(tokens[i+1], nil)
			frac.Value += float64(whole)
			p.Visibility = frac
			i++

		default:
			remarks = append(remarks, tok)
		}
	}

	if len(remarks) > 0 {
		joined := strings.Join(remarks, " ")
		if p.Remarks == "" {
			p.Remarks = joined
		} else {
			p.Remarks += " " + joined
		}
	}
}

func parseStatuteMiles(tok string, existing *model.Visibility) *model.Visibility {
	if m := visMixRe.FindStringSubmatch(tok); m != nil {
		num, _ := strconv.Atoi(m[1])
		den, _ := strconv.Atoi(m[2])
		if den == 0 {
			return existing
		}
		return &model.Visibility{Value: float64(num) / float64(den), Unit: model.VisStatuteMiles}
	}
	m := visSMRe.FindStringSubmatch(tok)
	if m == nil || m[1] == "" {
		return existing
	}
	v, _ := strconv.Atoi(m[1])
	return &model.Visibility{Value: float64(v), Unit: model.VisStatuteMiles}
}

func isWholeMilePrefix(tok string, tokens []string, i int) bool {
	if len(tok) > 2 || i+1 >= len(tokens) {
		return false
	}
	if _, err := strconv.Atoi(tok); err != nil {
		return false
	}
	return visMixRe.MatchString(tokens[i+1])
}

func parseSignedTemp(s string) *int {
	neg := strings.HasPrefix(s, "M")
	v, err := strconv.Atoi(strings.TrimPrefix(s, "M"))
	if err != nil {
		return nil
	}
	if neg {
		v = -v
	}
	return &v
}
