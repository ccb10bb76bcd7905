package speech

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voiceatis/pkg/model"
)

func intPtr(v int) *int { return &v }

func TestComposeFullBroadcast(t *testing.T) {
	p := &model.ParsedAtis{
		InfoLetter:   "G",
		IssueTime:    "2101",
		Wind:         &model.Wind{DirectionDeg: 270, SpeedKt: 15, GustKt: 25},
		Visibility:   &model.Visibility{Value: 9999, Unit: model.VisMeters},
		Clouds:       []model.CloudLayer{{Coverage: "FEW", BaseFt: 3000}},
		TemperatureC: intPtr(18),
		DewPointC:    intPtr(9),
		QNH:          &model.Pressure{Value: 1018, Unit: model.PressureHPa},
		Runways: []model.RunwayUse{
			{Ident: "26L", Arrival: true},
			{Ident: "26R", Departure: true},
		},
		TransitionLevel:      70,
		TransitionAltitudeFt: 5000,
		Remarks:              "DEPARTURE FREQUENCY 122.800",
	}

	phrases := Compose(p, "Stuttgart Airport", "EDDS")
	joined := strings.Join(phrases, " | ")

	// Fixed phrase order.
	want := []string{
		"Stuttgart Airport information Golf",
		"met report time 2 1 0 1",
		"wind 2 7 0 degrees, 1 5 knots, maximum 2 5 knots",
		"visibility 10 kilometers or more",
		"few clouds at 3000 feet",
		"temperature 1 8 degrees Celsius",
		"dew point 9 degrees Celsius",
		"Q N H 1 0 1 8 hectopascal",
		"arrival runway 2 6 left",
		"departure runway 2 6 right",
		"transition altitude 5000 feet",
		"transition level 7 0",
		"DEPARTURE FREQUENCY 1 2 2 decimal 8 0 0",
	}
	require.Equal(t, want, phrases, "composed: %s", joined)
}

func TestComposeOmitsUnknownFields(t *testing.T) {
	p := &model.ParsedAtis{
		InfoLetter: "A",
		Wind:       &model.Wind{DirectionDeg: 90, SpeedKt: 5},
	}

	phrases := Compose(p, "Frankfurt am Main Airport", "EDDF")
	joined := strings.ToLower(strings.Join(phrases, " "))

	assert.NotContains(t, joined, "temperature")
	assert.NotContains(t, joined, "dew point")
	assert.NotContains(t, joined, "visibility")
	assert.NotContains(t, joined, "q n h")
	assert.NotContains(t, joined, "runway")
	assert.NotContains(t, joined, "transition")
	assert.NotContains(t, joined, "unknown")
}

func TestComposeWindVariants(t *testing.T) {
	tests := []struct {
		name string
		wind model.Wind
		want string
	}{
		{"calm", model.Wind{}, "wind calm"},
		{"variable", model.Wind{Variable: true, SpeedKt: 3}, "wind variable, 3 knots"},
		{"steady", model.Wind{DirectionDeg: 70, SpeedKt: 8}, "wind 0 7 0 degrees, 8 knots"},
		{
			"with variation range",
			model.Wind{DirectionDeg: 40, SpeedKt: 8, VarFromDeg: 10, VarToDeg: 70, HasVarRange: true},
			"wind 0 4 0 degrees, 8 knots, variable between 0 1 0 and 0 7 0 degrees",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			phrases := appendWind(nil, &tt.wind)
			require.Len(t, phrases, 1)
			assert.Equal(t, tt.want, phrases[0])
		})
	}
}

func TestComposeSkyVariants(t *testing.T) {
	cavok := appendSky(nil, &model.ParsedAtis{CAVOK: true})
	assert.Equal(t, []string{"clouds and visibility ok"}, cavok)

	clear := appendSky(nil, &model.ParsedAtis{SkyClear: true})
	assert.Equal(t, []string{"sky clear"}, clear)

	layers := appendSky(nil, &model.ParsedAtis{Clouds: []model.CloudLayer{
		{Coverage: "BKN", BaseFt: 10000, Type: "CB"},
		{Coverage: "OVC", BaseFt: 20000},
	}})
	require.Len(t, layers, 2)
	assert.Equal(t, "broken clouds at 10000 feet, cumulonimbus", layers[0])
	assert.Equal(t, "overcast clouds at 20000 feet", layers[1])
}

func TestComposeAltimeterInHg(t *testing.T) {
	phrases := appendPressure(nil, &model.Pressure{Value: 29.92, Unit: model.PressureInHg})
	require.Len(t, phrases, 1)
	assert.Equal(t, "altimeter 2 9 9 2", phrases[0])
}

func TestComposeNegativeTemperature(t *testing.T) {
	p := &model.ParsedAtis{TemperatureC: intPtr(-5), DewPointC: intPtr(-12)}
	phrases := appendTemperature(nil, p)
	require.Len(t, phrases, 2)
	assert.Equal(t, "temperature minus 5 degrees Celsius", phrases[0])
	assert.Equal(t, "dew point minus 1 2 degrees Celsius", phrases[1])
}

func TestComposeMetarOnly(t *testing.T) {
	p := &model.ParsedAtis{
		MetarOnly: true,
		Wind:      &model.Wind{DirectionDeg: 270, SpeedKt: 15},
	}

	phrases := Compose(p, "", "EDDS")
	require.NotEmpty(t, phrases)
	assert.Equal(t, "Echo Delta Delta Sierra weather report", phrases[0])
	assert.Equal(t, "no A T C station online, weather information only", phrases[len(phrases)-1])
}

func TestComposeFractionalVisibility(t *testing.T) {
	p := &model.ParsedAtis{Visibility: &model.Visibility{Value: 1.5, Unit: model.VisStatuteMiles}}
	phrases := appendVisibility(nil, p)
	require.Len(t, phrases, 1)
	assert.Equal(t, "visibility 1 decimal 5 statute miles", phrases[0])
}
