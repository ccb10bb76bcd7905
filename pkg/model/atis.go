package model

// Wind is a decoded wind group. Direction is meaningless when Variable is
// set. GustKt of zero means no gust group was present.
type Wind struct {
	Variable     bool
	DirectionDeg int
	SpeedKt      int
	GustKt       int
	// VarFromDeg/VarToDeg carry a "dddVddd" variation group when present.
	VarFromDeg  int
	VarToDeg    int
	HasVarRange bool
}

// Calm reports whether the wind group decodes to calm wind.
func (w *Wind) Calm() bool {
	return !w.Variable && w.SpeedKt == 0
}

// VisibilityUnit distinguishes the two visibility encodings.
type VisibilityUnit string

const (
	VisStatuteMiles VisibilityUnit = "SM"
	VisMeters       VisibilityUnit = "m"
)

// Visibility is a decoded visibility group.
type Visibility struct {
	Value float64
	Unit  VisibilityUnit
}

// CloudCoverage codes, ordered thinnest to thickest.
const (
	CoverageFew       = "FEW"
	CoverageScattered = "SCT"
	CoverageBroken    = "BKN"
	CoverageOvercast  = "OVC"
)

// CloudLayer is one decoded cloud group.
type CloudLayer struct {
	Coverage string
	BaseFt   int
	// Cumulonimbus / towering cumulus suffix, "CB" or "TCU" when present.
	Type string
}

// PressureUnit distinguishes QNH encodings.
type PressureUnit string

const (
	PressureHPa  PressureUnit = "hPa"
	PressureInHg PressureUnit = "inHg"
)

// Pressure is a decoded altimeter group. HPa values are whole hectopascals;
// InHg values carry two decimals (A2992 -> 29.92).
type Pressure struct {
	Value float64
	Unit  PressureUnit
}

// RunwayUse is one runway-in-use declaration.
type RunwayUse struct {
	// Ident is normalized to two digits plus optional L/C/R suffix.
	Ident     string
	Departure bool
	Arrival   bool
}

// ParsedAtis is the structured form of a broadcast text. Nil pointer fields
// are unknown and must be omitted from speech, never guessed.
type ParsedAtis struct {
	// InfoLetter is the single information designator letter ("G"), empty
	// when unknown (METAR-only mode has none).
	InfoLetter string
	// IssueTime is the zulu issue time "hhmm", empty when unknown.
	IssueTime string

	Wind       *Wind
	Visibility *Visibility
	CAVOK      bool
	SkyClear   bool
	Clouds     []CloudLayer

	TemperatureC *int
	DewPointC    *int
	QNH          *Pressure

	Runways []RunwayUse
	// TransitionLevel is a flight level number (70 for FL70), zero = unknown.
	TransitionLevel int
	// TransitionAltitudeFt is in feet, zero = unknown.
	TransitionAltitudeFt int

	// Remarks collects free text that matched no grammar.
	Remarks string

	// MetarOnly marks a record built from a bare METAR with no station
	// online; the composer appends the weather-only announcement.
	MetarOnly bool
}
