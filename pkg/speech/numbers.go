package speech

import (
	"regexp"
	"strconv"
	"strings"

	"voiceatis/pkg/model"
)

var (
	decimalRe  = regexp.MustCompile(`\d+[.,]\d+`)
	digitRunRe = regexp.MustCompile(`\d\d+`)
)

// SpeakInt spells an integer digit by digit, "minus" for the sign.
// The engine pronounces separated digits individually: -250 -> "minus 2 5 0".
func SpeakInt(n int) string {
	return speakDigitString(strconv.Itoa(n))
}

// SpeakPadded spells an integer digit by digit, zero-padded to the given
// width: 70 with width 3 -> "0 7 0".
func SpeakPadded(n, width int) string {
	s := strconv.Itoa(n)
	for len(s) < width {
		s = "0" + s
	}
	return speakDigitString(s)
}

// SpeakString spells every character of the input separated by spaces,
// used for coded values like a "2104" issue time.
func SpeakString(s string) string {
	return speakDigitString(s)
}

func speakDigitString(s string) string {
	var b strings.Builder
	for i, r := range s {
		if i > 0 {
			b.WriteByte(' ')
		}
		switch r {
		case '-':
			b.WriteString("minus")
		case '.', ',':
			b.WriteString("decimal")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ExpandNumbers rewrites multi-digit numbers inside free text so they are
// read digit by digit: "DEPARTURE FREQUENCY 122.800" ->
// "DEPARTURE FREQUENCY 1 2 2 decimal 8 0 0".
func ExpandNumbers(text string) string {
	text = decimalRe.ReplaceAllStringFunc(text, speakDigitString)
	return digitRunRe.ReplaceAllStringFunc(text, speakDigitString)
}

// SpellPhonetic spells a coded identifier with the ICAO alphabet:
// "EDDS" -> "Echo Delta Delta Sierra".
func SpellPhonetic(s string) string {
	words := make([]string, 0, len(s))
	for _, r := range s {
		words = append(words, model.PhoneticWord(string(r)))
	}
	return strings.Join(words, " ")
}
