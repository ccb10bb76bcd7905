package model

import "strings"

// phoneticWords is the ICAO spelling alphabet, indexed A through Z.
var phoneticWords = [26]string{
	"Alpha", "Bravo", "Charlie", "Delta", "Echo", "Foxtrot", "Golf",
	"Hotel", "India", "Juliett", "Kilo", "Lima", "Mike", "November",
	"Oscar", "Papa", "Quebec", "Romeo", "Sierra", "Tango", "Uniform",
	"Victor", "Whiskey", "X-ray", "Yankee", "Zulu",
}

// PhoneticWord returns the spelling-alphabet word for a letter, or the
// input unchanged when it is not a letter.
func PhoneticWord(letter string) string {
	if len(letter) != 1 {
		return letter
	}
	c := letter[0]
	if c >= 'a' && c <= 'z' {
		c -= 'a' - 'A'
	}
	if c < 'A' || c > 'Z' {
		return letter
	}
	return phoneticWords[c-'A']
}

// LetterFromPhonetic maps a spelling-alphabet word back to its letter.
// A single letter passes through; anything else returns "".
func LetterFromPhonetic(word string) string {
	word = strings.TrimSpace(word)
	if len(word) == 1 {
		c := word[0]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		if c >= 'A' && c <= 'Z' {
			return string(c)
		}
		return ""
	}
	for i, w := range phoneticWords {
		if strings.EqualFold(w, word) || (w == "X-ray" && strings.EqualFold(word, "xray")) {
			return string(rune('A' + i))
		}
	}
	return ""
}
