// Package lang detects Hindi/English contract text and normalises Devanagari
// so that English keyword patterns still fire on bilingual documents.
package lang

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Language labels
const (
	English = "english"
	Hindi   = "hindi"
	Mixed   = "mixed"
)

// devanagariShare is the Devanagari-to-Latin letter ratio above which text is not English
const devanagariShare = 0.3

// glossary pairs Hindi legal terms with the English keyword they gloss
var glossary = []struct{ hindi, english string }{
	{"अनुबंध", "contract"},
	{"समझौता", "agreement"},
	{"भुगतान", "payment"},
	{"दायित्व", "liability"},
	{"समाप्ति", "termination"},
	{"पार्टी", "party"},
}

var digits = strings.NewReplacer(
	"०", "0", "१", "1", "२", "2", "३", "3", "४", "4",
	"५", "5", "६", "6", "७", "7", "८", "8", "९", "9",
)

// Detect classifies text as english, hindi or mixed
func Detect(text string) string {
	var deva, latin int
	for _, r := range text {
		switch {
		case unicode.Is(unicode.Devanagari, r):
			deva++
		case r < unicode.MaxASCII && unicode.IsLetter(r):
			latin++
		}
	}

	if float64(deva) > float64(latin)*devanagariShare {
		if latin > 0 {
			return Mixed
		}
		return Hindi
	}
	return English
}

// Normalize returns NFC text with Devanagari digits converted to ASCII and
// each glossary term followed by its English gloss in parentheses.
func Normalize(text string) string {
	text = norm.NFC.String(text)
	text = digits.Replace(text)

	pairs := make([]string, 0, len(glossary)*2)
	for _, g := range glossary {
		pairs = append(pairs, g.hindi, g.hindi+" ("+g.english+")")
	}
	return strings.NewReplacer(pairs...).Replace(text)
}

// Prepare detects the language and returns the text the rule engine should read
func Prepare(text string) (language, analysed string) {
	language = Detect(text)
	if language == English {
		return language, text
	}
	return language, Normalize(text)
}
