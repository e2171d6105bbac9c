package extract

import (
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// DefaultPhoneRegion is used to parse numbers written without a country code.
const DefaultPhoneRegion = "IN"

var (
	emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)

	// optional country code, then 3 + 3 + 4..5 digit groups
	phonePattern = regexp.MustCompile(`(?:\+?(\d{1,3})[-.\s]?)?\(?(\d{3})\)?[-.\s]?(\d{3})[-.\s]?(\d{4,5})`)

	phoneCandidate = regexp.MustCompile(`\+?\(?\d[\d\s().-]{5,}\d`)
)

// Email returns the first address-like match in text.
func Email(text string) Field {
	if m := emailPattern.FindString(text); m != "" {
		return Found(m)
	}
	return Missing()
}

// Phone returns the first number matched by the grouped pattern. When nothing
// matches it falls back to validating looser digit runs as phone numbers in
// DefaultPhoneRegion, formatted internationally.
func Phone(text string) Field {
	if m := phonePattern.FindStringSubmatch(text); m != nil {
		var b strings.Builder
		if m[1] != "" {
			b.WriteString("+" + m[1] + " ")
		}
		b.WriteString(m[2] + m[3] + m[4])
		return Found(b.String())
	}

	for _, candidate := range phoneCandidate.FindAllString(text, -1) {
		num, err := phonenumbers.Parse(candidate, DefaultPhoneRegion)
		if err != nil || !phonenumbers.IsValidNumber(num) {
			continue
		}
		return Found(phonenumbers.Format(num, phonenumbers.INTERNATIONAL))
	}

	return Missing()
}
