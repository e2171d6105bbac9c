package extract

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// topLineCount is how many non-empty leading lines are considered name candidates.
const topLineCount = 8

var longDigitRun = regexp.MustCompile(`\d{5,}`)

// NameStrategy is one tier of name detection. Tiers run in order and the first
// hit wins.
type NameStrategy struct {
	Name string
	Find func(top []string, text string) (string, bool)
}

// NameStrategies returns the detection tiers in precedence order.
func (e *Extractor) NameStrategies() []NameStrategy {
	return []NameStrategy{
		{Name: "top_line", Find: capitalizedTopLine},
		{Name: "person_entity", Find: e.personEntity},
		{Name: "uppercase_line", Find: uppercaseTopLine},
	}
}

// Name runs the strategies and title-cases the first hit.
func (e *Extractor) Name(text string) Field {
	top := topLines(text)
	for _, s := range e.NameStrategies() {
		if name, ok := s.Find(top, text); ok {
			e.logger.Debug("name detected", zap.String("strategy", s.Name))
			return Found(titleCase(name))
		}
	}
	return Missing()
}

func topLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
		if len(out) == topLineCount {
			break
		}
	}
	return out
}

// capitalizedTopLine accepts 2 to 4 words that each start uppercase or are not
// purely alphabetic, with no "@" and no run of five or more digits.
func capitalizedTopLine(top []string, _ string) (string, bool) {
	for _, line := range top {
		words := strings.Fields(line)
		if len(words) < 2 || len(words) > 4 {
			continue
		}
		ok := true
		for _, w := range words {
			if !startsUpper(w) && isAlpha(w) {
				ok = false
				break
			}
		}
		if !ok || strings.Contains(line, "@") || longDigitRun.MatchString(line) {
			continue
		}
		return line, true
	}
	return "", false
}

// personEntity picks the PERSON entity that occurs earliest in the text.
func (e *Extractor) personEntity(_ []string, text string) (string, bool) {
	if e.entities == nil {
		return "", false
	}

	var candidates []string
	for _, ent := range e.entities.Persons(text) {
		words := strings.Fields(ent)
		if len(words) < 2 || len(words) > 4 {
			continue
		}
		ok := true
		for _, w := range words {
			if isAlpha(w) && !startsUpper(w) {
				ok = false
				break
			}
		}
		if ok {
			candidates = append(candidates, ent)
		}
	}
	if len(candidates) == 0 {
		return "", false
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return strings.Index(text, candidates[i]) < strings.Index(text, candidates[j])
	})
	return candidates[0], true
}

func uppercaseTopLine(top []string, _ string) (string, bool) {
	for _, line := range top {
		n := len(strings.Fields(line))
		if n >= 2 && n <= 4 && isUpper(line) {
			return line, true
		}
	}
	return "", false
}

func startsUpper(w string) bool {
	for _, r := range w {
		return unicode.IsUpper(r)
	}
	return false
}

func isAlpha(w string) bool {
	if w == "" {
		return false
	}
	for _, r := range w {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// isUpper reports whether s has cased letters and all of them are uppercase.
func isUpper(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			cased = true
		}
	}
	return cased
}

func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}
