package nlp

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const maxLemmaRounds = 8

var (
	nonWordRun = regexp.MustCompile(`[^\p{L}\p{N}_]+`)
	wordOnly   = regexp.MustCompile(`^[\p{L}\p{N}_]+$`)
)

// Normalizer reduces text to the token form consumed by the scoring engine.
type Normalizer struct {
	lemmatizer Lemmatizer
}

// NewNormalizer returns a normalizer. A nil lemmatizer leaves words unchanged.
func NewNormalizer(l Lemmatizer) *Normalizer {
	return &Normalizer{lemmatizer: l}
}

// Normalize lowercases, strips non-word characters, drops stopwords and
// one-letter words, and lemmatizes what remains. Applying it twice yields the
// same result as applying it once.
func (n *Normalizer) Normalize(text string) string {
	text = strings.ToLower(text)
	words := strings.Fields(nonWordRun.ReplaceAllString(text, " "))

	out := make([]string, 0, len(words))
	for _, w := range words {
		if !keep(w) {
			continue
		}
		w = n.lemma(w)
		if !keep(w) {
			continue
		}
		out = append(out, w)
	}

	return strings.Join(out, " ")
}

func keep(w string) bool {
	return utf8.RuneCountInString(w) >= 2 && !IsStopword(w)
}

// lemma follows the lemmatizer until the word stops changing. Cycles resolve
// to their smallest member so that the result does not depend on the entry point.
func (n *Normalizer) lemma(word string) string {
	if n.lemmatizer == nil {
		return word
	}

	seen := map[string]bool{word: true}
	current := word
	for i := 0; i < maxLemmaRounds; i++ {
		next := strings.ToLower(n.lemmatizer.Lemma(current))
		if next == "" || !wordOnly.MatchString(next) {
			return current
		}
		if next == current {
			return current
		}
		if seen[next] {
			return smallestInCycle(n.lemmatizer, next)
		}
		seen[next] = true
		current = next
	}
	return current
}

func smallestInCycle(l Lemmatizer, start string) string {
	best := start
	for w := strings.ToLower(l.Lemma(start)); w != start; w = strings.ToLower(l.Lemma(w)) {
		if w < best {
			best = w
		}
	}
	return best
}
