package scoring

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
)

// Vectorizer turns text into a weighted sparse vector over a fixed vocabulary.
type Vectorizer interface {
	Transform(text string) Vector
	Dim() int
}

var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// TFIDF is a fitted term frequency, inverse document frequency vectorizer.
type TFIDF struct {
	Vocabulary  map[string]int `json:"vocabulary"`
	IDF         []float64      `json:"idf"`
	NgramRange  [2]int         `json:"ngram_range"`
	SublinearTF bool           `json:"sublinear_tf"`
	Norm        string         `json:"norm"`
	Lowercase   bool           `json:"lowercase"`
	StopWords   []string       `json:"stop_words"`

	stop map[string]struct{}
}

func (t *TFIDF) Dim() int { return len(t.Vocabulary) }

func (t *TFIDF) validate() error {
	if len(t.Vocabulary) == 0 {
		return fmt.Errorf("%w: vectorizer vocabulary is empty", ErrInvalidArtifact)
	}
	if len(t.IDF) != len(t.Vocabulary) {
		return fmt.Errorf("%w: vectorizer has %d idf weights for %d terms", ErrInvalidArtifact, len(t.IDF), len(t.Vocabulary))
	}
	for term, col := range t.Vocabulary {
		if col < 0 || col >= len(t.IDF) {
			return fmt.Errorf("%w: vectorizer term %q maps to column %d", ErrInvalidArtifact, term, col)
		}
	}
	if t.NgramRange == [2]int{} {
		t.NgramRange = [2]int{1, 1}
	}
	if t.NgramRange[0] < 1 || t.NgramRange[1] < t.NgramRange[0] {
		return fmt.Errorf("%w: vectorizer ngram range %v", ErrInvalidArtifact, t.NgramRange)
	}
	switch t.Norm {
	case "", "l1", "l2":
	default:
		return fmt.Errorf("%w: vectorizer norm %q", ErrInvalidArtifact, t.Norm)
	}

	t.stop = make(map[string]struct{}, len(t.StopWords))
	for _, w := range t.StopWords {
		t.stop[w] = struct{}{}
	}
	return nil
}

// Transform counts in-vocabulary n-grams, weights them by idf and normalizes the row.
func (t *TFIDF) Transform(text string) Vector {
	if t.Lowercase {
		text = strings.ToLower(text)
	}

	var tokens []string
	for _, tok := range tokenPattern.FindAllString(text, -1) {
		if _, ok := t.stop[tok]; ok {
			continue
		}
		tokens = append(tokens, tok)
	}

	counts := make(map[int]float64)
	lo, hi := t.NgramRange[0], t.NgramRange[1]
	if lo < 1 {
		lo, hi = 1, max(hi, 1)
	}
	for n := lo; n <= hi; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			term := strings.Join(tokens[i:i+n], " ")
			if col, ok := t.Vocabulary[term]; ok {
				counts[col]++
			}
		}
	}

	v := Vector{
		Indices: make([]int, 0, len(counts)),
		Values:  make([]float64, 0, len(counts)),
	}
	for col := range counts {
		v.Indices = append(v.Indices, col)
	}
	sort.Ints(v.Indices)

	for _, col := range v.Indices {
		tf := counts[col]
		if t.SublinearTF {
			tf = 1 + math.Log(tf)
		}
		v.Values = append(v.Values, tf*t.IDF[col])
	}

	t.normalize(v)
	return v
}

func (t *TFIDF) normalize(v Vector) {
	var n float64
	switch t.Norm {
	case "l2":
		n = v.Norm()
	case "l1":
		for _, x := range v.Values {
			n += math.Abs(x)
		}
	default:
		return
	}
	if n == 0 {
		return
	}
	for i := range v.Values {
		v.Values[i] /= n
	}
}
