// Package sections splits résumé text into labeled sections by heading lines.
package sections

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
)

// CoreKeywords are always recognized as headings in addition to the caller's set.
var CoreKeywords = []string{"education", "academic qualifications", "academics"}

// Map holds section bodies keyed by heading keyword in document order.
type Map struct {
	order  []string
	bodies map[string][]string
}

type heading struct {
	keyword string
	re      *regexp.Regexp
}

// Segment assigns every non-blank line to the most recently seen heading.
// Lines before the first heading belong to no section. A heading seen again
// keeps the lines already collected and appends new ones.
func Segment(text string, keywords []string) *Map {
	headings := compile(keywords)
	m := &Map{bodies: make(map[string][]string)}

	current := ""
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if kw, ok := matchHeading(headings, strings.ToLower(trimmed)); ok {
			current = kw
			m.open(kw)
			continue
		}

		if current != "" {
			m.bodies[current] = append(m.bodies[current], trimmed)
		}
	}

	return m
}

func compile(keywords []string) []heading {
	all := make([]string, 0, len(keywords)+len(CoreKeywords))
	all = append(all, keywords...)
	all = append(all, CoreKeywords...)

	seen := make(map[string]bool, len(all))
	out := make([]heading, 0, len(all))
	for _, kw := range all {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" || seen[kw] {
			continue
		}
		seen[kw] = true
		out = append(out, heading{
			keyword: kw,
			re:      regexp.MustCompile(`^` + regexp.QuoteMeta(kw) + `\s*[:.\-]?\s*$`),
		})
	}
	return out
}

func matchHeading(headings []heading, line string) (string, bool) {
	for _, h := range headings {
		if h.re.MatchString(line) {
			return h.keyword, true
		}
	}
	return "", false
}

func (m *Map) open(kw string) {
	if _, ok := m.bodies[kw]; ok {
		return
	}
	m.order = append(m.order, kw)
	m.bodies[kw] = nil
}

// Get returns the newline-joined body of a section and whether the heading was seen.
func (m *Map) Get(keyword string) (string, bool) {
	if m == nil {
		return "", false
	}
	lines, ok := m.bodies[strings.ToLower(keyword)]
	if !ok {
		return "", false
	}
	return strings.Join(lines, "\n"), true
}

// First returns the body of the first keyword, in the given order, whose section
// exists and is not empty.
func (m *Map) First(keywords ...string) (string, string, bool) {
	for _, kw := range keywords {
		if body, ok := m.Get(kw); ok && strings.TrimSpace(body) != "" {
			return strings.ToLower(kw), body, true
		}
	}
	return "", "", false
}

// Keys lists section keywords in the order their headings first appeared.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.order)
}

// ToMap flattens the sections into a plain map.
func (m *Map) ToMap() map[string]string {
	out := make(map[string]string, m.Len())
	for _, kw := range m.Keys() {
		out[kw], _ = m.Get(kw)
	}
	return out
}

// MarshalJSON keeps document order in the encoded object.
func (m *Map) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, kw := range m.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(kw)
		if err != nil {
			return nil, err
		}
		body, _ := m.Get(kw)
		v, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
