package extract

import (
	"html"
	"strings"

	"github.com/spigell/resume-ats/internal/sections"
)

// DefaultMaxBullets is the achievements summary budget.
const DefaultMaxBullets = 5

// AchievementKeywords are the headings searched, in order, for achievements.
var AchievementKeywords = []string{"achievements", "awards", "honors", "accomplishments", "recognition"}

// Achievements summarizes the first non-empty achievements section into an
// HTML bullet list.
func (e *Extractor) Achievements(text string) Field {
	return e.achievements(segmentProfile(text))
}

func (e *Extractor) achievements(m *sections.Map) Field {
	_, body, ok := m.First(AchievementKeywords...)
	if !ok {
		return Missing()
	}

	bullets := e.summarizer.Summarize(body, e.maxBullets)
	if len(bullets) == 0 {
		return Missing()
	}
	return Found(bulletList(bullets))
}

func bulletList(items []string) string {
	var b strings.Builder
	b.WriteString("<ul>")
	for _, item := range items {
		b.WriteString("<li>")
		b.WriteString(html.EscapeString(item))
		b.WriteString("</li>")
	}
	b.WriteString("</ul>")
	return b.String()
}
