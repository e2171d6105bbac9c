package extract

import (
	"regexp"
	"sort"
	"strings"

	"github.com/spigell/resume-ats/internal/sections"
)

// SkillVocabulary is the fixed list of recognized skills, in reporting order.
var SkillVocabulary = []string{
	"python", "c++", "java", "flask", "streamlit", "pandas", "numpy",
	"scikit-learn", "html", "css", "git", "github", "linux", "windows",
	"oop", "jupyter", "machine learning", "data analysis", "sql", "tableau",
	"power bi", "aws", "azure", "gcp", "docker", "kubernetes", "tensorflow",
	"pytorch", "r", "javascript", "react", "angular", "vue.js", "node.js",
}

// ProjectKeywords are the headings searched, in order, for the project tech stack.
var ProjectKeywords = []string{"projects", "portfolio", "key projects", "major projects", "work experience", "experience"}

type skillPattern struct {
	skill string
	re    *regexp.Regexp
}

// skillPatterns match a skill as a whole word. The edges are checked against
// letters, digits and underscore so that symbols such as "c++" still match.
var skillPatterns = func() []skillPattern {
	out := make([]skillPattern, 0, len(SkillVocabulary))
	for _, s := range SkillVocabulary {
		out = append(out, skillPattern{
			skill: s,
			re:    regexp.MustCompile(`(?:^|[^\p{L}\p{N}_])` + regexp.QuoteMeta(s) + `(?:$|[^\p{L}\p{N}_])`),
		})
	}
	return out
}()

// MatchSkills returns the vocabulary skills mentioned in text, in vocabulary order.
func MatchSkills(text string) []string {
	text = strings.ToLower(text)
	var found []string
	for _, p := range skillPatterns {
		if p.re.MatchString(text) {
			found = append(found, p.skill)
		}
	}
	return found
}

// Skills returns matched skills or the single NotFound sentinel.
func Skills(text string) []string {
	if found := MatchSkills(text); len(found) > 0 {
		return found
	}
	return []string{NotFound}
}

// SkillsFound reports whether a Skills result holds real matches.
func SkillsFound(skills []string) bool {
	return len(skills) > 0 && !(len(skills) == 1 && skills[0] == NotFound)
}

// ProjectStack summarizes the skills used in the first non-empty project section.
func ProjectStack(text string) Field {
	return projectStack(segmentProfile(text))
}

func projectStack(m *sections.Map) Field {
	_, body, ok := m.First(ProjectKeywords...)
	if !ok {
		return missingProjects()
	}

	found := MatchSkills(body)
	if len(found) == 0 {
		return unrecognizedStack()
	}

	sort.Strings(found)
	found = dedupe(found)
	return Found(strings.Join(found, ", ") + ".")
}

// dedupe drops adjacent duplicates from a sorted slice.
func dedupe(sorted []string) []string {
	out := sorted[:0]
	for i, s := range sorted {
		if i == 0 || s != sorted[i-1] {
			out = append(out, s)
		}
	}
	return out
}
