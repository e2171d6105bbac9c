package sections

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegmentProjectsAndEducation(t *testing.T) {
	t.Parallel()

	text := "Projects\nBuilt an app using Python and React\nEducation\nB.Tech CGPA 9.0/10"
	m := Segment(text, []string{"projects", "education"})

	assert.Equal(t, map[string]string{
		"projects":  "Built an app using Python and React",
		"education": "B.Tech CGPA 9.0/10",
	}, m.ToMap())
	assert.Equal(t, []string{"projects", "education"}, m.Keys())
}

func TestSegment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		text     string
		keywords []string
		expect   map[string]string
	}{
		{
			name:     "no headings",
			text:     "John Smith\njohn@example.com",
			keywords: []string{"projects"},
			expect:   map[string]string{},
		},
		{
			name:     "leading lines belong to no section",
			text:     "John Smith\nSKILLS:\nGo, SQL",
			keywords: []string{"skills"},
			expect:   map[string]string{"skills": "Go, SQL"},
		},
		{
			name:     "heading punctuation and case",
			text:     "  ACHIEVEMENTS - \nWon a hackathon\nAcademics.\nIIT",
			keywords: []string{"achievements"},
			expect:   map[string]string{"achievements": "Won a hackathon", "academics": "IIT"},
		},
		{
			name:     "blank lines do not close a section",
			text:     "Awards\nFirst prize\n\n   \nBest paper",
			keywords: []string{"awards"},
			expect:   map[string]string{"awards": "First prize\nBest paper"},
		},
		{
			name:     "heading with trailing text is a body line",
			text:     "Projects\nProjects in Go and Rust",
			keywords: []string{"projects"},
			expect:   map[string]string{"projects": "Projects in Go and Rust"},
		},
		{
			name:     "reopened heading accumulates",
			text:     "Experience\nAcme\nEducation\nMIT\nExperience\nGlobex",
			keywords: []string{"experience"},
			expect:   map[string]string{"experience": "Acme\nGlobex", "education": "MIT"},
		},
		{
			name:     "multiword keyword only matches whole line",
			text:     "Work Experience\nAcme Corp\nKey Projects\nCompiler",
			keywords: []string{"experience", "work experience", "projects", "key projects"},
			expect:   map[string]string{"work experience": "Acme Corp", "key projects": "Compiler"},
		},
		{
			name:     "empty section is present",
			text:     "Projects\n\nEducation\nBSc",
			keywords: []string{"projects"},
			expect:   map[string]string{"projects": "", "education": "BSc"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expect, Segment(tt.text, tt.keywords).ToMap())
		})
	}
}

func TestMapFirst(t *testing.T) {
	t.Parallel()

	m := Segment("Awards\n\nHonors\nDean's list\nRecognition\nEmployee of the month", []string{"awards", "honors", "recognition"})

	kw, body, ok := m.First("awards", "honors", "recognition")
	require.True(t, ok)
	assert.Equal(t, "honors", kw)
	assert.Equal(t, "Dean's list", body)

	_, _, ok = m.First("projects")
	assert.False(t, ok)

	var nilMap *Map
	_, ok = nilMap.Get("projects")
	assert.False(t, ok)
	assert.Zero(t, nilMap.Len())
}

func TestMapMarshalJSONKeepsOrder(t *testing.T) {
	t.Parallel()

	m := Segment("Projects\nA\nEducation\nB\nAwards\nC", []string{"projects", "awards"})
	raw, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, `{"projects":"A","education":"B","awards":"C"}`, string(raw))
}
