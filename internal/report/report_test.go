package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/resume-ats/internal/extract"
	"github.com/spigell/resume-ats/internal/pipeline"
	"github.com/spigell/resume-ats/internal/scoring"
)

func sampleResult() *pipeline.Result {
	return &pipeline.Result{
		RequestID: "req-1",
		Document:  pipeline.DocumentInfo{Name: "cv.pdf", Extension: "pdf", Bytes: 10, TextChars: 5},
		Profile: &extract.Profile{
			Name:          extract.Found("Jane <Doe>"),
			Email:         extract.Found("jane@example.com"),
			Phone:         extract.Missing(),
			Skills:        []string{"python", "sql"},
			AcademicScore: extract.Found("8.20/10"),
			Achievements:  extract.Found("<ul><li>Won the R&amp;D award.</li><li>Led a team of four.</li></ul>"),
			ProjectStack:  extract.Found("python."),
		},
		Score: scoring.Result{
			JobRole:       "Data Science",
			Confidence:    0.8123,
			ATSScore:      42.5,
			MatchedSkills: []string{"python"},
			MissingSkills: []string{},
		},
		Warnings: []string{"no job description provided; ATS score skipped"},
		Stages:   []pipeline.Status{{Name: pipeline.StageExtractText, Enabled: true}},
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	f, err := ParseFormat(" HTML ")
	require.NoError(t, err)
	assert.Equal(t, FormatHTML, f)

	_, err = ParseFormat("pdf")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestRenderJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleResult(), FormatJSON))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "req-1", decoded["request_id"])

	profile := decoded["profile"].(map[string]any)
	assert.Equal(t, "Not found", profile["phone"])
	assert.Equal(t, "8.20/10", profile["academic_score"])

	score := decoded["score"].(map[string]any)
	assert.Equal(t, 42.5, score["ats_score"])
	assert.Equal(t, []any{}, score["missing_skills"])
}

func TestRenderText(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleResult(), FormatText))
	out := buf.String()

	assert.Contains(t, out, "Name:")
	assert.Contains(t, out, "Jane <Doe>")
	assert.Contains(t, out, "Confidence:          81.23%")
	assert.Contains(t, out, "Missing Skills:      -")
	assert.Contains(t, out, "Won the R&D award.; Led a team of four.")
	assert.Contains(t, out, "Warning:")
}

func TestRenderHTML(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleResult(), FormatHTML))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, `<div class="summary-box">`))
	assert.Contains(t, out, "<p><strong>Name:</strong> Jane &lt;Doe&gt;</p>")
	assert.Contains(t, out, "<ul><li>Won the R&amp;D award.</li><li>Led a team of four.</li></ul>")
	assert.Contains(t, out, "<p><strong>ATS Score:</strong> 42.50%</p>")
	assert.Contains(t, out, `<p class="warning">no job description provided; ATS score skipped</p>`)
}

func TestRenderErrors(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	assert.Error(t, Render(&buf, nil, FormatJSON))
	assert.ErrorIs(t, Render(&buf, sampleResult(), Format("yaml")), ErrUnknownFormat)
	assert.Equal(t, "Not found", achievementsText(extract.NotFound))
}
