package extract

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/resume-ats/internal/nlp"
)

type stubTokenizer struct{}

func (stubTokenizer) Sentences(text string) []string {
	var out []string
	for _, part := range strings.Split(text, ".") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p+".")
		}
	}
	return out
}

func (stubTokenizer) Words(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return r == ' ' || r == '\n' || r == '.' || r == ','
	})
}

type stubEntities []string

func (s stubEntities) Persons(string) []string { return s }

func newTestExtractor(persons ...string) *Extractor {
	return New(&nlp.Runtime{Tokenizer: stubTokenizer{}, Entities: stubEntities(persons)})
}

func TestProfile(t *testing.T) {
	t.Parallel()

	text := strings.Join([]string{
		"John Smith",
		"john.smith@example.com | +1 555-123-4567",
		"Skills",
		"Python, SQL, Docker",
		"Education",
		"B.Tech in Computer Science",
		"CGPA: 8.2/10",
		"Projects",
		"Inventory tracker built with Python and Flask",
		"Achievements",
		"Won the national coding contest in 2022. Top rank.",
	}, "\n")

	p := newTestExtractor().Profile(text)

	assert.Equal(t, Found("John Smith"), p.Name)
	assert.Equal(t, Found("john.smith@example.com"), p.Email)
	assert.Equal(t, Found("+1 5551234567"), p.Phone)
	assert.Equal(t, []string{"python", "flask", "sql", "docker"}, p.Skills)
	assert.Equal(t, Found("8.20/10"), p.AcademicScore)
	assert.Equal(t, Found("flask, python."), p.ProjectStack)
	assert.Equal(t, Found("<ul><li>Won the national coding contest in 2022.</li></ul>"), p.Achievements)
}

func TestProfileSentinels(t *testing.T) {
	t.Parallel()

	p := newTestExtractor().Profile("")

	assert.Equal(t, KindNotFound, p.Name.Kind)
	assert.Equal(t, NotFound, p.Email.Value)
	assert.Equal(t, NotFound, p.Phone.Value)
	assert.Equal(t, []string{NotFound}, p.Skills)
	assert.Equal(t, NotFound, p.AcademicScore.Value)
	assert.Equal(t, NotFound, p.Achievements.Value)
	assert.Equal(t, Field{Value: NoProjects, Kind: KindNoProjects}, p.ProjectStack)

	raw, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"name": "Not found",
		"email": "Not found",
		"phone": "Not found",
		"skills": ["Not found"],
		"academic_score": "Not found",
		"achievements": "Not found",
		"project_tech_stack": "No Projects Done."
	}`, string(raw))
}

func TestProfileLogsSections(t *testing.T) {
	t.Parallel()

	core, observed := observer.New(zapcore.DebugLevel)
	e := New(&nlp.Runtime{Tokenizer: stubTokenizer{}}, WithLogger(zap.New(core)), WithMaxBullets(1))

	e.Profile("Jane Doe\nAwards\nBest paper award at a workshop.")

	entries := observed.FilterMessage("sections detected").All()
	require.Len(t, entries, 1)
	assert.Equal(t, []interface{}{"awards"}, entries[0].ContextMap()["sections"])
	assert.Equal(t, 1, e.maxBullets)
}

func TestKindString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "value", KindValue.String())
	assert.Equal(t, "stack_unrecognized", KindStackUnrecognized.String())
	assert.Equal(t, "unknown", Kind(42).String())
	assert.True(t, Found("x").Found())
	assert.False(t, Missing().Found())
	assert.Equal(t, NotFound, Missing().String())
}
