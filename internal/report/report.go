// Package report renders pipeline results for people and machines.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"html/template"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spigell/resume-ats/internal/pipeline"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
	FormatHTML Format = "html"
)

var ErrUnknownFormat = errors.New("unknown report format")

// Formats lists the supported formats.
func Formats() []Format {
	return []Format{FormatJSON, FormatText, FormatHTML}
}

func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats() {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Render writes res to w in the given format.
func Render(w io.Writer, res *pipeline.Result, format Format) error {
	if res == nil {
		return errors.New("nothing to render")
	}
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case FormatText:
		return renderText(w, res)
	case FormatHTML:
		return summaryBox.Execute(w, newView(res))
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

type row struct {
	Label string
	Value string
}

type view struct {
	Rows         []row
	Achievements template.HTML
	Warnings     []string
}

func newView(res *pipeline.Result) view {
	p := res.Profile
	return view{
		Rows: []row{
			{"Name", p.Name.Value},
			{"Email", p.Email.Value},
			{"Phone", p.Phone.Value},
			{"Skills", strings.Join(p.Skills, ", ")},
			{"Academic Score", p.AcademicScore.Value},
			{"Project Tech Stack", p.ProjectStack.Value},
			{"Predicted Job Role", res.Score.JobRole},
			{"Confidence", fmt.Sprintf("%.2f%%", res.Score.Confidence*100)},
			{"ATS Score", fmt.Sprintf("%.2f%%", res.Score.ATSScore)},
			{"Matched Skills", joinOrDash(res.Score.MatchedSkills)},
			{"Missing Skills", joinOrDash(res.Score.MissingSkills)},
		},
		// built from escaped sentences by the achievements extractor
		Achievements: template.HTML(p.Achievements.Value),
		Warnings:     res.Warnings,
	}
}

func joinOrDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ", ")
}

func renderText(w io.Writer, res *pipeline.Result) error {
	v := newView(res)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	for _, r := range v.Rows {
		fmt.Fprintf(tw, "%s:\t%s\n", r.Label, r.Value)
	}
	fmt.Fprintf(tw, "Achievements:\t%s\n", achievementsText(res.Profile.Achievements.Value))
	for _, warning := range v.Warnings {
		fmt.Fprintf(tw, "Warning:\t%s\n", warning)
	}
	return tw.Flush()
}

// achievementsText flattens the bullet list into "; " separated plain text.
func achievementsText(s string) string {
	if !strings.HasPrefix(s, "<ul>") {
		return s
	}
	s = strings.TrimSuffix(strings.TrimPrefix(s, "<ul><li>"), "</li></ul>")
	return html.UnescapeString(strings.ReplaceAll(s, "</li><li>", "; "))
}

var summaryBox = template.Must(template.New("summary").Parse(`<div class="summary-box">
<h3>Resume Summary</h3>
{{- range .Rows}}
<p><strong>{{.Label}}:</strong> {{.Value}}</p>
{{- end}}
<p><strong>Achievements:</strong></p>
{{.Achievements}}
{{- range .Warnings}}
<p class="warning">{{.}}</p>
{{- end}}
</div>
`))
