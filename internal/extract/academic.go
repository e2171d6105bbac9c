package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/spigell/resume-ats/internal/sections"
)

// EducationKeywords are the headings searched, in order, for the academic score.
var EducationKeywords = []string{"education", "academic qualifications", "academics", "educational background"}

// btechContextLines is how many lines after a degree mention are searched with it.
const btechContextLines = 4

var (
	bachelorPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)bachelor\s*of\s*technology`),
		regexp.MustCompile(`(?i)b\.?tech`),
		regexp.MustCompile(`(?i)bachelor\s*of\s*engineering`),
		regexp.MustCompile(`(?i)\bb\.?e\b`),
	}

	// accepted when 0 <= x <= 10
	gradePointPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:CGPA|CPI|GPA|SGPA)\s*[:=\-]?\s*(\d{1,2}(?:\.\d{1,2})?)\s*(?:/\s*10)?`),
		regexp.MustCompile(`(?i)\b(\d{1,2}(?:\.\d{1,2})?)\s*/\s*10\b`),
		regexp.MustCompile(`(?i)\b(?:scored|aggregate|overall|obtained)\s*[:=\-]?\s*(\d{1,2}(?:\.\d{1,2})?)\b`),
	}

	// accepted when 30 <= x <= 100, reported divided by ten
	percentagePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(\d{2}(?:\.\d{1,2})?)\s*%`),
		regexp.MustCompile(`(?i)\b(?:percentage|aggregate)\s*[:=\-]?\s*(\d{2}(?:\.\d{1,2})?)\b`),
	}
)

// AcademicScore finds a grade on a ten point scale. The education section is
// preferred over the whole text, and lines around a bachelor's degree mention
// are searched before the rest.
func AcademicScore(text string) Field {
	target := text
	if _, body, ok := sections.Segment(text, EducationKeywords).First(EducationKeywords...); ok {
		target = body
	}
	if strings.TrimSpace(target) == "" {
		return Missing()
	}

	lines := strings.Split(target, "\n")
	for i, line := range lines {
		if !mentionsBachelor(line) {
			continue
		}
		end := min(len(lines), i+btechContextLines+1)
		if score, ok := findScore(strings.Join(lines[i:end], "\n")); ok {
			return Found(score)
		}
	}

	if score, ok := findScore(target); ok {
		return Found(score)
	}
	return Missing()
}

func mentionsBachelor(line string) bool {
	for _, re := range bachelorPatterns {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

func findScore(text string) (string, bool) {
	if v, ok := firstInRange(gradePointPatterns, text, 0, 10); ok {
		return formatScore(v), true
	}
	if v, ok := firstInRange(percentagePatterns, text, 30, 100); ok {
		return formatScore(v / 10), true
	}
	return "", false
}

func firstInRange(patterns []*regexp.Regexp, text string, lo, hi float64) (float64, bool) {
	for _, re := range patterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			v, err := strconv.ParseFloat(m[1], 64)
			if err != nil {
				continue
			}
			if v >= lo && v <= hi {
				return v, true
			}
		}
	}
	return 0, false
}

func formatScore(v float64) string {
	return fmt.Sprintf("%.2f/10", v)
}
