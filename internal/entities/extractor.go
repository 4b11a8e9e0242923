package entities

import (
	"context"
	"regexp"
	"strings"
)

// Extractor produces labeled entities from resume text. The production
// quality of extraction is out of scope here; implementations only need
// to be deterministic and cheap.
type Extractor interface {
	Extract(ctx context.Context, text string) (map[string][]Entity, error)
}

// Labels emitted by the default extractor.
const (
	LabelSkill        = "skill"
	LabelOrganization = "organization"
	LabelLocation     = "location"
	LabelProject      = "project"
)

// skillTerms is intentionally small; extend as needed.
var skillTerms = []string{
	"Go", "Golang", "Python", "Java", "JavaScript", "TypeScript", "C++",
	"Rust", "SQL", "PostgreSQL", "MySQL", "MongoDB", "Redis", "Kafka",
	"Docker", "Kubernetes", "Terraform", "AWS", "GCP", "Azure", "Linux",
	"React", "Vue", "Django", "FastAPI", "gRPC", "GraphQL", "CI/CD",
}

var locationTerms = []string{
	"Amsterdam", "Berlin", "London", "Moscow", "New York", "Paris",
	"San Francisco", "Seattle", "Singapore", "Tokyo", "Toronto", "Zurich",
}

var (
	orgPattern     = regexp.MustCompile(`(?m)\b([A-Z][A-Za-z&.]*(?: [A-Z][A-Za-z&.]*)*) (Inc|LLC|Ltd|GmbH|Corp|University|Institute|College|Labs)\b`)
	projectPattern = regexp.MustCompile(`(?mi)^\s*project[:\s-]+(.{3,80})$`)
)

// PatternExtractor is the default dictionary/regex extractor.
type PatternExtractor struct{}

// Extract scans the text for known skills, organization and project
// mentions, and locations. Results keep first-seen order and are unique
// by text within a label.
func (PatternExtractor) Extract(ctx context.Context, text string) (map[string][]Entity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := map[string][]Entity{}
	add := func(label, value string) {
		value = strings.TrimSpace(value)
		if value == "" {
			return
		}
		for _, e := range out[label] {
			if strings.EqualFold(e.Text, value) {
				return
			}
		}
		out[label] = append(out[label], Entity{Label: label, Text: value})
	}

	lower := strings.ToLower(text)
	for _, term := range skillTerms {
		if containsWord(lower, strings.ToLower(term)) {
			add(LabelSkill, term)
		}
	}
	for _, term := range locationTerms {
		if strings.Contains(lower, strings.ToLower(term)) {
			add(LabelLocation, term)
		}
	}
	for _, m := range orgPattern.FindAllStringSubmatch(text, -1) {
		add(LabelOrganization, m[1]+" "+m[2])
	}
	for _, m := range projectPattern.FindAllStringSubmatch(text, -1) {
		add(LabelProject, strings.TrimRight(m[1], " .,"))
	}
	return out, nil
}

// containsWord matches term at word boundaries so "go" does not fire
// inside "mongodb".
func containsWord(haystack, term string) bool {
	idx := 0
	for {
		pos := strings.Index(haystack[idx:], term)
		if pos < 0 {
			return false
		}
		start := idx + pos
		end := start + len(term)
		beforeOK := start == 0 || !isWordByte(haystack[start-1])
		afterOK := end == len(haystack) || !isWordByte(haystack[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
		if idx >= len(haystack) {
			return false
		}
	}
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}
