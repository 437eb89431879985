package outline

import (
	"regexp"
	"sort"
	"strings"

	"github.com/lexyai/drafter/internal/entity"
)

var placeholderRe = regexp.MustCompile(`{{\s*([^}]+?)\s*}}`)

// Span is the inclusive paragraph index range a section was built from.
type Span struct {
	Start int
	End   int
}

// Build turns extracted paragraphs into a precedent outline.
func Build(paragraphs []string) entity.PrecedentOutline {
	outline, _ := BuildIndexed(paragraphs)
	return outline
}

// BuildIndexed is Build that also reports, per section, the paragraph range
// (heading included) it was built from.
func BuildIndexed(paragraphs []string) (entity.PrecedentOutline, []Span) {
	var (
		title       *string
		frontMatter = []string{}
		sections    = []entity.PrecedentSection{}
		spans       []Span
	)

	start := 0
	if len(paragraphs) > 0 && IsAllCapsHeading(paragraphs[0]) {
		t := paragraphs[0]
		title = &t
		start = 1
	}

	var (
		heading string
		body    []string
		span    Span
		open    bool
	)
	flush := func() {
		if !open {
			return
		}
		sections = append(sections, entity.PrecedentSection{
			Heading: heading,
			Body:    strings.TrimSpace(strings.Join(body, "\n")),
		})
		spans = append(spans, span)
	}

	for idx := start; idx < len(paragraphs); idx++ {
		text := paragraphs[idx]
		if IsSectionHeading(text) {
			flush()
			heading, body, open = text, nil, true
			span = Span{Start: idx, End: idx}
			continue
		}
		if !open {
			frontMatter = append(frontMatter, text)
			continue
		}
		body = append(body, text)
		span.End = idx
	}
	flush()

	lines := make([]string, 0, 1+len(frontMatter)+2*len(sections))
	if title != nil {
		lines = append(lines, *title)
	}
	lines = append(lines, frontMatter...)
	for _, s := range sections {
		lines = append(lines, s.Heading, s.Body)
	}

	return entity.PrecedentOutline{
		Title:        title,
		FrontMatter:  frontMatter,
		Sections:     sections,
		Placeholders: Placeholders(lines...),
	}, spans
}

// Placeholders collects the distinct trimmed {{token}} names found in lines, sorted.
func Placeholders(lines ...string) []string {
	seen := make(map[string]struct{})
	for _, line := range lines {
		for _, match := range placeholderRe.FindAllStringSubmatch(line, -1) {
			key := strings.TrimSpace(match[1])
			if key != "" {
				seen[key] = struct{}{}
			}
		}
	}

	found := make([]string, 0, len(seen))
	for key := range seen {
		found = append(found, key)
	}
	sort.Strings(found)
	return found
}
