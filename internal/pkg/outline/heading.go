package outline

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// MaxHeadingLength bounds all-caps headings; longer all-caps paragraphs are body text.
	MaxHeadingLength = 120
	// MinNumberedCapsRatio is the share of uppercase letters a numbered heading tail needs.
	MinNumberedCapsRatio = 0.6
)

var numberedHeadingRe = regexp.MustCompile(`^(\d+)\.\s+(.+)$`)

var typographicReplacer = strings.NewReplacer(
	"\u2013", "-",
	"\u2014", "-",
	"\u2018", "'",
	"\u2019", "'",
	"\u201c", `"`,
	"\u201d", `"`,
)

// NormalizeText replaces typographic dashes and quotes with their ASCII forms.
func NormalizeText(text string) string {
	return typographicReplacer.Replace(text)
}

// CapsRatio returns uppercase letters / all letters, or 0 when text has no letters.
func CapsRatio(text string) float64 {
	var letters, upper int
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if unicode.IsUpper(r) {
			upper++
		}
	}
	if letters == 0 {
		return 0
	}
	return float64(upper) / float64(letters)
}

// IsAllCapsHeading reports whether every letter of text is uppercase.
// Text without letters or longer than MaxHeadingLength is never a heading.
func IsAllCapsHeading(text string) bool {
	if utf8.RuneCountInString(text) > MaxHeadingLength {
		return false
	}
	hasLetter := false
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		hasLetter = true
		if !unicode.IsUpper(r) {
			return false
		}
	}
	return hasLetter
}

// IsNumberedHeading matches "<digits>. <rest>" where rest is mostly uppercase.
func IsNumberedHeading(text string) bool {
	match := numberedHeadingRe.FindStringSubmatch(text)
	if match == nil {
		return false
	}
	return CapsRatio(match[2]) >= MinNumberedCapsRatio
}

// IsSectionHeading reports whether a paragraph opens a new section.
func IsSectionHeading(text string) bool {
	return IsNumberedHeading(text) || IsAllCapsHeading(text)
}
