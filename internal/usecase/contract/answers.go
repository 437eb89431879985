package contract

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/lexyai/drafter/internal/entity"
)

// StandardClauseDefault is recorded for unanswered standard clause questions.
// Boilerplate clauses are opt-out.
const StandardClauseDefault = "Yes"

var standardClauseKeywords = []string{
	"boilerplate",
	"standard exclusion",
	"standard exclusions",
	"standard clause",
	"standard clauses",
	"standard provision",
	"standard provisions",
}

// AnswerState splits template questions into what the model may treat as
// settled and what still has to be asked.
type AnswerState struct {
	AnsweredLines   []string
	MissingRequired []string
}

// Ready reports whether every required question has an answer.
func (s AnswerState) Ready() bool {
	return len(s.MissingRequired) == 0
}

// ContainsStandardClauseLanguage reports whether text mentions boilerplate
// or standard clauses, case-insensitively.
func ContainsStandardClauseLanguage(text string) bool {
	lowered := strings.ToLower(text)
	for _, keyword := range standardClauseKeywords {
		if strings.Contains(lowered, keyword) {
			return true
		}
	}
	return false
}

// IsStandardClauseQuestion checks the key, label and description of q.
func IsStandardClauseQuestion(q entity.TemplateQuestion) bool {
	parts := make([]string, 0, 3)
	for _, part := range []string{q.Key, q.Label, q.DescriptionText()} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return ContainsStandardClauseLanguage(strings.Join(parts, " "))
}

// MergeAnswers combines chat-inferred and form answers. Form answers win on
// collisions and reserved bookkeeping keys are dropped from both.
func MergeAnswers(form, chat entity.AnswerSet) entity.AnswerSet {
	combined := make(entity.AnswerSet, len(form)+len(chat))
	for key, value := range chat {
		if !isReservedKey(key) {
			combined[key] = value
		}
	}
	for key, value := range form {
		if !isReservedKey(key) {
			combined[key] = value
		}
	}
	return combined
}

// NormalizeAnswer renders an answer for display. Lists keep their non-blank
// elements joined with ", ". The second result is false for absent answers.
func NormalizeAnswer(value any) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", false
	case []any:
		return joinParts(len(v), func(i int) string { return stringify(v[i]) })
	case []string:
		return joinParts(len(v), func(i int) string { return v[i] })
	default:
		text := strings.TrimSpace(stringify(v))
		return text, text != ""
	}
}

// ApplyStandardDefaults fills unanswered standard clause questions with
// StandardClauseDefault. It returns a new combined set and the injected defaults.
func ApplyStandardDefaults(questions []entity.TemplateQuestion, combined entity.AnswerSet) (entity.AnswerSet, entity.AnswerSet) {
	updated := make(entity.AnswerSet, len(combined))
	for key, value := range combined {
		updated[key] = value
	}
	defaults := make(entity.AnswerSet)

	for _, q := range questions {
		if !IsStandardClauseQuestion(q) {
			continue
		}
		if _, ok := NormalizeAnswer(updated[q.Key]); ok {
			continue
		}
		updated[q.Key] = StandardClauseDefault
		defaults[q.Key] = StandardClauseDefault
	}
	return updated, defaults
}

// ComputeAnswerState lists answered questions and unanswered required ones.
// Optional questions without an answer appear in neither list.
func ComputeAnswerState(questions []entity.TemplateQuestion, combined entity.AnswerSet) AnswerState {
	state := AnswerState{
		AnsweredLines:   []string{},
		MissingRequired: []string{},
	}
	for _, q := range questions {
		if value, ok := NormalizeAnswer(combined[q.Key]); ok {
			state.AnsweredLines = append(state.AnsweredLines, fmt.Sprintf("- %s: %s", q.Label, value))
			continue
		}
		if q.Required {
			state.MissingRequired = append(state.MissingRequired, fmt.Sprintf("- %s (%s)", q.Label, q.Key))
		}
	}
	return state
}

func isReservedKey(key string) bool {
	return strings.HasPrefix(key, entity.ReservedAnswerPrefix)
}

func joinParts(n int, part func(i int) string) (string, bool) {
	parts := make([]string, 0, n)
	for i := range n {
		if p := strings.TrimSpace(part(i)); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return "", false
	}
	return strings.Join(parts, ", "), true
}

func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// truthy follows the loose truthiness of a JSON value stored in an answer set.
func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case float64:
		return v != 0
	case int:
		return v != 0
	case []any:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	default:
		return true
	}
}
