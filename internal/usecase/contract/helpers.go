package contract

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lexyai/drafter/internal/entity"
)

const (
	maxSummaryItems = 8
	unknownValue    = "unknown"
)

// buildReadySummary turns answered lines into one sentence, preferring items
// that are not boilerplate. It returns "" when nothing can be summarized.
func buildReadySummary(answeredLines []string) string {
	var cleaned, items []string
	for _, line := range answeredLines {
		text := strings.TrimSpace(strings.TrimLeft(line, "- "))
		if text == "" {
			continue
		}
		cleaned = append(cleaned, text)
		if !ContainsStandardClauseLanguage(text) {
			items = append(items, text)
		}
	}
	if len(items) == 0 {
		items = cleaned
	}
	if len(items) == 0 {
		return ""
	}

	visible := items[:min(len(items), maxSummaryItems)]
	summary := "Summary: " + strings.Join(visible, ". ") + "."
	if remaining := len(items) - len(visible); remaining > 0 {
		summary = strings.TrimRight(summary, ".") + fmt.Sprintf(". And %d more detail(s) captured.", remaining)
	}
	return summary
}

// withWelcome prepends WelcomeMessage to the first assistant reply of a conversation.
func withWelcome(history []entity.ChatMessage, reply string) string {
	for _, msg := range history {
		if msg.Role == entity.ChatRoleAssistant {
			return reply
		}
	}

	stripped := strings.TrimSpace(reply)
	if strings.HasPrefix(strings.ToLower(stripped), strings.ToLower(WelcomeMessage)) {
		return reply
	}
	if stripped == "" {
		return WelcomeMessage
	}
	return WelcomeMessage + "\n\n" + stripped
}

func buildChatContext(c entity.ContractContext, state AnswerState) string {
	var clarifying []string
	for _, q := range c.ClarifyingQuestions {
		if !ContainsStandardClauseLanguage(q) {
			clarifying = append(clarifying, "- "+q)
		}
	}

	keys := make([]string, 0, len(c.TemplateQuestions))
	for _, q := range c.TemplateQuestions {
		keys = append(keys, q.Key)
	}

	lines := []string{
		"You are assisting with this contract:",
		"",
		"- Contract type: " + c.ContractTypeName,
		"- Category: " + valueOr(c.Category, unknownValue),
		"- Jurisdiction: " + valueOr(c.Jurisdiction, unknownValue),
		"",
		"Clarifying questions you should aim to cover (adapt wording/order as needed):",
		blockOr(clarifying, "- None"),
		"",
		"Template questions (keys only):",
		orDefault(strings.Join(keys, ", "), "None"),
		"",
		"Details already collected (do NOT ask these again):",
		blockOr(state.AnsweredLines, "- None yet"),
		"",
		"Outstanding required details that still need confirmation:",
		blockOr(state.MissingRequired, "- None – feel free to double-check key clauses."),
		"",
		"Remember:",
		"- Ask ONE clear, specific question at a time.",
		"- Prioritise clarifying questions that have not been covered yet.",
		"- Do NOT draft the full contract text here.",
		"- Keep messages short, conversational, and in plain text (no markdown).",
		"- When the user says they are done or do not want to provide more info, confirm their intent " +
			"and explain which details remain missing and how the contract will handle them " +
			"(e.g. placeholders or assumptions).",
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// buildChatMessages puts the context and the ask instruction in front of the transcript.
func buildChatMessages(contextBlob string, history []entity.ChatMessage) []entity.ChatMessage {
	messages := make([]entity.ChatMessage, 0, len(history)+1)
	messages = append(messages, entity.ChatMessage{
		Role:    entity.ChatRoleUser,
		Content: contextBlob + "\n\n" + askNextQuestionInstruction,
	})
	for _, msg := range history {
		messages = append(messages, entity.ChatMessage{Role: msg.Role.Coerced(), Content: msg.Content})
	}
	return messages
}

// formatChatHistory renders the last maxTurns non-empty messages as "role: content" lines.
func formatChatHistory(messages []entity.ChatMessage, maxTurns int) string {
	if maxTurns <= 0 {
		return ""
	}
	recent := messages[max(0, len(messages)-maxTurns):]

	lines := make([]string, 0, len(recent))
	for _, msg := range recent {
		content := strings.TrimSpace(msg.Content)
		if content == "" {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %s", msg.Role.Coerced(), content))
	}
	return strings.Join(lines, "\n")
}

type questionMeta struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// buildSectionContext renders the context shared by every section prompt of a draft.
func buildSectionContext(
	c entity.ContractContext,
	combined entity.AnswerSet,
	history string,
	outline *entity.PrecedentOutline,
) string {
	questions := make([]questionMeta, 0, len(c.TemplateQuestions))
	for _, q := range c.TemplateQuestions {
		questions = append(questions, questionMeta{Key: q.Key, Label: q.Label})
	}

	frontMatter := make([]string, 0, len(outline.FrontMatter))
	for _, line := range outline.FrontMatter {
		frontMatter = append(frontMatter, "- "+line)
	}

	lines := []string{
		"Contract type: " + c.ContractTypeName,
		"Category: " + valueOr(c.Category, unknownValue),
		"Jurisdiction: " + valueOr(c.Jurisdiction, unknownValue),
		"",
		"Template questions:",
		renderJSON(questions),
		"",
		"Structured answers (form + chat, with form taking precedence):",
		renderJSON(combined),
		"",
		"Recent chat history (most recent turns):",
		orDefault(history, "- None"),
		"",
		"Precedent title:",
		orDefault(outline.TitleText(), "None"),
		"",
		"Precedent front matter (include after title, in order):",
		blockOr(frontMatter, "- None"),
		"",
		"Precedent placeholders found:",
		renderJSON(outline.Placeholders),
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func buildSectionPrompt(sectionContext string, section entity.PrecedentSection) string {
	lines := []string{
		"Here is the structured context and the specific section to draft:",
		strings.TrimSpace(sectionContext),
		"",
		"Section to draft:",
		"- Heading: " + orDefault(section.Heading, "Untitled section"),
		"- Precedent body: " + orDefault(section.Body, "None"),
		"",
		draftSectionInstruction,
	}
	return strings.Join(lines, "\n")
}

// EnsureSectionHeading makes text start with heading, compared case-insensitively.
func EnsureSectionHeading(text, heading string) string {
	cleaned := strings.TrimSpace(text)
	heading = strings.TrimSpace(heading)
	switch {
	case heading == "":
		return cleaned
	case cleaned == "":
		return heading
	case strings.HasPrefix(strings.ToLower(cleaned), strings.ToLower(heading)):
		return cleaned
	default:
		return heading + "\n\n" + cleaned
	}
}

// contractTitle picks the uppercased title of the draft.
func contractTitle(c entity.ContractContext, outline *entity.PrecedentOutline) string {
	for _, candidate := range []string{c.ContractTitle, outline.TitleText(), c.ContractTypeName} {
		if title := strings.TrimSpace(candidate); title != "" {
			return strings.ToUpper(title)
		}
	}
	return "CONTRACT"
}

// stitchContract joins title, front matter and drafted sections and appends the disclaimer.
func stitchContract(title string, frontMatter, sections []string) string {
	parts := make([]string, 0, 1+len(frontMatter)+len(sections))
	for _, part := range append(append([]string{title}, frontMatter...), sections...) {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	return strings.TrimSpace(strings.Join(parts, "\n\n")) + "\n\n" + Disclaimer
}

func sectionLabel(heading string, index, total int) string {
	return fmt.Sprintf("Drafting Section %s (%d of %d)", orDefault(strings.TrimSpace(heading), "Untitled section"), index, total)
}

func renderJSON(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}

func valueOr(value *string, fallback string) string {
	if value == nil {
		return fallback
	}
	return orDefault(*value, fallback)
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func blockOr(lines []string, fallback string) string {
	if len(lines) == 0 {
		return fallback
	}
	return strings.Join(lines, "\n")
}
