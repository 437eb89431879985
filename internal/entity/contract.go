package entity

import "encoding/json"

type ChatRole string

const (
	ChatRoleSystem    ChatRole = "system"
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

// ReservedAnswerPrefix marks bookkeeping keys stored next to real answers.
const ReservedAnswerPrefix = "__"

// ReadySummaryFlag records that the ready summary was already sent for a draft.
const ReadySummaryFlag = ReservedAnswerPrefix + "ready_summary_sent"

// Coerced maps any role other than user or assistant to user.
func (r ChatRole) Coerced() ChatRole {
	if r == ChatRoleAssistant {
		return ChatRoleAssistant
	}
	return ChatRoleUser
}

type ChatMessage struct {
	Role    ChatRole `json:"role"`
	Content string   `json:"content"`
}

// AnswerSet maps question keys to scalar or list values.
type AnswerSet map[string]any

// TemplateQuestion is a questionnaire item supplied per contract type.
type TemplateQuestion struct {
	Key         string  `json:"key"`
	Label       string  `json:"label"`
	Description *string `json:"description,omitempty"`
	Required    bool    `json:"required"`
}

// UnmarshalJSON treats a question without an explicit "required" flag as required.
func (q *TemplateQuestion) UnmarshalJSON(data []byte) error {
	type rawQuestion TemplateQuestion
	raw := rawQuestion{Required: true}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*q = TemplateQuestion(raw)
	return nil
}

// DescriptionText returns the description or an empty string.
func (q TemplateQuestion) DescriptionText() string {
	if q.Description == nil {
		return ""
	}
	return *q.Description
}

// ContractContext carries everything known about the contract being drafted.
type ContractContext struct {
	ContractTypeID      string             `json:"contract_type_id"`
	ContractTypeName    string             `json:"contract_type_name"`
	ContractTitle       string             `json:"contract_title,omitempty"`
	Category            *string            `json:"category,omitempty"`
	Jurisdiction        *string            `json:"jurisdiction,omitempty"`
	TemplateQuestions   []TemplateQuestion `json:"template_questions"`
	FormAnswers         AnswerSet          `json:"form_answers"`
	ChatAnswers         AnswerSet          `json:"chat_answers"`
	ClarifyingQuestions []string           `json:"clarifying_questions"`
}

type ContractChatRequest struct {
	DraftID  string          `json:"draft_id"`
	Context  ContractContext `json:"context"`
	Messages []ChatMessage   `json:"messages"`
}

type ContractChatResponse struct {
	DraftID            string    `json:"draft_id"`
	AssistantMessage   string    `json:"assistant_message"`
	UpdatedChatAnswers AnswerSet `json:"updated_chat_answers"`
}

type GenerateContractRequest struct {
	DraftID           string            `json:"draft_id"`
	Context           ContractContext   `json:"context"`
	Messages          []ChatMessage     `json:"messages"`
	PrecedentOutline  *PrecedentOutline `json:"precedent_outline,omitempty"`
	CallbackURL       string            `json:"callback_url,omitempty"`
}

type GenerateContractResponse struct {
	DraftID       string  `json:"draft_id"`
	ContractText  string  `json:"contract_text"`
	RevisionNotes *string `json:"revision_notes"`
}

type ExportContractRequest struct {
	DraftID      string `json:"draft_id"`
	ContractText string `json:"contract_text"`
}
