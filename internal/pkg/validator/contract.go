package validator

import (
	"fmt"
	"net/url"

	"github.com/lexyai/drafter/internal/entity"
)

// ValidateChat validates ContractChatRequest
func (v *Validator) ValidateChat(req *entity.ContractChatRequest) error {
	if req.DraftID == "" {
		return fmt.Errorf("%w: draft_id", entity.ErrMissingField)
	}
	if err := validateContext(&req.Context); err != nil {
		return err
	}
	return validateMessages(req.Messages)
}

// ValidateGenerate validates GenerateContractRequest
func (v *Validator) ValidateGenerate(req *entity.GenerateContractRequest) error {
	if req.DraftID == "" {
		return fmt.Errorf("%w: draft_id", entity.ErrMissingField)
	}
	if err := validateContext(&req.Context); err != nil {
		return err
	}
	if err := validateMessages(req.Messages); err != nil {
		return err
	}
	if req.CallbackURL != "" {
		return validateCallbackURL(req.CallbackURL)
	}
	return nil
}

// ValidateExport validates ExportContractRequest
func (v *Validator) ValidateExport(req *entity.ExportContractRequest) error {
	if req.ContractText == "" {
		return fmt.Errorf("%w: contract_text", entity.ErrMissingField)
	}
	return nil
}

func validateContext(c *entity.ContractContext) error {
	for i, q := range c.TemplateQuestions {
		if q.Key == "" {
			return fmt.Errorf("%w: template_questions[%d].key", entity.ErrMissingField, i)
		}
	}
	return nil
}

func validateMessages(messages []entity.ChatMessage) error {
	for i, m := range messages {
		switch m.Role {
		case entity.ChatRoleSystem, entity.ChatRoleUser, entity.ChatRoleAssistant:
		default:
			return fmt.Errorf("%w: messages[%d].role %q (allowed: system, user, assistant)", entity.ErrInvalidParameter, i, m.Role)
		}
	}
	return nil
}

func validateCallbackURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: callback_url must be an absolute http(s) URL", entity.ErrInvalidParameter)
	}
	return nil
}
