package entity

// CompletionRequest is a provider-neutral text completion call.
// System is always sent as a top-level instruction, never inside Messages.
type CompletionRequest struct {
	Messages    []ChatMessage
	System      string
	MaxTokens   int
	Temperature float64
	Model       string
}

// Usage reports the token accounting of one completion.
type Usage struct {
	InputTokens  int    `json:"input_tokens"`
	OutputTokens int    `json:"output_tokens"`
	Model        string `json:"model"`
}

// UsageTotals accumulates usage across one generation run.
type UsageTotals struct {
	InputTokens  int
	OutputTokens int
	Model        string
}

// Add folds a single completion's usage into the totals.
func (t *UsageTotals) Add(u Usage) {
	t.InputTokens += u.InputTokens
	t.OutputTokens += u.OutputTokens
	if u.Model != "" {
		t.Model = u.Model
	}
}

// Anthropic Messages API wire types

type AnthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type AnthropicMessagesRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	System      string             `json:"system,omitempty"`
	Messages    []AnthropicMessage `json:"messages"`
	Temperature float64            `json:"temperature"`
}

type AnthropicContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type AnthropicMessagesResponse struct {
	ID         string                  `json:"id"`
	Model      string                  `json:"model"`
	Content    []AnthropicContentBlock `json:"content"`
	StopReason string                  `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}
