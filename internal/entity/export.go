package entity

type ResultFormat string

const (
	FormatText     ResultFormat = "txt"
	FormatMarkdown ResultFormat = "markdown"
	FormatHTML     ResultFormat = "html"
	FormatDOCX     ResultFormat = "docx"
	FormatPDF      ResultFormat = "pdf"
)

func (f ResultFormat) IsValid() bool {
	switch f {
	case FormatText, FormatMarkdown, FormatHTML, FormatDOCX, FormatPDF:
		return true
	default:
		return false
	}
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type AcceptedResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	DraftID string `json:"draft_id"`
}
