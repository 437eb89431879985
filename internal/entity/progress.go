package entity

import "time"

type ProgressStatus string

const (
	ProgressStatusIdle      ProgressStatus = "idle"
	ProgressStatusRunning   ProgressStatus = "running"
	ProgressStatusCompleted ProgressStatus = "completed"
	ProgressStatusFailed    ProgressStatus = "failed"
)

// IsTerminal reports whether no further updates are expected for the attempt.
func (s ProgressStatus) IsTerminal() bool {
	return s == ProgressStatusCompleted || s == ProgressStatusFailed
}

// Progress is the per-draft generation state observed by pollers.
type Progress struct {
	DraftID           string         `json:"draft_id"`
	Status            ProgressStatus `json:"status"`
	Percent           int            `json:"percent"`
	CurrentStep       string         `json:"current_step,omitempty"`
	CompletedSections int            `json:"completed_sections"`
	TotalSections     int            `json:"total_sections"`
	UpdatedAt         time.Time      `json:"updated_at"`
	Error             *string        `json:"error"`
}

// IdleProgress is reported for drafts with no recorded generation.
func IdleProgress(draftID string) *Progress {
	return &Progress{
		DraftID: draftID,
		Status:  ProgressStatusIdle,
	}
}
