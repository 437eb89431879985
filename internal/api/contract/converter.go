package contract

import (
	"github.com/lexyai/drafter/internal/entity"
	"github.com/lexyai/drafter/internal/pkg/outline"
)

// toOutlineUploadResponse pairs the raw outline with the sections a draft would use
func toOutlineUploadResponse(filename string, parsed entity.PrecedentOutline, maxSections int) *entity.OutlineUploadResponse {
	drafting := outline.BoundSections(parsed.Sections, maxSections)
	if drafting == nil {
		drafting = []entity.PrecedentSection{}
	}
	return &entity.OutlineUploadResponse{
		Filename:         filename,
		Outline:          parsed,
		DraftingSections: drafting,
	}
}

func exportFilename(draftID, extension string) string {
	if draftID == "" {
		return "contract" + extension
	}
	return "contract-" + draftID + extension
}
