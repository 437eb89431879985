package validator

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/lexyai/drafter/internal/config"
	"github.com/lexyai/drafter/internal/entity"
)

// PrecedentExtension is the only accepted precedent upload format
const PrecedentExtension = ".docx"

var docxContentTypes = map[string]bool{
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/octet-stream": true,
	"application/zip":          true,
}

// Validator validates API requests and precedent uploads
type Validator struct {
	cfg config.FileUploadConfig
}

func NewValidator(cfg config.FileUploadConfig) *Validator {
	return &Validator{cfg: cfg}
}

// MaxUploadSize bounds the multipart body of a precedent upload
func (v *Validator) MaxUploadSize() int64 {
	return v.cfg.MaxUploadSize
}

// ValidatePrecedentUpload validates an uploaded .docx precedent
func (v *Validator) ValidatePrecedentUpload(file *multipart.FileHeader) error {
	if file == nil {
		return fmt.Errorf("%w: file", entity.ErrMissingField)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext != PrecedentExtension {
		return fmt.Errorf("%w: %q (only .docx files are allowed)", entity.ErrInvalidExtension, ext)
	}

	if file.Size == 0 {
		return fmt.Errorf("%w: file '%s' is empty", entity.ErrInvalidFile, file.Filename)
	}

	if file.Size > v.cfg.MaxFileSize {
		return fmt.Errorf("%w: file '%s' is %d bytes (max %d)", entity.ErrFileTooLarge, file.Filename, file.Size, v.cfg.MaxFileSize)
	}

	contentType := file.Header.Get("Content-Type")
	if contentType != "" && !docxContentTypes[contentType] {
		return fmt.Errorf("%w: content type '%s'", entity.ErrInvalidExtension, contentType)
	}

	return nil
}

// SanitizeFilename sanitizes a filename for use in a Content-Disposition header
func SanitizeFilename(filename string) string {
	filename = filepath.Base(filename)
	replacer := strings.NewReplacer(
		" ", "_",
		"\"", "",
		"/", "",
		"\\", "",
		"(", "",
		")", "",
		"[", "",
		"]", "",
		"{", "",
		"}", "",
	)
	return replacer.Replace(filename)
}
