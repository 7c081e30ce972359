package domain

import (
	"fmt"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// ContentTypePDF is the only format accepted for voucher attachments.
const ContentTypePDF = "application/pdf"

// File is a downloaded document.
type File struct {
	Content     []byte
	ContentType string
	Filename    string
}

// FileReference identifies an uploaded file.
type FileReference struct {
	ID uuid.UUID `json:"id"`
}

// ValidateAttachment sniffs content and fails with UnsupportedMediaType
// unless it is a PDF. The declared filename is not trusted.
func ValidateAttachment(content []byte) error {
	if len(content) == 0 {
		return NewValidationError("file", "file content is empty")
	}

	detected := mimetype.Detect(content)
	if !detected.Is(ContentTypePDF) {
		return &Error{
			Kind:   KindUnsupportedMediaType,
			Field:  "file",
			Detail: fmt.Sprintf("only %s can be attached, got %s", ContentTypePDF, detected.String()),
		}
	}

	return nil
}
