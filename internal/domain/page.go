package domain

import (
	"time"

	"github.com/google/uuid"
)

// Page is the envelope Lexoffice wraps around every list result.
// Number is zero-based.
type Page[T any] struct {
	Content          []T    `json:"content"`
	First            bool   `json:"first"`
	Last             bool   `json:"last"`
	TotalPages       int    `json:"totalPages"`
	TotalElements    int64  `json:"totalElements"`
	NumberOfElements int    `json:"numberOfElements"`
	Size             int    `json:"size"`
	Number           int    `json:"number"`
	Sort             []Sort `json:"sort,omitempty"`
}

// Sort describes how a page was ordered.
type Sort struct {
	Property     string `json:"property"`
	Direction    string `json:"direction"`
	IgnoreCase   bool   `json:"ignoreCase"`
	NullHandling string `json:"nullHandling"`
	Ascending    bool   `json:"ascending"`
}

// Consistent reports whether the page metadata agrees with itself:
// NumberOfElements matches the content length and First/Last match Number.
func (p *Page[T]) Consistent() bool {
	if p.NumberOfElements != len(p.Content) {
		return false
	}

	if p.First != (p.Number == 0) {
		return false
	}

	// An empty result set reports zero pages and is both first and last.
	lastIndex := max(p.TotalPages-1, 0)

	return p.Last == (p.Number >= lastIndex)
}

// HasNext reports whether another page follows this one.
func (p *Page[T]) HasNext() bool {
	return !p.Last
}

// Acknowledgment is returned by every create and update.
type Acknowledgment struct {
	ID          uuid.UUID `json:"id"`
	ResourceURI string    `json:"resourceUri"`
	CreatedDate time.Time `json:"createdDate,omitzero"`
	UpdatedDate time.Time `json:"updatedDate,omitzero"`
	Version     int       `json:"version"`
}
