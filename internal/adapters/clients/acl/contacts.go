package acl

import (
	"context"

	"github.com/google/uuid"

	"github.com/jsamuelsen/lexoffice-gateway/internal/domain"
)

const contactsPath = "/contacts"

// CreateContact creates a contact. The payload must already be validated.
func (l *Lexoffice) CreateContact(ctx context.Context, c *domain.Contact) (*domain.Acknowledgment, error) {
	return l.create(ctx, contactsPath, "", c)
}

// GetContact reads a contact; found is false when it does not exist.
func (l *Lexoffice) GetContact(ctx context.Context, id uuid.UUID) (*domain.Contact, bool, error) {
	return getOne[domain.Contact](ctx, l, contactPath(id))
}

// ListContacts reads one page of contacts matching f.
func (l *Lexoffice) ListContacts(ctx context.Context, f domain.ContactFilter) (*domain.Page[domain.Contact], error) {
	query, err := ContactsQuery(f)
	if err != nil {
		return nil, err
	}

	return getPage[domain.Contact](ctx, l, contactsPath, query)
}

// UpdateContact replaces a contact. A stale version is refreshed from the
// server and the write is retried.
func (l *Lexoffice) UpdateContact(ctx context.Context, id uuid.UUID, c *domain.Contact) (*domain.Acknowledgment, error) {
	return l.update(ctx, contactPath(id), "", "contact "+id.String(), c)
}

func contactPath(id uuid.UUID) string {
	return contactsPath + "/" + id.String()
}
