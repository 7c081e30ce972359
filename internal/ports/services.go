// Package ports defines the contracts between the gateway's layers.
// The application layer depends on LexofficeClient rather than on the HTTP
// adapter, and callers depend on Gateway rather than on the application
// service.
//
// Port conventions:
//   - Context as first parameter on every call that may touch the network
//   - Domain types in and out, never wire DTOs
//   - Failures are *domain.Error values matched with errors.Is on the
//     domain sentinels (domain.ErrNotFound, domain.ErrConflict, ...)
//   - Single-resource reads report absence as found == false, not as an error
package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/jsamuelsen/lexoffice-gateway/internal/domain"
)

// LexofficeClient is the outbound port to the Lexoffice public API.
// Implementations pace every request through the shared rate limiter,
// retry server failures, and resolve version conflicts on updates.
type LexofficeClient interface {
	HealthChecker

	GetProfile(ctx context.Context) (*domain.Profile, error)

	CreateContact(ctx context.Context, c *domain.Contact) (*domain.Acknowledgment, error)
	GetContact(ctx context.Context, id uuid.UUID) (*domain.Contact, bool, error)
	ListContacts(ctx context.Context, f domain.ContactFilter) (*domain.Page[domain.Contact], error)
	UpdateContact(ctx context.Context, id uuid.UUID, c *domain.Contact) (*domain.Acknowledgment, error)

	ListVouchers(ctx context.Context, f domain.VoucherFilter) (*domain.Page[domain.VoucherSummary], error)
	GetInvoice(ctx context.Context, id uuid.UUID) (*domain.Invoice, bool, error)
	CreateInvoice(ctx context.Context, inv *domain.Invoice, finalize bool) (*domain.Acknowledgment, error)
	UpdateInvoice(ctx context.Context, id uuid.UUID, inv *domain.Invoice) (*domain.Acknowledgment, error)
	CreateInvoicePayment(ctx context.Context, invoiceID uuid.UUID, p domain.Payment) error
	GetPaymentStatus(ctx context.Context, voucherID uuid.UUID) (*domain.PaymentStatus, bool, error)

	GetQuotation(ctx context.Context, id uuid.UUID) (*domain.Quotation, bool, error)
	CreateQuotation(ctx context.Context, q *domain.Quotation, finalize bool) (*domain.Acknowledgment, error)
	UpdateQuotation(ctx context.Context, id uuid.UUID, q *domain.Quotation, finalize bool) (*domain.Acknowledgment, error)

	ListArticles(ctx context.Context, f domain.ArticleFilter) (*domain.Page[domain.Article], error)
	CreateArticle(ctx context.Context, a *domain.Article) (*domain.Acknowledgment, error)
	ListPaymentConditions(ctx context.Context) ([]domain.PaymentCondition, error)
	ListPrintLayouts(ctx context.Context) ([]domain.PrintLayout, error)

	DownloadFile(ctx context.Context, id uuid.UUID) (*domain.File, bool, error)
	AttachFile(ctx context.Context, voucherID uuid.UUID, filename string, content []byte) (*domain.FileReference, error)
}

// Gateway is the inbound port: the typed operations offered to callers.
//
// Write operations validate their payload locally first; a payload that
// fails validation is rejected with domain.ErrInvalidArgument and never
// reaches the network.
type Gateway interface {
	// Contacts.
	CreateContact(ctx context.Context, c *domain.Contact) (*domain.Acknowledgment, error)
	GetContact(ctx context.Context, id uuid.UUID) (*domain.Contact, bool, error)
	ListContacts(ctx context.Context, f domain.ContactFilter) (*domain.Page[domain.Contact], error)

	// UpdateContact writes c with its version. On a version conflict the
	// current version is fetched and the write is resubmitted; a conflict
	// that outlives the retry budget returns domain.ErrConflict.
	UpdateContact(ctx context.Context, id uuid.UUID, c *domain.Contact) (*domain.Acknowledgment, error)

	// Invoices and payments.
	ListInvoices(ctx context.Context, f domain.VoucherFilter) (*domain.Page[domain.VoucherSummary], error)
	GetInvoice(ctx context.Context, id uuid.UUID) (*domain.Invoice, bool, error)
	CreateInvoice(ctx context.Context, inv *domain.Invoice, finalize bool) (*domain.Acknowledgment, error)
	UpdateInvoice(ctx context.Context, id uuid.UUID, inv *domain.Invoice) (*domain.Acknowledgment, error)
	CreateInvoicePayment(ctx context.Context, invoiceID uuid.UUID, p domain.Payment) error
	GetPaymentStatus(ctx context.Context, voucherID uuid.UUID) (*domain.PaymentStatus, bool, error)

	// Quotations.
	GetQuotation(ctx context.Context, id uuid.UUID) (*domain.Quotation, bool, error)
	CreateQuotation(ctx context.Context, q *domain.Quotation, finalize bool) (*domain.Acknowledgment, error)
	UpdateQuotation(ctx context.Context, id uuid.UUID, q *domain.Quotation, finalize bool) (*domain.Acknowledgment, error)

	// Catalog and account data.
	ListArticles(ctx context.Context, f domain.ArticleFilter) (*domain.Page[domain.Article], error)
	CreateArticle(ctx context.Context, a *domain.Article) (*domain.Acknowledgment, error)
	ListPaymentConditions(ctx context.Context) ([]domain.PaymentCondition, error)
	ListPrintLayouts(ctx context.Context) ([]domain.PrintLayout, error)
	ReferenceData(ctx context.Context) (*domain.ReferenceData, error)
	GetProfile(ctx context.Context) (*domain.Profile, error)

	// Files. AttachFile accepts PDF content only.
	DownloadFile(ctx context.Context, id uuid.UUID) (*domain.File, bool, error)
	AttachFile(ctx context.Context, voucherID uuid.UUID, filename string, content []byte) (*domain.FileReference, error)
}
