// Package app contains the gateway's application layer: the typed operations
// callers use, each validated locally and then delegated to the Lexoffice
// client port.
//
// What does NOT belong here:
//   - HTTP, query strings and JSON (that's the acl adapter)
//   - Pacing and retries (that's the coordinator behind the client port)
//   - Payload rules themselves (that's the domain layer)
package app

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jsamuelsen/lexoffice-gateway/internal/domain"
	"github.com/jsamuelsen/lexoffice-gateway/internal/platform/telemetry"
	"github.com/jsamuelsen/lexoffice-gateway/internal/ports"
)

// GatewayConfig holds the gateway's collaborators.
type GatewayConfig struct {
	// Client is required.
	Client ports.LexofficeClient

	// Metrics is optional.
	Metrics *telemetry.GatewayMetrics
}

// Gateway implements ports.Gateway on top of a Lexoffice client.
// It holds no mutable state and is safe for concurrent use.
type Gateway struct {
	client  ports.LexofficeClient
	metrics *telemetry.GatewayMetrics
}

var _ ports.Gateway = (*Gateway)(nil)

// NewGateway creates a gateway. It panics if cfg.Client is nil.
func NewGateway(cfg GatewayConfig) *Gateway {
	if cfg.Client == nil {
		panic("app: gateway requires a Lexoffice client")
	}

	return &Gateway{
		client:  cfg.Client,
		metrics: cfg.Metrics,
	}
}

// write is the input of an operation that sends a payload.
type write[T any] struct {
	id       uuid.UUID
	payload  *T
	finalize bool
}

// CreateContact creates a contact. The contact must have version 0, exactly
// one of company or person, and at least one role.
func (g *Gateway) CreateContact(ctx context.Context, c *domain.Contact) (*domain.Acknowledgment, error) {
	return execute(ctx, g, Operation[*domain.Contact, *domain.Acknowledgment]{
		Name:     "CreateContact",
		Validate: domain.ValidateContactCreate,
		Perform:  g.client.CreateContact,
	}, c)
}

// GetContact reads a contact; found is false when it does not exist.
func (g *Gateway) GetContact(ctx context.Context, id uuid.UUID) (*domain.Contact, bool, error) {
	return get(ctx, g, "GetContact", id, g.client.GetContact)
}

// ListContacts returns one page of contacts matching f.
func (g *Gateway) ListContacts(ctx context.Context, f domain.ContactFilter) (*domain.Page[domain.Contact], error) {
	return execute(ctx, g, Operation[domain.ContactFilter, *domain.Page[domain.Contact]]{
		Name:    "ListContacts",
		Perform: g.client.ListContacts,
	}, f)
}

// UpdateContact replaces a contact.
func (g *Gateway) UpdateContact(ctx context.Context, id uuid.UUID, c *domain.Contact) (*domain.Acknowledgment, error) {
	return execute(ctx, g, Operation[write[domain.Contact], *domain.Acknowledgment]{
		Name: "UpdateContact",
		Validate: func(in write[domain.Contact]) error {
			if err := requireID("id", in.id); err != nil {
				return err
			}

			return domain.ValidateContactUpdate(in.payload)
		},
		Perform: func(ctx context.Context, in write[domain.Contact]) (*domain.Acknowledgment, error) {
			return g.client.UpdateContact(ctx, in.id, in.payload)
		},
	}, write[domain.Contact]{id: id, payload: c})
}

// ListInvoices returns one page of the voucher list. Without explicit types
// and statuses every invoice type in every non-draft status is listed.
func (g *Gateway) ListInvoices(ctx context.Context, f domain.VoucherFilter) (*domain.Page[domain.VoucherSummary], error) {
	return execute(ctx, g, Operation[domain.VoucherFilter, *domain.Page[domain.VoucherSummary]]{
		Name:    "ListInvoices",
		Perform: g.client.ListVouchers,
	}, f)
}

// GetInvoice reads an invoice; found is false when it does not exist.
func (g *Gateway) GetInvoice(ctx context.Context, id uuid.UUID) (*domain.Invoice, bool, error) {
	return get(ctx, g, "GetInvoice", id, g.client.GetInvoice)
}

// CreateInvoice creates an invoice, as a draft unless finalize is set.
func (g *Gateway) CreateInvoice(ctx context.Context, inv *domain.Invoice, finalize bool) (*domain.Acknowledgment, error) {
	return execute(ctx, g, Operation[write[domain.Invoice], *domain.Acknowledgment]{
		Name: "CreateInvoice",
		Validate: func(in write[domain.Invoice]) error {
			return domain.ValidateInvoiceCreate(in.payload)
		},
		Perform: func(ctx context.Context, in write[domain.Invoice]) (*domain.Acknowledgment, error) {
			return g.client.CreateInvoice(ctx, in.payload, in.finalize)
		},
	}, write[domain.Invoice]{payload: inv, finalize: finalize})
}

// UpdateInvoice replaces an invoice. The version must have been read from
// the server; a stale one is refreshed and the write resubmitted.
func (g *Gateway) UpdateInvoice(ctx context.Context, id uuid.UUID, inv *domain.Invoice) (*domain.Acknowledgment, error) {
	return execute(ctx, g, Operation[write[domain.Invoice], *domain.Acknowledgment]{
		Name: "UpdateInvoice",
		Validate: func(in write[domain.Invoice]) error {
			if err := requireID("id", in.id); err != nil {
				return err
			}

			return domain.ValidateInvoiceUpdate(in.payload)
		},
		Perform: func(ctx context.Context, in write[domain.Invoice]) (*domain.Acknowledgment, error) {
			return g.client.UpdateInvoice(ctx, in.id, in.payload)
		},
	}, write[domain.Invoice]{id: id, payload: inv})
}

// CreateInvoicePayment records a payment against an invoice.
func (g *Gateway) CreateInvoicePayment(ctx context.Context, invoiceID uuid.UUID, p domain.Payment) error {
	_, err := execute(ctx, g, Operation[write[domain.Payment], struct{}]{
		Name: "CreateInvoicePayment",
		Validate: func(in write[domain.Payment]) error {
			if err := requireID("invoiceId", in.id); err != nil {
				return err
			}

			return domain.ValidatePayment(*in.payload)
		},
		Perform: func(ctx context.Context, in write[domain.Payment]) (struct{}, error) {
			return struct{}{}, g.client.CreateInvoicePayment(ctx, in.id, *in.payload)
		},
	}, write[domain.Payment]{id: invoiceID, payload: &p})

	return err
}

// GetPaymentStatus reads the payment state of a voucher; found is false when
// the voucher does not exist.
func (g *Gateway) GetPaymentStatus(ctx context.Context, voucherID uuid.UUID) (*domain.PaymentStatus, bool, error) {
	return get(ctx, g, "GetPaymentStatus", voucherID, g.client.GetPaymentStatus)
}

// GetQuotation reads a quotation; found is false when it does not exist.
func (g *Gateway) GetQuotation(ctx context.Context, id uuid.UUID) (*domain.Quotation, bool, error) {
	return get(ctx, g, "GetQuotation", id, g.client.GetQuotation)
}

// CreateQuotation creates a quotation, as a draft unless finalize is set.
func (g *Gateway) CreateQuotation(ctx context.Context, q *domain.Quotation, finalize bool) (*domain.Acknowledgment, error) {
	return execute(ctx, g, Operation[write[domain.Quotation], *domain.Acknowledgment]{
		Name: "CreateQuotation",
		Validate: func(in write[domain.Quotation]) error {
			return domain.ValidateQuotationCreate(in.payload)
		},
		Perform: func(ctx context.Context, in write[domain.Quotation]) (*domain.Acknowledgment, error) {
			return g.client.CreateQuotation(ctx, in.payload, in.finalize)
		},
	}, write[domain.Quotation]{payload: q, finalize: finalize})
}

// UpdateQuotation replaces a quotation. The version must have been read from
// the server; a stale one is refreshed and the write resubmitted.
func (g *Gateway) UpdateQuotation(ctx context.Context, id uuid.UUID, q *domain.Quotation, finalize bool) (*domain.Acknowledgment, error) {
	return execute(ctx, g, Operation[write[domain.Quotation], *domain.Acknowledgment]{
		Name: "UpdateQuotation",
		Validate: func(in write[domain.Quotation]) error {
			if err := requireID("id", in.id); err != nil {
				return err
			}

			return domain.ValidateQuotationUpdate(in.payload)
		},
		Perform: func(ctx context.Context, in write[domain.Quotation]) (*domain.Acknowledgment, error) {
			return g.client.UpdateQuotation(ctx, in.id, in.payload, in.finalize)
		},
	}, write[domain.Quotation]{id: id, payload: q, finalize: finalize})
}

// ListArticles returns one page of articles matching f.
func (g *Gateway) ListArticles(ctx context.Context, f domain.ArticleFilter) (*domain.Page[domain.Article], error) {
	return execute(ctx, g, Operation[domain.ArticleFilter, *domain.Page[domain.Article]]{
		Name:    "ListArticles",
		Perform: g.client.ListArticles,
	}, f)
}

// CreateArticle creates an article.
func (g *Gateway) CreateArticle(ctx context.Context, a *domain.Article) (*domain.Acknowledgment, error) {
	return execute(ctx, g, Operation[*domain.Article, *domain.Acknowledgment]{
		Name:     "CreateArticle",
		Validate: domain.ValidateArticleCreate,
		Perform:  g.client.CreateArticle,
	}, a)
}

// ListPaymentConditions returns the account's payment conditions.
func (g *Gateway) ListPaymentConditions(ctx context.Context) ([]domain.PaymentCondition, error) {
	return list(ctx, g, "ListPaymentConditions", g.client.ListPaymentConditions)
}

// ListPrintLayouts returns the account's print layouts.
func (g *Gateway) ListPrintLayouts(ctx context.Context) ([]domain.PrintLayout, error) {
	return list(ctx, g, "ListPrintLayouts", g.client.ListPrintLayouts)
}

// ReferenceData loads payment conditions and print layouts concurrently.
// If either lookup fails the other is cancelled and the first error returned.
func (g *Gateway) ReferenceData(ctx context.Context) (*domain.ReferenceData, error) {
	return execute(ctx, g, Operation[struct{}, *domain.ReferenceData]{
		Name: "ReferenceData",
		Perform: func(ctx context.Context, _ struct{}) (*domain.ReferenceData, error) {
			var data domain.ReferenceData

			eg, ctx := errgroup.WithContext(ctx)

			eg.Go(func() (err error) {
				data.PaymentConditions, err = g.client.ListPaymentConditions(ctx)
				return err
			})

			eg.Go(func() (err error) {
				data.PrintLayouts, err = g.client.ListPrintLayouts(ctx)
				return err
			})

			if err := eg.Wait(); err != nil {
				return nil, err
			}

			return &data, nil
		},
	}, struct{}{})
}

// GetProfile returns the connected organization's profile.
func (g *Gateway) GetProfile(ctx context.Context) (*domain.Profile, error) {
	return execute(ctx, g, Operation[struct{}, *domain.Profile]{
		Name: "GetProfile",
		Perform: func(ctx context.Context, _ struct{}) (*domain.Profile, error) {
			return g.client.GetProfile(ctx)
		},
	}, struct{}{})
}

// DownloadFile reads a document; found is false when it does not exist.
func (g *Gateway) DownloadFile(ctx context.Context, id uuid.UUID) (*domain.File, bool, error) {
	return get(ctx, g, "DownloadFile", id, g.client.DownloadFile)
}

// AttachFile uploads a PDF to a voucher. Content that is not a PDF fails with
// domain.ErrUnsupportedMediaType before any request is made.
func (g *Gateway) AttachFile(ctx context.Context, voucherID uuid.UUID, filename string, content []byte) (*domain.FileReference, error) {
	type attachment struct {
		voucherID uuid.UUID
		filename  string
		content   []byte
	}

	return execute(ctx, g, Operation[attachment, *domain.FileReference]{
		Name: "AttachFile",
		Validate: func(in attachment) error {
			if err := requireID("voucherId", in.voucherID); err != nil {
				return err
			}

			return domain.ValidateAttachment(in.content)
		},
		Perform: func(ctx context.Context, in attachment) (*domain.FileReference, error) {
			return g.client.AttachFile(ctx, in.voucherID, in.filename, in.content)
		},
	}, attachment{voucherID: voucherID, filename: filename, content: content})
}

func get[T any](
	ctx context.Context,
	g *Gateway,
	name string,
	id uuid.UUID,
	fetch func(context.Context, uuid.UUID) (*T, bool, error),
) (*T, bool, error) {
	res, err := execute(ctx, g, Operation[uuid.UUID, lookup[T]]{
		Name: name,
		Validate: func(id uuid.UUID) error {
			return requireID("id", id)
		},
		Perform: func(ctx context.Context, id uuid.UUID) (lookup[T], error) {
			v, found, err := fetch(ctx, id)
			return lookup[T]{value: v, found: found}, err
		},
		Absent: notFound[T],
	}, id)
	if err != nil {
		return nil, false, err
	}

	return res.value, res.found, nil
}

func list[T any](ctx context.Context, g *Gateway, name string, fetch func(context.Context) ([]T, error)) ([]T, error) {
	return execute(ctx, g, Operation[struct{}, []T]{
		Name: name,
		Perform: func(ctx context.Context, _ struct{}) ([]T, error) {
			return fetch(ctx)
		},
	}, struct{}{})
}

func requireID(field string, id uuid.UUID) error {
	if id == uuid.Nil {
		return domain.NewValidationError(field, "id is required")
	}

	return nil
}
