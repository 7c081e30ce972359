package acl

import (
	"context"

	"github.com/google/uuid"

	"github.com/jsamuelsen/lexoffice-gateway/internal/domain"
)

const (
	voucherListPath = "/voucherlist"
	vouchersPath    = "/vouchers"
	invoicesPath    = "/invoices"
	quotationsPath  = "/quotations"
	paymentsPath    = "/payments"
)

// ListVouchers reads one page of the voucher list matching f.
func (l *Lexoffice) ListVouchers(ctx context.Context, f domain.VoucherFilter) (*domain.Page[domain.VoucherSummary], error) {
	query, err := VoucherListQuery(f)
	if err != nil {
		return nil, err
	}

	return getPage[domain.VoucherSummary](ctx, l, voucherListPath, query)
}

// GetInvoice reads an invoice; found is false when it does not exist.
func (l *Lexoffice) GetInvoice(ctx context.Context, id uuid.UUID) (*domain.Invoice, bool, error) {
	return getOne[domain.Invoice](ctx, l, invoicesPath+"/"+id.String())
}

// CreateInvoice creates an invoice, finalizing it when finalize is set.
func (l *Lexoffice) CreateInvoice(ctx context.Context, inv *domain.Invoice, finalize bool) (*domain.Acknowledgment, error) {
	return l.create(ctx, invoicesPath, FinalizeQuery(finalize), inv)
}

// UpdateInvoice replaces an invoice through the generic voucher endpoint,
// which is the one that accepts PUT. A stale version is refreshed from the
// server and the write is retried.
func (l *Lexoffice) UpdateInvoice(ctx context.Context, id uuid.UUID, inv *domain.Invoice) (*domain.Acknowledgment, error) {
	return l.update(ctx, vouchersPath+"/"+id.String(), "", "invoice "+id.String(), inv)
}

// CreateInvoicePayment records a payment against an invoice.
func (l *Lexoffice) CreateInvoicePayment(ctx context.Context, invoiceID uuid.UUID, p domain.Payment) error {
	body, err := encodeJSON(p)
	if err != nil {
		return err
	}

	_, err = l.coord.Execute(ctx, postJSON(invoicesPath+"/"+invoiceID.String()+"/payment", "", body))

	return err
}

// GetPaymentStatus reads the payment state of a voucher.
func (l *Lexoffice) GetPaymentStatus(ctx context.Context, voucherID uuid.UUID) (*domain.PaymentStatus, bool, error) {
	return getOne[domain.PaymentStatus](ctx, l, paymentsPath+"/"+voucherID.String())
}

// GetQuotation reads a quotation; found is false when it does not exist.
func (l *Lexoffice) GetQuotation(ctx context.Context, id uuid.UUID) (*domain.Quotation, bool, error) {
	return getOne[domain.Quotation](ctx, l, quotationPath(id))
}

// CreateQuotation creates a quotation, finalizing it when finalize is set.
func (l *Lexoffice) CreateQuotation(ctx context.Context, q *domain.Quotation, finalize bool) (*domain.Acknowledgment, error) {
	return l.create(ctx, quotationsPath, FinalizeQuery(finalize), q)
}

// UpdateQuotation replaces a quotation. A stale version is refreshed from the
// server and the write is retried.
func (l *Lexoffice) UpdateQuotation(ctx context.Context, id uuid.UUID, q *domain.Quotation, finalize bool) (*domain.Acknowledgment, error) {
	return l.update(ctx, quotationPath(id), FinalizeQuery(finalize), "quotation "+id.String(), q)
}

func quotationPath(id uuid.UUID) string {
	return quotationsPath + "/" + id.String()
}
