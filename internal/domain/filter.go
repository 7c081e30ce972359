package domain

import (
	"time"

	"github.com/google/uuid"
)

// Paging selects one page of a list. Nil fields are left to the server default.
type Paging struct {
	// Page is zero-based.
	Page *int

	// Size must be within [1, 1000].
	Size *int

	// SortProperty and SortDirection are sent as "property,DIRECTION".
	// A direction without a property is ignored.
	SortProperty  string
	SortDirection string
}

// ContactFilter narrows GET /contacts. Empty strings and nil pointers are omitted.
type ContactFilter struct {
	Name     string
	Email    string
	Number   *int
	Customer *bool
	Vendor   *bool
	Archived *bool
	Paging
}

// VoucherFilter narrows GET /voucherlist.
type VoucherFilter struct {
	// VoucherTypes defaults to invoice, salesinvoice and purchaseinvoice.
	VoucherTypes []string

	// VoucherStatuses defaults to open, paid, paidoff and voided.
	VoucherStatuses []string

	ContactID       *uuid.UUID
	VoucherDateFrom *time.Time
	VoucherDateTo   *time.Time
	VoucherNumber   string
	Archived        *bool
	Paging
}

// ArticleFilter narrows GET /articles.
type ArticleFilter struct {
	ArticleNumber string
	GTIN          string

	// Type is ArticleTypeProduct or ArticleTypeService.
	Type string
	Paging
}

// DefaultVoucherTypes is the voucher type filter applied when none is given.
func DefaultVoucherTypes() []string {
	return []string{VoucherTypeInvoice, VoucherTypeSalesInvoice, VoucherTypePurchaseInvoice}
}

// DefaultVoucherStatuses is the voucher status filter applied when none is given.
func DefaultVoucherStatuses() []string {
	return []string{VoucherStatusOpen, VoucherStatusPaid, VoucherStatusPaidOff, VoucherStatusVoided}
}
