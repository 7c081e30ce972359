package domain

import (
	"time"

	"github.com/google/uuid"
)

// Voucher types accepted by the voucher list.
const (
	VoucherTypeInvoice         = "invoice"
	VoucherTypeSalesInvoice    = "salesinvoice"
	VoucherTypePurchaseInvoice = "purchaseinvoice"
	VoucherTypeQuotation       = "quotation"
)

// Voucher statuses accepted by the voucher list.
const (
	VoucherStatusDraft    = "draft"
	VoucherStatusOpen     = "open"
	VoucherStatusPaid     = "paid"
	VoucherStatusPaidOff  = "paidoff"
	VoucherStatusVoided   = "voided"
	VoucherStatusAccepted = "accepted"
	VoucherStatusRejected = "rejected"
)

// Invoice is a sales invoice.
type Invoice struct {
	ID                 *uuid.UUID          `json:"id,omitempty"`
	OrganizationID     *uuid.UUID          `json:"organizationId,omitempty"`
	CreatedDate        time.Time           `json:"createdDate,omitzero"`
	UpdatedDate        time.Time           `json:"updatedDate,omitzero"`
	Version            int                 `json:"version"`
	Language           string              `json:"language,omitempty"`
	Archived           bool                `json:"archived,omitempty"`
	VoucherStatus      string              `json:"voucherStatus,omitempty"`
	VoucherNumber      string              `json:"voucherNumber,omitempty"`
	VoucherDate        time.Time           `json:"voucherDate,omitzero"`
	DueDate            *time.Time          `json:"dueDate,omitempty"`
	Address            VoucherAddress      `json:"address"`
	LineItems          []LineItem          `json:"lineItems"`
	TotalPrice         TotalPrice          `json:"totalPrice"`
	TaxAmounts         []TaxAmount         `json:"taxAmounts,omitempty"`
	TaxConditions      TaxConditions       `json:"taxConditions"`
	PaymentConditions  *PaymentConditions  `json:"paymentConditions,omitempty"`
	ShippingConditions *ShippingConditions `json:"shippingConditions,omitempty"`
	Title              string              `json:"title,omitempty"`
	Introduction       string              `json:"introduction,omitempty"`
	Remark             string              `json:"remark,omitempty"`
	Files              *VoucherFiles       `json:"files,omitempty"`
}

// Quotation is an offer sent to a customer. It expires at ExpirationDate.
type Quotation struct {
	ID                 *uuid.UUID          `json:"id,omitempty"`
	OrganizationID     *uuid.UUID          `json:"organizationId,omitempty"`
	CreatedDate        time.Time           `json:"createdDate,omitzero"`
	UpdatedDate        time.Time           `json:"updatedDate,omitzero"`
	Version            int                 `json:"version"`
	Language           string              `json:"language,omitempty"`
	Archived           bool                `json:"archived,omitempty"`
	VoucherStatus      string              `json:"voucherStatus,omitempty"`
	VoucherNumber      string              `json:"voucherNumber,omitempty"`
	VoucherDate        time.Time           `json:"voucherDate,omitzero"`
	ExpirationDate     *time.Time          `json:"expirationDate,omitempty"`
	Address            VoucherAddress      `json:"address"`
	LineItems          []LineItem          `json:"lineItems"`
	TotalPrice         TotalPrice          `json:"totalPrice"`
	TaxAmounts         []TaxAmount         `json:"taxAmounts,omitempty"`
	TaxConditions      TaxConditions       `json:"taxConditions"`
	PaymentConditions  *PaymentConditions  `json:"paymentConditions,omitempty"`
	ShippingConditions *ShippingConditions `json:"shippingConditions,omitempty"`
	Title              string              `json:"title,omitempty"`
	Introduction       string              `json:"introduction,omitempty"`
	Remark             string              `json:"remark,omitempty"`
	Files              *VoucherFiles       `json:"files,omitempty"`
}

// VoucherAddress is either a reference to an existing contact or a one-off address.
type VoucherAddress struct {
	ContactID   *uuid.UUID `json:"contactId,omitempty"`
	Name        string     `json:"name,omitempty"`
	Supplement  string     `json:"supplement,omitempty"`
	Street      string     `json:"street,omitempty"`
	City        string     `json:"city,omitempty"`
	Zip         string     `json:"zip,omitempty"`
	CountryCode string     `json:"countryCode,omitempty"`
}

// LineItem is one position of a voucher.
type LineItem struct {
	ID                 *uuid.UUID `json:"id,omitempty"`
	Type               string     `json:"type"`
	Name               string     `json:"name"`
	Description        string     `json:"description,omitempty"`
	Quantity           Amount     `json:"quantity,omitzero"`
	UnitName           string     `json:"unitName,omitempty"`
	UnitPrice          *UnitPrice `json:"unitPrice,omitempty"`
	DiscountPercentage Amount     `json:"discountPercentage,omitzero"`
	LineItemAmount     Amount     `json:"lineItemAmount,omitzero"`
}

// UnitPrice is the price of one unit of a line item.
type UnitPrice struct {
	Currency          string `json:"currency"`
	NetAmount         Amount `json:"netAmount,omitzero"`
	GrossAmount       Amount `json:"grossAmount,omitzero"`
	TaxRatePercentage Amount `json:"taxRatePercentage"`
}

// TotalPrice is computed by Lexoffice; only Currency is read on writes.
type TotalPrice struct {
	Currency                string `json:"currency"`
	TotalNetAmount          Amount `json:"totalNetAmount,omitzero"`
	TotalGrossAmount        Amount `json:"totalGrossAmount,omitzero"`
	TotalTaxAmount          Amount `json:"totalTaxAmount,omitzero"`
	TotalDiscountAbsolute   Amount `json:"totalDiscountAbsolute,omitzero"`
	TotalDiscountPercentage Amount `json:"totalDiscountPercentage,omitzero"`
}

// TaxAmount is the tax due for one rate.
type TaxAmount struct {
	TaxRatePercentage Amount `json:"taxRatePercentage"`
	TaxAmount         Amount `json:"taxAmount"`
	NetAmount         Amount `json:"netAmount"`
}

// TaxConditions selects the tax regime, e.g. "net", "gross", "vatfree".
type TaxConditions struct {
	TaxType     string `json:"taxType"`
	TaxTypeNote string `json:"taxTypeNote,omitempty"`
}

// PaymentConditions describes payment terms and an optional early-payment discount.
type PaymentConditions struct {
	PaymentTermLabel          string                     `json:"paymentTermLabel,omitempty"`
	PaymentTermLabelTemplate  string                     `json:"paymentTermLabelTemplate,omitempty"`
	PaymentTermDuration       int                        `json:"paymentTermDuration,omitempty"`
	PaymentDiscountConditions *PaymentDiscountConditions `json:"paymentDiscountConditions,omitempty"`
}

// PaymentDiscountConditions is a discount granted when paying within DiscountRange days.
type PaymentDiscountConditions struct {
	DiscountPercentage Amount `json:"discountPercentage"`
	DiscountRange      int    `json:"discountRange"`
}

// ShippingConditions describes delivery or service dates.
type ShippingConditions struct {
	ShippingDate    *time.Time `json:"shippingDate,omitempty"`
	ShippingEndDate *time.Time `json:"shippingEndDate,omitempty"`
	ShippingType    string     `json:"shippingType"`
}

// VoucherFiles references the rendered document of a finalized voucher.
type VoucherFiles struct {
	DocumentFileID *uuid.UUID `json:"documentFileId,omitempty"`
}

// VoucherSummary is one row of the voucher list.
type VoucherSummary struct {
	ID            uuid.UUID  `json:"id"`
	VoucherType   string     `json:"voucherType"`
	VoucherStatus string     `json:"voucherStatus"`
	VoucherNumber string     `json:"voucherNumber"`
	VoucherDate   time.Time  `json:"voucherDate,omitzero"`
	CreatedDate   time.Time  `json:"createdDate,omitzero"`
	UpdatedDate   time.Time  `json:"updatedDate,omitzero"`
	DueDate       *time.Time `json:"dueDate,omitempty"`
	ContactID     *uuid.UUID `json:"contactId,omitempty"`
	ContactName   string     `json:"contactName"`
	TotalAmount   Amount     `json:"totalAmount"`
	OpenAmount    Amount     `json:"openAmount"`
	Currency      string     `json:"currency"`
	Archived      bool       `json:"archived"`
}

// Payment records money received against an invoice.
type Payment struct {
	Amount Amount `json:"paymentAmount"`
	Date   Date   `json:"paymentDate"`
	Method string `json:"paymentMethod,omitempty"`
}

// PaymentStatus is the payment state of a voucher.
type PaymentStatus struct {
	OpenAmount    Amount        `json:"openAmount"`
	Currency      string        `json:"currency"`
	PaymentStatus string        `json:"paymentStatus"`
	VoucherType   string        `json:"voucherType"`
	VoucherStatus string        `json:"voucherStatus"`
	PaidDate      *time.Time    `json:"paidDate,omitempty"`
	PaymentItems  []PaymentItem `json:"paymentItems,omitempty"`
}

// PaymentItem is a single booking that contributed to a voucher's payment state.
type PaymentItem struct {
	PaymentItemType string    `json:"paymentItemType"`
	PostingDate     time.Time `json:"postingDate,omitzero"`
	Amount          Amount    `json:"amount"`
	Currency        string    `json:"currency"`
}
