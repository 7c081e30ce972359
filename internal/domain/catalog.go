package domain

import (
	"github.com/google/uuid"
)

// Article types.
const (
	ArticleTypeProduct = "PRODUCT"
	ArticleTypeService = "SERVICE"
)

// Article is a product or service in the article catalog.
type Article struct {
	ID            *uuid.UUID   `json:"id,omitempty"`
	Title         string       `json:"title"                   validate:"notblank"`
	Description   string       `json:"description,omitempty"`
	Type          string       `json:"type"                    validate:"oneof=PRODUCT SERVICE"`
	ArticleNumber string       `json:"articleNumber,omitempty"`
	GTIN          string       `json:"gtin,omitempty"`
	Note          string       `json:"note,omitempty"`
	UnitName      string       `json:"unitName"                validate:"notblank"`
	Price         ArticlePrice `json:"price"`
	Version       int          `json:"version"`
}

// ArticlePrice holds net and gross price; LeadingPrice says which one is authoritative.
type ArticlePrice struct {
	NetPrice     Amount `json:"netPrice,omitzero"`
	GrossPrice   Amount `json:"grossPrice,omitzero"`
	LeadingPrice string `json:"leadingPrice"        validate:"oneof=NET GROSS"`
	TaxRate      Amount `json:"taxRate"`
}

// PaymentCondition is a payment-term template configured in the account.
type PaymentCondition struct {
	ID                           *uuid.UUID `json:"id,omitempty"`
	PaymentTermLabel             string     `json:"paymentTermLabel"`
	PaymentTermLabelTemplate     string     `json:"paymentTermLabelTemplate,omitempty"`
	PaymentTermDuration          int        `json:"paymentTermDuration"`
	PaymentDiscountLabel         string     `json:"paymentDiscountLabel,omitempty"`
	PaymentDiscountLabelTemplate string     `json:"paymentDiscountLabelTemplate,omitempty"`
	PaymentDiscountDuration      int        `json:"paymentDiscountDuration,omitempty"`
	PaymentDiscountPercentage    Amount     `json:"paymentDiscountPercentage,omitzero"`
	OrganizationDefault          bool       `json:"organizationDefault,omitempty"`
}

// PrintLayout is a document layout usable when rendering vouchers.
type PrintLayout struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Default bool      `json:"default"`
}

// ReferenceData bundles the account-level lookups needed to draft a voucher.
type ReferenceData struct {
	PaymentConditions []PaymentCondition
	PrintLayouts      []PrintLayout
}

// DefaultPrintLayout returns the layout flagged as default, if any.
func (r *ReferenceData) DefaultPrintLayout() (PrintLayout, bool) {
	for _, l := range r.PrintLayouts {
		if l.Default {
			return l, true
		}
	}

	return PrintLayout{}, false
}
