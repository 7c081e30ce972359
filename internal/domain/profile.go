package domain

import "github.com/google/uuid"

// Profile describes the organization that owns the API key.
type Profile struct {
	OrganizationID   uuid.UUID `json:"organizationId"`
	OrganizationName string    `json:"organizationName"`
	CountryCode      string    `json:"countryCode"`
	LanguageCode     string    `json:"languageCode"`
	CurrencyCode     string    `json:"currencyCode"`
	VatID            string    `json:"vatId,omitempty"`
	TaxNumber        string    `json:"taxNumber,omitempty"`
	TaxOffice        string    `json:"taxOffice,omitempty"`
	Street           string    `json:"street,omitempty"`
	Zip              string    `json:"zip,omitempty"`
	City             string    `json:"city,omitempty"`
	Phone            string    `json:"phone,omitempty"`
	Email            string    `json:"email,omitempty"`
	Website          string    `json:"website,omitempty"`
}
