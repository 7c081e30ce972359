package domain

import "github.com/google/uuid"

// Contact is a customer and/or vendor in Lexoffice.
// Exactly one of Company or Person is set.
type Contact struct {
	ID             *uuid.UUID      `json:"id,omitempty"`
	OrganizationID *uuid.UUID      `json:"organizationId,omitempty"`
	Version        int             `json:"version"`
	Roles          ContactRoles    `json:"roles"`
	Company        *Company        `json:"company,omitempty"`
	Person         *Person         `json:"person,omitempty"`
	Addresses      *Addresses      `json:"addresses,omitempty"`
	XRechnung      *XRechnung      `json:"xRechnung,omitempty"`
	EmailAddresses *EmailAddresses `json:"emailAddresses,omitempty"`
	PhoneNumbers   *PhoneNumbers   `json:"phoneNumbers,omitempty"`
	Note           string          `json:"note,omitempty"`
	Archived       bool            `json:"archived,omitempty"`
}

// ContactRoles marks a contact as customer, vendor or both.
// An empty role object is how Lexoffice enables the role.
type ContactRoles struct {
	Customer *ContactRole `json:"customer,omitempty"`
	Vendor   *ContactRole `json:"vendor,omitempty"`
}

// ContactRole holds the number Lexoffice assigns to a role. It is read-only.
type ContactRole struct {
	Number int `json:"number,omitempty"`
}

// Company describes a business contact.
type Company struct {
	Name                 string          `json:"name"                           validate:"notblank"`
	TaxNumber            string          `json:"taxNumber,omitempty"`
	VATRegistrationID    string          `json:"vatRegistrationId,omitempty"`
	AllowTaxFreeInvoices bool            `json:"allowTaxFreeInvoices,omitempty"`
	ContactPersons       []ContactPerson `json:"contactPersons,omitempty"       validate:"max=1,dive"`
}

// ContactPerson is the person to address at a company.
type ContactPerson struct {
	Salutation   string `json:"salutation,omitempty"`
	FirstName    string `json:"firstName,omitempty"`
	LastName     string `json:"lastName"               validate:"notblank"`
	Primary      bool   `json:"primary,omitempty"`
	EmailAddress string `json:"emailAddress,omitempty"`
	PhoneNumber  string `json:"phoneNumber,omitempty"`
}

// Person describes a private contact.
type Person struct {
	Salutation string `json:"salutation,omitempty"`
	FirstName  string `json:"firstName,omitempty"`
	LastName   string `json:"lastName"             validate:"notblank"`
}

// Addresses holds at most one billing and one shipping address.
type Addresses struct {
	Billing  []Address `json:"billing,omitempty"  validate:"max=1,dive"`
	Shipping []Address `json:"shipping,omitempty" validate:"max=1,dive"`
}

// Address is a postal address. CountryCode is ISO 3166 alpha-2.
type Address struct {
	Supplement  string `json:"supplement,omitempty"`
	Street      string `json:"street,omitempty"`
	Zip         string `json:"zip,omitempty"`
	City        string `json:"city,omitempty"`
	CountryCode string `json:"countryCode"          validate:"notblank"`
}

// XRechnung carries the e-invoicing identifiers of a contact.
type XRechnung struct {
	BuyerReference         string `json:"buyerReference,omitempty"`
	VendorNumberAtCustomer string `json:"vendorNumberAtCustomer,omitempty"`
}

// EmailAddresses groups addresses by category, at most one each.
type EmailAddresses struct {
	Business []string `json:"business,omitempty" validate:"max=1"`
	Office   []string `json:"office,omitempty"   validate:"max=1"`
	Private  []string `json:"private,omitempty"  validate:"max=1"`
	Other    []string `json:"other,omitempty"    validate:"max=1"`
}

// PhoneNumbers groups numbers by category, at most one each.
type PhoneNumbers struct {
	Business []string `json:"business,omitempty" validate:"max=1"`
	Office   []string `json:"office,omitempty"   validate:"max=1"`
	Mobile   []string `json:"mobile,omitempty"   validate:"max=1"`
	Private  []string `json:"private,omitempty"  validate:"max=1"`
	Fax      []string `json:"fax,omitempty"      validate:"max=1"`
	Other    []string `json:"other,omitempty"    validate:"max=1"`
}

// DisplayName returns the company name or the person's full name.
func (c *Contact) DisplayName() string {
	switch {
	case c.Company != nil:
		return c.Company.Name
	case c.Person != nil && c.Person.FirstName != "":
		return c.Person.FirstName + " " + c.Person.LastName
	case c.Person != nil:
		return c.Person.LastName
	default:
		return ""
	}
}
