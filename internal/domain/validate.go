package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Struct-level rule tags reported for contacts.
const (
	tagNotBlank         = "notblank"
	tagCompanyOrPerson  = "company_or_person"
	tagCompanyNotPerson = "company_not_person"
	tagRoleRequired     = "role_required"
)

// validate is the package-level validator instance.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their wire names so errors match the JSON the caller sent.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	if err := v.RegisterValidation(tagNotBlank, notBlank); err != nil {
		panic(fmt.Sprintf("registering %s validation: %v", tagNotBlank, err))
	}

	v.RegisterStructValidation(contactRules, Contact{})

	return v
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// contactRules enforces the cross-field rules of a contact: exactly one of
// company and person, and at least one role.
func contactRules(sl validator.StructLevel) {
	c, ok := sl.Current().Interface().(Contact)
	if !ok {
		return
	}

	switch {
	case c.Company == nil && c.Person == nil:
		sl.ReportError(c.Company, "company", "Company", tagCompanyOrPerson, "")
	case c.Company != nil && c.Person != nil:
		sl.ReportError(c.Person, "person", "Person", tagCompanyNotPerson, "")
	}

	if c.Roles.Customer == nil && c.Roles.Vendor == nil {
		sl.ReportError(c.Roles, "roles", "Roles", tagRoleRequired, "")
	}
}

// ValidateContactCreate checks a contact before POST /contacts.
func ValidateContactCreate(c *Contact) error {
	if c == nil {
		return NewValidationError("contact", "contact is required")
	}

	if c.Version != 0 {
		return NewValidationError("version", "version must be 0 for creation")
	}

	return validateStruct(c)
}

// ValidateContactUpdate checks a contact before PUT /contacts/{id}.
// The version is not checked locally; a stale version is resolved by refetching.
func ValidateContactUpdate(c *Contact) error {
	if c == nil {
		return NewValidationError("contact", "contact is required")
	}

	return validateStruct(c)
}

// ValidateInvoiceCreate checks an invoice before POST /invoices.
func ValidateInvoiceCreate(inv *Invoice) error {
	if inv == nil {
		return NewValidationError("invoice", "invoice is required")
	}

	return versionForCreate(inv.Version)
}

// ValidateInvoiceUpdate checks an invoice before it is written back.
func ValidateInvoiceUpdate(inv *Invoice) error {
	if inv == nil {
		return NewValidationError("invoice", "invoice is required")
	}

	return versionForUpdate(inv.Version)
}

// ValidateQuotationCreate checks a quotation before POST /quotations.
func ValidateQuotationCreate(q *Quotation) error {
	if q == nil {
		return NewValidationError("quotation", "quotation is required")
	}

	return versionForCreate(q.Version)
}

// ValidateQuotationUpdate checks a quotation before PUT /quotations/{id}.
func ValidateQuotationUpdate(q *Quotation) error {
	if q == nil {
		return NewValidationError("quotation", "quotation is required")
	}

	return versionForUpdate(q.Version)
}

// ValidateArticleCreate checks an article before POST /articles.
func ValidateArticleCreate(a *Article) error {
	if a == nil {
		return NewValidationError("article", "article is required")
	}

	if err := versionForCreate(a.Version); err != nil {
		return err
	}

	return validateStruct(a)
}

// ValidatePayment checks an invoice payment before it is recorded.
func ValidatePayment(p Payment) error {
	if !p.Amount.IsPositive() {
		return NewValidationError("paymentAmount", "payment amount must be greater than 0")
	}

	if p.Date.IsZero() {
		return NewValidationError("paymentDate", "payment date is required")
	}

	return nil
}

func versionForCreate(version int) error {
	if version != 0 {
		return NewValidationError("version", "version must be 0 for creation")
	}

	return nil
}

// versionForUpdate only rejects versions that were never read from the server.
// A stale but positive version passes and is caught remotely as a conflict.
func versionForUpdate(version int) error {
	if version <= 0 {
		return NewValidationError("version", "version must be greater than 0 for update")
	}

	return nil
}

func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &Error{Kind: KindInvalidArgument, Detail: err.Error(), Err: err}
	}

	first := fieldErrs[0]

	return &Error{
		Kind:   KindInvalidArgument,
		Field:  fieldPath(first.Namespace()),
		Detail: ruleText(first),
		Err:    fieldErrs,
	}
}

// fieldPath converts "Contact.addresses.billing[0].countryCode" to
// "addresses.billing[0].countryCode".
func fieldPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}

	return namespace
}

func ruleText(e validator.FieldError) string {
	switch e.Tag() {
	case tagNotBlank:
		return "must not be blank"
	case tagCompanyOrPerson:
		return "either company or person details must be provided"
	case tagCompanyNotPerson:
		return "provide either company or person details, not both"
	case tagRoleRequired:
		return "at least one role (customer or vendor) must be specified"
	case "max":
		return fmt.Sprintf("must contain at most %s entry", e.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", e.Param())
	default:
		return "failed validation: " + e.Tag()
	}
}
