package acl

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jsamuelsen/lexoffice-gateway/internal/domain"
)

// Page size bounds accepted by Lexoffice list endpoints.
const (
	MinPageSize = 1
	MaxPageSize = 1000
)

// Query accumulates optional query parameters. Absent values are never
// emitted and the first invalid value is reported by Encode.
type Query struct {
	values url.Values
	err    error
}

// NewQuery returns an empty query.
func NewQuery() *Query {
	return &Query{values: url.Values{}}
}

// String adds key=value when value is not blank.
func (q *Query) String(key, value string) *Query {
	if strings.TrimSpace(value) != "" {
		q.values.Set(key, value)
	}

	return q
}

// List adds key as a comma-separated list when values is not empty.
func (q *Query) List(key string, values []string) *Query {
	kept := make([]string, 0, len(values))

	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			kept = append(kept, v)
		}
	}

	if len(kept) > 0 {
		q.values.Set(key, strings.Join(kept, ","))
	}

	return q
}

// Bool adds key=true|false when b is set.
func (q *Query) Bool(key string, b *bool) *Query {
	if b != nil {
		q.values.Set(key, strconv.FormatBool(*b))
	}

	return q
}

// Int adds key=n when n is set.
func (q *Query) Int(key string, n *int) *Query {
	if n != nil {
		q.values.Set(key, strconv.Itoa(*n))
	}

	return q
}

// Date adds key=yyyy-MM-dd when t is set.
func (q *Query) Date(key string, t *time.Time) *Query {
	if t != nil && !t.IsZero() {
		q.values.Set(key, t.Format(domain.DateLayout))
	}

	return q
}

// UUID adds key=id when id is set and not nil.
func (q *Query) UUID(key string, id *uuid.UUID) *Query {
	if id != nil && *id != uuid.Nil {
		q.values.Set(key, id.String())
	}

	return q
}

// Page adds the zero-based page number.
func (q *Query) Page(page *int) *Query {
	if page == nil {
		return q
	}

	if *page < 0 {
		q.fail("page", fmt.Sprintf("page must not be negative, got %d", *page))
		return q
	}

	return q.Int("page", page)
}

// Size adds the page size.
func (q *Query) Size(size *int) *Query {
	if size == nil {
		return q
	}

	if *size < MinPageSize || *size > MaxPageSize {
		q.fail("size", fmt.Sprintf("size must be between %d and %d, got %d", MinPageSize, MaxPageSize, *size))
		return q
	}

	return q.Int("size", size)
}

// Sort adds sort=property,DIRECTION, or the bare property when no direction
// is given. A direction without a property is dropped.
func (q *Query) Sort(property, direction string) *Query {
	property = strings.TrimSpace(property)
	if property == "" {
		return q
	}

	direction = strings.ToUpper(strings.TrimSpace(direction))

	switch direction {
	case "":
		q.values.Set("sort", property)
	case "ASC", "DESC":
		q.values.Set("sort", property+","+direction)
	default:
		q.fail("sort", fmt.Sprintf("sort direction must be ASC or DESC, got %q", direction))
	}

	return q
}

// Paging adds page, size and sort.
func (q *Query) Paging(p domain.Paging) *Query {
	return q.Page(p.Page).Size(p.Size).Sort(p.SortProperty, p.SortDirection)
}

// Encode returns the canonical query string with keys sorted, or an
// InvalidArgument error for the first rejected parameter.
func (q *Query) Encode() (string, error) {
	if q.err != nil {
		return "", q.err
	}

	return q.values.Encode(), nil
}

func (q *Query) fail(field, msg string) {
	if q.err == nil {
		q.err = domain.NewValidationError(field, msg)
	}
}

// ContactsQuery encodes a contact filter.
func ContactsQuery(f domain.ContactFilter) (string, error) {
	return NewQuery().
		String("name", f.Name).
		String("email", f.Email).
		Int("number", f.Number).
		Bool("customer", f.Customer).
		Bool("vendor", f.Vendor).
		Bool("archived", f.Archived).
		Paging(f.Paging).
		Encode()
}

// Voucher list paging defaults.
const (
	defaultVoucherPage = 0
	defaultVoucherSize = 100
)

// VoucherListQuery encodes a voucher list filter. Voucher type, status, page
// and size fall back to their defaults because the endpoint requires them.
func VoucherListQuery(f domain.VoucherFilter) (string, error) {
	types := f.VoucherTypes
	if len(types) == 0 {
		types = domain.DefaultVoucherTypes()
	}

	statuses := f.VoucherStatuses
	if len(statuses) == 0 {
		statuses = domain.DefaultVoucherStatuses()
	}

	paging := f.Paging
	if paging.Page == nil {
		page := defaultVoucherPage
		paging.Page = &page
	}

	if paging.Size == nil {
		size := defaultVoucherSize
		paging.Size = &size
	}

	return NewQuery().
		List("voucherType", types).
		List("voucherStatus", statuses).
		UUID("contactId", f.ContactID).
		Date("voucherDateFrom", f.VoucherDateFrom).
		Date("voucherDateTo", f.VoucherDateTo).
		String("voucherNumber", f.VoucherNumber).
		Bool("archived", f.Archived).
		Paging(paging).
		Encode()
}

// ArticlesQuery encodes an article filter.
func ArticlesQuery(f domain.ArticleFilter) (string, error) {
	q := NewQuery().
		String("articleNumber", f.ArticleNumber).
		String("gtin", f.GTIN)

	switch t := strings.ToUpper(strings.TrimSpace(f.Type)); t {
	case "":
	case domain.ArticleTypeProduct, domain.ArticleTypeService:
		q.String("type", t)
	default:
		q.fail("type", fmt.Sprintf("article type must be %s or %s, got %q",
			domain.ArticleTypeProduct, domain.ArticleTypeService, f.Type))
	}

	return q.Paging(f.Paging).Encode()
}

// FinalizeQuery returns "finalize=true" when finalize is set.
func FinalizeQuery(finalize bool) string {
	if !finalize {
		return ""
	}

	return "finalize=true"
}
