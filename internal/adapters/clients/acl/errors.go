package acl

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/jsamuelsen/lexoffice-gateway/internal/adapters/clients"
	"github.com/jsamuelsen/lexoffice-gateway/internal/domain"
)

// KindForStatus maps a Lexoffice HTTP status to an error kind.
// It is only meaningful for non-2xx statuses.
func KindForStatus(status int) domain.Kind {
	switch status {
	case http.StatusBadRequest:
		return domain.KindInvalidRequest
	case http.StatusUnauthorized:
		return domain.KindUnauthenticated
	case http.StatusPaymentRequired:
		return domain.KindAccountRestricted
	case http.StatusForbidden:
		return domain.KindForbidden
	case http.StatusNotFound:
		return domain.KindNotFound
	case http.StatusMethodNotAllowed:
		return domain.KindMethodNotAllowed
	case http.StatusNotAcceptable:
		return domain.KindNotAcceptable
	case http.StatusConflict:
		return domain.KindConflict
	case http.StatusUnsupportedMediaType:
		return domain.KindUnsupportedMediaType
	case http.StatusTooManyRequests:
		return domain.KindRateLimited
	}

	if status >= http.StatusInternalServerError {
		return domain.KindTransient
	}

	return domain.KindUnexpected
}

// MapStatusError builds the error for a non-2xx response. Status and detail
// are kept verbatim.
func MapStatusError(status int, body []byte) *domain.Error {
	detail, field := ParseErrorBody(body)

	return &domain.Error{
		Kind:       KindForStatus(status),
		HTTPStatus: status,
		Detail:     detail,
		Field:      field,
	}
}

// ParseErrorBody extracts the detail message and offending field from a
// Lexoffice error body. Two shapes are in use:
//
//	{"status":406,"error":"Not Acceptable","message":"...","details":[{"field":"...","message":"..."}]}
//	{"requestId":"...","IssueList":[{"i18nKey":"missing_entity","source":"company.name","type":"validation_failure"}]}
//
// Bodies that are not JSON are returned whole as the detail, with only the
// surrounding whitespace trimmed.
func ParseErrorBody(body []byte) (detail, field string) {
	if len(body) == 0 {
		return "", ""
	}

	if !gjson.ValidBytes(body) {
		return strings.TrimSpace(string(body)), ""
	}

	doc := gjson.ParseBytes(body)

	if issues := doc.Get("IssueList"); issues.IsArray() && len(issues.Array()) > 0 {
		parts := make([]string, 0, len(issues.Array()))

		for _, issue := range issues.Array() {
			text := issue.Get("i18nKey").String()
			if src := issue.Get("source").String(); src != "" {
				text = src + ": " + text
			}

			parts = append(parts, text)
		}

		return strings.Join(parts, "; "), issues.Get("0.source").String()
	}

	detail = doc.Get("message").String()
	if detail == "" {
		detail = doc.Get("error").String()
	}

	if details := doc.Get("details"); details.IsArray() {
		field = details.Get("0.field").String()
		if msg := details.Get("0.message").String(); msg != "" && detail == "" {
			detail = msg
		}
	}

	if detail == "" {
		detail = strings.TrimSpace(string(body))
	}

	return detail, field
}

// mapTransportError converts a failure to obtain a response.
func mapTransportError(err error) *domain.Error {
	if isCancellation(err) {
		return &domain.Error{Kind: domain.KindCancelled, Err: err}
	}

	if errors.Is(err, clients.ErrResponseTooLarge) {
		return &domain.Error{Kind: domain.KindUnexpected, Detail: "response body too large", Err: err}
	}

	return &domain.Error{Kind: domain.KindTransient, Err: err}
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
