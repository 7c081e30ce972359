package acl

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/jsamuelsen/lexoffice-gateway/internal/adapters/clients"
	"github.com/jsamuelsen/lexoffice-gateway/internal/domain"
)

// DecodeResponse decodes a JSON response body into T. A body that does not
// decode is an Unexpected error carrying the response status.
func DecodeResponse[T any](resp *clients.Response) (*T, error) {
	if resp == nil {
		return nil, &domain.Error{Kind: domain.KindUnexpected, Detail: "no response"}
	}

	var result T
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return nil, decodeError(resp, err)
	}

	return &result, nil
}

// DecodeList decodes a list endpoint that answers either with a bare JSON
// array or with a page object carrying the array in "content".
func DecodeList[T any](resp *clients.Response) ([]T, error) {
	if resp == nil {
		return nil, &domain.Error{Kind: domain.KindUnexpected, Detail: "no response"}
	}

	raw := resp.Body
	if doc := gjson.ParseBytes(raw); doc.IsObject() {
		content := doc.Get("content")
		if !content.Exists() {
			return nil, decodeError(resp, fmt.Errorf("object response has no content array"))
		}

		raw = []byte(content.Raw)
	}

	items := []T{}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, decodeError(resp, err)
	}

	return items, nil
}

func decodeError(resp *clients.Response, err error) *domain.Error {
	return &domain.Error{
		Kind:       domain.KindUnexpected,
		HTTPStatus: resp.StatusCode,
		Detail:     "decoding response",
		Err:        err,
	}
}
