package acl

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jsamuelsen/lexoffice-gateway/internal/adapters/clients"
	"github.com/jsamuelsen/lexoffice-gateway/internal/domain"
	"github.com/jsamuelsen/lexoffice-gateway/internal/platform/logging"
	"github.com/jsamuelsen/lexoffice-gateway/internal/ports"
)

// LexofficeConfig contains configuration for the Lexoffice adapter.
type LexofficeConfig struct {
	// Coordinator executes every request.
	Coordinator *Coordinator

	// Name is the health check name. Defaults to "lexoffice".
	Name string

	// Logger is the structured logger.
	Logger *slog.Logger
}

// Lexoffice implements ports.LexofficeClient on top of the Lexoffice public
// REST API. It builds wire requests, runs them through the Coordinator and
// decodes the results; payload validation happens before it is called.
type Lexoffice struct {
	coord  *Coordinator
	name   string
	logger *slog.Logger
}

var _ ports.LexofficeClient = (*Lexoffice)(nil)

// NewLexoffice creates a new Lexoffice adapter.
// Panics if Coordinator is nil. Defaults logger to slog.Default() if nil.
func NewLexoffice(cfg LexofficeConfig) *Lexoffice {
	if cfg.Coordinator == nil {
		panic("Lexoffice: Coordinator is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	name := cfg.Name
	if name == "" {
		name = "lexoffice"
	}

	return &Lexoffice{
		coord:  cfg.Coordinator,
		name:   name,
		logger: logger,
	}
}

// Name returns the health check name for this client.
// Implements ports.HealthChecker.
func (l *Lexoffice) Name() string {
	return l.name
}

// Check verifies the API key by reading the organization profile.
// Implements ports.HealthChecker.
func (l *Lexoffice) Check(ctx context.Context) error {
	_, err := l.GetProfile(ctx)
	return err
}

// GetProfile reads the profile of the organization owning the API key.
func (l *Lexoffice) GetProfile(ctx context.Context) (*domain.Profile, error) {
	resp, err := l.coord.Execute(ctx, clients.Request{Method: http.MethodGet, Path: "/profile"})
	if err != nil {
		return nil, err
	}

	return DecodeResponse[domain.Profile](resp)
}

// getOne reads a single resource. A 404 is reported as found == false.
func getOne[T any](ctx context.Context, l *Lexoffice, path string) (*T, bool, error) {
	l.logger.Log(ctx, logging.LevelTrace, "reading resource", slog.String("path", path))

	resp, err := l.coord.Execute(ctx, clients.Request{Method: http.MethodGet, Path: path})
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, false, nil
		}

		return nil, false, err
	}

	result, err := DecodeResponse[T](resp)
	if err != nil {
		return nil, false, err
	}

	return result, true, nil
}

// getPage reads one page of a paginated list.
func getPage[T any](ctx context.Context, l *Lexoffice, path, query string) (*domain.Page[T], error) {
	resp, err := l.coord.Execute(ctx, clients.Request{Method: http.MethodGet, Path: path, Query: query})
	if err != nil {
		return nil, err
	}

	page, err := DecodeResponse[domain.Page[T]](resp)
	if err != nil {
		return nil, err
	}

	if page.Content == nil {
		page.Content = []T{}
	}

	if !page.Consistent() {
		l.logger.WarnContext(ctx, "inconsistent page metadata",
			slog.String("path", path),
			slog.Int("number", page.Number),
			slog.Int("number_of_elements", page.NumberOfElements),
			slog.Int("content_length", len(page.Content)),
			slog.Int("total_pages", page.TotalPages),
		)
	}

	return page, nil
}

// getList reads an unpaginated list.
func getList[T any](ctx context.Context, l *Lexoffice, path string) ([]T, error) {
	resp, err := l.coord.Execute(ctx, clients.Request{Method: http.MethodGet, Path: path})
	if err != nil {
		return nil, err
	}

	return DecodeList[T](resp)
}

// create POSTs payload as JSON and decodes the acknowledgment.
func (l *Lexoffice) create(ctx context.Context, path, query string, payload any) (*domain.Acknowledgment, error) {
	body, err := encodeJSON(payload)
	if err != nil {
		return nil, err
	}

	resp, err := l.coord.Execute(ctx, postJSON(path, query, body))
	if err != nil {
		return nil, err
	}

	return DecodeResponse[domain.Acknowledgment](resp)
}

// update PUTs payload as JSON. On a version conflict the coordinator reads
// path again and resubmits with the current version.
func (l *Lexoffice) update(ctx context.Context, path, query, resourceID string, payload any) (*domain.Acknowledgment, error) {
	body, err := encodeJSON(payload)
	if err != nil {
		return nil, err
	}

	resp, err := l.coord.ExecuteVersioned(ctx,
		clients.Request{Method: http.MethodPut, Path: path, Query: query, Body: body},
		VersionedWrite{
			ResourceID: resourceID,
			Read:       clients.Request{Method: http.MethodGet, Path: path},
		},
	)
	if err != nil {
		return nil, err
	}

	return DecodeResponse[domain.Acknowledgment](resp)
}

func postJSON(path, query string, body []byte) clients.Request {
	return clients.Request{Method: http.MethodPost, Path: path, Query: query, Body: body}
}

func encodeJSON(payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &domain.Error{
			Kind:   domain.KindInvalidArgument,
			Detail: "encoding payload",
			Err:    fmt.Errorf("marshalling %T: %w", payload, err),
		}
	}

	return body, nil
}
