package itm

import (
	"context"
	"net/http"
	"net/url"

	"github.com/drizzo-tech/proofpoint-itm/internal/api"
)

// DictionaryService provides operations on user-defined DLP
// dictionaries.
//
//go:generate mockery --name=DictionaryService --output=mocks --outpkg=mocks --filename=dictionary_service.go
type DictionaryService interface {
	// List returns all user-defined dictionaries.
	List(ctx context.Context, opts ...RequestOption) ([]Record, error)

	// Get retrieves a single dictionary by ID.
	Get(ctx context.Context, id string, opts ...RequestOption) (Record, error)

	// Terms returns the entries of a dictionary.
	Terms(ctx context.Context, id string, opts ...RequestOption) ([]Record, error)

	// Create creates a new dictionary.
	Create(ctx context.Context, dictionary *Dictionary, opts ...RequestOption) (Record, error)

	// Update modifies an existing dictionary.
	Update(ctx context.Context, id string, dictionary *Dictionary, opts ...RequestOption) (Record, error)

	// Delete removes a dictionary by ID.
	Delete(ctx context.Context, id string, opts ...RequestOption) error
}

// dictionaryService implements DictionaryService.
type dictionaryService struct {
	transport *api.Transport
}

func newDictionaryService(transport *api.Transport) *dictionaryService {
	return &dictionaryService{transport: transport}
}

// List returns all user-defined dictionaries.
func (s *dictionaryService) List(ctx context.Context, opts ...RequestOption) ([]Record, error) {
	cfg := newRequestConfig()
	cfg.apply(opts...)

	page, err := doPage(ctx, s.transport, &api.Request{
		Method:  http.MethodGet,
		Path:    "/ruler/configurations/dlp/dictionaries",
		Query:   mergeParams(url.Values{"includes": {"*"}}, cfg.params),
		Headers: cfg.headers,
	})
	if err != nil {
		return nil, err
	}
	return page.Data, nil
}

// Get retrieves a single dictionary by ID.
func (s *dictionaryService) Get(ctx context.Context, id string, opts ...RequestOption) (Record, error) {
	if err := validateID("dictionary", id); err != nil {
		return nil, err
	}

	cfg := newRequestConfig()
	cfg.apply(opts...)

	return doRecord(ctx, s.transport, &api.Request{
		Method:  http.MethodGet,
		Path:    "/ruler/configurations/dlp/dictionaries/" + url.PathEscape(id),
		Query:   mergeParams(url.Values{"includes": {"*"}}, cfg.params),
		Headers: cfg.headers,
	}, "dictionary", id)
}

// Terms returns the entries of a dictionary.
func (s *dictionaryService) Terms(ctx context.Context, id string, opts ...RequestOption) ([]Record, error) {
	if err := validateID("dictionary", id); err != nil {
		return nil, err
	}

	cfg := newRequestConfig()
	cfg.apply(opts...)

	page, err := doPage(ctx, s.transport, &api.Request{
		Method:  http.MethodGet,
		Path:    "/ruler/configurations/dlp/dictionaries/" + url.PathEscape(id) + "/entries",
		Query:   mergeParams(url.Values{"includes": {"*"}}, cfg.params),
		Headers: cfg.headers,
	})
	if err != nil {
		return nil, err
	}
	return page.Data, nil
}

// Create creates a new dictionary.
func (s *dictionaryService) Create(ctx context.Context, dictionary *Dictionary, opts ...RequestOption) (Record, error) {
	cfg := newRequestConfig()
	cfg.apply(opts...)

	req := &api.Request{
		Method:  http.MethodPost,
		Path:    "/ruler/configurations/dlp/dictionaries",
		Query:   cfg.params,
		Body:    dictionary,
		Headers: cfg.headers,
	}
	if cfg.dryRun {
		return dryRunResult(s.transport, req), nil
	}
	return doRecord(ctx, s.transport, req, "", "")
}

// Update modifies an existing dictionary.
func (s *dictionaryService) Update(ctx context.Context, id string, dictionary *Dictionary, opts ...RequestOption) (Record, error) {
	if err := validateID("dictionary", id); err != nil {
		return nil, err
	}

	cfg := newRequestConfig()
	cfg.apply(opts...)

	req := &api.Request{
		Method:  http.MethodPatch,
		Path:    "/ruler/configurations/dlp/dictionaries/" + url.PathEscape(id),
		Query:   cfg.params,
		Body:    dictionary,
		Headers: cfg.headers,
	}
	if cfg.dryRun {
		return dryRunResult(s.transport, req), nil
	}
	return doRecord(ctx, s.transport, req, "dictionary", id)
}

// Delete removes a dictionary by ID.
func (s *dictionaryService) Delete(ctx context.Context, id string, opts ...RequestOption) error {
	if err := validateID("dictionary", id); err != nil {
		return err
	}

	cfg := newRequestConfig()
	cfg.apply(opts...)

	req := &api.Request{
		Method:  http.MethodDelete,
		Path:    "/ruler/configurations/dlp/dictionaries/" + url.PathEscape(id),
		Query:   cfg.params,
		Headers: cfg.headers,
	}
	if cfg.dryRun {
		dryRunResult(s.transport, req)
		return nil
	}
	return doDelete(ctx, s.transport, req, "dictionary", id)
}
