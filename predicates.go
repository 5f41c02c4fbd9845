package itm

import (
	"context"
	"net/http"
	"net/url"

	"github.com/drizzo-tech/proofpoint-itm/internal/api"
)

// PredicateService provides operations on depot predicates.
// Conditions are predicates of kind it:predicate:custom:match.
//
//go:generate mockery --name=PredicateService --output=mocks --outpkg=mocks --filename=predicate_service.go
type PredicateService interface {
	// List returns all predicates visible to the tenant, built-in and
	// custom.
	List(ctx context.Context, opts ...RequestOption) ([]Record, error)

	// Get retrieves a single predicate by ID.
	Get(ctx context.Context, id string, opts ...RequestOption) (Record, error)

	// Conditions returns the tenant's custom match conditions.
	Conditions(ctx context.Context, opts ...RequestOption) ([]Record, error)

	// Create creates a new predicate.
	Create(ctx context.Context, predicate *Predicate, opts ...RequestOption) (Record, error)

	// Update modifies fields of an existing predicate.
	Update(ctx context.Context, id string, predicate *Predicate, opts ...RequestOption) (Record, error)

	// Overwrite replaces an existing predicate.
	Overwrite(ctx context.Context, id string, predicate *Predicate, opts ...RequestOption) (Record, error)

	// Delete removes a predicate by ID.
	Delete(ctx context.Context, id string, opts ...RequestOption) error
}

// predicateService implements PredicateService.
type predicateService struct {
	transport *api.Transport
}

func newPredicateService(transport *api.Transport) *predicateService {
	return &predicateService{transport: transport}
}

// List returns all predicates visible to the tenant.
func (s *predicateService) List(ctx context.Context, opts ...RequestOption) ([]Record, error) {
	cfg := newRequestConfig()
	cfg.apply(opts...)

	page, err := doPage(ctx, s.transport, &api.Request{
		Method:  http.MethodGet,
		Path:    "/depot/predicates",
		Query:   mergeParams(url.Values{"includes": {"*"}}, cfg.params),
		Headers: cfg.headers,
	})
	if err != nil {
		return nil, err
	}
	return page.Data, nil
}

// Get retrieves a single predicate by ID.
func (s *predicateService) Get(ctx context.Context, id string, opts ...RequestOption) (Record, error) {
	if err := validateID("predicate", id); err != nil {
		return nil, err
	}

	cfg := newRequestConfig()
	cfg.apply(opts...)

	return doRecord(ctx, s.transport, &api.Request{
		Method:  http.MethodGet,
		Path:    "/depot/predicates/" + url.PathEscape(id),
		Query:   mergeParams(url.Values{"includes": {"*"}}, cfg.params),
		Headers: cfg.headers,
	}, "predicate", id)
}

// Conditions returns the custom match conditions. The API has no
// server-side kind filter for predicates, so the full list is fetched
// and filtered here.
func (s *predicateService) Conditions(ctx context.Context, opts ...RequestOption) ([]Record, error) {
	predicates, err := s.List(ctx, opts...)
	if err != nil {
		return nil, err
	}

	conditions := []Record{}
	for _, p := range predicates {
		if p.Kind() == KindCustomMatch {
			conditions = append(conditions, p)
		}
	}
	return conditions, nil
}

// Create creates a new predicate.
func (s *predicateService) Create(ctx context.Context, predicate *Predicate, opts ...RequestOption) (Record, error) {
	cfg := newRequestConfig()
	cfg.apply(opts...)

	req := &api.Request{
		Method:  http.MethodPost,
		Path:    "/depot/predicates",
		Query:   cfg.params,
		Body:    predicate,
		Headers: cfg.headers,
	}
	if cfg.dryRun {
		return dryRunResult(s.transport, req), nil
	}
	return doRecord(ctx, s.transport, req, "", "")
}

// Update modifies fields of an existing predicate.
func (s *predicateService) Update(ctx context.Context, id string, predicate *Predicate, opts ...RequestOption) (Record, error) {
	if err := validateID("predicate", id); err != nil {
		return nil, err
	}

	cfg := newRequestConfig()
	cfg.apply(opts...)

	req := &api.Request{
		Method:  http.MethodPatch,
		Path:    "/depot/predicates/" + url.PathEscape(id),
		Query:   cfg.params,
		Body:    predicate,
		Headers: cfg.headers,
	}
	if cfg.dryRun {
		return dryRunResult(s.transport, req), nil
	}
	return doRecord(ctx, s.transport, req, "predicate", id)
}

// Overwrite replaces an existing predicate.
func (s *predicateService) Overwrite(ctx context.Context, id string, predicate *Predicate, opts ...RequestOption) (Record, error) {
	if err := validateID("predicate", id); err != nil {
		return nil, err
	}

	cfg := newRequestConfig()
	cfg.apply(opts...)

	req := &api.Request{
		Method:  http.MethodPut,
		Path:    "/depot/predicates/" + url.PathEscape(id),
		Query:   cfg.params,
		Body:    predicate,
		Headers: cfg.headers,
	}
	if cfg.dryRun {
		return dryRunResult(s.transport, req), nil
	}
	return doRecord(ctx, s.transport, req, "predicate", id)
}

// Delete removes a predicate by ID.
func (s *predicateService) Delete(ctx context.Context, id string, opts ...RequestOption) error {
	if err := validateID("predicate", id); err != nil {
		return err
	}

	cfg := newRequestConfig()
	cfg.apply(opts...)

	req := &api.Request{
		Method:  http.MethodDelete,
		Path:    "/depot/predicates/" + url.PathEscape(id),
		Query:   cfg.params,
		Headers: cfg.headers,
	}
	if cfg.dryRun {
		dryRunResult(s.transport, req)
		return nil
	}
	return doDelete(ctx, s.transport, req, "predicate", id)
}
