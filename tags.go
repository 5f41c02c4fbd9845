package itm

import (
	"context"
	"net/http"
	"net/url"

	"github.com/drizzo-tech/proofpoint-itm/internal/api"
)

// TagService provides operations on depot tags.
//
//go:generate mockery --name=TagService --output=mocks --outpkg=mocks --filename=tag_service.go
type TagService interface {
	// List returns all tags, tenant-scoped and public.
	List(ctx context.Context, opts ...RequestOption) ([]Record, error)

	// Get retrieves a single tag by ID. Tags have no direct GET
	// endpoint, so the lookup goes through the depot search API.
	Get(ctx context.Context, id string, opts ...RequestOption) (Record, error)

	// Create creates a new tenant tag.
	Create(ctx context.Context, tag *Tag, opts ...RequestOption) (Record, error)

	// Update modifies fields of an existing tag.
	Update(ctx context.Context, id string, tag *Tag, opts ...RequestOption) (Record, error)

	// Delete removes a tag by ID.
	Delete(ctx context.Context, id string, opts ...RequestOption) error
}

// tagService implements TagService.
type tagService struct {
	transport *api.Transport
}

func newTagService(transport *api.Transport) *tagService {
	return &tagService{transport: transport}
}

// List returns all tags.
func (s *tagService) List(ctx context.Context, opts ...RequestOption) ([]Record, error) {
	cfg := newRequestConfig()
	cfg.apply(opts...)

	page, err := doPage(ctx, s.transport, &api.Request{
		Method:  http.MethodGet,
		Path:    "/depot/tags",
		Query:   mergeParams(url.Values{"includes": {"*"}}, cfg.params),
		Headers: cfg.headers,
	})
	if err != nil {
		return nil, err
	}
	return page.Data, nil
}

// Get retrieves a single tag by ID via the depot search API.
func (s *tagService) Get(ctx context.Context, id string, opts ...RequestOption) (Record, error) {
	if err := validateID("tag", id); err != nil {
		return nil, err
	}

	page, err := runSearch(ctx, s.transport, "/depot/queries", TermQuery("id", id), EntityTag, opts...)
	if err != nil {
		return nil, err
	}
	if len(page.Data) == 0 {
		return nil, &NotFoundError{
			APIError: APIError{
				StatusCode: http.StatusNotFound,
				Message:    "tag " + id + " not found",
			},
			ResourceType: "tag",
			ResourceID:   id,
		}
	}
	return page.Data[0], nil
}

// Create creates a new tenant tag.
func (s *tagService) Create(ctx context.Context, tag *Tag, opts ...RequestOption) (Record, error) {
	cfg := newRequestConfig()
	cfg.apply(opts...)

	req := &api.Request{
		Method:  http.MethodPost,
		Path:    "/depot/tags",
		Query:   cfg.params,
		Body:    tag,
		Headers: cfg.headers,
	}
	if cfg.dryRun {
		return dryRunResult(s.transport, req), nil
	}
	return doRecord(ctx, s.transport, req, "", "")
}

// Update modifies fields of an existing tag.
func (s *tagService) Update(ctx context.Context, id string, tag *Tag, opts ...RequestOption) (Record, error) {
	if err := validateID("tag", id); err != nil {
		return nil, err
	}

	cfg := newRequestConfig()
	cfg.apply(opts...)

	req := &api.Request{
		Method:  http.MethodPatch,
		Path:    "/depot/tags/" + url.PathEscape(id),
		Query:   cfg.params,
		Body:    tag,
		Headers: cfg.headers,
	}
	if cfg.dryRun {
		return dryRunResult(s.transport, req), nil
	}
	return doRecord(ctx, s.transport, req, "tag", id)
}

// Delete removes a tag by ID.
func (s *tagService) Delete(ctx context.Context, id string, opts ...RequestOption) error {
	if err := validateID("tag", id); err != nil {
		return err
	}

	cfg := newRequestConfig()
	cfg.apply(opts...)

	req := &api.Request{
		Method:  http.MethodDelete,
		Path:    "/depot/tags/" + url.PathEscape(id),
		Query:   cfg.params,
		Headers: cfg.headers,
	}
	if cfg.dryRun {
		dryRunResult(s.transport, req)
		return nil
	}
	return doDelete(ctx, s.transport, req, "tag", id)
}
