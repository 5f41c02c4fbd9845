package itm

import (
	"context"
	"fmt"
	"iter"
	"net/http"
	"net/url"
	"strconv"

	"github.com/drizzo-tech/proofpoint-itm/internal/api"
)

const (
	defaultPageSize = 100
	maxPageSize     = 1000

	// defaultObservationDays bounds Recent's observation window when
	// the caller does not set one.
	defaultObservationDays = 14
)

// EndpointQuery configures Endpoints.Recent.
type EndpointQuery struct {
	// Kind filters components by kind, for example agent:saas or
	// updater:saas. Empty or "*" matches all kinds.
	Kind string

	// Days is the observation window in days. Defaults to 14.
	Days int

	// Query, when set, replaces the default query entirely. Kind and
	// Days are ignored.
	Query Query
}

// EndpointService provides access to the endpoints registered with the
// tenant.
//
//go:generate mockery --name=EndpointService --output=mocks --outpkg=mocks --filename=endpoint_service.go
type EndpointService interface {
	// All returns an iterator over all registered endpoints. The
	// iterator fetches pages lazily as you iterate.
	All(ctx context.Context, opts ...RequestOption) iter.Seq2[Record, error]

	// ListPage returns a single page of registered endpoints.
	// Use this for manual pagination control.
	ListPage(ctx context.Context, page *PageOptions, opts ...RequestOption) (*Page, error)

	// Count returns the total number of registered endpoints.
	Count(ctx context.Context, opts ...RequestOption) (int, error)

	// Recent returns the endpoints observed within the query's
	// observation window, excluding unregistered and picp components.
	// The result is streamed from the registry search API.
	Recent(ctx context.Context, q *EndpointQuery, opts ...RequestOption) ([]Record, error)
}

// endpointService implements EndpointService.
type endpointService struct {
	transport *api.Transport
}

func newEndpointService(transport *api.Transport) *endpointService {
	return &endpointService{transport: transport}
}

// All returns an iterator over all registered endpoints.
func (s *endpointService) All(ctx context.Context, opts ...RequestOption) iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		offset := 0

		for {
			page, err := s.ListPage(ctx, &PageOptions{
				Offset: offset,
				Limit:  defaultPageSize,
			}, opts...)

			if err != nil {
				yield(nil, err)
				return
			}

			if !yieldPageItems(ctx, page, yield) {
				return
			}

			if !page.HasMore() {
				return
			}

			offset = page.NextOffset()
		}
	}
}

// yieldPageItems yields each record from the page to the iterator.
// Returns false if iteration should stop (context cancelled or yield
// returned false).
func yieldPageItems(ctx context.Context, page *Page, yield func(Record, error) bool) bool {
	for _, rec := range page.Data {
		if err := ctx.Err(); err != nil {
			yield(nil, err)
			return false
		}
		if !yield(rec, nil) {
			return false
		}
	}
	return true
}

// ListPage returns a single page of registered endpoints.
func (s *endpointService) ListPage(ctx context.Context, page *PageOptions, opts ...RequestOption) (*Page, error) {
	cfg := newRequestConfig()
	cfg.apply(opts...)

	if page == nil {
		page = &PageOptions{}
	}
	if page.Limit <= 0 {
		page.Limit = defaultPageSize
	}
	if page.Limit > maxPageSize {
		page.Limit = maxPageSize
	}

	defaults := url.Values{
		"limit":    {strconv.Itoa(page.Limit)},
		"offset":   {strconv.Itoa(page.Offset)},
		"includes": {"*"},
		"kind":     {"*"},
		"status":   {"*"},
	}

	result, err := doPage(ctx, s.transport, &api.Request{
		Method:  http.MethodGet,
		Path:    "/registry/instances",
		Query:   mergeParams(defaults, cfg.params),
		Headers: cfg.headers,
	})
	if err != nil {
		return nil, err
	}

	result.Offset = page.Offset
	result.Limit = page.Limit
	return result, nil
}

// Count returns the total number of registered endpoints.
func (s *endpointService) Count(ctx context.Context, opts ...RequestOption) (int, error) {
	page, err := s.ListPage(ctx, &PageOptions{Limit: 1}, opts...)
	if err != nil {
		return 0, err
	}

	total := page.Total()
	if total < 0 {
		return 0, fmt.Errorf("itm: response missing result statistics")
	}
	return total, nil
}

// Recent returns the endpoints observed within the query window.
func (s *endpointService) Recent(ctx context.Context, q *EndpointQuery, opts ...RequestOption) ([]Record, error) {
	if q == nil {
		q = &EndpointQuery{}
	}

	kind := q.Kind
	if kind == "" {
		kind = "*"
	}
	days := q.Days
	if days <= 0 {
		days = defaultObservationDays
	}
	query := q.Query
	if query == nil {
		query = defaultEndpointsQuery(kind, days)
	}

	streamOpts := make([]RequestOption, 0, len(opts)+1)
	streamOpts = append(streamOpts, opts...)
	streamOpts = append(streamOpts, WithStream())

	page, err := runSearch(ctx, s.transport, "/registry/queries", query, EntityComponent, streamOpts...)
	if err != nil {
		return nil, err
	}
	return page.Data, nil
}
