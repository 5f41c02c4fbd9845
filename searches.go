package itm

import (
	"context"

	"github.com/drizzo-tech/proofpoint-itm/internal/api"
)

// SearchService runs raw exploration queries against the search APIs.
// Queries use the Elasticsearch-style JSON exported by the console's
// exploration views. The entity selects the record type searched
// (predicate, tag, rule, target-group, component, event, ...).
//
// The registry and activity searches support streaming: WithStream
// requests a JSONL response, which handles large result sets the
// envelope format rejects.
//
//go:generate mockery --name=SearchService --output=mocks --outpkg=mocks --filename=search_service.go
type SearchService interface {
	// Depot searches the depot API (predicates, tags).
	Depot(ctx context.Context, query Query, entity string, opts ...RequestOption) (*Page, error)

	// Ruler searches the ruler API (rules).
	Ruler(ctx context.Context, query Query, entity string, opts ...RequestOption) (*Page, error)

	// Registry searches the registry API (components, instances).
	Registry(ctx context.Context, query Query, entity string, opts ...RequestOption) (*Page, error)

	// Notification searches the notification API (target groups).
	Notification(ctx context.Context, query Query, entity string, opts ...RequestOption) (*Page, error)

	// Activity searches the activity API (events, casb, endpoint,
	// audit).
	Activity(ctx context.Context, query Query, entity string, opts ...RequestOption) (*Page, error)
}

// searchService implements SearchService.
type searchService struct {
	transport *api.Transport
}

func newSearchService(transport *api.Transport) *searchService {
	return &searchService{transport: transport}
}

func (s *searchService) Depot(ctx context.Context, query Query, entity string, opts ...RequestOption) (*Page, error) {
	return runSearch(ctx, s.transport, "/depot/queries", query, entity, opts...)
}

func (s *searchService) Ruler(ctx context.Context, query Query, entity string, opts ...RequestOption) (*Page, error) {
	return runSearch(ctx, s.transport, "/ruler/queries", query, entity, opts...)
}

func (s *searchService) Registry(ctx context.Context, query Query, entity string, opts ...RequestOption) (*Page, error) {
	return runSearch(ctx, s.transport, "/registry/queries", query, entity, opts...)
}

func (s *searchService) Notification(ctx context.Context, query Query, entity string, opts ...RequestOption) (*Page, error) {
	return runSearch(ctx, s.transport, "/notification/queries", query, entity, opts...)
}

func (s *searchService) Activity(ctx context.Context, query Query, entity string, opts ...RequestOption) (*Page, error) {
	return runSearch(ctx, s.transport, "/activity/event-queries", query, entity, opts...)
}
