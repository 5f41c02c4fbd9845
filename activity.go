package itm

import (
	"context"
	"iter"
	"net/http"
	"net/url"
	"strconv"

	"github.com/drizzo-tech/proofpoint-itm/internal/api"
)

// ActivityService provides access to activity events and their
// workflow annotations. Events are addressed by fqid, the fully
// qualified event ID.
//
//go:generate mockery --name=ActivityService --output=mocks --outpkg=mocks --filename=activity_service.go
type ActivityService interface {
	// Events returns an iterator over all events matching the query.
	// The iterator fetches pages lazily as you iterate. An empty
	// entity defaults to "event"; multiple entity types may be given
	// comma-separated, for example "event,casb".
	Events(ctx context.Context, entity string, query Query, opts ...RequestOption) iter.Seq2[Record, error]

	// EventsPage returns a single page of events matching the query.
	// Use this for manual pagination control.
	EventsPage(ctx context.Context, entity string, query Query, page *PageOptions, opts ...RequestOption) (*Page, error)

	// UpdateWorkflow sets the workflow disposition status of an event.
	UpdateWorkflow(ctx context.Context, fqid, statusID string, opts ...RequestOption) (Record, error)

	// AddTag attaches a tag to an event.
	AddTag(ctx context.Context, fqid, tagID string, opts ...RequestOption) (Record, error)
}

// activityService implements ActivityService.
type activityService struct {
	transport *api.Transport
}

func newActivityService(transport *api.Transport) *activityService {
	return &activityService{transport: transport}
}

// Events returns an iterator over all events matching the query.
func (s *activityService) Events(ctx context.Context, entity string, query Query, opts ...RequestOption) iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		offset := 0

		for {
			page, err := s.EventsPage(ctx, entity, query, &PageOptions{
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

// EventsPage returns a single page of events matching the query.
func (s *activityService) EventsPage(ctx context.Context, entity string, query Query, page *PageOptions, opts ...RequestOption) (*Page, error) {
	cfg := newRequestConfig()
	cfg.apply(opts...)

	if entity == "" {
		entity = EntityEvent
	}
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
		"limit":       {strconv.Itoa(page.Limit)},
		"offset":      {strconv.Itoa(page.Offset)},
		"entityTypes": {entity},
	}

	result, err := doPage(ctx, s.transport, &api.Request{
		Method:  http.MethodPost,
		Path:    "/activity/queries",
		Query:   mergeParams(defaults, cfg.params),
		Body:    query,
		Headers: cfg.headers,
	})
	if err != nil {
		return nil, err
	}

	result.Offset = page.Offset
	result.Limit = page.Limit
	return result, nil
}

// UpdateWorkflow sets the workflow disposition status of an event.
func (s *activityService) UpdateWorkflow(ctx context.Context, fqid, statusID string, opts ...RequestOption) (Record, error) {
	if err := validateID("event", fqid); err != nil {
		return nil, err
	}
	if err := validateID("workflow status", statusID); err != nil {
		return nil, err
	}

	cfg := newRequestConfig()
	cfg.apply(opts...)

	req := &api.Request{
		Method: http.MethodPatch,
		Path:   "/activity/events/" + url.PathEscape(fqid) + "/annotations/workflow",
		Query:  cfg.params,
		Body: map[string]any{
			"state": map[string]any{
				"disposition": map[string]any{
					"status": map[string]any{
						"id": statusID,
					},
				},
			},
		},
		Headers: cfg.headers,
	}
	if cfg.dryRun {
		return dryRunResult(s.transport, req), nil
	}
	return doRecord(ctx, s.transport, req, "event", fqid)
}

// AddTag attaches a tag to an event.
func (s *activityService) AddTag(ctx context.Context, fqid, tagID string, opts ...RequestOption) (Record, error) {
	if err := validateID("event", fqid); err != nil {
		return nil, err
	}
	if err := validateID("tag", tagID); err != nil {
		return nil, err
	}

	cfg := newRequestConfig()
	cfg.apply(opts...)

	req := &api.Request{
		Method:  http.MethodPatch,
		Path:    "/activity/events/" + url.PathEscape(fqid) + "/tags",
		Query:   mergeParams(url.Values{"tagValue": {tagID}}, cfg.params),
		Headers: cfg.headers,
	}
	if cfg.dryRun {
		return dryRunResult(s.transport, req), nil
	}
	return doRecord(ctx, s.transport, req, "event", fqid)
}
