package itm

import (
	"context"
	"net/http"
	"net/url"

	"github.com/drizzo-tech/proofpoint-itm/internal/api"
)

// NotificationPolicyService provides operations on notification
// policies (target groups).
//
//go:generate mockery --name=NotificationPolicyService --output=mocks --outpkg=mocks --filename=notification_policy_service.go
type NotificationPolicyService interface {
	// List returns all notification policies.
	List(ctx context.Context, opts ...RequestOption) ([]Record, error)

	// Create creates a new notification policy.
	Create(ctx context.Context, group *TargetGroup, opts ...RequestOption) (Record, error)

	// Update modifies fields of an existing notification policy.
	Update(ctx context.Context, id string, group *TargetGroup, opts ...RequestOption) (Record, error)

	// Delete removes a notification policy by ID.
	Delete(ctx context.Context, id string, opts ...RequestOption) error
}

// notificationPolicyService implements NotificationPolicyService.
type notificationPolicyService struct {
	transport *api.Transport
}

func newNotificationPolicyService(transport *api.Transport) *notificationPolicyService {
	return &notificationPolicyService{transport: transport}
}

// List returns all notification policies.
func (s *notificationPolicyService) List(ctx context.Context, opts ...RequestOption) ([]Record, error) {
	cfg := newRequestConfig()
	cfg.apply(opts...)

	page, err := doPage(ctx, s.transport, &api.Request{
		Method:  http.MethodGet,
		Path:    "/notification/target-groups",
		Query:   mergeParams(url.Values{"includes": {"*"}}, cfg.params),
		Headers: cfg.headers,
	})
	if err != nil {
		return nil, err
	}
	return page.Data, nil
}

// Create creates a new notification policy.
func (s *notificationPolicyService) Create(ctx context.Context, group *TargetGroup, opts ...RequestOption) (Record, error) {
	cfg := newRequestConfig()
	cfg.apply(opts...)

	req := &api.Request{
		Method:  http.MethodPost,
		Path:    "/notification/target-groups",
		Query:   cfg.params,
		Body:    group,
		Headers: cfg.headers,
	}
	if cfg.dryRun {
		return dryRunResult(s.transport, req), nil
	}
	return doRecord(ctx, s.transport, req, "", "")
}

// Update modifies fields of an existing notification policy.
func (s *notificationPolicyService) Update(ctx context.Context, id string, group *TargetGroup, opts ...RequestOption) (Record, error) {
	if err := validateID("notification policy", id); err != nil {
		return nil, err
	}

	cfg := newRequestConfig()
	cfg.apply(opts...)

	req := &api.Request{
		Method:  http.MethodPatch,
		Path:    "/notification/target-groups/" + url.PathEscape(id),
		Query:   cfg.params,
		Body:    group,
		Headers: cfg.headers,
	}
	if cfg.dryRun {
		return dryRunResult(s.transport, req), nil
	}
	return doRecord(ctx, s.transport, req, "notification policy", id)
}

// Delete removes a notification policy by ID.
func (s *notificationPolicyService) Delete(ctx context.Context, id string, opts ...RequestOption) error {
	if err := validateID("notification policy", id); err != nil {
		return err
	}

	cfg := newRequestConfig()
	cfg.apply(opts...)

	req := &api.Request{
		Method:  http.MethodDelete,
		Path:    "/notification/target-groups/" + url.PathEscape(id),
		Query:   cfg.params,
		Headers: cfg.headers,
	}
	if cfg.dryRun {
		dryRunResult(s.transport, req)
		return nil
	}
	return doDelete(ctx, s.transport, req, "notification policy", id)
}
