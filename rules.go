package itm

import (
	"context"
	"net/http"
	"net/url"

	"github.com/drizzo-tech/proofpoint-itm/internal/api"
)

// RuleService provides operations on ruler rules.
//
//go:generate mockery --name=RuleService --output=mocks --outpkg=mocks --filename=rule_service.go
type RuleService interface {
	// List returns all rules.
	List(ctx context.Context, opts ...RequestOption) ([]Record, error)

	// Get retrieves a single rule by ID.
	Get(ctx context.Context, id string, opts ...RequestOption) (Record, error)

	// Create creates a new rule.
	Create(ctx context.Context, rule *Rule, opts ...RequestOption) (Record, error)

	// Update replaces an existing rule.
	Update(ctx context.Context, id string, rule *Rule, opts ...RequestOption) (Record, error)

	// Delete removes a rule by ID.
	Delete(ctx context.Context, id string, opts ...RequestOption) error
}

// ruleService implements RuleService.
type ruleService struct {
	transport *api.Transport
}

func newRuleService(transport *api.Transport) *ruleService {
	return &ruleService{transport: transport}
}

// List returns all rules.
func (s *ruleService) List(ctx context.Context, opts ...RequestOption) ([]Record, error) {
	cfg := newRequestConfig()
	cfg.apply(opts...)

	page, err := doPage(ctx, s.transport, &api.Request{
		Method:  http.MethodGet,
		Path:    "/ruler/rules",
		Query:   mergeParams(url.Values{"includes": {"*"}}, cfg.params),
		Headers: cfg.headers,
	})
	if err != nil {
		return nil, err
	}
	return page.Data, nil
}

// Get retrieves a single rule by ID.
func (s *ruleService) Get(ctx context.Context, id string, opts ...RequestOption) (Record, error) {
	if err := validateID("rule", id); err != nil {
		return nil, err
	}

	cfg := newRequestConfig()
	cfg.apply(opts...)

	return doRecord(ctx, s.transport, &api.Request{
		Method:  http.MethodGet,
		Path:    "/ruler/rules/" + url.PathEscape(id),
		Query:   mergeParams(url.Values{"includes": {"*"}}, cfg.params),
		Headers: cfg.headers,
	}, "rule", id)
}

// Create creates a new rule. The endpoint expects the rule wrapped in
// a single-element data envelope.
func (s *ruleService) Create(ctx context.Context, rule *Rule, opts ...RequestOption) (Record, error) {
	cfg := newRequestConfig()
	cfg.apply(opts...)

	req := &api.Request{
		Method:  http.MethodPost,
		Path:    "/ruler/rules",
		Query:   cfg.params,
		Body:    map[string]any{"data": []any{rule}},
		Headers: cfg.headers,
	}
	if cfg.dryRun {
		return dryRunResult(s.transport, req), nil
	}
	return doRecord(ctx, s.transport, req, "", "")
}

// Update replaces an existing rule.
func (s *ruleService) Update(ctx context.Context, id string, rule *Rule, opts ...RequestOption) (Record, error) {
	if err := validateID("rule", id); err != nil {
		return nil, err
	}

	cfg := newRequestConfig()
	cfg.apply(opts...)

	req := &api.Request{
		Method:  http.MethodPut,
		Path:    "/ruler/rules/" + url.PathEscape(id),
		Query:   cfg.params,
		Body:    rule,
		Headers: cfg.headers,
	}
	if cfg.dryRun {
		return dryRunResult(s.transport, req), nil
	}
	return doRecord(ctx, s.transport, req, "rule", id)
}

// Delete removes a rule by ID.
func (s *ruleService) Delete(ctx context.Context, id string, opts ...RequestOption) error {
	if err := validateID("rule", id); err != nil {
		return err
	}

	cfg := newRequestConfig()
	cfg.apply(opts...)

	req := &api.Request{
		Method:  http.MethodDelete,
		Path:    "/ruler/rules/" + url.PathEscape(id),
		Query:   cfg.params,
		Headers: cfg.headers,
	}
	if cfg.dryRun {
		dryRunResult(s.transport, req)
		return nil
	}
	return doDelete(ctx, s.transport, req, "rule", id)
}
