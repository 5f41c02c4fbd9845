package itm

import (
	"context"
	"net/http"
	"net/url"

	"github.com/drizzo-tech/proofpoint-itm/internal/api"
)

// AgentPolicyService provides operations on registry agent policies.
// Policies are created in the console; the API supports reading and
// updating them. Both write methods send the inner policy document
// (AgentPolicy.Policy) as the request body.
//
//go:generate mockery --name=AgentPolicyService --output=mocks --outpkg=mocks --filename=agent_policy_service.go
type AgentPolicyService interface {
	// List returns all agent policies. By default only id, alias,
	// kind and details are included for each policy; use
	// WithIncludes("*") for full documents.
	List(ctx context.Context, opts ...RequestOption) ([]Record, error)

	// Get retrieves a single agent policy by ID.
	Get(ctx context.Context, id string, opts ...RequestOption) (Record, error)

	// Update modifies fields of an existing agent policy.
	Update(ctx context.Context, id string, policy *AgentPolicy, opts ...RequestOption) (Record, error)

	// Overwrite replaces an existing agent policy.
	Overwrite(ctx context.Context, id string, policy *AgentPolicy, opts ...RequestOption) (Record, error)
}

// agentPolicyService implements AgentPolicyService.
type agentPolicyService struct {
	transport *api.Transport
}

func newAgentPolicyService(transport *api.Transport) *agentPolicyService {
	return &agentPolicyService{transport: transport}
}

// List returns all agent policies.
func (s *agentPolicyService) List(ctx context.Context, opts ...RequestOption) ([]Record, error) {
	cfg := newRequestConfig()
	cfg.apply(opts...)

	page, err := doPage(ctx, s.transport, &api.Request{
		Method:  http.MethodGet,
		Path:    "/registry/policies",
		Query:   mergeParams(url.Values{"includes": {"id,alias,kind,details"}}, cfg.params),
		Headers: cfg.headers,
	})
	if err != nil {
		return nil, err
	}
	return page.Data, nil
}

// Get retrieves a single agent policy by ID.
func (s *agentPolicyService) Get(ctx context.Context, id string, opts ...RequestOption) (Record, error) {
	if err := validateID("agent policy", id); err != nil {
		return nil, err
	}

	cfg := newRequestConfig()
	cfg.apply(opts...)

	return doRecord(ctx, s.transport, &api.Request{
		Method:  http.MethodGet,
		Path:    "/registry/policies/" + url.PathEscape(id),
		Query:   mergeParams(url.Values{"includes": {"*"}}, cfg.params),
		Headers: cfg.headers,
	}, "agent policy", id)
}

// Update modifies fields of an existing agent policy.
func (s *agentPolicyService) Update(ctx context.Context, id string, policy *AgentPolicy, opts ...RequestOption) (Record, error) {
	if err := validateID("agent policy", id); err != nil {
		return nil, err
	}

	cfg := newRequestConfig()
	cfg.apply(opts...)

	req := &api.Request{
		Method:  http.MethodPatch,
		Path:    "/registry/policies/" + url.PathEscape(id),
		Query:   cfg.params,
		Body:    policy.Policy,
		Headers: cfg.headers,
	}
	if cfg.dryRun {
		return dryRunResult(s.transport, req), nil
	}
	return doRecord(ctx, s.transport, req, "agent policy", id)
}

// Overwrite replaces an existing agent policy.
func (s *agentPolicyService) Overwrite(ctx context.Context, id string, policy *AgentPolicy, opts ...RequestOption) (Record, error) {
	if err := validateID("agent policy", id); err != nil {
		return nil, err
	}

	cfg := newRequestConfig()
	cfg.apply(opts...)

	req := &api.Request{
		Method:  http.MethodPut,
		Path:    "/registry/policies/" + url.PathEscape(id),
		Query:   cfg.params,
		Body:    policy.Policy,
		Headers: cfg.headers,
	}
	if cfg.dryRun {
		return dryRunResult(s.transport, req), nil
	}
	return doRecord(ctx, s.transport, req, "agent policy", id)
}
