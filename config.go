package itm

import (
	"context"
	"net/http"

	"github.com/drizzo-tech/proofpoint-itm/internal/api"
)

// ConfigService publishes configuration changes. Writes to rules,
// predicates and dictionaries stage changes; Publish pushes the staged
// configuration to the tenant's agents.
//
//go:generate mockery --name=ConfigService --output=mocks --outpkg=mocks --filename=config_service.go
type ConfigService interface {
	// Publish pushes the pending configuration changes live.
	Publish(ctx context.Context, opts ...RequestOption) (Record, error)
}

// configService implements ConfigService.
type configService struct {
	transport *api.Transport
}

func newConfigService(transport *api.Transport) *configService {
	return &configService{transport: transport}
}

// Publish pushes the pending configuration changes live.
func (s *configService) Publish(ctx context.Context, opts ...RequestOption) (Record, error) {
	cfg := newRequestConfig()
	cfg.apply(opts...)

	req := &api.Request{
		Method:  http.MethodPost,
		Path:    "/ruler/configurations/publish",
		Query:   cfg.params,
		Headers: cfg.headers,
	}
	if cfg.dryRun {
		return dryRunResult(s.transport, req), nil
	}
	return doRecord(ctx, s.transport, req, "", "")
}
