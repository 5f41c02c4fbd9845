package itm

import (
	"context"
	"net/http"
	"net/url"

	"github.com/drizzo-tech/proofpoint-itm/internal/api"
)

// DetectorService provides read access to the built-in DLP detectors.
// Detectors are managed by the vendor and cannot be modified.
//
//go:generate mockery --name=DetectorService --output=mocks --outpkg=mocks --filename=detector_service.go
type DetectorService interface {
	// List returns all detectors.
	List(ctx context.Context, opts ...RequestOption) ([]Record, error)

	// Get retrieves a single detector by ID.
	Get(ctx context.Context, id string, opts ...RequestOption) (Record, error)
}

// detectorService implements DetectorService.
type detectorService struct {
	transport *api.Transport
}

func newDetectorService(transport *api.Transport) *detectorService {
	return &detectorService{transport: transport}
}

// List returns all detectors.
func (s *detectorService) List(ctx context.Context, opts ...RequestOption) ([]Record, error) {
	cfg := newRequestConfig()
	cfg.apply(opts...)

	page, err := doPage(ctx, s.transport, &api.Request{
		Method:  http.MethodGet,
		Path:    "/ruler/configurations/dlp/detectors",
		Query:   mergeParams(url.Values{"includes": {"*"}}, cfg.params),
		Headers: cfg.headers,
	})
	if err != nil {
		return nil, err
	}
	return page.Data, nil
}

// Get retrieves a single detector by ID.
func (s *detectorService) Get(ctx context.Context, id string, opts ...RequestOption) (Record, error) {
	if err := validateID("detector", id); err != nil {
		return nil, err
	}

	cfg := newRequestConfig()
	cfg.apply(opts...)

	return doRecord(ctx, s.transport, &api.Request{
		Method:  http.MethodGet,
		Path:    "/ruler/configurations/dlp/detectors/" + url.PathEscape(id),
		Query:   mergeParams(url.Values{"includes": {"*"}}, cfg.params),
		Headers: cfg.headers,
	}, "detector", id)
}
