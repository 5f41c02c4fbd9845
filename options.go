package itm

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ClientOption configures a Client.
type ClientOption func(*clientConfig)

type clientConfig struct {
	tenantID           string
	clientID           string
	clientSecret       string
	scope              string
	baseURL            string
	httpClient         *http.Client
	timeout            time.Duration
	userAgent          string
	logger             *zap.Logger
	insecureSkipVerify bool
}

// WithTenantID sets the ITM tenant ID. The API base URL is derived
// from it unless WithBaseURL is used.
func WithTenantID(tenantID string) ClientOption {
	return func(c *clientConfig) {
		c.tenantID = tenantID
	}
}

// WithClientCredentials sets the OAuth2 client credentials.
func WithClientCredentials(clientID, clientSecret string) ClientOption {
	return func(c *clientConfig) {
		c.clientID = clientID
		c.clientSecret = clientSecret
	}
}

// WithScope sets the OAuth2 scope requested with the token.
// Defaults to "*".
func WithScope(scope string) ClientOption {
	return func(c *clientConfig) {
		c.scope = scope
	}
}

// WithBaseURL overrides the tenant-derived API base URL.
func WithBaseURL(url string) ClientOption {
	return func(c *clientConfig) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *clientConfig) {
		c.httpClient = client
	}
}

// WithTimeout sets the default request timeout.
// Note: This option is ignored when WithHTTPClient is used;
// set the timeout directly on the provided client instead.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *clientConfig) {
		c.timeout = d
	}
}

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) ClientOption {
	return func(c *clientConfig) {
		c.userAgent = ua
	}
}

// WithLogger sets the logger used for request debug logging.
// Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *clientConfig) {
		c.logger = logger
	}
}

// WithInsecureSkipVerify disables TLS certificate verification.
// Note: This option is ignored when WithHTTPClient is used;
// configure TLS directly on the provided client instead.
func WithInsecureSkipVerify() ClientOption {
	return func(c *clientConfig) {
		c.insecureSkipVerify = true
	}
}

// RequestOption configures individual API requests.
type RequestOption func(*requestConfig)

type requestConfig struct {
	headers http.Header
	params  url.Values
	stream  bool
	dryRun  bool
}

func newRequestConfig() *requestConfig {
	return &requestConfig{
		headers: make(http.Header),
		params:  make(url.Values),
	}
}

func (r *requestConfig) apply(opts ...RequestOption) {
	for _, opt := range opts {
		opt(r)
	}
}

// WithHeader adds a custom header to a request.
func WithHeader(key, value string) RequestOption {
	return func(r *requestConfig) {
		r.headers.Set(key, value)
	}
}

// WithHeaders adds multiple custom headers to a request.
func WithHeaders(headers map[string]string) RequestOption {
	return func(r *requestConfig) {
		for k, v := range headers {
			r.headers.Set(k, v)
		}
	}
}

// WithRequestID sets the X-Request-ID header for tracing.
func WithRequestID(id string) RequestOption {
	return WithHeader("X-Request-ID", id)
}

// WithParam sets a query parameter, overriding the method's default
// for that parameter if it has one.
func WithParam(key, value string) RequestOption {
	return func(r *requestConfig) {
		r.params.Set(key, value)
	}
}

// WithParams sets multiple query parameters.
func WithParams(params map[string]string) RequestOption {
	return func(r *requestConfig) {
		for k, v := range params {
			r.params.Set(k, v)
		}
	}
}

// WithIncludes restricts the fields returned for each record.
func WithIncludes(fields ...string) RequestOption {
	return WithParam("includes", strings.Join(fields, ","))
}

// WithStream requests a JSONL streaming response. Only the search
// endpoints honor it.
func WithStream() RequestOption {
	return func(r *requestConfig) {
		r.stream = true
	}
}

// WithDryRun makes write methods skip the HTTP call and return a
// synthetic record with a generated id. The prepared request is logged
// at debug level. Read methods ignore the option.
func WithDryRun() RequestOption {
	return func(r *requestConfig) {
		r.dryRun = true
	}
}
