package itm

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/drizzo-tech/proofpoint-itm/internal/api"
	"github.com/drizzo-tech/proofpoint-itm/internal/auth"
)

// Default configuration values.
const (
	defaultTimeout = 30 * time.Second
	defaultScope   = "*"
)

// Client is the Proofpoint ITM API client.
type Client struct {
	// Predicates provides access to depot predicates and conditions.
	Predicates PredicateService

	// Tags provides access to depot tags.
	Tags TagService

	// Rules provides access to ruler rules.
	Rules RuleService

	// Dictionaries provides access to user-defined DLP dictionaries.
	Dictionaries DictionaryService

	// Detectors provides read access to built-in DLP detectors.
	Detectors DetectorService

	// AgentPolicies provides access to registry agent policies.
	AgentPolicies AgentPolicyService

	// NotificationPolicies provides access to notification target
	// groups.
	NotificationPolicies NotificationPolicyService

	// Endpoints provides access to registered endpoints.
	Endpoints EndpointService

	// Activity provides access to activity events and their workflow
	// annotations.
	Activity ActivityService

	// Search runs raw exploration queries against the search APIs.
	Search SearchService

	// Config publishes pending rule and predicate changes.
	Config ConfigService

	transport *api.Transport
	tokens    oauth2.TokenSource
}

// NewClient creates a new ITM client with the given options.
func NewClient(opts ...ClientOption) (*Client, error) {
	cfg := &clientConfig{
		timeout: defaultTimeout,
		scope:   defaultScope,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	baseURL := cfg.baseURL
	if baseURL == "" {
		if cfg.tenantID == "" {
			return nil, ErrNoTenant
		}
		baseURL = fmt.Sprintf("https://%s.explore.proofpoint.com/v2/apis", cfg.tenantID)
	}

	creds := &auth.Credentials{
		ClientID:     cfg.clientID,
		ClientSecret: cfg.clientSecret,
		Scope:        cfg.scope,
		TokenURL:     strings.TrimSuffix(baseURL, "/") + "/auth/oauth/token",
	}
	if !creds.Valid() {
		return nil, ErrNoCredentials
	}

	httpClient := cfg.httpClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: cfg.timeout,
		}
		if cfg.insecureSkipVerify {
			tr := http.DefaultTransport.(*http.Transport).Clone()
			tr.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
			httpClient.Transport = tr
		}
	}

	tokens := creds.TokenSource(context.Background(), httpClient)

	transport, err := api.NewTransport(baseURL, auth.NewClient(httpClient, tokens), cfg.logger)
	if err != nil {
		return nil, err
	}

	if cfg.userAgent != "" {
		transport.UserAgent = cfg.userAgent
	}

	client := &Client{
		transport: transport,
		tokens:    tokens,
	}

	// Initialize services
	client.Predicates = newPredicateService(transport)
	client.Tags = newTagService(transport)
	client.Rules = newRuleService(transport)
	client.Dictionaries = newDictionaryService(transport)
	client.Detectors = newDetectorService(transport)
	client.AgentPolicies = newAgentPolicyService(transport)
	client.NotificationPolicies = newNotificationPolicyService(transport)
	client.Endpoints = newEndpointService(transport)
	client.Activity = newActivityService(transport)
	client.Search = newSearchService(transport)
	client.Config = newConfigService(transport)

	return client, nil
}

// BaseURL returns the configured API base URL.
func (c *Client) BaseURL() string {
	return c.transport.BaseURL.String()
}

// Token returns the current OAuth2 access token, fetching or
// refreshing it if necessary. Useful for validating credentials
// eagerly; API calls acquire tokens on their own.
func (c *Client) Token() (*oauth2.Token, error) {
	return c.tokens.Token()
}
