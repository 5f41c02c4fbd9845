package itm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/drizzo-tech/proofpoint-itm/internal/api"
)

// maxJSONLLine bounds a single document in a streamed response. It
// matches the transport's whole-body limit.
const maxJSONLLine = 10 * 1024 * 1024

// mergeParams overlays caller-supplied values on top of per-method
// defaults.
func mergeParams(defaults, overrides url.Values) url.Values {
	merged := make(url.Values, len(defaults)+len(overrides))
	maps.Copy(merged, defaults)
	maps.Copy(merged, overrides)
	return merged
}

func validateID(resource, id string) error {
	if id == "" {
		return &ValidationError{
			APIError: APIError{
				StatusCode: http.StatusBadRequest,
				Message:    resource + " id cannot be empty",
			},
		}
	}
	return nil
}

// doRecord executes a request and decodes the response document. When
// resource is non-empty a 404 is reported as a NotFoundError carrying
// the resource type and id.
func doRecord(ctx context.Context, t *api.Transport, req *api.Request, resource, id string) (Record, error) {
	var rec Record
	resp, err := t.DoJSON(ctx, req, &rec)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusNotFound && resource != "" {
		return nil, &NotFoundError{
			APIError: APIError{
				StatusCode: resp.StatusCode,
				Message:    fmt.Sprintf("%s %s not found", resource, id),
			},
			ResourceType: resource,
			ResourceID:   id,
		}
	}
	if resp.StatusCode >= 400 {
		return nil, parseError(resp.StatusCode, resp.Body, resp.Headers)
	}

	return rec, nil
}

// doPage executes a request and decodes the list envelope.
func doPage(ctx context.Context, t *api.Transport, req *api.Request) (*Page, error) {
	var page Page
	resp, err := t.DoJSON(ctx, req, &page)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, parseError(resp.StatusCode, resp.Body, resp.Headers)
	}
	return &page, nil
}

// doDelete executes a deletion request, discarding any response body.
func doDelete(ctx context.Context, t *api.Transport, req *api.Request, resource, id string) error {
	resp, err := t.Do(ctx, req)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusNotFound && resource != "" {
		return &NotFoundError{
			APIError: APIError{
				StatusCode: resp.StatusCode,
				Message:    fmt.Sprintf("%s %s not found", resource, id),
			},
			ResourceType: resource,
			ResourceID:   id,
		}
	}
	if resp.StatusCode >= 400 {
		return parseError(resp.StatusCode, resp.Body, resp.Headers)
	}

	return nil
}

// dryRunResult logs the prepared request and returns a synthetic
// record in place of a server response.
func dryRunResult(t *api.Transport, req *api.Request) Record {
	t.Logger.Debug("dry run",
		zap.String("method", req.Method),
		zap.String("path", req.Path),
		zap.Any("query", req.Query),
		zap.Any("body", req.Body))
	return Record{"id": uuid.NewString()}
}

// runSearch posts an exploration query to one of the search endpoints.
// The entity is passed as the entityTypes parameter; request options
// may override it or add further parameters. With streaming enabled
// the JSONL body is decoded into the page's Data.
func runSearch(ctx context.Context, t *api.Transport, path string, query Query, entity string, opts ...RequestOption) (*Page, error) {
	cfg := newRequestConfig()
	cfg.apply(opts...)

	req := &api.Request{
		Method:  http.MethodPost,
		Path:    path,
		Query:   mergeParams(url.Values{"entityTypes": {entity}}, cfg.params),
		Body:    query,
		Headers: cfg.headers,
	}

	if !cfg.stream {
		return doPage(ctx, t, req)
	}

	req.Headers.Set("Accept", "application/jsonl")
	resp, err := t.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, parseError(resp.StatusCode, resp.Body, resp.Headers)
	}

	data, err := decodeJSONL(resp.Body)
	if err != nil {
		return nil, err
	}
	return &Page{Data: data}, nil
}

// decodeJSONL parses a newline-delimited JSON body, skipping blank
// lines.
func decodeJSONL(body []byte) ([]Record, error) {
	records := []Record{}
	scanner := bufio.NewScanner(bytes.NewReader(body))
	scanner.Buffer(make([]byte, 0, 64*1024), maxJSONLLine)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("decoding jsonl line: %w", err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning jsonl response: %w", err)
	}
	return records, nil
}
