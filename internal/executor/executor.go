// Package executor dispatches manifest operations to the remote authoring
// service over HTTP and maps wire responses onto result documents.
package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/stevengum97/botbuilder-tools/pkg/config"
	"github.com/stevengum97/botbuilder-tools/pkg/manifest"
)

// subscriptionKeyHeader carries the authoring key on every request.
const subscriptionKeyHeader = "Ocp-Apim-Subscription-Key"

// ServiceError is a failure reported by the remote service, either as an
// error document or as a bare HTTP status.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("the service answered with HTTP %d", e.StatusCode)
}

// Client executes manifest operations against the configured endpoint.
type Client struct {
	httpClient *http.Client
}

// ClientConfig configures a Client.
type ClientConfig struct {
	// HTTPClient overrides the default client. Used by tests.
	HTTPClient *http.Client
}

// NewClient creates a Client. A nil config uses a 30 second timeout.
func NewClient(cfg *ClientConfig) *Client {
	var httpClient *http.Client
	if cfg != nil {
		httpClient = cfg.HTTPClient
	}
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: 30 * time.Second,
		}
	}
	return &Client{httpClient: httpClient}
}

// Execute dispatches one operation and returns the decoded result document.
// The operation and payload are assumed validated; this layer only knows
// how to move them over the wire.
func (c *Client) Execute(ctx context.Context, cfg *config.Configuration, op *manifest.Operation, params map[string]string, payload any) (any, error) {
	reqURL, err := buildURL(cfg, op, params)
	if err != nil {
		return nil, err
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to serialize request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, op.Method, reqURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set(subscriptionKeyHeader, cfg.AuthoringKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return decodeResult(resp.StatusCode, respBody)
}

// buildURL joins the endpoint base with the operation path, substitutes the
// path placeholders from the configuration, and appends the declared query
// parameters.
func buildURL(cfg *config.Configuration, op *manifest.Operation, params map[string]string) (string, error) {
	path := op.Path
	path = strings.ReplaceAll(path, "{appId}", url.PathEscape(cfg.AppID))
	path = strings.ReplaceAll(path, "{versionId}", url.PathEscape(cfg.VersionID))

	fullURL := strings.TrimSuffix(cfg.EndpointBase, "/") + "/" + strings.TrimPrefix(path, "/")
	parsedURL, err := url.Parse(fullURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse operation URL: %w", err)
	}

	query := parsedURL.Query()
	for _, name := range op.QueryParams {
		if value, ok := params[name]; ok && value != "" {
			query.Set(name, value)
		}
	}
	parsedURL.RawQuery = query.Encode()

	return parsedURL.String(), nil
}

// decodeResult maps a wire response onto a result document or a
// *ServiceError. Error documents win over the status code; a failing status
// without one still fails.
func decodeResult(status int, body []byte) (any, error) {
	var doc any
	if len(body) > 0 {
		if err := json.Unmarshal(body, &doc); err != nil {
			doc = strings.TrimSpace(string(body))
		}
	}

	if msg, ok := ErrorDocument(doc); ok {
		return nil, &ServiceError{StatusCode: status, Message: msg}
	}
	if status >= http.StatusBadRequest {
		msg := ""
		switch v := doc.(type) {
		case map[string]any:
			msg, _ = v["message"].(string)
		case string:
			msg = v
		}
		return nil, &ServiceError{StatusCode: status, Message: msg}
	}

	if doc == nil {
		// Some operations answer with an empty body on success.
		return map[string]any{"status": status}, nil
	}
	return doc, nil
}

// ErrorDocument reports whether doc has the service's error shape, an
// object with an "error" object inside, and returns its message.
func ErrorDocument(doc any) (string, bool) {
	obj, ok := doc.(map[string]any)
	if !ok {
		return "", false
	}
	errObj, ok := obj["error"].(map[string]any)
	if !ok {
		return "", false
	}
	msg, _ := errObj["message"].(string)
	return msg, true
}
