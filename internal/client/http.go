package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/iamtinsae/mockify/internal/model"
)

const adminPrefix = "/_admin/v1"

// userHeader carries the caller identity used for project ownership.
const userHeader = "X-Mockify-User"

// HTTPClient implements MockifyClient against the mockify HTTP API.
type HTTPClient struct {
	baseURL    string
	token      string
	user       string
	httpClient *http.Client
}

// NewHTTPClient creates a client for the server at baseURL
// (e.g. "http://localhost:8080"). A non-empty token is sent as a bearer
// token and a non-empty user as the caller identity on admin requests.
func NewHTTPClient(baseURL, token, user string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		user:       user,
		httpClient: &http.Client{},
	}
}

// Close is a no-op for the HTTP client.
func (c *HTTPClient) Close() error { return nil }

// --- Projects ---

func (c *HTTPClient) CreateProject(ctx context.Context, req *CreateProjectRequest) (*model.Project, error) {
	var p model.Project
	if err := c.doJSON(ctx, http.MethodPost, adminPrefix+"/projects", req, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) ListProjects(ctx context.Context) ([]*model.Project, error) {
	var resp struct {
		Projects []*model.Project `json:"projects"`
	}
	if err := c.doJSON(ctx, http.MethodGet, adminPrefix+"/projects", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Projects, nil
}

func (c *HTTPClient) GetProject(ctx context.Context, slug string) (*model.Project, error) {
	var p model.Project
	if err := c.doJSON(ctx, http.MethodGet, adminPrefix+"/projects/"+url.PathEscape(slug), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// --- Resources ---

func (c *HTTPClient) CreateResource(ctx context.Context, projectSlug, name string) (*model.Resource, error) {
	body := map[string]string{"name": name}
	var r model.Resource
	path := adminPrefix + "/projects/" + url.PathEscape(projectSlug) + "/resources"
	if err := c.doJSON(ctx, http.MethodPost, path, body, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *HTTPClient) DeleteResource(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, adminPrefix+"/resources/"+url.PathEscape(id), nil, nil)
}

// --- Endpoints ---

func (c *HTTPClient) CreateEndpoint(ctx context.Context, resourceID string, req *CreateEndpointRequest) (*model.Endpoint, error) {
	var e model.Endpoint
	path := adminPrefix + "/resources/" + url.PathEscape(resourceID) + "/endpoints"
	if err := c.doJSON(ctx, http.MethodPost, path, req, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (c *HTTPClient) DeleteEndpoint(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, adminPrefix+"/endpoints/"+url.PathEscape(id), nil, nil)
}

// --- Mock calls ---

// Call sends method to path on the mock surface and returns whatever the
// server answered.
func (c *HTTPClient) Call(ctx context.Context, method, path string) (*CallResult, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	return &CallResult{Status: resp.StatusCode, Body: bytes.TrimSpace(body)}, nil
}

// --- Health ---

func (c *HTTPClient) Health(ctx context.Context) (string, error) {
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.doJSON(ctx, http.MethodGet, adminPrefix+"/health", nil, &resp); err != nil {
		return "", err
	}
	return resp.Status, nil
}

// --- internal helpers ---

// APIError represents an error response from the server.
type APIError struct {
	StatusCode int
	Message    string
	Fields     []model.FieldError
}

func (e *APIError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
	}
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return fmt.Sprintf("HTTP %d: %s (%s)", e.StatusCode, e.Message, strings.Join(parts, "; "))
}

func (c *HTTPClient) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.user != "" {
		req.Header.Set(userHeader, c.user)
	}
	return req, nil
}

// doJSON performs an admin request with optional JSON body and decodes the
// JSON response. If result is nil, the response body is discarded.
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body any, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := c.newRequest(ctx, method, path, bodyReader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return decodeAPIError(resp.StatusCode, respBody)
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

func decodeAPIError(status int, body []byte) *APIError {
	var errResp struct {
		Error  string             `json:"error"`
		Status string             `json:"status"`
		Fields []model.FieldError `json:"fields"`
	}
	if json.Unmarshal(body, &errResp) == nil {
		switch {
		case errResp.Error != "":
			return &APIError{StatusCode: status, Message: errResp.Error, Fields: errResp.Fields}
		case errResp.Status != "":
			return &APIError{StatusCode: status, Message: errResp.Status}
		}
	}
	return &APIError{StatusCode: status, Message: strings.TrimSpace(string(body))}
}
