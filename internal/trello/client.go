package trello

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/trellist/trellist/internal/logging"
)

// DefaultBaseURL is the single fixed origin all resource paths are
// resolved against.
const DefaultBaseURL = "https://api.trello.com/1"

// Client executes authenticated requests against the Trello API.
// Execution is fully synchronous: each call blocks until the round trip
// completes or fails. The client holds no mutable state across calls.
type Client struct {
	baseURL    string
	httpClient *http.Client
	creds      CredentialProvider
	logger     *slog.Logger
}

// NewClient creates a client against the default Trello origin.
func NewClient(creds CredentialProvider) *Client {
	return NewClientWithHTTPClient(DefaultBaseURL, creds, &http.Client{})
}

// NewClientWithHTTPClient creates a client against a specific base URL with
// a caller-supplied HTTP client. Tests use this to point at a stub backend.
func NewClientWithHTTPClient(baseURL string, creds CredentialProvider, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
		creds:      creds,
		logger:     slog.Default(),
	}
}

// BaseURL returns the origin this client resolves paths against.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetLogger replaces the client's logger.
func (c *Client) SetLogger(logger *slog.Logger) {
	if logger != nil {
		c.logger = logger
	}
}

// Do executes one API call and normalizes the outcome.
//
// Credentials are resolved fresh, then merged into the query for GET and
// into the form body for every other method; the credential keys always
// overwrite caller-supplied values of the same name. A 2xx response is
// decoded into an Envelope (raw-text fallback for non-JSON bodies), a
// non-2xx response becomes an *APIError carrying the status and body
// verbatim, and a network failure becomes a *TransportError. There is
// exactly one attempt per call.
func (c *Client) Do(ctx context.Context, req Request) (Envelope, error) {
	key, token, err := resolveAuth(c.creds)
	if err != nil {
		return Envelope{}, err
	}

	query := cloneValues(req.Query)
	body := cloneValues(req.Body)
	if req.Method == http.MethodGet {
		query.Set(authParamKey, key)
		query.Set(authParamToken, token)
	} else {
		body.Set(authParamKey, key)
		body.Set(authParamToken, token)
	}

	endpoint := c.baseURL + req.Path
	if encoded := query.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	var reqBody io.Reader
	if req.Method != http.MethodGet {
		reqBody = strings.NewReader(body.Encode())
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, endpoint, reqBody)
	if err != nil {
		return Envelope{}, &TransportError{Err: err}
	}
	for name, values := range req.Header {
		for _, v := range values {
			httpReq.Header.Add(name, v)
		}
	}
	if req.Method != http.MethodGet {
		httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	httpReq.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Envelope{}, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	text, err := io.ReadAll(resp.Body)
	if err != nil {
		return Envelope{}, &TransportError{Err: err}
	}

	c.logger.Debug("trello API call",
		logging.Method(req.Method),
		logging.Path(req.Path),
		logging.StatusCode(resp.StatusCode),
		logging.Duration(time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Envelope{}, &APIError{StatusCode: resp.StatusCode, Body: string(text)}
	}
	return decodeEnvelope(text), nil
}

// Get executes a GET request for the given path.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (Envelope, error) {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query})
}

// Post executes a POST request with form body parameters.
func (c *Client) Post(ctx context.Context, path string, body url.Values) (Envelope, error) {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body})
}

// Put executes a PUT request with form body parameters.
func (c *Client) Put(ctx context.Context, path string, body url.Values) (Envelope, error) {
	return c.Do(ctx, Request{Method: http.MethodPut, Path: path, Body: body})
}

// Delete executes a DELETE request for the given path.
func (c *Client) Delete(ctx context.Context, path string) (Envelope, error) {
	return c.Do(ctx, Request{Method: http.MethodDelete, Path: path})
}

// UploadAttachment posts a multipart file to the given path. Because the
// body is multipart, credentials are merged into the query string instead.
// Used by the file-attachment tools; everything else goes through Do.
func (c *Client) UploadAttachment(ctx context.Context, path string, query url.Values, fileName string, contents io.Reader) (Envelope, error) {
	key, token, err := resolveAuth(c.creds)
	if err != nil {
		return Envelope{}, err
	}

	q := cloneValues(query)
	q.Set(authParamKey, key)
	q.Set(authParamToken, token)

	var buf strings.Builder
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return Envelope{}, &TransportError{Err: err}
	}
	if _, err := io.Copy(part, contents); err != nil {
		return Envelope{}, &TransportError{Err: fmt.Errorf("reading attachment %s: %w", fileName, err)}
	}
	if err := writer.Close(); err != nil {
		return Envelope{}, &TransportError{Err: err}
	}

	endpoint := c.baseURL + path + "?" + q.Encode()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(buf.String()))
	if err != nil {
		return Envelope{}, &TransportError{Err: err}
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Envelope{}, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	text, err := io.ReadAll(resp.Body)
	if err != nil {
		return Envelope{}, &TransportError{Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Envelope{}, &APIError{StatusCode: resp.StatusCode, Body: string(text)}
	}
	return decodeEnvelope(text), nil
}

// cloneValues copies caller-supplied values so merging credentials never
// mutates the caller's map.
func cloneValues(values url.Values) url.Values {
	clone := make(url.Values, len(values)+2)
	for name, vs := range values {
		clone[name] = append([]string(nil), vs...)
	}
	return clone
}
