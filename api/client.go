// Package api wraps the marketplace REST backend. Every network call the
// storefront makes goes through Client: it builds URLs, encodes payloads,
// attaches the bearer token and maps response statuses onto the classified
// Error taxonomy. No other package talks to the network.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ulavan-storefront/session"
)

// Client is the storefront's HTTP client.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Session    session.Store

	// OnSessionExpired runs after a 401 has wiped the session, before the
	// error is returned. The front end uses it to navigate to login.
	OnSessionExpired func()
}

// NewClient creates a Client against baseURL using the given session store.
func NewClient(baseURL string, store session.Store) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		Session:    store,
	}
}

// Get issues a GET request and decodes the response into out.
func (c *Client) Get(ctx context.Context, endpoint string, requiresAuth bool, out any) error {
	return c.Do(ctx, http.MethodGet, endpoint, nil, requiresAuth, out)
}

// Post issues a JSON POST request and decodes the response into out.
func (c *Client) Post(ctx context.Context, endpoint string, body any, requiresAuth bool, out any) error {
	return c.Do(ctx, http.MethodPost, endpoint, body, requiresAuth, out)
}

// Put issues a JSON PUT request and decodes the response into out.
func (c *Client) Put(ctx context.Context, endpoint string, body any, requiresAuth bool, out any) error {
	return c.Do(ctx, http.MethodPut, endpoint, body, requiresAuth, out)
}

// Delete issues a DELETE request and decodes the response into out.
func (c *Client) Delete(ctx context.Context, endpoint string, requiresAuth bool, out any) error {
	return c.Do(ctx, http.MethodDelete, endpoint, nil, requiresAuth, out)
}

// Do issues a request with an optional JSON body. A 2xx response is decoded
// into out when out is non-nil; 204 leaves out untouched. Non-2xx responses
// are returned as *Error per the status taxonomy.
func (c *Client) Do(ctx context.Context, method, endpoint string, body any, requiresAuth bool, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return &Error{Kind: KindValidation, Message: "could not encode request", Err: err}
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.resolve(endpoint), reader)
	if err != nil {
		return &Error{Kind: KindValidation, Message: "invalid request", Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, requiresAuth, out)
}

// PostLoginForm posts urlencoded form values, as the OAuth2 password-flow
// login endpoint expects, and decodes the response into out. The call is
// unauthenticated by definition: no token is attached, and a 401 here means
// rejected credentials, not an expired session, so it goes through the
// normal error classification instead of wiping the session.
func (c *Client) PostLoginForm(ctx context.Context, endpoint string, values url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.resolve(endpoint), strings.NewReader(values.Encode()))
	if err != nil {
		return &Error{Kind: KindValidation, Message: "invalid request", Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return &Error{Kind: KindNetwork, Message: "unable to connect to server", Err: err}
	}
	defer resp.Body.Close()
	return decodeResponse(resp, out)
}

// Upload posts a multipart form with one file part plus optional extra
// fields. Used for the image upload endpoint; always authenticated.
func (c *Client) Upload(ctx context.Context, endpoint, field, filename string, file io.Reader, extra map[string]string, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, filename)
	if err != nil {
		return &Error{Kind: KindValidation, Message: "could not build upload", Err: err}
	}
	if _, err := io.Copy(part, file); err != nil {
		return &Error{Kind: KindValidation, Message: "could not read upload file", Err: err}
	}
	for k, v := range extra {
		if err := mw.WriteField(k, v); err != nil {
			return &Error{Kind: KindValidation, Message: "could not build upload", Err: err}
		}
	}
	if err := mw.Close(); err != nil {
		return &Error{Kind: KindValidation, Message: "could not build upload", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.resolve(endpoint), &buf)
	if err != nil {
		return &Error{Kind: KindValidation, Message: "invalid request", Err: err}
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.send(req, true, out)
}

// resolve joins the base URL and endpoint, tolerating leading/trailing slash
// mismatches on either side.
func (c *Client) resolve(endpoint string) string {
	base := strings.TrimRight(c.BaseURL, "/")
	if !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}
	return base + endpoint
}

func (c *Client) send(req *http.Request, requiresAuth bool, out any) error {
	if requiresAuth {
		token := c.Session.Token()
		if token == "" {
			return &Error{Kind: KindAuthRequired, Message: "authentication required, please login"}
		}
		req.Header.Set("Authorization", "Bearer "+token)
	} else if token := c.Session.Token(); token != "" {
		// Opportunistic: public endpoints still personalize when a token
		// happens to be present.
		req.Header.Set("Authorization", "Bearer "+token)
	}

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return &Error{Kind: KindNetwork, Message: "unable to connect to server", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		// The token is dead no matter what this page wanted: wipe the
		// session and hand control to the login redirect hook.
		c.Session.ClearToken()
		c.Session.ClearUser()
		if c.OnSessionExpired != nil {
			c.OnSessionExpired()
		}
		return &Error{Kind: KindSessionExpired, Status: resp.StatusCode, Message: "session expired, please login again"}
	}

	return decodeResponse(resp, out)
}

// decodeResponse maps a response to the error taxonomy and decodes a 2xx
// body into out. A 204 or a nil out leaves the body untouched.
func decodeResponse(resp *http.Response, out any) error {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return classify(resp)
	}
	if resp.StatusCode == http.StatusNoContent || out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Kind: KindServer, Status: resp.StatusCode, Message: "could not decode server response", Err: err}
	}
	return nil
}

// classify maps a non-2xx response to an *Error, preferring the server's
// "detail" message when the body carries one. A 401 only reaches here from
// the credential flow, where it means rejected credentials.
func classify(resp *http.Response) *Error {
	detail := errorDetail(resp.Body)

	switch resp.StatusCode {
	case http.StatusBadRequest:
		return &Error{Kind: KindValidation, Status: resp.StatusCode, Message: orDefault(detail, "invalid request")}
	case http.StatusUnauthorized:
		return &Error{Kind: KindValidation, Status: resp.StatusCode, Message: orDefault(detail, "invalid credentials")}
	case http.StatusForbidden:
		return &Error{Kind: KindForbidden, Status: resp.StatusCode, Message: orDefault(detail, "access denied")}
	case http.StatusNotFound:
		return &Error{Kind: KindNotFound, Status: resp.StatusCode, Message: orDefault(detail, "resource not found")}
	default:
		return &Error{
			Kind:    KindServer,
			Status:  resp.StatusCode,
			Message: orDefault(detail, fmt.Sprintf("server error (%d)", resp.StatusCode)),
		}
	}
}

func errorDetail(body io.Reader) string {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		return ""
	}
	return payload.Detail
}

func orDefault(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
