// internal/common/http/client.go
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/google/uuid"

	"careerlens/internal/common/errors"
)

const RequestIDHeader = "X-Request-ID"

// maxBodyBytes caps how much of a response body is buffered.
const maxBodyBytes = 8 << 20

type Client struct {
	httpClient *http.Client
}

func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// NewClientWith wraps an existing *http.Client, e.g. one from httptest.
func NewClientWith(c *http.Client) *Client {
	return &Client{httpClient: c}
}

// Response is a fully read response.
type Response struct {
	StatusCode int
	Body       []byte
	RequestID  string
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Err returns nil for 2xx responses and a REMOTE_STATUS error otherwise. The message is the
// server's "detail" field when present, falling back to "API Error: <status>".
func (r *Response) Err(operation string) error {
	if r.OK() {
		return nil
	}
	return errors.NewRemoteStatusError(operation, r.StatusCode, ErrorDetail(r.Body)).
		WithMetadata("requestId", r.RequestID)
}

// ErrorDetail pulls a human-readable message out of an error body.
func ErrorDetail(body []byte) string {
	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	for _, key := range []string{"detail", "error_description", "msg", "message", "error"} {
		if s, ok := payload[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// DoJSON sends body (nil for none) encoded as JSON and reads the whole response. Transport
// failures come back as NETWORK_FAILURE errors; status codes are left to the caller.
func (c *Client) DoJSON(ctx context.Context, operation, method, url string, headers map[string]string, body interface{}) (*Response, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, errors.NewEncodeFailedError(operation, err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, errors.NewNetworkFailureError(operation, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(operation, req, headers)
}

// MultipartFile is the file part of a multipart upload.
type MultipartFile struct {
	Field    string
	Filename string
	Content  io.Reader
}

// DoMultipart posts a multipart/form-data body with the given text fields and, when file is
// non-nil, one file part.
func (c *Client) DoMultipart(ctx context.Context, operation, url string, headers map[string]string, fields map[string]string, file *MultipartFile) (*Response, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if file != nil {
		part, err := mw.CreateFormFile(file.Field, file.Filename)
		if err != nil {
			return nil, errors.NewEncodeFailedError(operation, err)
		}
		if _, err := io.Copy(part, file.Content); err != nil {
			return nil, errors.NewEncodeFailedError(operation, err)
		}
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return nil, errors.NewEncodeFailedError(operation, err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, errors.NewEncodeFailedError(operation, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return nil, errors.NewNetworkFailureError(operation, err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	return c.send(operation, req, headers)
}

func (c *Client) send(operation string, req *http.Request, headers map[string]string) (*Response, error) {
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.NewNetworkFailureError(operation, err).WithMetadata("requestId", requestID)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, errors.NewNetworkFailureError(operation, fmt.Errorf("read body: %w", err)).
			WithMetadata("requestId", requestID)
	}

	return &Response{StatusCode: resp.StatusCode, Body: body, RequestID: requestID}, nil
}
