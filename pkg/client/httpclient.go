package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"reflect"
	apperrors "staybook/pkg/errors"
	"staybook/pkg/logger"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	HeaderAuthorization = "Authorization"
	HeaderRequestID     = "X-Request-ID"
	ContentTypeJSON     = "application/json"
)

// TokenSource yields the current bearer token. It is consulted on every request,
// so signing in or out takes effect on the very next call.
type TokenSource interface {
	Get() (string, bool)
}

type HttpClient struct {
	BaseURL    string
	HTTPClient *http.Client
	tokens     TokenSource
	log        *logger.Logger
}

func NewHttpClient(baseURL string, tokens TokenSource, log *logger.Logger, timeout time.Duration) *HttpClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if log == nil {
		log = logger.Discard()
	}
	return &HttpClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
		tokens: tokens,
		log:    log,
	}
}

type Response struct {
	*http.Response
	Body []byte
}

func (r *Response) DecodeJSON(target any) error {
	return json.Unmarshal(r.Body, target)
}

func (r *Response) ToString() string {
	return fmt.Sprintf("%d %s", r.StatusCode, string(r.Body))
}

func (c *HttpClient) GET(ctx context.Context, path string) (*Response, error) {
	return c.request(ctx, http.MethodGet, path, nil)
}

func (c *HttpClient) POST(ctx context.Context, path string, body any) (*Response, error) {
	return c.request(ctx, http.MethodPost, path, body)
}

func (c *HttpClient) PATCH(ctx context.Context, path string, body any) (*Response, error) {
	return c.request(ctx, http.MethodPatch, path, body)
}

func (c *HttpClient) DELETE(ctx context.Context, path string) (*Response, error) {
	return c.request(ctx, http.MethodDelete, path, nil)
}

func (c *HttpClient) POSTMultipart(ctx context.Context, path string, form *Multipart) (*Response, error) {
	return c.requestMultipart(ctx, http.MethodPost, path, form)
}

func (c *HttpClient) PUTMultipart(ctx context.Context, path string, form *Multipart) (*Response, error) {
	return c.requestMultipart(ctx, http.MethodPut, path, form)
}

func (c *HttpClient) request(ctx context.Context, method, path string, body any) (*Response, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeInvalidInput, "failed to marshal request body", 0)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	return c.do(ctx, method, path, reqBody, ContentTypeJSON)
}

func (c *HttpClient) requestMultipart(ctx context.Context, method, path string, form *Multipart) (*Response, error) {
	reqBody, contentType, err := form.encode()
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInvalidInput, "failed to encode form", 0)
	}
	return c.do(ctx, method, path, reqBody, contentType)
}

func (c *HttpClient) do(ctx context.Context, method, path string, reqBody io.Reader, contentType string) (*Response, error) {
	url := c.BaseURL + path

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInvalidInput, "failed to create request", 0)
	}

	if reqBody != nil {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", ContentTypeJSON)

	requestID := uuid.NewString()
	req.Header.Set(HeaderRequestID, requestID)

	authenticated := false
	if c.tokens != nil {
		if token, ok := c.tokens.Get(); ok {
			req.Header.Set(HeaderAuthorization, "Bearer "+token)
			authenticated = true
		}
	}

	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.log.Warn("request failed",
			"request_id", requestID,
			"method", method,
			"path", path,
			"error", err,
		)
		return nil, apperrors.Transport(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Transport(fmt.Errorf("failed to read response body: %w", err))
	}

	response := &Response{
		Response: resp,
		Body:     respBody,
	}

	c.log.Debug("request completed",
		"request_id", requestID,
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"authenticated", authenticated,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return response, apperrors.FromResponse(resp.StatusCode, GetErrorMessage(response))
	}

	return response, nil
}

// GetErrorMessage extracts the server's message from an error body, or "" when there is none.
func GetErrorMessage(resp *Response) string {
	var errResp struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := resp.DecodeJSON(&errResp); err != nil {
		return ""
	}

	if errResp.Message != "" {
		return errResp.Message
	}
	return errResp.Error
}

func decodeInto[T any](resp *Response) (T, error) {
	var target T
	if err := resp.DecodeJSON(&target); err != nil {
		return target, apperrors.Decode(fmt.Errorf("could not decode response %s: %w", resp.ToString(), err))
	}
	if v := reflect.ValueOf(&target).Elem(); isNilable(v.Kind()) && v.IsNil() {
		return target, apperrors.Decode(fmt.Errorf("empty response %s", resp.ToString()))
	}
	return target, nil
}

func isNilable(kind reflect.Kind) bool {
	switch kind {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface:
		return true
	default:
		return false
	}
}
