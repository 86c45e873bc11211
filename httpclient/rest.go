package httpclient

import (
	"context"
	"net/http"

	"github.com/unitrack/unitrack/logger"
)

// Get performs a GET request and decodes the response into T.
func Get[T any](ctx context.Context, c *Client, path string, opts ...RequestOption) (T, error) {
	return do[T](ctx, c, http.MethodGet, path, nil, opts...)
}

// Post performs a POST request with a JSON body and decodes the response into T.
func Post[T any](ctx context.Context, c *Client, path string, body any, opts ...RequestOption) (T, error) {
	return do[T](ctx, c, http.MethodPost, path, body, opts...)
}

// Put performs a PUT request with a JSON body and decodes the response into T.
func Put[T any](ctx context.Context, c *Client, path string, body any, opts ...RequestOption) (T, error) {
	return do[T](ctx, c, http.MethodPut, path, body, opts...)
}

// Patch performs a PATCH request with a JSON body and decodes the response into T.
func Patch[T any](ctx context.Context, c *Client, path string, body any, opts ...RequestOption) (T, error) {
	return do[T](ctx, c, http.MethodPatch, path, body, opts...)
}

// Delete performs a DELETE request and decodes the response into T.
func Delete[T any](ctx context.Context, c *Client, path string, opts ...RequestOption) (T, error) {
	return do[T](ctx, c, http.MethodDelete, path, nil, opts...)
}

// GetVoid performs a GET request and only checks for success.
func GetVoid(ctx context.Context, c *Client, path string, opts ...RequestOption) error {
	return doVoid(ctx, c, http.MethodGet, path, nil, opts...)
}

// PostVoid performs a POST request and only checks for success.
func PostVoid(ctx context.Context, c *Client, path string, body any, opts ...RequestOption) error {
	return doVoid(ctx, c, http.MethodPost, path, body, opts...)
}

// PutVoid performs a PUT request and only checks for success.
func PutVoid(ctx context.Context, c *Client, path string, body any, opts ...RequestOption) error {
	return doVoid(ctx, c, http.MethodPut, path, body, opts...)
}

// PatchVoid performs a PATCH request and only checks for success.
func PatchVoid(ctx context.Context, c *Client, path string, body any, opts ...RequestOption) error {
	return doVoid(ctx, c, http.MethodPatch, path, body, opts...)
}

// DeleteVoid performs a DELETE request and only checks for success. An empty
// 200 or 204 reply is a success.
func DeleteVoid(ctx context.Context, c *Client, path string, opts ...RequestOption) error {
	return doVoid(ctx, c, http.MethodDelete, path, nil, opts...)
}

func newRequest(method, path string, body any, opts []RequestOption) Request {
	req := Request{
		Method: method,
		Path:   path,
		Body:   body,
	}
	for _, opt := range opts {
		opt(&req)
	}
	return req
}

// do executes a request and decodes a 2xx body. On any failure the zero
// value of T is returned, never a partially decoded one.
func do[T any](ctx context.Context, c *Client, method, path string, body any, opts ...RequestOption) (T, error) {
	var zero T
	resp, err := c.Do(ctx, newRequest(method, path, body, opts))
	if err != nil {
		return zero, err
	}

	var data T
	if err := Unmarshal(resp.Body, &data); err != nil {
		decErr := NewDecodingError(resp.StatusCode, resp.Body, err)
		c.log.Warn("response did not match expected shape", logger.Fields(
			logger.FieldMethod, method,
			logger.FieldPath, path,
			logger.FieldError, err.Error(),
		))
		return zero, decErr
	}
	return data, nil
}

func doVoid(ctx context.Context, c *Client, method, path string, body any, opts ...RequestOption) error {
	_, err := c.Do(ctx, newRequest(method, path, body, opts))
	return err
}
