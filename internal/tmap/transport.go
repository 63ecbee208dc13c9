package tmap

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// maxErrorBody caps how much of a failed response is kept for diagnostics.
const maxErrorBody = 64 << 10

// Execute performs spec and returns the raw JSON body of a 200 response.
// A 204 yields ErrNoResults; other statuses an *HTTPError; network faults and
// bodies that are not JSON a *TransportError. There is exactly one HTTP
// request per call.
func (c *Client) Execute(ctx context.Context, spec RequestSpec) (json.RawMessage, error) {
	return c.do(ctx, opName(spec), spec)
}

func (c *Client) do(ctx context.Context, op string, spec RequestSpec) (json.RawMessage, error) {
	resp, err := c.send(ctx, op, spec)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.fail(op, &TransportError{Op: op, Err: fmt.Errorf("read body: %w", err)})
	}
	if !json.Valid(body) {
		return nil, c.fail(op, &TransportError{Op: op, Err: errors.New("response body is not valid JSON")})
	}
	return body, nil
}

// doJSON performs spec and decodes the body into v.
func (c *Client) doJSON(ctx context.Context, op string, spec RequestSpec, v any) error {
	body, err := c.do(ctx, op, spec)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return c.fail(op, &TransportError{Op: op, Err: fmt.Errorf("decode response: %w", err)})
	}
	return nil
}

// stream performs spec and copies a 200 body verbatim to w, without any JSON
// decoding.
func (c *Client) stream(ctx context.Context, op string, spec RequestSpec, w io.Writer) (int64, error) {
	resp, err := c.send(ctx, op, spec)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, c.fail(op, &TransportError{Op: op, Err: fmt.Errorf("copy body: %w", err)})
	}
	return n, nil
}

// send issues the request and screens the status code. On success the caller
// owns resp.Body.
func (c *Client) send(ctx context.Context, op string, spec RequestSpec) (*http.Response, error) {
	req, err := c.newRequest(ctx, spec)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.fail(op, &TransportError{Op: op, Err: err})
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return resp, nil
	case http.StatusNoContent:
		resp.Body.Close()
		c.logger.Info("tmap request returned no results", "op", op)
		return nil, ErrNoResults
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	resp.Body.Close()
	return nil, c.fail(op, &HTTPError{Op: op, Status: resp.StatusCode, Body: string(bytes.TrimSpace(body))})
}

func (c *Client) newRequest(ctx context.Context, spec RequestSpec) (*http.Request, error) {
	root, ok := c.roots[spec.Root]
	if !ok {
		return nil, fmt.Errorf("unknown endpoint root %d", spec.Root)
	}
	u := root.JoinPath(spec.Path)
	u.RawQuery = spec.EncodedQuery()

	var body io.Reader
	if spec.Body != nil {
		b, err := json.Marshal(spec.Body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, spec.Method, u.String(), body)
	if err != nil {
		return nil, err
	}
	req.Header = c.headers.Clone()
	return req, nil
}

func (c *Client) fail(op string, err error) error {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		c.logger.Warn("tmap request failed", "op", op, "status", httpErr.Status, "body", httpErr.Body)
	} else {
		c.logger.Warn("tmap request failed", "op", op, "error", err)
	}
	return err
}

func opName(spec RequestSpec) string {
	return spec.Method + " " + spec.Path
}
