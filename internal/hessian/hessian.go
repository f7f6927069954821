package hessian

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

const (
	contentType = "x-application/hessian"
	timeout     = 15 * time.Second
)

// Client invokes methods on a remote Hessian 1.0 HTTP endpoint.
type Client struct {
	url        string
	httpClient *http.Client
}

// NewClient creates a client for the service at the given URL.
func NewClient(url string) (*Client, error) {
	if url == "" {
		return nil, fmt.Errorf("service URL is required")
	}

	return &Client{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// Call invokes method with the given arguments and returns the decoded
// reply value. A fault reply is returned as a *Fault error; transport and
// decode failures are wrapped errors. The request honors ctx cancellation
// and deadline in addition to the client's own timeout.
func (c *Client) Call(ctx context.Context, method string, args ...interface{}) (interface{}, error) {
	payload, err := encodeCall(method, args)
	if err != nil {
		return nil, fmt.Errorf("encoding call: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("service error (status %d)", resp.StatusCode)
	}

	value, err := newDecoder(resp.Body).readReply()
	if err != nil {
		var fault *Fault
		if errors.As(err, &fault) {
			return nil, fault
		}
		return nil, fmt.Errorf("decoding reply: %w", err)
	}

	return value, nil
}

// Fault is an error reply from the remote service, carrying the code and
// message fields of the fault frame. Detail holds the optional detail
// value as decoded.
type Fault struct {
	Code    string
	Message string
	Detail  interface{}
}

func (f *Fault) Error() string {
	return fmt.Sprintf("remote fault %s: %s", f.Code, f.Message)
}
