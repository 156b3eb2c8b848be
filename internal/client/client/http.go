package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/feedbackportal/internal/api"
	"github.com/dmitrijs2005/feedbackportal/internal/common"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

const maxResponseBytes = 32 << 20

// HTTPClient talks to the portal's REST API. Connectivity checks go to the
// gRPC health endpoint when one is configured, otherwise to GET /healthz.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	tokens     TokenSource

	healthAddr string
	conn       *grpc.ClientConn
}

type Option func(*HTTPClient)

func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) { c.timeout = d }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.httpClient = hc }
}

// WithHealthAddr makes Ping probe the grpc.health.v1 service at addr.
func WithHealthAddr(addr string) Option {
	return func(c *HTTPClient) { c.healthAddr = addr }
}

func NewHTTPClient(baseURL string, tokens TokenSource, opts ...Option) (*HTTPClient, error) {
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid api base url %q: %w", baseURL, err)
	}
	if tokens == nil {
		tokens = TokenFunc(func() string { return "" })
	}

	c := &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		timeout:    10 * time.Second,
		tokens:     tokens,
	}
	for _, o := range opts {
		o(c)
	}

	if c.healthAddr != "" {
		conn, err := grpc.NewClient(c.healthAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
		if err != nil {
			return nil, err
		}
		c.conn = conn
	}
	return c, nil
}

func (c *HTTPClient) Close() error {
	c.httpClient.CloseIdleConnections()
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// request describes one outbound call.
type request struct {
	method string
	path   string
	json   any
	form   url.Values

	// token overrides the TokenSource when non-nil.
	token *string
}

// do sends req and passes a 2xx response to handle. Errors are normalized:
// transport failures wrap ErrNoResponse, a 401 on an authenticated call is
// an *UnauthorizedError, any other non-2xx is an *APIError.
func (c *HTTPClient) do(ctx context.Context, req request, handle func(*http.Response) error) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var (
		body        io.Reader
		contentType string
	)
	switch {
	case req.form != nil:
		body = strings.NewReader(req.form.Encode())
		contentType = api.ContentTypeForm
	case req.json != nil:
		b, err := json.Marshal(req.json)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
		contentType = api.ContentTypeJSON
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.baseURL+req.path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	httpReq.Header.Set("Accept", api.ContentTypeJSON)

	token := c.tokens.Token()
	if req.token != nil {
		token = *req.token
	}
	if token != "" {
		httpReq.Header.Set(common.AuthorizationHeader, common.BearerPrefix+token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNoResponse, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if handle == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			return nil
		}
		return handle(resp)
	}

	detail := readDetail(resp.Body)
	if resp.StatusCode == http.StatusUnauthorized && token != "" {
		return &UnauthorizedError{Token: token, Detail: detail}
	}
	return &APIError{StatusCode: resp.StatusCode, Detail: detail}
}

// doJSON performs req and decodes the payload into out. An empty body
// (204 included) leaves out untouched.
func (c *HTTPClient) doJSON(ctx context.Context, req request, out any) error {
	return c.do(ctx, req, func(resp *http.Response) error {
		data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		if err != nil {
			return fmt.Errorf("%w: %w", ErrNoResponse, err)
		}
		if out == nil || len(bytes.TrimSpace(data)) == 0 {
			return nil
		}
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	})
}

// readDetail extracts the "detail" field of an error body. Validation
// errors carrying a list of {msg} objects are joined.
func readDetail(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 64<<10))
	if err != nil || len(data) == 0 {
		return ""
	}

	var body struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(data, &body); err != nil || len(body.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(body.Detail, &s); err == nil {
		return s
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(body.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}

// IsNoResponse reports whether err means the backend was not reached.
func IsNoResponse(err error) bool {
	return errors.Is(err, ErrNoResponse)
}
