package httpclient

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
)

// Config describes a client bound to one REST API.
type Config struct {
	BaseURL string
	Headers map[string]string
	Timeout time.Duration
	Hooks   Hooks
	// Transport overrides the underlying round tripper (tests).
	Transport http.RoundTripper
}

// RestyClient adapts resty.Client to the httpclient.Client interface.
type RestyClient struct {
	client *resty.Client
	hooks  Hooks
}

// NewRestyClient creates a client for cfg with lifecycle hooks installed.
func NewRestyClient(cfg Config) *RestyClient {
	c := newRestyBaseClient(cfg.Timeout)
	if cfg.BaseURL != "" {
		c.SetBaseURL(cfg.BaseURL)
	}
	if len(cfg.Headers) > 0 {
		c.SetHeaders(cfg.Headers)
	}
	c.SetTransport(newProgressTransport(cfg.Transport))

	r := &RestyClient{client: c, hooks: cfg.Hooks}
	c.OnBeforeRequest(r.onBeforeRequest)
	c.OnAfterResponse(r.onAfterResponse)
	c.OnError(r.onError)
	return r
}

// NewRestyHTTPClient exposes a configured resty.Client for callers needing custom verbs.
func NewRestyHTTPClient(timeout time.Duration) *resty.Client {
	return newRestyBaseClient(timeout)
}

// newRestyBaseClient creates a new resty.Client with the specified timeout.
func newRestyBaseClient(timeout time.Duration) *resty.Client {
	c := resty.New()
	c.SetTimeout(timeout)
	return c
}

// Get performs an HTTP GET request.
func (r *RestyClient) Get(ctx context.Context, path string, opts ...RequestOption) (Response, error) {
	return r.execute(ctx, http.MethodGet, path, nil, opts)
}

// Post performs an HTTP POST request with a JSON body.
func (r *RestyClient) Post(ctx context.Context, path string, body any, opts ...RequestOption) (Response, error) {
	return r.execute(ctx, http.MethodPost, path, body, opts)
}

// Delete performs an HTTP DELETE request.
func (r *RestyClient) Delete(ctx context.Context, path string, opts ...RequestOption) (Response, error) {
	return r.execute(ctx, http.MethodDelete, path, nil, opts)
}

func (r *RestyClient) execute(ctx context.Context, method, path string, body any, opts []RequestOption) (Response, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	o := buildOptions(opts)

	ctx = context.WithValue(ctx, settleKey{}, &sync.Once{})
	if o.trackDownload {
		ctx = withProgress(ctx, r.hooks.OnDownloadProgress)
	}

	req := r.client.R().SetContext(ctx)
	if len(o.headers) > 0 {
		req.SetHeaders(o.headers)
	}
	if len(o.query) > 0 {
		req.SetQueryParams(o.query)
	}
	if len(o.pathParams) > 0 {
		req.SetPathParams(o.pathParams)
	}
	if body != nil {
		req.SetHeader("Content-Type", "application/json")
		req.SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return nil, err
	}
	return &restyResponseAdapter{resp: resp}, nil
}

type settleKey struct{}

func (r *RestyClient) onBeforeRequest(_ *resty.Client, _ *resty.Request) error {
	if r.hooks.OnRequestStart != nil {
		r.hooks.OnRequestStart()
	}
	return nil
}

func (r *RestyClient) onAfterResponse(_ *resty.Client, resp *resty.Response) error {
	r.settle(resp.Request.Context())
	return nil
}

func (r *RestyClient) onError(req *resty.Request, _ error) {
	r.settle(req.Context())
}

// settle fires OnResponseEnd at most once per request.
func (r *RestyClient) settle(ctx context.Context) {
	if r.hooks.OnResponseEnd == nil {
		return
	}
	once, ok := ctx.Value(settleKey{}).(*sync.Once)
	if !ok {
		r.hooks.OnResponseEnd()
		return
	}
	once.Do(r.hooks.OnResponseEnd)
}

// restyResponseAdapter adapts resty.Response to the httpclient.Response interface.
type restyResponseAdapter struct {
	resp *resty.Response
}

func (r *restyResponseAdapter) Body() []byte    { return r.resp.Body() }
func (r *restyResponseAdapter) StatusCode() int { return r.resp.StatusCode() }
