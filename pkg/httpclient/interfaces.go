package httpclient

import "context"

// Response is a minimal HTTP response contract.
type Response interface {
	Body() []byte
	StatusCode() int
}

// Client abstracts HTTP calls so callers can inject mocks or different transports.
// Paths are resolved against the configured base URL.
type Client interface {
	Get(ctx context.Context, path string, opts ...RequestOption) (Response, error)
	Post(ctx context.Context, path string, body any, opts ...RequestOption) (Response, error)
	Delete(ctx context.Context, path string, opts ...RequestOption) (Response, error)
}

// Progress is a download progress notification. Total is -1 when the
// response does not announce its length.
type Progress struct {
	Received int64
	Total    int64
}

// Known reports whether Total can be used as a denominator.
func (p Progress) Known() bool { return p.Total > 0 }

// Hooks observe the lifecycle of every request issued by a client.
// OnResponseEnd fires once per request whether it succeeded or failed.
type Hooks struct {
	OnRequestStart     func()
	OnResponseEnd      func()
	OnDownloadProgress func(Progress)
}
