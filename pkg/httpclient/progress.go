package httpclient

import (
	"context"
	"io"
	"net/http"
)

type progressKey struct{}

func withProgress(ctx context.Context, fn func(Progress)) context.Context {
	if fn == nil {
		return ctx
	}
	return context.WithValue(ctx, progressKey{}, fn)
}

func progressFromContext(ctx context.Context) (func(Progress), bool) {
	fn, ok := ctx.Value(progressKey{}).(func(Progress))
	return fn, ok && fn != nil
}

// progressTransport wraps response bodies of requests carrying a progress
// callback so every read is reported.
type progressTransport struct {
	base http.RoundTripper
}

func newProgressTransport(base http.RoundTripper) *progressTransport {
	if base == nil {
		base = http.DefaultTransport.(*http.Transport).Clone()
	}
	return &progressTransport{base: base}
}

func (t *progressTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if fn, ok := progressFromContext(req.Context()); ok && resp.Body != nil {
		total := resp.ContentLength
		if total <= 0 {
			total = -1
		}
		resp.Body = &progressReader{rc: resp.Body, total: total, fn: fn}
	}
	return resp, nil
}

type progressReader struct {
	rc       io.ReadCloser
	received int64
	total    int64
	fn       func(Progress)
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.rc.Read(b)
	if n > 0 {
		p.received += int64(n)
		p.fn(Progress{Received: p.received, Total: p.total})
	}
	return n, err
}

func (p *progressReader) Close() error { return p.rc.Close() }
