package httpclient

// RequestOption customizes a single request.
type RequestOption func(*requestOptions)

type requestOptions struct {
	query         map[string]string
	pathParams    map[string]string
	headers       map[string]string
	trackDownload bool
}

// WithQuery adds a query string parameter.
func WithQuery(key, value string) RequestOption {
	return func(o *requestOptions) {
		if o.query == nil {
			o.query = make(map[string]string)
		}
		o.query[key] = value
	}
}

// WithPathParam fills a {key} placeholder in the request path. The value is escaped.
func WithPathParam(key, value string) RequestOption {
	return func(o *requestOptions) {
		if o.pathParams == nil {
			o.pathParams = make(map[string]string)
		}
		o.pathParams[key] = value
	}
}

// WithHeader sets a header on top of the client defaults.
func WithHeader(key, value string) RequestOption {
	return func(o *requestOptions) {
		if o.headers == nil {
			o.headers = make(map[string]string)
		}
		o.headers[key] = value
	}
}

// WithDownloadProgress routes body read progress to Hooks.OnDownloadProgress.
func WithDownloadProgress() RequestOption {
	return func(o *requestOptions) { o.trackDownload = true }
}

func buildOptions(opts []RequestOption) requestOptions {
	var o requestOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}
