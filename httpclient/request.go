package httpclient

// Request describes an outbound API call.
type Request struct {
	// Method is the HTTP method (GET, POST, PUT, PATCH, DELETE).
	Method string
	// Path is appended to the client's BaseURL. Callers escape path segments.
	Path string
	// Query are URL query parameters.
	Query map[string]string
	// Headers are request-specific headers (merged with client defaults).
	Headers map[string]string
	// Body is JSON-encoded with snake_case keys. Nil sends no body.
	Body any
	// SkipAuth omits the Authorization header even when a token is stored.
	// Login, signup and refresh set it.
	SkipAuth bool
}

// Response is the raw result of a completed exchange.
type Response struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Headers are the response headers.
	Headers map[string]string
	// Body is the raw response body.
	Body []byte
}

// IsSuccess returns true if the status code is 2xx.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// RequestOption configures a single request.
type RequestOption func(*Request)

// WithQuery merges query parameters into the request.
func WithQuery(params map[string]string) RequestOption {
	return func(r *Request) {
		for k, v := range params {
			WithQueryParam(k, v)(r)
		}
	}
}

// WithQueryParam adds a query parameter to the request.
func WithQueryParam(key, value string) RequestOption {
	return func(r *Request) {
		if r.Query == nil {
			r.Query = make(map[string]string)
		}
		r.Query[key] = value
	}
}

// WithHeader adds a header to the request.
func WithHeader(key, value string) RequestOption {
	return func(r *Request) {
		if r.Headers == nil {
			r.Headers = make(map[string]string)
		}
		r.Headers[key] = value
	}
}

// WithoutAuth sends the request without a bearer token.
func WithoutAuth() RequestOption {
	return func(r *Request) {
		r.SkipAuth = true
	}
}
