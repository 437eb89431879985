package http

import "net/http"

// authTransport sets one credential header on every outgoing request.
type authTransport struct {
	header    string
	value     string
	transport http.RoundTripper
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	reqCopy := req.Clone(req.Context())

	if t.value != "" {
		reqCopy.Header.Set(t.header, t.value)
	}

	return t.transport.RoundTrip(reqCopy)
}

// WithAuthToken sends "Authorization: Bearer <token>".
func WithAuthToken(token string) HttpOpts {
	value := ""
	if token != "" {
		value = "Bearer " + token
	}
	return WithAuthHeader("Authorization", value)
}

// WithAuthHeader sends a fixed credential header, e.g. an API key. Empty values are not sent.
func WithAuthHeader(header, value string) HttpOpts {
	return WithTransport(func(rt http.RoundTripper) http.RoundTripper {
		return &authTransport{
			header:    header,
			value:     value,
			transport: rt,
		}
	})
}
