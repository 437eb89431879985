package http

import (
	"net"
	"net/http"
	"time"
)

// TransportFunc wraps a round tripper, e.g. to add headers or logging.
type TransportFunc func(http.RoundTripper) http.RoundTripper

// HttpOpts tunes the client a Connector is built with.
type HttpOpts func(*clientConfig)

type clientConfig struct {
	dialTimeout           time.Duration
	keepAlive             time.Duration
	requestTimeout        time.Duration
	responseHeaderTimeout time.Duration
	idleConnTimeout       time.Duration
	wrappers              []TransportFunc
}

// Completion calls are slow; the defaults leave room for long generations.
func defaultClientConfig() clientConfig {
	return clientConfig{
		dialTimeout:           10 * time.Second,
		keepAlive:             90 * time.Second,
		requestTimeout:        2 * time.Minute,
		responseHeaderTimeout: 110 * time.Second,
		idleConnTimeout:       90 * time.Second,
	}
}

// WithConnClientTimeout bounds dialing a connection.
func WithConnClientTimeout(timeout time.Duration) HttpOpts {
	return func(c *clientConfig) {
		if timeout > 0 {
			c.dialTimeout = timeout
		}
	}
}

// WithRequestTimeout bounds a whole request, body included.
func WithRequestTimeout(timeout time.Duration) HttpOpts {
	return func(c *clientConfig) {
		if timeout > 0 {
			c.requestTimeout = timeout
		}
	}
}

func WithClientKeepAlive(keepAlive time.Duration) HttpOpts {
	return func(c *clientConfig) {
		if keepAlive > 0 {
			c.keepAlive = keepAlive
		}
	}
}

func WithResponseHeaderTimeout(timeout time.Duration) HttpOpts {
	return func(c *clientConfig) {
		if timeout > 0 {
			c.responseHeaderTimeout = timeout
		}
	}
}

func WithIdleConnTimeout(timeout time.Duration) HttpOpts {
	return func(c *clientConfig) {
		if timeout > 0 {
			c.idleConnTimeout = timeout
		}
	}
}

// WithTransport adds a wrapper; wrappers apply in order, the last one outermost.
func WithTransport(wrap TransportFunc) HttpOpts {
	return func(c *clientConfig) {
		c.wrappers = append(c.wrappers, wrap)
	}
}

func newClient(opts ...HttpOpts) *http.Client {
	cfg := defaultClientConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	dialer := &net.Dialer{
		Timeout:   cfg.dialTimeout,
		KeepAlive: cfg.keepAlive,
	}

	var transport http.RoundTripper = &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: cfg.responseHeaderTimeout,
		IdleConnTimeout:       cfg.idleConnTimeout,
	}
	for _, wrap := range cfg.wrappers {
		transport = wrap(transport)
	}

	return &http.Client{
		Timeout:   cfg.requestTimeout,
		Transport: transport,
	}
}
