package httpclient

import (
	"net"
	"net/http"
	"time"
)

// NewHttpClient returns the shared transport used for outbound probes and
// notification webhooks. Per-request deadlines come from the caller's
// context, so the client itself carries no overall Timeout.
func NewHttpClient() *http.Client {
	dialer := &net.Dialer{
		Timeout:   5 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,

		MaxIdleConns:        1000,
		MaxIdleConnsPerHost: 20,
		IdleConnTimeout:     90 * time.Second,
	}

	return &http.Client{
		Transport: transport,
	}
}

// NewNotifierClient bounds each alert delivery with an overall timeout.
func NewNotifierClient(timeout time.Duration) *http.Client {
	c := NewHttpClient()
	c.Timeout = timeout
	return c
}
