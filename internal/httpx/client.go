// Package httpx builds the outbound HTTP clients shared by the exchange,
// market data, news and Telegram collaborators.
package httpx

import (
	"net/http"
	"net/url"
	"time"
)

// NewClient returns a client with the given timeout that routes through
// proxyURL when it is set. An unparsable proxy is ignored.
func NewClient(proxyURL string, timeout time.Duration) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}
