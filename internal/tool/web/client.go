package web

import (
	"context"
	"net"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/net/proxy"
)

// NewHTTPClient builds the client used by the fetch tool. proxyURL may be
// empty (environment proxies apply), http(s)://host:port, or socks5://host:port.
func NewHTTPClient(proxyURL string, timeout time.Duration) (*http.Client, error) {
	direct := &net.Dialer{Timeout: 10 * time.Second, KeepAlive: 30 * time.Second}
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           direct.DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: timeout,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
	}

	if proxyURL != "" {
		u, err := url.Parse(proxyURL)
		if err != nil {
			return nil, &ProxyError{URL: proxyURL, Cause: err}
		}
		switch u.Scheme {
		case "http", "https":
			transport.Proxy = http.ProxyURL(u)
		default:
			if u.Scheme == "socks" {
				u.Scheme = "socks5"
			}
			d, err := proxy.FromURL(u, direct)
			if err != nil {
				return nil, &ProxyError{URL: proxyURL, Cause: err}
			}
			transport.Proxy = nil
			if cd, ok := d.(proxy.ContextDialer); ok {
				transport.DialContext = cd.DialContext
			} else {
				transport.DialContext = func(_ context.Context, network, addr string) (net.Conn, error) {
					return d.Dial(network, addr)
				}
			}
		}
	}

	return &http.Client{Transport: transport, Timeout: timeout}, nil
}
