package util

import (
	"net/http"
	"net/url"
)

// NewProxyFunc returns a proxy function for an http.Transport.
// With no proxy URLs configured it defers to the environment.
func NewProxyFunc(httpProxy, httpsProxy string) func(*http.Request) (*url.URL, error) {
	if httpProxy == "" && httpsProxy == "" {
		return http.ProxyFromEnvironment
	}

	return func(req *http.Request) (*url.URL, error) {
		if req.URL.Scheme == "https" && httpsProxy != "" {
			return url.Parse(httpsProxy)
		}
		if httpProxy != "" {
			return url.Parse(httpProxy)
		}
		return http.ProxyFromEnvironment(req)
	}
}
