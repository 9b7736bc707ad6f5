package tool

import (
	"net/http"
	"time"
)

var (
	// DefaultTimeout is zero on purpose: a memory refresh can legitimately
	// take minutes, and an unresponsive backend is surfaced by the UI rather
	// than by a client-side deadline.
	DefaultTimeout       time.Duration = 0
	ConnectionHttpClient *http.Client
)

func init() {
	ConnectionHttpClient = NewHTTPClient()
}

// NewHTTPClient creates the HTTP client used for backend requests.
func NewHTTPClient() *http.Client {
	transport := &http.Transport{
		MaxIdleConns:        50,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		DisableKeepAlives:   false,
	}
	return &http.Client{
		Timeout:   DefaultTimeout,
		Transport: transport,
	}
}

func GetHttpClient() *http.Client {
	return ConnectionHttpClient
}
