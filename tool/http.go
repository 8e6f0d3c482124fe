package tool

import (
	"crypto/tls"
	"net/http"
	"time"
)

var (
	DefaultTimeout = 30 * time.Second
	// UploadTimeout is longer than the default: large files over slow uplinks.
	UploadTimeout = 10 * time.Minute

	connectionHttpClient *http.Client
	uploadHttpClient     *http.Client
)

func init() {
	connectionHttpClient = NewHTTPClient(DefaultTimeout)
	uploadHttpClient = NewHTTPClient(UploadTimeout)
}

// NewHTTPClient creates an HTTP client, skipping certificate verification so
// self-hosted archives with self-signed certificates keep working.
func NewHTTPClient(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		TLSClientConfig:     &tls.Config{InsecureSkipVerify: true},
		MaxIdleConns:        50,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		DisableKeepAlives:   false,
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

func GetHttpClient() *http.Client {
	return connectionHttpClient
}

func GetUploadHttpClient() *http.Client {
	return uploadHttpClient
}
