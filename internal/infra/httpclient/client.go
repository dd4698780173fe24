package httpclient

import (
	"net"
	"net/http"

	"github.com/uniedit/uploader/internal/infra/config"
)

// New creates a new HTTP client for short JSON calls.
func New(cfg config.HTTPClientConfig) *http.Client {
	return &http.Client{
		Transport: newTransport(cfg),
		Timeout:   cfg.ResponseTimeout,
	}
}

// NewUploadClient creates a client for object transfers. It has no overall
// timeout because a large body may take longer than any fixed bound;
// callers bound transfers through the request context.
func NewUploadClient(cfg config.HTTPClientConfig) *http.Client {
	return &http.Client{
		Transport: newTransport(cfg),
	}
}

func newTransport(cfg config.HTTPClientConfig) *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   cfg.DialTimeout,
			KeepAlive: cfg.KeepAlive,
		}).DialContext,
		MaxIdleConns:          cfg.MaxIdleConns,
		MaxIdleConnsPerHost:   cfg.MaxIdleConnsPerHost,
		MaxConnsPerHost:       cfg.MaxConnsPerHost,
		IdleConnTimeout:       cfg.IdleConnTimeout,
		TLSHandshakeTimeout:   cfg.TLSHandshakeTimeout,
		ResponseHeaderTimeout: cfg.ResponseTimeout,
		ForceAttemptHTTP2:     true,
	}
}
