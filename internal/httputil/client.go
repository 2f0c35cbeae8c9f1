// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across commands.
package httputil

import (
	"crypto/tls"
	"net/http"
	"time"
)

// NewClient builds the HTTP client used for all content API calls and asset
// downloads. When insecure is true, TLS certificate verification is disabled;
// self-hosted instances behind private certificate authorities need this.
// Redirects are followed by the default policy; requests are never retried.
func NewClient(timeout time.Duration, insecure bool) *http.Client {
	client := &http.Client{Timeout: timeout}
	if insecure {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
		client.Transport = transport
	}
	return client
}
