package provider

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/hashicorp/go-cleanhttp"
)

// Version of the connector, stamped into the outbound user agent.
const Version = "1.2.0"

// userAgentTransport stamps an identifying User-Agent header on every
// outbound request. Okta support asks for this when tracing misbehaving
// integrations, and the bare library default tells them nothing.
type userAgentTransport struct {
	userAgent string
	next      http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	clone.Header.Set("User-Agent", t.userAgent)
	return t.next.RoundTrip(clone)
}

// newHTTPClient returns the client used for all provider calls: pooled
// transport, identifying user agent, and the configured timeout as a hard
// upper bound.
func newHTTPClient(appName string, timeout time.Duration) *http.Client {
	client := cleanhttp.DefaultPooledClient()
	client.Timeout = timeout
	client.Transport = &userAgentTransport{
		userAgent: UserAgent(appName),
		next:      client.Transport,
	}
	return client
}

// UserAgent returns the user-agent string identifying this plugin by
// name/version plus runtime and platform.
func UserAgent(appName string) string {
	if appName == "" {
		appName = "okta-connector"
	}
	return fmt.Sprintf("%s/%s %s (%s; %s)", appName, Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
