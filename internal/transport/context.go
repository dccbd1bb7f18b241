package transport

import (
	"fmt"
	"net/http"
)

// RequestContext captures where the current merchant request came from.
// Default return URLs are derived from it when the caller does not supply
// explicit ones; passing it in keeps the payment code free of ambient
// request state.
type RequestContext struct {
	Scheme string
	Host   string
	Path   string
}

// FromRequest builds a RequestContext from an inbound merchant request.
func FromRequest(r *http.Request) RequestContext {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return RequestContext{
		Scheme: scheme,
		Host:   r.Host,
		Path:   r.URL.Path,
	}
}

// BaseURL renders the context as scheme://host/path. Return URL suffixes
// are appended to it directly, without a separator, matching the gateway
// module's historical behaviour.
func (c RequestContext) BaseURL() string {
	if c.Host == "" {
		return ""
	}
	return fmt.Sprintf("%s://%s%s", c.Scheme, c.Host, c.Path)
}
