package payment

import "context"

// Format selects the wire format of the create-payment request. The values
// double as MIME types on the request headers.
type Format string

const (
	FormatJSON Format = "application/json"
	FormatXML  Format = "application/xml"
)

// Result is the gateway's answer to a successful payment creation.
type Result struct {
	Token string `json:"token"`
	URL   string `json:"url"`
}

// Gateway submits a payment aggregate to the hosted gateway and decodes
// the response. Implementations block until the round trip completes or
// the context is cancelled.
type Gateway interface {
	Submit(ctx context.Context, p *Payment) (*Result, error)
}
