package payment

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"paytrail-rest/internal/logger"
)

// ServiceURL is the gateway's fixed payment-creation endpoint.
const ServiceURL = "https://payment.paytrail.com/api-payment/create"

const (
	apiVersionHeader = "X-Verkkomaksut-Api-Version"
	apiVersion       = "1"

	defaultConnectTimeout = 15 * time.Second
	defaultTotalTimeout   = 30 * time.Second
)

// RestGateway is the default Gateway over HTTPS. TLS verification is on;
// the historical module disabled it, which is not carried over.
type RestGateway struct {
	merchant   Merchant
	format     Format
	serviceURL string
	client     *resty.Client
}

type GatewayOption func(*RestGateway)

// WithServiceURL points the gateway at a non-default endpoint, e.g. a test
// double.
func WithServiceURL(url string) GatewayOption {
	return func(g *RestGateway) {
		g.serviceURL = url
	}
}

// WithTimeouts overrides the connect and total round-trip timeouts.
func WithTimeouts(connect, total time.Duration) GatewayOption {
	return func(g *RestGateway) {
		g.client.
			SetTimeout(total).
			SetTransport(newTransport(connect))
	}
}

// WithTransport replaces the HTTP transport, used by tests to stub the
// gateway.
func WithTransport(rt http.RoundTripper) GatewayOption {
	return func(g *RestGateway) {
		g.client.SetTransport(rt)
	}
}

func NewRestGateway(merchant Merchant, format Format, opts ...GatewayOption) *RestGateway {
	g := &RestGateway{
		merchant:   merchant,
		format:     format,
		serviceURL: ServiceURL,
		client: resty.New().
			SetTimeout(defaultTotalTimeout).
			SetTransport(newTransport(defaultConnectTimeout)),
	}

	for _, opt := range opts {
		opt(g)
	}
	return g
}

func newTransport(connectTimeout time.Duration) *http.Transport {
	return &http.Transport{
		DialContext: (&net.Dialer{Timeout: connectTimeout}).DialContext,
	}
}

// Submit POSTs the serialized aggregate to the gateway. Exactly HTTP 201
// counts as success; anything else is surfaced as a ConnectionError with
// the error body parsed according to its content type.
func (g *RestGateway) Submit(ctx context.Context, p *Payment) (*Result, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("order_number", p.OrderNumber),
		zap.String("format", string(g.format)),
	)

	body, err := g.requestBody(p)
	if err != nil {
		return nil, err
	}

	log.Info("sending create payment request", zap.String("url", g.serviceURL))

	resp, err := g.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", string(g.format)).
		SetHeader("Accept", string(g.format)).
		SetHeader(apiVersionHeader, apiVersion).
		SetBasicAuth(g.merchant.ID, g.merchant.Secret).
		SetBody(body).
		Post(g.serviceURL)
	if err != nil {
		log.Error("gateway request failed", zap.Error(err))
		return nil, &ConnectionError{Message: "gateway unreachable", Err: err}
	}

	contentType := resp.Header().Get("Content-Type")

	if resp.StatusCode() != http.StatusCreated {
		message, code := decodeGatewayError(resp.Body(), contentType)
		log.Error("gateway rejected payment",
			zap.Int("status", resp.StatusCode()),
			zap.String("error_code", code),
		)
		return nil, &ConnectionError{Message: message, Code: code}
	}

	result, err := decodeGatewayResult(resp.Body(), contentType)
	if err != nil {
		log.Error("malformed gateway response", zap.Error(err))
		return nil, err
	}

	log.Info("payment created", zap.String("token", result.Token))
	return result, nil
}

func (g *RestGateway) requestBody(p *Payment) ([]byte, error) {
	if g.format == FormatXML {
		doc, err := p.XML()
		if err != nil {
			return nil, err
		}
		return []byte(doc), nil
	}
	return p.JSON()
}

type xmlResult struct {
	Token string `xml:"token"`
	URL   string `xml:"url"`
}

func decodeGatewayResult(body []byte, contentType string) (*Result, error) {
	if isXML(contentType) {
		var res xmlResult
		if err := xml.Unmarshal(body, &res); err != nil {
			return nil, &ConnectionError{Message: "malformed gateway response", Err: err}
		}
		return &Result{Token: res.Token, URL: res.URL}, nil
	}

	var res Result
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, &ConnectionError{Message: "malformed gateway response", Err: err}
	}
	return &res, nil
}

type xmlError struct {
	ErrorMessage string `xml:"errorMessage"`
	ErrorCode    string `xml:"errorCode"`
}

func decodeGatewayError(body []byte, contentType string) (message, code string) {
	if isXML(contentType) {
		var res xmlError
		if err := xml.Unmarshal(body, &res); err != nil || res.ErrorMessage == "" {
			return string(body), ""
		}
		return res.ErrorMessage, res.ErrorCode
	}

	var res struct {
		ErrorMessage string          `json:"errorMessage"`
		ErrorCode    json.RawMessage `json:"errorCode"`
	}
	if err := json.Unmarshal(body, &res); err != nil || res.ErrorMessage == "" {
		return string(body), ""
	}
	return res.ErrorMessage, strings.Trim(string(res.ErrorCode), `"`)
}

func isXML(contentType string) bool {
	return strings.Contains(contentType, "xml")
}
