package payment

import (
	"encoding/json"
	"strconv"

	"paytrail-rest/internal/transport"
)

// PaymentOptions carries the optional order attributes. Zero values fall
// back to the gateway defaults at serialization time.
type PaymentOptions struct {
	Description     string
	Currency        string // default "EUR"
	Locale          string // default "fi_FI"
	SuccessURL      string
	FailureURL      string
	NotificationURL string
	IncludeVat      string // "1" or "0", default "1"

	// Request is used to derive default return URLs when the explicit
	// ones above are empty.
	Request transport.RequestContext
}

// Payment is the order aggregate submitted to the gateway. It is in
// exactly one of two modes: a fixed total price, or an itemized order with
// optional contact data. Price mode wins in serialization; customer and
// products are never emitted alongside a price.
type Payment struct {
	OrderNumber string
	Options     PaymentOptions
	Customer    *Customer
	Products    []Product
	Price       *float64
}

func NewPayment(orderNumber string, opts PaymentOptions, customer *Customer, products []Product, price *float64) *Payment {
	return &Payment{
		OrderNumber: orderNumber,
		Options:     opts,
		Customer:    customer,
		Products:    products,
		Price:       price,
	}
}

type urlSetBody struct {
	Success      string `json:"success"`
	Failure      string `json:"failure"`
	Pending      string `json:"pending"`
	Notification string `json:"notification"`
}

type addressBody struct {
	Street       string `json:"street"`
	PostalCode   string `json:"postalCode"`
	PostalOffice string `json:"postalOffice"`
	Country      string `json:"country"`
}

type contactBody struct {
	Telephone   string      `json:"telephone"`
	Mobile      string      `json:"mobile"`
	Email       string      `json:"email"`
	FirstName   string      `json:"firstName"`
	LastName    string      `json:"lastName"`
	CompanyName string      `json:"companyName"`
	Address     addressBody `json:"address"`
}

type productBody struct {
	Title    string  `json:"title"`
	Code     string  `json:"code"`
	Amount   float64 `json:"amount"`
	Price    float64 `json:"price"`
	Vat      float64 `json:"vat"`
	Discount float64 `json:"discount"`
	Type     int     `json:"type"`
}

type orderDetailsBody struct {
	IncludeVat string        `json:"includeVat"`
	Contact    *contactBody  `json:"contact"`
	Products   []productBody `json:"products"`
}

type paymentBody struct {
	OrderNumber  string            `json:"orderNumber"`
	Description  string            `json:"description"`
	Currency     string            `json:"currency"`
	Locale       string            `json:"locale"`
	URLSet       urlSetBody        `json:"urlSet"`
	Price        *float64          `json:"price,omitempty"`
	OrderDetails *orderDetailsBody `json:"orderDetails,omitempty"`
}

// JSON renders the aggregate as the gateway's JSON request body.
func (p *Payment) JSON() ([]byte, error) {
	body := paymentBody{
		OrderNumber: p.OrderNumber,
		Description: p.Options.Description,
		Currency:    p.currency(),
		Locale:      p.locale(),
		URLSet: urlSetBody{
			Success:      p.successURL(),
			Failure:      p.failureURL(),
			Pending:      "",
			Notification: p.notificationURL(),
		},
	}

	if p.Price != nil {
		body.Price = p.Price
		return json.Marshal(body)
	}

	details := &orderDetailsBody{
		IncludeVat: p.includeVat(),
		Products:   make([]productBody, 0, len(p.Products)),
	}

	if p.Customer != nil {
		details.Contact = &contactBody{
			Telephone:   p.Customer.Telephone,
			Mobile:      p.Customer.Mobile,
			Email:       p.Customer.Email,
			FirstName:   p.Customer.FirstName,
			LastName:    p.Customer.LastName,
			CompanyName: p.Customer.CompanyName,
			Address: addressBody{
				Street:       p.Customer.Street,
				PostalCode:   p.Customer.PostalCode,
				PostalOffice: p.Customer.PostalOffice,
				Country:      p.Customer.Country,
			},
		}
	}

	for _, product := range p.Products {
		details.Products = append(details.Products, productBody{
			Title:    product.Title,
			Code:     product.Code,
			Amount:   product.Amount,
			Price:    product.Price,
			Vat:      product.Vat,
			Discount: product.Discount,
			Type:     int(product.Type),
		})
	}

	body.OrderDetails = details
	return json.Marshal(body)
}

// XML renders the aggregate as the gateway's XML request body, structurally
// mirroring the JSON shape.
func (p *Payment) XML() (string, error) {
	type productRow struct {
		Title, Code, Amount, Price, Vat, Discount, Type string
	}

	rows := make([]productRow, 0, len(p.Products))
	for _, product := range p.Products {
		rows = append(rows, productRow{
			Title:    product.Title,
			Code:     product.Code,
			Amount:   formatAmount(product.Amount),
			Price:    formatAmount(product.Price),
			Vat:      formatAmount(product.Vat),
			Discount: formatAmount(product.Discount),
			Type:     strconv.Itoa(int(product.Type)),
		})
	}

	price := ""
	if p.Price != nil {
		price = formatAmount(*p.Price)
	}

	return RenderTemplate("payment-xml", map[string]any{
		"OrderNumber":     p.OrderNumber,
		"Description":     p.Options.Description,
		"Currency":        p.currency(),
		"Locale":          p.locale(),
		"SuccessURL":      p.successURL(),
		"FailureURL":      p.failureURL(),
		"NotificationURL": p.notificationURL(),
		"Price":           price,
		"IncludeVat":      p.includeVat(),
		"Contact":         p.Customer,
		"Products":        rows,
	})
}

func (p *Payment) currency() string {
	if p.Options.Currency == "" {
		return "EUR"
	}
	return p.Options.Currency
}

func (p *Payment) locale() string {
	if p.Options.Locale == "" {
		return "fi_FI"
	}
	return p.Options.Locale
}

func (p *Payment) includeVat() string {
	if p.Options.IncludeVat == "" {
		return "1"
	}
	return p.Options.IncludeVat
}

func (p *Payment) successURL() string {
	if p.Options.SuccessURL != "" {
		return p.Options.SuccessURL
	}
	return p.Options.Request.BaseURL() + "success"
}

func (p *Payment) failureURL() string {
	if p.Options.FailureURL != "" {
		return p.Options.FailureURL
	}
	return p.Options.Request.BaseURL() + "failure"
}

func (p *Payment) notificationURL() string {
	if p.Options.NotificationURL != "" {
		return p.Options.NotificationURL
	}
	return p.Options.Request.BaseURL() + "notify"
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
