package payment

import "context"

// maxProductRows is the gateway's per-payment product row limit.
const maxProductRows = 500

// OrderBuilder accumulates an order and turns it into a Payment. An order
// carries either a fixed total price or itemized products; whichever is
// added first blocks the other until the builder is discarded. Customer
// data only makes sense together with products.
//
// A builder serves exactly one payment and is not safe for concurrent use;
// create one per in-flight payment.
type OrderBuilder struct {
	merchant Merchant

	customer *Customer
	products []Product
	price    *float64

	payment *Payment
	format  Format
}

func NewOrderBuilder(merchant Merchant) *OrderBuilder {
	return &OrderBuilder{merchant: merchant}
}

// AddCustomer attaches contact information to the order. It is validated
// against the price/products rules when a price is added or the payment is
// created.
func (b *OrderBuilder) AddCustomer(customer Customer) {
	b.customer = &customer
}

// AddProducts sets the order's product rows, replacing any previous ones.
func (b *OrderBuilder) AddProducts(products []Product) error {
	if b.price != nil {
		return &ProductError{Reason: "either price or products must be added, not both"}
	}
	if len(products) >= maxProductRows {
		return &ProductError{Reason: "the gateway can only handle up to 500 different product rows, group products using the product amount"}
	}

	b.products = products
	return nil
}

// AddPrice sets the order's total price.
func (b *OrderBuilder) AddPrice(price float64) error {
	if len(b.products) > 0 {
		return &ProductError{Reason: "either price or products must be added, not both"}
	}
	if b.customer != nil {
		return &ValidationError{Reason: "customer information needs product information"}
	}

	b.price = &price
	return nil
}

// CreatePayment freezes the accumulated order into a Payment with the
// requested wire format. Later AddPrice/AddProducts calls do not affect
// the created payment.
func (b *OrderBuilder) CreatePayment(orderNumber string, opts PaymentOptions, format Format) error {
	if b.price == nil && len(b.products) == 0 {
		return &ProductError{Reason: "payment must have price or at least one product"}
	}

	b.format = format
	b.payment = NewPayment(orderNumber, opts, b.customer, b.products, b.price)
	return nil
}

// PaymentLink submits the created payment and returns the gateway's
// redirect URL. A nil gateway submits through the default RestGateway.
func (b *OrderBuilder) PaymentLink(ctx context.Context, gateway Gateway) (string, error) {
	result, err := b.submit(ctx, gateway)
	if err != nil {
		return "", err
	}
	return result.URL, nil
}

// PaymentWidget submits the created payment and returns an embeddable HTML
// snippet bootstrapping the gateway's payment widget with the returned
// token.
func (b *OrderBuilder) PaymentWidget(ctx context.Context, gateway Gateway) (string, error) {
	result, err := b.submit(ctx, gateway)
	if err != nil {
		return "", err
	}

	return RenderTemplate("payment-widget", map[string]string{
		"WidgetURL": WidgetURL,
		"Token":     result.Token,
	})
}

func (b *OrderBuilder) submit(ctx context.Context, gateway Gateway) (*Result, error) {
	if b.payment == nil {
		return nil, &ValidationError{Reason: "no valid payment found"}
	}
	if gateway == nil {
		gateway = NewRestGateway(b.merchant, b.format)
	}
	return gateway.Submit(ctx, b.payment)
}

// ReturnAuthcodeIsValid reports whether the return/notify parameters carry
// an authcode computed with this builder's merchant secret.
func (b *OrderBuilder) ReturnAuthcodeIsValid(params Params) bool {
	return VerifyAuthcode(params, b.merchant)
}

// IsPaid reports whether verified return parameters describe a paid order.
// The current API generation marks payment by the presence of the PAID
// parameter; the deprecated METHOD+TIMESTAMP heuristic is not supported.
// Callers must check ReturnAuthcodeIsValid first.
func (b *OrderBuilder) IsPaid(params Params) bool {
	_, ok := params.Get(PaidKey)
	return ok
}
