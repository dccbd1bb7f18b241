package payment

import "fmt"

// ProductType is the gateway's line-item kind.
type ProductType int

const (
	TypeNormal   ProductType = 1
	TypePostal   ProductType = 2
	TypeHandling ProductType = 3
)

// DefaultVat is the Finnish standard VAT percentage the gateway assumes
// when a product row does not carry its own.
const DefaultVat = 24.0

// Customer holds the contact information attached to an itemized order.
// Every field is optional.
type Customer struct {
	FirstName    string
	LastName     string
	Email        string
	Street       string
	PostalCode   string
	PostalOffice string
	Country      string
	Telephone    string
	Mobile       string
	CompanyName  string
}

// NewCustomer builds a customer from a loose field map. Unknown keys are
// ignored, missing keys default to empty strings.
func NewCustomer(fields map[string]string) Customer {
	return Customer{
		FirstName:    fields["firstName"],
		LastName:     fields["lastName"],
		Email:        fields["email"],
		Street:       fields["street"],
		PostalCode:   fields["postalCode"],
		PostalOffice: fields["postalOffice"],
		Country:      fields["country"],
		Telephone:    fields["telephone"],
		Mobile:       fields["mobile"],
		CompanyName:  fields["companyName"],
	}
}

// Product is a single order row. Title and price are mandatory, the rest
// fall back to gateway defaults.
type Product struct {
	Title    string
	Price    float64
	Amount   float64
	Type     ProductType
	Vat      float64
	Discount float64
	Code     string
}

// NewProduct builds a product row from a loose field map. It returns a
// ProductError when title or price is missing.
func NewProduct(fields map[string]any) (Product, error) {
	title, hasTitle := fields["title"].(string)
	price, hasPrice := toFloat(fields["price"])
	if !hasTitle || !hasPrice {
		return Product{}, &ProductError{Reason: "title and price are mandatory"}
	}

	p := Product{
		Title:    title,
		Price:    price,
		Amount:   1,
		Type:     TypeNormal,
		Vat:      DefaultVat,
		Discount: 0,
	}

	if v, ok := toFloat(fields["amount"]); ok {
		p.Amount = v
	}
	if v, ok := toFloat(fields["type"]); ok {
		p.Type = ProductType(v)
	}
	if v, ok := toFloat(fields["vat"]); ok {
		p.Vat = v
	}
	if v, ok := toFloat(fields["discount"]); ok {
		p.Discount = v
	}
	if v, ok := fields["code"].(string); ok {
		p.Code = v
	}

	return p, nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case ProductType:
		return float64(n), true
	}
	return 0, false
}

func (t ProductType) String() string {
	switch t {
	case TypeNormal:
		return "normal"
	case TypePostal:
		return "postal"
	case TypeHandling:
		return "handling"
	}
	return fmt.Sprintf("ProductType(%d)", int(t))
}
