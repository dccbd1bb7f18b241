package payment

import (
	"strings"
	"text/template"
)

// WidgetURL is the embeddable payment widget script served by the gateway.
const WidgetURL = "https://payment.paytrail.com/js/payment-widget-v1.0.min.js"

const paymentXMLTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<payment>
<orderNumber>{{esc .OrderNumber}}</orderNumber>
<description>{{esc .Description}}</description>
<currency>{{esc .Currency}}</currency>
<locale>{{esc .Locale}}</locale>
<urlSet>
<success>{{esc .SuccessURL}}</success>
<failure>{{esc .FailureURL}}</failure>
<pending></pending>
<notification>{{esc .NotificationURL}}</notification>
</urlSet>
{{- if .Price}}
<price>{{.Price}}</price>
{{- else}}
<orderDetails>
<includeVat>{{esc .IncludeVat}}</includeVat>
{{- if .Contact}}
<contact>
<telephone>{{esc .Contact.Telephone}}</telephone>
<mobile>{{esc .Contact.Mobile}}</mobile>
<email>{{esc .Contact.Email}}</email>
<firstName>{{esc .Contact.FirstName}}</firstName>
<lastName>{{esc .Contact.LastName}}</lastName>
<companyName>{{esc .Contact.CompanyName}}</companyName>
<address>
<street>{{esc .Contact.Street}}</street>
<postalCode>{{esc .Contact.PostalCode}}</postalCode>
<postalOffice>{{esc .Contact.PostalOffice}}</postalOffice>
<country>{{esc .Contact.Country}}</country>
</address>
</contact>
{{- end}}
<products>
{{- range .Products}}
<product>
<title>{{esc .Title}}</title>
<code>{{esc .Code}}</code>
<amount>{{.Amount}}</amount>
<price>{{.Price}}</price>
<vat>{{.Vat}}</vat>
<discount>{{.Discount}}</discount>
<type>{{.Type}}</type>
</product>
{{- end}}
</products>
</orderDetails>
{{- end}}
</payment>
`

const paymentWidgetTemplate = `<p id="paytrailPayment"></p>
<script type="text/javascript" src="{{.WidgetURL}}"></script>
<script type="text/javascript">
    SV.widget.initWithToken('paytrailPayment','{{.Token}}', {charset: 'UTF-8'});
</script>
`

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

var templates = template.Must(
	template.New("payment").
		Funcs(template.FuncMap{"esc": xmlEscaper.Replace}).
		Parse(`{{define "payment-xml"}}` + paymentXMLTemplate + `{{end}}` +
			`{{define "payment-widget"}}` + paymentWidgetTemplate + `{{end}}`),
)

// RenderTemplate renders the named template with the given field map. It
// returns a TemplateError when no template with that name exists.
func RenderTemplate(name string, data any) (string, error) {
	tmpl := templates.Lookup(name)
	if tmpl == nil {
		return "", &TemplateError{Name: name}
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
