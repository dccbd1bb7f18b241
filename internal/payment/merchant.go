package payment

// Merchant identifies the shop towards the gateway. The ID and secret are
// issued by Paytrail; the secret is used for HTTP basic auth and authcode
// keying and is never part of any outbound payload.
type Merchant struct {
	ID     string
	Secret string
}

func NewMerchant(id, secret string) Merchant {
	return Merchant{ID: id, Secret: secret}
}
