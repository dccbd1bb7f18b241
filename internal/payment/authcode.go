package payment

import (
	"crypto/md5"
	"encoding/hex"
	"net/url"
	"strings"
)

// ReturnAuthcodeKey is the query parameter carrying the gateway's digest on
// return and notify requests.
const ReturnAuthcodeKey = "RETURN_AUTHCODE"

// PaidKey is present in the return parameters only when the order was paid.
const PaidKey = "PAID"

// returnParamOrder is the canonical parameter order the gateway signs.
var returnParamOrder = []string{"ORDER_NUMBER", "TIMESTAMP", PaidKey, "METHOD", ReturnAuthcodeKey}

// Param is a single return/notify parameter. The digest is computed over
// parameter values in sequence, so order matters and a plain Go map cannot
// represent the input.
type Param struct {
	Key   string
	Value string
}

// Params is an ordered parameter list as handed over by the gateway.
type Params []Param

// Get returns the value of the first parameter with the given key.
func (p Params) Get(key string) (string, bool) {
	for _, param := range p {
		if param.Key == key {
			return param.Value, true
		}
	}
	return "", false
}

// ParseReturnParams extracts the gateway return parameters from a query in
// their canonical order. Absent parameters are skipped, which matches how
// the gateway signs: unpaid returns simply have fewer values in the digest.
func ParseReturnParams(query url.Values) Params {
	params := make(Params, 0, len(returnParamOrder))
	for _, key := range returnParamOrder {
		if !query.Has(key) {
			continue
		}
		params = append(params, Param{Key: key, Value: query.Get(key)})
	}
	return params
}

// CalculateAuthcode computes the digest the gateway attaches to return and
// notify requests: parameter values joined with "|", the merchant secret as
// the final value, MD5 over the UTF-8 bytes, uppercase hex. Any
// RETURN_AUTHCODE parameter is excluded, the field cannot be part of its
// own digest.
//
// MD5 is fixed by the gateway wire contract and kept for bit-exact
// compatibility only.
func CalculateAuthcode(params Params, secret string) string {
	values := make([]string, 0, len(params)+1)
	for _, p := range params {
		if p.Key == ReturnAuthcodeKey {
			continue
		}
		values = append(values, p.Value)
	}
	values = append(values, secret)

	sum := md5.Sum([]byte(strings.Join(values, "|")))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

// VerifyAuthcode recomputes the digest over params and compares it against
// the RETURN_AUTHCODE value they carry. A missing RETURN_AUTHCODE means the
// parameters are not authentic, not an error.
func VerifyAuthcode(params Params, merchant Merchant) bool {
	received, ok := params.Get(ReturnAuthcodeKey)
	if !ok {
		return false
	}
	return received == CalculateAuthcode(params, merchant.Secret)
}
