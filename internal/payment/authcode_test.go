package payment

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Merchant test credentials published with the original gateway module.
const (
	testMerchantID     = "13466"
	testMerchantSecret = "6pKF4jkv97zmqBJ3ZL8gUw5DfT2NMQ"
)

func testMerchant() Merchant {
	return NewMerchant(testMerchantID, testMerchantSecret)
}

func TestCalculateAuthcode(t *testing.T) {
	t.Run("KnownVectorUnpaid", func(t *testing.T) {
		params := Params{
			{Key: "ORDER_NUMBER", Value: "Test-Payment-1234"},
			{Key: "TIMESTAMP", Value: "1588058158"},
		}

		code := CalculateAuthcode(params, testMerchantSecret)
		assert.Equal(t, "B1370EB96F52DD1EDB2B3400807A6597", code)
	})

	t.Run("KnownVectorPaid", func(t *testing.T) {
		params := Params{
			{Key: "ORDER_NUMBER", Value: "Test-Payment-1234"},
			{Key: "TIMESTAMP", Value: "1588058042"},
			{Key: "PAID", Value: "da9974de9f"},
			{Key: "METHOD", Value: "1"},
		}

		code := CalculateAuthcode(params, testMerchantSecret)
		assert.Equal(t, "8D9F70E16ACC86876E0A2FF806B134C3", code)
	})

	t.Run("ReturnAuthcodeExcludedFromOwnDigest", func(t *testing.T) {
		params := Params{
			{Key: "ORDER_NUMBER", Value: "Test-Payment-1234"},
			{Key: "TIMESTAMP", Value: "1588058158"},
		}
		withBogus := append(Params{}, params...)
		withBogus = append(withBogus, Param{Key: ReturnAuthcodeKey, Value: "FFFF"})

		assert.Equal(t,
			CalculateAuthcode(params, testMerchantSecret),
			CalculateAuthcode(withBogus, testMerchantSecret),
		)
	})
}

func TestVerifyAuthcode(t *testing.T) {
	params := Params{
		{Key: "ORDER_NUMBER", Value: "Test-Payment-1234"},
		{Key: "TIMESTAMP", Value: "1588058042"},
		{Key: "PAID", Value: "da9974de9f"},
		{Key: "METHOD", Value: "1"},
	}

	t.Run("RoundTrip", func(t *testing.T) {
		signed := append(Params{}, params...)
		signed = append(signed, Param{
			Key:   ReturnAuthcodeKey,
			Value: CalculateAuthcode(params, testMerchantSecret),
		})

		assert.True(t, VerifyAuthcode(signed, testMerchant()))
	})

	t.Run("SingleCharacterFlip", func(t *testing.T) {
		code := CalculateAuthcode(params, testMerchantSecret)
		flipped := "0" + code[1:]
		if flipped == code {
			flipped = "1" + code[1:]
		}

		tampered := append(Params{}, params...)
		tampered = append(tampered, Param{Key: ReturnAuthcodeKey, Value: flipped})

		assert.False(t, VerifyAuthcode(tampered, testMerchant()))
	})

	t.Run("MissingAuthcodeIsNotAuthentic", func(t *testing.T) {
		assert.False(t, VerifyAuthcode(params, testMerchant()))
	})

	t.Run("MissingParameterChangesDigest", func(t *testing.T) {
		// ORDER_NUMBER dropped: the received authcode no longer matches.
		truncated := Params{
			{Key: "TIMESTAMP", Value: "1588058042"},
			{Key: "PAID", Value: "da9974de9f"},
			{Key: "METHOD", Value: "1"},
			{Key: ReturnAuthcodeKey, Value: "8D9F70E16ACC86876E0A2FF806B134C3"},
		}
		assert.False(t, VerifyAuthcode(truncated, testMerchant()))
	})
}

func TestParseReturnParams(t *testing.T) {
	t.Run("CanonicalOrder", func(t *testing.T) {
		query := url.Values{}
		query.Set("RETURN_AUTHCODE", "8D9F70E16ACC86876E0A2FF806B134C3")
		query.Set("METHOD", "1")
		query.Set("PAID", "da9974de9f")
		query.Set("TIMESTAMP", "1588058042")
		query.Set("ORDER_NUMBER", "Test-Payment-1234")

		params := ParseReturnParams(query)

		assert.Equal(t, Params{
			{Key: "ORDER_NUMBER", Value: "Test-Payment-1234"},
			{Key: "TIMESTAMP", Value: "1588058042"},
			{Key: "PAID", Value: "da9974de9f"},
			{Key: "METHOD", Value: "1"},
			{Key: "RETURN_AUTHCODE", Value: "8D9F70E16ACC86876E0A2FF806B134C3"},
		}, params)
		assert.True(t, VerifyAuthcode(params, testMerchant()))
	})

	t.Run("AbsentKeysSkipped", func(t *testing.T) {
		query := url.Values{}
		query.Set("ORDER_NUMBER", "Test-Payment-1234")
		query.Set("TIMESTAMP", "1588058158")
		query.Set("RETURN_AUTHCODE", "B1370EB96F52DD1EDB2B3400807A6597")

		params := ParseReturnParams(query)

		assert.Len(t, params, 3)
		assert.True(t, VerifyAuthcode(params, testMerchant()))
	})
}
