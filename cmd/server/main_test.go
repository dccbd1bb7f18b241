package main

import (
	"context"
	"crypto/md5"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paytrail-rest/internal/config"
	"paytrail-rest/internal/payment"
)

const (
	testMerchantID     = "13466"
	testMerchantSecret = "6pKF4jkv97zmqBJ3ZL8gUw5DfT2NMQ"
)

type stubGateway struct {
	result    *payment.Result
	err       error
	submitted *payment.Payment
}

func (s *stubGateway) Submit(ctx context.Context, p *payment.Payment) (*payment.Result, error) {
	s.submitted = p
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func testApp(gateway payment.Gateway) *app {
	cfg := &config.Config{
		MerchantID:     testMerchantID,
		MerchantSecret: testMerchantSecret,
		AppEnv:         "test",
	}
	return newApp(cfg, gateway)
}

// signedQuery builds a return-parameter query string carrying a valid
// RETURN_AUTHCODE for the test merchant secret.
func signedQuery(pairs [][2]string) string {
	values := make([]string, 0, len(pairs))
	q := url.Values{}
	for _, pair := range pairs {
		values = append(values, pair[1])
		q.Set(pair[0], pair[1])
	}
	values = append(values, testMerchantSecret)
	digest := md5.Sum([]byte(strings.Join(values, "|")))
	q.Set("RETURN_AUTHCODE", strings.ToUpper(fmt.Sprintf("%x", digest)))
	return q.Encode()
}

func TestSetupRouter(t *testing.T) {
	gateway := &stubGateway{result: &payment.Result{Token: "tok-1", URL: "https://payment.example/pay/tok-1"}}
	router := setupRouter(testApp(gateway))

	t.Run("Health", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "OK", rr.Body.String())
	})

	t.Run("Status", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/status", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "payments_created")
	})
}

func TestCheckout(t *testing.T) {
	t.Run("PricedOrderRedirects", func(t *testing.T) {
		gateway := &stubGateway{result: &payment.Result{Token: "tok-2", URL: "https://payment.example/pay/tok-2"}}
		a := testApp(gateway)

		req := httptest.NewRequest(http.MethodGet, "/checkout?price=25.50", nil)
		rr := httptest.NewRecorder()
		a.checkout(rr, req)

		assert.Equal(t, http.StatusFound, rr.Code)
		assert.Equal(t, "https://payment.example/pay/tok-2", rr.Header().Get("Location"))

		require.NotNil(t, gateway.submitted)
		require.NotNil(t, gateway.submitted.Price)
		assert.Equal(t, 25.50, *gateway.submitted.Price)
	})

	t.Run("DefaultOrderUsesDemoProduct", func(t *testing.T) {
		gateway := &stubGateway{result: &payment.Result{Token: "tok-3", URL: "https://payment.example/pay/tok-3"}}
		a := testApp(gateway)

		req := httptest.NewRequest(http.MethodGet, "/checkout", nil)
		rr := httptest.NewRecorder()
		a.checkout(rr, req)

		assert.Equal(t, http.StatusFound, rr.Code)
		require.NotNil(t, gateway.submitted)
		require.Len(t, gateway.submitted.Products, 1)
		assert.Equal(t, "Demo product", gateway.submitted.Products[0].Title)
	})

	t.Run("InvalidPrice", func(t *testing.T) {
		a := testApp(&stubGateway{})

		req := httptest.NewRequest(http.MethodGet, "/checkout?price=abc", nil)
		rr := httptest.NewRecorder()
		a.checkout(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("GatewayDown", func(t *testing.T) {
		gateway := &stubGateway{err: &payment.ConnectionError{Message: "gateway unreachable"}}
		a := testApp(gateway)

		req := httptest.NewRequest(http.MethodGet, "/checkout?price=10", nil)
		rr := httptest.NewRecorder()
		a.checkout(rr, req)

		assert.Equal(t, http.StatusBadGateway, rr.Code)
	})
}

func TestPaymentReturn(t *testing.T) {
	t.Run("PaidReturn", func(t *testing.T) {
		a := testApp(&stubGateway{})

		query := signedQuery([][2]string{
			{"ORDER_NUMBER", "Test-Payment-1234"},
			{"TIMESTAMP", "1588058042"},
			{"PAID", "da9974de9f"},
			{"METHOD", "1"},
		})
		req := httptest.NewRequest(http.MethodGet, "/payment/success?"+query, nil)
		rr := httptest.NewRecorder()
		a.paymentReturn(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "was paid")
		assert.Contains(t, rr.Body.String(), "Test-Payment-1234")
	})

	t.Run("UnpaidReturn", func(t *testing.T) {
		a := testApp(&stubGateway{})

		query := signedQuery([][2]string{
			{"ORDER_NUMBER", "Test-Payment-1234"},
			{"TIMESTAMP", "1588058158"},
		})
		req := httptest.NewRequest(http.MethodGet, "/payment/failure?"+query, nil)
		rr := httptest.NewRecorder()
		a.paymentReturn(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "not completed")
	})

	t.Run("TamperedReturn", func(t *testing.T) {
		a := testApp(&stubGateway{})

		query := signedQuery([][2]string{
			{"ORDER_NUMBER", "Test-Payment-1234"},
			{"TIMESTAMP", "1588058042"},
		})
		query = strings.Replace(query, "1588058042", "1588058043", 1)
		req := httptest.NewRequest(http.MethodGet, "/payment/success?"+query, nil)
		rr := httptest.NewRecorder()
		a.paymentReturn(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
