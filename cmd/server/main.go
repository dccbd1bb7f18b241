package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"paytrail-rest/internal/config"
	"paytrail-rest/internal/logger"
	"paytrail-rest/internal/metrics"
	"paytrail-rest/internal/middleware"
	"paytrail-rest/internal/payment"
	"paytrail-rest/internal/payment/webhook"
	"paytrail-rest/internal/transport"
	"paytrail-rest/internal/utils"
)

// app is the demo merchant storefront. It exists to exercise the payment
// module end to end: build an order, create a payment, send the customer
// to the gateway and receive the signed return/notify requests.
type app struct {
	cfg      *config.Config
	merchant payment.Merchant
	gateway  payment.Gateway
}

func newApp(cfg *config.Config, gateway payment.Gateway) *app {
	return &app{
		cfg:      cfg,
		merchant: payment.NewMerchant(cfg.MerchantID, cfg.MerchantSecret),
		gateway:  gateway,
	}
}

// checkout builds a one-off order from query parameters and redirects the
// customer to the gateway's payment page. `price` selects a priced order;
// without it a demo product row is used. `format=xml` switches the wire
// format.
func (a *app) checkout(w http.ResponseWriter, r *http.Request) {
	log := logger.FromCtx(r.Context())

	builder := payment.NewOrderBuilder(a.merchant)

	if rawPrice := r.URL.Query().Get("price"); rawPrice != "" {
		price, err := strconv.ParseFloat(rawPrice, 64)
		if err != nil {
			http.Error(w, "invalid price", http.StatusBadRequest)
			return
		}
		if err := builder.AddPrice(price); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	} else {
		product, err := payment.NewProduct(map[string]any{
			"title": "Demo product",
			"code":  "DEMO-1",
			"price": 19.9,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if err := builder.AddProducts([]payment.Product{product}); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	format := payment.FormatJSON
	if r.URL.Query().Get("format") == "xml" {
		format = payment.FormatXML
	}

	orderNumber := utils.GenerateOrderNumber()
	opts := payment.PaymentOptions{
		Description:     "Demo shop order",
		SuccessURL:      a.cfg.SuccessURL,
		FailureURL:      a.cfg.FailureURL,
		NotificationURL: a.cfg.NotificationURL,
		Request:         transport.FromRequest(r),
	}

	if err := builder.CreatePayment(orderNumber, opts, format); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	link, err := builder.PaymentLink(r.Context(), a.gateway)
	if err != nil {
		metrics.PaymentsFailed.Inc()

		var connErr *payment.ConnectionError
		if errors.As(err, &connErr) {
			log.Error("payment creation failed", zap.Error(err))
			http.Error(w, "payment gateway unavailable", http.StatusBadGateway)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	metrics.PaymentsCreated.Inc()
	log.Info("redirecting to gateway",
		zap.String("order_number", orderNumber),
		zap.String("link", link),
	)
	http.Redirect(w, r, link, http.StatusFound)
}

// paymentReturn serves the customer's browser coming back from the
// gateway on both the success and failure URLs.
func (a *app) paymentReturn(w http.ResponseWriter, r *http.Request) {
	params := payment.ParseReturnParams(r.URL.Query())
	if !payment.VerifyAuthcode(params, a.merchant) {
		metrics.CallbacksRejected.Inc()
		http.Error(w, "invalid authcode", http.StatusUnauthorized)
		return
	}

	metrics.CallbacksVerified.Inc()
	orderNumber, _ := params.Get("ORDER_NUMBER")

	if _, paid := params.Get(payment.PaidKey); paid {
		fmt.Fprintf(w, "Thank you! Order %s was paid.\n", orderNumber)
		return
	}
	fmt.Fprintf(w, "Payment for order %s was not completed.\n", orderNumber)
}

// orderStatus receives verified notify callbacks. The demo shop has no
// order storage, so the outcome is only logged and counted.
func (a *app) orderStatus(ctx context.Context, orderNumber string, paid bool) error {
	metrics.CallbacksVerified.Inc()
	logger.FromCtx(ctx).Info("order status changed",
		zap.String("order_number", orderNumber),
		zap.Bool("paid", paid),
	)
	return nil
}

func (a *app) status(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]uint64{
		"payments_created":   metrics.PaymentsCreated.Load(),
		"payments_failed":    metrics.PaymentsFailed.Load(),
		"callbacks_verified": metrics.CallbacksVerified.Load(),
		"callbacks_rejected": metrics.CallbacksRejected.Load(),
	})
}

func setupRouter(a *app) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/checkout", a.checkout)
	mux.HandleFunc("/payment/success", a.paymentReturn)
	mux.HandleFunc("/payment/failure", a.paymentReturn)

	notify := webhook.NewHandler(a.merchant, a.orderStatus)
	mux.HandleFunc("/payment/notify", notify.Notify)

	mux.HandleFunc("/status", a.status)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return logger.RequestIDMiddleware(
		middleware.LoggingMiddleware(
			middleware.RateLimitMiddleware(mux),
		),
	)
}

func main() {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	gatewayOpts := []payment.GatewayOption{
		payment.WithTimeouts(cfg.ConnectTimeout, cfg.TotalTimeout),
	}
	if cfg.ServiceURL != "" {
		gatewayOpts = append(gatewayOpts, payment.WithServiceURL(cfg.ServiceURL))
	}

	a := newApp(cfg, payment.NewRestGateway(
		payment.NewMerchant(cfg.MerchantID, cfg.MerchantSecret),
		payment.FormatJSON,
		gatewayOpts...,
	))

	addr := ":" + cfg.AppPort
	logger.L().Info("merchant demo server listening", zap.String("addr", addr))

	if err := http.ListenAndServe(addr, setupRouter(a)); err != nil {
		logger.L().Fatal("server stopped", zap.Error(err))
	}
}
