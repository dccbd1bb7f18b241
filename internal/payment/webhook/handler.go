package webhook

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"paytrail-rest/internal/logger"
	"paytrail-rest/internal/payment"
)

// OrderStatusFunc receives the verified outcome of a return or notify
// request. paid is true when the gateway marked the order as paid.
type OrderStatusFunc func(ctx context.Context, orderNumber string, paid bool) error

// Handler serves the gateway's return and notify requests. Every request
// is authenticated against the merchant secret before any callback runs.
type Handler struct {
	merchant payment.Merchant
	onResult OrderStatusFunc
}

func NewHandler(merchant payment.Merchant, onResult OrderStatusFunc) *Handler {
	return &Handler{
		merchant: merchant,
		onResult: onResult,
	}
}

// Notify is the route handler for gateway callbacks.
func (h *Handler) Notify(w http.ResponseWriter, r *http.Request) {
	log := logger.FromCtx(r.Context())

	params := payment.ParseReturnParams(r.URL.Query())
	if !payment.VerifyAuthcode(params, h.merchant) {
		log.Warn("notify request with invalid authcode",
			zap.String("ip", r.RemoteAddr),
			zap.String("query", r.URL.RawQuery),
		)
		http.Error(w, "invalid authcode", http.StatusUnauthorized)
		return
	}

	orderNumber, _ := params.Get("ORDER_NUMBER")
	_, paid := params.Get(payment.PaidKey)

	log.Info("gateway notification verified",
		zap.String("order_number", orderNumber),
		zap.Bool("paid", paid),
	)

	if h.onResult != nil {
		if err := h.onResult(r.Context(), orderNumber, paid); err != nil {
			log.Error("failed to update order", zap.Error(err))
			http.Error(w, "failed to update order", http.StatusInternalServerError)
			return
		}
	}

	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "ok")
}
