package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/mkrfoods/storefront/internal/application/payment"
	"github.com/mkrfoods/storefront/internal/transport/http/middleware"
)

// maxWebhookBody bounds the raw webhook payload read into memory.
const maxWebhookBody = 1 << 20

// PaymentHandler serves order creation, the gateway webhook, and order history.
type PaymentHandler struct {
	svc payment.Service
	dev bool
}

func NewPaymentHandler(svc payment.Service, dev bool) *PaymentHandler {
	return &PaymentHandler{svc: svc, dev: dev}
}

func (h *PaymentHandler) Create(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized.")
		return
	}
	var req payment.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	order, err := h.svc.CreateOrder(r.Context(), ident.UserID, req)
	if err != nil {
		writeDomainError(w, err, h.dev)
		return
	}
	writeJSON(w, http.StatusOK, Envelope{Success: true, Data: order})
}

// Webhook verifies the gateway signature over the raw body before acting.
// Signature verification needs the exact bytes, so the body is read before
// any decoding.
func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	signature := r.Header.Get("X-Razorpay-Signature")
	if err := h.svc.HandleWebhook(r.Context(), body, signature); err != nil {
		writeDomainError(w, err, h.dev)
		return
	}
	writeJSON(w, http.StatusOK, Envelope{Success: true})
}

func (h *PaymentHandler) Orders(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized.")
		return
	}
	orders, err := h.svc.ListOrders(r.Context(), ident.UserID)
	if err != nil {
		writeDomainError(w, err, h.dev)
		return
	}
	writeJSON(w, http.StatusOK, Envelope{Success: true, Data: orders})
}
