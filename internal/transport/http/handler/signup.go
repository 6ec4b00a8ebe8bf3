package handler

import (
	"encoding/json"
	"net/http"

	"github.com/mkrfoods/storefront/internal/application/otp"
	"github.com/mkrfoods/storefront/internal/application/signup"
)

// SignupHandler serves the OTP-gated account creation flow.
type SignupHandler struct {
	svc signup.Service
	dev bool
}

func NewSignupHandler(svc signup.Service, dev bool) *SignupHandler {
	return &SignupHandler{svc: svc, dev: dev}
}

// Start receives the signup form and sends the verification code.
func (h *SignupHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req signup.StartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	email, err := h.svc.Start(r.Context(), req)
	if err != nil && !deliveredViaFallback(err) {
		writeDomainError(w, err, h.dev)
		return
	}
	env := Envelope{
		Success: true,
		Message: "OTP sent successfully to your email",
		Email:   email,
	}
	if err != nil {
		env.Note = fallbackNote
	}
	writeJSON(w, http.StatusOK, env)
}

// Complete verifies the code and creates the account.
func (h *SignupHandler) Complete(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		OTP   string `json:"otp"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if req.OTP == "" {
		writeError(w, http.StatusBadRequest, "OTP is required.")
		return
	}
	email, res, err := h.svc.Complete(r.Context(), req.Email, req.OTP)
	if err != nil {
		writeDomainError(w, err, h.dev)
		return
	}
	if res.Outcome != otp.OutcomeVerified {
		writeVerifyOutcome(w, Envelope{}, &otp.VerifyResult{
			Outcome:           res.Outcome,
			AttemptsRemaining: res.AttemptsRemaining,
		})
		return
	}
	writeJSON(w, http.StatusOK, Envelope{
		Success:  true,
		Message:  "Email verified successfully!",
		Email:    email,
		Verified: true,
		Data: map[string]interface{}{
			"user":  res.User,
			"token": res.AccessToken,
		},
	})
}

// Resend re-issues the code for a pending signup.
func (h *SignupHandler) Resend(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	email, err := h.svc.Resend(r.Context(), req.Email)
	if err != nil && !deliveredViaFallback(err) {
		writeDomainError(w, err, h.dev)
		return
	}
	env := Envelope{
		Success: true,
		Message: "OTP resent successfully",
		Email:   email,
	}
	if err != nil {
		env.Note = fallbackNote
	}
	writeJSON(w, http.StatusOK, env)
}
