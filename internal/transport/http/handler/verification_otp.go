package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mkrfoods/storefront/internal/application/otp"
	"github.com/mkrfoods/storefront/internal/application/verification"
)

// otpText is the channel-specific copy for the verification endpoints.
type otpText struct {
	sent     string
	resent   string
	noStatus string
	// identityParam is the URL parameter name of the status route and the
	// JSON field the identity arrives in.
	identityParam string
}

// OTPHandler serves one verification channel (email or mobile). The two
// channels share behavior and differ only in identity normalization and copy.
type OTPHandler struct {
	svc  verification.Service
	text otpText
	dev  bool
}

func NewEmailOTPHandler(svc verification.Service, dev bool) *OTPHandler {
	return &OTPHandler{
		svc: svc,
		text: otpText{
			sent:          "OTP sent to your email",
			resent:        "New OTP sent to your email",
			noStatus:      "No OTP found for this email",
			identityParam: "email",
		},
		dev: dev,
	}
}

func NewMobileOTPHandler(svc verification.Service, dev bool) *OTPHandler {
	return &OTPHandler{
		svc: svc,
		text: otpText{
			sent:          "OTP sent to your WhatsApp",
			resent:        "New OTP sent to your WhatsApp",
			noStatus:      "No OTP found for this phone",
			identityParam: "phone",
		},
		dev: dev,
	}
}

type otpRequest struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
	OTP   string `json:"otp"`
}

func (req *otpRequest) identity() string {
	if req.Email != "" {
		return req.Email
	}
	return req.Phone
}

// envelope returns a success envelope with the identity field populated for
// this channel.
func (h *OTPHandler) envelope(key, message string) Envelope {
	env := Envelope{Success: true, Message: message}
	if h.text.identityParam == "email" {
		env.Email = key
	} else {
		env.Phone = key
	}
	return env
}

func (h *OTPHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req otpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	key, err := h.svc.Send(r.Context(), req.identity())
	if err != nil && !deliveredViaFallback(err) {
		writeDomainError(w, err, h.dev)
		return
	}
	env := h.envelope(key, h.text.sent)
	if err != nil {
		env.Note = fallbackNote
	}
	writeJSON(w, http.StatusOK, env)
}

func (h *OTPHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req otpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if req.OTP == "" {
		writeError(w, http.StatusBadRequest, "OTP is required.")
		return
	}
	key, res, err := h.svc.Verify(r.Context(), req.identity(), req.OTP)
	if err != nil {
		writeDomainError(w, err, h.dev)
		return
	}
	writeVerifyOutcome(w, h.envelope(key, ""), res)
}

func (h *OTPHandler) Resend(w http.ResponseWriter, r *http.Request) {
	var req otpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	key, err := h.svc.Resend(r.Context(), req.identity())
	if err != nil && !deliveredViaFallback(err) {
		writeDomainError(w, err, h.dev)
		return
	}
	env := h.envelope(key, h.text.resent)
	if err != nil {
		env.Note = fallbackNote
	}
	writeJSON(w, http.StatusOK, env)
}

// Status exposes the live challenge. Only routed in development.
func (h *OTPHandler) Status(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, h.text.identityParam)
	_, c, err := h.svc.Status(r.Context(), raw)
	if err != nil {
		writeError(w, http.StatusNotFound, h.text.noStatus)
		return
	}
	expiresIn := time.Until(time.Unix(c.ExpiresAt, 0)).Round(time.Second)
	writeJSON(w, http.StatusOK, Envelope{Success: true, Data: map[string]interface{}{
		"otp":       c.Code,
		"expiresIn": fmt.Sprintf("%ds", int(expiresIn.Seconds())),
		"attempts":  c.Attempts,
	}})
}

// writeVerifyOutcome maps a challenge-state outcome onto a response. State
// outcomes are client errors at worst, never 5xx.
func writeVerifyOutcome(w http.ResponseWriter, env Envelope, res *otp.VerifyResult) {
	switch res.Outcome {
	case otp.OutcomeVerified:
		env.Message = "OTP verified successfully"
		env.Verified = true
		writeJSON(w, http.StatusOK, env)
	case otp.OutcomeNotFound:
		writeError(w, http.StatusBadRequest, "OTP not found. Please request a new OTP.")
	case otp.OutcomeExpired:
		writeError(w, http.StatusBadRequest, "OTP has expired. Please request a new OTP.")
	case otp.OutcomeAttemptsExceeded:
		writeError(w, http.StatusBadRequest, "Maximum OTP attempts exceeded. Please request a new OTP.")
	case otp.OutcomeMismatch:
		remaining := res.AttemptsRemaining
		writeJSON(w, http.StatusBadRequest, Envelope{
			Success:           false,
			Message:           fmt.Sprintf("Invalid OTP. Attempts remaining: %d", remaining),
			AttemptsRemaining: &remaining,
		})
	default:
		writeError(w, http.StatusInternalServerError, "Server error. Please try again.")
	}
}
