package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkrfoods/storefront/internal/application/otp"
	"github.com/mkrfoods/storefront/internal/application/verification"
	"github.com/mkrfoods/storefront/internal/infrastructure/memstore"
	"github.com/mkrfoods/storefront/internal/infrastructure/notify"
)

type captureSender struct {
	code string
	fail bool
}

func (s *captureSender) Send(_ context.Context, _, code string, _ bool) error {
	if s.fail {
		return fmt.Errorf("smtp connect refused")
	}
	s.code = code
	return nil
}

func newEmailHandler(dev bool) (*OTPHandler, *captureSender) {
	sender := &captureSender{}
	mgr := otp.NewManager(memstore.New(), sender, 5*time.Minute, otp.ResendAlways)
	return NewEmailOTPHandler(verification.NewEmailService(mgr), dev), sender
}

func postJSON(t *testing.T, h http.HandlerFunc, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	buf, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(buf))
	rr := httptest.NewRecorder()
	h(rr, req)
	return rr
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	return env
}

func TestEmailOTP_SendVerifyFlow(t *testing.T) {
	h, sender := newEmailHandler(false)

	rr := postJSON(t, h.Send, map[string]string{"email": "User@Example.com"})
	require.Equal(t, http.StatusOK, rr.Code)
	env := decodeEnvelope(t, rr)
	assert.True(t, env.Success)
	assert.Equal(t, "OTP sent to your email", env.Message)
	assert.Equal(t, "user@example.com", env.Email)
	require.Len(t, sender.code, 6)

	rr = postJSON(t, h.Verify, map[string]string{"email": "user@example.com", "otp": sender.code})
	require.Equal(t, http.StatusOK, rr.Code)
	env = decodeEnvelope(t, rr)
	assert.True(t, env.Success)
	assert.Equal(t, "OTP verified successfully", env.Message)
	assert.True(t, env.Verified)

	// The challenge was consumed.
	rr = postJSON(t, h.Verify, map[string]string{"email": "user@example.com", "otp": sender.code})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	env = decodeEnvelope(t, rr)
	assert.Equal(t, "OTP not found. Please request a new OTP.", env.Message)
}

func TestEmailOTP_InvalidEmail(t *testing.T) {
	h, _ := newEmailHandler(false)

	rr := postJSON(t, h.Send, map[string]string{"email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestEmailOTP_MismatchCountsDown(t *testing.T) {
	h, sender := newEmailHandler(false)

	rr := postJSON(t, h.Send, map[string]string{"email": "user@example.com"})
	require.Equal(t, http.StatusOK, rr.Code)

	wrong := "000000"
	if wrong == sender.code {
		wrong = "000001"
	}

	rr = postJSON(t, h.Verify, map[string]string{"email": "user@example.com", "otp": wrong})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	env := decodeEnvelope(t, rr)
	assert.Equal(t, "Invalid OTP. Attempts remaining: 2", env.Message)
	require.NotNil(t, env.AttemptsRemaining)
	assert.Equal(t, 2, *env.AttemptsRemaining)

	rr = postJSON(t, h.Verify, map[string]string{"email": "user@example.com", "otp": wrong})
	env = decodeEnvelope(t, rr)
	assert.Equal(t, "Invalid OTP. Attempts remaining: 1", env.Message)

	rr = postJSON(t, h.Verify, map[string]string{"email": "user@example.com", "otp": wrong})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	env = decodeEnvelope(t, rr)
	assert.Equal(t, "Maximum OTP attempts exceeded. Please request a new OTP.", env.Message)

	// The correct code no longer works.
	rr = postJSON(t, h.Verify, map[string]string{"email": "user@example.com", "otp": sender.code})
	env = decodeEnvelope(t, rr)
	assert.Equal(t, "OTP not found. Please request a new OTP.", env.Message)
}

func TestEmailOTP_DeliveryFailure(t *testing.T) {
	h, sender := newEmailHandler(true)
	sender.fail = true

	rr := postJSON(t, h.Send, map[string]string{"email": "user@example.com"})
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	env := decodeEnvelope(t, rr)
	assert.Equal(t, "Failed to send OTP. Please try again.", env.Message)
	assert.Contains(t, env.Error, "smtp connect refused")
}

func TestEmailOTP_DevFallbackDelivery(t *testing.T) {
	sender := &captureSender{fail: true}
	mgr := otp.NewManager(memstore.New(), notify.WithDevFallback(sender), 5*time.Minute, otp.ResendAlways)
	h := NewEmailOTPHandler(verification.NewEmailService(mgr), true)

	rr := postJSON(t, h.Send, map[string]string{"email": "user@example.com"})
	require.Equal(t, http.StatusOK, rr.Code)
	env := decodeEnvelope(t, rr)
	assert.True(t, env.Success)
	assert.Equal(t, "OTP sent to your email", env.Message)
	assert.NotEmpty(t, env.Note)

	// The challenge was written despite the transport failure.
	r := chi.NewRouter()
	r.Get("/status/{email}", h.Status)
	req := httptest.NewRequest(http.MethodGet, "/status/user@example.com", nil)
	srr := httptest.NewRecorder()
	r.ServeHTTP(srr, req)
	require.Equal(t, http.StatusOK, srr.Code)

	var status struct {
		Data struct {
			OTP string `json:"otp"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(srr.Body.Bytes(), &status))
	rr = postJSON(t, h.Verify, map[string]string{"email": "user@example.com", "otp": status.Data.OTP})
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestEmailOTP_Resend(t *testing.T) {
	h, sender := newEmailHandler(false)

	rr := postJSON(t, h.Send, map[string]string{"email": "user@example.com"})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = postJSON(t, h.Resend, map[string]string{"email": "user@example.com"})
	require.Equal(t, http.StatusOK, rr.Code)
	env := decodeEnvelope(t, rr)
	assert.Equal(t, "New OTP sent to your email", env.Message)

	rr = postJSON(t, h.Verify, map[string]string{"email": "user@example.com", "otp": sender.code})
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestEmailOTP_StatusEndpoint(t *testing.T) {
	h, sender := newEmailHandler(true)

	rr := postJSON(t, h.Send, map[string]string{"email": "user@example.com"})
	require.Equal(t, http.StatusOK, rr.Code)

	r := chi.NewRouter()
	r.Get("/status/{email}", h.Status)

	req := httptest.NewRequest(http.MethodGet, "/status/user@example.com", nil)
	srr := httptest.NewRecorder()
	r.ServeHTTP(srr, req)
	require.Equal(t, http.StatusOK, srr.Code)

	var env struct {
		Success bool `json:"success"`
		Data    struct {
			OTP      string `json:"otp"`
			Attempts int    `json:"attempts"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(srr.Body.Bytes(), &env))
	assert.Equal(t, sender.code, env.Data.OTP)
	assert.Equal(t, 0, env.Data.Attempts)

	req = httptest.NewRequest(http.MethodGet, "/status/nobody@example.com", nil)
	srr = httptest.NewRecorder()
	r.ServeHTTP(srr, req)
	assert.Equal(t, http.StatusNotFound, srr.Code)
}

func TestMobileOTP_SendUsesPhoneCopy(t *testing.T) {
	sender := &captureSender{}
	mgr := otp.NewManager(memstore.New(), sender, 5*time.Minute, otp.ResendAlways)
	h := NewMobileOTPHandler(verification.NewMobileService(mgr), false)

	rr := postJSON(t, h.Send, map[string]string{"phone": "9876543210"})
	require.Equal(t, http.StatusOK, rr.Code)
	env := decodeEnvelope(t, rr)
	assert.Equal(t, "OTP sent to your WhatsApp", env.Message)
	assert.Equal(t, "+919876543210", env.Phone)
	assert.Empty(t, env.Email)
}
