package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"github.com/mkrfoods/storefront/internal/application/otp"
	"github.com/mkrfoods/storefront/internal/application/payment"
	"github.com/mkrfoods/storefront/internal/application/signup"
	"github.com/mkrfoods/storefront/internal/application/verification"
	"github.com/mkrfoods/storefront/internal/config"
	"github.com/mkrfoods/storefront/internal/transport/http/handler"
	appmiddleware "github.com/mkrfoods/storefront/internal/transport/http/middleware"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Razorpay-Signature"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	var localTokens appmiddleware.TokenVerifier
	if deps.JWTProvider != nil {
		localTokens = deps.JWTProvider
	}
	var idTokens appmiddleware.IDTokenVerifier
	if deps.IDTokenVerifier != nil {
		idTokens = deps.IDTokenVerifier
	}
	authMw := appmiddleware.Auth(localTokens, idTokens)

	// 5 requests/second, burst of 10 — applied to OTP issuance endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	emailMgr := otp.NewManager(deps.EmailChallenges, deps.EmailSender, cfg.EmailOTPTTL, otp.ResendAlways)
	mobileMgr := otp.NewManager(deps.MobileChallenges, deps.MobileSender, cfg.MobileOTPTTL, otp.ResendAlways)
	signupMgr := otp.NewManager(deps.SignupChallenges, deps.SignupSender, cfg.SignupOTPTTL, otp.ResendRequiresPending)

	emailSvc := verification.NewEmailService(emailMgr)
	mobileSvc := verification.NewMobileService(mobileMgr)
	signupDeps := signup.ServiceDeps{Manager: signupMgr, UserStore: deps.UserRepo}
	if deps.JWTProvider != nil {
		signupDeps.Signer = deps.JWTProvider
	}
	signupSvc := signup.NewService(signupDeps)
	paymentDeps := payment.ServiceDeps{Gateway: deps.Gateway, OrderStore: deps.OrderRepo}
	if deps.InvoiceArchive != nil {
		paymentDeps.Archive = deps.InvoiceArchive
	}
	paymentSvc := payment.NewService(paymentDeps)

	dev := cfg.IsDevelopment()
	healthH := handler.NewHealthHandler()
	emailH := handler.NewEmailOTPHandler(emailSvc, dev)
	mobileH := handler.NewMobileOTPHandler(mobileSvc, dev)
	signupH := handler.NewSignupHandler(signupSvc, dev)
	paymentH := handler.NewPaymentHandler(paymentSvc, dev)

	r.Get("/", healthH.Root)
	r.Get("/health", healthH.Health)

	r.Route("/api", func(r chi.Router) {
		r.Route("/email-otp", func(r chi.Router) {
			r.With(sensitiveRL.Limit).Post("/send", emailH.Send)
			r.Post("/verify", emailH.Verify)
			r.With(sensitiveRL.Limit).Post("/resend", emailH.Resend)
			if dev {
				r.Get("/status/{email}", emailH.Status)
			}
		})

		r.Route("/mobile-otp", func(r chi.Router) {
			r.With(sensitiveRL.Limit).Post("/send", mobileH.Send)
			r.Post("/verify", mobileH.Verify)
			r.With(sensitiveRL.Limit).Post("/resend", mobileH.Resend)
			if dev {
				r.Get("/status/{phone}", mobileH.Status)
			}
		})

		r.With(sensitiveRL.Limit).Post("/send-otp", signupH.Start)
		r.Post("/verify-otp", signupH.Complete)
		r.With(sensitiveRL.Limit).Post("/resend-otp", signupH.Resend)

		r.Route("/payment", func(r chi.Router) {
			r.Post("/webhook", paymentH.Webhook)

			r.Group(func(r chi.Router) {
				r.Use(authMw)
				r.Post("/create-order", paymentH.Create)
				r.Get("/orders", paymentH.Orders)
			})
		})
	})

	return r
}
