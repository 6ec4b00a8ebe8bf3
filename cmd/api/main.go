package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/mkrfoods/storefront/internal/application/otp"
	"github.com/mkrfoods/storefront/internal/config"
	"github.com/mkrfoods/storefront/internal/infrastructure/dynamo"
	"github.com/mkrfoods/storefront/internal/infrastructure/google"
	jwtinfra "github.com/mkrfoods/storefront/internal/infrastructure/jwt"
	"github.com/mkrfoods/storefront/internal/infrastructure/memstore"
	"github.com/mkrfoods/storefront/internal/infrastructure/notify"
	"github.com/mkrfoods/storefront/internal/infrastructure/razorpay"
	redisinfra "github.com/mkrfoods/storefront/internal/infrastructure/redis"
	s3infra "github.com/mkrfoods/storefront/internal/infrastructure/s3"
	"github.com/mkrfoods/storefront/internal/infrastructure/smtp"
	"github.com/mkrfoods/storefront/internal/infrastructure/sns"
	transporthttp "github.com/mkrfoods/storefront/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()
	ctx := context.Background()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(ctx, dynamoClient, cfg.DynamoTables)

	// Redis is only dialed when some OTP flow selects it as its backend.
	var redisStore otp.ChallengeStore
	if cfg.EmailOTPStore == config.StoreRedis || cfg.MobileOTPStore == config.StoreRedis || cfg.SignupOTPStore == config.StoreRedis {
		client, err := redisinfra.NewClient(ctx, cfg)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		redisStore = redisinfra.NewChallengeStore(client)
	}
	// Durable backends are shared across flows, so each flow gets its own key
	// namespace; a memory store is already private to its flow.
	challengeRepo := dynamo.NewChallengeRepo(dynamoClient, cfg.DynamoTables.OTPChallenges)
	pickStore := func(flow, backend string) otp.ChallengeStore {
		switch backend {
		case config.StoreDynamo:
			return otp.NamespaceStore(challengeRepo, flow)
		case config.StoreRedis:
			return otp.NamespaceStore(redisStore, flow)
		default:
			return memstore.New()
		}
	}

	// JWT provider (optional — graceful fallback if keys are missing).
	var jwtProvider *jwtinfra.Provider
	if p, err := jwtinfra.NewProvider(cfg); err == nil {
		jwtProvider = p
	} else {
		log.Printf("WARN: JWT provider not available: %v", err)
	}

	var idVerifier *google.Verifier
	if cfg.GoogleClientID != "" {
		idVerifier = google.NewVerifier(cfg.GoogleClientID)
	}

	// Email delivery. In development a transport failure falls back to
	// logging the code instead of failing the request.
	mailer := smtp.NewMailer(cfg)
	var emailSender otp.Sender = notify.NewEmailSender(mailer, int(cfg.EmailOTPTTL.Minutes()))
	var signupSender otp.Sender = notify.NewEmailSender(mailer, int(cfg.SignupOTPTTL.Minutes()))
	if cfg.IsDevelopment() {
		emailSender = notify.WithDevFallback(emailSender)
		signupSender = notify.WithDevFallback(signupSender)
	}

	// WhatsApp delivery over SNS (optional — graceful fallback).
	var mobileSender otp.Sender
	if smsSender, err := sns.NewSender(cfg); err == nil {
		mobileSender = notify.NewWhatsAppSender(smsSender, int(cfg.MobileOTPTTL.Minutes()))
		if cfg.IsDevelopment() {
			mobileSender = notify.WithDevFallback(mobileSender)
		}
	} else {
		log.Printf("WARN: SNS sender not available: %v", err)
		mobileSender = notify.Disabled("whatsapp")
	}

	gateway := razorpay.NewGateway(cfg)

	s3Client := s3infra.NewClient(cfg)
	invoiceArchive := s3infra.NewArchive(s3Client, cfg.S3InvoiceBucket)

	deps := &transporthttp.Deps{
		EmailChallenges:  pickStore("email", cfg.EmailOTPStore),
		MobileChallenges: pickStore("mobile", cfg.MobileOTPStore),
		SignupChallenges: pickStore("signup", cfg.SignupOTPStore),
		EmailSender:      emailSender,
		MobileSender:     mobileSender,
		SignupSender:     signupSender,
		UserRepo:         dynamo.NewUserRepo(dynamoClient, cfg.DynamoTables.Users),
		OrderRepo:        dynamo.NewOrderRepo(dynamoClient, cfg.DynamoTables.Orders),
		Gateway:          gateway,
		InvoiceArchive:   invoiceArchive,
		JWTProvider:      jwtProvider,
		IDTokenVerifier:  idVerifier,
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
