package http

import (
	"github.com/mkrfoods/storefront/internal/application/otp"
	"github.com/mkrfoods/storefront/internal/application/payment"
	"github.com/mkrfoods/storefront/internal/infrastructure/dynamo"
	"github.com/mkrfoods/storefront/internal/infrastructure/google"
	jwtinfra "github.com/mkrfoods/storefront/internal/infrastructure/jwt"
	s3infra "github.com/mkrfoods/storefront/internal/infrastructure/s3"
)

// Deps holds all infrastructure dependencies for the router. Each OTP flow
// carries its own challenge store and sender so backends can differ per flow.
type Deps struct {
	EmailChallenges  otp.ChallengeStore
	MobileChallenges otp.ChallengeStore
	SignupChallenges otp.ChallengeStore

	EmailSender  otp.Sender
	MobileSender otp.Sender
	SignupSender otp.Sender

	UserRepo  *dynamo.UserRepo
	OrderRepo *dynamo.OrderRepo

	Gateway        payment.Gateway
	InvoiceArchive *s3infra.Archive

	JWTProvider     *jwtinfra.Provider
	IDTokenVerifier *google.Verifier
}
