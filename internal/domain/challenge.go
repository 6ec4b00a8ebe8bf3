package domain

// OTPChallenge is one outstanding verification challenge for one identity key
// (a normalized lowercase email or a +91-prefixed phone number).
// At most one live challenge exists per key; issuing replaces any prior one.
// ExpiresAt is a Unix timestamp; the DynamoDB store uses it as the TTL attribute
// and the Redis store derives its key expiry from it.
type OTPChallenge struct {
	Key       string         `json:"key" dynamodbav:"challenge_key"`
	Code      string         `json:"code" dynamodbav:"code"`
	IssuedAt  int64          `json:"issued_at" dynamodbav:"issued_at"`
	ExpiresAt int64          `json:"expires_at" dynamodbav:"expires_at"` // TTL (Unix seconds)
	Attempts  int            `json:"attempts" dynamodbav:"attempts"`
	Payload   *SignupPayload `json:"payload,omitempty" dynamodbav:"payload,omitempty"`
}

// SignupPayload carries pending registration data alongside a signup challenge
// until the code is verified. The password stays plaintext here and is only
// hashed when the account is actually created.
type SignupPayload struct {
	Name     string `json:"name" dynamodbav:"name"`
	Password string `json:"password" dynamodbav:"password"`
}
