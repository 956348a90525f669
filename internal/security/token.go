package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// GenerateToken creates an admin token for the given subject.
// expirationDuration should be a positive duration.
func GenerateToken(secret, subject string, expirationDuration time.Duration) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("secret cannot be empty")
	}
	if expirationDuration <= 0 {
		return "", fmt.Errorf("expirationDuration must be positive")
	}

	// Expiration is stored directly in the token for validation.
	expiresAt := time.Now().Add(expirationDuration).Unix()

	// The signed message includes the expiration time.
	message := fmt.Sprintf("%s:%d", subject, expiresAt)

	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(message))
	signature := hex.EncodeToString(h.Sum(nil))

	// Token format is expiresAt:signature
	return fmt.Sprintf("%d:%s", expiresAt, signature), nil
}

// ValidateToken validates an admin token for the given subject.
func ValidateToken(secret, subject, token string) (bool, error) {
	if secret == "" {
		return false, fmt.Errorf("secret cannot be empty")
	}

	var expiresAt int64
	var signature string
	_, err := fmt.Sscanf(token, "%d:%s", &expiresAt, &signature)
	if err != nil {
		return false, fmt.Errorf("invalid token format: %w", err)
	}

	expirationTime := time.Unix(expiresAt, 0)
	if time.Now().After(expirationTime) {
		return false, fmt.Errorf("token has expired (expired at %s)", expirationTime.Format(time.RFC3339))
	}

	// The message MUST match the one used during generation.
	message := fmt.Sprintf("%s:%d", subject, expiresAt)

	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(message))
	expectedSignature := hex.EncodeToString(h.Sum(nil))

	if !hmac.Equal([]byte(signature), []byte(expectedSignature)) {
		return false, nil
	}

	return true, nil
}
