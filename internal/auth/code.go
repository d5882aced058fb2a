package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/Saksham-w/askme/internal/models"
)

// codeValidity bounds how long an issued verification code can be redeemed.
const codeValidity = time.Hour

// issueCode returns a uniformly random 6-digit verification code in
// [100000, 999999].
func issueCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("failed to generate verification code: %w", err)
	}
	return fmt.Sprintf("%06d", 100000+n.Int64()), nil
}

// codeValid reports whether the submitted code matches the stored one and
// the call time is strictly before expiry. Callers cannot tell the two
// failure causes apart; the outward message covers both.
func codeValid(user *models.User, submitted string, now time.Time) bool {
	return user.VerifyCode == submitted && now.Before(user.VerifyCodeExpiry)
}
