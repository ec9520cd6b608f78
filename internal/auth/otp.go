package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"friendfinder/backend/internal/models"
)

// OTPTTL is how long an issued one-time code stays valid.
const OTPTTL = 5 * time.Minute

const otpDigits = 6

// GenerateOTP returns a uniformly random fixed-length numeric code.
// Leading zeros are kept.
func GenerateOTP() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < otpDigits; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", otpDigits, n), nil
}

// IssueOTP generates a fresh code and stamps it onto the user with its
// expiry. The caller persists the user.
func IssueOTP(u *models.User, now time.Time) (string, error) {
	code, err := GenerateOTP()
	if err != nil {
		return "", err
	}
	expiry := now.UTC().Add(OTPTTL)
	u.OTPCode = code
	u.OTPExpiry = &expiry
	return code, nil
}

// VerifyOTP checks a submitted code against the one on record. It fails
// closed when no code was issued, when the code mismatches, or when the
// expiry has passed; the exact expiry instant already fails. Stored expiries
// are normalized to UTC before comparison. On success the code is single-use:
// both fields are cleared on the user, and the caller persists it.
func VerifyOTP(u *models.User, code string, now time.Time) bool {
	if u.OTPCode == "" || u.OTPExpiry == nil {
		return false
	}
	if !now.UTC().Before(u.OTPExpiry.UTC()) {
		return false
	}
	if u.OTPCode != code {
		return false
	}

	u.OTPCode = ""
	u.OTPExpiry = nil
	return true
}
