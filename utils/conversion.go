package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"reserva/config"

	"github.com/google/uuid"
)

// NormalizePhone converts a raw phone string to E.164. Numbers without a
// country code are assumed to be Brazilian (DDD + local number). All
// identifier derivation below requires the normalized form as input;
// feeding unnormalized phones would split one customer across records.
func NormalizePhone(raw string) (string, error) {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	num := digits.String()

	// Strip long-distance/operator prefix ("0" before the DDD).
	if len(num) > 2 && num[0] == '0' {
		num = num[1:]
	}

	switch {
	case len(num) == 10 || len(num) == 11:
		// DDD + 8 or 9 digit local number, no country code.
		num = "55" + num
	case len(num) >= 12 && len(num) <= 15:
		// Already carries a country code.
	default:
		return "", fmt.Errorf("phone %q has %d digits, expected 10-15", raw, len(num))
	}

	return "+" + num, nil
}

// GatewayPhone converts an E.164 phone to the bare-digits form the WhatsApp
// gateway expects.
func GatewayPhone(e164 string) string {
	return strings.TrimPrefix(e164, "+")
}

// CustomerIDFromPhone derives the deterministic customer id from a normalized
// phone number, so repeat bookings by the same phone resolve to one record.
func CustomerIDFromPhone(phone string) string {
	sum := sha256.Sum256([]byte(phone))
	return hex.EncodeToString(sum[:16])
}

// NewCancelCode generates a customer-facing cancellation secret.
func NewCancelCode() string {
	return uuid.New().String()
}

// HashCancelCode computes the keyed digest of a cancel code. The digest is
// deterministic so the public cancel endpoint can look a booking up by it;
// only the digest is ever stored.
func HashCancelCode(code string) string {
	mac := hmac.New(sha256.New, []byte(config.AppConfig.CancelCodeSecret))
	mac.Write([]byte(code))
	return hex.EncodeToString(mac.Sum(nil))
}
