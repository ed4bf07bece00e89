// internal/utils/crypto.go
package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
	"time"
)

func GenerateRandomString(length int) (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, length)

	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		b[i] = charset[n.Int64()]
	}

	return string(b), nil
}

// GenerateNumericCode returns a fixed-length numeric one-time code.
// Leading zeros are kept, so the code is always exactly length digits.
func GenerateNumericCode(length int) (string, error) {
	const digits = "0123456789"
	b := make([]byte, length)

	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
		if err != nil {
			return "", err
		}
		b[i] = digits[n.Int64()]
	}

	return string(b), nil
}

// GenerateOrderNumber builds a globally unique order number from the
// current timestamp and a high-entropy random suffix, so order numbers
// cannot be enumerated sequentially.
func GenerateOrderNumber(now time.Time) (string, error) {
	suffix := make([]byte, 5)
	if _, err := rand.Read(suffix); err != nil {
		return "", err
	}
	return fmt.Sprintf("ORD-%s-%s",
		now.UTC().Format("20060102150405"),
		strings.ToUpper(hex.EncodeToString(suffix)),
	), nil
}
