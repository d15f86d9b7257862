package utils

import (
	"crypto/rand"
	"fmt"
	"strings"
)

// GenerateReference generates a numeric reference with the given prefix and
// total length, used for member numbers and movement receipts.
func GenerateReference(prefix string, length int) (string, error) {
	if length < len(prefix) || length > 24 {
		return "", fmt.Errorf("invalid reference length: %d", length)
	}

	digits := make([]byte, length-len(prefix))
	_, err := rand.Read(digits)
	if err != nil {
		return "", fmt.Errorf("failed to generate random digits: %w", err)
	}

	var builder strings.Builder
	builder.WriteString(prefix)
	for _, b := range digits {
		builder.WriteByte(b%10 + '0')
	}

	ref := builder.String()
	if len(ref) != length {
		return "", fmt.Errorf("generated reference has incorrect length: got %d, want %d", len(ref), length)
	}

	return ref, nil
}
