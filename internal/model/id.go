package model

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
)

// IDPrefix starts every transaction id.
const IDPrefix = "TX-"

const (
	idAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	idLength   = 8
)

var idPattern = regexp.MustCompile(`^TX-[A-Z0-9]{8}$`)

// NewTransactionID generates a random id of the form TX-XXXXXXXX.
func NewTransactionID() (string, error) {
	buf := make([]byte, idLength)
	limit := big.NewInt(int64(len(idAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("failed to generate transaction id: %w", err)
		}
		buf[i] = idAlphabet[n.Int64()]
	}
	return IDPrefix + string(buf), nil
}

// ValidID reports whether id has the transaction id format.
func ValidID(id string) bool {
	return idPattern.MatchString(id)
}
