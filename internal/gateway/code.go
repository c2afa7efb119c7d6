package gateway

import (
	"crypto/rand"
	"math/big"
)

// CodeLength is the length of a room code.
const CodeLength = 5

const codeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateCode returns a short alphanumeric room code. Uniqueness is
// enforced by the registry; the caller retries on collision.
func GenerateCode() (string, error) {
	code := make([]byte, CodeLength)
	for i := 0; i < CodeLength; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeCharset))))
		if err != nil {
			return "", err
		}
		code[i] = codeCharset[num.Int64()]
	}
	return string(code), nil
}
