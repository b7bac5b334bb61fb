package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"math/big"
	"strconv"
)

// codeSpace is the value space of one-time codes: [0, 1000000).
var codeSpace = big.NewInt(1000000)

// GenerateCode returns a random numeric one-time code. The value is drawn
// uniformly from [0, 1000000) and formatted without left zero padding, so
// the string may be shorter than six digits.
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, codeSpace)
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64(), 10), nil
}

// HashCode returns the hex HMAC-SHA256 of a one-time code under the
// server-held secret. The stored value is never the plaintext code.
func HashCode(code string, secret []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(code))
	return hex.EncodeToString(mac.Sum(nil))
}
