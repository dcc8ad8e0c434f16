// internal/keycodec/codec.go
package keycodec

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

const (
	// TokenLength is the length of the user-facing code.
	TokenLength = 12
	// SignatureLength is the truncated length of the legacy payload signature.
	SignatureLength = 16

	maskChar = "*"
	maskLen  = 8
)

var (
	ErrMissingToken  = errors.New("missing_token")
	ErrInvalidLength = errors.New("invalid_length")
	ErrInvalidFormat = errors.New("invalid_format")
)

var tokenPattern = regexp.MustCompile(`^[A-Z0-9]{12}$`)

// Codec produces and validates the string forms of product keys. All derivations
// are deterministic for a fixed signing secret, so a batch can be regenerated and
// must match what was printed.
type Codec struct {
	secret []byte
}

func New(secret string) *Codec {
	return &Codec{secret: []byte(secret)}
}

// Serial builds the batch serial, e.g. "OWL-2026A-000001".
func Serial(batchID string, seq int) string {
	return fmt.Sprintf("OWL-%s-%06d", batchID, seq)
}

// Sign computes the legacy payload signature: HMAC-SHA256, base64url without
// padding, truncated to 16 characters.
func (c *Codec) Sign(payload string) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(payload))
	sig := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
	return sig[:SignatureLength]
}

// Token derives the canonical 12-char code for a serial: the first 12 uppercase
// hex characters of HMAC-SHA256(secret, serial).
func (c *Codec) Token(serial string) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(serial))
	return strings.ToUpper(hex.EncodeToString(mac.Sum(nil)))[:TokenLength]
}

// VerifySignature checks a legacy signed composite "payload.signature". Any parse
// problem is reported as invalid rather than an error: printed labels are
// untrusted input and verification must fail closed.
func (c *Codec) VerifySignature(signed string) bool {
	dot := strings.LastIndex(signed, ".")
	if dot <= 0 || dot == len(signed)-1 {
		return false
	}

	payload := signed[:dot]
	signature := signed[dot+1:]
	expected := c.Sign(payload)

	// Length mismatch is decided before the byte comparison so timing reveals
	// nothing beyond what the length already does.
	if len(signature) != len(expected) {
		return false
	}
	return hmac.Equal([]byte(signature), []byte(expected))
}

// Normalize turns raw user input into the canonical 12-char uppercase token.
// Input with a dot separator is treated as "serial.token" and reduced to the last
// segment. Returns ErrMissingToken, ErrInvalidLength or ErrInvalidFormat.
func Normalize(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", ErrMissingToken
	}

	if dot := strings.LastIndex(s, "."); dot >= 0 {
		s = s[dot+1:]
	}
	token := strings.ToUpper(strings.TrimSpace(s))

	if len(token) != TokenLength {
		return "", ErrInvalidLength
	}
	if !tokenPattern.MatchString(token) {
		return "", ErrInvalidFormat
	}
	return token, nil
}

// Mask redacts a verified token for display: 8 mask characters followed by the
// last 4 literal characters.
func Mask(token string) string {
	if len(token) < TokenLength-maskLen {
		return strings.Repeat(maskChar, TokenLength)
	}
	return strings.Repeat(maskChar, maskLen) + token[len(token)-(TokenLength-maskLen):]
}
