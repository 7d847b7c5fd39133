package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
)

const (
	// EncodingHex encodes the HMAC digest as lowercase hexadecimal
	EncodingHex = "hex"

	// EncodingBase64 encodes the HMAC digest as standard base64
	EncodingBase64 = "base64"
)

/* Scheme describes how one platform presents its webhook signature
 * The digest is always HMAC-SHA256 over the raw, unparsed payload bytes;
 * platforms differ only in header name, encoding and an optional prefix
 * such as "sha256="
 */
type Scheme struct {
	Header   string `yaml:"header"`
	Encoding string `yaml:"encoding"`
	Prefix   string `yaml:"prefix"`
}

// Validate checks if the scheme is valid
func (s Scheme) Validate() error {
	switch s.Encoding {
	case "", EncodingHex, EncodingBase64:
		return nil
	default:
		return fmt.Errorf("unsupported signature encoding: %s", s.Encoding)
	}
}

// encoding returns the effective encoding, defaulting to hex
func (s Scheme) encoding() string {
	if s.Encoding == "" {
		return EncodingHex
	}
	return s.Encoding
}

// Sign computes the signature header value for the given payload
func Sign(scheme Scheme, secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	digest := mac.Sum(nil)

	var encoded string
	switch scheme.encoding() {
	case EncodingBase64:
		encoded = base64.StdEncoding.EncodeToString(digest)
	default:
		encoded = hex.EncodeToString(digest)
	}

	return scheme.Prefix + encoded
}

/* Verify checks a presented signature against the expected HMAC of the payload
 * Uses constant-time comparison on the decoded digest bytes so a mismatch
 * never leaks how much of the prefix matched
 */
func Verify(scheme Scheme, secret string, payload []byte, presented string) (bool, error) {
	if presented == "" {
		return false, fmt.Errorf("signature header is empty")
	}

	if scheme.Prefix != "" {
		if !strings.HasPrefix(presented, scheme.Prefix) {
			return false, fmt.Errorf("signature is missing the %q prefix", scheme.Prefix)
		}
		presented = strings.TrimPrefix(presented, scheme.Prefix)
	}

	var presentedDigest []byte
	var err error
	switch scheme.encoding() {
	case EncodingBase64:
		presentedDigest, err = base64.StdEncoding.DecodeString(presented)
	default:
		presentedDigest, err = hex.DecodeString(presented)
	}
	if err != nil {
		return false, fmt.Errorf("decoding presented signature: %w", err)
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	expected := mac.Sum(nil)

	return subtle.ConstantTimeCompare(expected, presentedDigest) == 1, nil
}
