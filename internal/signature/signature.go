// Package signature verifies Ed25519 signatures on webhook deliveries.
//
// Event deliveries carry a detached Ed25519 signature over the raw request
// body. The signing key pair is created when a webhook is registered; the
// public half is returned once and must be stored by the receiver.
package signature

import (
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/cloudflare/circl/sign/ed25519"
)

const (
	// PublicKeySize is the size of an Ed25519 public key in bytes.
	PublicKeySize = ed25519.PublicKeySize

	// SignatureSize is the size of an Ed25519 signature in bytes.
	SignatureSize = ed25519.SignatureSize
)

var (
	// ErrVerificationFailed is returned when the signature does not match
	// the message under the given public key.
	ErrVerificationFailed = errors.New("signature verification failed")

	// ErrInvalidPublicKeySize is returned when the public key is not
	// PublicKeySize bytes after decoding.
	ErrInvalidPublicKeySize = errors.New("invalid public key size")

	// ErrInvalidSignatureSize is returned when the signature is not
	// SignatureSize bytes after decoding.
	ErrInvalidSignatureSize = errors.New("invalid signature size")
)

// Decode decodes a base64 value in any of the common variants
// (URL-safe or standard, with or without padding).
func Decode(s string) ([]byte, error) {
	data, err := base64.RawURLEncoding.DecodeString(s)
	if err == nil {
		return data, nil
	}

	data, err = base64.URLEncoding.DecodeString(s)
	if err == nil {
		return data, nil
	}

	data, err = base64.RawStdEncoding.DecodeString(s)
	if err == nil {
		return data, nil
	}

	return base64.StdEncoding.DecodeString(s)
}

// Encode encodes bytes to standard base64 with padding.
func Encode(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// Verify checks an Ed25519 signature over message.
func Verify(publicKey, message, sig []byte) error {
	if len(publicKey) != PublicKeySize {
		return ErrInvalidPublicKeySize
	}
	if len(sig) != SignatureSize {
		return ErrInvalidSignatureSize
	}

	if !ed25519.Verify(ed25519.PublicKey(publicKey), message, sig) {
		return ErrVerificationFailed
	}

	return nil
}

// VerifyEncoded decodes a base64 public key and signature and verifies
// them over message.
func VerifyEncoded(publicKey, sig string, message []byte) error {
	pk, err := Decode(publicKey)
	if err != nil {
		return fmt.Errorf("decode public key: %w", err)
	}

	sigBytes, err := Decode(sig)
	if err != nil {
		return fmt.Errorf("decode signature: %w", err)
	}

	return Verify(pk, message, sigBytes)
}

// ValidPublicKey reports whether a base64-encoded public key decodes to
// the correct size.
func ValidPublicKey(publicKey string) bool {
	pk, err := Decode(publicKey)
	if err != nil {
		return false
	}
	return len(pk) == PublicKeySize
}
