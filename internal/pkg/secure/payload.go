package secure

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

const (
	payloadVersion byte = 1
	saltSize            = 16
	nonceSize           = 12
	keySize             = 32
	hkdfInfo            = "inout/qr-payload/v1"
)

var (
	ErrDecryptionFailed = errors.New("payload could not be decrypted")
	ErrEmptyPassphrase  = errors.New("payload passphrase is required")
)

// PayloadCipher encrypts short text payloads (QR contents) into a
// base64 string: version | salt | nonce | ciphertext+tag.
type PayloadCipher struct {
	keyMaterial []byte
	random      io.Reader
}

// NewPayloadCipher derives the key material from passphrase with SHA-256.
func NewPayloadCipher(passphrase string) (*PayloadCipher, error) {
	if passphrase == "" {
		return nil, ErrEmptyPassphrase
	}
	sum := sha256.Sum256([]byte(passphrase))
	return &PayloadCipher{
		keyMaterial: sum[:],
		random:      rand.Reader,
	}, nil
}

// Encrypt seals plaintext with a fresh salt and nonce, so two calls on the
// same input give different outputs.
func (c *PayloadCipher) Encrypt(plaintext string) (string, error) {
	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(c.random, salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	aead, err := c.aead(salt)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(c.random, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	out := make([]byte, 0, 1+saltSize+nonceSize+len(plaintext)+aead.Overhead())
	out = append(out, payloadVersion)
	out = append(out, salt...)
	out = append(out, nonce...)
	out = aead.Seal(out, nonce, []byte(plaintext), []byte{payloadVersion})

	return base64.StdEncoding.EncodeToString(out), nil
}

// Decrypt reverses Encrypt. Every failure, whether malformed base64, a short
// buffer, an unknown version or a failed tag check, returns ErrDecryptionFailed.
func (c *PayloadCipher) Decrypt(encoded string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", ErrDecryptionFailed
	}
	if len(raw) < 1+saltSize+nonceSize+16 || raw[0] != payloadVersion {
		return "", ErrDecryptionFailed
	}

	salt := raw[1 : 1+saltSize]
	nonce := raw[1+saltSize : 1+saltSize+nonceSize]
	sealed := raw[1+saltSize+nonceSize:]

	aead, err := c.aead(salt)
	if err != nil {
		return "", ErrDecryptionFailed
	}

	plaintext, err := aead.Open(nil, nonce, sealed, []byte{payloadVersion})
	if err != nil {
		return "", ErrDecryptionFailed
	}
	return string(plaintext), nil
}

func (c *PayloadCipher) aead(salt []byte) (cipher.AEAD, error) {
	key := make([]byte, keySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, c.keyMaterial, salt, []byte(hkdfInfo)), key); err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create block cipher: %w", err)
	}

	return cipher.NewGCM(block)
}
