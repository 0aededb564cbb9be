package secure

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCipher(t *testing.T) *PayloadCipher {
	t.Helper()
	c, err := NewPayloadCipher("test-passphrase")
	require.NoError(t, err)
	return c
}

func TestPayloadCipher_RoundTrip(t *testing.T) {
	c := newTestCipher(t)

	inputs := []string{
		"",
		"LOC-001",
		"https://inout.example.com/locations/abc?x=1",
		"नमस्ते 🌍",
		strings.Repeat("a", 4096),
	}

	for _, input := range inputs {
		encoded, err := c.Encrypt(input)
		require.NoError(t, err)

		decoded, err := c.Decrypt(encoded)
		require.NoError(t, err)
		assert.Equal(t, input, decoded)
	}
}

func TestPayloadCipher_EncryptIsRandomized(t *testing.T) {
	c := newTestCipher(t)

	first, err := c.Encrypt("LOC-001")
	require.NoError(t, err)
	second, err := c.Encrypt("LOC-001")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestPayloadCipher_DecryptFailures(t *testing.T) {
	c := newTestCipher(t)

	valid, err := c.Encrypt("LOC-001")
	require.NoError(t, err)
	raw, err := base64.StdEncoding.DecodeString(valid)
	require.NoError(t, err)

	tampered := append([]byte(nil), raw...)
	tampered[len(tampered)-1] ^= 0xff

	wrongVersion := append([]byte(nil), raw...)
	wrongVersion[0] = 9

	other, err := NewPayloadCipher("another-passphrase")
	require.NoError(t, err)
	foreign, err := other.Encrypt("LOC-001")
	require.NoError(t, err)

	cases := map[string]string{
		"not base64":    "%%%not-base64%%%",
		"too short":     base64.StdEncoding.EncodeToString([]byte{1, 2, 3}),
		"empty":         "",
		"tampered tag":  base64.StdEncoding.EncodeToString(tampered),
		"wrong version": base64.StdEncoding.EncodeToString(wrongVersion),
		"different key": foreign,
	}

	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := c.Decrypt(input)
			assert.ErrorIs(t, err, ErrDecryptionFailed)
		})
	}
}

func TestNewPayloadCipher_EmptyPassphrase(t *testing.T) {
	_, err := NewPayloadCipher("")
	assert.ErrorIs(t, err, ErrEmptyPassphrase)
}
