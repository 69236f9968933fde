package security

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	for _, plain := range []string{"", "ana@example.com", "600111222", "Ana Pérez"} {
		enc, err := EncryptString(plain)
		require.NoError(t, err)
		require.NotEqual(t, plain, enc)

		dec, err := DecryptString(enc)
		require.NoError(t, err)
		require.Equal(t, plain, dec)
	}
}

func TestEncryptUsesFreshNonce(t *testing.T) {
	a, err := EncryptString("ana@example.com")
	require.NoError(t, err)
	b, err := EncryptString("ana@example.com")
	require.NoError(t, err)
	require.NotEqual(t, a, b, "identical plaintexts must not produce identical ciphertexts")
}

func TestDecryptRejectsGarbage(t *testing.T) {
	_, err := DecryptString("not base64!!")
	require.Error(t, err)

	_, err = DecryptString("AAAA")
	require.Error(t, err)
}
