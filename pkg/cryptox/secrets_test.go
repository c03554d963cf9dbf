package cryptox

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncryptDecryptSecret(t *testing.T) {
	ResetMasterKeyForTesting()
	t.Setenv("PLATFORM_MASTER_KEY", "unit-test-master-key")
	t.Cleanup(ResetMasterKeyForTesting)

	plaintext := []byte(`{"access_token":"abc","refresh_token":"def"}`)

	encrypted, err := EncryptSecret(plaintext)
	require.NoError(t, err)
	require.NotEqual(t, plaintext, encrypted)

	decrypted, err := DecryptSecret(encrypted)
	require.NoError(t, err)
	require.Equal(t, plaintext, decrypted)
}

func TestEncryptSecretNoncesDiffer(t *testing.T) {
	ResetMasterKeyForTesting()
	t.Setenv("PLATFORM_MASTER_KEY", "unit-test-master-key")
	t.Cleanup(ResetMasterKeyForTesting)

	a, err := EncryptSecret([]byte("secret"))
	require.NoError(t, err)
	b, err := EncryptSecret([]byte("secret"))
	require.NoError(t, err)

	// Same plaintext must never produce the same ciphertext.
	require.NotEqual(t, a, b)
}

func TestDecryptSecretRejectsTampering(t *testing.T) {
	ResetMasterKeyForTesting()
	t.Setenv("PLATFORM_MASTER_KEY", "unit-test-master-key")
	t.Cleanup(ResetMasterKeyForTesting)

	encrypted, err := EncryptSecret([]byte("secret"))
	require.NoError(t, err)

	encrypted[len(encrypted)-1] ^= 0xff
	_, err = DecryptSecret(encrypted)
	require.Error(t, err)
}

func TestDecryptSecretRejectsShortCiphertext(t *testing.T) {
	ResetMasterKeyForTesting()
	t.Setenv("PLATFORM_MASTER_KEY", "unit-test-master-key")
	t.Cleanup(ResetMasterKeyForTesting)

	_, err := DecryptSecret([]byte("short"))
	require.Error(t, err)
}
