package credentials

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wms/backend/internal/domain/integration"
)

func TestAESGCMStore_RoundTrip(t *testing.T) {
	store, err := NewAESGCMStore("test-passphrase", "test-salt")
	require.NoError(t, err)

	creds := integration.Credentials{
		"shop":         "test-store",
		"access_token": "shpat_secret",
	}

	blob, err := store.Encrypt(creds)
	require.NoError(t, err)
	assert.NotContains(t, string(blob), "shpat_secret")

	got, err := store.Decrypt(blob)
	require.NoError(t, err)
	assert.Equal(t, creds, got)
}

func TestAESGCMStore_NoncesDiffer(t *testing.T) {
	store, err := NewAESGCMStore("test-passphrase", "test-salt")
	require.NoError(t, err)

	creds := integration.Credentials{"access_token": "same"}

	blob1, err := store.Encrypt(creds)
	require.NoError(t, err)
	blob2, err := store.Encrypt(creds)
	require.NoError(t, err)

	assert.NotEqual(t, blob1, blob2, "identical credentials must produce distinct blobs")
}

func TestAESGCMStore_WrongKeyFails(t *testing.T) {
	store1, err := NewAESGCMStore("passphrase-one", "salt")
	require.NoError(t, err)
	store2, err := NewAESGCMStore("passphrase-two", "salt")
	require.NoError(t, err)

	blob, err := store1.Encrypt(integration.Credentials{"k": "v"})
	require.NoError(t, err)

	_, err = store2.Decrypt(blob)
	assert.ErrorIs(t, err, integration.ErrCredentialDecrypt)
}

func TestAESGCMStore_TamperedBlobFails(t *testing.T) {
	store, err := NewAESGCMStore("test-passphrase", "test-salt")
	require.NoError(t, err)

	blob, err := store.Encrypt(integration.Credentials{"k": "v"})
	require.NoError(t, err)

	blob[len(blob)-1] ^= 0xFF
	_, err = store.Decrypt(blob)
	assert.ErrorIs(t, err, integration.ErrCredentialDecrypt)
}

func TestAESGCMStore_ShortBlob(t *testing.T) {
	store, err := NewAESGCMStore("test-passphrase", "test-salt")
	require.NoError(t, err)

	_, err = store.Decrypt([]byte{0x01, 0x02})
	assert.ErrorIs(t, err, ErrBlobTooShort)
}

func TestNewAESGCMStore_RequiresPassphrase(t *testing.T) {
	_, err := NewAESGCMStore("", "salt")
	assert.ErrorIs(t, err, ErrPassphraseRequired)
}
