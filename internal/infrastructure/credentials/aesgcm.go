package credentials

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/scrypt"

	"github.com/wms/backend/internal/domain/integration"
)

// scrypt parameters for key derivation
const (
	scryptN      = 32768
	scryptR      = 8
	scryptP      = 1
	keyLength    = 32 // AES-256
	minBlobBytes = 12 + 16
)

var (
	// ErrPassphraseRequired indicates an empty encryption passphrase
	ErrPassphraseRequired = errors.New("credentials: encryption passphrase is required")
	// ErrBlobTooShort indicates a blob shorter than nonce plus auth tag
	ErrBlobTooShort = errors.New("credentials: blob too short")
)

// AESGCMStore seals credential maps with AES-256-GCM. The key is derived
// once from a passphrase and salt with scrypt; each blob carries its own
// random nonce so identical credentials never produce identical blobs.
type AESGCMStore struct {
	aead cipher.AEAD
}

// NewAESGCMStore derives the encryption key and prepares the cipher
func NewAESGCMStore(passphrase, salt string) (*AESGCMStore, error) {
	if passphrase == "" {
		return nil, ErrPassphraseRequired
	}

	key, err := scrypt.Key([]byte(passphrase), []byte(salt), scryptN, scryptR, scryptP, keyLength)
	if err != nil {
		return nil, fmt.Errorf("credentials: key derivation failed: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("credentials: cipher init failed: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("credentials: GCM init failed: %w", err)
	}

	return &AESGCMStore{aead: aead}, nil
}

// Encrypt seals credentials into nonce-prefixed ciphertext
func (s *AESGCMStore) Encrypt(creds integration.Credentials) ([]byte, error) {
	plaintext, err := json.Marshal(creds)
	if err != nil {
		return nil, fmt.Errorf("credentials: marshal failed: %w", err)
	}

	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("credentials: nonce generation failed: %w", err)
	}

	return s.aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Decrypt opens a blob produced by Encrypt
func (s *AESGCMStore) Decrypt(blob []byte) (integration.Credentials, error) {
	if len(blob) < s.aead.NonceSize()+s.aead.Overhead() {
		return nil, ErrBlobTooShort
	}

	nonce, ciphertext := blob[:s.aead.NonceSize()], blob[s.aead.NonceSize():]
	plaintext, err := s.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", integration.ErrCredentialDecrypt, err)
	}

	var creds integration.Credentials
	if err := json.Unmarshal(plaintext, &creds); err != nil {
		return nil, fmt.Errorf("%w: %v", integration.ErrCredentialDecrypt, err)
	}
	return creds, nil
}

// Ensure AESGCMStore implements the CredentialStore interface
var _ integration.CredentialStore = (*AESGCMStore)(nil)
