package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/hkdf"
)

var (
	masterKeyOnce sync.Once
	masterKey     []byte
	masterKeyErr  error
	masterKeyPath string // set via SetMasterKeyPath before first use
)

// SetMasterKeyPath configures where to load the master encryption key from.
// Must be called before any encryption/decryption operations.
// If not set, the key material comes from PLATFORM_MASTER_KEY.
func SetMasterKeyPath(path string) {
	masterKeyPath = path
}

// loadMasterKey loads master key material from either:
// 1. the file set via SetMasterKeyPath (generated there on first use)
// 2. the PLATFORM_MASTER_KEY environment variable
// 3. a generated ephemeral key for development (secrets do not survive restart)
// and derives a 32-byte AES-256 key from it with HKDF-SHA256.
func loadMasterKey() ([]byte, error) {
	var keyMaterial []byte

	switch {
	case masterKeyPath != "":
		data, err := loadOrGenerateKeyFile(masterKeyPath)
		if err != nil {
			return nil, err
		}
		keyMaterial = data
	case os.Getenv("PLATFORM_MASTER_KEY") != "":
		keyMaterial = []byte(os.Getenv("PLATFORM_MASTER_KEY"))
	default:
		keyMaterial = make([]byte, 32)
		if _, err := rand.Read(keyMaterial); err != nil {
			return nil, fmt.Errorf("failed to generate ephemeral master key: %w", err)
		}
	}

	key := make([]byte, 32)
	kdf := hkdf.New(sha256.New, keyMaterial, nil, []byte("patchbay/credential-vault"))
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, fmt.Errorf("failed to derive master key: %w", err)
	}
	return key, nil
}

// loadOrGenerateKeyFile reads key material from path, generating and
// persisting a fresh 32-byte key on first use.
func loadOrGenerateKeyFile(path string) ([]byte, error) {
	path = filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("failed to prepare master key dir: %w", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		material := make([]byte, 32)
		if _, err := rand.Read(material); err != nil {
			return nil, fmt.Errorf("failed to generate master key: %w", err)
		}
		encoded := base64.RawURLEncoding.EncodeToString(material)
		if err := os.WriteFile(path, []byte(encoded), 0600); err != nil {
			return nil, fmt.Errorf("failed to write master key file: %w", err)
		}
		return []byte(encoded), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read master key file: %w", err)
	}
	return data, nil
}

func getMasterKey() ([]byte, error) {
	masterKeyOnce.Do(func() {
		masterKey, masterKeyErr = loadMasterKey()
	})
	return masterKey, masterKeyErr
}

// EncryptSecret encrypts a secret blob using AES-256-GCM.
// The output format is: [12-byte nonce][encrypted data][16-byte auth tag].
func EncryptSecret(plaintext []byte) ([]byte, error) {
	key, err := getMasterKey()
	if err != nil {
		return nil, fmt.Errorf("failed to get master key: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	// Seal appends ciphertext and auth tag to the nonce.
	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

// DecryptSecret decrypts data produced by EncryptSecret.
func DecryptSecret(encryptedData []byte) ([]byte, error) {
	key, err := getMasterKey()
	if err != nil {
		return nil, fmt.Errorf("failed to get master key: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	nonceSize := gcm.NonceSize()
	if len(encryptedData) < nonceSize {
		return nil, fmt.Errorf("ciphertext too short")
	}

	nonce, ciphertext := encryptedData[:nonceSize], encryptedData[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("decryption failed: %w", err)
	}

	return plaintext, nil
}

// ResetMasterKeyForTesting resets the master key singleton. Tests only.
func ResetMasterKeyForTesting() {
	masterKeyOnce = sync.Once{}
	masterKey = nil
	masterKeyErr = nil
}
