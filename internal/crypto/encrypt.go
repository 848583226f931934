package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"

	"github.com/AlexZinkM/evm-wallet/internal/errs"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// MinIterations is the PBKDF2 floor; configured values below it are raised.
	MinIterations = 100_000

	keyLen  = 32 // AES-256
	saltLen = 32
	ivLen   = 16
	tagLen  = 16
	minBlob = saltLen + ivLen + tagLen
)

// Vault encrypts secrets under a password.
// Blob layout: base64(salt || iv || ciphertext+tag).
type Vault struct {
	iterations int
}

// NewVault returns a Vault using the given PBKDF2 iteration count.
func NewVault(iterations int) *Vault {
	if iterations < MinIterations {
		iterations = MinIterations
	}
	return &Vault{iterations: iterations}
}

// Iterations returns the effective PBKDF2 iteration count.
func (v *Vault) Iterations() int {
	return v.iterations
}

// Encrypt seals secret under password. Every call uses a fresh salt and IV.
// password must be []byte for security (caller should zero it after use)
func (v *Vault) Encrypt(secret, password []byte) (string, error) {
	if len(password) == 0 {
		return "", errs.Validation("password must not be empty")
	}
	if len(secret) == 0 {
		return "", errs.Validation("secret must not be empty")
	}

	// Generate salt and IV
	buf := make([]byte, saltLen+ivLen)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	salt, iv := buf[:saltLen], buf[saltLen:]

	aesGCM, err := v.newGCM(password, salt)
	if err != nil {
		return "", err
	}

	// Encrypt
	out := aesGCM.Seal(buf, iv, secret, nil)
	return base64.StdEncoding.EncodeToString(out), nil
}

// newGCM derives the key from password and salt and builds an AES-GCM AEAD
// with a 16-byte nonce.
func (v *Vault) newGCM(password, salt []byte) (cipher.AEAD, error) {
	// Derive key from password
	key := pbkdf2.Key(password, salt, v.iterations, keyLen, sha256.New)
	defer clear(key)

	// Create AES cipher
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	// Create GCM
	aesGCM, err := cipher.NewGCMWithNonceSize(block, ivLen)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return aesGCM, nil
}
