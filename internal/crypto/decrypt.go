package crypto

import (
	"encoding/base64"
	"strings"

	"github.com/AlexZinkM/evm-wallet/internal/errs"
)

// Decrypt reverses Encrypt. A wrong password and a tampered blob both return
// the same DECRYPTION error. A blob that cannot be parsed is a FORMAT error.
// password must be []byte for security (caller should zero it after use)
func (v *Vault) Decrypt(blob string, password []byte) ([]byte, error) {
	if len(password) == 0 {
		return nil, errs.Validation("password must not be empty")
	}

	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(blob))
	if err != nil {
		return nil, errs.Format("malformed encrypted blob")
	}
	if len(raw) < minBlob {
		return nil, errs.Format("encrypted blob too short")
	}
	salt, iv, ciphertext := raw[:saltLen], raw[saltLen:saltLen+ivLen], raw[saltLen+ivLen:]

	aesGCM, err := v.newGCM(password, salt)
	if err != nil {
		return nil, err
	}

	// Decrypt
	plaintext, err := aesGCM.Open(nil, iv, ciphertext, nil)
	if err != nil {
		return nil, errs.Decryption()
	}
	return plaintext, nil
}

// Reencrypt decrypts blob with oldPassword and seals the plaintext under
// newPassword. The intermediate plaintext is wiped.
func (v *Vault) Reencrypt(blob string, oldPassword, newPassword []byte) (string, error) {
	plaintext, err := v.Decrypt(blob, oldPassword)
	if err != nil {
		return "", err
	}
	defer clear(plaintext) // wipe decrypted bytes from memory

	return v.Encrypt(plaintext, newPassword)
}
