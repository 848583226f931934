package crypto

import (
	"fmt"
	"strings"

	"github.com/AlexZinkM/evm-wallet/internal/errs"

	"github.com/cosmos/go-bip39"
)

// entropyBits yields a 12-word mnemonic.
const entropyBits = 128

// GenerateSeed returns a fresh 12-word BIP39 mnemonic built from 128 bits of
// crypto/rand entropy.
func GenerateSeed() (string, error) {
	entropy, err := bip39.NewEntropy(entropyBits)
	if err != nil {
		return "", fmt.Errorf("failed to generate entropy: %w", err)
	}
	defer clear(entropy)

	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("failed to encode mnemonic: %w", err)
	}
	return mnemonic, nil
}

// NormalizeSeed lowercases the phrase and collapses whitespace.
func NormalizeSeed(phrase string) string {
	return strings.Join(strings.Fields(strings.ToLower(phrase)), " ")
}

// ValidateSeed checks wordlist membership and the BIP39 checksum.
func ValidateSeed(phrase string) bool {
	phrase = NormalizeSeed(phrase)
	if phrase == "" || !bip39.IsMnemonicValid(phrase) {
		return false
	}
	// IsMnemonicValid only checks length and wordlist
	_, err := bip39.MnemonicToByteArray(phrase)
	return err == nil
}

// SeedFromMnemonic returns the 64-byte BIP39 seed for phrase (empty passphrase).
// Caller should clear the result after use.
func SeedFromMnemonic(phrase string) ([]byte, error) {
	phrase = NormalizeSeed(phrase)
	if !ValidateSeed(phrase) {
		return nil, errs.InvalidSeed("invalid seed phrase")
	}
	seed, err := bip39.NewSeedWithErrorChecking(phrase, "")
	if err != nil {
		return nil, errs.InvalidSeed("invalid seed phrase")
	}
	return seed, nil
}
