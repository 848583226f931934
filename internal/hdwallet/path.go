package hdwallet

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/AlexZinkM/evm-wallet/internal/errs"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
)

const (
	purposeBIP44     uint32 = 44
	coinTypeEthereum uint32 = 60
	defaultAccount   uint32 = 0
	externalChain    uint32 = 0
)

const (
	hardened          = hdkeychain.HardenedKeyStart
	maxPathComponents = 255
)

// AccountPath returns the BIP44 Ethereum path for address index i:
// m/44'/60'/0'/0/i.
func AccountPath(i uint32) string {
	return fmt.Sprintf("m/%d'/%d'/%d'/%d/%d", purposeBIP44, coinTypeEthereum, defaultAccount, externalChain, i)
}

// ParsePath parses a BIP32 path such as "m/44'/60'/0'/0/0" into child
// indices. Hardened components may use ' or h.
func ParsePath(path string) ([]uint32, error) {
	parts := strings.Split(strings.TrimSpace(path), "/")
	if len(parts) == 0 || parts[0] != "m" {
		return nil, errs.Validation("derivation path must start with m: %q", path)
	}
	parts = parts[1:]
	if len(parts) > maxPathComponents {
		return nil, errs.Validation("derivation path too deep: %q", path)
	}

	indices := make([]uint32, 0, len(parts))
	for _, p := range parts {
		isHardened := strings.HasSuffix(p, "'") || strings.HasSuffix(p, "h")
		if isHardened {
			p = p[:len(p)-1]
		}
		n, err := strconv.ParseUint(p, 10, 32)
		if err != nil || n >= uint64(hardened) {
			return nil, errs.Validation("invalid derivation path component %q in %q", p, path)
		}
		idx := uint32(n)
		if isHardened {
			idx += hardened
		}
		indices = append(indices, idx)
	}
	return indices, nil
}
