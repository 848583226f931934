// Package hdwallet derives Ethereum signing keys and addresses from a BIP39
// seed along BIP32/BIP44 paths.
package hdwallet

import (
	"crypto/ecdsa"
	"encoding/hex"
	"fmt"

	"github.com/AlexZinkM/evm-wallet/internal/errs"
	"github.com/AlexZinkM/evm-wallet/internal/model"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
)

// Key is a derived signing key. Call Wipe when done.
type Key struct {
	Path       string
	Address    common.Address
	PublicKey  []byte // compressed secp256k1
	PrivateKey *ecdsa.PrivateKey
}

// Wipe overwrites the private scalar in place.
func (k *Key) Wipe() {
	if k == nil || k.PrivateKey == nil || k.PrivateKey.D == nil {
		return
	}
	clear(k.PrivateKey.D.Bits())
	k.PrivateKey.D.SetInt64(0)
	k.PrivateKey = nil
}

// Derive walks path from the master key of seed. The same (seed, path) always
// yields the same key.
func Derive(seed []byte, path string) (*Key, error) {
	indices, err := ParsePath(path)
	if err != nil {
		return nil, err
	}

	master, err := masterKey(seed)
	if err != nil {
		return nil, err
	}

	ext, err := walk(master, indices)
	if err != nil {
		return nil, fmt.Errorf("failed to derive %s: %w", path, err)
	}
	defer ext.Zero()

	return keyFromExtended(ext, path)
}

// DeriveRange derives accounts at indices 0..count-1 in order.
func DeriveRange(seed []byte, network string, count int) ([]model.Account, error) {
	if count < 1 {
		return nil, errs.Validation("account count must be at least 1, got %d", count)
	}
	return deriveFrom(seed, network, 0, count)
}

// DeriveAccount derives the single account at index.
func DeriveAccount(seed []byte, network string, index uint32) (model.Account, error) {
	accounts, err := deriveFrom(seed, network, index, 1)
	if err != nil {
		return model.Account{}, err
	}
	return accounts[0], nil
}

func deriveFrom(seed []byte, network string, start uint32, count int) ([]model.Account, error) {
	if uint64(start)+uint64(count) > uint64(hardened) {
		return nil, errs.Validation("account index out of range")
	}

	master, err := masterKey(seed)
	if err != nil {
		return nil, err
	}

	// m/44'/60'/0'/0 is shared by every account
	chain, err := walk(master, []uint32{
		hardened + purposeBIP44,
		hardened + coinTypeEthereum,
		hardened + defaultAccount,
		externalChain,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to derive account chain: %w", err)
	}
	defer chain.Zero()

	accounts := make([]model.Account, 0, count)
	for i := start; i < start+uint32(count); i++ {
		child, err := chain.Derive(i)
		if err != nil {
			return nil, fmt.Errorf("failed to derive address index %d: %w", i, err)
		}
		key, err := keyFromExtended(child, AccountPath(i))
		child.Zero()
		if err != nil {
			return nil, err
		}
		key.Wipe()

		accounts = append(accounts, model.Account{
			ID:             uuid.NewString(),
			Index:          i,
			Address:        key.Address.Hex(),
			PublicKey:      hex.EncodeToString(key.PublicKey),
			DerivationPath: key.Path,
			Network:        network,
			Balance:        "0",
		})
	}
	return accounts, nil
}

func masterKey(seed []byte) (*hdkeychain.ExtendedKey, error) {
	// Use Bitcoin mainnet params for key derivation; only the version bytes
	// differ between networks and they are never serialized here.
	master, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	if err != nil {
		return nil, fmt.Errorf("failed to generate master key: %w", err)
	}
	return master, nil
}

// walk derives indices from parent, zeroing every intermediate key.
// parent is zeroed as well.
func walk(parent *hdkeychain.ExtendedKey, indices []uint32) (*hdkeychain.ExtendedKey, error) {
	cur := parent
	for _, idx := range indices {
		next, err := cur.Derive(idx)
		cur.Zero()
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}

func keyFromExtended(ext *hdkeychain.ExtendedKey, path string) (*Key, error) {
	priv, err := ext.ECPrivKey()
	if err != nil {
		return nil, fmt.Errorf("failed to get private key: %w", err)
	}
	ecdsaKey := priv.ToECDSA()
	priv.Zero()

	pub, err := ext.ECPubKey()
	if err != nil {
		return nil, fmt.Errorf("failed to get public key: %w", err)
	}

	return &Key{
		Path:       path,
		Address:    crypto.PubkeyToAddress(ecdsaKey.PublicKey),
		PublicKey:  pub.SerializeCompressed(),
		PrivateKey: ecdsaKey,
	}, nil
}
