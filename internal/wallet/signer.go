package wallet

import (
	"context"
	"fmt"
	"strings"

	"github.com/AlexZinkM/evm-wallet/internal/hdwallet"
)

// WithSigner re-derives the signing key of address, passes it to fn and
// wipes it when fn returns. The key never outlives the call.
func (s *Store) WithSigner(ctx context.Context, address, password string, fn func(*hdwallet.Key) error) error {
	if err := s.gate.Require(ctx); err != nil {
		return err
	}

	walletID, acc, err := s.FindAccount(ctx, address)
	if err != nil {
		return err
	}

	s.locks.Lock(walletID)
	defer s.locks.Unlock(walletID)

	rec, err := s.load(ctx, walletID)
	if err != nil {
		return err
	}
	seed, err := s.openSeed(rec, password)
	if err != nil {
		return err
	}
	key, err := hdwallet.Derive(seed, acc.DerivationPath)
	clear(seed)
	if err != nil {
		return err
	}
	defer key.Wipe()

	if !strings.EqualFold(key.Address.Hex(), acc.Address) {
		return fmt.Errorf("derived address %s does not match account %s", key.Address.Hex(), acc.Address)
	}

	if err := fn(key); err != nil {
		return err
	}
	s.touch(ctx, walletID)
	return nil
}
