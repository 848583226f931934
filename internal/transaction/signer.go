package transaction

import (
	"context"
	"fmt"
	"math/big"

	"github.com/AlexZinkM/evm-wallet/internal/hdwallet"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Signer signs transactions for one address.
type Signer interface {
	Address() ethcommon.Address
	SignTx(ctx context.Context, tx *types.Transaction, chainID *big.Int) (*types.Transaction, error)
}

// LocalSigner signs with a key re-derived from the wallet seed for the
// duration of one call.
type LocalSigner struct {
	accounts Accounts
	address  ethcommon.Address
	password string
}

// NewLocalSigner returns a signer that unlocks address with password.
func NewLocalSigner(accounts Accounts, address ethcommon.Address, password string) *LocalSigner {
	return &LocalSigner{accounts: accounts, address: address, password: password}
}

func (s *LocalSigner) Address() ethcommon.Address {
	return s.address
}

func (s *LocalSigner) SignTx(ctx context.Context, tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	var signed *types.Transaction
	err := s.accounts.WithSigner(ctx, s.address.Hex(), s.password, func(k *hdwallet.Key) error {
		var err error
		signed, err = types.SignTx(tx, types.LatestSignerForChainID(chainID), k.PrivateKey)
		return err
	})
	if err != nil {
		return nil, err
	}
	return signed, nil
}

// Device is an external signer such as a hardware wallet. It returns a
// 65-byte [R || S || V] secp256k1 signature over hash.
type Device interface {
	Sign(ctx context.Context, hash []byte) ([]byte, error)
}

// DeviceSigner adapts a Device to Signer.
type DeviceSigner struct {
	device  Device
	address ethcommon.Address
}

// NewDeviceSigner returns a signer backed by device for address.
func NewDeviceSigner(device Device, address ethcommon.Address) *DeviceSigner {
	return &DeviceSigner{device: device, address: address}
}

func (s *DeviceSigner) Address() ethcommon.Address {
	return s.address
}

func (s *DeviceSigner) SignTx(ctx context.Context, tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	signer := types.LatestSignerForChainID(chainID)
	sig, err := s.device.Sign(ctx, signer.Hash(tx).Bytes())
	if err != nil {
		return nil, fmt.Errorf("device signing failed: %w", err)
	}
	return tx.WithSignature(signer, sig)
}
