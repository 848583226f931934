// Package wallet owns wallet records: it creates and imports HD wallets,
// derives their accounts and is the only component that decrypts seeds.
package wallet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/AlexZinkM/evm-wallet/internal/crypto"
	"github.com/AlexZinkM/evm-wallet/internal/errs"
	"github.com/AlexZinkM/evm-wallet/internal/hdwallet"
	"github.com/AlexZinkM/evm-wallet/internal/model"
	"github.com/AlexZinkM/evm-wallet/internal/multimutex"
	"github.com/AlexZinkM/evm-wallet/internal/network"
	"github.com/AlexZinkM/evm-wallet/internal/store"

	"github.com/google/uuid"
	"github.com/lightningnetwork/lnd/clock"
)

// Gate authorizes access to wallet secrets.
type Gate interface {
	// Require fails unless ctx carries a valid session.
	Require(ctx context.Context) error
	// Verify checks a password against the master password.
	Verify(password []byte) error
}

// Networks resolves network ids and hands out RPC connections.
type Networks interface {
	Resolve(id string) (model.Network, error)
	Conn(id string) (*network.Conn, error)
}

// PriceFeed returns a USD rate for a coin id. Failures are tolerated.
type PriceFeed interface {
	GetUSDPrice(ctx context.Context, coinID string) (string, error)
}

// Options for a Store.
type Options struct {
	Prices PriceFeed
	Clock  clock.Clock
	Logger *slog.Logger
}

// Store manages wallet records. Mutations of one wallet are serialized by a
// per-wallet lock; every read-modify-write of the persisted wallet list
// additionally holds mu.
type Store struct {
	kv       store.KV
	vault    *crypto.Vault
	gate     Gate
	networks Networks
	prices   PriceFeed
	clock    clock.Clock
	logger   *slog.Logger

	locks *multimutex.Mutex[string]
	mu    sync.Mutex
}

// NewStore creates a wallet store.
func NewStore(kv store.KV, vault *crypto.Vault, gate Gate, networks Networks, opts Options) *Store {
	if opts.Clock == nil {
		opts.Clock = clock.NewDefaultClock()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Store{
		kv:       kv,
		vault:    vault,
		gate:     gate,
		networks: networks,
		prices:   opts.Prices,
		clock:    opts.Clock,
		logger:   opts.Logger.With("component", "wallet"),
		locks:    multimutex.New[string](),
	}
}

// CreateWallet generates a fresh mnemonic, encrypts it under password and
// derives accountCount accounts.
func (s *Store) CreateWallet(ctx context.Context, req model.CreateWalletRequest) (model.WalletView, error) {
	mnemonic, err := crypto.GenerateSeed()
	if err != nil {
		return model.WalletView{}, err
	}
	return s.newWallet(ctx, req.Name, mnemonic, req.Password, req.Network, req.AccountCount)
}

// ImportWallet restores a wallet from an existing mnemonic. The phrase is
// validated before anything else happens.
func (s *Store) ImportWallet(ctx context.Context, req model.ImportWalletRequest) (model.WalletView, error) {
	mnemonic := crypto.NormalizeSeed(req.SeedPhrase)
	if !crypto.ValidateSeed(mnemonic) {
		return model.WalletView{}, errs.InvalidSeed("invalid seed phrase")
	}
	return s.newWallet(ctx, req.Name, mnemonic, req.Password, req.Network, req.AccountCount)
}

func (s *Store) newWallet(ctx context.Context, name, mnemonic, password, networkID string, count int) (model.WalletView, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.WalletView{}, errs.Validation("wallet name is required")
	}
	if count < 1 {
		return model.WalletView{}, errs.Validation("account count must be at least 1")
	}
	n, err := s.networks.Resolve(networkID)
	if err != nil {
		return model.WalletView{}, err
	}

	pw := []byte(password)
	defer clear(pw)
	if err := s.gate.Verify(pw); err != nil {
		return model.WalletView{}, err
	}

	seed, err := crypto.SeedFromMnemonic(mnemonic)
	if err != nil {
		return model.WalletView{}, err
	}
	accounts, err := hdwallet.DeriveRange(seed, n.ID, count)
	clear(seed)
	if err != nil {
		return model.WalletView{}, err
	}

	secret := []byte(mnemonic)
	blob, err := s.vault.Encrypt(secret, pw)
	clear(secret)
	if err != nil {
		return model.WalletView{}, err
	}

	now := s.clock.Now().UTC()
	for i := range accounts {
		accounts[i].CreatedAt = now
	}
	rec := model.WalletRecord{
		ID:             uuid.NewString(),
		Name:           name,
		EncryptedSeed:  blob,
		Accounts:       accounts,
		DefaultNetwork: n.ID,
		CreatedAt:      now,
		LastAccessedAt: now,
	}

	err = s.update(ctx, func(wallets []model.WalletRecord) ([]model.WalletRecord, error) {
		first := rec.Accounts[0].Address
		for _, w := range wallets {
			if _, ok := w.FindAccount(first); ok {
				return nil, errs.Validation("wallet already exists as %q", w.Name)
			}
		}
		return append(wallets, rec), nil
	})
	if err != nil {
		return model.WalletView{}, err
	}

	s.logger.Info("wallet created", "wallet_id", rec.ID, "network", n.ID, "accounts", len(accounts))
	return rec.View(), nil
}

// AddAccount derives and appends the next account of a wallet. A wrong
// password is reported as an AUTH error.
func (s *Store) AddAccount(ctx context.Context, walletID, password string) (model.Account, error) {
	if err := s.gate.Require(ctx); err != nil {
		return model.Account{}, err
	}

	s.locks.Lock(walletID)
	defer s.locks.Unlock(walletID)

	rec, err := s.load(ctx, walletID)
	if err != nil {
		return model.Account{}, err
	}

	seed, err := s.openSeed(rec, password)
	if err != nil {
		return model.Account{}, err
	}
	acc, err := hdwallet.DeriveAccount(seed, rec.DefaultNetwork, rec.NextIndex())
	clear(seed)
	if err != nil {
		return model.Account{}, err
	}
	acc.CreatedAt = s.clock.Now().UTC()

	err = s.modify(ctx, walletID, func(w *model.WalletRecord) error {
		if w.NextIndex() != acc.Index {
			return fmt.Errorf("account index %d already taken", acc.Index)
		}
		w.Accounts = append(w.Accounts, acc)
		w.LastAccessedAt = acc.CreatedAt
		return nil
	})
	if err != nil {
		return model.Account{}, err
	}

	s.logger.Info("account added", "wallet_id", walletID, "address", acc.Address, "index", acc.Index)
	return acc, nil
}

// ExportSeed returns the plaintext mnemonic after verifying password. The
// result must not be logged.
func (s *Store) ExportSeed(ctx context.Context, walletID, password string) (string, error) {
	if err := s.gate.Require(ctx); err != nil {
		return "", err
	}

	s.locks.Lock(walletID)
	defer s.locks.Unlock(walletID)

	rec, err := s.load(ctx, walletID)
	if err != nil {
		return "", err
	}
	pw := []byte(password)
	defer clear(pw)
	secret, err := s.decrypt(rec, pw)
	if err != nil {
		return "", err
	}
	mnemonic := string(secret)
	clear(secret)

	s.touch(ctx, walletID)
	s.logger.Info("wallet exported", "wallet_id", walletID)
	return mnemonic, nil
}

// DeleteWallet removes a wallet record. The operation cannot be undone.
func (s *Store) DeleteWallet(ctx context.Context, walletID string) error {
	if err := s.gate.Require(ctx); err != nil {
		return err
	}

	s.locks.Lock(walletID)
	defer s.locks.Unlock(walletID)

	err := s.update(ctx, func(wallets []model.WalletRecord) ([]model.WalletRecord, error) {
		i := slices.IndexFunc(wallets, func(w model.WalletRecord) bool { return w.ID == walletID })
		if i < 0 {
			return nil, errs.NotFound("wallet %s not found", walletID)
		}
		return slices.Delete(wallets, i, i+1), nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("wallet deleted", "wallet_id", walletID)
	return nil
}

// ListWallets returns every wallet without secret material.
func (s *Store) ListWallets(ctx context.Context) ([]model.WalletView, error) {
	wallets, err := s.all(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]model.WalletView, 0, len(wallets))
	for _, w := range wallets {
		views = append(views, w.View())
	}
	return views, nil
}

// GetWallet returns one wallet without secret material.
func (s *Store) GetWallet(ctx context.Context, walletID string) (model.WalletView, error) {
	rec, err := s.load(ctx, walletID)
	if err != nil {
		return model.WalletView{}, err
	}
	return rec.View(), nil
}

// RenameWallet changes a wallet's display name.
func (s *Store) RenameWallet(ctx context.Context, walletID, name string) (model.WalletView, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.WalletView{}, errs.Validation("wallet name is required")
	}

	s.locks.Lock(walletID)
	defer s.locks.Unlock(walletID)

	var view model.WalletView
	err := s.modify(ctx, walletID, func(w *model.WalletRecord) error {
		w.Name = name
		view = w.View()
		return nil
	})
	return view, err
}

// FindAccount returns the wallet id owning address and the account.
func (s *Store) FindAccount(ctx context.Context, address string) (string, model.Account, error) {
	wallets, err := s.all(ctx)
	if err != nil {
		return "", model.Account{}, err
	}
	for _, w := range wallets {
		if acc, ok := w.FindAccount(address); ok {
			return w.ID, *acc, nil
		}
	}
	return "", model.Account{}, errs.NotFound("account %s not found", address)
}

// Rekey re-encrypts every wallet seed from oldPassword to newPassword and
// writes them together with extra in one atomic store write. A seed that
// does not open under oldPassword aborts the whole change.
func (s *Store) Rekey(ctx context.Context, oldPassword, newPassword []byte, extra map[string][]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	wallets, err := s.allLocked(ctx)
	if err != nil {
		return err
	}
	for i := range wallets {
		blob, err := s.vault.Reencrypt(wallets[i].EncryptedSeed, oldPassword, newPassword)
		if err != nil {
			return fmt.Errorf("wallet %s: %w", wallets[i].ID, err)
		}
		wallets[i].EncryptedSeed = blob
	}

	entries := make(map[string][]byte, len(extra)+1)
	for k, v := range extra {
		entries[k] = v
	}
	data, err := store.Encode(store.KeyWallets, wallets)
	if err != nil {
		return err
	}
	entries[store.KeyWallets] = data

	if err := s.kv.PutAll(ctx, entries); err != nil {
		return fmt.Errorf("failed to persist re-encrypted wallets: %w", err)
	}
	s.logger.Info("wallets re-encrypted", "wallets", len(wallets))
	return nil
}

// openSeed decrypts the wallet mnemonic and returns the BIP39 seed. The
// caller clears it.
func (s *Store) openSeed(rec model.WalletRecord, password string) ([]byte, error) {
	pw := []byte(password)
	defer clear(pw)

	secret, err := s.decrypt(rec, pw)
	if err != nil {
		return nil, err
	}
	defer clear(secret)
	return crypto.SeedFromMnemonic(string(secret))
}

// decrypt maps a failed decryption to AUTH: both wrong password and
// corrupted blob mean the caller cannot open this wallet.
func (s *Store) decrypt(rec model.WalletRecord, password []byte) ([]byte, error) {
	if len(password) == 0 {
		return nil, errs.Validation("password must not be empty")
	}
	secret, err := s.vault.Decrypt(rec.EncryptedSeed, password)
	if errors.Is(err, errs.ErrDecryption) {
		s.logger.Warn("wallet decryption failed", "wallet_id", rec.ID)
		return nil, errs.Auth("invalid password")
	}
	return secret, err
}

// touch records a decrypting access. Failures are logged only.
func (s *Store) touch(ctx context.Context, walletID string) {
	err := s.modify(ctx, walletID, func(w *model.WalletRecord) error {
		w.LastAccessedAt = s.clock.Now().UTC()
		return nil
	})
	if err != nil {
		s.logger.Warn("failed to update last access", "wallet_id", walletID, "error", err)
	}
}

func (s *Store) load(ctx context.Context, walletID string) (model.WalletRecord, error) {
	wallets, err := s.all(ctx)
	if err != nil {
		return model.WalletRecord{}, err
	}
	for _, w := range wallets {
		if w.ID == walletID {
			return w, nil
		}
	}
	return model.WalletRecord{}, errs.NotFound("wallet %s not found", walletID)
}

func (s *Store) all(ctx context.Context) ([]model.WalletRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.allLocked(ctx)
}

func (s *Store) allLocked(ctx context.Context) ([]model.WalletRecord, error) {
	var wallets []model.WalletRecord
	if _, err := store.LoadJSON(ctx, s.kv, store.KeyWallets, &wallets); err != nil {
		return nil, err
	}
	return wallets, nil
}

// update applies fn to the persisted wallet list under mu.
func (s *Store) update(ctx context.Context, fn func([]model.WalletRecord) ([]model.WalletRecord, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	wallets, err := s.allLocked(ctx)
	if err != nil {
		return err
	}
	wallets, err = fn(wallets)
	if err != nil {
		return err
	}
	return store.SaveJSON(ctx, s.kv, store.KeyWallets, wallets)
}

// modify applies fn to one wallet record under mu.
func (s *Store) modify(ctx context.Context, walletID string, fn func(*model.WalletRecord) error) error {
	return s.update(ctx, func(wallets []model.WalletRecord) ([]model.WalletRecord, error) {
		i := slices.IndexFunc(wallets, func(w model.WalletRecord) bool { return w.ID == walletID })
		if i < 0 {
			return nil, errs.NotFound("wallet %s not found", walletID)
		}
		if err := fn(&wallets[i]); err != nil {
			return nil, err
		}
		return wallets, nil
	})
}
