package model

import (
	"strings"
	"time"
)

// WalletRecord is the persisted form of an HD wallet.
// The mnemonic is only ever stored as a SeedVault blob; signing keys are
// re-derived from it on demand.
type WalletRecord struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	EncryptedSeed  string    `json:"encryptedSeed"` // base64(salt||iv||ciphertext) of the mnemonic
	Accounts       []Account `json:"accounts"`
	DefaultNetwork string    `json:"defaultNetwork"`
	CreatedAt      time.Time `json:"createdAt"`
	LastAccessedAt time.Time `json:"lastAccessedAt"`
}

// Account is a single derived address of a wallet.
// Address and PublicKey are reproducible from (seed, DerivationPath) and are
// never edited independently.
type Account struct {
	ID             string    `json:"id"`
	Index          uint32    `json:"index"`
	Address        string    `json:"address"`   // EIP-55 checksum form
	PublicKey      string    `json:"publicKey"` // compressed secp256k1, hex
	DerivationPath string    `json:"derivationPath"`
	Network        string    `json:"network"`
	Balance        string    `json:"balance"` // cached, wei
	Nonce          uint64    `json:"nonce"`   // cached
	CreatedAt      time.Time `json:"createdAt"`
}

// FindAccount returns the account with the given address (case-insensitive).
func (w *WalletRecord) FindAccount(address string) (*Account, bool) {
	for i := range w.Accounts {
		if strings.EqualFold(w.Accounts[i].Address, address) {
			return &w.Accounts[i], true
		}
	}
	return nil, false
}

// NextIndex returns the derivation index of the next account to append.
func (w *WalletRecord) NextIndex() uint32 {
	var next uint32
	for _, acc := range w.Accounts {
		if acc.Index >= next {
			next = acc.Index + 1
		}
	}
	return next
}

// View strips the encrypted seed for API responses.
func (w *WalletRecord) View() WalletView {
	accounts := make([]Account, len(w.Accounts))
	copy(accounts, w.Accounts)
	return WalletView{
		ID:             w.ID,
		Name:           w.Name,
		Accounts:       accounts,
		DefaultNetwork: w.DefaultNetwork,
		CreatedAt:      w.CreatedAt,
		LastAccessedAt: w.LastAccessedAt,
	}
}

// WalletView is a wallet without its secret material.
type WalletView struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Accounts       []Account `json:"accounts"`
	DefaultNetwork string    `json:"defaultNetwork"`
	CreatedAt      time.Time `json:"createdAt"`
	LastAccessedAt time.Time `json:"lastAccessedAt"`
}

// CreateWalletRequest represents request for POST /wallets
type CreateWalletRequest struct {
	Name         string `json:"name"`
	Password     string `json:"password"`
	Network      string `json:"network"`
	AccountCount int    `json:"accountCount"`
}

// ImportWalletRequest represents request for POST /wallets/import
type ImportWalletRequest struct {
	Name         string `json:"name"`
	SeedPhrase   string `json:"seedPhrase"`
	Password     string `json:"password"`
	Network      string `json:"network"`
	AccountCount int    `json:"accountCount"`
}

// PasswordRequest carries the wallet password for decrypting operations.
type PasswordRequest struct {
	Password string `json:"password"`
}

// RenameWalletRequest represents request for PATCH /wallets/{id}
type RenameWalletRequest struct {
	Name string `json:"name"`
}

// ExportResponse represents response for POST /wallets/{id}/export
type ExportResponse struct {
	SeedPhrase string `json:"seedPhrase"`
}

// QRResponse represents response for GET /accounts/{address}/qr
type QRResponse struct {
	Address string `json:"address"`
	QR      string `json:"QR"` // base64 PNG
}
