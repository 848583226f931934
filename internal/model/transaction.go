package model

import (
	"fmt"
	"strings"
	"time"
)

// TxStatus is the lifecycle state of a submitted transaction.
type TxStatus string

const (
	TxPending   TxStatus = "PENDING"
	TxConfirmed TxStatus = "CONFIRMED"
	TxFailed    TxStatus = "FAILED"
	TxReplaced  TxStatus = "REPLACED"
)

// Terminal reports whether no further transition is allowed.
func (s TxStatus) Terminal() bool {
	return s == TxConfirmed || s == TxFailed || s == TxReplaced
}

// CanTransition reports whether s -> to is a legal status change.
// Only Pending has outgoing transitions.
func (s TxStatus) CanTransition(to TxStatus) bool {
	return s == TxPending && to.Terminal()
}

// TxKind records why a transaction was created.
type TxKind string

const (
	TxKindTransfer TxKind = "TRANSFER"
	TxKindSpeedUp  TxKind = "SPEED_UP"
	TxKindCancel   TxKind = "CANCEL"
)

// Transaction is the persisted record of a broadcast transaction.
// Amounts are decimal strings in wei.
type Transaction struct {
	ID                   string    `json:"id"`
	Hash                 string    `json:"hash"`
	Kind                 TxKind    `json:"kind"`
	From                 string    `json:"from"`
	To                   string    `json:"to"`
	Value                string    `json:"value"`
	Data                 string    `json:"data,omitempty"` // 0x-prefixed hex
	GasLimit             uint64    `json:"gasLimit"`
	GasPrice             string    `json:"gasPrice,omitempty"`
	MaxFeePerGas         string    `json:"maxFeePerGas,omitempty"`
	MaxPriorityFeePerGas string    `json:"maxPriorityFeePerGas,omitempty"`
	Nonce                uint64    `json:"nonce"`
	Network              string    `json:"network"`
	ChainID              int64     `json:"chainId"`
	Status               TxStatus  `json:"status"`
	BlockNumber          uint64    `json:"blockNumber,omitempty"`
	Confirmations        uint64    `json:"confirmations,omitempty"`
	Timestamp            time.Time `json:"timestamp"`
	UpdatedAt            time.Time `json:"updatedAt"`
	Error                string    `json:"error,omitempty"`
	ErrorKind            string    `json:"errorKind,omitempty"`
	Replaces             string    `json:"replaces,omitempty"`   // id of the tx this one supersedes
	ReplacedBy           string    `json:"replacedBy,omitempty"` // id of the superseding tx
}

// TxFilter represents request parameters for GET /transactions
type TxFilter struct {
	Address *string   `form:"address"`
	Network *string   `form:"network"`
	Status  *TxStatus `form:"status"`
	From    *time.Time
	To      *time.Time
}

// Validate validates TxFilter parameters.
func (f *TxFilter) Validate() error {
	if f.Status != nil {
		switch *f.Status {
		case TxPending, TxConfirmed, TxFailed, TxReplaced:
		default:
			return fmt.Errorf("status must be one of PENDING, CONFIRMED, FAILED, REPLACED")
		}
	}
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return fmt.Errorf("to date must be after or equal to from date")
	}
	return nil
}

// Match reports whether tx passes the filter.
func (f *TxFilter) Match(tx *Transaction) bool {
	if f == nil {
		return true
	}
	if f.Address != nil && !strings.EqualFold(tx.From, *f.Address) && !strings.EqualFold(tx.To, *f.Address) {
		return false
	}
	if f.Network != nil && tx.Network != *f.Network {
		return false
	}
	if f.Status != nil && tx.Status != *f.Status {
		return false
	}
	if f.From != nil && tx.Timestamp.Before(*f.From) {
		return false
	}
	if f.To != nil && tx.Timestamp.After(*f.To) {
		return false
	}
	return true
}

// SendRequest represents request for POST /transactions
type SendRequest struct {
	WalletID string  `json:"walletId"`
	From     string  `json:"from"`
	To       string  `json:"to"`
	Amount   string  `json:"amount"` // in native coin units, e.g. "0.25"
	Data     string  `json:"data,omitempty"`
	Network  string  `json:"network,omitempty"`
	Tier     FeeTier `json:"tier,omitempty"`
	Nonce    *uint64 `json:"nonce,omitempty"`
	Password string  `json:"password"`
}

// EstimateRequest represents request for POST /transactions/estimate
type EstimateRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Amount  string `json:"amount"`
	Data    string `json:"data,omitempty"`
	Network string `json:"network,omitempty"`
}

// SpeedUpRequest represents request for POST /transactions/{id}/speedup
type SpeedUpRequest struct {
	GasPriceGwei string `json:"gasPriceGwei,omitempty"` // empty: automatic bump
	Password     string `json:"password"`
}
