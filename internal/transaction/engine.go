// Package transaction builds, signs, broadcasts and tracks EVM transactions.
//
// A transaction moves Built -> Signed -> Pending and then to exactly one of
// Confirmed, Failed or Replaced. Pending records are watched by a background
// monitor per transaction; every status change is a compare-and-set that
// never touches a terminal record.
package transaction

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/AlexZinkM/evm-wallet/internal/errs"
	"github.com/AlexZinkM/evm-wallet/internal/hdwallet"
	"github.com/AlexZinkM/evm-wallet/internal/model"
	"github.com/AlexZinkM/evm-wallet/internal/multimutex"
	"github.com/AlexZinkM/evm-wallet/internal/network"
	"github.com/AlexZinkM/evm-wallet/internal/store"

	"github.com/lightningnetwork/lnd/clock"
)

const (
	DefaultMonitorInterval = 10 * time.Second
	DefaultMonitorTimeout  = 5 * time.Minute
)

// Networks hands out RPC connections by network id ("" = current).
type Networks interface {
	Conn(id string) (*network.Conn, error)
}

// Accounts resolves owned accounts and lends their signing keys.
type Accounts interface {
	FindAccount(ctx context.Context, address string) (string, model.Account, error)
	WithSigner(ctx context.Context, address, password string, fn func(*hdwallet.Key) error) error
}

// Gate authorizes signing.
type Gate interface {
	Require(ctx context.Context) error
	// SessionContext returns a context cancelled when the session locks.
	SessionContext(parent context.Context) (context.Context, context.CancelFunc, error)
}

// Options tune an Engine. Zero values get defaults.
type Options struct {
	MonitorInterval time.Duration
	MonitorTimeout  time.Duration
	Clock           clock.Clock
	Logger          *slog.Logger
}

// Engine is the transaction engine.
type Engine struct {
	kv       store.KV
	networks Networks
	accounts Accounts
	gate     Gate
	opts     Options
	clock    clock.Clock
	logger   *slog.Logger

	// senders serializes build..record per (network, from) so two sends
	// never pick the same nonce.
	senders *multimutex.Mutex[string]

	// mu guards read-modify-write of the persisted transaction list.
	mu sync.Mutex

	quit      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewEngine creates an engine. Call ResumePending to pick up transactions
// left pending by a previous run.
func NewEngine(kv store.KV, networks Networks, accounts Accounts, gate Gate, opts Options) *Engine {
	if opts.MonitorInterval <= 0 {
		opts.MonitorInterval = DefaultMonitorInterval
	}
	if opts.MonitorTimeout <= 0 {
		opts.MonitorTimeout = DefaultMonitorTimeout
	}
	if opts.Clock == nil {
		opts.Clock = clock.NewDefaultClock()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Engine{
		kv:       kv,
		networks: networks,
		accounts: accounts,
		gate:     gate,
		opts:     opts,
		clock:    opts.Clock,
		logger:   opts.Logger.With("component", "transaction"),
		senders:  multimutex.New[string](),
		quit:     make(chan struct{}),
	}
}

// Close stops all monitors and waits for them. Statuses are left as they
// are; pending records stay pending.
func (e *Engine) Close() {
	e.closeOnce.Do(func() { close(e.quit) })
	e.wg.Wait()
}

// ResumePending restarts monitoring of every persisted pending transaction.
// The monitoring window still counts from the original submission time.
func (e *Engine) ResumePending(ctx context.Context) (int, error) {
	txs, err := e.all(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, tx := range txs {
		if tx.Status != model.TxPending {
			continue
		}
		e.startMonitor(tx)
		n++
	}
	if n > 0 {
		e.logger.Info("resumed monitoring", "pending", n)
	}
	return n, nil
}

// Get returns one transaction.
func (e *Engine) Get(ctx context.Context, id string) (model.Transaction, error) {
	txs, err := e.all(ctx)
	if err != nil {
		return model.Transaction{}, err
	}
	for _, tx := range txs {
		if tx.ID == id {
			return tx, nil
		}
	}
	return model.Transaction{}, errs.NotFound("transaction %s not found", id)
}

// List returns the transactions matching filter, newest first.
func (e *Engine) List(ctx context.Context, filter *model.TxFilter) ([]model.Transaction, error) {
	if filter != nil {
		if err := filter.Validate(); err != nil {
			return nil, errs.Validation("%s", err.Error())
		}
	}
	txs, err := e.all(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]model.Transaction, 0, len(txs))
	for i := range txs {
		if filter.Match(&txs[i]) {
			out = append(out, txs[i])
		}
	}
	slices.SortStableFunc(out, func(a, b model.Transaction) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	return out, nil
}

// inFlight returns the pending transactions of from on network.
func (e *Engine) inFlight(ctx context.Context, network, from string) ([]model.Transaction, error) {
	txs, err := e.all(ctx)
	if err != nil {
		return nil, err
	}
	var out []model.Transaction
	for _, tx := range txs {
		if tx.Status == model.TxPending && tx.Network == network && sameAddress(tx.From, from) {
			out = append(out, tx)
		}
	}
	return out, nil
}

// transition applies a status change if the record is still pending. It
// reports whether the change was applied.
func (e *Engine) transition(ctx context.Context, id string, to model.TxStatus, mutate func(*model.Transaction)) (bool, error) {
	applied := false
	err := e.update(ctx, func(txs []model.Transaction) ([]model.Transaction, error) {
		i := slices.IndexFunc(txs, func(t model.Transaction) bool { return t.ID == id })
		if i < 0 {
			return nil, errs.NotFound("transaction %s not found", id)
		}
		if !txs[i].Status.CanTransition(to) {
			return txs, nil
		}
		txs[i].Status = to
		txs[i].UpdatedAt = e.clock.Now().UTC()
		if mutate != nil {
			mutate(&txs[i])
		}
		applied = true
		return txs, nil
	})
	return applied, err
}

func (e *Engine) all(ctx context.Context) ([]model.Transaction, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.allLocked(ctx)
}

func (e *Engine) allLocked(ctx context.Context) ([]model.Transaction, error) {
	var txs []model.Transaction
	if _, err := store.LoadJSON(ctx, e.kv, store.KeyTransactions, &txs); err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	return txs, nil
}

func (e *Engine) update(ctx context.Context, fn func([]model.Transaction) ([]model.Transaction, error)) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	txs, err := e.allLocked(ctx)
	if err != nil {
		return err
	}
	txs, err = fn(txs)
	if err != nil {
		return err
	}
	return store.SaveJSON(ctx, e.kv, store.KeyTransactions, txs)
}
