package transaction

import (
	"context"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/AlexZinkM/evm-wallet/internal/config"
	"github.com/AlexZinkM/evm-wallet/internal/crypto"
	"github.com/AlexZinkM/evm-wallet/internal/errs"
	"github.com/AlexZinkM/evm-wallet/internal/ethtest"
	"github.com/AlexZinkM/evm-wallet/internal/model"
	"github.com/AlexZinkM/evm-wallet/internal/network"
	"github.com/AlexZinkM/evm-wallet/internal/store"
	"github.com/AlexZinkM/evm-wallet/internal/wallet"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/lightningnetwork/lnd/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

const (
	testPassword    = "Correct-Horse9"
	abandonMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
	abandonAddr0    = "0x9858EfFD232B4033E47d90003D41EC34EcaEda94"
	abandonAddr1    = "0x6Fac4D18c912343BF86fa7049364Dd4E424Ab9C0"
	recipient       = "0xb6716976A3ebe8D39aCEB04372f22Ff8e6802D7A"
)

var (
	gwei  = big.NewInt(1_000_000_000)
	ether = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
)

func gweiN(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), gwei)
}

func etherN(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), ether)
}

// fakeGate accepts testPassword and is unlocked unless locked is set.
type fakeGate struct {
	mu     sync.Mutex
	locked bool
}

func (g *fakeGate) Require(context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.locked {
		return errs.Auth("wallet is locked")
	}
	return nil
}

func (g *fakeGate) SessionContext(parent context.Context) (context.Context, context.CancelFunc, error) {
	if err := g.Require(parent); err != nil {
		return nil, nil, err
	}
	ctx, cancel := context.WithCancel(parent)
	return ctx, cancel, nil
}

func (g *fakeGate) Verify(password []byte) error {
	if string(password) != testPassword {
		return errs.Auth("invalid password")
	}
	return nil
}

func (g *fakeGate) setLocked(v bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.locked = v
}

type engineEnv struct {
	kv       *store.MemoryStore
	gate     *fakeGate
	node     *ethtest.Node
	networks *network.Registry
	wallets  *wallet.Store
	walletID string
	engine   *Engine
}

// newEngineEnv wires an engine to a fake ethereum node and a wallet holding
// the first two accounts of the "abandon ... about" mnemonic.
func newEngineEnv(t *testing.T, opts Options) *engineEnv {
	t.Helper()
	env := &engineEnv{
		kv:   store.NewMemoryStore(),
		gate: &fakeGate{},
		node: ethtest.NewNode(t, 1),
	}

	reg, err := network.NewRegistry(context.Background(), env.kv, network.Options{
		Timeout:   2 * time.Second,
		RateLimit: 1000,
		Backoff:   time.Millisecond,
		Overrides: &config.NetworksFile{Networks: []config.NetworkOverride{
			{ID: "ethereum", RPCURL: env.node.URL()},
		}},
	})
	require.NoError(t, err)
	t.Cleanup(reg.Close)
	env.networks = reg

	env.wallets = wallet.NewStore(env.kv, crypto.NewVault(crypto.MinIterations), env.gate, reg, wallet.Options{})
	w, err := env.wallets.ImportWallet(context.Background(), model.ImportWalletRequest{
		Name:         "main",
		SeedPhrase:   abandonMnemonic,
		Password:     testPassword,
		AccountCount: 2,
	})
	require.NoError(t, err)
	env.walletID = w.ID

	if opts.MonitorInterval == 0 {
		opts.MonitorInterval = 10 * time.Millisecond
	}
	if opts.MonitorTimeout == 0 {
		opts.MonitorTimeout = 5 * time.Second
	}
	env.engine = NewEngine(env.kv, reg, env.wallets, env.gate, opts)
	t.Cleanup(env.engine.Close)
	return env
}

func (e *engineEnv) fund(addr string, wei *big.Int) {
	e.node.SetBalance(ethcommon.HexToAddress(addr), wei)
}

func (e *engineEnv) send(t *testing.T, amount string) model.Transaction {
	t.Helper()
	tx, err := e.engine.Send(context.Background(), model.SendRequest{
		From:     abandonAddr0,
		To:       recipient,
		Amount:   amount,
		Password: testPassword,
	})
	require.NoError(t, err)
	return tx
}

func (e *engineEnv) waitStatus(t *testing.T, id string, want model.TxStatus) model.Transaction {
	t.Helper()
	var got model.Transaction
	require.Eventually(t, func() bool {
		tx, err := e.engine.Get(context.Background(), id)
		if err != nil {
			return false
		}
		got = tx
		return tx.Status == want
	}, 3*time.Second, 10*time.Millisecond, "transaction %s never became %s", id, want)
	return got
}

func seedTransactions(t *testing.T, kv store.KV, txs ...model.Transaction) {
	t.Helper()
	require.NoError(t, store.SaveJSON(context.Background(), kv, store.KeyTransactions, txs))
}

func TestList_FilterAndOrder(t *testing.T) {
	kv := store.NewMemoryStore()
	e := NewEngine(kv, nil, nil, &fakeGate{}, Options{})
	t.Cleanup(e.Close)
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	seedTransactions(t, kv,
		model.Transaction{ID: "a", From: abandonAddr0, To: recipient, Network: "ethereum", Status: model.TxConfirmed, Timestamp: base},
		model.Transaction{ID: "b", From: abandonAddr1, To: recipient, Network: "polygon", Status: model.TxPending, Timestamp: base.Add(time.Hour)},
		model.Transaction{ID: "c", From: recipient, To: abandonAddr0, Network: "ethereum", Status: model.TxFailed, Timestamp: base.Add(2 * time.Hour)},
	)

	ids := func(txs []model.Transaction) []string {
		out := make([]string, 0, len(txs))
		for _, tx := range txs {
			out = append(out, tx.ID)
		}
		return out
	}

	all, err := e.List(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b", "a"}, ids(all))

	lower := "0x9858effd232b4033e47d90003d41ec34ecaeda94"
	byAddr, err := e.List(ctx, &model.TxFilter{Address: &lower})
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a"}, ids(byAddr))

	net := "polygon"
	byNet, err := e.List(ctx, &model.TxFilter{Network: &net})
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, ids(byNet))

	status := model.TxFailed
	byStatus, err := e.List(ctx, &model.TxFilter{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, ids(byStatus))

	from, to := base.Add(30*time.Minute), base.Add(90*time.Minute)
	byDate, err := e.List(ctx, &model.TxFilter{From: &from, To: &to})
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, ids(byDate))

	_, err = e.List(ctx, &model.TxFilter{From: &to, To: &from})
	assert.ErrorIs(t, err, errs.ErrValidation)

	bogus := model.TxStatus("LOST")
	_, err = e.List(ctx, &model.TxFilter{Status: &bogus})
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestGet_NotFound(t *testing.T) {
	e := NewEngine(store.NewMemoryStore(), nil, nil, &fakeGate{}, Options{})
	t.Cleanup(e.Close)

	_, err := e.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestResumePending(t *testing.T) {
	env := newEngineEnv(t, Options{})
	ctx := context.Background()

	pendingHash := ethcommon.HexToHash("0x01")
	now := time.Now().UTC()
	seedTransactions(t, env.kv,
		model.Transaction{ID: "p", Hash: pendingHash.Hex(), From: abandonAddr0, Network: "ethereum", Status: model.TxPending, Timestamp: now},
		model.Transaction{ID: "done", Hash: ethcommon.HexToHash("0x02").Hex(), From: abandonAddr0, Network: "ethereum", Status: model.TxConfirmed, Timestamp: now},
	)
	env.node.Mine(pendingHash, 120, 1)
	env.node.SetBlock(122)

	n, err := env.engine.ResumePending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	tx := env.waitStatus(t, "p", model.TxConfirmed)
	assert.Equal(t, uint64(120), tx.BlockNumber)
	assert.Equal(t, uint64(3), tx.Confirmations)
}

func TestClose_LeavesPendingUntouched(t *testing.T) {
	env := newEngineEnv(t, Options{})
	env.fund(abandonAddr0, etherN(10))

	tx := env.send(t, "1")
	env.engine.Close()

	got, err := env.engine.Get(context.Background(), tx.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TxPending, got.Status)
}

func TestTransition_StatusNeverLeavesTerminal(t *testing.T) {
	statuses := []model.TxStatus{model.TxPending, model.TxConfirmed, model.TxFailed, model.TxReplaced}

	rapid.Check(t, func(t *rapid.T) {
		kv := store.NewMemoryStore()
		e := NewEngine(kv, nil, nil, &fakeGate{}, Options{})
		defer e.Close()
		ctx := context.Background()

		require.NoError(t, store.SaveJSON(ctx, kv, store.KeyTransactions,
			[]model.Transaction{{ID: "tx", Status: model.TxPending}}))

		var settled model.TxStatus
		steps := rapid.SliceOfN(rapid.SampledFrom(statuses), 1, 10).Draw(t, "steps")
		for _, to := range steps {
			applied, err := e.transition(ctx, "tx", to, nil)
			require.NoError(t, err)

			got, err := e.Get(ctx, "tx")
			require.NoError(t, err)

			if settled == "" {
				if to.Terminal() {
					require.True(t, applied)
					settled = to
				} else {
					require.False(t, applied)
				}
			} else {
				require.False(t, applied)
			}
			if settled != "" {
				require.Equal(t, settled, got.Status)
			} else {
				require.Equal(t, model.TxPending, got.Status)
			}
		}
	})
}

func TestMonitor_TimesOutWithoutReceipt(t *testing.T) {
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	ticks := make(chan time.Duration, 16)
	testClock := clock.NewTestClockWithTickSignal(start, ticks)

	interval := 10 * time.Second
	env := newEngineEnv(t, Options{
		MonitorInterval: interval,
		MonitorTimeout:  3 * interval,
		Clock:           testClock,
	})
	env.fund(abandonAddr0, etherN(10))

	tx := env.send(t, "1")
	assert.Equal(t, start, tx.Timestamp)

	for i := 1; i <= 3; i++ {
		select {
		case d := <-ticks:
			assert.Equal(t, interval, d)
		case <-time.After(3 * time.Second):
			t.Fatalf("monitor did not wait for tick %d", i)
		}
		testClock.SetTime(start.Add(time.Duration(i) * interval))
	}

	got := env.waitStatus(t, tx.ID, model.TxFailed)
	assert.Equal(t, string(errs.KindTimeout), got.ErrorKind)
	assert.Contains(t, got.Error, "timeout")
	assert.Equal(t, start.Add(3*interval), got.UpdatedAt)
}
