package wallet

import (
	"context"
	"encoding/base64"
	"errors"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/AlexZinkM/evm-wallet/internal/config"
	"github.com/AlexZinkM/evm-wallet/internal/crypto"
	"github.com/AlexZinkM/evm-wallet/internal/errs"
	"github.com/AlexZinkM/evm-wallet/internal/ethtest"
	"github.com/AlexZinkM/evm-wallet/internal/hdwallet"
	"github.com/AlexZinkM/evm-wallet/internal/model"
	"github.com/AlexZinkM/evm-wallet/internal/network"
	"github.com/AlexZinkM/evm-wallet/internal/store"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/lightningnetwork/lnd/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testPassword    = "Correct-Horse9"
	abandonMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
	abandonAddr0    = "0x9858EfFD232B4033E47d90003D41EC34EcaEda94"
	abandonAddr1    = "0x6Fac4D18c912343BF86fa7049364Dd4E424Ab9C0"
	abandonAddr2    = "0xb6716976A3ebe8D39aCEB04372f22Ff8e6802D7A"
)

var testStart = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

// fakeGate accepts testPassword and is unlocked unless locked is set.
type fakeGate struct {
	mu       sync.Mutex
	locked   bool
	verifies int
}

func (g *fakeGate) Require(context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.locked {
		return errs.Auth("wallet is locked")
	}
	return nil
}

func (g *fakeGate) Verify(password []byte) error {
	g.mu.Lock()
	g.verifies++
	g.mu.Unlock()
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

type fakePrices struct {
	rate string
	err  error
}

func (p fakePrices) GetUSDPrice(context.Context, string) (string, error) {
	return p.rate, p.err
}

type storeEnv struct {
	kv       *store.MemoryStore
	gate     *fakeGate
	ethereum *ethtest.Node
	polygon  *ethtest.Node
	networks *network.Registry
	clock    *clock.TestClock
	store    *Store
}

func newStoreEnv(t *testing.T, prices PriceFeed) *storeEnv {
	t.Helper()
	env := &storeEnv{
		kv:       store.NewMemoryStore(),
		gate:     &fakeGate{},
		ethereum: ethtest.NewNode(t, 1),
		polygon:  ethtest.NewNode(t, 137),
		clock:    clock.NewTestClock(testStart),
	}

	reg, err := network.NewRegistry(context.Background(), env.kv, network.Options{
		Timeout:   2 * time.Second,
		RateLimit: 1000,
		Backoff:   time.Millisecond,
		Overrides: &config.NetworksFile{Networks: []config.NetworkOverride{
			{ID: "ethereum", RPCURL: env.ethereum.URL()},
			{ID: "polygon", RPCURL: env.polygon.URL()},
		}},
	})
	require.NoError(t, err)
	t.Cleanup(reg.Close)
	env.networks = reg

	env.store = NewStore(env.kv, crypto.NewVault(crypto.MinIterations), env.gate, reg, Options{
		Prices: prices,
		Clock:  env.clock,
	})
	return env
}

func (e *storeEnv) importAbandon(t *testing.T, count int) model.WalletView {
	t.Helper()
	w, err := e.store.ImportWallet(context.Background(), model.ImportWalletRequest{
		Name:         "main",
		SeedPhrase:   abandonMnemonic,
		Password:     testPassword,
		AccountCount: count,
	})
	require.NoError(t, err)
	return w
}

func TestCreateWallet(t *testing.T) {
	env := newStoreEnv(t, nil)
	ctx := context.Background()

	w, err := env.store.CreateWallet(ctx, model.CreateWalletRequest{
		Name:         "savings",
		Password:     testPassword,
		Network:      "polygon",
		AccountCount: 5,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, w.ID)
	assert.Equal(t, "polygon", w.DefaultNetwork)
	assert.Equal(t, testStart, w.CreatedAt)
	require.Len(t, w.Accounts, 5)

	seen := map[string]bool{}
	for i, acc := range w.Accounts {
		assert.Equal(t, uint32(i), acc.Index)
		assert.Equal(t, hdwallet.AccountPath(uint32(i)), acc.DerivationPath)
		assert.Equal(t, "polygon", acc.Network)
		assert.False(t, seen[acc.Address], "duplicate address %s", acc.Address)
		seen[acc.Address] = true
	}

	// Persisted record holds only the encrypted mnemonic
	var wallets []model.WalletRecord
	_, err = store.LoadJSON(ctx, env.kv, store.KeyWallets, &wallets)
	require.NoError(t, err)
	require.Len(t, wallets, 1)
	blob, err := base64.StdEncoding.DecodeString(wallets[0].EncryptedSeed)
	require.NoError(t, err)
	assert.Greater(t, len(blob), 64)

	mnemonic, err := env.store.ExportSeed(ctx, w.ID, testPassword)
	require.NoError(t, err)
	assert.True(t, crypto.ValidateSeed(mnemonic))
}

func TestCreateWallet_Validation(t *testing.T) {
	env := newStoreEnv(t, nil)
	ctx := context.Background()

	tests := []struct {
		name string
		req  model.CreateWalletRequest
		want error
	}{
		{"zero accounts", model.CreateWalletRequest{Name: "w", Password: testPassword}, errs.ErrValidation},
		{"negative accounts", model.CreateWalletRequest{Name: "w", Password: testPassword, AccountCount: -1}, errs.ErrValidation},
		{"missing name", model.CreateWalletRequest{Password: testPassword, AccountCount: 1}, errs.ErrValidation},
		{"unknown network", model.CreateWalletRequest{Name: "w", Password: testPassword, Network: "nope", AccountCount: 1}, errs.ErrNotFound},
		{"wrong password", model.CreateWalletRequest{Name: "w", Password: "Other-Pass1", AccountCount: 1}, errs.ErrAuth},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.store.CreateWallet(ctx, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	wallets, err := env.store.ListWallets(ctx)
	require.NoError(t, err)
	assert.Empty(t, wallets)
}

func TestImportWallet_GoldenAddresses(t *testing.T) {
	env := newStoreEnv(t, nil)
	w := env.importAbandon(t, 3)

	require.Len(t, w.Accounts, 3)
	assert.Equal(t, abandonAddr0, w.Accounts[0].Address)
	assert.Equal(t, abandonAddr1, w.Accounts[1].Address)
	assert.Equal(t, abandonAddr2, w.Accounts[2].Address)
	assert.Equal(t, network.DefaultNetwork, w.DefaultNetwork)
}

func TestImportWallet_Rejects(t *testing.T) {
	env := newStoreEnv(t, nil)
	ctx := context.Background()

	_, err := env.store.ImportWallet(ctx, model.ImportWalletRequest{
		Name:         "bad",
		SeedPhrase:   "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon",
		Password:     "wrong",
		AccountCount: 1,
	})
	assert.ErrorIs(t, err, errs.ErrInvalidSeed, "seed is checked before the password")
	assert.Zero(t, env.gate.verifies, "a bad checksum never reaches the password check")

	env.importAbandon(t, 1)
	_, err = env.store.ImportWallet(ctx, model.ImportWalletRequest{
		Name: "again", SeedPhrase: "  ABANDON " + abandonMnemonic[8:], Password: testPassword, AccountCount: 1,
	})
	assert.ErrorIs(t, err, errs.ErrValidation, "already imported")
}

func TestAddAccount(t *testing.T) {
	env := newStoreEnv(t, nil)
	ctx := context.Background()
	w := env.importAbandon(t, 1)

	acc, err := env.store.AddAccount(ctx, w.ID, testPassword)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), acc.Index)
	assert.Equal(t, abandonAddr1, acc.Address)

	_, err = env.store.AddAccount(ctx, w.ID, "Wrong-Pass1")
	assert.ErrorIs(t, err, errs.ErrAuth)

	_, err = env.store.AddAccount(ctx, "missing", testPassword)
	assert.ErrorIs(t, err, errs.ErrNotFound)

	env.gate.setLocked(true)
	_, err = env.store.AddAccount(ctx, w.ID, testPassword)
	assert.ErrorIs(t, err, errs.ErrAuth)

	got, err := env.store.GetWallet(ctx, w.ID)
	require.NoError(t, err)
	assert.Len(t, got.Accounts, 2)
}

func TestAddAccount_ConcurrentCallsNeverReuseIndex(t *testing.T) {
	env := newStoreEnv(t, nil)
	ctx := context.Background()
	w := env.importAbandon(t, 1)

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.store.AddAccount(ctx, w.ID, testPassword)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := env.store.GetWallet(ctx, w.ID)
	require.NoError(t, err)
	require.Len(t, got.Accounts, 5)
	for i, acc := range got.Accounts {
		assert.Equal(t, uint32(i), acc.Index)
	}
}

func TestExportSeed(t *testing.T) {
	env := newStoreEnv(t, nil)
	ctx := context.Background()
	w := env.importAbandon(t, 1)

	env.clock.SetTime(testStart.Add(time.Hour))
	mnemonic, err := env.store.ExportSeed(ctx, w.ID, testPassword)
	require.NoError(t, err)
	assert.Equal(t, abandonMnemonic, mnemonic)

	got, err := env.store.GetWallet(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, testStart.Add(time.Hour), got.LastAccessedAt)

	_, err = env.store.ExportSeed(ctx, w.ID, "Wrong-Pass1")
	assert.ErrorIs(t, err, errs.ErrAuth)
	_, err = env.store.ExportSeed(ctx, w.ID, "")
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestDeleteWallet(t *testing.T) {
	env := newStoreEnv(t, nil)
	ctx := context.Background()
	w := env.importAbandon(t, 1)

	env.gate.setLocked(true)
	assert.ErrorIs(t, env.store.DeleteWallet(ctx, w.ID), errs.ErrAuth)

	env.gate.setLocked(false)
	require.NoError(t, env.store.DeleteWallet(ctx, w.ID))
	_, err := env.store.GetWallet(ctx, w.ID)
	assert.ErrorIs(t, err, errs.ErrNotFound)
	assert.ErrorIs(t, env.store.DeleteWallet(ctx, w.ID), errs.ErrNotFound)
}

func TestRenameWallet(t *testing.T) {
	env := newStoreEnv(t, nil)
	ctx := context.Background()
	w := env.importAbandon(t, 1)

	got, err := env.store.RenameWallet(ctx, w.ID, "  daily ")
	require.NoError(t, err)
	assert.Equal(t, "daily", got.Name)

	_, err = env.store.RenameWallet(ctx, w.ID, " ")
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestFindAccount_CaseInsensitive(t *testing.T) {
	env := newStoreEnv(t, nil)
	w := env.importAbandon(t, 2)

	walletID, acc, err := env.store.FindAccount(context.Background(), "0x6fac4d18c912343bf86fa7049364dd4e424ab9c0")
	require.NoError(t, err)
	assert.Equal(t, w.ID, walletID)
	assert.Equal(t, abandonAddr1, acc.Address)

	_, _, err = env.store.FindAccount(context.Background(), "0x0000000000000000000000000000000000000001")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestWithSigner(t *testing.T) {
	env := newStoreEnv(t, nil)
	ctx := context.Background()
	env.importAbandon(t, 2)

	var held *hdwallet.Key
	err := env.store.WithSigner(ctx, abandonAddr1, testPassword, func(k *hdwallet.Key) error {
		held = k
		assert.Equal(t, abandonAddr1, k.Address.Hex())
		require.NotNil(t, k.PrivateKey)
		return nil
	})
	require.NoError(t, err)
	assert.Nil(t, held.PrivateKey, "key wiped after the call")

	boom := errors.New("device unplugged")
	err = env.store.WithSigner(ctx, abandonAddr1, testPassword, func(*hdwallet.Key) error { return boom })
	assert.ErrorIs(t, err, boom)

	err = env.store.WithSigner(ctx, abandonAddr1, "Wrong-Pass1", func(*hdwallet.Key) error {
		t.Fatal("signer called with wrong password")
		return nil
	})
	assert.ErrorIs(t, err, errs.ErrAuth)
}

func TestRekey(t *testing.T) {
	env := newStoreEnv(t, nil)
	ctx := context.Background()
	w := env.importAbandon(t, 1)

	extra := map[string][]byte{store.KeySecuritySettings: []byte(`{"passwordVerifier":"x"}`)}
	require.NoError(t, env.store.Rekey(ctx, []byte(testPassword), []byte("Battery-Staple7"), extra))

	raw, err := env.kv.Get(ctx, store.KeySecuritySettings)
	require.NoError(t, err)
	assert.JSONEq(t, `{"passwordVerifier":"x"}`, string(raw))

	_, err = env.store.ExportSeed(ctx, w.ID, testPassword)
	assert.ErrorIs(t, err, errs.ErrAuth)
	mnemonic, err := env.store.ExportSeed(ctx, w.ID, "Battery-Staple7")
	require.NoError(t, err)
	assert.Equal(t, abandonMnemonic, mnemonic)

	// Wrong old password leaves everything as it was
	err = env.store.Rekey(ctx, []byte(testPassword), []byte("Third-Pass3"), nil)
	assert.ErrorIs(t, err, errs.ErrDecryption)
	_, err = env.store.ExportSeed(ctx, w.ID, "Battery-Staple7")
	assert.NoError(t, err)
}

func TestRefreshBalances(t *testing.T) {
	env := newStoreEnv(t, nil)
	w := env.importAbandon(t, 2)

	env.ethereum.SetBalance(ethcommon.HexToAddress(abandonAddr0), big.NewInt(1_000_000))
	env.ethereum.SetNonce(ethcommon.HexToAddress(abandonAddr1), 7)

	got, err := env.store.RefreshBalances(context.Background(), w.ID)
	require.NoError(t, err)
	assert.Equal(t, "1000000", got.Accounts[0].Balance)
	assert.Equal(t, "0", got.Accounts[1].Balance)
	assert.Equal(t, uint64(7), got.Accounts[1].Nonce)
	assert.Zero(t, env.polygon.Calls("eth_getBalance"))
}

func TestBalance(t *testing.T) {
	env := newStoreEnv(t, fakePrices{rate: "2000.00000000"})
	env.importAbandon(t, 1)
	env.ethereum.SetBalance(ethcommon.HexToAddress(abandonAddr0), big.NewInt(1_500_000_000_000_000_000))

	got, err := env.store.Balance(context.Background(), abandonAddr0)
	require.NoError(t, err)
	assert.Equal(t, "1500000000000000000", got.Wei)
	assert.Equal(t, "1.5", got.Balance)
	assert.Equal(t, "ETH", got.Symbol)
	assert.Equal(t, "3000", got.USD)
}

func TestBalance_PriceFeedFailureDegrades(t *testing.T) {
	env := newStoreEnv(t, fakePrices{err: errors.New("503")})
	env.importAbandon(t, 1)
	env.ethereum.SetBalance(ethcommon.HexToAddress(abandonAddr0), big.NewInt(42))

	got, err := env.store.Balance(context.Background(), abandonAddr0)
	require.NoError(t, err)
	assert.Equal(t, "42", got.Wei)
	assert.Empty(t, got.USD)
	assert.Empty(t, got.Rate)
}

func TestReceiveQR(t *testing.T) {
	env := newStoreEnv(t, nil)
	env.importAbandon(t, 1)

	got, err := env.store.ReceiveQR(context.Background(), abandonAddr0)
	require.NoError(t, err)
	assert.Equal(t, abandonAddr0, got.Address)

	png, err := base64.StdEncoding.DecodeString(got.QR)
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), png[:4])
}
