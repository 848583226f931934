package network

import (
	"context"
	"math/big"
	"net/http"
	"testing"
	"time"

	"github.com/AlexZinkM/evm-wallet/internal/client"
	"github.com/AlexZinkM/evm-wallet/internal/config"
	"github.com/AlexZinkM/evm-wallet/internal/errs"
	"github.com/AlexZinkM/evm-wallet/internal/ethtest"
	"github.com/AlexZinkM/evm-wallet/internal/model"
	"github.com/AlexZinkM/evm-wallet/internal/store"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testAddr = common.HexToAddress("0x9858EfFD232B4033E47d90003D41EC34EcaEda94")

type testEnv struct {
	kv       *store.MemoryStore
	reg      *Registry
	ethereum *ethtest.Node
	polygon  *ethtest.Node
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		kv:       store.NewMemoryStore(),
		ethereum: ethtest.NewNode(t, 1),
		polygon:  ethtest.NewNode(t, 137),
	}
	env.reg = newRegistry(t, env.kv, env.overrides())
	return env
}

func (e *testEnv) overrides() *config.NetworksFile {
	return &config.NetworksFile{Networks: []config.NetworkOverride{
		{ID: "ethereum", RPCURL: e.ethereum.URL()},
		{ID: "polygon", RPCURL: e.polygon.URL()},
	}}
}

func newRegistry(t *testing.T, kv store.KV, overrides *config.NetworksFile) *Registry {
	t.Helper()
	reg, err := NewRegistry(context.Background(), kv, Options{
		Timeout:   2 * time.Second,
		Retries:   2,
		RateLimit: 1000,
		Backoff:   time.Millisecond,
		Overrides: overrides,
	})
	require.NoError(t, err)
	t.Cleanup(reg.Close)
	return reg
}

func TestNewRegistry_Builtins(t *testing.T) {
	env := newTestEnv(t)

	assert.Equal(t, DefaultNetwork, env.reg.Current().ID)

	ids := map[string]int64{}
	for _, n := range env.reg.List() {
		ids[n.ID] = n.ChainID
	}
	assert.Equal(t, int64(1), ids["ethereum"])
	assert.Equal(t, int64(137), ids["polygon"])
	assert.Equal(t, int64(11155111), ids["sepolia"])
	assert.Equal(t, int64(42161), ids["arbitrum"])
	assert.Equal(t, int64(10), ids["optimism"])
	assert.Equal(t, int64(56), ids["bsc"])

	var persisted model.NetworkSettings
	found, err := store.LoadJSON(context.Background(), env.kv, store.KeyNetworks, &persisted)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "ethereum", persisted.Current)
}

func TestSwitch_RoutesBalanceToSelectedNetwork(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.polygon.SetBalance(testAddr, big.NewInt(42))
	env.ethereum.SetBalance(testAddr, big.NewInt(7))

	require.NoError(t, env.reg.Switch(ctx, "polygon"))

	bal, err := env.reg.GetBalance(ctx, testAddr)
	require.NoError(t, err)
	assert.Equal(t, int64(42), bal.Int64())
	assert.Equal(t, 1, env.polygon.Calls("eth_getBalance"))
	assert.Equal(t, 0, env.ethereum.Calls("eth_getBalance"))
}

func TestSwitch_Persists(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.reg.Switch(context.Background(), "polygon"))

	reopened := newRegistry(t, env.kv, env.overrides())
	assert.Equal(t, "polygon", reopened.Current().ID)
}

func TestSwitch_Rejects(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	assert.ErrorIs(t, env.reg.Switch(ctx, "nope"), errs.ErrNotFound)

	require.NoError(t, env.reg.SetEnabled(ctx, "bsc", false))
	assert.ErrorIs(t, env.reg.Switch(ctx, "bsc"), errs.ErrValidation)
	assert.Equal(t, "ethereum", env.reg.Current().ID)

	_, err := env.reg.Conn("bsc")
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestSetEnabled_CurrentCannotBeDisabled(t *testing.T) {
	env := newTestEnv(t)
	err := env.reg.SetEnabled(context.Background(), "ethereum", false)
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestAddRemoveCustomNetwork(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	devnet := ethtest.NewNode(t, 31337)

	n, err := env.reg.Add(ctx, model.Network{
		ID:      "devnet",
		Name:    "Devnet",
		Symbol:  "ETH",
		RPCURL:  devnet.URL(),
		ChainID: 31337,
	})
	require.NoError(t, err)
	assert.True(t, n.IsCustom)
	assert.True(t, n.IsEnabled)
	assert.Equal(t, 1, devnet.Calls("eth_chainId"))

	got, err := env.reg.Get("devnet")
	require.NoError(t, err)
	assert.Equal(t, devnet.URL(), got.RPCURL)

	require.NoError(t, env.reg.Switch(ctx, "devnet"))
	assert.ErrorIs(t, env.reg.Remove(ctx, "devnet"), errs.ErrValidation, "current network")

	require.NoError(t, env.reg.Switch(ctx, "ethereum"))
	require.NoError(t, env.reg.Remove(ctx, "devnet"))
	_, err = env.reg.Get("devnet")
	assert.ErrorIs(t, err, errs.ErrNotFound)

	assert.ErrorIs(t, env.reg.Remove(ctx, "polygon"), errs.ErrValidation, "built-in")
}

func TestAdd_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	devnet := ethtest.NewNode(t, 31337)

	valid := model.Network{ID: "devnet", Name: "Devnet", Symbol: "ETH", RPCURL: devnet.URL(), ChainID: 31337}

	tests := []struct {
		name   string
		mutate func(n *model.Network)
		want   error
	}{
		{"missing id", func(n *model.Network) { n.ID = "" }, errs.ErrValidation},
		{"bad url", func(n *model.Network) { n.RPCURL = "ftp://x" }, errs.ErrValidation},
		{"zero chain id", func(n *model.Network) { n.ChainID = 0 }, errs.ErrValidation},
		{"chain id mismatch", func(n *model.Network) { n.ChainID = 999 }, errs.ErrValidation},
		{"duplicate id", func(n *model.Network) { n.ID = "polygon"; n.ChainID = 31337 }, errs.ErrValidation},
		{"unreachable", func(n *model.Network) { n.RPCURL = "http://127.0.0.1:1" }, errs.ErrNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := valid
			tt.mutate(&n)
			_, err := env.reg.Add(ctx, n)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestAdd_DuplicateChainID(t *testing.T) {
	env := newTestEnv(t)
	polygonTwin := ethtest.NewNode(t, 137)

	_, err := env.reg.Add(context.Background(), model.Network{
		ID: "polygon-2", Name: "Polygon 2", Symbol: "POL", RPCURL: polygonTwin.URL(), ChainID: 137,
	})
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestTestConnection(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	assert.True(t, env.reg.TestConnection(ctx, "ethereum"))
	assert.Equal(t, 1, env.ethereum.Calls("eth_blockNumber"))

	env.ethereum.FailHTTP(http.StatusBadGateway)
	assert.False(t, env.reg.TestConnection(ctx, "ethereum"))
	assert.False(t, env.reg.TestConnection(ctx, "missing"))
}

func TestConn_RetriesNetworkErrorsOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	conn, err := env.reg.Conn("ethereum")
	require.NoError(t, err)

	env.ethereum.FailHTTP(http.StatusServiceUnavailable)
	_, err = conn.GetGasPrice(ctx)
	assert.ErrorIs(t, err, errs.ErrNetwork)
	assert.Equal(t, 3, env.ethereum.Calls("eth_gasPrice"), "one attempt plus two retries")

	env.ethereum.FailHTTP(0)
	env.ethereum.Fail("eth_estimateGas", &ethtest.RPCError{Code: 3, Message: "execution reverted"})
	_, err = conn.EstimateGas(ctx, clientCallMsg())
	assert.ErrorIs(t, err, errs.ErrRPC)
	assert.Equal(t, 1, env.ethereum.Calls("eth_estimateGas"))
}

func TestNewRegistry_OverridesAddCustomAndDefault(t *testing.T) {
	kv := store.NewMemoryStore()
	devnet := ethtest.NewNode(t, 31337)
	disabled := false

	reg := newRegistry(t, kv, &config.NetworksFile{
		Default: "devnet",
		Networks: []config.NetworkOverride{
			{ID: "devnet", Name: "Devnet", Symbol: "ETH", RPCURL: devnet.URL(), ChainID: 31337},
			{ID: "bsc", Enabled: &disabled},
		},
	})

	assert.Equal(t, "devnet", reg.Current().ID)
	assert.True(t, reg.Current().IsCustom)
	bsc, err := reg.Get("bsc")
	require.NoError(t, err)
	assert.False(t, bsc.IsEnabled)
	assert.Equal(t, int64(56), bsc.ChainID, "untouched fields keep built-in values")
}

func TestNewRegistry_DisabledDefaultFallsBackToEnabled(t *testing.T) {
	disabled := false

	reg := newRegistry(t, store.NewMemoryStore(), &config.NetworksFile{
		Networks: []config.NetworkOverride{{ID: DefaultNetwork, Enabled: &disabled}},
	})

	assert.Equal(t, "polygon", reg.Current().ID)
	n, err := reg.Resolve("")
	require.NoError(t, err)
	assert.True(t, n.IsEnabled)
}

func TestNewRegistry_NoEnabledNetwork(t *testing.T) {
	var overrides config.NetworksFile
	for _, b := range Builtins() {
		disabled := false
		overrides.Networks = append(overrides.Networks, config.NetworkOverride{ID: b.ID, Enabled: &disabled})
	}

	_, err := NewRegistry(context.Background(), store.NewMemoryStore(), Options{Overrides: &overrides})
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func clientCallMsg() client.CallMsg {
	to := testAddr
	return client.CallMsg{From: testAddr, To: &to, Value: big.NewInt(1)}
}
