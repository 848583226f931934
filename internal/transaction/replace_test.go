package transaction

import (
	"context"
	"testing"

	"github.com/AlexZinkM/evm-wallet/internal/errs"
	"github.com/AlexZinkM/evm-wallet/internal/ethtest"
	"github.com/AlexZinkM/evm-wallet/internal/model"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpeedUp_Automatic(t *testing.T) {
	env := newEngineEnv(t, Options{})
	env.fund(abandonAddr0, etherN(10))
	ctx := context.Background()

	orig := env.send(t, "1")

	fast, err := env.engine.SpeedUp(ctx, orig.ID, model.SpeedUpRequest{Password: testPassword})
	require.NoError(t, err)

	assert.Equal(t, model.TxKindSpeedUp, fast.Kind)
	assert.Equal(t, orig.Nonce, fast.Nonce)
	assert.Equal(t, orig.To, fast.To)
	assert.Equal(t, orig.Value, fast.Value)
	assert.Equal(t, orig.ID, fast.Replaces)
	// max(fast tier 24 gwei, 20 gwei * 110%)
	assert.Equal(t, gweiN(24).String(), fast.GasPrice)
	assert.NotEqual(t, orig.Hash, fast.Hash)

	replaced, err := env.engine.Get(ctx, orig.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TxReplaced, replaced.Status)
	assert.Equal(t, fast.ID, replaced.ReplacedBy)

	env.node.Mine(ethcommon.HexToHash(fast.Hash), 101, 1)
	env.waitStatus(t, fast.ID, model.TxConfirmed)

	// a replaced record stays replaced
	got, err := env.engine.Get(ctx, orig.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TxReplaced, got.Status)
}

func TestSpeedUp_ExplicitPrice(t *testing.T) {
	env := newEngineEnv(t, Options{})
	env.fund(abandonAddr0, etherN(10))
	ctx := context.Background()

	orig := env.send(t, "1")

	_, err := env.engine.SpeedUp(ctx, orig.ID, model.SpeedUpRequest{GasPriceGwei: "20", Password: testPassword})
	assert.ErrorIs(t, err, errs.ErrValidation)

	_, err = env.engine.SpeedUp(ctx, orig.ID, model.SpeedUpRequest{GasPriceGwei: "abc", Password: testPassword})
	assert.ErrorIs(t, err, errs.ErrValidation)

	fast, err := env.engine.SpeedUp(ctx, orig.ID, model.SpeedUpRequest{GasPriceGwei: "50.5", Password: testPassword})
	require.NoError(t, err)
	assert.Equal(t, "50500000000", fast.GasPrice)
}

func TestSpeedUp_EIP1559BumpsTip(t *testing.T) {
	env := newEngineEnv(t, Options{})
	env.fund(abandonAddr0, etherN(10))
	env.node.SetBaseFee(gweiN(10))
	env.node.SetPriorityFee(gweiN(2))
	ctx := context.Background()

	orig := env.send(t, "1")
	assert.Equal(t, gweiN(22).String(), orig.MaxFeePerGas)

	fast, err := env.engine.SpeedUp(ctx, orig.ID, model.SpeedUpRequest{Password: testPassword})
	require.NoError(t, err)

	assert.Equal(t, gweiN(26).String(), fast.MaxFeePerGas)
	assert.Equal(t, "2200000000", fast.MaxPriorityFeePerGas)
}

func TestSpeedUp_OnlyPending(t *testing.T) {
	env := newEngineEnv(t, Options{})
	env.fund(abandonAddr0, etherN(10))
	env.node.AutoMine(true)
	ctx := context.Background()

	orig := env.send(t, "1")
	env.waitStatus(t, orig.ID, model.TxConfirmed)

	_, err := env.engine.SpeedUp(ctx, orig.ID, model.SpeedUpRequest{Password: testPassword})
	assert.ErrorIs(t, err, errs.ErrValidation)

	_, err = env.engine.Cancel(ctx, orig.ID, testPassword)
	assert.ErrorIs(t, err, errs.ErrValidation)

	_, err = env.engine.SpeedUp(ctx, "missing", model.SpeedUpRequest{Password: testPassword})
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestSpeedUp_UnderpricedByNode(t *testing.T) {
	env := newEngineEnv(t, Options{})
	env.fund(abandonAddr0, etherN(10))
	ctx := context.Background()

	orig := env.send(t, "1")
	env.node.Fail("eth_sendRawTransaction", &ethtest.RPCError{Code: -32000, Message: "replacement transaction underpriced"})

	_, err := env.engine.SpeedUp(ctx, orig.ID, model.SpeedUpRequest{Password: testPassword})
	assert.ErrorIs(t, err, errs.ErrValidation)

	got, err := env.engine.Get(ctx, orig.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TxPending, got.Status)
}

func TestCancel(t *testing.T) {
	env := newEngineEnv(t, Options{})
	env.fund(abandonAddr0, etherN(10))
	env.node.SetGasEstimate(60000)
	ctx := context.Background()

	orig, err := env.engine.Send(ctx, model.SendRequest{
		From:     abandonAddr0,
		To:       recipient,
		Amount:   "3",
		Data:     "0xa9059cbb",
		Password: testPassword,
	})
	require.NoError(t, err)

	cancel, err := env.engine.Cancel(ctx, orig.ID, testPassword)
	require.NoError(t, err)

	assert.Equal(t, model.TxKindCancel, cancel.Kind)
	assert.Equal(t, orig.Nonce, cancel.Nonce)
	assert.Equal(t, abandonAddr0, cancel.To)
	assert.Equal(t, "0", cancel.Value)
	assert.Empty(t, cancel.Data)
	assert.Equal(t, uint64(cancelGasLimit), cancel.GasLimit)

	sent := env.node.LastSent()
	require.NotNil(t, sent)
	assert.Equal(t, ethcommon.HexToAddress(abandonAddr0), *sent.To())
	assert.Zero(t, sent.Value().Sign())

	replaced, err := env.engine.Get(ctx, orig.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TxReplaced, replaced.Status)
	assert.Equal(t, cancel.ID, replaced.ReplacedBy)
}

func TestCancel_WrongPassword(t *testing.T) {
	env := newEngineEnv(t, Options{})
	env.fund(abandonAddr0, etherN(10))
	ctx := context.Background()

	orig := env.send(t, "1")
	_, err := env.engine.Cancel(ctx, orig.ID, "Wrong-Pass1")
	assert.ErrorIs(t, err, errs.ErrAuth)

	got, err := env.engine.Get(ctx, orig.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TxPending, got.Status)
}
