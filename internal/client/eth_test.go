package client

import (
	"context"
	"math/big"
	"net/http"
	"testing"
	"time"

	"github.com/AlexZinkM/evm-wallet/internal/errs"
	"github.com/AlexZinkM/evm-wallet/internal/ethtest"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testAddr = common.HexToAddress("0x9858EfFD232B4033E47d90003D41EC34EcaEda94")

func newTestClient(t *testing.T, node *ethtest.Node) *EthClient {
	t.Helper()
	c, err := NewEthClient(context.Background(), node.URL(), 5*time.Second)
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func TestEthClient_Reads(t *testing.T) {
	node := ethtest.NewNode(t, 137)
	node.SetBalance(testAddr, big.NewInt(1_000_000))
	node.SetNonce(testAddr, 7)
	node.SetBaseFee(big.NewInt(30))
	node.SetPriorityFee(big.NewInt(2))
	node.SetGasEstimate(50_000)
	c := newTestClient(t, node)
	ctx := context.Background()

	chainID, err := c.ChainID(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(137), chainID.Int64())

	bal, err := c.GetBalance(ctx, testAddr)
	require.NoError(t, err)
	assert.Equal(t, "1000000", bal.String())

	nonce, err := c.PendingNonce(ctx, testAddr)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), nonce)

	price, err := c.GasPrice(ctx)
	require.NoError(t, err)
	assert.Equal(t, "20000000000", price.String())

	base, err := c.BaseFee(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(30), base.Int64())

	tip, err := c.MaxPriorityFeePerGas(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), tip.Int64())

	gas, err := c.EstimateGas(ctx, CallMsg{From: testAddr, To: &testAddr, Value: big.NewInt(1), Data: []byte{0x01}})
	require.NoError(t, err)
	assert.Equal(t, uint64(50_000), gas)

	block, err := c.BlockNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), block)
}

func TestEthClient_BaseFeeAbsent(t *testing.T) {
	node := ethtest.NewNode(t, 56)
	c := newTestClient(t, node)

	base, err := c.BaseFee(context.Background())
	require.NoError(t, err)
	assert.Nil(t, base)
}

func TestEthClient_ReceiptPendingAndMined(t *testing.T) {
	node := ethtest.NewNode(t, 1)
	c := newTestClient(t, node)
	ctx := context.Background()
	hash := common.HexToHash("0xabc")

	r, err := c.TransactionReceipt(ctx, hash)
	require.NoError(t, err)
	assert.Nil(t, r)

	node.Mine(hash, 120, 0)
	r, err = c.TransactionReceipt(ctx, hash)
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.False(t, r.Succeeded())
	assert.Equal(t, int64(120), r.BlockNumber.ToInt().Int64())
}

func TestEthClient_ErrorMapping(t *testing.T) {
	node := ethtest.NewNode(t, 1)
	c := newTestClient(t, node)
	ctx := context.Background()

	node.Fail("eth_gasPrice", &ethtest.RPCError{Code: -32000, Message: "boom"})
	_, err := c.GasPrice(ctx)
	require.Error(t, err)
	var rpcErr *errs.RPCError
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, -32000, rpcErr.Code)
	assert.Contains(t, rpcErr.Message, "boom")
	assert.ErrorIs(t, err, errs.ErrRPC)

	node.Fail("eth_gasPrice", nil)
	node.FailHTTP(http.StatusServiceUnavailable)
	_, err = c.GasPrice(ctx)
	assert.ErrorIs(t, err, errs.ErrNetwork)
	assert.True(t, errs.Retryable(err))
}

func TestEthClient_Unreachable(t *testing.T) {
	c, err := NewEthClient(context.Background(), "http://127.0.0.1:1", time.Second)
	require.NoError(t, err)
	defer c.Close()

	_, err = c.BlockNumber(context.Background())
	assert.ErrorIs(t, err, errs.ErrNetwork)
}

func TestErrorPredicates(t *testing.T) {
	assert.True(t, IsAlreadyKnown(&errs.RPCError{Code: -32000, Message: "already known"}))
	assert.True(t, IsAlreadyKnown(&errs.RPCError{Code: -32000, Message: "Known transaction: 0xabc"}))
	assert.False(t, IsAlreadyKnown(errs.Network("x", nil)))
	assert.True(t, IsNonceTooLow(&errs.RPCError{Code: -32000, Message: "nonce too low"}))
	assert.True(t, IsMethodNotFound(&errs.RPCError{Code: -32601, Message: "nope"}))
	assert.False(t, IsMethodNotFound(&errs.RPCError{Code: -32000, Message: "nope"}))
}
