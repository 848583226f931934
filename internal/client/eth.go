package client

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/AlexZinkM/evm-wallet/internal/errs"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
)

// DefaultRPCTimeout bounds every JSON-RPC round trip.
const DefaultRPCTimeout = 15 * time.Second

// EthClient is a thin client for an Ethereum JSON-RPC 2.0 endpoint.
// Transport failures are returned as NETWORK errors and JSON-RPC error
// objects as *errs.RPCError.
type EthClient struct {
	rpcClient *rpc.Client
	rpcURL    string
}

// CallMsg holds the fields sent to eth_estimateGas.
type CallMsg struct {
	From  common.Address
	To    *common.Address
	Value *big.Int
	Data  []byte
}

// Receipt holds the receipt fields the engine needs.
type Receipt struct {
	TxHash      common.Hash    `json:"transactionHash"`
	Status      hexutil.Uint64 `json:"status"`
	BlockNumber *hexutil.Big   `json:"blockNumber"`
	GasUsed     hexutil.Uint64 `json:"gasUsed"`
}

// Succeeded reports whether the transaction executed without reverting.
func (r *Receipt) Succeeded() bool {
	return r.Status == 1
}

type blockHeader struct {
	Number        *hexutil.Big `json:"number"`
	BaseFeePerGas *hexutil.Big `json:"baseFeePerGas"`
}

// NewEthClient creates a client for rpcURL. No connection is made until the
// first call.
func NewEthClient(ctx context.Context, rpcURL string, timeout time.Duration) (*EthClient, error) {
	if timeout <= 0 {
		timeout = DefaultRPCTimeout
	}
	httpClient := &http.Client{Timeout: timeout}

	c, err := rpc.DialOptions(ctx, rpcURL, rpc.WithHTTPClient(httpClient))
	if err != nil {
		return nil, errs.Network(fmt.Sprintf("failed to dial %s", rpcURL), err)
	}
	return &EthClient{rpcClient: c, rpcURL: rpcURL}, nil
}

// URL returns the endpoint URL.
func (c *EthClient) URL() string {
	return c.rpcURL
}

// Close releases the underlying transport.
func (c *EthClient) Close() {
	c.rpcClient.Close()
}

// ChainID calls eth_chainId.
func (c *EthClient) ChainID(ctx context.Context) (*big.Int, error) {
	var out hexutil.Big
	if err := c.call(ctx, &out, "eth_chainId"); err != nil {
		return nil, err
	}
	return out.ToInt(), nil
}

// BlockNumber calls eth_blockNumber.
func (c *EthClient) BlockNumber(ctx context.Context) (uint64, error) {
	var out hexutil.Uint64
	if err := c.call(ctx, &out, "eth_blockNumber"); err != nil {
		return 0, err
	}
	return uint64(out), nil
}

// GetBalance calls eth_getBalance at the latest block and returns wei.
func (c *EthClient) GetBalance(ctx context.Context, address common.Address) (*big.Int, error) {
	var out hexutil.Big
	if err := c.call(ctx, &out, "eth_getBalance", address, "latest"); err != nil {
		return nil, err
	}
	return out.ToInt(), nil
}

// GasPrice calls eth_gasPrice.
func (c *EthClient) GasPrice(ctx context.Context) (*big.Int, error) {
	var out hexutil.Big
	if err := c.call(ctx, &out, "eth_gasPrice"); err != nil {
		return nil, err
	}
	return out.ToInt(), nil
}

// MaxPriorityFeePerGas calls eth_maxPriorityFeePerGas.
func (c *EthClient) MaxPriorityFeePerGas(ctx context.Context) (*big.Int, error) {
	var out hexutil.Big
	if err := c.call(ctx, &out, "eth_maxPriorityFeePerGas"); err != nil {
		return nil, err
	}
	return out.ToInt(), nil
}

// BaseFee returns the latest block's base fee, or nil for pre-London chains.
func (c *EthClient) BaseFee(ctx context.Context) (*big.Int, error) {
	var head *blockHeader
	if err := c.call(ctx, &head, "eth_getBlockByNumber", "latest", false); err != nil {
		return nil, err
	}
	if head == nil || head.BaseFeePerGas == nil {
		return nil, nil
	}
	return head.BaseFeePerGas.ToInt(), nil
}

// EstimateGas calls eth_estimateGas.
func (c *EthClient) EstimateGas(ctx context.Context, msg CallMsg) (uint64, error) {
	arg := map[string]any{
		"from": msg.From,
	}
	if msg.To != nil {
		arg["to"] = msg.To
	}
	if msg.Value != nil {
		arg["value"] = (*hexutil.Big)(msg.Value)
	}
	if len(msg.Data) > 0 {
		arg["data"] = hexutil.Bytes(msg.Data)
	}

	var out hexutil.Uint64
	if err := c.call(ctx, &out, "eth_estimateGas", arg); err != nil {
		return 0, err
	}
	return uint64(out), nil
}

// PendingNonce calls eth_getTransactionCount at the pending block.
func (c *EthClient) PendingNonce(ctx context.Context, address common.Address) (uint64, error) {
	var out hexutil.Uint64
	if err := c.call(ctx, &out, "eth_getTransactionCount", address, "pending"); err != nil {
		return 0, err
	}
	return uint64(out), nil
}

// SendRawTransaction calls eth_sendRawTransaction with the RLP/typed
// encoding of a signed transaction.
func (c *EthClient) SendRawTransaction(ctx context.Context, raw []byte) (common.Hash, error) {
	var out common.Hash
	if err := c.call(ctx, &out, "eth_sendRawTransaction", hexutil.Bytes(raw)); err != nil {
		return common.Hash{}, err
	}
	return out, nil
}

// TransactionReceipt calls eth_getTransactionReceipt. A transaction that is
// not mined yet returns (nil, nil).
func (c *EthClient) TransactionReceipt(ctx context.Context, hash common.Hash) (*Receipt, error) {
	var r *Receipt
	if err := c.call(ctx, &r, "eth_getTransactionReceipt", hash); err != nil {
		return nil, err
	}
	return r, nil
}

func (c *EthClient) call(ctx context.Context, result any, method string, args ...any) error {
	if err := c.rpcClient.CallContext(ctx, result, method, args...); err != nil {
		return mapError(method, err)
	}
	return nil
}

// mapError classifies a go-ethereum rpc error.
func mapError(method string, err error) error {
	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		return &errs.RPCError{Code: rpcErr.ErrorCode(), Message: rpcErr.Error()}
	}

	var httpErr rpc.HTTPError
	if errors.As(err, &httpErr) {
		return errs.Network(fmt.Sprintf("%s: http status %d", method, httpErr.StatusCode), err)
	}

	return errs.Network(fmt.Sprintf("%s failed", method), err)
}

// IsAlreadyKnown reports whether err is a node's rejection of a transaction
// it already has in its pool.
func IsAlreadyKnown(err error) bool {
	var rpcErr *errs.RPCError
	if !errors.As(err, &rpcErr) {
		return false
	}
	msg := strings.ToLower(rpcErr.Message)
	return strings.Contains(msg, "already known") || strings.Contains(msg, "known transaction")
}

// IsNonceTooLow reports whether err is a node's rejection for a stale nonce.
func IsNonceTooLow(err error) bool {
	var rpcErr *errs.RPCError
	return errors.As(err, &rpcErr) && strings.Contains(strings.ToLower(rpcErr.Message), "nonce too low")
}

// IsMethodNotFound reports whether the endpoint does not implement a method.
func IsMethodNotFound(err error) bool {
	var rpcErr *errs.RPCError
	return errors.As(err, &rpcErr) && rpcErr.Code == -32601
}
