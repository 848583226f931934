// Package ethtest runs an in-process fake Ethereum JSON-RPC node for tests.
package ethtest

import (
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
)

// RPCError is an error object the node answers with.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type receipt struct {
	TxHash      common.Hash    `json:"transactionHash"`
	Status      hexutil.Uint64 `json:"status"`
	BlockNumber *hexutil.Big   `json:"blockNumber"`
	GasUsed     hexutil.Uint64 `json:"gasUsed"`
}

// Node is a scriptable JSON-RPC endpoint.
type Node struct {
	server *httptest.Server

	mu          sync.Mutex
	chainID     *big.Int
	block       uint64
	gasPrice    *big.Int
	baseFee     *big.Int // nil: pre-London, no baseFeePerGas in blocks
	priorityFee *big.Int // nil: eth_maxPriorityFeePerGas unsupported
	gasEstimate uint64
	balances    map[common.Address]*big.Int
	nonces      map[common.Address]uint64
	receipts    map[common.Hash]*receipt
	sent        []*types.Transaction
	autoMine    bool
	failures    map[string]*RPCError
	httpStatus  int
	calls       map[string]int
}

// NewNode starts a node for chainID, closed when the test ends.
func NewNode(t testing.TB, chainID int64) *Node {
	n := &Node{
		chainID:     big.NewInt(chainID),
		block:       100,
		gasPrice:    big.NewInt(20_000_000_000), // 20 gwei
		gasEstimate: 21000,
		balances:    make(map[common.Address]*big.Int),
		nonces:      make(map[common.Address]uint64),
		receipts:    make(map[common.Hash]*receipt),
		failures:    make(map[string]*RPCError),
		calls:       make(map[string]int),
	}
	n.server = httptest.NewServer(http.HandlerFunc(n.serveHTTP))
	t.Cleanup(n.server.Close)
	return n
}

// URL returns the endpoint URL.
func (n *Node) URL() string {
	return n.server.URL
}

// ChainID returns the node's chain id.
func (n *Node) ChainID() *big.Int {
	return new(big.Int).Set(n.chainID)
}

// SetBalance sets the wei balance of addr.
func (n *Node) SetBalance(addr common.Address, wei *big.Int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.balances[addr] = new(big.Int).Set(wei)
}

// SetNonce sets the pending nonce of addr.
func (n *Node) SetNonce(addr common.Address, nonce uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.nonces[addr] = nonce
}

// SetGasPrice sets the eth_gasPrice answer.
func (n *Node) SetGasPrice(wei *big.Int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.gasPrice = new(big.Int).Set(wei)
}

// SetBaseFee sets the latest block base fee. nil removes it.
func (n *Node) SetBaseFee(wei *big.Int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if wei == nil {
		n.baseFee = nil
		return
	}
	n.baseFee = new(big.Int).Set(wei)
}

// SetPriorityFee sets the eth_maxPriorityFeePerGas answer. nil makes the
// method unsupported.
func (n *Node) SetPriorityFee(wei *big.Int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if wei == nil {
		n.priorityFee = nil
		return
	}
	n.priorityFee = new(big.Int).Set(wei)
}

// SetGasEstimate sets the eth_estimateGas answer.
func (n *Node) SetGasEstimate(gas uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.gasEstimate = gas
}

// SetBlock sets the head block number.
func (n *Node) SetBlock(block uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.block = block
}

// AutoMine makes every accepted transaction mined successfully in the next
// block.
func (n *Node) AutoMine(on bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.autoMine = on
}

// Mine records a receipt for hash at block with status 1 (success) or 0
// (reverted).
func (n *Node) Mine(hash common.Hash, block uint64, status uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.receipts[hash] = &receipt{
		TxHash:      hash,
		Status:      hexutil.Uint64(status),
		BlockNumber: (*hexutil.Big)(new(big.Int).SetUint64(block)),
		GasUsed:     21000,
	}
	if block > n.block {
		n.block = block
	}
}

// Fail makes method answer with an RPC error until cleared with a nil err.
func (n *Node) Fail(method string, err *RPCError) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err == nil {
		delete(n.failures, method)
		return
	}
	n.failures[method] = err
}

// FailHTTP makes every request answer with the given HTTP status. Zero
// restores normal service.
func (n *Node) FailHTTP(status int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.httpStatus = status
}

// Calls returns how many times method was called.
func (n *Node) Calls(method string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.calls[method]
}

// Sent returns the transactions accepted by eth_sendRawTransaction.
func (n *Node) Sent() []*types.Transaction {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]*types.Transaction, len(n.sent))
	copy(out, n.sent)
	return out
}

// LastSent returns the most recent accepted transaction, or nil.
func (n *Node) LastSent() *types.Transaction {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.sent) == 0 {
		return nil
	}
	return n.sent[len(n.sent)-1]
}

type request struct {
	JSONRPC string            `json:"jsonrpc"`
	ID      json.RawMessage   `json:"id"`
	Method  string            `json:"method"`
	Params  []json.RawMessage `json:"params"`
}

type response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result"`
	Error   *RPCError       `json:"error,omitempty"`
}

func (n *Node) serveHTTP(w http.ResponseWriter, r *http.Request) {
	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	n.mu.Lock()
	n.calls[req.Method]++
	status := n.httpStatus
	n.mu.Unlock()

	if status != 0 {
		http.Error(w, http.StatusText(status), status)
		return
	}

	result, rpcErr := n.dispatch(req)
	resp := response{JSONRPC: "2.0", ID: req.ID}
	if rpcErr != nil {
		resp.Error = rpcErr
	} else {
		resp.Result = result
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (n *Node) dispatch(req request) (any, *RPCError) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if e, ok := n.failures[req.Method]; ok {
		return nil, e
	}

	switch req.Method {
	case "eth_chainId":
		return (*hexutil.Big)(n.chainID), nil

	case "eth_blockNumber":
		return hexutil.Uint64(n.block), nil

	case "eth_getBlockByNumber":
		head := map[string]any{"number": hexutil.Uint64(n.block)}
		if n.baseFee != nil {
			head["baseFeePerGas"] = (*hexutil.Big)(n.baseFee)
		}
		return head, nil

	case "eth_gasPrice":
		return (*hexutil.Big)(n.gasPrice), nil

	case "eth_maxPriorityFeePerGas":
		if n.priorityFee == nil {
			return nil, &RPCError{Code: -32601, Message: "the method eth_maxPriorityFeePerGas does not exist/is not available"}
		}
		return (*hexutil.Big)(n.priorityFee), nil

	case "eth_estimateGas":
		return hexutil.Uint64(n.gasEstimate), nil

	case "eth_getBalance":
		addr, err := addressParam(req.Params)
		if err != nil {
			return nil, err
		}
		bal, ok := n.balances[addr]
		if !ok {
			bal = new(big.Int)
		}
		return (*hexutil.Big)(bal), nil

	case "eth_getTransactionCount":
		addr, err := addressParam(req.Params)
		if err != nil {
			return nil, err
		}
		return hexutil.Uint64(n.nonces[addr]), nil

	case "eth_sendRawTransaction":
		return n.sendRaw(req.Params)

	case "eth_getTransactionReceipt":
		if len(req.Params) < 1 {
			return nil, &RPCError{Code: -32602, Message: "missing hash"}
		}
		var hash common.Hash
		if err := json.Unmarshal(req.Params[0], &hash); err != nil {
			return nil, &RPCError{Code: -32602, Message: err.Error()}
		}
		if r, ok := n.receipts[hash]; ok {
			return r, nil
		}
		return nil, nil

	default:
		return nil, &RPCError{Code: -32601, Message: fmt.Sprintf("the method %s does not exist/is not available", req.Method)}
	}
}

// sendRaw decodes and records a signed transaction. Caller holds mu.
func (n *Node) sendRaw(params []json.RawMessage) (any, *RPCError) {
	if len(params) < 1 {
		return nil, &RPCError{Code: -32602, Message: "missing raw transaction"}
	}
	var raw hexutil.Bytes
	if err := json.Unmarshal(params[0], &raw); err != nil {
		return nil, &RPCError{Code: -32602, Message: err.Error()}
	}

	tx := new(types.Transaction)
	if err := tx.UnmarshalBinary(raw); err != nil {
		return nil, &RPCError{Code: -32000, Message: "rlp: " + err.Error()}
	}
	if tx.ChainId().Cmp(n.chainID) != 0 {
		return nil, &RPCError{Code: -32000, Message: "invalid chain id for signer"}
	}
	from, err := types.Sender(types.LatestSignerForChainID(n.chainID), tx)
	if err != nil {
		return nil, &RPCError{Code: -32000, Message: "invalid sender"}
	}

	for _, s := range n.sent {
		if s.Hash() == tx.Hash() {
			return nil, &RPCError{Code: -32000, Message: "already known"}
		}
	}

	n.sent = append(n.sent, tx)
	if tx.Nonce()+1 > n.nonces[from] {
		n.nonces[from] = tx.Nonce() + 1
	}

	if n.autoMine {
		n.block++
		n.receipts[tx.Hash()] = &receipt{
			TxHash:      tx.Hash(),
			Status:      1,
			BlockNumber: (*hexutil.Big)(new(big.Int).SetUint64(n.block)),
			GasUsed:     hexutil.Uint64(tx.Gas()),
		}
	}
	return tx.Hash(), nil
}

func addressParam(params []json.RawMessage) (common.Address, *RPCError) {
	if len(params) < 1 {
		return common.Address{}, &RPCError{Code: -32602, Message: "missing address"}
	}
	var addr common.Address
	if err := json.Unmarshal(params[0], &addr); err != nil {
		return common.Address{}, &RPCError{Code: -32602, Message: err.Error()}
	}
	return addr, nil
}
