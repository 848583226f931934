package network

import (
	"context"
	"errors"
	"math/big"
	"time"

	"github.com/AlexZinkM/evm-wallet/internal/client"
	"github.com/AlexZinkM/evm-wallet/internal/errs"
	"github.com/AlexZinkM/evm-wallet/internal/model"

	"github.com/ethereum/go-ethereum/common"
)

// Conn is an RPC handle bound to one network. Calls are throttled per
// network and NETWORK errors are retried with exponential backoff; RPC error
// payloads are answers and are returned as-is.
type Conn struct {
	network model.Network
	ep      *endpoint
	retries int
	backoff time.Duration
}

// Conn returns a handle for network id ("" = current). Disabled networks are
// rejected.
func (r *Registry) Conn(id string) (*Conn, error) {
	n, err := r.Resolve(id)
	if err != nil {
		return nil, err
	}
	ep, err := r.endpointFor(n)
	if err != nil {
		return nil, err
	}
	return &Conn{
		network: n,
		ep:      ep,
		retries: r.opts.Retries,
		backoff: r.opts.Backoff,
	}, nil
}

// GetBalance returns the balance of address on the current network.
func (r *Registry) GetBalance(ctx context.Context, address common.Address) (*big.Int, error) {
	conn, err := r.Conn("")
	if err != nil {
		return nil, err
	}
	return conn.GetBalance(ctx, address)
}

// Network returns the descriptor the handle is bound to.
func (c *Conn) Network() model.Network {
	return c.network
}

// ChainID returns the configured chain id as a big.Int.
func (c *Conn) ChainID() *big.Int {
	return big.NewInt(c.network.ChainID)
}

func (c *Conn) GetBalance(ctx context.Context, address common.Address) (*big.Int, error) {
	return retry(ctx, c, func(ctx context.Context) (*big.Int, error) {
		return c.ep.client.GetBalance(ctx, address)
	})
}

func (c *Conn) GetGasPrice(ctx context.Context) (*big.Int, error) {
	return retry(ctx, c, c.ep.client.GasPrice)
}

// GetPriorityFee returns eth_maxPriorityFeePerGas.
func (c *Conn) GetPriorityFee(ctx context.Context) (*big.Int, error) {
	return retry(ctx, c, c.ep.client.MaxPriorityFeePerGas)
}

// GetBaseFee returns the latest base fee, nil on chains without one.
func (c *Conn) GetBaseFee(ctx context.Context) (*big.Int, error) {
	return retry(ctx, c, c.ep.client.BaseFee)
}

// GetNonce returns the pending transaction count of address.
func (c *Conn) GetNonce(ctx context.Context, address common.Address) (uint64, error) {
	return retry(ctx, c, func(ctx context.Context) (uint64, error) {
		return c.ep.client.PendingNonce(ctx, address)
	})
}

func (c *Conn) EstimateGas(ctx context.Context, msg client.CallMsg) (uint64, error) {
	return retry(ctx, c, func(ctx context.Context) (uint64, error) {
		return c.ep.client.EstimateGas(ctx, msg)
	})
}

// SendRaw broadcasts a signed transaction. A retry after a lost response
// may be answered with "already known"; callers treat that as success.
func (c *Conn) SendRaw(ctx context.Context, raw []byte) (common.Hash, error) {
	return retry(ctx, c, func(ctx context.Context) (common.Hash, error) {
		return c.ep.client.SendRawTransaction(ctx, raw)
	})
}

// GetReceipt returns the receipt of hash, or nil if it is not mined yet.
func (c *Conn) GetReceipt(ctx context.Context, hash common.Hash) (*client.Receipt, error) {
	return retry(ctx, c, func(ctx context.Context) (*client.Receipt, error) {
		return c.ep.client.TransactionReceipt(ctx, hash)
	})
}

func (c *Conn) BlockNumber(ctx context.Context) (uint64, error) {
	return retry(ctx, c, c.ep.client.BlockNumber)
}

// blockNumberOnce is a single probe without retries.
func (c *Conn) blockNumberOnce(ctx context.Context) (uint64, error) {
	if err := c.ep.limiter.Wait(ctx); err != nil {
		return 0, errs.Network("rate limiter", err)
	}
	return c.ep.client.BlockNumber(ctx)
}

func retry[T any](ctx context.Context, c *Conn, fn func(context.Context) (T, error)) (T, error) {
	var (
		zero T
		err  error
	)
	delay := c.backoff
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return zero, errs.Network("cancelled while retrying", errors.Join(ctx.Err(), err))
			case <-time.After(delay):
			}
			delay *= 2
		}

		if werr := c.ep.limiter.Wait(ctx); werr != nil {
			return zero, errs.Network("rate limiter", werr)
		}

		var out T
		out, err = fn(ctx)
		if err == nil {
			return out, nil
		}
		if !errors.Is(err, errs.ErrNetwork) || ctx.Err() != nil {
			return zero, err
		}
	}
	return zero, err
}
