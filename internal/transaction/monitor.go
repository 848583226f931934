package transaction

import (
	"context"
	"fmt"

	"github.com/AlexZinkM/evm-wallet/internal/errs"
	"github.com/AlexZinkM/evm-wallet/internal/model"

	ethcommon "github.com/ethereum/go-ethereum/common"
)

// startMonitor watches tx in the background until it reaches a terminal
// status, the monitoring window closes or the engine is closed.
func (e *Engine) startMonitor(tx model.Transaction) {
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() {
			select {
			case <-e.quit:
				cancel()
			case <-ctx.Done():
			}
		}()

		e.monitor(ctx, tx)
	}()
}

// monitor polls for the receipt of tx every MonitorInterval. Without a
// receipt after MonitorTimeout (counted from submission) the transaction is
// marked Failed with a TIMEOUT error kind. Cancellation leaves the record
// untouched.
func (e *Engine) monitor(ctx context.Context, tx model.Transaction) {
	logger := e.logger.With("tx_id", tx.ID, "hash", tx.Hash)
	hash := ethcommon.HexToHash(tx.Hash)
	deadline := tx.Timestamp.Add(e.opts.MonitorTimeout)

	for {
		select {
		case <-ctx.Done():
			logger.Debug("monitor stopped")
			return
		case <-e.clock.TickAfter(e.opts.MonitorInterval):
		}

		done, err := e.poll(ctx, tx, hash)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			logger.Debug("receipt poll failed", "error", err)
		}
		if done {
			return
		}

		if !e.clock.Now().Before(deadline) {
			reason := fmt.Sprintf("timeout: no receipt after %v", e.opts.MonitorTimeout)
			applied, err := e.transition(context.WithoutCancel(ctx), tx.ID, model.TxFailed, func(t *model.Transaction) {
				t.Error = reason
				t.ErrorKind = string(errs.KindTimeout)
			})
			if err != nil {
				logger.Error("failed to record monitoring timeout", "error", err)
			} else if applied {
				logger.Warn("transaction monitoring timed out", "timeout", e.opts.MonitorTimeout)
			}
			return
		}
	}
}

// poll checks the receipt once and applies the resulting status. It reports
// whether monitoring is finished.
func (e *Engine) poll(ctx context.Context, tx model.Transaction, hash ethcommon.Hash) (bool, error) {
	current, err := e.Get(ctx, tx.ID)
	if err != nil {
		return false, err
	}
	if current.Status.Terminal() {
		return true, nil
	}

	conn, err := e.networks.Conn(tx.Network)
	if err != nil {
		return false, err
	}
	receipt, err := conn.GetReceipt(ctx, hash)
	if err != nil || receipt == nil {
		return false, err
	}
	head, err := conn.BlockNumber(ctx)
	if err != nil {
		return false, err
	}

	var block uint64
	if receipt.BlockNumber != nil {
		block = receipt.BlockNumber.ToInt().Uint64()
	}
	confirmations := uint64(1)
	if head >= block {
		confirmations = head - block + 1
	}

	to := model.TxConfirmed
	if !receipt.Succeeded() {
		to = model.TxFailed
	}
	applied, err := e.transition(context.WithoutCancel(ctx), tx.ID, to, func(t *model.Transaction) {
		t.BlockNumber = block
		t.Confirmations = confirmations
		if to == model.TxFailed {
			t.Error = "execution reverted"
		}
	})
	if err != nil {
		return false, err
	}
	if applied {
		e.logger.Info("transaction mined", "tx_id", tx.ID, "hash", tx.Hash, "status", to, "block", block)
	}
	return true, nil
}
