package transaction

import (
	"context"
	"fmt"
	"math/big"

	"github.com/AlexZinkM/evm-wallet/internal/client"
	"github.com/AlexZinkM/evm-wallet/internal/common"
	"github.com/AlexZinkM/evm-wallet/internal/errs"
	"github.com/AlexZinkM/evm-wallet/internal/model"
	"github.com/AlexZinkM/evm-wallet/internal/network"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

const (
	replaceBumpPct = 110
	cancelGasLimit = 21000
)

// SpeedUp re-sends a pending transaction at its nonce with a higher gas
// price, signed by the sender's own key. Without an explicit price the new
// one is max(fast tier, original * 110%).
func (e *Engine) SpeedUp(ctx context.Context, txID string, req model.SpeedUpRequest) (model.Transaction, error) {
	var price *big.Int
	if req.GasPriceGwei != "" {
		p, err := common.GweiToWei(req.GasPriceGwei)
		if err != nil {
			return model.Transaction{}, errs.Validation("invalid gas price %q: %v", req.GasPriceGwei, err)
		}
		price = p
	}

	orig, err := e.Get(ctx, txID)
	if err != nil {
		return model.Transaction{}, err
	}
	signer := NewLocalSigner(e.accounts, ethcommon.HexToAddress(orig.From), req.Password)
	return e.Replace(ctx, txID, price, signer)
}

// Replace re-sends a pending transaction at its nonce. newGasPrice must be
// strictly higher than the original's; nil picks one automatically. The
// original becomes Replaced.
func (e *Engine) Replace(ctx context.Context, txID string, newGasPrice *big.Int, signer Signer) (model.Transaction, error) {
	return e.replace(ctx, txID, model.TxKindSpeedUp, newGasPrice, signer)
}

// Cancel replaces a pending transaction with a zero-value transfer to the
// sender itself at the same nonce.
func (e *Engine) Cancel(ctx context.Context, txID, password string) (model.Transaction, error) {
	orig, err := e.Get(ctx, txID)
	if err != nil {
		return model.Transaction{}, err
	}
	signer := NewLocalSigner(e.accounts, ethcommon.HexToAddress(orig.From), password)
	return e.replace(ctx, txID, model.TxKindCancel, nil, signer)
}

func (e *Engine) replace(ctx context.Context, txID string, kind model.TxKind, requested *big.Int, signer Signer) (model.Transaction, error) {
	orig, err := e.Get(ctx, txID)
	if err != nil {
		return model.Transaction{}, err
	}
	from := ethcommon.HexToAddress(orig.From)
	if signer.Address() != from {
		return model.Transaction{}, errs.Validation("signer %s cannot sign for %s", signer.Address().Hex(), orig.From)
	}
	ctx, cancel, err := e.gate.SessionContext(ctx)
	if err != nil {
		return model.Transaction{}, err
	}
	defer cancel()

	conn, err := e.networks.Conn(orig.Network)
	if err != nil {
		return model.Transaction{}, err
	}

	key := senderKey(orig.Network, from)
	e.senders.Lock(key)
	defer e.senders.Unlock(key)

	// The monitor may have settled it while we waited
	orig, err = e.Get(ctx, txID)
	if err != nil {
		return model.Transaction{}, err
	}
	if orig.Status != model.TxPending {
		return model.Transaction{}, errs.Validation("transaction %s is %s, only pending transactions can be replaced", txID, orig.Status)
	}

	p := buildParams{
		from:     from,
		network:  orig.Network,
		nonce:    &orig.Nonce,
		kind:     kind,
		replaces: orig.ID,
		gasLimit: orig.GasLimit,
	}
	if kind == model.TxKindCancel {
		p.to = from
		p.value = new(big.Int)
		p.gasLimit = cancelGasLimit
	} else {
		p.to = ethcommon.HexToAddress(orig.To)
		if p.value, err = common.ParseWei(orig.Value); err != nil {
			return model.Transaction{}, fmt.Errorf("stored value of %s: %w", txID, err)
		}
		if orig.Data != "" {
			if p.data, err = hexutil.Decode(orig.Data); err != nil {
				return model.Transaction{}, fmt.Errorf("stored data of %s: %w", txID, err)
			}
		}
	}

	price, err := e.replacementFees(ctx, conn, orig, p, requested)
	if err != nil {
		return model.Transaction{}, err
	}
	p.price = &price
	e.logger.Info("replacing transaction",
		"tx_id", orig.ID, "kind", kind, "nonce", orig.Nonce, "gas_price_gwei", common.WeiToGwei(price.feeCap()))

	draft, err := e.build(ctx, p)
	if err != nil {
		return model.Transaction{}, err
	}
	signed, err := e.Sign(ctx, draft, signer)
	if err != nil {
		return model.Transaction{}, err
	}
	rec, err := e.submit(ctx, draft, signed)
	if isReplacementUnderpriced(err) {
		return model.Transaction{}, errs.Validation("replacement gas price too low: %v", err)
	}
	return rec, err
}

// replacementFees prices a replacement strictly above the original. On
// EIP-1559 transactions the tip is bumped too, as nodes require both caps
// to rise.
func (e *Engine) replacementFees(ctx context.Context, conn *network.Conn, orig model.Transaction, p buildParams, requested *big.Int) (fees, error) {
	origPrice := orig.GasPrice
	if orig.MaxFeePerGas != "" {
		origPrice = orig.MaxFeePerGas
	}
	prev, err := common.ParseWei(origPrice)
	if err != nil {
		return fees{}, fmt.Errorf("stored gas price of %s: %w", orig.ID, err)
	}

	var price *big.Int
	if requested != nil {
		if requested.Cmp(prev) <= 0 {
			return fees{}, errs.Validation("gas price must be higher than %s wei", prev)
		}
		price = requested
	} else {
		q, err := e.quote(ctx, conn, client.CallMsg{From: p.from, To: &p.to, Value: p.value, Data: p.data})
		if err != nil {
			return fees{}, err
		}
		price = common.MaxBig(q.tier(model.FeeFast).feeCap(), common.Percent(prev, replaceBumpPct))
		if price.Cmp(prev) <= 0 {
			price = new(big.Int).Add(prev, big.NewInt(1))
		}
	}

	if orig.MaxFeePerGas == "" {
		return fees{gasPrice: price}, nil
	}

	prevTip, err := common.ParseWei(orig.MaxPriorityFeePerGas)
	if err != nil {
		return fees{}, fmt.Errorf("stored priority fee of %s: %w", orig.ID, err)
	}
	tip := common.Percent(prevTip, replaceBumpPct)
	if tip.Cmp(prevTip) <= 0 {
		tip = new(big.Int).Add(prevTip, big.NewInt(1))
	}
	if tip.Cmp(price) > 0 {
		tip = new(big.Int).Set(price)
	}
	return fees{gasPrice: price, maxFee: price, priorityFee: tip}, nil
}
