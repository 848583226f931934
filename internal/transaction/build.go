package transaction

import (
	"context"
	"math/big"
	"strings"

	"github.com/AlexZinkM/evm-wallet/internal/client"
	"github.com/AlexZinkM/evm-wallet/internal/errs"
	"github.com/AlexZinkM/evm-wallet/internal/model"
	"github.com/AlexZinkM/evm-wallet/internal/network"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Draft is a built, unsigned transaction.
type Draft struct {
	Tx      *types.Transaction
	From    ethcommon.Address
	Network model.Network
	Fee     *big.Int // gas limit times fee cap, wei
	Kind    model.TxKind

	replaces string // id of the pending transaction this one supersedes
}

// buildParams is everything Build needs. gasLimit and price are set for
// replacements and left empty to estimate.
type buildParams struct {
	from     ethcommon.Address
	to       ethcommon.Address
	value    *big.Int
	data     []byte
	network  string
	tier     model.FeeTier
	nonce    *uint64
	kind     model.TxKind
	replaces string
	gasLimit uint64
	price    *fees
}

// Build validates a send request, checks the balance covers value plus the
// fee of the chosen tier and assigns a nonce.
func (e *Engine) Build(ctx context.Context, req model.SendRequest) (*Draft, error) {
	p, err := paramsFromRequest(req)
	if err != nil {
		return nil, err
	}
	return e.build(ctx, p)
}

func paramsFromRequest(req model.SendRequest) (buildParams, error) {
	from, err := parseAddress("from", req.From)
	if err != nil {
		return buildParams{}, err
	}
	to, err := parseAddress("to", req.To)
	if err != nil {
		return buildParams{}, err
	}
	value, err := parseAmount(req.Amount)
	if err != nil {
		return buildParams{}, err
	}
	data, err := parseData(req.Data)
	if err != nil {
		return buildParams{}, err
	}
	if !req.Tier.Valid() {
		return buildParams{}, errs.Validation("unknown fee tier %q", req.Tier)
	}
	return buildParams{
		from:    from,
		to:      to,
		value:   value,
		data:    data,
		network: req.Network,
		tier:    req.Tier,
		nonce:   req.Nonce,
		kind:    model.TxKindTransfer,
	}, nil
}

func (e *Engine) build(ctx context.Context, p buildParams) (*Draft, error) {
	conn, err := e.networks.Conn(p.network)
	if err != nil {
		return nil, err
	}
	n := conn.Network()

	gasLimit := p.gasLimit
	var price fees
	if p.price != nil {
		price = *p.price
	} else {
		q, err := e.quote(ctx, conn, client.CallMsg{From: p.from, To: &p.to, Value: p.value, Data: p.data})
		if err != nil {
			return nil, err
		}
		price = q.tier(p.tier)
		if gasLimit == 0 {
			gasLimit = q.gasLimit
		}
	}

	fee := new(big.Int).Mul(new(big.Int).SetUint64(gasLimit), price.feeCap())
	need := new(big.Int).Add(p.value, fee)
	balance, err := conn.GetBalance(ctx, p.from)
	if err != nil {
		return nil, err
	}
	if balance.Cmp(need) < 0 {
		return nil, &errs.InsufficientFundsError{Have: balance, Need: need}
	}

	nonce, err := e.assignNonce(ctx, conn, p)
	if err != nil {
		return nil, err
	}

	to := p.to
	var inner types.TxData
	if price.eip1559() {
		inner = &types.DynamicFeeTx{
			ChainID:   conn.ChainID(),
			Nonce:     nonce,
			GasTipCap: price.priorityFee,
			GasFeeCap: price.maxFee,
			Gas:       gasLimit,
			To:        &to,
			Value:     p.value,
			Data:      p.data,
		}
	} else {
		inner = &types.LegacyTx{
			Nonce:    nonce,
			GasPrice: price.gasPrice,
			Gas:      gasLimit,
			To:       &to,
			Value:    p.value,
			Data:     p.data,
		}
	}

	return &Draft{
		Tx:       types.NewTx(inner),
		From:     p.from,
		Network:  n,
		Fee:      fee,
		Kind:     p.kind,
		replaces: p.replaces,
	}, nil
}

// assignNonce picks max(node pending count, highest local pending + 1). An
// explicit nonce is honoured, but reusing the nonce of an in-flight
// transaction is only allowed for a replacement.
func (e *Engine) assignNonce(ctx context.Context, conn *network.Conn, p buildParams) (uint64, error) {
	pending, err := e.inFlight(ctx, conn.Network().ID, p.from.Hex())
	if err != nil {
		return 0, err
	}

	if p.nonce != nil {
		for _, tx := range pending {
			if tx.Nonce == *p.nonce && tx.ID != p.replaces {
				return 0, errs.Validation("nonce %d is in use by pending transaction %s", *p.nonce, tx.ID)
			}
		}
		return *p.nonce, nil
	}

	nonce, err := conn.GetNonce(ctx, p.from)
	if err != nil {
		return 0, err
	}
	for _, tx := range pending {
		if tx.Nonce+1 > nonce {
			nonce = tx.Nonce + 1
		}
	}
	return nonce, nil
}

func sameAddress(a, b string) bool {
	return strings.EqualFold(a, b)
}
