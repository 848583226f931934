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
	"golang.org/x/sync/errgroup"
)

// Fee tiers as a percentage of the observed gas price.
const (
	slowPct     = 80
	standardPct = 100
	fastPct     = 120
)

// defaultPriorityFee is used on EIP-1559 chains whose node does not
// implement eth_maxPriorityFeePerGas.
var defaultPriorityFee = big.NewInt(1_500_000_000) // 1.5 gwei

// fees is the price of one tier in wei.
type fees struct {
	gasPrice    *big.Int
	maxFee      *big.Int // nil on legacy chains
	priorityFee *big.Int // nil on legacy chains
}

func (f fees) eip1559() bool {
	return f.maxFee != nil
}

// feeCap is the most the sender can pay per gas.
func (f fees) feeCap() *big.Int {
	if f.maxFee != nil {
		return f.maxFee
	}
	return f.gasPrice
}

// quote is the raw network state a FeeEstimate is computed from.
type quote struct {
	gasLimit    uint64
	gasPrice    *big.Int
	baseFee     *big.Int
	priorityFee *big.Int
}

func (q quote) eip1559() bool {
	return q.baseFee != nil && q.baseFee.Sign() > 0
}

func (q quote) tier(t model.FeeTier) fees {
	pct := int64(standardPct)
	switch t {
	case model.FeeSlow:
		pct = slowPct
	case model.FeeFast:
		pct = fastPct
	}

	f := fees{gasPrice: common.Percent(q.gasPrice, pct)}
	if q.eip1559() {
		f.priorityFee = new(big.Int).Set(q.priorityFee)
		f.maxFee = new(big.Int).Add(f.gasPrice, q.priorityFee)
	}
	return f
}

func (q quote) estimate(networkID string) model.FeeEstimate {
	est := model.FeeEstimate{
		Network:  networkID,
		GasLimit: q.gasLimit,
		GasPrice: q.gasPrice.String(),
		EIP1559:  q.eip1559(),
	}
	if est.EIP1559 {
		est.BaseFee = q.baseFee.String()
		est.PriorityFee = q.priorityFee.String()
	}
	est.Slow = q.option(model.FeeSlow)
	est.Standard = q.option(model.FeeStandard)
	est.Fast = q.option(model.FeeFast)
	return est
}

func (q quote) option(t model.FeeTier) model.FeeOption {
	f := q.tier(t)
	fee := new(big.Int).Mul(new(big.Int).SetUint64(q.gasLimit), f.feeCap())
	opt := model.FeeOption{
		Tier:     t,
		GasPrice: f.gasPrice.String(),
		Fee:      fee.String(),
		FeeCoin:  common.WeiToEther(fee),
	}
	if f.eip1559() {
		opt.MaxFeePerGas = f.maxFee.String()
		opt.MaxPriorityFeePerGas = f.priorityFee.String()
	}
	return opt
}

// Estimate returns the gas limit and three fee tiers for a transfer.
func (e *Engine) Estimate(ctx context.Context, req model.EstimateRequest) (model.FeeEstimate, error) {
	from, err := parseAddress("from", req.From)
	if err != nil {
		return model.FeeEstimate{}, err
	}
	to, err := parseAddress("to", req.To)
	if err != nil {
		return model.FeeEstimate{}, err
	}
	value, err := parseAmount(req.Amount)
	if err != nil {
		return model.FeeEstimate{}, err
	}
	data, err := parseData(req.Data)
	if err != nil {
		return model.FeeEstimate{}, err
	}

	conn, err := e.networks.Conn(req.Network)
	if err != nil {
		return model.FeeEstimate{}, err
	}
	q, err := e.quote(ctx, conn, client.CallMsg{From: from, To: &to, Value: value, Data: data})
	if err != nil {
		return model.FeeEstimate{}, err
	}
	return q.estimate(conn.Network().ID), nil
}

// quote queries gas price, gas limit, base fee and priority fee
// concurrently.
func (e *Engine) quote(ctx context.Context, conn *network.Conn, msg client.CallMsg) (quote, error) {
	var q quote
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		price, err := conn.GetGasPrice(gctx)
		if err != nil {
			return fmt.Errorf("gas price: %w", err)
		}
		q.gasPrice = price
		return nil
	})
	g.Go(func() error {
		gas, err := conn.EstimateGas(gctx, msg)
		if err != nil {
			return fmt.Errorf("gas estimate: %w", err)
		}
		// Contract calls get headroom; plain transfers are exact
		if len(msg.Data) > 0 {
			gas = gas * 120 / 100
		}
		q.gasLimit = gas
		return nil
	})
	g.Go(func() error {
		baseFee, err := conn.GetBaseFee(gctx)
		if err != nil {
			return fmt.Errorf("base fee: %w", err)
		}
		q.baseFee = baseFee
		return nil
	})
	g.Go(func() error {
		tip, err := conn.GetPriorityFee(gctx)
		if client.IsMethodNotFound(err) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("priority fee: %w", err)
		}
		q.priorityFee = tip
		return nil
	})

	if err := g.Wait(); err != nil {
		return quote{}, err
	}
	if q.priorityFee == nil {
		q.priorityFee = new(big.Int).Set(defaultPriorityFee)
	}
	if q.gasPrice.Sign() <= 0 {
		return quote{}, errs.Validation("network reported a zero gas price")
	}
	return q, nil
}

// parseAddress accepts a hex address. Mixed-case input must carry a valid
// EIP-55 checksum.
func parseAddress(field, s string) (ethcommon.Address, error) {
	if !ethcommon.IsHexAddress(s) {
		return ethcommon.Address{}, errs.Validation("%s is not a valid address", field)
	}
	addr := ethcommon.HexToAddress(s)
	body := s
	if len(body) == 42 {
		body = body[2:]
	}
	if hasUpper(body) && hasLower(body) && addr.Hex()[2:] != body {
		return ethcommon.Address{}, errs.Validation("%s has an invalid checksum", field)
	}
	return addr, nil
}

func hasUpper(s string) bool {
	for _, c := range s {
		if c >= 'A' && c <= 'F' {
			return true
		}
	}
	return false
}

func hasLower(s string) bool {
	for _, c := range s {
		if c >= 'a' && c <= 'f' {
			return true
		}
	}
	return false
}

// parseAmount converts a coin amount ("0.25") to wei. Empty is zero.
func parseAmount(s string) (*big.Int, error) {
	if s == "" {
		return new(big.Int), nil
	}
	wei, err := common.EtherToWei(s)
	if err != nil {
		return nil, errs.Validation("invalid amount %q: %v", s, err)
	}
	return wei, nil
}

func parseData(s string) ([]byte, error) {
	if s == "" || s == "0x" {
		return nil, nil
	}
	data, err := hexutil.Decode(s)
	if err != nil {
		return nil, errs.Validation("data must be 0x-prefixed hex")
	}
	return data, nil
}
