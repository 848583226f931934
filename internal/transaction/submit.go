package transaction

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/AlexZinkM/evm-wallet/internal/client"
	"github.com/AlexZinkM/evm-wallet/internal/errs"
	"github.com/AlexZinkM/evm-wallet/internal/model"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/google/uuid"
)

// Send builds, signs with the account's own key and submits a transfer.
func (e *Engine) Send(ctx context.Context, req model.SendRequest) (model.Transaction, error) {
	from, err := parseAddress("from", req.From)
	if err != nil {
		return model.Transaction{}, err
	}
	walletID, _, err := e.accounts.FindAccount(ctx, from.Hex())
	if err != nil {
		return model.Transaction{}, err
	}
	if req.WalletID != "" && req.WalletID != walletID {
		return model.Transaction{}, errs.Validation("account %s does not belong to wallet %s", from.Hex(), req.WalletID)
	}
	return e.SendWith(ctx, req, NewLocalSigner(e.accounts, from, req.Password))
}

// SendWith builds, signs with signer and submits a transfer. Build through
// submit is serialized per sender so concurrent sends get distinct nonces.
func (e *Engine) SendWith(ctx context.Context, req model.SendRequest, signer Signer) (model.Transaction, error) {
	p, err := paramsFromRequest(req)
	if err != nil {
		return model.Transaction{}, err
	}
	return e.send(ctx, p, signer)
}

func (e *Engine) send(ctx context.Context, p buildParams, signer Signer) (model.Transaction, error) {
	if signer.Address() != p.from {
		return model.Transaction{}, errs.Validation("signer %s cannot sign for %s", signer.Address().Hex(), p.from.Hex())
	}

	// Lookups before the broadcast stop when the session locks
	ctx, cancel, err := e.gate.SessionContext(ctx)
	if err != nil {
		return model.Transaction{}, err
	}
	defer cancel()

	conn, err := e.networks.Conn(p.network)
	if err != nil {
		return model.Transaction{}, err
	}
	p.network = conn.Network().ID

	key := senderKey(p.network, p.from)
	e.senders.Lock(key)
	defer e.senders.Unlock(key)

	draft, err := e.build(ctx, p)
	if err != nil {
		return model.Transaction{}, err
	}
	signed, err := e.Sign(ctx, draft, signer)
	if err != nil {
		return model.Transaction{}, err
	}
	return e.submit(ctx, draft, signed)
}

// Sign signs a draft. The gate must be unlocked and the signature must
// recover to the draft's sender.
func (e *Engine) Sign(ctx context.Context, d *Draft, signer Signer) (*types.Transaction, error) {
	if err := e.gate.Require(ctx); err != nil {
		return nil, err
	}
	chainID := d.chainID()
	signed, err := signer.SignTx(ctx, d.Tx, chainID)
	if err != nil {
		return nil, err
	}
	sender, err := types.Sender(types.LatestSignerForChainID(chainID), signed)
	if err != nil {
		return nil, fmt.Errorf("invalid signature: %w", err)
	}
	if sender != d.From {
		return nil, fmt.Errorf("signature recovers to %s, expected %s", sender.Hex(), d.From.Hex())
	}
	return signed, nil
}

// Submit broadcasts a signed draft and records it as pending. A node that
// already has the transaction counts as success. Resubmitting a transaction
// that is still pending returns its record; any other transaction at a
// pending nonce of the sender is rejected unless the draft replaces it. The
// broadcast is not cancelled with ctx once started.
func (e *Engine) Submit(ctx context.Context, d *Draft, signed *types.Transaction) (model.Transaction, error) {
	key := senderKey(d.Network.ID, d.From)
	e.senders.Lock(key)
	defer e.senders.Unlock(key)
	return e.submit(ctx, d, signed)
}

// submit expects the sender lock to be held.
func (e *Engine) submit(ctx context.Context, d *Draft, signed *types.Transaction) (model.Transaction, error) {
	pending, err := e.inFlight(ctx, d.Network.ID, d.From.Hex())
	if err != nil {
		return model.Transaction{}, err
	}
	for _, tx := range pending {
		if tx.Nonce != signed.Nonce() || tx.ID == d.replaces {
			continue
		}
		if tx.Hash == signed.Hash().Hex() {
			return tx, nil
		}
		return model.Transaction{}, errs.Validation("nonce %d is in use by pending transaction %s", signed.Nonce(), tx.ID)
	}

	raw, err := signed.MarshalBinary()
	if err != nil {
		return model.Transaction{}, fmt.Errorf("failed to encode transaction: %w", err)
	}
	conn, err := e.networks.Conn(d.Network.ID)
	if err != nil {
		return model.Transaction{}, err
	}

	hash, err := conn.SendRaw(context.WithoutCancel(ctx), raw)
	if client.IsAlreadyKnown(err) {
		hash, err = signed.Hash(), nil
	}
	if client.IsNonceTooLow(err) {
		return model.Transaction{}, errs.Validation("nonce %d is already used on %s", signed.Nonce(), d.Network.ID)
	}
	if err != nil {
		return model.Transaction{}, fmt.Errorf("broadcast failed: %w", err)
	}
	if hash != signed.Hash() {
		e.logger.Warn("node returned unexpected hash", "expected", signed.Hash().Hex(), "got", hash.Hex())
	}
	hash = signed.Hash()

	now := e.clock.Now().UTC()
	rec := model.Transaction{
		ID:        uuid.NewString(),
		Hash:      hash.Hex(),
		Kind:      d.Kind,
		From:      d.From.Hex(),
		To:        signed.To().Hex(),
		Value:     signed.Value().String(),
		GasLimit:  signed.Gas(),
		Nonce:     signed.Nonce(),
		Network:   d.Network.ID,
		ChainID:   d.Network.ChainID,
		Status:    model.TxPending,
		Timestamp: now,
		UpdatedAt: now,
		Replaces:  d.replaces,
	}
	if len(signed.Data()) > 0 {
		rec.Data = hexutil.Encode(signed.Data())
	}
	if signed.Type() == types.DynamicFeeTxType {
		rec.MaxFeePerGas = signed.GasFeeCap().String()
		rec.MaxPriorityFeePerGas = signed.GasTipCap().String()
	} else {
		rec.GasPrice = signed.GasPrice().String()
	}

	// Persist even if the caller has gone away: the transaction is on the wire
	err = e.update(context.WithoutCancel(ctx), func(txs []model.Transaction) ([]model.Transaction, error) {
		for i := range txs {
			if txs[i].ID == rec.Replaces && txs[i].Status.CanTransition(model.TxReplaced) {
				txs[i].Status = model.TxReplaced
				txs[i].ReplacedBy = rec.ID
				txs[i].UpdatedAt = now
			}
		}
		return append(txs, rec), nil
	})
	if err != nil {
		return model.Transaction{}, fmt.Errorf("transaction %s broadcast but not recorded: %w", rec.Hash, err)
	}

	e.logger.Info("transaction submitted",
		"tx_id", rec.ID, "hash", rec.Hash, "network", rec.Network, "nonce", rec.Nonce, "kind", rec.Kind)
	e.startMonitor(rec)
	return rec, nil
}

func (d *Draft) chainID() *big.Int {
	return big.NewInt(d.Network.ChainID)
}

func senderKey(network string, from ethcommon.Address) string {
	return network + "/" + from.Hex()
}

// isReplacementUnderpriced reports a node's rejection of a too-cheap bump.
func isReplacementUnderpriced(err error) bool {
	var rpcErr *errs.RPCError
	return errors.As(err, &rpcErr) && strings.Contains(strings.ToLower(rpcErr.Message), "underpriced")
}
