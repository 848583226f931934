package wallet

import (
	"context"
	"encoding/base64"
	"fmt"
	"math/big"

	"github.com/AlexZinkM/evm-wallet/internal/common"
	"github.com/AlexZinkM/evm-wallet/internal/model"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/skip2/go-qrcode"
	"golang.org/x/sync/errgroup"
)

// RefreshBalances fetches balance and pending nonce of every account of a
// wallet and stores them on the record.
func (s *Store) RefreshBalances(ctx context.Context, walletID string) (model.WalletView, error) {
	s.locks.Lock(walletID)
	defer s.locks.Unlock(walletID)

	rec, err := s.load(ctx, walletID)
	if err != nil {
		return model.WalletView{}, err
	}

	type state struct {
		balance *big.Int
		nonce   uint64
	}
	states := make([]state, len(rec.Accounts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, acc := range rec.Accounts {
		g.Go(func() error {
			conn, err := s.networks.Conn(acc.Network)
			if err != nil {
				return err
			}
			addr := ethcommon.HexToAddress(acc.Address)
			bal, err := conn.GetBalance(gctx, addr)
			if err != nil {
				return fmt.Errorf("balance of %s: %w", acc.Address, err)
			}
			nonce, err := conn.GetNonce(gctx, addr)
			if err != nil {
				return fmt.Errorf("nonce of %s: %w", acc.Address, err)
			}
			states[i] = state{balance: bal, nonce: nonce}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return model.WalletView{}, err
	}

	var view model.WalletView
	err = s.modify(ctx, walletID, func(w *model.WalletRecord) error {
		for i, acc := range rec.Accounts {
			if cur, ok := w.FindAccount(acc.Address); ok {
				cur.Balance = states[i].balance.String()
				cur.Nonce = states[i].nonce
			}
		}
		view = w.View()
		return nil
	})
	if err != nil {
		return model.WalletView{}, err
	}

	s.logger.Debug("balances refreshed", "wallet_id", walletID, "accounts", len(rec.Accounts))
	return view, nil
}

// Balance returns the live balance of one of the wallet's accounts on its
// network. The USD value is best effort and left empty when the price feed
// fails.
func (s *Store) Balance(ctx context.Context, address string) (model.BalanceResponse, error) {
	_, acc, err := s.FindAccount(ctx, address)
	if err != nil {
		return model.BalanceResponse{}, err
	}
	conn, err := s.networks.Conn(acc.Network)
	if err != nil {
		return model.BalanceResponse{}, err
	}
	wei, err := conn.GetBalance(ctx, ethcommon.HexToAddress(acc.Address))
	if err != nil {
		return model.BalanceResponse{}, err
	}

	n := conn.Network()
	resp := model.BalanceResponse{
		Address: acc.Address,
		Network: n.ID,
		Symbol:  n.Symbol,
		Wei:     wei.String(),
		Balance: common.WeiToEther(wei),
	}

	if s.prices != nil && n.PriceID != "" {
		rate, err := s.prices.GetUSDPrice(ctx, n.PriceID)
		if err != nil {
			s.logger.Debug("price feed unavailable", "network", n.ID, "error", err)
			return resp, nil
		}
		usd, err := common.MulRate(resp.Balance, rate)
		if err != nil {
			s.logger.Debug("failed to convert balance", "network", n.ID, "error", err)
			return resp, nil
		}
		resp.Rate = rate
		resp.USD = usd
	}
	return resp, nil
}

// ReceiveQR returns a QR code of an account address as base64 PNG.
func (s *Store) ReceiveQR(ctx context.Context, address string) (model.QRResponse, error) {
	_, acc, err := s.FindAccount(ctx, address)
	if err != nil {
		return model.QRResponse{}, err
	}

	qr, err := qrcode.New(acc.Address, qrcode.Medium)
	if err != nil {
		return model.QRResponse{}, fmt.Errorf("failed to create QR code: %w", err)
	}
	png, err := qr.PNG(256)
	if err != nil {
		return model.QRResponse{}, fmt.Errorf("failed to generate PNG: %w", err)
	}

	return model.QRResponse{
		Address: acc.Address,
		QR:      base64.StdEncoding.EncodeToString(png),
	}, nil
}
