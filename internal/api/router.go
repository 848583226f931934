package api

import (
	"log/slog"
	"net/http"

	"github.com/AlexZinkM/evm-wallet/internal/handler"
	"github.com/AlexZinkM/evm-wallet/internal/network"
	"github.com/AlexZinkM/evm-wallet/internal/security"
	"github.com/AlexZinkM/evm-wallet/internal/transaction"
	"github.com/AlexZinkM/evm-wallet/internal/wallet"

	httpSwagger "github.com/swaggo/http-swagger"
)

// Services are the components the API exposes.
type Services struct {
	Gate         *security.Gate
	Wallets      *wallet.Store
	Networks     *network.Registry
	Transactions *transaction.Engine
	Logger       *slog.Logger
}

// SetupRouter sets up router with handlers
func SetupRouter(s Services) http.Handler {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "api")

	authHandler := handler.NewAuthHandler(s.Gate, logger)
	walletHandler := handler.NewWalletHandler(s.Wallets, logger)
	networkHandler := handler.NewNetworkHandler(s.Networks, logger)
	txHandler := handler.NewTransactionHandler(s.Transactions, logger)

	mux := http.NewServeMux()

	// Swagger UI
	mux.HandleFunc("/swagger/", httpSwagger.WrapHandler)

	// Auth endpoints
	mux.HandleFunc("POST /auth/password", authHandler.SetPassword)
	mux.HandleFunc("PUT /auth/password", authHandler.ChangePassword)
	mux.HandleFunc("POST /auth/unlock", authHandler.Unlock)
	mux.HandleFunc("POST /auth/lock", authHandler.Lock)
	mux.HandleFunc("GET /auth/state", authHandler.State)

	// Wallet endpoints
	mux.HandleFunc("GET /wallets", walletHandler.List)
	mux.HandleFunc("POST /wallets", walletHandler.Create)
	mux.HandleFunc("POST /wallets/import", walletHandler.Import)
	mux.HandleFunc("GET /wallets/{id}", walletHandler.Get)
	mux.HandleFunc("PATCH /wallets/{id}", walletHandler.Rename)
	mux.HandleFunc("DELETE /wallets/{id}", walletHandler.Delete)
	mux.HandleFunc("POST /wallets/{id}/accounts", walletHandler.AddAccount)
	mux.HandleFunc("POST /wallets/{id}/export", walletHandler.Export)
	mux.HandleFunc("POST /wallets/{id}/refresh", walletHandler.Refresh)
	mux.HandleFunc("GET /accounts/{address}/balance", walletHandler.Balance)
	mux.HandleFunc("GET /accounts/{address}/qr", walletHandler.ReceiveQR)

	// Network endpoints
	mux.HandleFunc("GET /networks", networkHandler.List)
	mux.HandleFunc("POST /networks", networkHandler.Add)
	mux.HandleFunc("POST /networks/switch", networkHandler.Switch)
	mux.HandleFunc("PATCH /networks/{id}", networkHandler.Update)
	mux.HandleFunc("DELETE /networks/{id}", networkHandler.Remove)
	mux.HandleFunc("POST /networks/{id}/test", networkHandler.Test)

	// Transaction endpoints
	mux.HandleFunc("POST /transactions/estimate", txHandler.Estimate)
	mux.HandleFunc("POST /transactions", txHandler.Send)
	mux.HandleFunc("GET /transactions", txHandler.List)
	mux.HandleFunc("GET /transactions/{id}", txHandler.Get)
	mux.HandleFunc("POST /transactions/{id}/speedup", txHandler.SpeedUp)
	mux.HandleFunc("POST /transactions/{id}/cancel", txHandler.Cancel)

	return handler.WithSession(mux)
}
