// Command walletd serves the wallet engine over a local HTTP API.
//
// @title        EVM Wallet API
// @version      1.0
// @description  Wallet engine: encrypted HD wallets, EVM networks and the transaction lifecycle behind a session gate.
// @host         localhost:8080
// @BasePath     /
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/AlexZinkM/evm-wallet/docs"
	"github.com/AlexZinkM/evm-wallet/internal/api"
	"github.com/AlexZinkM/evm-wallet/internal/client"
	"github.com/AlexZinkM/evm-wallet/internal/config"
	"github.com/AlexZinkM/evm-wallet/internal/crypto"
	"github.com/AlexZinkM/evm-wallet/internal/network"
	"github.com/AlexZinkM/evm-wallet/internal/security"
	"github.com/AlexZinkM/evm-wallet/internal/store"
	"github.com/AlexZinkM/evm-wallet/internal/transaction"
	"github.com/AlexZinkM/evm-wallet/internal/wallet"

	"github.com/fatih/color"
	"github.com/lightningnetwork/lnd/ticker"
)

// sessionSweep is how often expired and idle sessions are locked.
const sessionSweep = 30 * time.Second

func main() {
	unlock := flag.Bool("unlock", false, "prompt for the master password at startup (sets it on first run)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, *unlock); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, unlock bool) error {
	if err := config.Init(); err != nil {
		return err
	}
	cfg := config.Get()
	logger := setupLogger(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	var overrides *config.NetworksFile
	if cfg.NetworksFile != "" {
		nf, err := config.LoadNetworks(cfg.NetworksFile)
		if err != nil {
			return err
		}
		overrides = nf
	}

	kv, err := store.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer kv.Close()

	vault := crypto.NewVault(cfg.PBKDF2Iterations)

	gate, err := security.NewGate(ctx, kv, vault, security.Options{
		SessionTimeout:  cfg.SessionTimeout,
		IdleTimeout:     cfg.IdleTimeout,
		MaxAttempts:     cfg.MaxAuthAttempts,
		LockoutDuration: cfg.LockoutDuration,
		Logger:          logger,
	})
	if err != nil {
		return fmt.Errorf("creating security gate: %w", err)
	}

	registry, err := network.NewRegistry(ctx, kv, network.Options{
		Timeout:   cfg.RPCTimeout,
		Retries:   cfg.RPCRetries,
		RateLimit: cfg.RPCRateLimit,
		Overrides: overrides,
		Logger:    logger,
	})
	if err != nil {
		return fmt.Errorf("creating network registry: %w", err)
	}
	defer registry.Close()

	wallets := wallet.NewStore(kv, vault, gate, registry, wallet.Options{
		Prices: client.NewCoinGeckoClient(cfg.PriceAPIURL),
		Logger: logger,
	})
	gate.SetRekeyer(wallets)

	engine := transaction.NewEngine(kv, registry, wallets, gate, transaction.Options{
		MonitorInterval: cfg.MonitorInterval,
		MonitorTimeout:  cfg.MonitorTimeout,
		Logger:          logger,
	})
	defer engine.Close()

	resumed, err := engine.ResumePending(ctx)
	if err != nil {
		return fmt.Errorf("resuming pending transactions: %w", err)
	}

	if unlock {
		if err := unlockAtStartup(ctx, gate); err != nil {
			return err
		}
	}

	go gate.Run(ctx, ticker.New(sessionSweep))

	server := &http.Server{
		Addr:              "127.0.0.1:" + config.GetPort(),
		Handler:           api.SetupRouter(api.Services{Gate: gate, Wallets: wallets, Networks: registry, Transactions: engine, Logger: logger}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	green := color.New(color.FgGreen)
	green.Print("    ▶ ")
	fmt.Printf("API:       http://%s\n", server.Addr)
	green.Print("    ▶ ")
	fmt.Printf("Swagger:   http://%s/swagger/index.html\n", server.Addr)
	green.Print("    ▶ ")
	fmt.Printf("Network:   %s\n", registry.Current().ID)
	fmt.Println()

	logger.Info("starting walletd", "addr", server.Addr, "db", cfg.DBPath, "pbkdf2_iterations", vault.Iterations(), "resumed_pending", resumed)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	gate.Lock()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// unlockAtStartup reads the master password from the terminal, setting it on
// first run, and opens a session whose bearer token is printed to stderr.
func unlockAtStartup(ctx context.Context, gate *security.Gate) error {
	if err := config.PromptForPassword(); err != nil {
		return err
	}
	defer config.ClearPassword()

	password, err := config.PasswordBytes()
	if err != nil {
		return err
	}
	defer clear(password)

	yellow := color.New(color.FgYellow)
	if !gate.HasPassword() {
		if err := gate.SetPassword(ctx, password); err != nil {
			return fmt.Errorf("setting master password: %w", err)
		}
		yellow.Println("    master password set")
	}
	_, token, err := gate.Authenticate(ctx, password)
	if err != nil {
		return fmt.Errorf("unlocking: %w", err)
	}
	yellow.Println("    wallet unlocked")
	fmt.Fprintf(os.Stderr, "    session token: %s\n", token)
	return nil
}
