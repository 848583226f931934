package handler

import (
	"log/slog"
	"net/http"

	"github.com/AlexZinkM/evm-wallet/internal/model"
	"github.com/AlexZinkM/evm-wallet/internal/wallet"
)

// WalletHandler serves wallet and account endpoints.
type WalletHandler struct {
	store  *wallet.Store
	logger *slog.Logger
}

// NewWalletHandler creates a new WalletHandler
func NewWalletHandler(store *wallet.Store, logger *slog.Logger) *WalletHandler {
	return &WalletHandler{store: store, logger: logger}
}

// List handles GET /wallets
// @Summary      List wallets
// @Tags         wallets
// @Produce      json
// @Success      200  {array}  model.WalletView
// @Router       /wallets [get]
func (h *WalletHandler) List(w http.ResponseWriter, r *http.Request) {
	wallets, err := h.store.ListWallets(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, wallets)
}

// Create handles POST /wallets
// @Summary      Create wallet
// @Description  Generates a new 12-word seed, encrypts it with the master password and derives accountCount accounts
// @Tags         wallets
// @Accept       json
// @Produce      json
// @Param        request  body      model.CreateWalletRequest  true  "Wallet parameters"
// @Success      201      {object}  model.WalletView
// @Failure      400      {object}  model.ErrorResponse
// @Failure      401      {object}  model.ErrorResponse
// @Router       /wallets [post]
func (h *WalletHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateWalletRequest
	if !decode(w, r, &req) {
		return
	}
	view, err := h.store.CreateWallet(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

// Import handles POST /wallets/import
// @Summary      Import wallet
// @Description  Imports a wallet from a BIP39 seed phrase
// @Tags         wallets
// @Accept       json
// @Produce      json
// @Param        request  body      model.ImportWalletRequest  true  "Seed phrase and wallet parameters"
// @Success      201      {object}  model.WalletView
// @Failure      400      {object}  model.ErrorResponse
// @Failure      401      {object}  model.ErrorResponse
// @Router       /wallets/import [post]
func (h *WalletHandler) Import(w http.ResponseWriter, r *http.Request) {
	var req model.ImportWalletRequest
	if !decode(w, r, &req) {
		return
	}
	view, err := h.store.ImportWallet(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

// Get handles GET /wallets/{id}
// @Summary      Get wallet
// @Tags         wallets
// @Produce      json
// @Param        id   path      string  true  "Wallet ID"
// @Success      200  {object}  model.WalletView
// @Failure      404  {object}  model.ErrorResponse
// @Router       /wallets/{id} [get]
func (h *WalletHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.store.GetWallet(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Rename handles PATCH /wallets/{id}
// @Summary      Rename wallet
// @Tags         wallets
// @Accept       json
// @Produce      json
// @Param        id       path      string                     true  "Wallet ID"
// @Param        request  body      model.RenameWalletRequest  true  "New name"
// @Success      200      {object}  model.WalletView
// @Failure      400      {object}  model.ErrorResponse
// @Failure      404      {object}  model.ErrorResponse
// @Router       /wallets/{id} [patch]
func (h *WalletHandler) Rename(w http.ResponseWriter, r *http.Request) {
	var req model.RenameWalletRequest
	if !decode(w, r, &req) {
		return
	}
	view, err := h.store.RenameWallet(r.Context(), r.PathValue("id"), req.Name)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Delete handles DELETE /wallets/{id}
// @Summary      Delete wallet
// @Description  Irreversibly removes the wallet and its encrypted seed. Requires an unlocked session.
// @Tags         wallets
// @Param        id   path  string  true  "Wallet ID"
// @Success      204
// @Failure      401  {object}  model.ErrorResponse
// @Failure      404  {object}  model.ErrorResponse
// @Router       /wallets/{id} [delete]
func (h *WalletHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteWallet(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddAccount handles POST /wallets/{id}/accounts
// @Summary      Add account
// @Description  Derives the next account of the wallet. Requires an unlocked session.
// @Tags         wallets
// @Accept       json
// @Produce      json
// @Param        id       path      string                 true  "Wallet ID"
// @Param        request  body      model.PasswordRequest  true  "Master password"
// @Success      201      {object}  model.Account
// @Failure      401      {object}  model.ErrorResponse
// @Failure      404      {object}  model.ErrorResponse
// @Router       /wallets/{id}/accounts [post]
func (h *WalletHandler) AddAccount(w http.ResponseWriter, r *http.Request) {
	var req model.PasswordRequest
	if !decode(w, r, &req) {
		return
	}
	acc, err := h.store.AddAccount(r.Context(), r.PathValue("id"), req.Password)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, acc)
}

// Export handles POST /wallets/{id}/export
// @Summary      Export seed phrase
// @Description  Returns the plaintext seed phrase after password verification. Requires an unlocked session.
// @Tags         wallets
// @Accept       json
// @Produce      json
// @Param        id       path      string                 true  "Wallet ID"
// @Param        request  body      model.PasswordRequest  true  "Master password"
// @Success      200      {object}  model.ExportResponse
// @Failure      401      {object}  model.ErrorResponse
// @Failure      404      {object}  model.ErrorResponse
// @Router       /wallets/{id}/export [post]
func (h *WalletHandler) Export(w http.ResponseWriter, r *http.Request) {
	var req model.PasswordRequest
	if !decode(w, r, &req) {
		return
	}
	seed, err := h.store.ExportSeed(r.Context(), r.PathValue("id"), req.Password)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, model.ExportResponse{SeedPhrase: seed})
}

// Refresh handles POST /wallets/{id}/refresh
// @Summary      Refresh balances
// @Description  Re-reads balance and nonce of every account from its network
// @Tags         wallets
// @Produce      json
// @Param        id   path      string  true  "Wallet ID"
// @Success      200  {object}  model.WalletView
// @Failure      404  {object}  model.ErrorResponse
// @Failure      502  {object}  model.ErrorResponse
// @Router       /wallets/{id}/refresh [post]
func (h *WalletHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	view, err := h.store.RefreshBalances(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Balance handles GET /accounts/{address}/balance
// @Summary      Account balance
// @Description  Native coin balance with a USD value when the price feed is reachable
// @Tags         accounts
// @Produce      json
// @Param        address  path      string  true  "Account address"
// @Success      200      {object}  model.BalanceResponse
// @Failure      404      {object}  model.ErrorResponse
// @Failure      502      {object}  model.ErrorResponse
// @Router       /accounts/{address}/balance [get]
func (h *WalletHandler) Balance(w http.ResponseWriter, r *http.Request) {
	balance, err := h.store.Balance(r.Context(), r.PathValue("address"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, balance)
}

// ReceiveQR handles GET /accounts/{address}/qr
// @Summary      Receive QR code
// @Description  Base64 PNG QR code of the account address
// @Tags         accounts
// @Produce      json
// @Param        address  path      string  true  "Account address"
// @Success      200      {object}  model.QRResponse
// @Failure      404      {object}  model.ErrorResponse
// @Router       /accounts/{address}/qr [get]
func (h *WalletHandler) ReceiveQR(w http.ResponseWriter, r *http.Request) {
	qr, err := h.store.ReceiveQR(r.Context(), r.PathValue("address"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, qr)
}
