package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/AlexZinkM/evm-wallet/internal/errs"
	"github.com/AlexZinkM/evm-wallet/internal/model"
	"github.com/AlexZinkM/evm-wallet/internal/transaction"
)

// TransactionHandler serves the transaction endpoints.
type TransactionHandler struct {
	engine *transaction.Engine
	logger *slog.Logger
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(engine *transaction.Engine, logger *slog.Logger) *TransactionHandler {
	return &TransactionHandler{engine: engine, logger: logger}
}

// Estimate handles POST /transactions/estimate
// @Summary      Estimate fees
// @Description  Gas limit and slow/standard/fast fee tiers (80/100/120% of the gas price). On EIP-1559 networks each tier also carries maxFeePerGas.
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        request  body      model.EstimateRequest  true  "Transfer to estimate"
// @Success      200      {object}  model.FeeEstimate
// @Failure      400      {object}  model.ErrorResponse
// @Failure      502      {object}  model.ErrorResponse
// @Router       /transactions/estimate [post]
func (h *TransactionHandler) Estimate(w http.ResponseWriter, r *http.Request) {
	var req model.EstimateRequest
	if !decode(w, r, &req) {
		return
	}
	est, err := h.engine.Estimate(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, est)
}

// Send handles POST /transactions
// @Summary      Send transaction
// @Description  Builds, signs and broadcasts a transfer. The result is pending; poll GET /transactions/{id} for the outcome. Requires an unlocked session.
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        request  body      model.SendRequest  true  "Transfer"
// @Success      201      {object}  model.Transaction
// @Failure      400      {object}  model.ErrorResponse
// @Failure      401      {object}  model.ErrorResponse
// @Failure      402      {object}  model.ErrorResponse
// @Failure      502      {object}  model.ErrorResponse
// @Router       /transactions [post]
func (h *TransactionHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req model.SendRequest
	if !decode(w, r, &req) {
		return
	}
	tx, err := h.engine.Send(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, tx)
}

// List handles GET /transactions
// @Summary      Transaction history
// @Description  Recorded transactions, newest first, with optional filters
// @Tags         transactions
// @Produce      json
// @Param        address  query     string  false  "Sender or recipient address"
// @Param        network  query     string  false  "Network ID"
// @Param        status   query     string  false  "PENDING, CONFIRMED, FAILED or REPLACED"
// @Param        from     query     string  false  "Start date (YYYY-MM-DD)"
// @Param        to       query     string  false  "End date (YYYY-MM-DD)"
// @Success      200      {array}   model.Transaction
// @Failure      400      {object}  model.ErrorResponse
// @Router       /transactions [get]
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	var filter model.TxFilter
	q := r.URL.Query()

	// Parse date parameters (YYYY-MM-DD)
	const dateLayout = "2006-01-02"
	if fromStr := q.Get("from"); fromStr != "" {
		t, err := time.Parse(dateLayout, fromStr)
		if err != nil {
			writeError(w, h.logger, errs.Validation("invalid from date: use YYYY-MM-DD (e.g. 2006-01-02)"))
			return
		}
		filter.From = &t
	}
	if toStr := q.Get("to"); toStr != "" {
		t, err := time.Parse(dateLayout, toStr)
		if err != nil {
			writeError(w, h.logger, errs.Validation("invalid to date: use YYYY-MM-DD (e.g. 2006-01-02)"))
			return
		}
		// End of day so filter is inclusive
		t = t.Add(24*time.Hour - time.Nanosecond)
		filter.To = &t
	}

	if address := q.Get("address"); address != "" {
		filter.Address = &address
	}
	if network := q.Get("network"); network != "" {
		filter.Network = &network
	}
	if status := q.Get("status"); status != "" {
		s := model.TxStatus(status)
		filter.Status = &s
	}

	txs, err := h.engine.List(r.Context(), &filter)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, txs)
}

// Get handles GET /transactions/{id}
// @Summary      Get transaction
// @Tags         transactions
// @Produce      json
// @Param        id   path      string  true  "Transaction ID"
// @Success      200  {object}  model.Transaction
// @Failure      404  {object}  model.ErrorResponse
// @Router       /transactions/{id} [get]
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	tx, err := h.engine.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

// SpeedUp handles POST /transactions/{id}/speedup
// @Summary      Speed up transaction
// @Description  Re-sends a pending transaction at the same nonce with a higher gas price. Without gasPriceGwei the price is max(fast tier, original + 10%).
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        id       path      string                true  "Transaction ID"
// @Param        request  body      model.SpeedUpRequest  true  "New price and password"
// @Success      201      {object}  model.Transaction
// @Failure      400      {object}  model.ErrorResponse
// @Failure      401      {object}  model.ErrorResponse
// @Failure      404      {object}  model.ErrorResponse
// @Router       /transactions/{id}/speedup [post]
func (h *TransactionHandler) SpeedUp(w http.ResponseWriter, r *http.Request) {
	var req model.SpeedUpRequest
	if !decode(w, r, &req) {
		return
	}
	tx, err := h.engine.SpeedUp(r.Context(), r.PathValue("id"), req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, tx)
}

// Cancel handles POST /transactions/{id}/cancel
// @Summary      Cancel transaction
// @Description  Replaces a pending transaction with a zero-value transfer to the sender at the same nonce
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        id       path      string                 true  "Transaction ID"
// @Param        request  body      model.PasswordRequest  true  "Master password"
// @Success      201      {object}  model.Transaction
// @Failure      400      {object}  model.ErrorResponse
// @Failure      401      {object}  model.ErrorResponse
// @Failure      404      {object}  model.ErrorResponse
// @Router       /transactions/{id}/cancel [post]
func (h *TransactionHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	var req model.PasswordRequest
	if !decode(w, r, &req) {
		return
	}
	tx, err := h.engine.Cancel(r.Context(), r.PathValue("id"), req.Password)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, tx)
}
