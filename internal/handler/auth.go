package handler

import (
	"log/slog"
	"net/http"

	"github.com/AlexZinkM/evm-wallet/internal/model"
	"github.com/AlexZinkM/evm-wallet/internal/security"
)

// AuthHandler serves the master password and session endpoints.
type AuthHandler struct {
	gate   *security.Gate
	logger *slog.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(gate *security.Gate, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{gate: gate, logger: logger}
}

// SetPassword handles POST /auth/password
// @Summary      Set master password
// @Description  Sets the master password on first run. Fails once a password exists.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      model.PasswordRequest  true  "Master password"
// @Success      201      {object}  model.StateResponse
// @Failure      400      {object}  model.ErrorResponse
// @Router       /auth/password [post]
func (h *AuthHandler) SetPassword(w http.ResponseWriter, r *http.Request) {
	var req model.PasswordRequest
	if !decode(w, r, &req) {
		return
	}
	password := []byte(req.Password)
	defer clear(password)

	if err := h.gate.SetPassword(r.Context(), password); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, model.StateResponse{State: h.gate.State()})
}

// ChangePassword handles PUT /auth/password
// @Summary      Change master password
// @Description  Verifies the old password and re-encrypts every wallet under the new one in a single write
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      model.ChangePasswordRequest  true  "Old and new password"
// @Success      200      {object}  model.StateResponse
// @Failure      400      {object}  model.ErrorResponse
// @Failure      401      {object}  model.ErrorResponse
// @Failure      429      {object}  model.ErrorResponse
// @Router       /auth/password [put]
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req model.ChangePasswordRequest
	if !decode(w, r, &req) {
		return
	}
	oldPassword, newPassword := []byte(req.OldPassword), []byte(req.NewPassword)
	defer clear(oldPassword)
	defer clear(newPassword)

	if err := h.gate.ChangePassword(r.Context(), oldPassword, newPassword); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, model.StateResponse{State: h.gate.State()})
}

// Unlock handles POST /auth/unlock
// @Summary      Unlock wallet
// @Description  Authenticates with the master password and opens a session. Pass the token as "Authorization: Bearer <token>".
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      model.PasswordRequest  true  "Master password"
// @Success      200      {object}  model.UnlockResponse
// @Failure      401      {object}  model.ErrorResponse
// @Failure      429      {object}  model.ErrorResponse
// @Router       /auth/unlock [post]
func (h *AuthHandler) Unlock(w http.ResponseWriter, r *http.Request) {
	var req model.PasswordRequest
	if !decode(w, r, &req) {
		return
	}
	password := []byte(req.Password)
	defer clear(password)

	session, token, err := h.gate.Authenticate(r.Context(), password)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, model.UnlockResponse{Session: session, Token: token})
}

// Lock handles POST /auth/lock
// @Summary      Lock wallet
// @Tags         auth
// @Produce      json
// @Success      200  {object}  model.StateResponse
// @Router       /auth/lock [post]
func (h *AuthHandler) Lock(w http.ResponseWriter, r *http.Request) {
	h.gate.Lock()
	writeJSON(w, http.StatusOK, model.StateResponse{State: h.gate.State()})
}

// State handles GET /auth/state
// @Summary      Gate state
// @Description  LOCKED, AUTHENTICATING, UNLOCKED or COOLDOWN
// @Tags         auth
// @Produce      json
// @Success      200  {object}  model.StateResponse
// @Router       /auth/state [get]
func (h *AuthHandler) State(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.StateResponse{State: h.gate.State()})
}
