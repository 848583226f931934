package handler

import (
	"log/slog"
	"net/http"

	"github.com/AlexZinkM/evm-wallet/internal/model"
	"github.com/AlexZinkM/evm-wallet/internal/network"
)

// NetworkHandler serves the network registry endpoints.
type NetworkHandler struct {
	registry *network.Registry
	logger   *slog.Logger
}

// NewNetworkHandler creates a new NetworkHandler
func NewNetworkHandler(registry *network.Registry, logger *slog.Logger) *NetworkHandler {
	return &NetworkHandler{registry: registry, logger: logger}
}

// List handles GET /networks
// @Summary      List networks
// @Description  All known networks and the current selection
// @Tags         networks
// @Produce      json
// @Success      200  {object}  model.NetworkSettings
// @Router       /networks [get]
func (h *NetworkHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.NetworkSettings{
		Current:  h.registry.Current().ID,
		Networks: h.registry.List(),
	})
}

// Add handles POST /networks
// @Summary      Add custom network
// @Description  Registers a custom network after checking the endpoint reports the declared chain id
// @Tags         networks
// @Accept       json
// @Produce      json
// @Param        request  body      model.Network  true  "Network descriptor"
// @Success      201      {object}  model.Network
// @Failure      400      {object}  model.ErrorResponse
// @Failure      502      {object}  model.ErrorResponse
// @Router       /networks [post]
func (h *NetworkHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req model.Network
	if !decode(w, r, &req) {
		return
	}
	n, err := h.registry.Add(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, n)
}

// Update handles PATCH /networks/{id}
// @Summary      Enable or disable network
// @Tags         networks
// @Accept       json
// @Produce      json
// @Param        id       path      string                      true  "Network ID"
// @Param        request  body      model.UpdateNetworkRequest  true  "Enabled flag"
// @Success      200      {object}  model.Network
// @Failure      400      {object}  model.ErrorResponse
// @Failure      404      {object}  model.ErrorResponse
// @Router       /networks/{id} [patch]
func (h *NetworkHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateNetworkRequest
	if !decode(w, r, &req) {
		return
	}
	id := r.PathValue("id")
	if err := h.registry.SetEnabled(r.Context(), id, req.IsEnabled); err != nil {
		writeError(w, h.logger, err)
		return
	}
	n, err := h.registry.Get(id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

// Remove handles DELETE /networks/{id}
// @Summary      Remove custom network
// @Tags         networks
// @Param        id   path  string  true  "Network ID"
// @Success      204
// @Failure      400  {object}  model.ErrorResponse
// @Failure      404  {object}  model.ErrorResponse
// @Router       /networks/{id} [delete]
func (h *NetworkHandler) Remove(w http.ResponseWriter, r *http.Request) {
	if err := h.registry.Remove(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Switch handles POST /networks/switch
// @Summary      Switch current network
// @Tags         networks
// @Accept       json
// @Produce      json
// @Param        request  body      model.SwitchNetworkRequest  true  "Network ID"
// @Success      200      {object}  model.Network
// @Failure      400      {object}  model.ErrorResponse
// @Failure      404      {object}  model.ErrorResponse
// @Router       /networks/switch [post]
func (h *NetworkHandler) Switch(w http.ResponseWriter, r *http.Request) {
	var req model.SwitchNetworkRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.registry.Switch(r.Context(), req.ID); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, h.registry.Current())
}

// Test handles POST /networks/{id}/test
// @Summary      Test connection
// @Description  Probes the network endpoint with eth_blockNumber
// @Tags         networks
// @Produce      json
// @Param        id   path      string  true  "Network ID"
// @Success      200  {object}  model.ConnectionResponse
// @Router       /networks/{id}/test [post]
func (h *NetworkHandler) Test(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	writeJSON(w, http.StatusOK, model.ConnectionResponse{
		Network:   id,
		Reachable: h.registry.TestConnection(r.Context(), id),
	})
}
