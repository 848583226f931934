// Package network holds the network descriptors the wallet can use, persists
// the current selection and hands out throttled JSON-RPC connections.
package network

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"sync"
	"time"

	"github.com/AlexZinkM/evm-wallet/internal/client"
	"github.com/AlexZinkM/evm-wallet/internal/config"
	"github.com/AlexZinkM/evm-wallet/internal/errs"
	"github.com/AlexZinkM/evm-wallet/internal/model"
	"github.com/AlexZinkM/evm-wallet/internal/store"

	"golang.org/x/time/rate"
)

// Options tune a Registry. Zero values get defaults.
type Options struct {
	Timeout   time.Duration // per RPC round trip
	Retries   int           // extra attempts on NETWORK errors
	RateLimit float64       // requests per second per network
	Backoff   time.Duration // first retry delay, doubled each attempt
	Overrides *config.NetworksFile
	Logger    *slog.Logger
}

func (o *Options) setDefaults() {
	if o.Timeout <= 0 {
		o.Timeout = client.DefaultRPCTimeout
	}
	if o.Retries < 0 {
		o.Retries = 0
	}
	if o.RateLimit <= 0 {
		o.RateLimit = 10
	}
	if o.Backoff <= 0 {
		o.Backoff = 200 * time.Millisecond
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}

// Registry manages network descriptors and their RPC endpoints.
type Registry struct {
	kv     store.KV
	opts   Options
	logger *slog.Logger

	mu        sync.RWMutex
	settings  model.NetworkSettings
	endpoints map[string]*endpoint // keyed by network id
}

// endpoint is a cached client for one network's RPC URL.
type endpoint struct {
	url     string
	client  *client.EthClient
	limiter *rate.Limiter
}

// NewRegistry loads persisted network settings (or the built-ins on first
// run), applies file overrides and persists the result.
func NewRegistry(ctx context.Context, kv store.KV, opts Options) (*Registry, error) {
	opts.setDefaults()
	r := &Registry{
		kv:        kv,
		opts:      opts,
		logger:    opts.Logger.With("component", "network"),
		endpoints: make(map[string]*endpoint),
	}

	found, err := store.LoadJSON(ctx, kv, store.KeyNetworks, &r.settings)
	if err != nil {
		return nil, fmt.Errorf("failed to load network settings: %w", err)
	}

	// Built-ins added in a later release appear for existing installs too
	for _, b := range Builtins() {
		if r.index(b.ID) < 0 {
			r.settings.Networks = append(r.settings.Networks, b)
		}
	}

	if opts.Overrides != nil {
		r.applyOverrides(opts.Overrides)
		if !found && opts.Overrides.Default != "" {
			r.settings.Current = opts.Overrides.Default
		}
	}

	if i := r.index(r.settings.Current); i < 0 || !r.settings.Networks[i].IsEnabled {
		current, ok := r.fallback()
		if !ok {
			return nil, errs.Validation("no enabled network")
		}
		r.settings.Current = current
	}

	if err := r.persist(ctx); err != nil {
		return nil, err
	}
	r.logger.Info("network registry loaded", "current", r.settings.Current, "networks", len(r.settings.Networks))
	return r, nil
}

// fallback picks the default network, or the first enabled one when the
// default is disabled.
func (r *Registry) fallback() (string, bool) {
	if i := r.index(DefaultNetwork); i >= 0 && r.settings.Networks[i].IsEnabled {
		return DefaultNetwork, true
	}
	for _, n := range r.settings.Networks {
		if n.IsEnabled {
			return n.ID, true
		}
	}
	return "", false
}

func (r *Registry) applyOverrides(nf *config.NetworksFile) {
	for _, o := range nf.Networks {
		i := r.index(o.ID)
		if i < 0 {
			r.settings.Networks = append(r.settings.Networks, model.Network{
				ID:        o.ID,
				IsCustom:  true,
				IsEnabled: true,
			})
			i = len(r.settings.Networks) - 1
		}

		n := &r.settings.Networks[i]
		if o.Name != "" {
			n.Name = o.Name
		}
		if o.Symbol != "" {
			n.Symbol = o.Symbol
		}
		if o.RPCURL != "" {
			n.RPCURL = o.RPCURL
		}
		if o.ChainID != 0 {
			n.ChainID = o.ChainID
		}
		if o.ExplorerURL != "" {
			n.ExplorerURL = o.ExplorerURL
		}
		if o.PriceID != "" {
			n.PriceID = o.PriceID
		}
		if o.Enabled != nil {
			n.IsEnabled = *o.Enabled
		}
	}
}

// index returns the position of id in settings, or -1. Caller holds mu or
// is the constructor.
func (r *Registry) index(id string) int {
	return slices.IndexFunc(r.settings.Networks, func(n model.Network) bool { return n.ID == id })
}

// persist writes settings. Caller holds mu or is the constructor.
func (r *Registry) persist(ctx context.Context) error {
	if err := store.SaveJSON(ctx, r.kv, store.KeyNetworks, r.settings); err != nil {
		return fmt.Errorf("failed to persist network settings: %w", err)
	}
	return nil
}

// List returns all networks.
func (r *Registry) List() []model.Network {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.settings.Networks)
}

// Get returns the network with id.
func (r *Registry) Get(id string) (model.Network, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.index(id)
	if i < 0 {
		return model.Network{}, errs.NotFound("network %q not found", id)
	}
	return r.settings.Networks[i], nil
}

// Current returns the selected network.
func (r *Registry) Current() model.Network {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.settings.Networks[r.index(r.settings.Current)]
}

// Resolve returns the network with id, or the current one when id is empty.
// Disabled networks are rejected.
func (r *Registry) Resolve(id string) (model.Network, error) {
	if id == "" {
		return r.Current(), nil
	}
	n, err := r.Get(id)
	if err != nil {
		return model.Network{}, err
	}
	if !n.IsEnabled {
		return model.Network{}, errs.Validation("network %q is disabled", id)
	}
	return n, nil
}

// Switch makes id the current network and persists the selection.
func (r *Registry) Switch(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.index(id)
	if i < 0 {
		return errs.NotFound("network %q not found", id)
	}
	if !r.settings.Networks[i].IsEnabled {
		return errs.Validation("network %q is disabled", id)
	}

	prev := r.settings.Current
	r.settings.Current = id
	if err := r.persist(ctx); err != nil {
		r.settings.Current = prev
		return err
	}
	r.logger.Info("switched network", "from", prev, "to", id)
	return nil
}

// Add registers a custom network after checking that its endpoint reports
// the declared chain id.
func (r *Registry) Add(ctx context.Context, n model.Network) (model.Network, error) {
	if err := validateDescriptor(n); err != nil {
		return model.Network{}, err
	}

	// Probe outside the lock
	probe, err := client.NewEthClient(ctx, n.RPCURL, r.opts.Timeout)
	if err != nil {
		return model.Network{}, err
	}
	remote, err := probe.ChainID(ctx)
	probe.Close()
	if err != nil {
		return model.Network{}, fmt.Errorf("failed to query chain id: %w", err)
	}
	if !remote.IsInt64() || remote.Int64() != n.ChainID {
		return model.Network{}, errs.Validation("endpoint reports chain id %s, expected %d", remote, n.ChainID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.settings.Networks {
		if existing.ID == n.ID {
			return model.Network{}, errs.Validation("network id %q already exists", n.ID)
		}
		if existing.ChainID == n.ChainID {
			return model.Network{}, errs.Validation("chain id %d already used by %q", n.ChainID, existing.ID)
		}
	}

	n.IsCustom = true
	n.IsEnabled = true
	r.settings.Networks = append(r.settings.Networks, n)
	if err := r.persist(ctx); err != nil {
		r.settings.Networks = r.settings.Networks[:len(r.settings.Networks)-1]
		return model.Network{}, err
	}
	r.logger.Info("added custom network", "network", n.ID, "chain_id", n.ChainID)
	return n, nil
}

// Remove deletes a custom network. Built-ins and the current network cannot
// be removed.
func (r *Registry) Remove(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.index(id)
	if i < 0 {
		return errs.NotFound("network %q not found", id)
	}
	if !r.settings.Networks[i].IsCustom {
		return errs.Validation("built-in network %q cannot be removed", id)
	}
	if r.settings.Current == id {
		return errs.Validation("cannot remove the current network")
	}

	prev := slices.Clone(r.settings.Networks)
	r.settings.Networks = slices.Delete(r.settings.Networks, i, i+1)
	if err := r.persist(ctx); err != nil {
		r.settings.Networks = prev
		return err
	}
	r.dropEndpoint(id)
	r.logger.Info("removed custom network", "network", id)
	return nil
}

// SetEnabled enables or disables a network. The current network cannot be
// disabled.
func (r *Registry) SetEnabled(ctx context.Context, id string, enabled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.index(id)
	if i < 0 {
		return errs.NotFound("network %q not found", id)
	}
	if !enabled && r.settings.Current == id {
		return errs.Validation("cannot disable the current network")
	}

	prev := r.settings.Networks[i].IsEnabled
	r.settings.Networks[i].IsEnabled = enabled
	if err := r.persist(ctx); err != nil {
		r.settings.Networks[i].IsEnabled = prev
		return err
	}
	return nil
}

// TestConnection probes the network with eth_blockNumber. It never returns
// an error; an unknown network or failed probe is false.
func (r *Registry) TestConnection(ctx context.Context, id string) bool {
	conn, err := r.Conn(id)
	if err != nil {
		return false
	}
	_, err = conn.blockNumberOnce(ctx)
	if err != nil {
		r.logger.Debug("connection test failed", "network", id, "error", err)
		return false
	}
	return true
}

// Close releases every cached RPC client.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id := range r.endpoints {
		r.dropEndpoint(id)
	}
}

// dropEndpoint closes and forgets the cached client. Caller holds mu.
func (r *Registry) dropEndpoint(id string) {
	if ep, ok := r.endpoints[id]; ok {
		ep.client.Close()
		delete(r.endpoints, id)
	}
}

// endpointFor returns the cached endpoint for n, creating it on first use.
func (r *Registry) endpointFor(n model.Network) (*endpoint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ep, ok := r.endpoints[n.ID]; ok && ep.url == n.RPCURL {
		return ep, nil
	}
	r.dropEndpoint(n.ID)

	c, err := client.NewEthClient(context.Background(), n.RPCURL, r.opts.Timeout)
	if err != nil {
		return nil, err
	}
	burst := max(1, int(r.opts.RateLimit))
	ep := &endpoint{
		url:     n.RPCURL,
		client:  c,
		limiter: rate.NewLimiter(rate.Limit(r.opts.RateLimit), burst),
	}
	r.endpoints[n.ID] = ep
	return ep, nil
}

func validateDescriptor(n model.Network) error {
	if n.ID == "" {
		return errs.Validation("network id is required")
	}
	if n.Name == "" {
		return errs.Validation("network name is required")
	}
	if n.Symbol == "" {
		return errs.Validation("network symbol is required")
	}
	if n.ChainID <= 0 {
		return errs.Validation("chain id must be positive")
	}
	u, err := url.Parse(n.RPCURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errs.Validation("rpc url must be an http(s) URL")
	}
	if n.ExplorerURL != "" {
		if u, err := url.Parse(n.ExplorerURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return errs.Validation("explorer url must be an http(s) URL")
		}
	}
	return nil
}
