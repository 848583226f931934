package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	coingeckoAPI = "https://api.coingecko.com/api/v3"

	// DefaultPriceTTL is how long a fetched rate is served from memory.
	DefaultPriceTTL = time.Minute
)

// CoinGeckoClient reads native coin prices from the CoinGecko simple price
// API. Rates are cached per coin for the TTL; the public API allows only a
// few calls per minute.
type CoinGeckoClient struct {
	baseURL string
	client  *http.Client
	ttl     time.Duration
	now     func() time.Time

	mu    sync.Mutex
	rates map[string]cachedRate
}

type cachedRate struct {
	rate      string
	fetchedAt time.Time
}

// NewCoinGeckoClient creates a new CoinGecko client. An empty baseURL uses
// the public API.
func NewCoinGeckoClient(baseURL string) *CoinGeckoClient {
	if baseURL == "" {
		baseURL = coingeckoAPI
	}
	return &CoinGeckoClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
		ttl:   DefaultPriceTTL,
		now:   time.Now,
		rates: make(map[string]cachedRate),
	}
}

// priceResponse is keyed by coin id, then by currency.
type priceResponse map[string]map[string]float64

// GetUSDPrice returns the USD price of one coin, e.g. "ethereum" or
// "binancecoin", as a decimal string with 8 fraction digits.
func (c *CoinGeckoClient) GetUSDPrice(ctx context.Context, coinID string) (string, error) {
	if rate, ok := c.cached(coinID); ok {
		return rate, nil
	}

	rate, err := c.fetch(ctx, coinID)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	c.rates[coinID] = cachedRate{rate: rate, fetchedAt: c.now()}
	c.mu.Unlock()
	return rate, nil
}

func (c *CoinGeckoClient) cached(coinID string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.rates[coinID]
	if !ok || c.now().Sub(entry.fetchedAt) >= c.ttl {
		return "", false
	}
	return entry.rate, true
}

func (c *CoinGeckoClient) fetch(ctx context.Context, coinID string) (string, error) {
	q := url.Values{}
	q.Set("ids", coinID)
	q.Set("vs_currencies", "usd")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/simple/price?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("building price request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("price request for %s: %w", coinID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("price request for %s: status %d", coinID, resp.StatusCode)
	}

	var prices priceResponse
	if err := json.NewDecoder(resp.Body).Decode(&prices); err != nil {
		return "", fmt.Errorf("decoding price of %s: %w", coinID, err)
	}

	usd, ok := prices[coinID]["usd"]
	if !ok {
		return "", fmt.Errorf("no usd price for %s", coinID)
	}
	return strconv.FormatFloat(usd, 'f', 8, 64), nil
}
