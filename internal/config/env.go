package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"golang.org/x/term"
)

// Config contains all configuration parameters for the application.
// Note: the master password is prompted at runtime and kept in memory - use PasswordBytes()
type Config struct {
	Port         string `envconfig:"PORT" default:"8080"`
	DBPath       string `envconfig:"DB_PATH" default:"./data/wallet.db"`
	NetworksFile string `envconfig:"NETWORKS_FILE"`

	RPCTimeout   time.Duration `envconfig:"RPC_TIMEOUT" default:"15s"`
	RPCRetries   int           `envconfig:"RPC_RETRIES" default:"3"`
	RPCRateLimit float64       `envconfig:"RPC_RATE_LIMIT" default:"10"` // requests per second per network

	MonitorInterval time.Duration `envconfig:"MONITOR_INTERVAL" default:"10s"`
	MonitorTimeout  time.Duration `envconfig:"MONITOR_TIMEOUT" default:"5m"`

	SessionTimeout   time.Duration `envconfig:"SESSION_TIMEOUT" default:"1h"`
	IdleTimeout      time.Duration `envconfig:"IDLE_TIMEOUT" default:"15m"`
	MaxAuthAttempts  int           `envconfig:"MAX_AUTH_ATTEMPTS" default:"5"`
	LockoutDuration  time.Duration `envconfig:"LOCKOUT_DURATION" default:"5m"`
	PBKDF2Iterations int           `envconfig:"PBKDF2_ITERATIONS" default:"210000"`

	PriceAPIURL string `envconfig:"PRICE_API_URL" default:"https://api.coingecko.com/api/v3"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`
}

// cfg is the global configuration instance
var cfg *Config

// Init loads configuration from environment variables.
func Init() error {
	c, err := Load()
	if err != nil {
		return err
	}
	cfg = c
	return nil
}

// Load reads and validates configuration from environment variables without
// touching the global instance.
func Load() (*Config, error) {
	c := &Config{}
	if err := envconfig.Process("", c); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return c, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	switch {
	case c.RPCTimeout <= 0:
		return errors.New("RPC_TIMEOUT must be positive")
	case c.RPCRetries < 0:
		return errors.New("RPC_RETRIES must not be negative")
	case c.RPCRateLimit <= 0:
		return errors.New("RPC_RATE_LIMIT must be positive")
	case c.MonitorInterval <= 0 || c.MonitorTimeout < c.MonitorInterval:
		return errors.New("MONITOR_TIMEOUT must be at least MONITOR_INTERVAL, both positive")
	case c.SessionTimeout <= 0 || c.IdleTimeout <= 0:
		return errors.New("SESSION_TIMEOUT and IDLE_TIMEOUT must be positive")
	case c.MaxAuthAttempts < 1:
		return errors.New("MAX_AUTH_ATTEMPTS must be at least 1")
	case c.LockoutDuration <= 0:
		return errors.New("LOCKOUT_DURATION must be positive")
	}

	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.LogFormat)
	}
	return nil
}

// Get returns the global configuration instance.
// Panics if Init() was not called.
func Get() *Config {
	if cfg == nil {
		panic("config not initialized, call Init() first")
	}
	return cfg
}

// GetPort returns port from configuration
func GetPort() string {
	return Get().Port
}

var passwordBytes []byte

// PromptForPassword prompts the user for the master password in the terminal.
// The password is read without echoing (hidden input) and stored in memory.
// Call this at startup before the server begins handling requests.
func PromptForPassword() error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("stdin is not a terminal: run the app interactively to enter password")
	}
	fmt.Fprint(os.Stderr, "Enter master password: ")
	defer fmt.Fprintln(os.Stderr)

	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	if len(raw) == 0 {
		return errors.New("password cannot be empty")
	}

	passwordBytes = make([]byte, len(raw))
	copy(passwordBytes, raw)
	clear(raw)
	return nil
}

// PasswordBytes returns the password stored in memory (from PromptForPassword).
// Returns an error if the password was not set.
// Caller must zero the returned slice after use for security.
func PasswordBytes() ([]byte, error) {
	if len(passwordBytes) == 0 {
		return nil, errors.New("password not set: call PromptForPassword at startup")
	}
	out := make([]byte, len(passwordBytes))
	copy(out, passwordBytes)
	return out, nil
}

// ClearPassword wipes the stored password.
func ClearPassword() {
	clear(passwordBytes)
	passwordBytes = nil
}
