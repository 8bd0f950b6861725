// Package config loads sale tooling settings from the environment, a .env
// file and an optional YAML overlay.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"solana-token-sale/internal/instruction"
	"solana-token-sale/internal/solana"
)

// Environment variable names.
const (
	EnvProgramID          = "CUSTOM_PROGRAM_ID"
	EnvSellerPubkey       = "SELLER_PUBLIC_KEY"
	EnvBuyerPubkey        = "BUYER_PUBLIC_KEY"
	EnvTokenMint          = "TOKEN_PUBKEY"
	EnvTokenDecimals      = "TOKEN_DECIMAL"
	EnvRPCURL             = "RPCURL"
	EnvWSURL              = "WSURL"
	EnvSalePrice          = "TOKEN_SALE_PRICE"
	EnvMinBuy             = "TOKEN_MIN_BUY"
	EnvSellerTokenAccount = "SELLER_TOKEN_ACCOUNT_PUBKEY"
	EnvTempTokenAccount   = "TEMP_TOKEN_ACCOUNT_PUBKEY"
	EnvSaleAccount        = "TOKEN_SALE_PROGRAM_ACCOUNT_PUBKEY"
	EnvPostgresDSN        = "POSTGRES_DSN"
	EnvClickhouseDSN      = "CLICKHOUSE_DSN"
)

// ErrInvalidConfig is returned by Validate and the typed accessors.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds the sale tooling settings. Values are kept as written in the
// environment; typed accessors parse them on use.
type Config struct {
	ProgramID          string `yaml:"program_id"`
	SellerPubkey       string `yaml:"seller_public_key"`
	BuyerPubkey        string `yaml:"buyer_public_key"`
	TokenMint          string `yaml:"token_pubkey"`
	TokenDecimals      string `yaml:"token_decimal"`
	RPCURL             string `yaml:"rpc_url"`
	WSURL              string `yaml:"ws_url"`
	SalePrice          string `yaml:"token_sale_price"` // SOL per token, decimal
	MinBuy             string `yaml:"token_min_buy"`    // token units
	SellerTokenAccount string `yaml:"seller_token_account_pubkey"`
	TempTokenAccount   string `yaml:"temp_token_account_pubkey"`
	SaleAccount        string `yaml:"token_sale_program_account_pubkey"`
	PostgresDSN        string `yaml:"postgres_dsn"`
	ClickhouseDSN      string `yaml:"clickhouse_dsn"`

	// supplied records variables set by the environment, a YAML file or Set,
	// as opposed to defaults.
	supplied map[string]bool
}

type envVar struct {
	name   string
	field  func(*Config) *string
	pubkey bool
}

// envVars lists every variable in .env order.
var envVars = []envVar{
	{EnvProgramID, func(c *Config) *string { return &c.ProgramID }, true},
	{EnvSellerPubkey, func(c *Config) *string { return &c.SellerPubkey }, true},
	{EnvBuyerPubkey, func(c *Config) *string { return &c.BuyerPubkey }, true},
	{EnvTokenMint, func(c *Config) *string { return &c.TokenMint }, true},
	{EnvTokenDecimals, func(c *Config) *string { return &c.TokenDecimals }, false},
	{EnvRPCURL, func(c *Config) *string { return &c.RPCURL }, false},
	{EnvWSURL, func(c *Config) *string { return &c.WSURL }, false},
	{EnvSalePrice, func(c *Config) *string { return &c.SalePrice }, false},
	{EnvMinBuy, func(c *Config) *string { return &c.MinBuy }, false},
	{EnvSellerTokenAccount, func(c *Config) *string { return &c.SellerTokenAccount }, true},
	{EnvTempTokenAccount, func(c *Config) *string { return &c.TempTokenAccount }, true},
	{EnvSaleAccount, func(c *Config) *string { return &c.SaleAccount }, true},
	{EnvPostgresDSN, func(c *Config) *string { return &c.PostgresDSN }, false},
	{EnvClickhouseDSN, func(c *Config) *string { return &c.ClickhouseDSN }, false},
}

func lookupVar(name string) (envVar, bool) {
	for _, v := range envVars {
		if v.name == name {
			return v, true
		}
	}
	return envVar{}, false
}

// Default returns a config pointing at devnet.
func Default() *Config {
	return &Config{
		RPCURL:        "https://api.devnet.solana.com",
		WSURL:         "wss://api.devnet.solana.com",
		TokenDecimals: "9",
	}
}

// FromEnv returns Default overridden by the process environment.
func FromEnv() *Config {
	cfg := Default()
	cfg.applyEnv(os.LookupEnv)
	return cfg
}

// Load reads the YAML file at path (if not empty) on top of Default, then
// applies the process environment. Environment values win.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv(os.LookupEnv)
	return cfg, nil
}

// LoadFile overlays the YAML file at path. Keys absent or empty in the file
// keep their value.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse config YAML: %w", err)
	}
	for _, v := range envVars {
		if val := *v.field(&file); val != "" {
			c.assign(v, val)
		}
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	for _, v := range envVars {
		if val, ok := lookup(v.name); ok && val != "" {
			c.assign(v, strings.TrimSpace(val))
		}
	}
}

func (c *Config) assign(v envVar, val string) {
	*v.field(c) = val
	if c.supplied == nil {
		c.supplied = make(map[string]bool)
	}
	c.supplied[v.name] = true
}

// Supplied reports whether the named variable came from the environment, a
// YAML file or Set rather than from Default.
func (c *Config) Supplied(name string) bool {
	return c.supplied[name]
}

// Get returns the value of an environment variable name.
func (c *Config) Get(name string) (string, bool) {
	v, ok := lookupVar(name)
	if !ok {
		return "", false
	}
	return *v.field(c), true
}

// Set assigns the value of an environment variable name.
func (c *Config) Set(name, value string) error {
	v, ok := lookupVar(name)
	if !ok {
		return fmt.Errorf("%w: unknown variable %s", ErrInvalidConfig, name)
	}
	c.assign(v, value)
	return nil
}

// PublicKey parses the key held by the named variable.
func (c *Config) PublicKey(name string) (solana.PublicKey, error) {
	v, ok := lookupVar(name)
	if !ok || !v.pubkey {
		return solana.PublicKey{}, fmt.Errorf("%w: %s is not a public key variable", ErrInvalidConfig, name)
	}
	raw := *v.field(c)
	if raw == "" {
		return solana.PublicKey{}, fmt.Errorf("%w: %s is not set", ErrInvalidConfig, name)
	}
	pk, err := solana.ParsePublicKey(raw)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, name, err)
	}
	return pk, nil
}

// Decimals returns the token mint decimals.
func (c *Config) Decimals() (uint8, error) {
	d, err := strconv.ParseUint(c.TokenDecimals, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q", ErrInvalidConfig, EnvTokenDecimals, c.TokenDecimals)
	}
	return uint8(d), nil
}

// PriceLamports returns the sale price per token in lamports.
func (c *Config) PriceLamports() (uint64, error) {
	v, err := instruction.LamportsFromSOL(c.SalePrice)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, EnvSalePrice, err)
	}
	return v, nil
}

// MinBuyAmount returns the minimum purchasable amount.
func (c *Config) MinBuyAmount() (uint64, error) {
	if c.MinBuy == "" {
		return 0, nil
	}
	v, err := instruction.ParseAmount(c.MinBuy)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, EnvMinBuy, err)
	}
	return v, nil
}

// Validate checks that every variable in required is set and that every set
// value parses.
func (c *Config) Validate(required ...string) error {
	var problems []string

	for _, name := range required {
		if val, ok := c.Get(name); !ok || val == "" {
			problems = append(problems, fmt.Sprintf("%s is required", name))
		}
	}

	for _, v := range envVars {
		if !v.pubkey || *v.field(c) == "" {
			continue
		}
		if _, err := solana.ParsePublicKey(*v.field(c)); err != nil {
			problems = append(problems, fmt.Sprintf("%s: invalid public key %q", v.name, *v.field(c)))
		}
	}
	if c.TokenDecimals != "" {
		if _, err := c.Decimals(); err != nil {
			problems = append(problems, fmt.Sprintf("%s must be 0-255", EnvTokenDecimals))
		}
	}
	if c.SalePrice != "" {
		if _, err := c.PriceLamports(); err != nil {
			problems = append(problems, fmt.Sprintf("%s: invalid SOL amount %q", EnvSalePrice, c.SalePrice))
		}
	}
	if _, err := c.MinBuyAmount(); err != nil {
		problems = append(problems, fmt.Sprintf("%s: invalid amount %q", EnvMinBuy, c.MinBuy))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w:\n  - %s", ErrInvalidConfig, strings.Join(problems, "\n  - "))
	}
	return nil
}

// String returns a sanitized representation with DSN passwords masked.
func (c *Config) String() string {
	parts := make([]string, 0, len(envVars))
	for _, v := range envVars {
		val := *v.field(c)
		if val == "" {
			continue
		}
		if v.name == EnvPostgresDSN || v.name == EnvClickhouseDSN {
			val = maskDSN(val)
		}
		parts = append(parts, v.name+"="+val)
	}
	return "Config{" + strings.Join(parts, ", ") + "}"
}

func maskDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil || u.User == nil {
		return dsn
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "****")
	}
	return u.String()
}
