/*
Copyright 2025 Stablewallet Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package config

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"strings"
	"sync/atomic"

	"github.com/kelseyhightower/envconfig"

	"github.com/sirupsen/logrus"
)

const (
	DEFAULT_PORT = "5002"

	// DEFAULT_TOKEN is the AlphaUSD testnet stablecoin. Instructions carry no
	// per-payment token field, so payouts and fees default to it.
	DEFAULT_TOKEN = "0x20c0000000000000000000000000000000000001"

	DEFAULT_EXPLORER_URL = "https://explore.tempo.xyz"
)

var ConfigStore atomic.Value

type ServerConfig struct {
	Secure    bool   `json:"secure" envconfig:"PAYROLL_SERVER_SECURE"`
	SecretKey string `json:"secret_key" envconfig:"PAYROLL_SERVER_SECRET_KEY"`
	Port      string `json:"port" envconfig:"PAYROLL_SERVER_PORT"`
}

type DataSourceConfig struct {
	Dns string `json:"dns" envconfig:"PAYROLL_DATA_SOURCE_DNS"`
}

type RedisConfig struct {
	Dns string `json:"dns" envconfig:"PAYROLL_REDIS_DNS"`
}

// WalletGatewayConfig points at the wallet service that signs and submits
// on-chain transfers. Signing, passkey prompts and RPC behaviour all live
// behind this boundary.
type WalletGatewayConfig struct {
	Url       string `json:"url" envconfig:"PAYROLL_WALLET_GATEWAY_URL"`
	SecretKey string `json:"secret_key" envconfig:"PAYROLL_WALLET_GATEWAY_SECRET_KEY"`
	Timeout   int    `json:"timeout" envconfig:"PAYROLL_WALLET_GATEWAY_TIMEOUT"`
}

// TokenConfig describes one stablecoin the engine can pay out in.
type TokenConfig struct {
	Symbol   string `json:"symbol"`
	Decimals int32  `json:"decimals"`
}

// ChainConfig holds chain-level settings: the block explorer used for
// transaction links, the default payout/fee token, the token registry with
// per-token decimals, and the flat per-transaction fee estimate used when a
// receipt carries no gas information.
type ChainConfig struct {
	ExplorerUrl     string                 `json:"explorer_url" envconfig:"PAYROLL_CHAIN_EXPLORER_URL"`
	DefaultToken    string                 `json:"default_token" envconfig:"PAYROLL_CHAIN_DEFAULT_TOKEN"`
	Tokens          map[string]TokenConfig `json:"tokens"`
	FlatFeeEstimate string                 `json:"flat_fee_estimate" envconfig:"PAYROLL_CHAIN_FLAT_FEE_ESTIMATE"`
}

type RateLimitConfig struct {
	RequestsPerSecond  *float64 `json:"requests_per_second" envconfig:"PAYROLL_RATE_LIMIT_RPS"`
	Burst              *int     `json:"burst" envconfig:"PAYROLL_RATE_LIMIT_BURST"`
	CleanupIntervalSec *int     `json:"cleanup_interval_sec" envconfig:"PAYROLL_RATE_LIMIT_CLEANUP_INTERVAL_SEC"`
}

type SlackWebhook struct {
	WebhookUrl string `json:"webhook_url"`
}

type Notification struct {
	Slack   SlackWebhook `json:"slack"`
	Webhook struct {
		Url     string            `json:"url"`
		Headers map[string]string `json:"headers"`
	} `json:"webhook"`
}

type Configuration struct {
	ProjectName   string              `json:"project_name" envconfig:"PAYROLL_PROJECT_NAME"`
	Server        ServerConfig        `json:"server"`
	DataSource    DataSourceConfig    `json:"data_source"`
	Redis         RedisConfig         `json:"redis"`
	WalletGateway WalletGatewayConfig `json:"wallet_gateway"`
	Chain         ChainConfig         `json:"chain"`
	Notification  Notification        `json:"notification"`
	RateLimit     RateLimitConfig     `json:"rate_limit"`
}

func loadConfigFromFile(file string) error {
	var cnf Configuration
	_, err := os.Stat(file)
	if err == nil {
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		err = json.NewDecoder(f).Decode(&cnf)
		if err != nil {
			return err
		}

	} else if errors.Is(err, os.ErrNotExist) {
		log.Println("config json not passed, will use env variables")
	}

	// override config from environment variables
	err = envconfig.Process("payroll", &cnf)
	if err != nil {
		return err
	}

	err = cnf.validateAndAddDefaults()
	if err != nil {
		return err
	}

	ConfigStore.Store(&cnf)
	return err
}

func InitConfig(configFile string) error {
	logger()
	return loadConfigFromFile(configFile)
}

func Fetch() (*Configuration, error) {
	config := ConfigStore.Load()
	c, ok := config.(*Configuration)
	if !ok {
		return nil, errors.New("config not loaded from file. Create a json file called payroll.json with your config ❌")
	}
	return c, nil
}

func (cnf *Configuration) validateAndAddDefaults() error {
	if cnf.ProjectName == "" {
		log.Println("Warning: Project name is empty. Setting a default name.")
		cnf.ProjectName = "Payroll Server"
	}

	if cnf.DataSource.Dns == "" {
		log.Println("Error: Data source DNS is empty. It's a required field.")
		return errors.New("data source DNS is required")
	}

	if cnf.Redis.Dns == "" {
		log.Println("Error: Redis DNS is empty. It's a required field.")
		return errors.New("redis DNS is required")
	}

	if cnf.WalletGateway.Url == "" {
		log.Println("Error: Wallet gateway URL is empty. It's a required field.")
		return errors.New("wallet gateway URL is required")
	}

	// Trim white spaces from fields
	cnf.ProjectName = strings.TrimSpace(cnf.ProjectName)
	cnf.Server.Port = strings.TrimSpace(cnf.Server.Port)
	cnf.DataSource.Dns = strings.TrimSpace(cnf.DataSource.Dns)
	cnf.Redis.Dns = strings.TrimSpace(cnf.Redis.Dns)
	cnf.WalletGateway.Url = strings.TrimSpace(cnf.WalletGateway.Url)

	// Set default value for Port if it's empty
	if cnf.Server.Port == "" {
		cnf.Server.Port = DEFAULT_PORT
		log.Printf("Warning: Port not specified in config. Setting default port: %s", DEFAULT_PORT)
	}

	if cnf.WalletGateway.Timeout == 0 {
		cnf.WalletGateway.Timeout = 60
	}

	cnf.applyChainDefaults()

	// Rate limiting is disabled by default (when both RPS and Burst are nil)
	if cnf.RateLimit.RequestsPerSecond != nil && cnf.RateLimit.Burst == nil {
		defaultBurst := 2 * int(*cnf.RateLimit.RequestsPerSecond)
		cnf.RateLimit.Burst = &defaultBurst
		log.Printf("Warning: Rate limit burst not specified. Setting default value: %d", defaultBurst)
	}
	if cnf.RateLimit.RequestsPerSecond == nil && cnf.RateLimit.Burst != nil {
		defaultRPS := float64(*cnf.RateLimit.Burst) / 2
		cnf.RateLimit.RequestsPerSecond = &defaultRPS
		log.Printf("Warning: Rate limit RPS not specified. Setting default value: %.2f", defaultRPS)
	}

	// Set default cleanup interval if not specified
	if cnf.RateLimit.CleanupIntervalSec == nil {
		defaultCleanup := 10800 // 3 hours in seconds
		cnf.RateLimit.CleanupIntervalSec = &defaultCleanup
	}

	return nil
}

func (cnf *Configuration) applyChainDefaults() {
	if cnf.Chain.ExplorerUrl == "" {
		cnf.Chain.ExplorerUrl = DEFAULT_EXPLORER_URL
	}
	if cnf.Chain.DefaultToken == "" {
		cnf.Chain.DefaultToken = DEFAULT_TOKEN
	}
	if cnf.Chain.Tokens == nil {
		cnf.Chain.Tokens = map[string]TokenConfig{
			"0x20c0000000000000000000000000000000000000": {Symbol: "pathUSD", Decimals: 6},
			"0x20c0000000000000000000000000000000000001": {Symbol: "AlphaUSD", Decimals: 6},
			"0x20c0000000000000000000000000000000000002": {Symbol: "BetaUSD", Decimals: 6},
			"0x20c0000000000000000000000000000000000003": {Symbol: "ThetaUSD", Decimals: 6},
		}
	}
	if cnf.Chain.FlatFeeEstimate == "" {
		cnf.Chain.FlatFeeEstimate = "0.001"
	}
}

// TokenDecimals returns the decimal places for a token from the registry.
// Unknown tokens fall back to 6, the testnet stablecoin default.
func (cnf *Configuration) TokenDecimals(token string) int32 {
	if t, ok := cnf.Chain.Tokens[token]; ok {
		return t.Decimals
	}
	if t, ok := cnf.Chain.Tokens[strings.ToLower(token)]; ok {
		return t.Decimals
	}
	return 6
}

// MockConfig sets a mock configuration for testing purposes.
func MockConfig(mockConfig *Configuration) {
	mockConfig.applyChainDefaults()
	ConfigStore.Store(mockConfig)
}

func logger() {
	logger := logrus.New()
	log.SetOutput(logger.Writer())
}
