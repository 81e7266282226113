package config

import (
	"encoding/json"
	"os"
	"testing"
)

func TestValidateAndAddDefaults(t *testing.T) {
	// Missing data source DNS
	cnf := Configuration{
		ProjectName: "",
		DataSource: DataSourceConfig{
			Dns: "",
		},
		Redis: RedisConfig{
			Dns: "localhost:6379",
		},
		WalletGateway: WalletGatewayConfig{
			Url: "http://localhost:7000",
		},
	}

	err := cnf.validateAndAddDefaults()
	if err == nil || err.Error() != "data source DNS is required" {
		t.Errorf("Expected data source DNS required error, got %v", err)
	}

	// Missing redis DNS
	cnf = Configuration{
		DataSource: DataSourceConfig{
			Dns: "postgres://localhost:5432",
		},
		Redis: RedisConfig{
			Dns: "",
		},
		WalletGateway: WalletGatewayConfig{
			Url: "http://localhost:7000",
		},
	}

	err = cnf.validateAndAddDefaults()
	if err == nil || err.Error() != "redis DNS is required" {
		t.Errorf("Expected redis DNS required error, got %v", err)
	}

	// Missing wallet gateway URL
	cnf = Configuration{
		DataSource: DataSourceConfig{
			Dns: "postgres://localhost:5432",
		},
		Redis: RedisConfig{
			Dns: "localhost:6379",
		},
	}

	err = cnf.validateAndAddDefaults()
	if err == nil || err.Error() != "wallet gateway URL is required" {
		t.Errorf("Expected wallet gateway URL required error, got %v", err)
	}

	// All required fields filled, expect no error and defaults applied
	cnf = Configuration{
		ProjectName: "Test Project",
		DataSource: DataSourceConfig{
			Dns: "some-dns",
		},
		Redis: RedisConfig{
			Dns: "localhost:6379",
		},
		WalletGateway: WalletGatewayConfig{
			Url: "http://localhost:7000",
		},
	}

	err = cnf.validateAndAddDefaults()
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if cnf.Server.Port != DEFAULT_PORT {
		t.Errorf("Expected default port %s, got %s", DEFAULT_PORT, cnf.Server.Port)
	}
	if cnf.Chain.DefaultToken != DEFAULT_TOKEN {
		t.Errorf("Expected default token %s, got %s", DEFAULT_TOKEN, cnf.Chain.DefaultToken)
	}
	if cnf.Chain.ExplorerUrl != DEFAULT_EXPLORER_URL {
		t.Errorf("Expected default explorer URL %s, got %s", DEFAULT_EXPLORER_URL, cnf.Chain.ExplorerUrl)
	}
	if len(cnf.Chain.Tokens) != 4 {
		t.Errorf("Expected default token registry with 4 tokens, got %d", len(cnf.Chain.Tokens))
	}
	if cnf.WalletGateway.Timeout != 60 {
		t.Errorf("Expected default gateway timeout 60, got %d", cnf.WalletGateway.Timeout)
	}
}

func TestTokenDecimals(t *testing.T) {
	cnf := Configuration{
		Chain: ChainConfig{
			Tokens: map[string]TokenConfig{
				"0x20c0000000000000000000000000000000000001": {Symbol: "AlphaUSD", Decimals: 6},
				"0x20c0000000000000000000000000000000000009": {Symbol: "OddUSD", Decimals: 18},
			},
		},
	}

	if got := cnf.TokenDecimals("0x20c0000000000000000000000000000000000009"); got != 18 {
		t.Errorf("Expected 18 decimals from registry, got %d", got)
	}
	if got := cnf.TokenDecimals("0x20C0000000000000000000000000000000000009"); got != 18 {
		t.Errorf("Expected case-insensitive registry lookup to return 18, got %d", got)
	}
	if got := cnf.TokenDecimals("0xdeadbeef00000000000000000000000000000000"); got != 6 {
		t.Errorf("Expected fallback of 6 decimals for unknown token, got %d", got)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	// Create a temporary file
	tmpFile, err := os.CreateTemp("", "payroll.json")
	if err != nil {
		t.Fatalf("Unable to create temporary file: %v", err)
	}
	defer os.Remove(tmpFile.Name()) // Clean up after the test

	// Sample configuration to write to the temp file
	sampleConfig := Configuration{
		ProjectName: "Temp Project",
		DataSource: DataSourceConfig{
			Dns: "temp-dns",
		},
		Redis: RedisConfig{
			Dns: "localhost:6379",
		},
		WalletGateway: WalletGatewayConfig{
			Url: "http://localhost:7000",
		},
	}

	if err := json.NewEncoder(tmpFile).Encode(sampleConfig); err != nil {
		t.Fatalf("Unable to write sample config: %v", err)
	}
	if err := tmpFile.Close(); err != nil {
		t.Fatalf("Unable to close temp file: %v", err)
	}

	if err := loadConfigFromFile(tmpFile.Name()); err != nil {
		t.Fatalf("loadConfigFromFile returned error: %v", err)
	}

	cnf, err := Fetch()
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if cnf.ProjectName != "Temp Project" {
		t.Errorf("Expected project name 'Temp Project', got %q", cnf.ProjectName)
	}
	if cnf.Server.Port != DEFAULT_PORT {
		t.Errorf("Expected default port after load, got %q", cnf.Server.Port)
	}
}
