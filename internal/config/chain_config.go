package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// ChainConfig holds payment-chain settings loaded from a TOML file. The
// contract address itself lives in the JSON deployment artifact; this file
// only locates it and the gateway.
type ChainConfig struct {
	Chain  ChainSettings  `toml:"chain"`
	Deploy DeploySettings `toml:"deploy"`
}

// ChainSettings points at the wallet gateway and the deployment artifact.
type ChainSettings struct {
	NodeURL      string `toml:"node_url"`
	ArtifactPath string `toml:"artifact_path"`
	SignerAddr   string `toml:"signer_addr"`
}

// DeploySettings are consumed by cmd/deploy only.
type DeploySettings struct {
	ContractSource string `toml:"contract_source"`
	Network        string `toml:"network"`
}

// LoadChainConfig loads configuration from a TOML file. A missing file yields
// defaults so the server can start in demo mode with no chain configured.
func LoadChainConfig(filename string) (*ChainConfig, error) {
	config := &ChainConfig{}
	config.Chain.ArtifactPath = "contract-artifact.json"

	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return config, nil
	}
	_, err := toml.DecodeFile(filename, config)
	if err != nil {
		return nil, fmt.Errorf("failed to load chain config file: %w", err)
	}
	return config, nil
}
