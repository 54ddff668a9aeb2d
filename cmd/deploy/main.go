package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"unistay/internal/chain"
	"unistay/internal/config"
)

type deployResult struct {
	Address string          `json:"address"`
	ABI     json.RawMessage `json:"abi"`
}

func main() {
	configPath := flag.String("config", "chain.toml", "path to the chain configuration file")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, using environment variables")
	}

	cfg, err := config.LoadChainConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load chain config: %v", err)
	}
	if cfg.Deploy.ContractSource == "" {
		log.Fatal("deploy.contract_source must be set in the chain config")
	}
	if cfg.Chain.SignerAddr == "" {
		log.Fatal("chain.signer_addr must be set in the chain config")
	}

	source, err := os.ReadFile(cfg.Deploy.ContractSource)
	if err != nil {
		log.Fatalf("Failed to read contract source: %v", err)
	}

	client := chain.NewNodeClient(cfg.Chain.NodeURL)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	log.Printf("Deploying %s to %s via %s", cfg.Deploy.ContractSource, cfg.Deploy.Network, cfg.Chain.NodeURL)

	var result deployResult
	if err := client.Call(ctx, "contract_deploy", []any{string(source), cfg.Chain.SignerAddr}, &result); err != nil {
		log.Fatalf("Deployment failed: %v", err)
	}
	if result.Address == "" {
		log.Fatal("Deployment returned an empty contract address")
	}

	artifact := &chain.Artifact{
		Address:    result.Address,
		ABI:        result.ABI,
		Network:    cfg.Deploy.Network,
		DeployedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := chain.WriteArtifact(cfg.Chain.ArtifactPath, artifact); err != nil {
		log.Fatalf("Failed to write artifact: %v", err)
	}

	log.Printf("Contract deployed at %s, artifact written to %s", result.Address, cfg.Chain.ArtifactPath)
}
