package chain

import (
	"encoding/json"
	"fmt"
	"os"
)

// Artifact is the deployment artifact written by cmd/deploy and consumed at
// startup. A missing file or empty address means no contract is deployed and
// the service runs in demo mode.
type Artifact struct {
	Address    string          `json:"address"`
	ABI        json.RawMessage `json:"abi"`
	Network    string          `json:"network,omitempty"`
	DeployedAt string          `json:"deployed_at,omitempty"`
}

// LoadArtifact reads an artifact file. A missing file is not an error: it
// returns (nil, nil) so callers can fall back to demo mode.
func LoadArtifact(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read contract artifact: %w", err)
	}

	var artifact Artifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("failed to parse contract artifact: %w", err)
	}
	return &artifact, nil
}

// WriteArtifact persists a deployment artifact for later startups.
func WriteArtifact(path string, artifact *Artifact) error {
	data, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
