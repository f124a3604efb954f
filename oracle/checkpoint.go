package oracle

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	deep "github.com/patrikeh/go-deep"
)

// BestName is the incumbent checkpoint file, kept separate from candidate
// snapshots so arena comparisons always have a stable reference.
const BestName = "best.json"

// checkpointFile is the JSON layout on disk: topology plus raw weight dumps
// for both heads.
type checkpointFile struct {
	Config    Config     `json:"config"`
	Iteration int        `json:"iteration"`
	Policy    *deep.Dump `json:"policy"`
	Value     *deep.Dump `json:"value"`
}

// BestPath returns the incumbent checkpoint path under dir.
func BestPath(dir string) string { return filepath.Join(dir, BestName) }

// CandidatePath returns the snapshot path for a training iteration.
func CandidatePath(dir string, iteration int) string {
	return filepath.Join(dir, fmt.Sprintf("iter_%04d.json", iteration))
}

// Save writes the network to path atomically (tmp file plus rename).
func (n *Network) Save(path string) error {
	n.mu.Lock()
	file := checkpointFile{
		Config:    n.cfg,
		Iteration: n.Iteration,
		Policy:    n.policy.Dump(),
		Value:     n.value.Dump(),
	}
	n.mu.Unlock()

	data, err := json.Marshal(file)
	if err != nil {
		return fmt.Errorf("marshal checkpoint: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create checkpoint dir: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write checkpoint: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename checkpoint: %w", err)
	}
	return nil
}

// Load restores a network from a checkpoint file.
func Load(path string) (*Network, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read checkpoint: %w", err)
	}

	var file checkpointFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("malformed checkpoint %s: %w", path, err)
	}
	if file.Policy == nil || file.Value == nil || file.Config.BoardSize == 0 {
		return nil, fmt.Errorf("malformed checkpoint %s: missing fields", path)
	}

	return &Network{
		cfg:       file.Config,
		policy:    deep.FromDump(file.Policy),
		value:     deep.FromDump(file.Value),
		Iteration: file.Iteration,
	}, nil
}
