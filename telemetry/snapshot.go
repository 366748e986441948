package telemetry

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pthm-cable/genogrid/genome"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// ErrSnapshotVersion is returned when a snapshot was written by another format version.
var ErrSnapshotVersion = errors.New("unsupported snapshot version")

// Snapshot holds a population so a run can be resumed or replayed.
type Snapshot struct {
	Version    int   `json:"version"`
	Seed       int64 `json:"seed"`
	Generation int   `json:"generation"`

	Individuals []IndividualState `json:"individuals"`
}

// IndividualState holds one individual. Fitness is from the generation the
// snapshot was taken in.
type IndividualState struct {
	Chromosome genome.Chromosome `json:"chromosome"`
	Fitness    float64           `json:"fitness"`
	Valid      bool              `json:"valid"`
}

// Chromosomes returns the population in snapshot order.
func (s *Snapshot) Chromosomes() []genome.Chromosome {
	out := make([]genome.Chromosome, len(s.Individuals))
	for i, ind := range s.Individuals {
		out[i] = ind.Chromosome
	}
	return out
}

// SaveSnapshot writes a snapshot to dir.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("snapshot_gen%05d.json", snapshot.Generation))

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if snapshot.Version != SnapshotVersion {
		return nil, fmt.Errorf("%w: %d", ErrSnapshotVersion, snapshot.Version)
	}

	return &snapshot, nil
}
