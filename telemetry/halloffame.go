package telemetry

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"sort"

	"github.com/pthm-cable/genogrid/genome"
)

// HallEntry is a chromosome that scored well in some generation.
type HallEntry struct {
	Chromosome genome.Chromosome `json:"chromosome"`
	Fitness    float64           `json:"fitness"`
	Generation int               `json:"generation"`
}

// HallOfFame keeps the best distinct chromosomes seen across a run, sorted
// by descending fitness.
type HallOfFame struct {
	entries []HallEntry
	maxSize int
}

// NewHallOfFame creates an empty hall holding at most maxSize entries.
func NewHallOfFame(maxSize int) *HallOfFame {
	return &HallOfFame{
		entries: make([]HallEntry, 0, maxSize),
		maxSize: maxSize,
	}
}

// Consider offers a chromosome for entry. A chromosome already in the hall
// keeps its best fitness and earliest generation at that fitness.
// Returns true if the hall changed.
func (hof *HallOfFame) Consider(c genome.Chromosome, fitness float64, generation int) bool {
	if hof.maxSize <= 0 {
		return false
	}
	for i, e := range hof.entries {
		if !e.Chromosome.Equal(c) {
			continue
		}
		if fitness <= e.Fitness {
			return false
		}
		hof.entries = append(hof.entries[:i], hof.entries[i+1:]...)
		break
	}
	return hof.insertEntry(HallEntry{Chromosome: c, Fitness: fitness, Generation: generation})
}

// insertEntry adds an entry, maintaining sorted order by fitness.
// If the hall is full, the lowest-fitness entry is removed.
func (hof *HallOfFame) insertEntry(entry HallEntry) bool {
	hall := hof.entries
	idx := sort.Search(len(hall), func(i int) bool {
		return hall[i].Fitness < entry.Fitness
	})

	// Full and the entry would be last
	if len(hall) >= hof.maxSize && idx >= hof.maxSize {
		return false
	}

	hall = append(hall, HallEntry{})
	copy(hall[idx+1:], hall[idx:])
	hall[idx] = entry

	if len(hall) > hof.maxSize {
		hall = hall[:hof.maxSize]
	}
	hof.entries = hall
	return true
}

// Sample selects a chromosome by tournament selection with k=3.
// Returns false if the hall is empty.
func (hof *HallOfFame) Sample(rng *rand.Rand) (genome.Chromosome, bool) {
	if len(hof.entries) == 0 {
		return genome.Chromosome{}, false
	}

	const tournamentSize = 3
	best := -1
	for i := 0; i < tournamentSize; i++ {
		idx := rng.Intn(len(hof.entries))
		if best < 0 || hof.entries[idx].Fitness > hof.entries[best].Fitness {
			best = idx
		}
	}
	return hof.entries[best].Chromosome, true
}

// Best returns the top entry. Returns false if the hall is empty.
func (hof *HallOfFame) Best() (HallEntry, bool) {
	if len(hof.entries) == 0 {
		return HallEntry{}, false
	}
	return hof.entries[0], true
}

// Entries returns a copy of the hall, best first.
func (hof *HallOfFame) Entries() []HallEntry {
	return append([]HallEntry(nil), hof.entries...)
}

// Size returns the number of entries.
func (hof *HallOfFame) Size() int { return len(hof.entries) }

// MarshalJSON serializes the hall as an array, best first. Chromosomes are
// written as hex strings.
func (hof *HallOfFame) MarshalJSON() ([]byte, error) {
	return json.MarshalIndent(hof.entries, "", "  ")
}

// LoadHallOfFameFromFile reads a hall of fame JSON file. The capacity is
// the larger of maxSize and the number of entries in the file.
func LoadHallOfFameFromFile(path string, maxSize int) (*HallOfFame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading hall of fame: %w", err)
	}

	var raw []HallEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing hall of fame JSON: %w", err)
	}

	hof := NewHallOfFame(max(maxSize, len(raw)))
	for _, e := range raw {
		hof.Consider(e.Chromosome, e.Fitness, e.Generation)
	}
	return hof, nil
}
