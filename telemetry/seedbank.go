package telemetry

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/heliosmc/keff/transport"
)

// seedEntry is one candidate fission-source snapshot: the bank state at
// the end of an inactive cycle, and the population that produced it.
type seedEntry struct {
	Cycle      uint64
	Population float64
	Bank       []transport.BankEntry
}

// SeedBank remembers the best-converging inactive cycle's fission bank so
// a run whose source distribution stalls can be restarted from it instead
// of from the configured initial guess. It is pure bookkeeping: nothing
// in the cycle loop reads it back automatically.
type SeedBank struct {
	capacity int
	best     []seedEntry
}

// NewSeedBank creates a seed bank retaining the top capacity cycles by
// population.
func NewSeedBank(capacity int) *SeedBank {
	if capacity < 1 {
		capacity = 1
	}
	return &SeedBank{capacity: capacity}
}

// Consider records an inactive cycle's ending bank if its population ranks
// among the best seen so far. Only call this during inactive cycles —
// active-cycle banks are already converged and not worth re-seeding from.
func (sb *SeedBank) Consider(cycle uint64, population float64, bank []transport.BankEntry) {
	if sb == nil {
		return
	}

	snapshot := make([]transport.BankEntry, len(bank))
	copy(snapshot, bank)
	entry := seedEntry{Cycle: cycle, Population: population, Bank: snapshot}

	idx := 0
	for idx < len(sb.best) && sb.best[idx].Population >= population {
		idx++
	}
	if idx >= sb.capacity {
		return
	}

	sb.best = append(sb.best, seedEntry{})
	copy(sb.best[idx+1:], sb.best[idx:])
	sb.best[idx] = entry
	if len(sb.best) > sb.capacity {
		sb.best = sb.best[:sb.capacity]
	}

	Logf(slog.LevelDebug, "seed_bank_considered", "cycle", cycle, "population", population, "rank", idx)
}

// Best returns the highest-population bank recorded, or nil if the bank is
// empty.
func (sb *SeedBank) Best() []transport.BankEntry {
	if sb == nil || len(sb.best) == 0 {
		return nil
	}
	return sb.best[0].Bank
}

type seedEntryJSON struct {
	Cycle      uint64  `json:"cycle"`
	Population float64 `json:"population"`
	BankSize   int     `json:"bank_size"`
}

// MarshalJSON serializes the seed bank's ranking (not the full particle
// state, which is large and reproducible from cycle+seed alone).
func (sb *SeedBank) MarshalJSON() ([]byte, error) {
	entries := make([]seedEntryJSON, len(sb.best))
	for i, e := range sb.best {
		entries[i] = seedEntryJSON{Cycle: e.Cycle, Population: e.Population, BankSize: len(e.Bank)}
	}
	return json.MarshalIndent(entries, "", "  ")
}

// LoadSeedBankRanking reads a previously written seed bank JSON file for
// inspection. The full particle state isn't recoverable from it; this is
// diagnostic only.
func LoadSeedBankRanking(path string) ([]seedEntryJSON, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed bank: %w", err)
	}
	var entries []seedEntryJSON
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing seed bank JSON: %w", err)
	}
	return entries, nil
}
