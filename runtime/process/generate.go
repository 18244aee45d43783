package process

import (
	"fmt"
	"math/rand/v2"
	"sort"
)

// Generate creates n records with ids 1..n, a shuffled priority permutation of
// 1..n and attributes drawn from cfg.
func Generate(n int, cfg Config, rng *rand.Rand) ([]*Record, error) {
	if n <= 0 {
		return nil, fmt.Errorf("process count %d: %w", n, ErrInvalidConfiguration)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	priorities := make([]int, n)
	for i := range priorities {
		priorities[i] = i + 1
	}
	rng.Shuffle(n, func(i, j int) {
		priorities[i], priorities[j] = priorities[j], priorities[i]
	})

	records := make([]*Record, 0, n)
	for i := 0; i < n; i++ {
		record := NewRecord(i+1, priorities[i], cfg.EstimatedTime.Draw(rng), cfg.Cycles.Draw(rng))
		record.CycleHint = cfg.CycleHint.Draw(rng)
		record.Core = cfg.Core.Draw(rng)
		record.Thread = cfg.Thread.Draw(rng)
		record.Memory = cfg.Memory.Draw(rng)
		records = append(records, record)
	}
	if err := ValidatePriorities(records); err != nil {
		return nil, err
	}
	return records, nil
}

// ValidatePriorities asserts the record priorities form a permutation of 1..len(records).
func ValidatePriorities(records []*Record) error {
	seen := make(map[int]int, len(records))
	for _, record := range records {
		if record.Priority < 1 || record.Priority > len(records) {
			return fmt.Errorf("process %d: priority %d outside 1..%d: %w", record.ID, record.Priority, len(records), ErrDuplicatePriority)
		}
		if other, ok := seen[record.Priority]; ok {
			return fmt.Errorf("processes %d and %d share priority %d: %w", other, record.ID, record.Priority, ErrDuplicatePriority)
		}
		seen[record.Priority] = record.ID
	}
	return nil
}

// SortByPriority orders records by ascending priority value.
func SortByPriority(records []*Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Priority < records[j].Priority
	})
}

// Snapshots returns read-only copies of records, preserving order.
func Snapshots(records []*Record) []Snapshot {
	ret := make([]Snapshot, 0, len(records))
	for _, record := range records {
		ret = append(ret, record.Snapshot())
	}
	return ret
}
