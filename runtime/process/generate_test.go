package process

import (
	"math/rand/v2"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	testCases := []struct {
		description string
		count       int
		config      Config
		expectErr   error
	}{
		{description: "single process", count: 1, config: DefaultConfig()},
		{description: "default count", count: 3, config: DefaultConfig()},
		{description: "large run", count: 64, config: DefaultConfig()},
		{description: "zero processes", count: 0, config: DefaultConfig(), expectErr: ErrInvalidConfiguration},
		{description: "negative processes", count: -2, config: DefaultConfig(), expectErr: ErrInvalidConfiguration},
		{
			description: "inverted cycle range",
			count:       2,
			config: func() Config {
				cfg := DefaultConfig()
				cfg.Cycles = IntRange{Min: 30, Max: 20}
				return cfg
			}(),
			expectErr: ErrInvalidConfiguration,
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			rng := rand.New(rand.NewPCG(7, uint64(testCase.count+100)))
			records, err := Generate(testCase.count, testCase.config, rng)
			if testCase.expectErr != nil {
				assert.ErrorIs(t, err, testCase.expectErr)
				assert.Nil(t, records)
				return
			}
			require.NoError(t, err)
			require.Len(t, records, testCase.count)

			priorities := make([]int, 0, len(records))
			for i, record := range records {
				assert.Equal(t, i+1, record.ID)
				assert.Equal(t, StateNew, record.GetState())
				assert.Zero(t, record.CyclesCompleted)
				assert.Zero(t, record.ActualTime)
				assert.GreaterOrEqual(t, record.NumCycles, 20)
				assert.LessOrEqual(t, record.NumCycles, 30)
				assert.GreaterOrEqual(t, record.EstimatedTime, 1.0)
				assert.LessOrEqual(t, record.EstimatedTime, 5.0)
				assert.GreaterOrEqual(t, record.Core, 1)
				assert.LessOrEqual(t, record.Core, 4)
				assert.GreaterOrEqual(t, record.Thread, 1)
				assert.LessOrEqual(t, record.Thread, 8)
				assert.GreaterOrEqual(t, record.Memory, 100)
				assert.LessOrEqual(t, record.Memory, 1000)
				assert.GreaterOrEqual(t, record.CycleHint, 1)
				assert.LessOrEqual(t, record.CycleHint, 10)
				priorities = append(priorities, record.Priority)
			}
			sort.Ints(priorities)
			for i, priority := range priorities {
				assert.Equal(t, i+1, priority)
			}
		})
	}
}

func TestValidatePriorities(t *testing.T) {
	testCases := []struct {
		description string
		priorities  []int
		expectErr   bool
	}{
		{description: "permutation", priorities: []int{2, 3, 1}},
		{description: "duplicate", priorities: []int{1, 1, 3}, expectErr: true},
		{description: "out of range", priorities: []int{1, 2, 4}, expectErr: true},
		{description: "zero", priorities: []int{0, 1}, expectErr: true},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			var records []*Record
			for i, priority := range testCase.priorities {
				records = append(records, NewRecord(i+1, priority, 1, 20))
			}
			err := ValidatePriorities(records)
			if testCase.expectErr {
				assert.ErrorIs(t, err, ErrDuplicatePriority)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestSortByPriority(t *testing.T) {
	records := []*Record{
		NewRecord(1, 2, 1, 20),
		NewRecord(2, 3, 1, 20),
		NewRecord(3, 1, 1, 20),
	}
	SortByPriority(records)
	var ids []int
	for _, record := range records {
		ids = append(ids, record.ID)
	}
	assert.Equal(t, []int{3, 1, 2}, ids)
}

func TestIntRange_Draw(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	r := IntRange{Min: 20, Max: 30}
	seen := map[int]bool{}
	for i := 0; i < 2000; i++ {
		v := r.Draw(rng)
		assert.GreaterOrEqual(t, v, 20)
		assert.LessOrEqual(t, v, 30)
		seen[v] = true
	}
	assert.Len(t, seen, 11)
}
