package core

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeTally(t *testing.T) {
	dst := map[string]int{"a + b": 1}
	mergeTally(dst, map[string]int{"a + b": 2, "b + c": 1})
	assert.Equal(t, map[string]int{"a + b": 3, "b + c": 1}, dst)
}

func TestShardedTallyMatchesSequential(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 5))
	records := randomBaskets(rng, 40)

	sequential := newTestEngine(t, func(o *Options) { o.Threshold = 0.01 })
	normalized, err := Normalize(records)
	require.NoError(t, err)
	baskets := sequential.Group(normalized)

	want := make(map[string]int)
	for _, k := range sequential.EnumerateCombinations(baskets) {
		want[k]++
	}

	for _, workers := range []int{2, 3, 8, 64} {
		sharded := newTestEngine(t, func(o *Options) {
			o.Threshold = 0.01
			o.Workers = workers
		})
		assert.Equal(t, want, sharded.shardedTally(baskets), "workers=%d", workers)

		seqResult, err := sequential.Run(records)
		require.NoError(t, err)
		shardedResult, err := sharded.Run(records)
		require.NoError(t, err)
		assert.Equal(t, seqResult, shardedResult, "workers=%d", workers)
	}
}
