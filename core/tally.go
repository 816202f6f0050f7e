package core

import (
	"sync"

	"github.com/huangsam/basket/schema"
)

// shardedTally counts combination keys with a pool of e.opts.Workers goroutines.
// Each worker keeps a private tally of the baskets it receives; the partial
// tallies are summed at the end, which gives the same counts as a single pass.
func (e *Engine) shardedTally(baskets []schema.Basket) map[string]int {
	basketCh := make(chan schema.Basket, len(baskets))
	partialCh := make(chan map[string]int, e.opts.Workers)
	var wg sync.WaitGroup

	for range e.opts.Workers {
		wg.Go(func() {
			partial := make(map[string]int)
			for b := range basketCh {
				for _, key := range e.basketPairs(b) {
					partial[key]++
				}
			}
			partialCh <- partial
		})
	}

	for _, b := range baskets {
		basketCh <- b
	}
	close(basketCh)

	wg.Wait()
	close(partialCh)

	merged := make(map[string]int)
	for partial := range partialCh {
		mergeTally(merged, partial)
	}
	return merged
}

// mergeTally adds src into dst.
func mergeTally(dst, src map[string]int) {
	for k, v := range src {
		dst[k] += v
	}
}
