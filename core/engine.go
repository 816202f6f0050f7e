package core

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/huangsam/basket/schema"
)

// Engine defaults.
const (
	DefaultThreshold = 0.05
	DefaultTopItems  = 10
)

// Options configures an Engine.
type Options struct {
	Threshold     float64       // minimum frequency for a reported combination, in (0, 1]
	TopItems      int           // number of item stats kept (0 = DefaultTopItems)
	Workers       int           // concurrent basket shards (0 or 1 = sequential)
	DistinctPairs bool          // count each pair at most once per basket
	UnkeyedLabel  string        // key of the basket holding records without a basket key
	Resolver      FieldResolver // nil = DefaultResolver()
}

// DefaultOptions returns the options used by RunAnalysis.
func DefaultOptions() Options {
	return Options{
		Threshold:    DefaultThreshold,
		TopItems:     DefaultTopItems,
		Workers:      1,
		UnkeyedLabel: schema.DefaultUnkeyedLabel,
	}
}

// Engine groups records into baskets and computes co-occurrence statistics.
// It holds only its configuration, so one Engine may serve concurrent runs.
type Engine struct {
	opts Options
}

// NewEngine validates opts and fills in defaults.
func NewEngine(opts Options) (*Engine, error) {
	if err := ValidateThreshold(opts.Threshold); err != nil {
		return nil, err
	}
	if opts.TopItems < 0 {
		return nil, fmt.Errorf("%w (received %d)", ErrInvalidTopItems, opts.TopItems)
	}
	if opts.TopItems == 0 {
		opts.TopItems = DefaultTopItems
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.UnkeyedLabel == "" {
		opts.UnkeyedLabel = schema.DefaultUnkeyedLabel
	}
	if opts.Resolver == nil {
		opts.Resolver = DefaultResolver()
	}
	return &Engine{opts: opts}, nil
}

// ValidateThreshold checks that th lies in (0, 1].
func ValidateThreshold(th float64) error {
	if math.IsNaN(th) || th <= 0 || th > 1 {
		return fmt.Errorf("%w (received %v)", ErrInvalidThreshold, th)
	}
	return nil
}

// Options returns the effective configuration of the engine.
func (e *Engine) Options() Options {
	return e.opts
}

// RunAnalysis runs a default engine with the given threshold.
func RunAnalysis(records []schema.Record, threshold float64) (schema.AnalysisResult, error) {
	opts := DefaultOptions()
	opts.Threshold = threshold
	e, err := NewEngine(opts)
	if err != nil {
		return schema.AnalysisResult{}, err
	}
	return e.Run(records)
}

// Run normalizes raw records and assembles the full analysis result.
// It returns ErrEmptyAnalysis when nothing survives normalization.
func (e *Engine) Run(records []schema.Record) (schema.AnalysisResult, error) {
	normalized, err := Normalize(records)
	if err != nil {
		return schema.AnalysisResult{}, err
	}
	if len(normalized) == 0 {
		return schema.AnalysisResult{}, ErrEmptyAnalysis
	}

	baskets := e.Group(normalized)

	var stats []schema.FrequencyStat
	if e.opts.Workers > 1 && len(baskets) > 1 {
		stats = statsFromTally(e.shardedTally(baskets), len(baskets))
	} else {
		stats = ComputeFrequencies(e.EnumerateCombinations(baskets), len(baskets))
	}
	significant := FilterSignificant(stats, e.opts.Threshold)

	items := e.itemTally(normalized)

	return schema.AnalysisResult{
		TotalRecords:                len(normalized),
		UniqueItems:                 len(items),
		AnalyzedBaskets:             len(baskets),
		Combinations:                significant,
		ItemStats:                   rankItems(items, e.opts.TopItems),
		SignificantCombinationCount: len(significant),
	}, nil
}

// Group partitions records into baskets. Baskets appear in first-seen order and
// keep their records in input order. Records without a basket key share one
// unkeyed basket that never merges with a real basket of the same label.
func (e *Engine) Group(records []schema.Record) []schema.Basket {
	type groupKey struct {
		key     string
		unkeyed bool
	}

	index := make(map[groupKey]int)
	baskets := make([]schema.Basket, 0)
	for _, r := range records {
		key, ok := e.opts.Resolver.BasketKey(r)
		gk := groupKey{key: key, unkeyed: !ok}
		if !ok {
			gk.key = e.opts.UnkeyedLabel
		}
		i, found := index[gk]
		if !found {
			i = len(baskets)
			index[gk] = i
			baskets = append(baskets, schema.Basket{Key: gk.key, Unkeyed: gk.unkeyed})
		}
		baskets[i].Records = append(baskets[i].Records, r)
	}
	return baskets
}

// CombinationKey returns the canonical key of the unordered pair {a, b}.
func CombinationKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + schema.CombinationSeparator + b
}

// EnumerateCombinations returns one combination key per co-occurring pair.
// Pairs are taken over item positions i < j within each basket, so an item
// that appears twice in a basket forms a self-pair. The result is a multiset.
func (e *Engine) EnumerateCombinations(baskets []schema.Basket) []string {
	keys := make([]string, 0)
	for _, b := range baskets {
		keys = append(keys, e.basketPairs(b)...)
	}
	return keys
}

// basketPairs enumerates the combination keys of one basket.
func (e *Engine) basketPairs(b schema.Basket) []string {
	items := make([]string, len(b.Records))
	for i, r := range b.Records {
		items[i] = e.opts.Resolver.ItemKey(r)
	}

	var seen map[string]struct{}
	if e.opts.DistinctPairs {
		seen = make(map[string]struct{})
	}

	var keys []string
	for i := 0; i < len(items); i++ {
		for j := i + 1; j < len(items); j++ {
			key := CombinationKey(items[i], items[j])
			if seen != nil {
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = struct{}{}
			}
			keys = append(keys, key)
		}
	}
	return keys
}

// ComputeFrequencies tallies combination keys and converts the counts into
// frequencies over totalBaskets. Stats are sorted by frequency descending with
// ties broken by combination key ascending.
func ComputeFrequencies(keys []string, totalBaskets int) []schema.FrequencyStat {
	tally := make(map[string]int)
	for _, k := range keys {
		tally[k]++
	}
	return statsFromTally(tally, totalBaskets)
}

func statsFromTally(tally map[string]int, totalBaskets int) []schema.FrequencyStat {
	stats := make([]schema.FrequencyStat, 0, len(tally))
	for combination, count := range tally {
		freq := 0.0
		if totalBaskets > 0 {
			freq = float64(count) / float64(totalBaskets)
		}
		stats = append(stats, schema.FrequencyStat{
			Combination: combination,
			Count:       count,
			Frequency:   freq,
			Percentage:  FormatPercentage(freq),
		})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Frequency != stats[j].Frequency {
			return stats[i].Frequency > stats[j].Frequency
		}
		return stats[i].Combination < stats[j].Combination
	})
	return stats
}

// FormatPercentage renders a frequency as a percentage with one decimal place.
// Halves round away from zero, so 1/16 renders as "6.3".
func FormatPercentage(freq float64) string {
	return strconv.FormatFloat(math.Round(freq*1000)/10, 'f', 1, 64)
}

// FilterSignificant keeps the stats whose frequency reaches threshold.
func FilterSignificant(stats []schema.FrequencyStat, threshold float64) []schema.FrequencyStat {
	out := make([]schema.FrequencyStat, 0, len(stats))
	for _, s := range stats {
		if s.Frequency >= threshold {
			out = append(out, s)
		}
	}
	return out
}

// ComputeItemStats counts item occurrences across all records and returns the
// top items by count, ties broken by item name ascending.
func (e *Engine) ComputeItemStats(records []schema.Record) []schema.ItemStat {
	return rankItems(e.itemTally(records), e.opts.TopItems)
}

func (e *Engine) itemTally(records []schema.Record) map[string]int {
	tally := make(map[string]int)
	for _, r := range records {
		tally[e.opts.Resolver.ItemKey(r)]++
	}
	return tally
}

func rankItems(tally map[string]int, limit int) []schema.ItemStat {
	stats := make([]schema.ItemStat, 0, len(tally))
	for item, count := range tally {
		stats = append(stats, schema.ItemStat{Item: item, Count: count})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		return stats[i].Item < stats[j].Item
	})
	if limit > 0 && len(stats) > limit {
		return stats[:limit]
	}
	return stats
}
