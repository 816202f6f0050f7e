// Package schema has the records, results and constants shared by all parts of basket.
package schema

// Basket is the group of records sharing one resolved basket key.
// Records without a resolvable key land in a single basket with Unkeyed set.
type Basket struct {
	Key     string
	Unkeyed bool
	Records []Record
}

// FrequencyStat describes how often one combination occurred across baskets.
type FrequencyStat struct {
	Combination string  `json:"combination"`
	Count       int     `json:"count"`
	Frequency   float64 `json:"frequency"`
	Percentage  string  `json:"percentage"` // frequency*100 with one decimal, no percent sign
}

// ItemStat is the total number of occurrences of one item across all records.
type ItemStat struct {
	Item  string `json:"item"`
	Count int    `json:"count"`
}

// AnalysisResult is the outcome of one analysis run. It is built once and never mutated.
type AnalysisResult struct {
	TotalRecords                int             `json:"totalRecords"`
	UniqueItems                 int             `json:"uniqueItems"`
	AnalyzedBaskets             int             `json:"analyzedBaskets"`
	Combinations                []FrequencyStat `json:"combinations"`
	ItemStats                   []ItemStat      `json:"itemStats"`
	SignificantCombinationCount int             `json:"significantCombinationCount"`
}
