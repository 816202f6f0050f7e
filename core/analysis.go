package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/huangsam/basket/internal/contract"
	"github.com/huangsam/basket/internal/ingest"
	"github.com/huangsam/basket/internal/outwriter"
	"github.com/huangsam/basket/schema"
)

// OptionsFromConfig builds engine options from the validated CLI configuration.
// Empty candidate lists fall back to the built-in tables.
func OptionsFromConfig(cfg *contract.Config) Options {
	resolver := DefaultResolver()
	if len(cfg.BasketFields) > 0 {
		resolver.BasketFields = append([]string(nil), cfg.BasketFields...)
	}
	if len(cfg.ItemFields) > 0 {
		resolver.ItemFields = append([]string(nil), cfg.ItemFields...)
	}
	return Options{
		Threshold:     cfg.Threshold,
		TopItems:      cfg.TopItems,
		Workers:       cfg.Workers,
		DistinctPairs: cfg.DistinctPairs,
		UnkeyedLabel:  cfg.UnkeyedLabel,
		Resolver:      resolver,
	}
}

// ReadRecords decodes the configured input. Malformed documents are
// reported as *InvalidInputError so every caller maps them the same way.
func ReadRecords(cfg *contract.Config) ([]schema.Record, error) {
	records, err := ingest.ReadFile(cfg.InputPath, cfg.InputFormat)
	if err != nil {
		return nil, asInvalidInput(err)
	}
	return records, nil
}

// asInvalidInput converts a decode failure into an *InvalidInputError.
// Other errors, such as a missing file, pass through.
func asInvalidInput(err error) error {
	var decErr *ingest.DecodeError
	if !errors.As(err, &decErr) {
		return err
	}
	return &InvalidInputError{Index: decErr.Row, Reason: decErr.Err.Error()}
}

// GetAnalysisResults runs the engine over records and records the run in the
// analysis store when tracking is enabled. Tracking failures only warn.
func GetAnalysisResults(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, records []schema.Record) (schema.AnalysisResult, time.Duration, error) {
	start := time.Now()
	if !shouldSuppressHeader(ctx) {
		logAnalysisHeader(cfg, len(records))
	}

	engine, err := NewEngine(OptionsFromConfig(cfg))
	if err != nil {
		return schema.AnalysisResult{}, 0, err
	}

	// --- 0. Begin Analysis Tracking (if configured) ---
	var store contract.AnalysisStore
	if mgr != nil {
		store = mgr.GetAnalysisStore()
	}
	if store != nil {
		id, err := store.BeginAnalysis(start, cfg.Threshold, cfg.Params())
		if err != nil {
			contract.LogWarn("Analysis tracking initialization failed", err)
		} else {
			ctx = withAnalysisID(ctx, id)
		}
	}

	// --- 1. Core Analysis ---
	result, err := engine.Run(records)
	if err != nil {
		return schema.AnalysisResult{}, 0, err
	}

	// --- 2. End Analysis Tracking ---
	if id, ok := getAnalysisID(ctx); ok {
		if err := store.RecordCombinations(id, result.Combinations); err != nil {
			contract.LogWarn("Failed to record combinations", err)
		}
		if err := store.EndAnalysis(id, time.Now(), result); err != nil {
			contract.LogWarn("Failed to finalize analysis tracking", err)
		}
	}

	return result, time.Since(start), nil
}

// ExecuteAnalyze reads the input, runs the analysis and writes the result
// in the configured output format. It is the entry point for 'analyze'.
func ExecuteAnalyze(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	records, err := ReadRecords(cfg)
	if err != nil {
		return err
	}
	result, duration, err := GetAnalysisResults(ctx, cfg, mgr, records)
	if err != nil {
		return err
	}
	return outwriter.WriteAnalysisResult(result, cfg, duration)
}

// ExecutePreview decodes the input and prints its first rows.
// No cleaning is applied so the user sees the data as uploaded.
func ExecutePreview(_ context.Context, cfg *contract.Config) error {
	records, err := ReadRecords(cfg)
	if err != nil {
		return err
	}
	return outwriter.WritePreview(records, cfg)
}

// logAnalysisHeader prints a concise, 2-line header for each analysis.
func logAnalysisHeader(cfg *contract.Config, numRecords int) {
	name := filepath.Base(cfg.InputPath)
	if cfg.InputPath == "" || cfg.InputPath == "-" {
		name = "stdin"
	}
	_, _ = fmt.Fprintf(os.Stderr, "🧺 Input: %s (%d records, format: %s)\n", name, numRecords, cfg.InputFormat)
	_, _ = fmt.Fprintf(os.Stderr, "📐 Threshold: %.1f%% (workers: %d, distinct pairs: %t)\n", cfg.Threshold*100, cfg.Workers, cfg.DistinctPairs)
}
