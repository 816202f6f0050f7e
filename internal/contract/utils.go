package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
)

// Strength label constants.
const (
	StrongValue   = "Strong"   // Strong value
	FrequentValue = "Frequent" // Frequent value
	ModerateValue = "Moderate" // Moderate value
	WeakValue     = "Weak"     // Weak value
)

// Color variables for console output.
var (
	StrongColor   = color.New(color.FgGreen, color.Bold) // StrongColor marks pairs bought together most of the time.
	FrequentColor = color.New(color.FgCyan, color.Bold)  // FrequentColor marks pairs seen in at least a quarter of baskets.
	ModerateColor = color.New(color.FgYellow)            // ModerateColor marks pairs seen in at least a tenth of baskets.
	WeakColor     = color.New(color.FgWhite)             // WeakColor marks everything else that passed the threshold.
)

// GetPlainLabel returns a plain text label describing how strong a combination is
// based on its frequency. This is the core logic used for CSV, JSON and table printing.
func GetPlainLabel(frequency float64) string {
	switch {
	case frequency >= 0.5:
		return StrongValue
	case frequency >= 0.25:
		return FrequentValue
	case frequency >= 0.1:
		return ModerateValue
	default:
		return WeakValue
	}
}

// GetColorLabel returns a colored text label for console output (table).
// It uses GetPlainLabel to determine the string, and then applies the appropriate color.
func GetColorLabel(frequency float64) string {
	text := GetPlainLabel(frequency)

	switch text {
	case StrongValue:
		return StrongColor.Sprint(text)
	case FrequentValue:
		return FrequentColor.Sprint(text)
	case ModerateValue:
		return ModerateColor.Sprint(text)
	default: // "Weak"
		return WeakColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path selects os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetAnalysisDBFilePath returns the path to the SQLite DB file for analysis storage.
func GetAnalysisDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".basket_analysis.db"
	}
	return filepath.Join(homeDir, ".basket_analysis.db")
}

// TruncateText shortens s to maxWidth runes, ending with an ellipsis.
// Requires maxWidth > 3 so there is room for the "..." suffix and at least one character.
func TruncateText(s string, maxWidth int) string {
	runes := []rune(s)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return s
}

// SplitList splits a comma-separated list, dropping blank entries.
func SplitList(s string) []string {
	var out []string
	for p := range strings.SplitSeq(s, ",") {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
