package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/basket/internal/contract"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// configCmd groups configuration helpers.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the effective configuration",
}

// configShowCmd prints the merged configuration as YAML.
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the configuration merged from defaults, config file, env and flags",
	Long: `Print the effective configuration as YAML.

The output can be saved as .basket.yaml in the current or home directory.
Connection strings are masked.

Examples:
  basket config show > .basket.yaml
  BASKET_THRESHOLD=0.2 basket config show`,
	Args: cobra.NoArgs,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		if err := loadConfigFile(); err != nil {
			return err
		}
		return viper.Unmarshal(input)
	},
	Run: func(_ *cobra.Command, _ []string) {
		out, err := renderConfig(input)
		if err != nil {
			contract.LogFatal("Cannot encode configuration", err)
		}
		if used := viper.ConfigFileUsed(); used != "" {
			_, _ = fmt.Fprintf(os.Stderr, "# config file: %s\n", used)
		}
		fmt.Print(string(out))
	},
}

// renderConfig encodes raw settings as YAML with secrets masked.
func renderConfig(raw *contract.ConfigRawInput) ([]byte, error) {
	shown := *raw
	if shown.AnalysisDBConnect != "" {
		shown.AnalysisDBConnect = "********"
	}
	return yaml.Marshal(&shown)
}
