package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/huangsam/basket/internal/api"
	"github.com/spf13/cobra"
)

// serveCmd starts the HTTP API.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the basket HTTP API",
	Long: `Serve basket analysis over HTTP.

Endpoints:
  GET  /healthz           - liveness check
  GET  /api/status        - analysis tracking status
  POST /api/analyze       - JSON body {"records": [...], "threshold": 0.1}
  POST /api/analyze/csv   - CSV body, threshold in the query string

Examples:
  # Serve on port 9000 for a local frontend
  basket serve --listen :9000 --cors-origins http://localhost:3000

  # Analyze a CSV file with curl
  curl --data-binary @sales.csv 'localhost:8080/api/analyze/csv?threshold=0.2'`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(rootCtx, os.Interrupt, syscall.SIGTERM)
		defer stop()
		return api.StartServer(ctx, cfg, storeManager)
	},
}
