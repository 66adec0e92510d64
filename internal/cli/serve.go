package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ppiankov/contractlens/internal/pipeline"
	"github.com/ppiankov/contractlens/internal/server"
	"github.com/ppiankov/contractlens/internal/store"
)

var (
	serveAddr       string
	serveCompliance bool
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analysis API over HTTP",
	Long: `Serve exposes the analyzer as a JSON API:

  POST   /api/v1/analyze                 analyze {"text": ...} or a text/plain body
  GET    /api/v1/templates               list reference templates
  GET    /api/v1/templates/{type}        one template
  POST   /api/v1/templates/{type}/render fill placeholders, returns Markdown
  GET    /api/v1/history                 recent analyses
  GET    /api/v1/history/{id}            one stored analysis
  DELETE /api/v1/history/{id}            forget an analysis
  GET    /healthz                        liveness`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if serveAddr != "" {
			cfg.Server.Addr = serveAddr
		}
		if serveCompliance {
			cfg.Compliance.Enabled = true
		}

		analyzer, err := pipeline.Build(ctx, cfg)
		if err != nil {
			return fmt.Errorf("build analyzer: %w", err)
		}

		st, err := store.Open(ctx, cfg.Store)
		if err != nil {
			return fmt.Errorf("open history: %w", err)
		}
		if st != nil {
			defer st.Close() //nolint:errcheck
		} else {
			zap.L().Info("history disabled")
		}

		return server.New(cfg.Server, analyzer, st).ListenAndServe(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
	serveCmd.Flags().BoolVar(&serveCompliance, "compliance", false, "run the regulatory checklist on every analysis")
}
