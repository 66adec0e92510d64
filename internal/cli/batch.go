package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ppiankov/contractlens/internal/pipeline"
	"github.com/ppiankov/contractlens/internal/report"
	"github.com/ppiankov/contractlens/internal/store"
	"github.com/ppiankov/contractlens/internal/worker"
)

var (
	batchFlags  analysisFlags
	concurrency int
	outputDir   string
	batchMDOnly bool
	noReports   bool
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Analyze many contracts listed in a file",
	Long: `Batch analyzes contracts concurrently:
- Read file paths or URLs from the input file (one per line, # comments)
- Analyze them with a bounded worker pool
- Write a JSON and a Markdown report for each contract

Example:
  contractlens batch contracts.txt
  contractlens batch contracts.txt --concurrency 8 --output-dir ./reviews`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (default from config, else CPU count)")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./contractlens-reports", "output directory for reports")
	batchCmd.Flags().BoolVar(&batchMDOnly, "md-only", false, "write only Markdown reports")
	batchCmd.Flags().BoolVar(&noReports, "no-reports", false, "write no report files, only the summary")
	batchFlags.register(batchCmd, 10*time.Minute)
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	batchFlags.apply(cfg)

	workers := concurrency
	if workers <= 0 {
		workers = cfg.Concurrency.Workers
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), batchFlags.timeout)
	defer cancel()

	out := cmd.ErrOrStderr()
	fmt.Fprintf(out, "\n")
	fmt.Fprintf(out, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(out, "  ContractLens Batch Analysis\n")
	fmt.Fprintf(out, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(out, "\n")
	fmt.Fprintf(out, "  Input file:   %s\n", file)
	fmt.Fprintf(out, "  Workers:      %d\n", workers)
	fmt.Fprintf(out, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(out, "  Timeout:      %v\n", batchFlags.timeout)
	if cfg.LLM.Provider != "" {
		fmt.Fprintf(out, "  Generation:   %s %s\n", cfg.LLM.Provider, cfg.LLM.Model)
	}
	fmt.Fprintf(out, "\n")

	if !noReports {
		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	analyzer, err := pipeline.Build(ctx, cfg)
	if err != nil {
		return fmt.Errorf("build analyzer: %w", err)
	}

	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		zap.L().Warn("history unavailable", zap.Error(err))
		st = nil
	}
	if st != nil {
		defer st.Close() //nolint:errcheck
	}

	processor := worker.NewBatchProcessor(analyzer, workers)
	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	renderer := report.NewRenderer(!batchFlags.noFooter)
	successCount, failureCount := 0, 0
	used := make(map[string]int)

	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(out, "✗ %s: %v\n", result.Source, result.Error)
			continue
		}
		successCount++

		rep := report.New(result.Source, result.Result)
		if st != nil {
			if rec, err := st.Save(ctx, result.Source, result.Result); err != nil {
				zap.L().Warn("history save failed", zap.String("source", result.Source), zap.Error(err))
			} else {
				rep.ID = rec.ID
				rep.AnalyzedAt = rec.AnalyzedAt
			}
		}

		if !noReports {
			slug := uniqueSlug(used, sanitizeFilename(result.Source))
			jsonPath := ""
			if !batchMDOnly {
				jsonPath = filepath.Join(outputDir, slug+".json")
			}
			mdPath := filepath.Join(outputDir, slug+".md")
			if err := writeReport(out, renderer, rep, jsonPath, mdPath, "none"); err != nil {
				fmt.Fprintf(out, "✗ %s: %v\n", result.Source, err)
				continue
			}
		}

		fmt.Fprintf(out, "✓ %s (%s, %s risk, %v)\n", result.Source, result.Result.ContractType,
			result.Result.CompositeRisk, result.Duration.Round(time.Millisecond))
	}

	fmt.Fprintf(out, "\n")
	fmt.Fprintf(out, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(out, "  Batch Complete\n")
	fmt.Fprintf(out, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(out, "\n")
	fmt.Fprintf(out, "  Total:     %d contracts\n", len(results))
	fmt.Fprintf(out, "  Success:   %d\n", successCount)
	fmt.Fprintf(out, "  Failures:  %d\n", failureCount)
	if !noReports {
		fmt.Fprintf(out, "  Output:    %s\n", outputDir)
	}
	fmt.Fprintf(out, "\n")

	return nil
}

// uniqueSlug suffixes repeated names so reports never overwrite each other
func uniqueSlug(used map[string]int, slug string) string {
	n := used[slug]
	used[slug] = n + 1
	if n == 0 {
		return slug
	}
	return fmt.Sprintf("%s-%d", slug, n+1)
}
