package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ppiankov/contractlens/internal/document"
	"github.com/ppiankov/contractlens/internal/model"
	"github.com/ppiankov/contractlens/internal/pipeline"
	"github.com/ppiankov/contractlens/internal/report"
	"github.com/ppiankov/contractlens/internal/store"
)

// analysisFlags are the overrides shared by analyze and batch
type analysisFlags struct {
	timeout     time.Duration
	noCache     bool
	noHistory   bool
	noFooter    bool
	compliance  bool
	llmProvider string
	llmModel    string
}

func (f *analysisFlags) register(cmd *cobra.Command, timeout time.Duration) {
	cmd.Flags().DurationVar(&f.timeout, "timeout", timeout, "overall timeout")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the extracted-text cache")
	cmd.Flags().BoolVar(&f.noHistory, "no-history", false, "do not record the analysis in history")
	cmd.Flags().BoolVar(&f.noFooter, "no-footer", false, "disable footer in Markdown reports")
	cmd.Flags().BoolVar(&f.compliance, "compliance", false, "run the regulatory checklist")
	cmd.Flags().StringVar(&f.llmProvider, "llm", "", "text generation provider (openai, anthropic, ollama, gemini)")
	cmd.Flags().StringVar(&f.llmModel, "llm-model", "", "text generation model name")
}

// apply folds set flags into the loaded configuration
func (f *analysisFlags) apply(c *model.Config) {
	if f.noCache {
		c.Cache.Enabled = false
	}
	if f.noHistory {
		c.Store.Enabled = false
	}
	if f.compliance {
		c.Compliance.Enabled = true
	}
	if f.llmProvider != "" {
		c.LLM.Provider = f.llmProvider
		c.LLM.APIKey = ""
		applyProviderEnv(&c.LLM)
	}
	if f.llmModel != "" {
		c.LLM.Model = f.llmModel
	}
}

var (
	analyzeFlags analysisFlags
	outJSON      string
	outMD        string
	printFormat  string
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <file|url|->",
	Short: "Analyze a single contract",
	Long: `Analyze reads one contract and reports:
- Contract type and language
- Parties, dates, amounts and jurisdictions
- Clauses by category with per-clause risk
- Obligations, rights and prohibitions
- Specific risk flags and an overall risk level
- Ambiguous wording
- Similarity to the standard template for the type

Plain text, HTML, PDF (via pdftotext) and DOCX are supported. Use "-" to
read plain text from stdin.

Example:
  contractlens analyze contract.pdf
  contractlens analyze https://example.com/terms --md terms.md
  cat contract.txt | contractlens analyze - --print json
  contractlens analyze lease.docx --llm anthropic --compliance`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&outJSON, "json", "", "write the JSON report to this path")
	analyzeCmd.Flags().StringVar(&outMD, "md", "", "write the Markdown report to this path")
	analyzeCmd.Flags().StringVar(&printFormat, "print", "summary", "stdout format: summary, json, markdown or none")
	analyzeFlags.register(analyzeCmd, 2*time.Minute)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ref := args[0]
	analyzeFlags.apply(cfg)

	ctx, cancel := context.WithTimeout(cmd.Context(), analyzeFlags.timeout)
	defer cancel()

	analyzer, err := pipeline.Build(ctx, cfg)
	if err != nil {
		return fmt.Errorf("build analyzer: %w", err)
	}

	var res *model.AnalysisResult
	if ref == "-" {
		data, err := io.ReadAll(io.LimitReader(cmd.InOrStdin(), cfg.Document.MaxBytes))
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		ref = "stdin"
		res, err = analyzer.AnalyzeDocument(ctx, document.Source{Name: ref, MIMEType: document.MIMEText, Data: data})
		if err != nil {
			return fmt.Errorf("analyze failed: %w", err)
		}
	} else {
		res, err = analyzer.AnalyzeSource(ctx, ref)
		if err != nil {
			return fmt.Errorf("analyze failed: %w", err)
		}
	}

	rep := report.New(ref, res)
	recordHistory(ctx, rep)

	renderer := report.NewRenderer(!analyzeFlags.noFooter)
	return writeReport(cmd.OutOrStdout(), renderer, rep, outJSON, outMD, printFormat)
}

// recordHistory saves the report when history is enabled. Failures only warn.
func recordHistory(ctx context.Context, rep *report.Report) {
	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		zap.L().Warn("history unavailable", zap.Error(err))
		return
	}
	if st == nil {
		return
	}
	defer st.Close() //nolint:errcheck

	rec, err := st.Save(ctx, rep.Source, rep.AnalysisResult)
	if err != nil {
		zap.L().Warn("history save failed", zap.Error(err))
		return
	}
	rep.ID = rec.ID
	rep.AnalyzedAt = rec.AnalyzedAt
}

func writeReport(w io.Writer, renderer *report.Renderer, rep *report.Report, jsonPath, mdPath, format string) error {
	if jsonPath != "" {
		if err := renderer.RenderJSON(rep, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		zap.L().Info("wrote JSON report", zap.String("path", jsonPath))
	}
	if mdPath != "" {
		if err := renderer.RenderMarkdown(rep, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		zap.L().Info("wrote Markdown report", zap.String("path", mdPath))
	}

	switch format {
	case "json":
		return printJSON(w, rep)
	case "markdown", "md":
		_, err := io.WriteString(w, renderer.Markdown(rep))
		return err
	case "none":
		return nil
	default:
		renderer.RenderSummary(w, rep)
		return nil
	}
}
