package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/contractlens/internal/model"
	"github.com/ppiankov/contractlens/internal/report"
	"github.com/ppiankov/contractlens/internal/store"
)

var (
	historyType    string
	historyMinRisk string
	historyLimit   int
	historyFormat  string
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse previously analyzed contracts",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent analyses, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		filter := store.Filter{ContractType: historyType, Limit: historyLimit}
		if historyMinRisk != "" {
			level, err := model.ParseRiskLevel(historyMinRisk)
			if err != nil {
				return err
			}
			filter.MinRisk = level
		}

		st, err := openHistory(cmd)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		records, err := st.List(cmd.Context(), filter)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(records) == 0 {
			fmt.Fprintln(out, "No analyses recorded.")
			return nil
		}
		for _, r := range records {
			fmt.Fprintf(out, "%s  %s  %-11s %-6s  %s\n",
				r.ID, r.AnalyzedAt.Local().Format(time.DateTime), r.ContractType, r.Risk, r.Source)
		}
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a stored analysis",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openHistory(cmd)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		rec, err := st.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		rep := &report.Report{ID: rec.ID, Source: rec.Source, AnalyzedAt: rec.AnalyzedAt, AnalysisResult: rec.Result}
		return writeReport(cmd.OutOrStdout(), report.NewRenderer(true), rep, "", "", historyFormat)
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a stored analysis",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openHistory(cmd)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		if err := st.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted %s\n", args[0])
		return nil
	},
}

func openHistory(cmd *cobra.Command) (store.Store, error) {
	st, err := store.Open(cmd.Context(), cfg.Store)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, fmt.Errorf("history is disabled (store.enabled: false)")
	}
	return st, nil
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyDeleteCmd)

	historyListCmd.Flags().StringVar(&historyType, "type", "", "only this contract type")
	historyListCmd.Flags().StringVar(&historyMinRisk, "min-risk", "", "only analyses at or above this risk (low, medium, high)")
	historyListCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum number of entries")
	historyShowCmd.Flags().StringVar(&historyFormat, "print", "markdown", "output format: summary, json or markdown")
}
