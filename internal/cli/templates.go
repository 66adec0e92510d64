package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ppiankov/contractlens/internal/templates"
)

var templateValues []string

// templatesCmd represents the templates command
var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List and render standard contract templates",
}

var templatesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List contract types with a reference template",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := templates.Load(cfg.Catalog.TemplatesFile)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, typ := range reg.Types() {
			t, _ := reg.Get(typ)
			fmt.Fprintf(out, "%-12s %s\n", typ, t.Title)
			fmt.Fprintf(out, "%-12s clauses: %s\n", "", strings.Join(t.Categories(), ", "))
		}
		return nil
	},
}

var templatesShowCmd = &cobra.Command{
	Use:   "show <type>",
	Short: "Render a template as Markdown",
	Long: `Render a reference template, filling [PLACEHOLDER] tokens from --set.

Example:
  contractlens templates show service --set client_name="Acme Corp" --set amount='$5,000'`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := templates.Load(cfg.Catalog.TemplatesFile)
		if err != nil {
			return err
		}
		values, err := parseValues(templateValues)
		if err != nil {
			return err
		}
		text, err := reg.Render(args[0], values)
		if err != nil {
			return fmt.Errorf("%w (available: %s)", err, strings.Join(reg.Types(), ", "))
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), text)
		return err
	},
}

// parseValues turns KEY=VALUE pairs into a placeholder map
func parseValues(pairs []string) (map[string]string, error) {
	values := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid --set %q, expected KEY=VALUE", p)
		}
		values[k] = v
	}
	return values, nil
}

func init() {
	rootCmd.AddCommand(templatesCmd)
	templatesCmd.AddCommand(templatesListCmd)
	templatesCmd.AddCommand(templatesShowCmd)

	templatesShowCmd.Flags().StringArrayVar(&templateValues, "set", nil, "placeholder value as KEY=VALUE (repeatable)")
}
