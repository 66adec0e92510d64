package cli

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/contractlens/internal/catalog"
	"github.com/ppiankov/contractlens/internal/llm"
	"github.com/ppiankov/contractlens/internal/model"
	"github.com/ppiankov/contractlens/internal/templates"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage ContractLens configuration",
	Long: `Manage ContractLens configuration files and settings.

Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (CONTRACTLENS_*, e.g. CONTRACTLENS_LLM_PROVIDER)
3. Config file (./config.yaml or ~/.contractlens/config.yaml)
4. Defaults`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if configFile := viper.ConfigFileUsed(); configFile != "" {
			fmt.Fprintf(os.Stderr, "Configuration file: %s\n\n", configFile)
		} else {
			fmt.Fprintf(os.Stderr, "No configuration file found (using defaults and environment)\n\n")
		}

		shown := *cfg
		if shown.LLM.APIKey != "" {
			shown.LLM.APIKey = "********"
		}

		yamlData, err := yaml.Marshal(&shown)
		if err != nil {
			return fmt.Errorf("error marshaling config: %w", err)
		}
		fmt.Print(string(yamlData))
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Long:  `Create a default configuration file at ~/.contractlens/config.yaml listing every option.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("error finding home directory: %w", err)
		}

		configPath := filepath.Join(home, ".contractlens", "config.yaml")
		if err := writeDefaultConfig(configPath); err != nil {
			return err
		}

		fmt.Printf("✓ Created default configuration: %s\n", configPath)
		fmt.Printf("\nTo view the effective configuration:\n")
		fmt.Printf("  contractlens config show\n")
		return nil
	},
}

var configCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that configured collaborators are reachable",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		if _, err := catalog.Load(cfg.Catalog.PatternsFile); err != nil {
			return fmt.Errorf("pattern catalog: %w", err)
		}
		if _, err := templates.Load(cfg.Catalog.TemplatesFile); err != nil {
			return fmt.Errorf("templates: %w", err)
		}
		fmt.Fprintln(out, "✓ Pattern catalog and templates loaded")

		if path, err := exec.LookPath(cfg.Document.PdfToTextPath); err != nil {
			fmt.Fprintf(out, "✗ pdftotext not found (%s): PDF contracts unavailable\n", cfg.Document.PdfToTextPath)
		} else {
			fmt.Fprintf(out, "✓ pdftotext: %s\n", path)
		}

		provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
		switch {
		case err != nil:
			fmt.Fprintf(out, "✗ Text generation misconfigured: %v\n", err)
		case provider == nil:
			fmt.Fprintln(out, "- Text generation disabled (rule-based summaries)")
		case provider.IsAvailable(ctx):
			fmt.Fprintf(out, "✓ Text generation: %s reachable\n", provider.Name())
		default:
			fmt.Fprintf(out, "✗ Text generation: %s unreachable, summaries fall back to rules\n", provider.Name())
		}
		return nil
	},
}

// writeDefaultConfig writes the commented default configuration, refusing to overwrite
func writeDefaultConfig(configPath string) (err error) {
	if _, statErr := os.Stat(configPath); statErr == nil {
		return fmt.Errorf("config file already exists: %s\nUse 'contractlens config show' to view it, or delete it first to recreate", configPath)
	}
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	yamlData, err := yaml.Marshal(model.DefaultConfig())
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	f, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("error creating config file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close config file: %w", closeErr)
		}
	}()

	printf := func(format string, a ...any) {
		if err != nil {
			return
		}
		_, err = fmt.Fprintf(f, format, a...)
	}

	printf("# ContractLens Configuration File\n")
	printf("#\n")
	printf("# Configuration hierarchy (highest to lowest priority):\n")
	printf("#   1. CLI flags\n")
	printf("#   2. Environment variables (CONTRACTLENS_*)\n")
	printf("#   3. This config file\n")
	printf("#   4. Built-in defaults\n\n")
	printf("%s", yamlData)
	printf("\n# API keys are best kept in the environment or a .env file:\n")
	printf("#   OPENAI_API_KEY=sk-...\n")
	printf("#   ANTHROPIC_API_KEY=sk-ant-...\n")
	printf("#   GEMINI_API_KEY=...\n")
	printf("#   OLLAMA_BASE_URL=http://localhost:11434\n")

	return err
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configCheckCmd)
}
