package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ppiankov/contractlens/internal/model"
)

// Version is set at build time
var Version = "v0.1.0"

var (
	cfgFile string
	verbose bool
	cfg     *model.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "contractlens",
	Short: "ContractLens - rule-based contract review",
	Long: `ContractLens reads a contract and reports what kind of contract it is,
which clauses it contains, who owes what to whom, which provisions carry
elevated risk, where the wording is vague, and how it compares to a
standard template.

Every finding comes from transparent keyword rules. An optional language
model may phrase the summary, but never changes a score.

ContractLens is a reading aid, not legal advice.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadConfig(viper.GetViper())
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if verbose && cfg.Log.Level == "info" {
			cfg.Log.Level = "debug"
		}
		if err := InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("contractlens %s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.contractlens/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads .env, the config file and CONTRACTLENS_* variables
func initConfig() {
	// A missing .env is normal
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(filepath.Join(home, ".contractlens"))
		}
	}

	configureViper(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}
