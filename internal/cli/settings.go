package cli

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/contractlens/internal/model"
)

const envPrefix = "CONTRACTLENS"

// configureViper registers env lookup and every default so CONTRACTLENS_*
// variables resolve even for keys absent from the config file
func configureViper(v *viper.Viper) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	data, err := yaml.Marshal(model.DefaultConfig())
	if err != nil {
		return
	}
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return
	}
	setDefaults(v, "", tree)
	// Omitted from YAML when empty, but still settable through the environment
	v.SetDefault("llm.api_key", "")
}

func setDefaults(v *viper.Viper, prefix string, tree map[string]any) {
	for k, val := range tree {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if sub, ok := val.(map[string]any); ok {
			setDefaults(v, key, sub)
			continue
		}
		v.SetDefault(key, val)
	}
}

// loadConfig decodes the merged settings and fills provider API keys from
// their conventional environment variables
func loadConfig(v *viper.Viper) (*model.Config, error) {
	c := model.DefaultConfig()
	if err := v.Unmarshal(c); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}
	applyProviderEnv(&c.LLM)
	if err := c.Scoring.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func applyProviderEnv(llm *model.LLMConfig) {
	if llm.APIKey == "" {
		switch strings.ToLower(llm.Provider) {
		case "openai":
			llm.APIKey = os.Getenv("OPENAI_API_KEY")
		case "anthropic", "claude":
			llm.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		case "gemini", "google":
			llm.APIKey = firstEnv("GEMINI_API_KEY", "GOOGLE_API_KEY")
		}
	}
	if llm.BaseURL == "" && strings.EqualFold(llm.Provider, "ollama") {
		llm.BaseURL = os.Getenv("OLLAMA_BASE_URL")
	}
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

// InitLogger initializes the global zap logger
func InitLogger(cfg model.LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
