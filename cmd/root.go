package cmd

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/fundihub/fundihub/internal/ai/gemini"
	"github.com/fundihub/fundihub/internal/secrets"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	app = "fundihub"

	geminiKeyEnv = "GEMINI_API_KEY"
)

type Config struct {
	Server   *ServerConfig   `mapstructure:"server"`
	Database *DatabaseConfig `mapstructure:"database"`
	Redis    *RedisConfig    `mapstructure:"redis"`
	AI       *AIConfig       `mapstructure:"ai"`
}

type ServerConfig struct {
	Listen        string `mapstructure:"listen"`
	OpenJobsLimit int    `mapstructure:"open-jobs-limit"`
}

type DatabaseConfig struct {
	DSN string `mapstructure:"dsn"`
}

type RedisConfig struct {
	URL        string `mapstructure:"url"`
	TTLMinutes int    `mapstructure:"ttl-minutes"`
}

type AIConfig struct {
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey       string `mapstructure:"api-key"`
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "fundihub runs the AI quote-analysis and smart-leads flows for the fundihub marketplace",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is fundihub.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Only commands that talk to the model or the database need a config.
	if serveCmd.CalledAs() == "" && analyzeCmd.CalledAs() == "" && leadsCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// We can't proceed if the config file parsed with error.
	if err := viper.ReadInConfig(); err != nil {
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}
	return config, nil
}

// newGenerator resolves the Gemini API key and builds the shared generator
// both flows run on.
func newGenerator(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (*gemini.Generator, error) {
	if cfg == nil || cfg.Gemini == nil {
		return nil, fmt.Errorf("ai.gemini configuration is required")
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: cfg.Gemini.APIKey,
		Env:   geminiKeyEnv,
		File:  cfg.Gemini.APIKeyFile,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or %s)", err, geminiKeyEnv)
	}

	genLogger := logger.With(zap.String("provider", "gemini"), zap.String("model", cfg.Gemini.Model))

	return gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, genLogger)
}

func maxLogLength(cfg *AIConfig) int {
	if cfg == nil || cfg.Gemini == nil {
		return 0
	}
	return cfg.Gemini.MaxLogLength
}
