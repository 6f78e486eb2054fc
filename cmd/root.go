package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"youbuddy/internal/config"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	appCfg  config.Config
	version = "dev"
)

// rootCmd is the base command called without any subcommands.
var rootCmd = &cobra.Command{
	Use:          "youbuddy",
	Short:        "YouTube search, ranking and summary services",
	Long:         "Ranked YouTube search, channel and playlist listings, and video summaries over HTTP and MCP, plus a digest agent.",
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")
}

// envKeys are the config keys that can be overridden with YOUBUDDY_<KEY>.
var envKeys = []string{
	"app.log_level", "app.log_format",
	"server.addr", "server.port", "server.read_timeout", "server.write_timeout", "server.shutdown_timeout",
	"redis.addr", "redis.username", "redis.password", "redis.db",
	"cache.search_ttl", "cache.summary_ttl",
	"youtube.api_key", "youtube.base_url", "youtube.timeout", "youtube.qps",
	"ranking.ratio_weight", "ranking.recency_weight", "ranking.recency_scale", "ranking.likes_only_ratio",
	"ranking.pool_size", "ranking.batch_limit", "ranking.default_results",
	"openai.api_key", "openai.model", "openai.base_url",
	"agent.tool_urls", "agent.concurrency", "agent.timeout",
}

// legacyEnv maps config keys to the unprefixed variables the services were
// deployed with.
var legacyEnv = map[string]string{
	"youtube.api_key": "YOUTUBE_API_KEY",
	"openai.api_key":  "GEMINI_API_KEY",
	"server.port":     "PORT",
	"redis.addr":      "REDIS_ADDR",
}

func initConfig() {
	v := viper.GetViper()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/youbuddy")
		v.AddConfigPath("configs")
	}

	v.SetEnvPrefix("YOUBUDDY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range envKeys {
		names := []string{key, "YOUBUDDY_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))}
		if legacy, ok := legacyEnv[key]; ok {
			names = append(names, legacy)
		}
		_ = v.BindEnv(names...)
	}

	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) {
			fmt.Fprintf(os.Stderr, "error reading config: %v\n", err)
			os.Exit(1)
		}
	} else {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", v.ConfigFileUsed())
	}

	if err := v.Unmarshal(&appCfg); err != nil {
		fmt.Fprintf(os.Stderr, "error parsing config: %v\n", err)
		os.Exit(1)
	}

	appCfg.FillDefaults()
	if err := appCfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}
	setupLogger(appCfg.App)
}

// setupLogger installs the default slog logger.
func setupLogger(cfg config.AppConfig) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	if strings.EqualFold(cfg.LogFormat, "json") {
		h = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		h = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(h))
}

// GetConfig exposes the loaded configuration to subcommands.
func GetConfig() config.Config {
	return appCfg
}
