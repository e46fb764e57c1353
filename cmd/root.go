package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/CDNamchu/plume/internal/config"
)

var (
	cfgFile string
	verbose bool

	appConfig config.Config
	logger    *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "plume",
	Short: "Plume - a static blog generator",
	Long: `Plume takes Markdown content with YAML front-matter, binds it to
HTML layouts, and generates a static blog. The same content tree renders for
either a Jekyll-flavored or WordPress-flavored deployment target, selected by
the platform setting.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initialize()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func initialize() error {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	v := viper.New()
	config.SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("PLUME")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if cfgFile != "" {
				return fmt.Errorf("config file %s not found: %w", cfgFile, err)
			}
			logger.Info("no config file found, using defaults and environment")
		} else {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		logger.Debug("using config file", "path", v.ConfigFileUsed())
	}

	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	appConfig = cfg
	return nil
}
