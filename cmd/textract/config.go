// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/textract/pkg/types"
)

var defaults = types.DefaultConfig()

// flagKeys maps command-line flags to their configuration keys.
var flagKeys = map[string]string{
	"file-output":        "output.file_output",
	"print-report":       "output.print_report",
	"output-dir":         "output.dir",
	"format":             "output.format",
	"frontmatter":        "output.frontmatter",
	"workers":            "output.workers",
	"progress":           "output.progress",
	"backend":            "recognition.backend",
	"lang":               "recognition.languages",
	"psm":                "recognition.page_seg_mode",
	"dpi":                "recognition.dpi",
	"tesseract-bin":      "recognition.tesseract_bin",
	"container-image":    "recognition.container_image",
	"timeout":            "recognition.timeout",
	"retries":            "recognition.retries",
	"retry-delay":        "recognition.retry_delay",
	"heading-min-height": "classifier.heading_min_height",
	"cohesive-lists":     "classifier.cohesive_lists",
	"ledger":             "ledger.enabled",
	"ledger-path":        "ledger.path",
	"incremental":        "ledger.incremental",
	"log-level":          "log.level",
	"log-format":         "log.format",
}

// bindFlags binds every flag of cmd that has a configuration key.
func bindFlags(cmd *cobra.Command) {
	for name, key := range flagKeys {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			f = cmd.PersistentFlags().Lookup(name)
		}
		if f != nil {
			_ = viper.BindPFlag(key, f)
		}
	}
}

func initConfig() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "Ignoring .env:", err)
	}

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("textract")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "textract"))
		}
	}

	// Settings without a flag still need defaults for config files and
	// the environment to override.
	viper.SetDefault("classifier.heading_level", defaults.Classifier.HeadingLevel)
	viper.SetDefault("classifier.bullet_prefixes", defaults.Classifier.BulletPrefixes)
	viper.SetDefault("classifier.list_marker", defaults.Classifier.ListMarker)
	viper.SetDefault("classifier.sentence_terminators", defaults.Classifier.SentenceTerminators)
	viper.SetDefault("recognition.variables", map[string]string{})

	viper.SetEnvPrefix("TEXTRACT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig assembles the run configuration from flags, environment,
// config file, and defaults, in that order of precedence.
func loadConfig() (types.Config, error) {
	cfg := types.Config{
		Classifier: types.ClassifierConfig{
			HeadingMinHeight:    viper.GetFloat64("classifier.heading_min_height"),
			HeadingLevel:        viper.GetInt("classifier.heading_level"),
			BulletPrefixes:      viper.GetStringSlice("classifier.bullet_prefixes"),
			ListMarker:          viper.GetString("classifier.list_marker"),
			SentenceTerminators: viper.GetStringSlice("classifier.sentence_terminators"),
			CohesiveLists:       viper.GetBool("classifier.cohesive_lists"),
		},
		Recognition: types.RecognitionConfig{
			Backend:        types.RecognitionBackend(viper.GetString("recognition.backend")),
			Languages:      viper.GetStringSlice("recognition.languages"),
			PageSegMode:    viper.GetInt("recognition.page_seg_mode"),
			DPI:            viper.GetInt("recognition.dpi"),
			Variables:      viper.GetStringMapString("recognition.variables"),
			TesseractBin:   viper.GetString("recognition.tesseract_bin"),
			ContainerImage: viper.GetString("recognition.container_image"),
			Timeout:        viper.GetDuration("recognition.timeout"),
			Retries:        viper.GetInt("recognition.retries"),
			RetryDelay:     viper.GetDuration("recognition.retry_delay"),
		},
		Output: types.OutputConfig{
			FileOutput:  viper.GetBool("output.file_output"),
			PrintReport: viper.GetBool("output.print_report"),
			Dir:         viper.GetString("output.dir"),
			Format:      types.OutputFormat(viper.GetString("output.format")),
			Frontmatter: viper.GetBool("output.frontmatter"),
			Workers:     viper.GetInt("output.workers"),
			Progress:    viper.GetBool("output.progress"),
		},
		Ledger: types.LedgerConfig{
			Enabled:     viper.GetBool("ledger.enabled"),
			Path:        viper.GetString("ledger.path"),
			Incremental: viper.GetBool("ledger.incremental"),
		},
		Log: types.LogConfig{
			Level:  viper.GetString("log.level"),
			Format: viper.GetString("log.format"),
		},
	}
	if cfg.Ledger.Incremental {
		cfg.Ledger.Enabled = true
	}
	if err := validateConfig(cfg); err != nil {
		return types.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func validateConfig(cfg types.Config) error {
	switch cfg.Recognition.Backend {
	case types.BackendTesseract, types.BackendExec, types.BackendContainer:
	default:
		return fmt.Errorf("backend %q: use tesseract, exec, or container", cfg.Recognition.Backend)
	}
	switch cfg.Output.Format {
	case types.OutputMarkdown, types.OutputHTML:
	default:
		return fmt.Errorf("format %q: use markdown or html", cfg.Output.Format)
	}
	switch cfg.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("log format %q: use console or json", cfg.Log.Format)
	}
	if len(cfg.Recognition.Languages) == 0 {
		return errors.New("at least one recognition language is required")
	}
	if cfg.Recognition.DPI <= 0 {
		return fmt.Errorf("dpi must be positive, got %d", cfg.Recognition.DPI)
	}
	if cfg.Recognition.Retries < 0 {
		return fmt.Errorf("retries must not be negative, got %d", cfg.Recognition.Retries)
	}
	if cfg.Output.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", cfg.Output.Workers)
	}
	if cfg.Classifier.HeadingMinHeight < 0 || cfg.Classifier.HeadingMinHeight >= 1 {
		return fmt.Errorf("heading min height must be a page fraction in [0, 1), got %g", cfg.Classifier.HeadingMinHeight)
	}
	return nil
}
