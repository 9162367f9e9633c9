package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yacobolo/gradgen"
	"github.com/yacobolo/gradgen/internal/store"
	"github.com/yacobolo/gradgen/internal/watch"
)

// defaultConfigPath is the config file looked up when --config is not given
const defaultConfigPath = ".gradgen.yaml"

var k = koanf.New(".")

// setup loads configuration and installs the logger. Every command calls it
// from PreRunE, after cobra has parsed flags.
func setup(cmd *cobra.Command) error {
	if err := loadConfig(cmd); err != nil {
		return err
	}
	configureLogging(cmd)
	return nil
}

// loadConfig loads configuration with precedence: flags > env > file > defaults.
// It must be called after cobra parses flags (in PreRunE or RunE).
func loadConfig(cmd *cobra.Command) error {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	if err := loadConfigFromPath(configPath); err != nil {
		return err
	}

	// 4. CLI flags (highest precedence, only flags that were explicitly set)
	if err := k.Load(posflag.ProviderWithFlag(cmd.Flags(), ".", k, changedFlag(cmd.Flags())), nil); err != nil {
		return fmt.Errorf("loading command flags: %w", err)
	}

	return nil
}

// changedFlag keeps flag defaults out of koanf so that config file values
// are not shadowed by them
func changedFlag(flags *pflag.FlagSet) func(f *pflag.Flag) (string, interface{}) {
	return func(f *pflag.Flag) (string, interface{}) {
		if !f.Changed {
			return "", nil
		}
		return f.Name, posflag.FlagVal(flags, f)
	}
}

// loadConfigFromPath loads configuration from a file, a .env file next to it
// and environment variables. This is separated from loadConfig to allow
// testing without a cobra command.
func loadConfigFromPath(configPath string) error {
	// 1. Config file (lowest precedence among providers)
	if _, err := os.Stat(configPath); err == nil {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return fmt.Errorf("loading config file %s: %w", configPath, err)
		}
	}

	// 2. .env file; variables already set in the environment win
	dotenv := filepath.Join(filepath.Dir(configPath), ".env")
	if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", dotenv, err)
	}

	// 3. Environment variables (GRADGEN_* prefix)
	if err := k.Load(env.Provider("GRADGEN_", ".", func(s string) string {
		// GRADGEN_BUILD_SOURCE -> build.source
		// GRADGEN_CHECK_STRICT -> check.strict
		// GRADGEN_VERBOSE -> verbose
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, "GRADGEN_")),
			"_", ".",
		)
	}), nil); err != nil {
		return fmt.Errorf("loading environment variables: %w", err)
	}

	return nil
}

// configureLogging routes library diagnostics to stderr with --verbose
func configureLogging(cmd *cobra.Command) {
	if !getBoolWithFallback("verbose", "verbose", false) {
		gradgen.SetLogger(nil)
		return
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug})
	gradgen.SetLogger(slog.New(handler))
}

// sourceIncludes returns the definition directory and glob patterns shared
// by build, check and watch
func sourceIncludes() (string, []string) {
	source := getStringWithFallback("source", "build.source", "design/gradients")

	var includes []string
	if v := k.Strings("include"); len(v) > 0 {
		includes = v
	} else if v := k.Strings("build.include"); len(v) > 0 {
		includes = v
	} else {
		includes = []string{"**/*.yaml", "**/*.yml"}
	}
	return source, includes
}

// buildBuildConfig constructs the library's BuildConfig struct from koanf state.
func buildBuildConfig() gradgen.BuildConfig {
	source, includes := sourceIncludes()
	return gradgen.BuildConfig{
		SourceDir:   source,
		Includes:    includes,
		Output:      getStringWithFallback("output", "build.output", "web/styles/gradients.css"),
		Format:      getStringWithFallback("format", "build.format", gradgen.FormatCSS),
		ClassPrefix: getStringWithFallback("class-prefix", "build.class-prefix", gradgen.DefaultClassPrefix),
		Concurrency: getIntWithFallback("concurrency", "build.concurrency", 0),
	}
}

// buildCheckConfig constructs the library's CheckConfig struct from koanf state.
func buildCheckConfig() gradgen.CheckConfig {
	source, includes := sourceIncludes()
	return gradgen.CheckConfig{
		SourceDir:          source,
		Includes:           includes,
		Concurrency:        getIntWithFallback("concurrency", "build.concurrency", 0),
		Strict:             getBoolWithFallback("strict", "check.strict", false),
		MaxIssuesPerLinter: getIntWithFallback("max-issues-per-linter", "check.max-issues-per-linter", 0),
		MaxSameIssues:      getIntWithFallback("max-same-issues", "check.max-same-issues", 0),
		PrintIssuedLines:   getBoolWithFallback("print-lines", "check.print-lines", true),
		PrintLinterName:    getBoolWithFallback("print-linter-name", "check.print-linter-name", true),
		UseColors:          getBoolWithFallback("color", "color", false),
	}
}

// storeSettings returns the persistence driver and path
func storeSettings() (driver, path string) {
	return getStringWithFallback("store-driver", "store.driver", store.DriverFile),
		getStringWithFallback("store-path", "store.path", "")
}

// debounce returns the watch debounce interval
func debounce() time.Duration {
	if k.Exists("debounce") {
		return k.Duration("debounce")
	}
	if k.Exists("watch.debounce") {
		return k.Duration("watch.debounce")
	}
	return watch.DefaultDebounce
}

// getStringWithFallback checks the flag key first, then the config file key, then returns the default.
func getStringWithFallback(flagKey, configKey, defaultVal string) string {
	if v := k.String(flagKey); v != "" {
		return v
	}
	if v := k.String(configKey); v != "" {
		return v
	}
	return defaultVal
}

// getBoolWithFallback checks the flag key first, then the config file key, then returns the default.
func getBoolWithFallback(flagKey, configKey string, defaultVal bool) bool {
	if k.Exists(flagKey) {
		return k.Bool(flagKey)
	}
	if k.Exists(configKey) {
		return k.Bool(configKey)
	}
	return defaultVal
}

// getIntWithFallback checks the flag key first, then the config file key, then returns the default.
func getIntWithFallback(flagKey, configKey string, defaultVal int) int {
	if k.Exists(flagKey) {
		return k.Int(flagKey)
	}
	if k.Exists(configKey) {
		return k.Int(configKey)
	}
	return defaultVal
}
