// Package main provides the CLI entrypoint for maxtype.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verte-zerg/maxtype/internal/config"
	"github.com/verte-zerg/maxtype/internal/logging"
	"github.com/verte-zerg/maxtype/internal/store"
)

const (
	defaultCurveWindow = 10
	defaultFormat      = "text"
)

var (
	rootUser     string
	rootLogLevel string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "maxtype",
		Short:         "Typing test statistics and preferences",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.PersistentFlags().StringVar(&rootUser, "user", "", "account id (empty for guest)")
	rootCmd.PersistentFlags().StringVar(&rootLogLevel, "log-level", logging.DefaultLevel, "log level (debug, info, warn, error)")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newDashboardCmd())
	rootCmd.AddCommand(newRecordCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newPrefsCmd())

	return rootCmd
}

// settings is the configuration shared by every subcommand.
type settings struct {
	file   config.FileConfig
	paths  config.Paths
	user   string
	logger *zap.Logger
}

// loadSettings layers flags over environment over the config file.
func loadSettings(cmd *cobra.Command) (settings, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return settings{}, fmt.Errorf("failed to load config: %w", err)
	}
	envCfg, err := config.LoadEnv()
	if err != nil {
		return settings{}, fmt.Errorf("failed to read environment: %w", err)
	}
	fileCfg = config.Merge(fileCfg, envCfg)

	applyStringConfig(cmd, "user", &rootUser, fileCfg.Account.User)
	applyStringConfig(cmd, "log-level", &rootLogLevel, fileCfg.Log.Level)

	logger, err := logging.New(rootLogLevel, os.Stderr)
	if err != nil {
		return settings{}, err
	}
	return settings{
		file:   fileCfg,
		paths:  config.ResolvePaths(envCfg),
		user:   strings.TrimSpace(rootUser),
		logger: logger,
	}, nil
}

func openStore(s settings) (*store.Store, error) {
	st, err := store.Open(s.paths.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, nil
}

func closeStore(st *store.Store) {
	if cerr := st.Close(); cerr != nil {
		logErrf("failed to close db: %v\n", cerr)
	}
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# maxtype configuration
# Uncomment a value to enable it. Environment variables (MAXTYPE_*) override
# these values and CLI flags override both.

[account]
# user = ""               # Account id; empty means guest

[stats]
# lang = "en"             # Language filter
# duration = "60"         # Test duration filter (30, 60, 120)
# text-type = "words"     # Text type filter
# layout = "qwerty_us"    # Keyboard layout filter
# format = %q         # Output format (text, json, yaml)
# curve-window = %d       # Moving average window for the learning curve

[log]
# level = %q           # debug, info, warn, error
`,
		defaultFormat,
		defaultCurveWindow,
		logging.DefaultLevel,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
