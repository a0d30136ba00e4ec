package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/maxtype/internal/dashboard"
	"github.com/verte-zerg/maxtype/internal/model"
	"github.com/verte-zerg/maxtype/internal/stats"
)

var (
	statsLang        string
	statsDuration    string
	statsTextType    string
	statsLayout      string
	statsAdvanced    bool
	statsFormat      string
	statsCurveWindow int
)

func addStatsFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&statsLang, "lang", "", "language filter")
	cmd.Flags().StringVar(&statsDuration, "duration", "", "test duration filter (30, 60, 120)")
	cmd.Flags().StringVar(&statsTextType, "text-type", "", "text type filter")
	cmd.Flags().StringVar(&statsLayout, "layout", "", "keyboard layout filter")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	addStatsFilterFlags(cmd)
	cmd.Flags().BoolVar(&statsAdvanced, "advanced", false, "include trend and personal bests")
	cmd.Flags().StringVar(&statsFormat, "format", defaultFormat, "output format (text, json, yaml)")
	return cmd
}

func newDashboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Open the interactive stats dashboard",
		Args:  cobra.NoArgs,
		RunE:  runDashboardCmd,
	}
	addStatsFilterFlags(cmd)
	return cmd
}

// resolveStatsConfig applies file settings to unset flags and validates the result.
func resolveStatsConfig(cmd *cobra.Command, s settings) (model.StatsConfig, error) {
	sc := s.file.Stats
	applyStringConfig(cmd, "lang", &statsLang, sc.Lang)
	applyStringConfig(cmd, "duration", &statsDuration, sc.Duration)
	applyStringConfig(cmd, "text-type", &statsTextType, sc.TextType)
	applyStringConfig(cmd, "layout", &statsLayout, sc.Layout)
	applyIntConfig(cmd, "curve-window", &statsCurveWindow, sc.CurveWindow)
	if cmd.Flags().Lookup("format") != nil {
		applyStringConfig(cmd, "format", &statsFormat, sc.Format)
	}

	filter, err := model.ParseFilter(statsLang, statsDuration, statsTextType, statsLayout)
	if err != nil {
		return model.StatsConfig{}, err
	}
	cfg := model.StatsConfig{
		User:        s.user,
		Filter:      filter,
		Advanced:    statsAdvanced,
		Format:      statsFormat,
		CurveWindow: statsCurveWindow,
	}
	if err := validateStatsConfig(cfg); err != nil {
		return model.StatsConfig{}, err
	}
	return cfg, nil
}

func validateStatsConfig(cfg model.StatsConfig) error {
	if cfg.CurveWindow < 1 {
		return fmt.Errorf("--curve-window must be >= 1")
	}
	switch cfg.Format {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("--format must be one of text, json, yaml")
	}
	return nil
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	cfg, err := resolveStatsConfig(cmd, s)
	if err != nil {
		return err
	}

	st, err := openStore(s)
	if err != nil {
		return err
	}
	defer closeStore(st)

	report, err := stats.BuildReport(context.Background(), st, cfg.User, cfg.Filter, time.Now())
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}
	return writeReport(cmd.OutOrStdout(), report, cfg, stats.TerminalWidth())
}

func writeReport(w io.Writer, report stats.Report, cfg model.StatsConfig, width int) error {
	var payload any = report.Summary
	if cfg.Advanced {
		payload = report
	}
	switch cfg.Format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(payload); err != nil {
			return err
		}
		return enc.Close()
	}

	if err := stats.RenderSummary(w, report.Summary); err != nil {
		return err
	}
	if report.Summary.TotalTests == 0 {
		return nil
	}
	if err := stats.RenderTrend(w, report.Records, cfg.CurveWindow, width); err != nil {
		return err
	}
	if cfg.Advanced {
		return stats.RenderAdvanced(w, report.Advanced)
	}
	return nil
}

func runDashboardCmd(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	cfg, err := resolveStatsConfig(cmd, s)
	if err != nil {
		return err
	}

	st, err := openStore(s)
	if err != nil {
		return err
	}
	defer closeStore(st)

	program := tea.NewProgram(dashboard.NewModel(st, cfg, time.Now), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run dashboard: %w", err)
	}
	return nil
}
