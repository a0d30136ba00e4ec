package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/maxtype/internal/model"
)

const (
	maxWPM     = 300
	maxPercent = 100
)

var (
	recordWPM         float64
	recordNetWPM      float64
	recordAccuracy    float64
	recordConsistency float64
	recordLang        string
	recordLayout      string
	recordDuration    string
	recordTextType    string
	recordAt          string
)

func newRecordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Store one completed test result",
		Args:  cobra.NoArgs,
		RunE:  runRecordCmd,
	}
	cmd.Flags().Float64Var(&recordWPM, "wpm", 0, "gross words per minute")
	cmd.Flags().Float64Var(&recordNetWPM, "net-wpm", 0, "net words per minute")
	cmd.Flags().Float64Var(&recordAccuracy, "accuracy", 0, "accuracy percentage (0-100)")
	cmd.Flags().Float64Var(&recordConsistency, "consistency", 0, "consistency percentage (0-100)")
	cmd.Flags().StringVar(&recordLang, "lang", string(model.LanguageEnglish), "language")
	cmd.Flags().StringVar(&recordLayout, "layout", string(model.LayoutQwertyUS), "keyboard layout")
	cmd.Flags().StringVar(&recordDuration, "duration", string(model.Duration30), "test duration in seconds")
	cmd.Flags().StringVar(&recordTextType, "text-type", string(model.TextWords), "text type")
	cmd.Flags().StringVar(&recordAt, "at", "", "completion time (RFC3339, default now)")
	_ = cmd.MarkFlagRequired("wpm")
	_ = cmd.MarkFlagRequired("accuracy")
	return cmd
}

func runRecordCmd(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	createdAt := time.Now().Format(time.RFC3339)
	if recordAt != "" {
		parsed, err := time.Parse(time.RFC3339, recordAt)
		if err != nil {
			return fmt.Errorf("invalid --at value: %w", err)
		}
		createdAt = parsed.Format(time.RFC3339)
	}
	netWPM := recordNetWPM
	if !cmd.Flags().Changed("net-wpm") {
		netWPM = recordWPM
	}
	rec := model.ResultRecord{
		CreatedAt: createdAt,
		Config: model.TestConfig{
			Language:       model.Language(recordLang),
			KeyboardLayout: model.KeyboardLayout(recordLayout),
			TestDuration:   model.TestDuration(strings.TrimSuffix(recordDuration, "s")),
			TextType:       model.TextType(recordTextType),
		},
		Metrics: model.Metrics{
			WPM:         recordWPM,
			NetWPM:      netWPM,
			Accuracy:    recordAccuracy,
			Consistency: recordConsistency,
		},
	}
	if err := validateRecord(rec); err != nil {
		return err
	}

	st, err := openStore(s)
	if err != nil {
		return err
	}
	defer closeStore(st)

	id, err := st.InsertResult(context.Background(), s.user, rec)
	if err != nil {
		return fmt.Errorf("failed to save result: %w", err)
	}
	s.logger.Debug("stored result", zap.String("id", id), zap.String("user", s.user))
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), id); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import results from a JSON or YAML file",
		Args:  cobra.ExactArgs(1),
		RunE:  runImportCmd,
	}
}

func runImportCmd(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	records, err := readRecordsFile(args[0])
	if err != nil {
		return err
	}
	for i, rec := range records {
		if err := validateRecord(rec); err != nil {
			return fmt.Errorf("record %d: %w", i+1, err)
		}
		if _, ok := rec.CreatedTime(); !ok {
			logErrf("record %d: unparsable createdAt %q; it will not count toward streaks or recency\n", i+1, rec.CreatedAt)
		}
	}
	if len(records) == 0 {
		logErrln("No records found.")
		return nil
	}

	st, err := openStore(s)
	if err != nil {
		return err
	}
	defer closeStore(st)

	ids, err := st.InsertResults(context.Background(), s.user, records)
	if err != nil {
		return fmt.Errorf("failed to import results: %w", err)
	}
	s.logger.Info("imported results", zap.Int("count", len(ids)), zap.String("user", s.user))
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Imported %d results.\n", len(ids)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// readRecordsFile decodes a list of records; the extension selects the format.
func readRecordsFile(path string) ([]model.ResultRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var records []model.ResultRecord
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &records)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &records)
	default:
		return nil, fmt.Errorf("unsupported file type %q (use .json, .yaml or .yml)", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return records, nil
}

func validateRecord(rec model.ResultRecord) error {
	var errs []error
	if !rec.Config.Language.Valid() {
		errs = append(errs, fmt.Errorf("unknown language %q", rec.Config.Language))
	}
	if !rec.Config.KeyboardLayout.Valid() {
		errs = append(errs, fmt.Errorf("unknown keyboard layout %q", rec.Config.KeyboardLayout))
	}
	if !rec.Config.TestDuration.Valid() {
		errs = append(errs, fmt.Errorf("unknown duration %q", rec.Config.TestDuration))
	}
	if !rec.Config.TextType.Valid() {
		errs = append(errs, fmt.Errorf("unknown text type %q", rec.Config.TextType))
	}
	m := rec.Metrics
	checkRange := func(name string, v, hi float64) {
		if v < 0 || v > hi {
			errs = append(errs, fmt.Errorf("%s must be between 0 and %g, got %g", name, hi, v))
		}
	}
	checkRange("wpm", m.WPM, maxWPM)
	checkRange("net wpm", m.NetWPM, maxWPM)
	checkRange("accuracy", m.Accuracy, maxPercent)
	checkRange("consistency", m.Consistency, maxPercent)
	return errors.Join(errs...)
}
