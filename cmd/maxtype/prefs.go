package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/maxtype/internal/localstore"
	"github.com/verte-zerg/maxtype/internal/model"
	"github.com/verte-zerg/maxtype/internal/prefs"
	"github.com/verte-zerg/maxtype/internal/session"
	"github.com/verte-zerg/maxtype/internal/store"
)

func newPrefsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Show or change preferences",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the resolved preferences",
		Args:  cobra.NoArgs,
		RunE:  runPrefsShowCmd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "set key=value...",
		Short: "Change one or more preferences",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runPrefsSetCmd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Restore the default preferences",
		Args:  cobra.NoArgs,
		RunE:  runPrefsResetCmd,
	})
	return cmd
}

// withSession opens both storage tiers, initializes a session for the
// configured identity and runs fn against it.
func withSession(cmd *cobra.Command, fn func(ctx context.Context, sess *session.Session) error) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	local, err := localstore.Open(s.paths.LocalDir)
	if err != nil {
		return fmt.Errorf("failed to open local store: %w", err)
	}
	st, err := openStore(s)
	if err != nil {
		return err
	}
	defer closeStore(st)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	id := session.Guest()
	var durable *model.Preferences
	if s.user != "" {
		id = session.Account(s.user)
		p, err := st.GetPreferences(ctx, s.user)
		switch {
		case err == nil:
			durable = &p
		case errors.Is(err, store.ErrNotFound):
		default:
			return fmt.Errorf("failed to load account preferences: %w", err)
		}
	}

	sess := session.New(local, storeCommitter(st), session.WithLogger(s.logger))
	outcome, err := sess.Initialize(ctx, id, durable)
	switch outcome {
	case session.MigrationApplied:
		logErrln("Guest preferences were moved to your account.")
	case session.MigrationFailed:
		logErrf("Could not move guest preferences to your account: %v\n", err)
		err = nil
	}
	if err != nil {
		return err
	}
	return fn(ctx, sess)
}

func storeCommitter(st *store.Store) session.CommitFunc {
	return func(ctx context.Context, id session.Identity, p model.Preferences) (model.Preferences, error) {
		return st.CommitPreferences(ctx, id.UserID, p)
	}
}

func runPrefsShowCmd(cmd *cobra.Command, _ []string) error {
	return withSession(cmd, func(_ context.Context, sess *session.Session) error {
		return writePreferences(cmd.OutOrStdout(), sess.Current())
	})
}

func runPrefsSetCmd(cmd *cobra.Command, args []string) error {
	changes, err := prefs.ParseAssignments(args)
	if err != nil {
		return err
	}
	return withSession(cmd, func(ctx context.Context, sess *session.Session) error {
		p, err := sess.Patch(ctx, changes)
		if err != nil {
			return err
		}
		return writePreferences(cmd.OutOrStdout(), p)
	})
}

func runPrefsResetCmd(cmd *cobra.Command, _ []string) error {
	return withSession(cmd, func(ctx context.Context, sess *session.Session) error {
		p, err := sess.ResetPreferences(ctx)
		if err != nil {
			return err
		}
		return writePreferences(cmd.OutOrStdout(), p)
	})
}

func writePreferences(w io.Writer, p model.Preferences) error {
	values := prefs.Candidate(p)
	for _, field := range prefs.Fields {
		if _, err := fmt.Fprintf(w, "%s=%v\n", field, values[field]); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}
