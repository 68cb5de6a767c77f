package main

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/claude/ironledger/internal/config"
	"github.com/claude/ironledger/internal/ledger"
	"github.com/claude/ironledger/internal/models"
	"github.com/claude/ironledger/internal/timer"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var nextCmd = &cobra.Command{
	Use:   "next",
	Short: "Show the workout the rotation schedules next",
	Args:  cobra.NoArgs,
	RunE:  runNext,
}

var setNextCmd = &cobra.Command{
	Use:   "set-next <type>",
	Short: "Override the next workout (A, B or C)",
	Args:  cobra.ExactArgs(1),
	RunE:  runSetNext,
}

var (
	historyType  string
	historyLimit int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List completed sessions, newest first",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

var prsTop int

var prsCmd = &cobra.Command{
	Use:     "prs",
	Short:   "List personal records, heaviest first",
	Aliases: []string{"records"},
	Args:    cobra.NoArgs,
	RunE:    runPRs,
}

var summaryCmd = &cobra.Command{
	Use:   "summary <session-id>",
	Short: "Print the shareable text summary of a session",
	Args:  cobra.ExactArgs(1),
	RunE:  runSummary,
}

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "Export or import workout templates",
}

var templatesExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the current templates as YAML to stdout",
	Args:  cobra.NoArgs,
	RunE:  runTemplatesExport,
}

var templatesImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the templates with those in a YAML file",
	Args:  cobra.ExactArgs(1),
	RunE:  runTemplatesImport,
}

var resetConfirm bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Erase all history and records and restore the default templates",
	Args:  cobra.NoArgs,
	RunE:  runReset,
}

func init() {
	historyCmd.Flags().StringVar(&historyType, "type", "", "only show sessions of this workout type")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 0, "maximum sessions to show (0 for all)")
	prsCmd.Flags().IntVar(&prsTop, "top", 0, "only show the N heaviest records")
	resetCmd.Flags().BoolVar(&resetConfirm, "yes", false, "confirm the reset")

	templatesCmd.AddCommand(templatesExportCmd, templatesImportCmd)
	rootCmd.AddCommand(nextCmd, setNextCmd, historyCmd, prsCmd, summaryCmd, templatesCmd, resetCmd)
}

func runNext(cmd *cobra.Command, args []string) error {
	return withStore(cmd, func(ctx context.Context, store *ledger.Store) error {
		next := store.NextWorkout()
		tmpl, err := store.Template(next)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Next: %s\n", next.FullName())
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		for _, e := range tmpl.Exercises {
			fmt.Fprintf(w, "  %s\t%s\trest %s\n", e.Name, prescription(e), timer.FormatClock(e.Rest()))
		}
		return w.Flush()
	})
}

func runSetNext(cmd *cobra.Command, args []string) error {
	t, err := models.ParseWorkoutType(args[0])
	if err != nil {
		return err
	}
	return withStore(cmd, func(ctx context.Context, store *ledger.Store) error {
		if err := store.SetNextWorkout(ctx, t); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Next workout: %s\n", t.FullName())
		return nil
	})
}

func runHistory(cmd *cobra.Command, args []string) error {
	var filter *models.WorkoutType
	if historyType != "" {
		t, err := models.ParseWorkoutType(historyType)
		if err != nil {
			return err
		}
		filter = &t
	}
	return withStore(cmd, func(ctx context.Context, store *ledger.Store) error {
		sessions := store.History(filter)
		if historyLimit > 0 && len(sessions) > historyLimit {
			sessions = sessions[:historyLimit]
		}
		if len(sessions) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No sessions logged.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tDATE\tWORKOUT\tDURATION\tVOLUME")
		for _, s := range sessions {
			dur := "-"
			if d, ok := s.Duration(); ok {
				dur = fmt.Sprintf("%d min", int(d/time.Minute))
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s lbs\n",
				s.ID, s.StartTime.Local().Format("2006-01-02"), s.Type.Name(), dur, humanize.Commaf(s.TotalVolume()))
		}
		return w.Flush()
	})
}

func runPRs(cmd *cobra.Command, args []string) error {
	return withStore(cmd, func(ctx context.Context, store *ledger.Store) error {
		prs := store.TopRecords(prsTop)
		if len(prs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No personal records yet.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "EXERCISE\tWEIGHT\tREPS\tDATE")
		for _, pr := range prs {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\n",
				pr.ExerciseName, humanize.Ftoa(pr.Weight), pr.Reps, pr.Date.Local().Format("2006-01-02"))
		}
		return w.Flush()
	})
}

func runSummary(cmd *cobra.Command, args []string) error {
	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid session id %q: %w", args[0], err)
	}
	return withStore(cmd, func(ctx context.Context, store *ledger.Store) error {
		text, err := store.Summary(id)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), text)
		return nil
	})
}

func runTemplatesExport(cmd *cobra.Command, args []string) error {
	return withStore(cmd, func(ctx context.Context, store *ledger.Store) error {
		data, err := config.MarshalTemplates(store.Templates())
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	})
}

func runTemplatesImport(cmd *cobra.Command, args []string) error {
	templates, err := config.LoadTemplates(args[0])
	if err != nil {
		return err
	}
	return withStore(cmd, func(ctx context.Context, store *ledger.Store) error {
		for _, tmpl := range templates {
			if err := store.UpdateTemplate(ctx, tmpl); err != nil {
				return fmt.Errorf("updating %s: %w", tmpl.Type.Name(), err)
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d templates.\n", len(templates))
		return nil
	})
}

func runReset(cmd *cobra.Command, args []string) error {
	if !resetConfirm {
		return errors.New("reset erases all history; pass --yes to confirm")
	}
	return withStore(cmd, func(ctx context.Context, store *ledger.Store) error {
		if err := store.ResetAllData(ctx); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "All data reset.")
		return nil
	})
}

// prescription renders the target of an exercise, e.g. "5×5" or "3×60s".
func prescription(e models.ExerciseTemplate) string {
	switch {
	case e.DefaultReps != nil:
		return fmt.Sprintf("%d×%d", e.DefaultSets, *e.DefaultReps)
	case e.DefaultDurationSeconds != nil:
		return fmt.Sprintf("%d×%ds", e.DefaultSets, *e.DefaultDurationSeconds)
	}
	return fmt.Sprintf("%d sets", e.DefaultSets)
}
