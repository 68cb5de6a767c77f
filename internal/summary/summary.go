// Package summary renders a completed session as plain text for sharing.
package summary

import (
	"fmt"
	"strings"

	"github.com/claude/ironledger/internal/models"
	"github.com/dustin/go-humanize"
)

const dateLayout = "Jan 2, 2006"

// Render formats session. records is the current PR table; an exercise is
// annotated when its best set matches or exceeds the stored record.
func Render(session models.WorkoutSession, records map[string]models.PersonalRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s | %s\n\n", session.Type.FullName(), session.StartTime.Format(dateLayout))

	for _, ex := range session.Exercises {
		sets := ex.CompletedWorkingSets()
		if len(sets) == 0 {
			continue
		}
		tokens := make([]string, len(sets))
		for i, s := range sets {
			tokens[i] = SetToken(s)
		}
		b.WriteString(ex.Name + ": " + strings.Join(tokens, ", "))
		if matchesRecord(ex, records) {
			b.WriteString(" 🏆 PR")
		}
		b.WriteString("\n")
		if ex.Notes != "" {
			b.WriteString("  → " + ex.Notes + "\n")
		}
	}

	fmt.Fprintf(&b, "\nVolume: %s lbs", humanize.Comma(int64(session.TotalVolume())))
	if d, ok := session.Duration(); ok {
		fmt.Fprintf(&b, " | Duration: %d min", int(d.Minutes()))
	}
	b.WriteString("\n")

	var context []string
	if session.Energy != nil {
		context = append(context, fmt.Sprintf("Energy: %s %s", session.Energy.Label(), session.Energy.Emoji()))
	}
	if session.Sleep != nil {
		context = append(context, fmt.Sprintf("Sleep: %s %s", session.Sleep.Label(), session.Sleep.Emoji()))
	}
	if len(context) > 0 {
		b.WriteString(strings.Join(context, " | ") + "\n")
	}
	if session.Bodyweight != nil {
		fmt.Fprintf(&b, "Bodyweight: %s lbs\n", humanize.Ftoa(*session.Bodyweight))
	}

	if session.Notes != "" {
		b.WriteString("\nNotes: " + session.Notes + "\n")
	}
	return b.String()
}

// SetToken renders weight×reps, or the duration for timed sets.
func SetToken(s models.ExerciseSet) string {
	switch {
	case s.DurationSeconds != nil:
		return fmt.Sprintf("%ds", *s.DurationSeconds)
	case s.HasLoad():
		return fmt.Sprintf("%s×%d", humanize.Ftoa(*s.Weight), *s.Reps)
	}
	return "—"
}

func matchesRecord(ex models.LoggedExercise, records map[string]models.PersonalRecord) bool {
	best := ex.BestSet()
	if best == nil {
		return false
	}
	pr, ok := records[ex.Name]
	if !ok {
		return false
	}
	return *best.Weight >= pr.Weight && *best.Reps >= pr.Reps
}
