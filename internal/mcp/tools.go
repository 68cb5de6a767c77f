package mcp

import (
	"context"
	"time"

	"github.com/claude/ironledger/internal/models"
	"github.com/claude/ironledger/internal/summary"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
)

// sessionDigest is the compact form of a session returned by history tools.
type sessionDigest struct {
	ID          uuid.UUID          `json:"id"`
	Type        models.WorkoutType `json:"type"`
	Name        string             `json:"name"`
	Date        time.Time          `json:"date"`
	DurationMin *int               `json:"duration_min,omitempty"`
	Volume      float64            `json:"volume_lbs"`
	Energy      *models.Rating     `json:"energy,omitempty"`
	Sleep       *models.Rating     `json:"sleep,omitempty"`
	Bodyweight  *float64           `json:"bodyweight_lbs,omitempty"`
	Notes       string             `json:"notes,omitempty"`
	Exercises   []exerciseDigest   `json:"exercises"`
}

type exerciseDigest struct {
	Name string   `json:"name"`
	Sets []string `json:"sets"`
}

func summarize(sessions []models.WorkoutSession) []sessionDigest {
	out := make([]sessionDigest, 0, len(sessions))
	for _, w := range sessions {
		d := sessionDigest{
			ID:         w.ID,
			Type:       w.Type,
			Name:       w.Type.FullName(),
			Date:       w.StartTime,
			Volume:     w.TotalVolume(),
			Energy:     w.Energy,
			Sleep:      w.Sleep,
			Bodyweight: w.Bodyweight,
			Notes:      w.Notes,
			Exercises:  []exerciseDigest{},
		}
		if dur, ok := w.Duration(); ok {
			d.DurationMin = models.Ptr(int(dur / time.Minute))
		}
		for _, ex := range w.Exercises {
			sets := ex.CompletedWorkingSets()
			if len(sets) == 0 {
				continue
			}
			ed := exerciseDigest{Name: ex.Name}
			for _, s := range sets {
				ed.Sets = append(ed.Sets, summary.SetToken(s))
			}
			d.Exercises = append(d.Exercises, ed)
		}
		out = append(out, d)
	}
	return out
}

// --- Tool definitions ---

var toolGetNextWorkout = mcp.NewTool("get_next_workout",
	mcp.WithDescription("Return the workout the A/B/C rotation schedules next, with its exercise template (sets, rep targets, rest)."),
)

var toolGetHistory = mcp.NewTool("get_history",
	mcp.WithDescription("List completed sessions newest first. Each entry has date, duration, volume, energy/sleep ratings, bodyweight and completed working sets as weight×reps."),
	mcp.WithString("type", mcp.Description("Filter by workout type"), mcp.Enum("A", "B", "C")),
	mcp.WithNumber("limit", mcp.Description("Maximum sessions to return. Defaults to 10.")),
)

var toolGetExerciseHistory = mcp.NewTool("get_exercise_history",
	mcp.WithDescription("Completed working sets for one exercise across all sessions, newest first."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exact exercise name (e.g. 'Bench Press', 'Squat')")),
)

var toolGetPersonalRecords = mcp.NewTool("get_personal_records",
	mcp.WithDescription("Personal records per exercise ordered by weight, heaviest first."),
	mcp.WithNumber("top", mcp.Description("Return only the N heaviest records. Defaults to all.")),
)

var toolGetSessionSummary = mcp.NewTool("get_session_summary",
	mcp.WithDescription("Plain-text summary of a completed session as shared by the app: sets per exercise, PR markers, volume, duration, ratings, bodyweight and notes."),
	mcp.WithString("session_id", mcp.Required(), mcp.Description("Session UUID from get_history")),
)

// --- Tool handlers ---

func (h *handlers) getNextWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	next, err := h.ds.NextWorkout(ctx)
	if err != nil {
		h.log.Error("mcp get_next_workout", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(next)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var filter *models.WorkoutType
	if v := req.GetString("type", ""); v != "" {
		t, err := models.ParseWorkoutType(v)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		filter = &t
	}
	limit := req.GetInt("limit", 10)

	sessions, err := h.ds.History(ctx, filter, limit)
	if err != nil {
		h.log.Error("mcp get_history", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(summarize(sessions))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getExerciseHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exercise, err := req.RequireString("exercise")
	if err != nil {
		return mcp.NewToolResultError("exercise parameter is required"), nil
	}

	entries, err := h.ds.ExerciseHistory(ctx, exercise)
	if err != nil {
		h.log.Error("mcp get_exercise_history", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	type entry struct {
		SessionID uuid.UUID `json:"session_id"`
		Date      time.Time `json:"date"`
		Sets      []string  `json:"sets"`
	}
	out := make([]entry, 0, len(entries))
	for _, e := range entries {
		sets := make([]string, len(e.Sets))
		for i, s := range e.Sets {
			sets[i] = summary.SetToken(s)
		}
		out = append(out, entry{SessionID: e.SessionID, Date: e.Date, Sets: sets})
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"exercise": exercise,
		"sessions": out,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getPersonalRecords(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	prs, err := h.ds.TopRecords(ctx, req.GetInt("top", 0))
	if err != nil {
		h.log.Error("mcp get_personal_records", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(prs)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getSessionSummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError("session_id parameter is required"), nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return mcp.NewToolResultError("invalid session_id: " + err.Error()), nil
	}

	text, err := h.ds.Summary(ctx, id)
	if err != nil {
		return mcp.NewToolResultError("summary failed: " + err.Error()), nil
	}
	return mcp.NewToolResultText(text), nil
}
