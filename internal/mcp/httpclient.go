package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/claude/ironledger/internal/ledger"
	"github.com/claude/ironledger/internal/models"
	"github.com/claude/ironledger/internal/records"
	"github.com/google/uuid"
)

// HTTPClient implements DataSource by calling the IronLedger REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// the logger runs on another machine (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
	}

	return body, nil
}

func (c *HTTPClient) getJSON(ctx context.Context, path string, params url.Values, v any) error {
	body, err := c.get(ctx, path, params)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("httpclient: decode %s: %w", path, err)
	}
	return nil
}

func (c *HTTPClient) NextWorkout(ctx context.Context) (NextWorkout, error) {
	var state struct {
		NextWorkout     models.WorkoutType `json:"next_workout"`
		NextWorkoutName string             `json:"next_workout_name"`
	}
	if err := c.getJSON(ctx, "/api/v1/state", nil, &state); err != nil {
		return NextWorkout{}, err
	}

	var templates []models.WorkoutTemplate
	if err := c.getJSON(ctx, "/api/v1/templates", nil, &templates); err != nil {
		return NextWorkout{}, err
	}

	next := NextWorkout{Type: state.NextWorkout, Name: state.NextWorkoutName}
	for i := range templates {
		if templates[i].Type == state.NextWorkout {
			next.Template = &templates[i]
			break
		}
	}
	return next, nil
}

func (c *HTTPClient) History(ctx context.Context, filter *models.WorkoutType, limit int) ([]models.WorkoutSession, error) {
	params := url.Values{}
	if filter != nil {
		params.Set("type", string(*filter))
	}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	var sessions []models.WorkoutSession
	if err := c.getJSON(ctx, "/api/v1/history", params, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (c *HTTPClient) ExerciseHistory(ctx context.Context, exercise string) ([]ledger.ExerciseEntry, error) {
	var resp struct {
		Entries []ledger.ExerciseEntry `json:"entries"`
	}
	path := "/api/v1/exercises/" + url.PathEscape(exercise) + "/history"
	if err := c.getJSON(ctx, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Entries, nil
}

func (c *HTTPClient) TopRecords(ctx context.Context, n int) ([]models.PersonalRecord, error) {
	if n > 0 {
		var top []models.PersonalRecord
		params := url.Values{"top": {strconv.Itoa(n)}}
		if err := c.getJSON(ctx, "/api/v1/records", params, &top); err != nil {
			return nil, err
		}
		return top, nil
	}

	var all map[string]models.PersonalRecord
	if err := c.getJSON(ctx, "/api/v1/records", nil, &all); err != nil {
		return nil, err
	}
	return records.Top(all, 0), nil
}

func (c *HTTPClient) Summary(ctx context.Context, sessionID uuid.UUID) (string, error) {
	body, err := c.get(ctx, "/api/v1/history/"+sessionID.String()+"/summary", nil)
	if err != nil {
		return "", err
	}
	return string(body), nil
}
