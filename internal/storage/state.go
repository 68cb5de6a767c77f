package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/claude/ironledger/internal/models"
)

// DefaultKey is the well-known key the state blob lives under.
const DefaultKey = "IronLedgerAppState"

// LoadState reads and decodes the state blob. A missing blob, a read error
// and a decode failure all yield fresh default state built from defaults;
// the second result reports whether persisted data was used. Failures are
// logged, never returned.
func LoadState(ctx context.Context, kv KV, key string, defaults func() []models.WorkoutTemplate, log *slog.Logger) (*models.AppState, bool) {
	data, err := kv.Get(ctx, key)
	switch {
	case errors.Is(err, ErrNotFound):
		log.Info("no saved state, starting fresh", "key", key)
		return models.NewAppState(defaults()), false
	case err != nil:
		log.Warn("reading saved state failed, starting fresh", "key", key, "error", err)
		return models.NewAppState(defaults()), false
	}

	var st models.AppState
	if err := json.Unmarshal(data, &st); err != nil {
		log.Warn("decoding saved state failed, starting fresh", "key", key, "error", err)
		return models.NewAppState(defaults()), false
	}
	st.Normalize()
	if len(st.Templates) == 0 {
		log.Warn("saved state has no templates, restoring defaults", "key", key)
		st.Templates = defaults()
	}
	return &st, true
}

// SaveState encodes the whole state and overwrites the blob.
func SaveState(ctx context.Context, kv KV, key string, st *models.AppState) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}
	if err := kv.Put(ctx, key, data); err != nil {
		return fmt.Errorf("saving state: %w", err)
	}
	return nil
}
