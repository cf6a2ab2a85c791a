// Package preferences stores the per-location, per-prayer notification flag
// that decides whether the adhan is played. A prayer with no stored flag is
// enabled.
package preferences

import (
	"context"
	"fmt"

	"github.com/chrissnell/muadhin/internal/database"
	"github.com/chrissnell/muadhin/pkg/config"
	"github.com/chrissnell/muadhin/pkg/prayertimes"
)

// Store reads and writes notification flags
type Store interface {
	Enabled(ctx context.Context, location string, p prayertimes.Prayer) (bool, error)
	SetEnabled(ctx context.Context, location string, p prayertimes.Prayer, enabled bool) error
	// List returns a flag for every prayer, defaults included
	List(ctx context.Context, location string) (map[prayertimes.Prayer]bool, error)
	Close() error
}

// Open creates the store selected by the preferences configuration
func Open(cfg config.PreferencesData) (Store, error) {
	switch cfg.Backend {
	case "", "memory":
		return NewMemoryStore(), nil
	case "sqlite":
		return NewSQLiteStore(cfg.Path)
	case "postgres":
		db, err := database.CreateConnection(cfg.ConnectionString)
		if err != nil {
			return nil, fmt.Errorf("preferences store could not connect to database: %w", err)
		}
		return NewGormStore(db), nil
	}
	return nil, fmt.Errorf("unknown preferences backend: %s", cfg.Backend)
}

// withDefaults fills in every prayer missing from stored
func withDefaults(stored map[prayertimes.Prayer]bool) map[prayertimes.Prayer]bool {
	out := make(map[prayertimes.Prayer]bool, prayertimes.NumPrayers)
	for _, p := range prayertimes.Prayers {
		out[p] = true
	}
	for p, v := range stored {
		out[p] = v
	}
	return out
}
