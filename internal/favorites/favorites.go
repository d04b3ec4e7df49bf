package favorites

import (
	"context"

	"decant-store/internal/persist"
	"decant-store/internal/session"

	"github.com/rs/zerolog"
)

// Engine manages the favorites set. There is no remove operation: within this
// storefront favorites only grow, a known limitation carried over deliberately.
type Engine struct {
	sync   persist.Syncer
	logger zerolog.Logger
}

// NewEngine creates a favorites engine.
func NewEngine(sync persist.Syncer, logger zerolog.Logger) *Engine {
	return &Engine{
		sync:   sync,
		logger: logger.With().Str("service", "favorites").Logger(),
	}
}

// Add inserts a product name into the favorites set. Adding an existing name
// is a no-op beyond re-triggering a flush.
func (e *Engine) Add(ctx context.Context, sess *session.Session, name string) error {
	sess.Favorites[name] = struct{}{}

	e.logger.Debug().
		Str("product", name).
		Int("favorites", len(sess.Favorites)).
		Msg("favorite added")

	return e.sync.Flush(ctx, sess)
}

// List returns the favorites in deterministic order.
func (e *Engine) List(sess *session.Session) []string {
	return sess.FavoriteNames()
}
