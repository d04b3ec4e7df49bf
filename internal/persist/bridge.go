package persist

import (
	"context"
	"fmt"
	"sync"

	"decant-store/internal/model"
	"decant-store/internal/session"
	"decant-store/internal/store"

	"github.com/rs/zerolog"
)

// Syncer persists a session's working state for its active identity. Engines
// call it after every mutation.
type Syncer interface {
	Flush(ctx context.Context, sess *session.Session) error
}

// Bridge synchronises session working copies with the durable account store.
// Every write is a read-modify-write over the entire mapping; the mutex
// serialises all of them through one owner, so two rapid flushes for different
// users cannot lose each other's update.
type Bridge struct {
	mu     sync.Mutex
	store  store.AccountStore
	logger zerolog.Logger
}

// NewBridge creates a sync bridge over the given account store.
func NewBridge(st store.AccountStore, logger zerolog.Logger) *Bridge {
	return &Bridge{
		store:  st,
		logger: logger.With().Str("component", "sync-bridge").Logger(),
	}
}

// Flush writes the session's cart, favorites and history back into the durable
// record for the active identity. A no-op when the session is anonymous.
func (b *Bridge) Flush(ctx context.Context, sess *session.Session) error {
	if !sess.Authenticated() {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	users := b.store.Load(ctx)

	sess.Cart = model.NormalizeLines(sess.Cart)

	history := sess.History
	if history == nil {
		history = []model.Order{}
	}

	users[sess.User] = model.Account{
		Password:  sess.Password,
		Cart:      sess.Cart,
		Favorites: sess.FavoriteNames(),
		History:   history,
	}

	if err := b.store.Save(ctx, users); err != nil {
		b.logger.Error().Err(err).Str("username", sess.User).Msg("failed to flush session state")
		return fmt.Errorf("failed to flush session state: %w", err)
	}

	b.logger.Debug().
		Str("username", sess.User).
		Int("cart_lines", len(sess.Cart)).
		Int("favorites", len(sess.Favorites)).
		Int("orders", len(history)).
		Msg("session state flushed")

	return nil
}

// Snapshot returns the current durable mapping under the bridge lock.
func (b *Bridge) Snapshot(ctx context.Context) map[string]model.Account {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.store.Load(ctx)
}

// Register creates an empty account record for a new username. The existence
// check and the write happen under the same lock, so two concurrent signups
// for one username cannot both succeed.
func (b *Bridge) Register(ctx context.Context, username, password string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	users := b.store.Load(ctx)
	if _, exists := users[username]; exists {
		return model.ErrDuplicateUser
	}

	users[username] = model.Account{
		Password:  password,
		Cart:      []model.CartLine{},
		Favorites: []string{},
		History:   []model.Order{},
	}

	if err := b.store.Save(ctx, users); err != nil {
		b.logger.Error().Err(err).Str("username", username).Msg("failed to persist new account")
		return fmt.Errorf("failed to persist new account: %w", err)
	}

	b.logger.Info().Str("username", username).Msg("account created")

	return nil
}
