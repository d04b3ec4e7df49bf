package auth

import (
	"context"

	"decant-store/internal/model"
	"decant-store/internal/persist"
	"decant-store/internal/session"

	"github.com/rs/zerolog"
)

// Engine handles login, signup and logout transitions between the durable
// account store and the session working copy.
type Engine struct {
	bridge *persist.Bridge
	logger zerolog.Logger
}

// NewEngine creates an auth engine.
func NewEngine(bridge *persist.Bridge, logger zerolog.Logger) *Engine {
	return &Engine{
		bridge: bridge,
		logger: logger.With().Str("service", "auth").Logger(),
	}
}

// Login checks the supplied credentials against the stored record. The
// comparison is an exact match on the stored plaintext password, byte for
// byte, matching the legacy account file format (a known security gap,
// preserved for compatibility rather than fixed here).
//
// On success the session is hydrated wholesale from the account record,
// replacing any anonymous working state. On failure the session is untouched.
func (e *Engine) Login(ctx context.Context, sess *session.Session, username, password string) bool {
	if username == "" || password == "" {
		return false
	}

	users := e.bridge.Snapshot(ctx)
	account, ok := users[username]
	if !ok || account.Password != password {
		e.logger.Warn().Str("username", username).Msg("login rejected")
		return false
	}

	account.Cart = model.NormalizeLines(account.Cart)
	sess.Hydrate(username, password, account)

	e.logger.Info().
		Str("username", username).
		Int("cart_lines", len(sess.Cart)).
		Int("orders", len(sess.History)).
		Msg("login succeeded")

	return true
}

// Signup creates a new account. The username must not already exist; the
// check is case-sensitive and exact, with no collision normalisation. On
// success the session is hydrated as an immediate login with empty state.
func (e *Engine) Signup(ctx context.Context, sess *session.Session, username, password string) error {
	if username == "" || password == "" {
		return model.ErrMissingCredentials
	}

	if err := e.bridge.Register(ctx, username, password); err != nil {
		return err
	}

	sess.Hydrate(username, password, model.Account{
		Cart:      []model.CartLine{},
		Favorites: []string{},
		History:   []model.Order{},
	})

	return nil
}

// Logout flushes the current working state to the durable record, then resets
// the session to the anonymous defaults. The reset happens even when the
// flush fails; the failure is still reported.
func (e *Engine) Logout(ctx context.Context, sess *session.Session) error {
	if !sess.Authenticated() {
		return nil
	}

	username := sess.User
	err := e.bridge.Flush(ctx, sess)
	sess.Reset()

	if err != nil {
		return err
	}

	e.logger.Info().Str("username", username).Msg("logged out")

	return nil
}

// RequireAuthenticated is the guard pages invoke before touching identity
// state. It signals rather than aborts; the caller renders the "must log in"
// response.
func (e *Engine) RequireAuthenticated(sess *session.Session) error {
	if !sess.Authenticated() {
		return model.ErrNotAuthenticated
	}
	return nil
}
