package checkout

import (
	"context"
	"time"

	"decant-store/internal/cart"
	"decant-store/internal/model"
	"decant-store/internal/persist"
	"decant-store/internal/session"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Engine turns a non-empty cart into an immutable order appended to the
// purchase history.
type Engine struct {
	sync   persist.Syncer
	logger zerolog.Logger
}

// NewEngine creates a checkout engine.
func NewEngine(sync persist.Syncer, logger zerolog.Logger) *Engine {
	return &Engine{
		sync:   sync,
		logger: logger.With().Str("service", "checkout").Logger(),
	}
}

// Checkout snapshots the current cart into a new order, appends it to the
// history, empties the cart and flushes. Append happens before clear, in that
// fixed order, so the two effects always land together. An empty cart is
// refused rather than recorded as a zero-value order.
func (e *Engine) Checkout(ctx context.Context, sess *session.Session) (model.Order, error) {
	lines := model.NormalizeLines(sess.Cart)
	if len(lines) == 0 {
		return model.Order{}, model.ErrEmptyCart
	}

	items := make([]model.CartLine, len(lines))
	copy(items, lines)

	order := model.Order{
		ID:        uuid.New(),
		Items:     items,
		Total:     cart.GrandTotal(items),
		Timestamp: time.Now(),
	}

	sess.History = append(sess.History, order)
	sess.Cart = []model.CartLine{}

	if err := e.sync.Flush(ctx, sess); err != nil {
		return model.Order{}, err
	}

	e.logger.Info().
		Str("order_id", order.ID.String()).
		Str("username", sess.User).
		Int("items", len(order.Items)).
		Float64("total", order.Total).
		Msg("order placed")

	return order, nil
}
