package cart

import (
	"context"
	"sort"

	"decant-store/internal/model"
	"decant-store/internal/persist"
	"decant-store/internal/session"

	"github.com/rs/zerolog"
)

// Engine mutates a session's cart and keeps the durable record in sync. Every
// state-changing operation flushes through the sync bridge.
type Engine struct {
	sync   persist.Syncer
	logger zerolog.Logger
}

// NewEngine creates a cart engine.
func NewEngine(sync persist.Syncer, logger zerolog.Logger) *Engine {
	return &Engine{
		sync:   sync,
		logger: logger.With().Str("service", "cart").Logger(),
	}
}

// AddLine appends a new cart line. A non-positive bottle count is coerced to
// 1. Identical lines are never merged: each add is its own line, as the
// storefront has always behaved.
func (e *Engine) AddLine(ctx context.Context, sess *session.Session, name string, price float64, volumeML, units int) error {
	if units < 1 {
		units = 1
	}

	sess.Cart = append(sess.Cart, model.CartLine{
		Name:     name,
		Price:    price,
		VolumeML: volumeML,
		Units:    units,
	})

	e.logger.Debug().
		Str("product", name).
		Int("volume_ml", volumeML).
		Int("units", units).
		Int("cart_lines", len(sess.Cart)).
		Msg("line added to cart")

	return e.sync.Flush(ctx, sess)
}

// SetLineUnits overwrites the bottle count of the line at index. The flush is
// skipped when the value did not change, which avoids redundant writes on
// unrelated re-renders.
func (e *Engine) SetLineUnits(ctx context.Context, sess *session.Session, index, units int) error {
	if units < 1 {
		return model.ErrInvalidQuantity
	}

	if index < 0 || index >= len(sess.Cart) {
		return model.ErrLineNotFound
	}

	if sess.Cart[index].Units == units {
		return nil
	}

	sess.Cart[index].Units = units

	return e.sync.Flush(ctx, sess)
}

// RemoveLines removes the lines at the given positions. Positions are
// processed in descending order so earlier removals cannot shift the indices
// of later ones. Out-of-range positions are ignored.
func (e *Engine) RemoveLines(ctx context.Context, sess *session.Session, indices []int) error {
	sorted := make([]int, len(indices))
	copy(sorted, indices)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))

	removed := 0
	previous := -1
	for _, idx := range sorted {
		if idx == previous {
			continue
		}
		previous = idx

		if idx < 0 || idx >= len(sess.Cart) {
			continue
		}
		sess.Cart = append(sess.Cart[:idx], sess.Cart[idx+1:]...)
		removed++
	}

	if removed == 0 {
		return nil
	}

	e.logger.Debug().
		Int("removed", removed).
		Int("cart_lines", len(sess.Cart)).
		Msg("lines removed from cart")

	return e.sync.Flush(ctx, sess)
}

// Clear empties the cart.
func (e *Engine) Clear(ctx context.Context, sess *session.Session) error {
	sess.Cart = []model.CartLine{}
	return e.sync.Flush(ctx, sess)
}

// Normalize ensures every line has a bottle count of at least 1. Idempotent;
// applied to every cart read from durable storage.
func (e *Engine) Normalize(lines []model.CartLine) []model.CartLine {
	return model.NormalizeLines(lines)
}

// ItemCount returns the total number of bottles in the live working cart.
func (e *Engine) ItemCount(sess *session.Session) int {
	count := 0
	for _, line := range sess.Cart {
		units := line.Units
		if units < 1 {
			units = 1
		}
		count += units
	}
	return count
}

// LineTotal returns the price of one cart line.
func LineTotal(line model.CartLine) float64 {
	return line.Price * float64(line.Units)
}

// GrandTotal returns the sum of line totals.
func GrandTotal(lines []model.CartLine) float64 {
	total := 0.0
	for _, line := range lines {
		total += LineTotal(line)
	}
	return total
}
