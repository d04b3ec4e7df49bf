package model

import (
	"time"

	"github.com/google/uuid"
)

// CartLine is one entry in a cart: a (product, volume, price) combination with a
// bottle count. Price is captured at add-time and never re-derived from the
// catalogue afterwards.
type CartLine struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	VolumeML int     `json:"qte_ml"`
	Units    int     `json:"units"`
}

// Order is an immutable purchase record. Items are a snapshot of the cart at
// checkout time; Total is computed once and stored.
type Order struct {
	ID        uuid.UUID  `json:"id,omitempty"`
	Items     []CartLine `json:"items"`
	Total     float64    `json:"total"`
	Timestamp time.Time  `json:"timestamp"`
}

// NormalizeLines ensures every cart line carries a bottle count of at least 1.
// Records written before the units field existed unmarshal with zero units and
// default to 1. Pure and idempotent; applied on every read of a durable cart.
func NormalizeLines(lines []CartLine) []CartLine {
	normalized := make([]CartLine, len(lines))
	for i, line := range lines {
		if line.Units < 1 {
			line.Units = 1
		}
		normalized[i] = line
	}
	return normalized
}

// Account is the durable per-user record. Every account written to the store has
// all four fields present; the password is stored as given (plaintext, matching
// the legacy users file format).
type Account struct {
	Password  string     `json:"password"`
	Cart      []CartLine `json:"cart"`
	Favorites []string   `json:"favorites"`
	History   []Order    `json:"history"`
}
