package store

import (
	"context"

	"decant-store/internal/model"
)

// AccountStore is the durable mapping of username to account record.
//
// Load never surfaces storage failures: a missing or unreadable backing store
// yields an empty mapping so the storefront stays browsable even when
// persistence is broken. Save overwrites the full mapping.
type AccountStore interface {
	Load(ctx context.Context) map[string]model.Account
	Save(ctx context.Context, users map[string]model.Account) error
}
