package session

import (
	"sort"
	"sync"

	"decant-store/internal/model"
)

// Pages is the fixed navigation surface of the storefront.
var Pages = []string{
	"home",
	"men",
	"women",
	"mixed-niche",
	"chatbot",
	"cart",
	"history",
	"favorites",
	"contact",
	"login",
}

// DefaultPage is where unknown or unset pages fall back to.
const DefaultPage = "home"

// Session is the per-browser-session working copy of a user's mutable shopping
// state. It exclusively owns its cart, favorites and history for the lifetime
// of the session; the durable store is the source of truth between sessions.
type Session struct {
	mu sync.Mutex

	User      string
	Password  string
	Cart      []model.CartLine
	Favorites map[string]struct{}
	History   []model.Order
	Page      string
}

// New creates a session with all fields defaulted to the anonymous state.
func New() *Session {
	return &Session{
		Cart:      []model.CartLine{},
		Favorites: map[string]struct{}{},
		History:   []model.Order{},
		Page:      DefaultPage,
	}
}

// Lock serialises access to the working copies. Handlers take it for the
// duration of one interaction, so each session sees one request at a time.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the session.
func (s *Session) Unlock() { s.mu.Unlock() }

// Authenticated reports whether an identity is active.
func (s *Session) Authenticated() bool {
	return s.User != ""
}

// Hydrate replaces the session state wholesale from a durable account record.
// Any anonymous working state is discarded, not merged. The favorites list is
// deduplicated into the working set; the caller normalises the cart.
func (s *Session) Hydrate(username, password string, account model.Account) {
	s.User = username
	s.Password = password

	s.Cart = make([]model.CartLine, len(account.Cart))
	copy(s.Cart, account.Cart)

	s.Favorites = make(map[string]struct{}, len(account.Favorites))
	for _, name := range account.Favorites {
		s.Favorites[name] = struct{}{}
	}

	s.History = make([]model.Order, len(account.History))
	copy(s.History, account.History)
}

// Reset returns the session to the anonymous defaults. The page is preserved;
// only identity and working copies are cleared.
func (s *Session) Reset() {
	s.User = ""
	s.Password = ""
	s.Cart = []model.CartLine{}
	s.Favorites = map[string]struct{}{}
	s.History = []model.Order{}
}

// FavoriteNames returns the favorites as a deterministically ordered list,
// which keeps durable round-trips stable.
func (s *Session) FavoriteNames() []string {
	names := make([]string, 0, len(s.Favorites))
	for name := range s.Favorites {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SetPage records the current page, falling back to the default when the name
// is not a known page.
func (s *Session) SetPage(page string) {
	for _, p := range Pages {
		if p == page {
			s.Page = page
			return
		}
	}
	s.Page = DefaultPage
}
