package router

import (
	"fmt"
	"net/http"
	"strings"

	"decant-store/internal/handler"
	"decant-store/internal/middleware"
	"decant-store/internal/session"

	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
func New(
	authHandler *handler.AuthHandler,
	productHandler *handler.ProductHandler,
	cartHandler *handler.CartHandler,
	orderHandler *handler.OrderHandler,
	favoritesHandler *handler.FavoritesHandler,
	contactHandler *handler.ContactHandler,
	manager *session.Manager,
	chatbotURL string,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no session required)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	// The chat widget is an opaque third-party page; the API only hands out
	// its configured URL.
	mux.HandleFunc("/api/chat", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"url": %q}`, chatbotURL)
	})

	mux.HandleFunc("/api/session", authHandler.CreateSession)
	mux.HandleFunc("/api/auth/login", authHandler.Login)
	mux.HandleFunc("/api/auth/signup", authHandler.Signup)
	mux.HandleFunc("/api/auth/logout", authHandler.Logout)

	// Product handler function
	productRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		// Check if this is a request for a specific product ID
		if r.URL.Path != "/api/products" && r.URL.Path != "/api/products/" {
			productHandler.GetByID(w, r)
			return
		}
		productHandler.GetAll(w, r)
	}

	// Register product routes (both with and without trailing slash)
	mux.HandleFunc("/api/products", productRouteHandler)
	mux.HandleFunc("/api/products/", productRouteHandler)

	mux.HandleFunc("/api/cart", cartHandler.Get)
	mux.HandleFunc("/api/cart/items", cartHandler.AddLine)
	mux.HandleFunc("/api/cart/items/", cartHandler.SetUnits)
	mux.HandleFunc("/api/cart/remove", cartHandler.RemoveLines)
	mux.HandleFunc("/api/cart/clear", cartHandler.Clear)

	// Order handler function
	orderRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			orderHandler.Create(w, r)
			return
		}
		orderHandler.GetAll(w, r)
	}
	mux.HandleFunc("/api/orders", orderRouteHandler)

	// Favorites handler function
	favoritesRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			favoritesHandler.Add(w, r)
		case http.MethodGet:
			favoritesHandler.List(w, r)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}
	mux.HandleFunc("/api/favorites", favoritesRouteHandler)

	mux.HandleFunc("/api/contact", contactHandler.Send)

	mux.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			http.Error(w, "not found", http.StatusNotFound)
		}
	})

	// Apply middleware in order: Recovery -> Logging -> CORS -> SessionGate
	var h http.Handler = mux
	h = middleware.SessionGate(manager, logger)(h)
	h = middleware.CORS(h)
	h = middleware.Logging(logger)(h)
	h = middleware.Recovery(logger)(h)

	return h
}
