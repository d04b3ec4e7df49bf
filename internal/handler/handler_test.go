package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"decant-store/internal/auth"
	"decant-store/internal/cart"
	"decant-store/internal/catalog"
	"decant-store/internal/checkout"
	"decant-store/internal/composition"
	"decant-store/internal/config"
	"decant-store/internal/favorites"
	"decant-store/internal/handler"
	"decant-store/internal/mailer"
	"decant-store/internal/middleware"
	"decant-store/internal/persist"
	"decant-store/internal/router"
	"decant-store/internal/session"
	"decant-store/internal/store"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// testAPI wires the full API over a throwaway file store, so handler tests
// exercise the same engine stack the server runs.
type testAPI struct {
	handler http.Handler
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	logger := zerolog.Nop()

	st := store.NewFileStore(filepath.Join(t.TempDir(), "users.json"), logger)
	bridge := persist.NewBridge(st, logger)

	cat := catalog.New([]catalog.Product{
		{ImageID: 1, Name: "Aventus", Category: "Parfum Homme", Price10: 120, Price20: 220, Price30: 300, ImagePath: "images/1.png"},
		{ImageID: 2, Name: "Delina", Category: "Parfum Femme", Price10: 90, Price20: 160, Price30: 220, ImagePath: "images/2.png"},
		{ImageID: 3, Name: "Layton", Category: "Parfum Mixte Niche", Price10: 60, Price20: 110, Price30: 150, ImagePath: "images/3.png"},
	})
	compositions := composition.Map{
		"AVENTUS": "Famille olfactive : Fruité Chypré\nNotes de tête : Ananas, Bergamote",
	}

	manager := session.NewManager(logger)
	authEngine := auth.NewEngine(bridge, logger)
	cartEngine := cart.NewEngine(bridge, logger)
	checkoutEngine := checkout.NewEngine(bridge, logger)
	favoritesEngine := favorites.NewEngine(bridge, logger)

	h := router.New(
		handler.NewAuthHandler(manager, authEngine, logger),
		handler.NewProductHandler(cat, compositions, logger),
		handler.NewCartHandler(manager, cartEngine, authEngine, cat, logger),
		handler.NewOrderHandler(manager, checkoutEngine, authEngine, logger),
		handler.NewFavoritesHandler(manager, favoritesEngine, authEngine, logger),
		handler.NewContactHandler(mailer.New(config.SMTPConfig{}, logger), logger),
		manager,
		"https://chat.example.com/widget",
		logger,
	)

	return &testAPI{handler: h}
}

// do performs a request against the API, JSON-encoding body when present.
func (a *testAPI) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(middleware.SessionTokenHeader, token)
	}

	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, into interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), into))
}

// newSession mints an anonymous session token.
func (a *testAPI) newSession(t *testing.T) string {
	t.Helper()

	rec := a.do(t, http.MethodPost, "/api/session", "", nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Token string `json:"token"`
	}
	decode(t, rec, &resp)
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

// signup creates an account and returns its authenticated session token.
func (a *testAPI) signup(t *testing.T, username, password string) string {
	t.Helper()

	token := a.newSession(t)
	rec := a.do(t, http.MethodPost, "/api/auth/signup", token, map[string]string{
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	return token
}
