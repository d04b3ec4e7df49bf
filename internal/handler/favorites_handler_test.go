package handler_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listFavorites(t *testing.T, api *testAPI, token string) []string {
	t.Helper()

	rec := api.do(t, http.MethodGet, "/api/favorites", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Favorites []string `json:"favorites"`
	}
	decode(t, rec, &resp)
	return resp.Favorites
}

func TestFavorites(t *testing.T) {
	api := newTestAPI(t)
	token := api.signup(t, "alice", "pw")

	assert.Empty(t, listFavorites(t, api, token))

	for _, name := range []string{"Layton", "Aventus"} {
		rec := api.do(t, http.MethodPost, "/api/favorites", token, map[string]string{"name": name})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	assert.Equal(t, []string{"Aventus", "Layton"}, listFavorites(t, api, token))
}

func TestFavorites_DuplicateAdd(t *testing.T) {
	api := newTestAPI(t)
	token := api.signup(t, "alice", "pw")

	for i := 0; i < 2; i++ {
		rec := api.do(t, http.MethodPost, "/api/favorites", token, map[string]string{"name": "Aventus"})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	assert.Equal(t, []string{"Aventus"}, listFavorites(t, api, token))
}

func TestFavorites_MissingName(t *testing.T) {
	api := newTestAPI(t)
	token := api.signup(t, "alice", "pw")

	rec := api.do(t, http.MethodPost, "/api/favorites", token, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFavorites_RequireAuthentication(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/api/favorites", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token := api.newSession(t)
	rec = api.do(t, http.MethodPost, "/api/favorites", token, map[string]string{"name": "Aventus"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestFavorites_NoDeleteRoute(t *testing.T) {
	api := newTestAPI(t)
	token := api.signup(t, "alice", "pw")

	rec := api.do(t, http.MethodDelete, "/api/favorites", token, nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
