package handler_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSession(t *testing.T) {
	api := newTestAPI(t)

	token := api.newSession(t)
	assert.NotEmpty(t, token)

	// Each call mints a distinct session.
	assert.NotEqual(t, token, api.newSession(t))
}

func TestCreateSession_MethodNotAllowed(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/api/session", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestSignup(t *testing.T) {
	api := newTestAPI(t)
	token := api.newSession(t)

	rec := api.do(t, http.MethodPost, "/api/auth/signup", token, map[string]string{
		"username": "alice",
		"password": "s3cret",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Token string `json:"token"`
		User  string `json:"user"`
	}
	decode(t, rec, &resp)
	assert.Equal(t, token, resp.Token)
	assert.Equal(t, "alice", resp.User)
}

func TestSignup_WithoutTokenMintsASession(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"username": "alice",
		"password": "s3cret",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Token string `json:"token"`
	}
	decode(t, rec, &resp)
	assert.NotEmpty(t, resp.Token)

	// The minted token is live: the cart is reachable with it.
	cartRec := api.do(t, http.MethodGet, "/api/cart", resp.Token, nil)
	assert.Equal(t, http.StatusOK, cartRec.Code)
}

func TestSignup_Errors(t *testing.T) {
	api := newTestAPI(t)
	api.signup(t, "alice", "s3cret")

	tests := []struct {
		name       string
		body       map[string]string
		wantStatus int
		wantCode   string
	}{
		{
			name:       "duplicate username",
			body:       map[string]string{"username": "alice", "password": "other"},
			wantStatus: http.StatusConflict,
			wantCode:   "DUPLICATE_USER",
		},
		{
			name:       "missing username",
			body:       map[string]string{"password": "pw"},
			wantStatus: http.StatusBadRequest,
			wantCode:   "MISSING_FIELD",
		},
		{
			name:       "missing password",
			body:       map[string]string{"username": "bob"},
			wantStatus: http.StatusBadRequest,
			wantCode:   "MISSING_FIELD",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := api.newSession(t)
			rec := api.do(t, http.MethodPost, "/api/auth/signup", token, tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)

			var resp struct {
				Error string `json:"error"`
			}
			decode(t, rec, &resp)
			assert.Equal(t, tt.wantCode, resp.Error)
		})
	}
}

func TestLogin(t *testing.T) {
	api := newTestAPI(t)

	signupToken := api.signup(t, "alice", "s3cret")
	rec := api.do(t, http.MethodPost, "/api/auth/logout", signupToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	token := api.newSession(t)
	rec = api.do(t, http.MethodPost, "/api/auth/login", token, map[string]string{
		"username": "alice",
		"password": "s3cret",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Token string `json:"token"`
		User  string `json:"user"`
	}
	decode(t, rec, &resp)
	assert.Equal(t, token, resp.Token)
	assert.Equal(t, "alice", resp.User)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	api := newTestAPI(t)
	api.signup(t, "alice", "s3cret")

	token := api.newSession(t)
	rec := api.do(t, http.MethodPost, "/api/auth/login", token, map[string]string{
		"username": "alice",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var resp struct {
		Error string `json:"error"`
	}
	decode(t, rec, &resp)
	assert.Equal(t, "INVALID_CREDENTIALS", resp.Error)
}

func TestLogin_InvalidJSON(t *testing.T) {
	api := newTestAPI(t)
	token := api.newSession(t)

	rec := api.do(t, http.MethodPost, "/api/auth/login", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogout(t *testing.T) {
	api := newTestAPI(t)
	token := api.signup(t, "alice", "s3cret")

	rec := api.do(t, http.MethodPost, "/api/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// The session survives as anonymous; identity routes now refuse it.
	cartRec := api.do(t, http.MethodGet, "/api/cart", token, nil)
	assert.Equal(t, http.StatusUnauthorized, cartRec.Code)
}

func TestLogout_WithoutToken(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/auth/logout", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginPersistsAcrossSessions(t *testing.T) {
	api := newTestAPI(t)

	// First session: sign up, add to the cart, favorite a perfume, log out.
	token := api.signup(t, "alice", "s3cret")

	rec := api.do(t, http.MethodPost, "/api/cart/items", token, map[string]interface{}{
		"name": "Aventus", "qte_ml": 10, "units": 2,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = api.do(t, http.MethodPost, "/api/favorites", token, map[string]string{"name": "Layton"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = api.do(t, http.MethodPost, "/api/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Second session: everything hydrates back.
	fresh := api.newSession(t)
	rec = api.do(t, http.MethodPost, "/api/auth/login", fresh, map[string]string{
		"username": "alice", "password": "s3cret",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/cart", fresh, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var cartResp struct {
		Lines []struct {
			Name  string `json:"name"`
			Units int    `json:"units"`
		} `json:"lines"`
		ItemCount  int     `json:"item_count"`
		GrandTotal float64 `json:"grand_total"`
	}
	decode(t, rec, &cartResp)
	require.Len(t, cartResp.Lines, 1)
	assert.Equal(t, "Aventus", cartResp.Lines[0].Name)
	assert.Equal(t, 2, cartResp.Lines[0].Units)
	assert.Equal(t, 2, cartResp.ItemCount)
	assert.Equal(t, 240.0, cartResp.GrandTotal)

	rec = api.do(t, http.MethodGet, "/api/favorites", fresh, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var favResp struct {
		Favorites []string `json:"favorites"`
	}
	decode(t, rec, &favResp)
	assert.Equal(t, []string{"Layton"}, favResp.Favorites)
}
