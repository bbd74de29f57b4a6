package router_test

import (
	"database/sql"
	"encoding/json"
	"go-auth-api/handler"
	"go-auth-api/model"
	"go-auth-api/repository"
	"go-auth-api/router"
	"go-auth-api/service"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

// fakeUserRepo is an in-memory IUserRepository so the full HTTP flow can
// run without a database.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User
}

var _ repository.IUserRepository = (*fakeUserRepo)(nil)

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

func (r *fakeUserRepo) Create(user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := *user
	u.CreatedAt = time.Now()
	r.users[user.UserID] = &u
	return nil
}

func (r *fakeUserRepo) GetByUserID(userID string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	u := *user
	return &u, nil
}

func (r *fakeUserRepo) GetPasswordByUserID(userID string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return "", sql.ErrNoRows
	}
	return user.Password, nil
}

func (r *fakeUserRepo) UpdateRefreshToken(userID string, refreshToken *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.users[userID]; ok {
		user.RefreshToken = refreshToken
	}
	return nil
}

func (r *fakeUserRepo) UpdateProfile(user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.users[user.UserID]
	if !ok {
		return sql.ErrNoRows
	}
	stored.Name = user.Name
	stored.Age = user.Age
	stored.Email = user.Email
	stored.PhoneNum = user.PhoneNum
	stored.Height = user.Height
	return nil
}

func newTestRouter(t *testing.T, repo repository.IUserRepository) (http.Handler, *service.TokenService) {
	t.Helper()

	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	refreshTTL := 7 * 24 * time.Hour
	tokens := service.NewTokenService([]byte("test-secret-test-secret-test-secret!"), time.Hour, refreshTTL)

	authService := service.NewAuthService(repo, tokens)
	userService := service.NewUserService(repo, cache)

	r := router.NewRouter(
		handler.NewUserHandler(userService),
		handler.NewAuthHandler(authService, refreshTTL),
		handler.NewProfileHandler(userService),
		handler.AuthMiddleware(tokens),
	)
	return r, tokens
}

func findCookie(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// TestSessionLifecycle walks the whole flow: signup, login, an
// authenticated profile call, logout, and a reissue attempt with the
// now-cleared refresh token.
func TestSessionLifecycle(t *testing.T) {
	repo := newFakeUserRepo()
	r, tokens := newTestRouter(t, repo)

	// --- Signup ---
	signupBody := `{"user_id":"u1","password":"p@ss1234","name":"Alex","age":30,"email":"alex@example.com","phone_num":"010-0000-0000","height":180}`
	req := httptest.NewRequest("POST", "/auth/signup", strings.NewReader(signupBody))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusCreated, rr.Code)

	// --- Login ---
	req = httptest.NewRequest("POST", "/auth/login", strings.NewReader(`{"user_id":"u1","password":"p@ss1234"}`))
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)

	var login model.LoginResponse
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &login))
	subject, err := tokens.Subject(login.AccessToken)
	assert.NoError(t, err)
	assert.Equal(t, "u1", subject)

	refreshCookie := findCookie(rr.Result(), "refreshToken")
	assert.NotNil(t, refreshCookie)
	assert.True(t, refreshCookie.HttpOnly)

	// The login persisted the refresh token on the account.
	stored, err := repo.GetByUserID("u1")
	assert.NoError(t, err)
	assert.NotNil(t, stored.RefreshToken)
	assert.Equal(t, refreshCookie.Value, *stored.RefreshToken)

	// --- Authenticated profile read ---
	req = httptest.NewRequest("GET", "/api/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+login.AccessToken)
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)

	var profile model.User
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &profile))
	assert.Equal(t, "u1", profile.UserID)
	assert.Equal(t, "Alex", profile.Name)

	// --- Logout (identity comes from the gate, not the payload) ---
	req = httptest.NewRequest("POST", "/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+login.AccessToken)
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)

	stored, err = repo.GetByUserID("u1")
	assert.NoError(t, err)
	assert.Nil(t, stored.RefreshToken)

	// --- Reissue with the old cookie is rejected ---
	req = httptest.NewRequest("POST", "/auth/reissue", nil)
	req.AddCookie(&http.Cookie{Name: "refreshToken", Value: refreshCookie.Value})
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

// TestSecondLoginSupersedesFirst checks single-session behavior: a second
// login rotates the stored refresh token, so the first one stops working.
func TestSecondLoginSupersedesFirst(t *testing.T) {
	repo := newFakeUserRepo()
	r, _ := newTestRouter(t, repo)

	signupBody := `{"user_id":"u1","password":"p@ss1234","name":"Alex","age":30,"email":"alex@example.com"}`
	req := httptest.NewRequest("POST", "/auth/signup", strings.NewReader(signupBody))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusCreated, rr.Code)

	loginOnce := func() *http.Cookie {
		req := httptest.NewRequest("POST", "/auth/login", strings.NewReader(`{"user_id":"u1","password":"p@ss1234"}`))
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
		cookie := findCookie(rr.Result(), "refreshToken")
		assert.NotNil(t, cookie)
		return cookie
	}

	first := loginOnce()
	second := loginOnce()
	assert.NotEqual(t, first.Value, second.Value)

	// The first session's refresh token was overwritten.
	req = httptest.NewRequest("POST", "/auth/reissue", nil)
	req.AddCookie(&http.Cookie{Name: "refreshToken", Value: first.Value})
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	// The second one still works.
	req = httptest.NewRequest("POST", "/auth/reissue", nil)
	req.AddCookie(&http.Cookie{Name: "refreshToken", Value: second.Value})
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)

	var body model.ReissueResponse
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.NotEmpty(t, body.AccessToken)
}

// TestProtectedRoutesRequireToken ensures the gate blocks unauthenticated
// access to everything outside the allow-list.
func TestProtectedRoutesRequireToken(t *testing.T) {
	repo := newFakeUserRepo()
	r, _ := newTestRouter(t, repo)

	for _, route := range []struct{ method, path string }{
		{"GET", "/api/users/me"},
		{"PUT", "/api/users/me"},
		{"POST", "/auth/logout"},
	} {
		req := httptest.NewRequest(route.method, route.path, strings.NewReader(`{}`))
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code, "%s %s should be gated", route.method, route.path)
	}
}

// TestProfileUpdate exercises the authenticated update path end to end.
func TestProfileUpdate(t *testing.T) {
	repo := newFakeUserRepo()
	r, _ := newTestRouter(t, repo)

	signupBody := `{"user_id":"u1","password":"p@ss1234","name":"Alex","age":30,"email":"alex@example.com"}`
	req := httptest.NewRequest("POST", "/auth/signup", strings.NewReader(signupBody))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusCreated, rr.Code)

	req = httptest.NewRequest("POST", "/auth/login", strings.NewReader(`{"user_id":"u1","password":"p@ss1234"}`))
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	var login model.LoginResponse
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &login))

	updateBody := `{"name":"Alexis","age":31,"email":"alexis@example.com","phone_num":"010-1111-1111","height":181}`
	req = httptest.NewRequest("PUT", "/api/users/me", strings.NewReader(updateBody))
	req.Header.Set("Authorization", "Bearer "+login.AccessToken)
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)

	req = httptest.NewRequest("GET", "/api/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+login.AccessToken)
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)

	var profile model.User
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &profile))
	assert.Equal(t, "Alexis", profile.Name)
	assert.Equal(t, 31, profile.Age)
}

// TestDuplicateSignup rejects re-registration of a taken id instead of
// overwriting the existing record.
func TestDuplicateSignup(t *testing.T) {
	repo := newFakeUserRepo()
	r, _ := newTestRouter(t, repo)

	signupBody := `{"user_id":"u1","password":"p@ss1234","name":"Alex","age":30,"email":"alex@example.com"}`
	for i, wantCode := range []int{http.StatusCreated, http.StatusConflict} {
		req := httptest.NewRequest("POST", "/auth/signup", strings.NewReader(signupBody))
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		assert.Equal(t, wantCode, rr.Code, "attempt %d", i+1)
	}
}
