package auth_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/at-ishikawa/wordbridge/internal/auth"
	mock_user "github.com/at-ishikawa/wordbridge/internal/mocks/user"
	"github.com/at-ishikawa/wordbridge/internal/user"
)

const testSecret = "test-secret-key-32-bytes-long!!!"

func newAuthenticator(t *testing.T) (*auth.SessionAuthenticator, *mock_user.MockRepository, *user.User) {
	t.Helper()
	ctrl := gomock.NewController(t)
	users := mock_user.NewMockRepository(ctrl)
	alice, err := user.New("alice", "alice@example.com", "correct horse", user.RoleUser)
	require.NoError(t, err)

	store := auth.NewCookieStore([]byte(testSecret), 1800, false)
	return auth.NewSessionAuthenticator(store, nil, users, nil), users, alice
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.SessionName {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", auth.SessionName)
	return nil
}

// whoami echoes the identity found in the request context.
var whoami = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte(auth.FromContext(r.Context()).UserID))
})

func TestSessionAuthenticator_Login(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		setup       func(users *mock_user.MockRepository, alice *user.User)
		wantStatus  int
		wantCookie  bool
	}{
		{
			name:        "json credentials",
			contentType: "application/json",
			body:        `{"username":"alice","password":"correct horse"}`,
			setup: func(users *mock_user.MockRepository, alice *user.User) {
				users.EXPECT().FindByUsername(gomock.Any(), gomock.Any(), "alice").Return(alice, nil)
			},
			wantStatus: http.StatusOK,
			wantCookie: true,
		},
		{
			name:        "form credentials",
			contentType: "application/x-www-form-urlencoded",
			body:        url.Values{"username": {" alice "}, "password": {"correct horse"}}.Encode(),
			setup: func(users *mock_user.MockRepository, alice *user.User) {
				users.EXPECT().FindByUsername(gomock.Any(), gomock.Any(), "alice").Return(alice, nil)
			},
			wantStatus: http.StatusOK,
			wantCookie: true,
		},
		{
			name:        "wrong password",
			contentType: "application/json",
			body:        `{"username":"alice","password":"wrong"}`,
			setup: func(users *mock_user.MockRepository, alice *user.User) {
				users.EXPECT().FindByUsername(gomock.Any(), gomock.Any(), "alice").Return(alice, nil)
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:        "unknown user",
			contentType: "application/json",
			body:        `{"username":"mallory","password":"whatever"}`,
			setup: func(users *mock_user.MockRepository, alice *user.User) {
				users.EXPECT().FindByUsername(gomock.Any(), gomock.Any(), "mallory").Return(nil, user.ErrNotFound)
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:        "missing password",
			contentType: "application/json",
			body:        `{"username":"alice"}`,
			setup:       func(users *mock_user.MockRepository, alice *user.User) {},
			wantStatus:  http.StatusBadRequest,
		},
		{
			name:        "malformed json",
			contentType: "application/json",
			body:        `{`,
			setup:       func(users *mock_user.MockRepository, alice *user.User) {},
			wantStatus:  http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, users, alice := newAuthenticator(t)
			tt.setup(users, alice)

			req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", tt.contentType)
			rec := httptest.NewRecorder()
			a.LoginHandler().ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var found bool
			for _, c := range rec.Result().Cookies() {
				found = found || c.Name == auth.SessionName
			}
			assert.Equal(t, tt.wantCookie, found)
			if tt.wantCookie {
				assert.Contains(t, rec.Body.String(), alice.ID)
			}
		})
	}
}

func TestSessionAuthenticator_Middleware(t *testing.T) {
	a, users, alice := newAuthenticator(t)
	users.EXPECT().FindByUsername(gomock.Any(), gomock.Any(), "alice").Return(alice, nil)

	login := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"username":"alice","password":"correct horse"}`))
	login.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	a.LoginHandler().ServeHTTP(rec, login)
	require.Equal(t, http.StatusOK, rec.Code)
	cookie := sessionCookie(t, rec)

	t.Run("session cookie carries the identity", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(cookie)
		rec := httptest.NewRecorder()
		a.Middleware(whoami).ServeHTTP(rec, req)
		assert.Equal(t, alice.ID, rec.Body.String())
	})

	t.Run("no cookie is anonymous", func(t *testing.T) {
		rec := httptest.NewRecorder()
		a.Middleware(whoami).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Body.String())
	})

	t.Run("tampered cookie is anonymous", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: auth.SessionName, Value: cookie.Value + "x"})
		rec := httptest.NewRecorder()
		a.Middleware(whoami).ServeHTTP(rec, req)
		assert.Empty(t, rec.Body.String())
	})

	t.Run("logout expires the cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
		req.AddCookie(cookie)
		rec := httptest.NewRecorder()
		a.LogoutHandler().ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Less(t, sessionCookie(t, rec).MaxAge, 0)
	})
}

func TestRequireIdentity(t *testing.T) {
	h := auth.RequireIdentity(auth.SessionHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/session", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/auth/session", nil)
	req = req.WithContext(auth.WithIdentity(req.Context(), auth.Identity{UserID: "user-1"}))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user_id":"user-1"}`, rec.Body.String())
}
