package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/gorilla/sessions"
	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/wordbridge/internal/user"
)

const (
	SessionName = "wordbridge_session"
	userIDKey   = "user_id"
)

var errInvalidCredentials = errors.New("invalid username or password")

// NewCookieStore returns a cookie store for session cookies that live for maxAge seconds.
func NewCookieStore(secret []byte, maxAge int, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore(secret)
	store.MaxAge(maxAge)
	store.Options.Path = "/"
	store.Options.HttpOnly = true
	store.Options.Secure = secure
	store.Options.SameSite = http.SameSiteLaxMode
	return store
}

// SessionAuthenticator verifies credentials and keeps the user id in a signed cookie.
type SessionAuthenticator struct {
	store  sessions.Store
	db     *sqlx.DB
	users  user.Repository
	logger *slog.Logger
}

func NewSessionAuthenticator(store sessions.Store, db *sqlx.DB, users user.Repository, logger *slog.Logger) *SessionAuthenticator {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionAuthenticator{
		store:  store,
		db:     db,
		users:  users,
		logger: logger,
	}
}

// Middleware puts the session's identity into the request context.
// Requests without a valid session continue anonymously; protected operations reject them.
func (a *SessionAuthenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := a.store.Get(r, SessionName)
		if err != nil {
			a.logger.Debug("ignoring unreadable session cookie", "error", err)
			next.ServeHTTP(w, r)
			return
		}
		if userID, ok := session.Values[userIDKey].(string); ok && userID != "" {
			r = r.WithContext(WithIdentity(r.Context(), Identity{UserID: userID}))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireIdentity responds 401 to requests that reach it without an identity.
func RequireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if FromContext(r.Context()).Anonymous() {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type sessionResponse struct {
	UserID   string `json:"user_id"`
	Username string `json:"username,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// LoginHandler accepts a JSON body or a form with username and password.
func (a *SessionAuthenticator) LoginHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := decodeLogin(r)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}

		u, err := a.authenticate(r, req)
		if err != nil {
			if errors.Is(err, errInvalidCredentials) {
				a.logger.Info("login rejected", "username", req.Username)
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
				return
			}
			a.logger.Error("failed to authenticate", "username", req.Username, "error", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
			return
		}

		// A fresh session is created even when the old cookie could not be decoded.
		session, _ := a.store.Get(r, SessionName)
		session.Values[userIDKey] = u.ID
		if err := session.Save(r, w); err != nil {
			a.logger.Error("failed to save session", "user_id", u.ID, "error", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
			return
		}

		a.logger.Info("user logged in", "user_id", u.ID)
		writeJSON(w, http.StatusOK, sessionResponse{UserID: u.ID, Username: u.Username})
	})
}

// LogoutHandler expires the session cookie.
func (a *SessionAuthenticator) LogoutHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, _ := a.store.Get(r, SessionName)
		delete(session.Values, userIDKey)
		session.Options.MaxAge = -1
		if err := session.Save(r, w); err != nil {
			a.logger.Error("failed to clear session", "error", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

// SessionHandler reports the identity of the current session.
func SessionHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, sessionResponse{UserID: FromContext(r.Context()).UserID})
	})
}

func (a *SessionAuthenticator) authenticate(r *http.Request, req loginRequest) (*user.User, error) {
	u, err := a.users.FindByUsername(r.Context(), a.db, req.Username)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, err
	}
	if !u.CheckPassword(req.Password) {
		return nil, errInvalidCredentials
	}
	return u, nil
}

func decodeLogin(r *http.Request) (loginRequest, error) {
	var req loginRequest
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return req, errors.New("malformed JSON body")
		}
	} else {
		if err := r.ParseForm(); err != nil {
			return req, errors.New("malformed form body")
		}
		req.Username = r.PostForm.Get("username")
		req.Password = r.PostForm.Get("password")
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return req, errors.New("username and password are required")
	}
	return req, nil
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
