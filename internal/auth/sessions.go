package auth

import (
	"log"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"github.com/Shimmer088/template-backend-app/internal/users"
)

const sessionUserKey = "user_id"

// SessionMiddleware installs cookie-backed sessions signed with the app
// secret.
func SessionMiddleware(secret []byte) gin.HandlerFunc {
	store := cookie.NewStore(secret)
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400, // 24 hours
		HttpOnly: true,
	})
	return sessions.Sessions("session", store)
}

// Sessions resolves login state for browser requests against the user store.
type Sessions struct {
	users *users.Repository
}

func NewSessions(repo *users.Repository) *Sessions {
	return &Sessions{users: repo}
}

// Login binds the user's id to the request session.
func (s *Sessions) Login(c *gin.Context, u *users.User) error {
	sess := sessions.Default(c)
	sess.Set(sessionUserKey, u.ID)
	return sess.Save()
}

// Logout drops the session binding.
func (s *Sessions) Logout(c *gin.Context) error {
	sess := sessions.Default(c)
	sess.Delete(sessionUserKey)
	return sess.Save()
}

// CurrentUser returns the session-bound user, or nil for anonymous requests
// and dangling ids.
func (s *Sessions) CurrentUser(c *gin.Context) *users.User {
	id, ok := sessions.Default(c).Get(sessionUserKey).(uint)
	if !ok {
		return nil
	}
	u, err := s.users.FindByID(c.Request.Context(), id)
	if err != nil {
		log.Printf("session lookup for user %d failed: %v", id, err)
		return nil
	}
	return u
}

// RequireLogin redirects anonymous requests to the login page and exposes
// the resolved user to downstream handlers.
func (s *Sessions) RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		u := s.CurrentUser(c)
		if u == nil {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Set("user", u)
		c.Next()
	}
}
