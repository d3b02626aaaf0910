package web

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Shimmer088/template-backend-app/internal/auth"
	"github.com/Shimmer088/template-backend-app/internal/avatars"
	"github.com/Shimmer088/template-backend-app/internal/users"
)

// Handler carries everything the browser routes need. Built once at startup
// and injected; no package-level state.
type Handler struct {
	Users    *users.Repository
	Avatars  *avatars.Store
	Sessions *auth.Sessions
}

func NewHandler(repo *users.Repository, store *avatars.Store, sess *auth.Sessions) *Handler {
	return &Handler{Users: repo, Avatars: store, Sessions: sess}
}

// Routes mounts the browser-facing routes. The index sits behind
// RequireLogin so anonymous visitors land on the login form.
func (h *Handler) Routes(r *gin.Engine) {
	r.GET("/", h.Sessions.RequireLogin(), h.Index)
	r.GET("/login", h.LoginForm)
	r.POST("/login", h.Login)
	r.GET("/register", h.RegisterForm)
	r.POST("/register", h.Register)
	r.POST("/logout", h.Logout)
}

func (h *Handler) Index(c *gin.Context) {
	user := c.MustGet("user").(*users.User)
	c.HTML(http.StatusOK, "index.html", gin.H{"user": user})
}

func (h *Handler) LoginForm(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{"title": "Login"})
}

func (h *Handler) Login(c *gin.Context) {
	// Missing fields read as empty strings and fail verification below.
	username := c.PostForm("login")
	password := c.PostForm("password")

	user, err := h.Users.FindByUsername(c.Request.Context(), username)
	if err != nil {
		log.Printf("login lookup failed: %v", err)
		c.HTML(http.StatusInternalServerError, "login.html", gin.H{"title": "Login", "error": "Something went wrong. Try again later"})
		return
	}
	if user == nil || !users.CheckPassword(user.PasswordHash, password) {
		// Same message either way; never reveal whether the username exists.
		c.HTML(http.StatusUnauthorized, "login.html", gin.H{"title": "Login", "error": "Wrong username or password. Try again"})
		return
	}

	if err := h.Sessions.Login(c, user); err != nil {
		log.Printf("failed to save session for %s: %v", user.Username, err)
		c.HTML(http.StatusInternalServerError, "login.html", gin.H{"title": "Login", "error": "Something went wrong. Try again later"})
		return
	}

	c.Redirect(http.StatusFound, "/")
}

func (h *Handler) RegisterForm(c *gin.Context) {
	c.HTML(http.StatusOK, "registration.html", gin.H{"title": "Register"})
}

func (h *Handler) Register(c *gin.Context) {
	username := c.PostForm("username")
	email := c.PostForm("email")
	password := c.PostForm("password")

	if username == "" || email == "" || password == "" {
		c.HTML(http.StatusBadRequest, "registration.html", gin.H{"title": "Register", "error": "Username, email and password are required"})
		return
	}

	avatar := avatars.DefaultPath
	if file, ferr := c.FormFile("img"); ferr == nil {
		src, err := file.Open()
		if err != nil {
			c.HTML(http.StatusBadRequest, "registration.html", gin.H{"title": "Register", "error": "Could not read the uploaded file"})
			return
		}
		path, err := h.Avatars.Save(file.Filename, src)
		src.Close()
		if err != nil {
			if errors.Is(err, avatars.ErrNoExtension) {
				c.HTML(http.StatusBadRequest, "registration.html", gin.H{"title": "Register", "error": "Could not tell the file type from its name"})
				return
			}
			log.Printf("avatar upload failed: %v", err)
			c.HTML(http.StatusInternalServerError, "registration.html", gin.H{"title": "Register", "error": "Failed to store the uploaded file"})
			return
		}
		avatar = path
	}

	if _, err := h.Users.Create(c.Request.Context(), username, email, password, avatar); err != nil {
		if errors.Is(err, users.ErrDuplicate) {
			c.HTML(http.StatusConflict, "registration.html", gin.H{"title": "Register", "error": "Username or email already taken"})
			return
		}
		log.Printf("failed to create user %s: %v", username, err)
		c.HTML(http.StatusInternalServerError, "registration.html", gin.H{"title": "Register", "error": "Failed to create the account"})
		return
	}

	c.Redirect(http.StatusFound, "/login")
}

func (h *Handler) Logout(c *gin.Context) {
	if err := h.Sessions.Logout(c); err != nil {
		log.Printf("failed to clear session: %v", err)
	}
	c.Redirect(http.StatusFound, "/login")
}
