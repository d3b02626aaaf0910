package api

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Shimmer088/template-backend-app/internal/auth"
	"github.com/Shimmer088/template-backend-app/internal/avatars"
	"github.com/Shimmer088/template-backend-app/internal/users"
)

// Handler serves the token-based JSON surface. The browser flow in
// internal/web is the primary interface; this mirrors it for API clients.
type Handler struct {
	Users  *users.Repository
	Tokens *auth.Service
}

func NewHandler(repo *users.Repository, tokens *auth.Service) *Handler {
	return &Handler{Users: repo, Tokens: tokens}
}

func (h *Handler) Routes(r *gin.Engine) {
	r.POST("/api/register", h.Register)
	r.POST("/api/login", h.Login)
	r.GET("/api/me", h.Tokens.RequireAuth(), h.Me)
}

type registerDTO struct {
	Username string `json:"username" binding:"required,min=3"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type loginDTO struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type userResponse struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Avatar    string    `json:"avatar"`
	CreatedAt time.Time `json:"created_at"`
}

func toResponse(u *users.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Avatar:    u.Avatar,
		CreatedAt: u.CreatedAt,
	}
}

func (h *Handler) Register(c *gin.Context) {
	var body registerDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.Users.Create(c.Request.Context(), body.Username, body.Email, body.Password, avatars.DefaultPath)
	if err != nil {
		if errors.Is(err, users.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": "username or email already taken"})
			return
		}
		log.Printf("api register failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create user"})
		return
	}

	c.JSON(http.StatusCreated, toResponse(user))
}

func (h *Handler) Login(c *gin.Context) {
	var dto loginDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.Users.FindByUsername(c.Request.Context(), dto.Username)
	if err != nil {
		log.Printf("api login lookup failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	if user == nil || !users.CheckPassword(user.PasswordHash, dto.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	tok, err := h.Tokens.GenerateToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": tok,
		"user":  toResponse(user),
	})
}

func (h *Handler) Me(c *gin.Context) {
	uidv, ok := c.Get("user_id")
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	uid := uidv.(uint)

	user, err := h.Users.FindByID(c.Request.Context(), uid)
	if err != nil || user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	c.JSON(http.StatusOK, toResponse(user))
}
