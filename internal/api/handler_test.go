package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Shimmer088/template-backend-app/internal/auth"
	"github.com/Shimmer088/template-backend-app/internal/database"
	"github.com/Shimmer088/template-backend-app/internal/users"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Connect(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := database.Migrate(db, &users.User{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	r := gin.New()
	NewHandler(users.NewRepository(db), auth.NewService([]byte("test-secret"))).Routes(r)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, payload interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			t.Fatalf("encode payload: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAPIRegisterLoginMe(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/register", gin.H{
		"username": "alice",
		"email":    "a@x.com",
		"password": "hunter2!",
	}, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("register: code=%d body=%s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodPost, "/api/login", gin.H{
		"username": "alice",
		"password": "hunter2!",
	}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("login: code=%d body=%s", w.Code, w.Body.String())
	}
	var loginResp struct {
		Token string `json:"token"`
		User  struct {
			Username string `json:"username"`
		} `json:"user"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &loginResp); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if loginResp.Token == "" || loginResp.User.Username != "alice" {
		t.Fatalf("unexpected login response: %s", w.Body.String())
	}

	w = doJSON(t, r, http.MethodGet, "/api/me", nil, loginResp.Token)
	if w.Code != http.StatusOK {
		t.Fatalf("me: code=%d body=%s", w.Code, w.Body.String())
	}
	var me struct {
		Username string `json:"username"`
		Email    string `json:"email"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &me); err != nil {
		t.Fatalf("decode me: %v", err)
	}
	if me.Username != "alice" || me.Email != "a@x.com" {
		t.Fatalf("unexpected me response: %s", w.Body.String())
	}
}

func TestAPIRegisterValidation(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/register", gin.H{
		"username": "alice",
		"email":    "not-an-email",
		"password": "hunter2!",
	}, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("code=%d, want 400", w.Code)
	}
}

func TestAPIRegisterDuplicate(t *testing.T) {
	r := newTestRouter(t)

	payload := gin.H{"username": "alice", "email": "a@x.com", "password": "hunter2!"}
	if w := doJSON(t, r, http.MethodPost, "/api/register", payload, ""); w.Code != http.StatusCreated {
		t.Fatalf("first register: code=%d", w.Code)
	}
	if w := doJSON(t, r, http.MethodPost, "/api/register", payload, ""); w.Code != http.StatusConflict {
		t.Fatalf("duplicate register: code=%d, want 409", w.Code)
	}
}

func TestAPILoginInvalidCredentials(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/login", gin.H{
		"username": "nobody",
		"password": "whatever",
	}, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("code=%d, want 401", w.Code)
	}
}

func TestAPIMeRequiresToken(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/me", nil, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("code=%d, want 401", w.Code)
	}

	w = doJSON(t, r, http.MethodGet, "/api/me", nil, "garbage")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("garbage token: code=%d, want 401", w.Code)
	}
}
