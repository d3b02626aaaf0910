package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/Shimmer088/template-backend-app/internal/api"
	"github.com/Shimmer088/template-backend-app/internal/auth"
	"github.com/Shimmer088/template-backend-app/internal/avatars"
	"github.com/Shimmer088/template-backend-app/internal/config"
	"github.com/Shimmer088/template-backend-app/internal/database"
	"github.com/Shimmer088/template-backend-app/internal/users"
	"github.com/Shimmer088/template-backend-app/internal/web"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded, continuing with environment variables")
	}

	if m := os.Getenv("GIN_MODE"); m != "" {
		gin.SetMode(m)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	db, err := database.Connect(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	// create the users table
	if err := database.Migrate(db, &users.User{}); err != nil {
		log.Fatalf("migrations failed: %v", err)
	}

	repo := users.NewRepository(db)
	sessions := auth.NewSessions(repo)
	tokens := auth.NewService([]byte(cfg.SecretKey))
	uploads := avatars.NewStore(cfg.UploadDir)

	r := gin.Default()
	r.Use(auth.SessionMiddleware([]byte(cfg.SecretKey)))
	r.LoadHTMLGlob("templates/*.html")
	r.Static("/static", "./static")

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Browser routes
	web.NewHandler(repo, uploads, sessions).Routes(r)

	// Token-based API
	api.NewHandler(repo, tokens).Routes(r)

	log.Printf("listening on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
