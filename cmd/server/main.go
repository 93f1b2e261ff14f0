package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"selvaquiz/internal/api"
	"selvaquiz/internal/api/handlers"
	"selvaquiz/internal/authapi"
	"selvaquiz/internal/db"
	"selvaquiz/internal/gemini"
	"selvaquiz/internal/storage"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

const sessionName = "selvaquiz_session"

func init() {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Fatalf("FATAL: Error loading .env file: %v", err)
		}
		log.Println("WARN: .env file not found, relying on system environment variables")
	}
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Collaborators are optional: each constructor returns nil when its
	// configuration is absent, and the affected endpoints answer 500.
	database, err := db.NewDB(ctx)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if database != nil {
		defer database.Close()
	}

	geminiClient, err := gemini.NewClient(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Gemini client: %v", err)
	}
	if geminiClient != nil {
		defer geminiClient.Close()
	}

	storageClient, err := storage.NewClient(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize storage client: %v", err)
	}

	authClient, err := authapi.NewClient()
	if err != nil {
		log.Fatalf("Failed to initialize auth client: %v", err)
	}

	router := gin.Default()

	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		log.Println("WARN: SESSION_SECRET is not set, using an insecure default")
		secret = "insecure-dev-secret"
	}
	store := cookie.NewStore([]byte(secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	router.Use(sessions.Sessions(sessionName, store))

	// Nil concrete clients must stay nil interfaces, so each assignment is
	// guarded instead of done unconditionally.
	handler := &handlers.Handler{}
	if database != nil {
		handler.Store = database
	}
	if geminiClient != nil {
		handler.Gemini = geminiClient
	}
	if storageClient != nil {
		handler.Storage = storageClient
	}
	if authClient != nil {
		handler.Auth = authClient
	}

	api.SetupRoutes(router, handler)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	server := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		log.Printf("Server listening on port %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel = context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited properly")
}
