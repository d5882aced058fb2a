package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/joho/godotenv"

	"github.com/Saksham-w/askme/internal/api"
	"github.com/Saksham-w/askme/internal/auth"
	"github.com/Saksham-w/askme/internal/config"
	"github.com/Saksham-w/askme/internal/database"
	"github.com/Saksham-w/askme/internal/logger"
	"github.com/Saksham-w/askme/internal/mailer"
	"github.com/Saksham-w/askme/internal/message"
	"github.com/Saksham-w/askme/internal/repository"
	"github.com/Saksham-w/askme/internal/suggest"
	"github.com/Saksham-w/askme/internal/token"
)

func init() {
	// Load environment variables from .env file.
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}
}

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	appLogger := logger.New(cfg.LogLevel)

	// Create a context for initialization.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := database.Connect(ctx, cfg.Mongo.URI)
	if err != nil {
		appLogger.Fatal("failed to connect to MongoDB", "error", err.Error())
	}
	appLogger.Info("connected to MongoDB")
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			appLogger.Error("error disconnecting from DB", "error", err.Error())
		}
	}()

	users := repository.NewMongoUserRepository(database.UserCollection(client, cfg.Mongo.Database))
	tokens := token.NewManager(cfg.JWT.Secret)
	mail := mailer.NewSMTPMailer(cfg.SMTP)
	authService := auth.NewService(users, mail, tokens, appLogger)
	messageService := message.NewService(users, appLogger)
	suggestClient := suggest.NewClient(cfg.Suggest.URL, appLogger)

	handler := api.NewHandler(authService, messageService, suggestClient, appLogger)
	router := api.NewRouter(handler, tokens)

	// Wrap the router with logging middleware.
	loggedRouter := handlers.LoggingHandler(os.Stdout, router)

	addr := ":" + cfg.Port
	srv := &http.Server{
		Handler:      loggedRouter,
		Addr:         addr,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start the server in a goroutine.
	go func() {
		appLogger.Info("server running", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("server error", "error", err.Error())
		}
	}()

	// Wait for interrupt signals for graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	appLogger.Info("shutting down server")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		appLogger.Fatal("server forced to shutdown", "error", err.Error())
	}
	appLogger.Info("server exiting gracefully")
}
