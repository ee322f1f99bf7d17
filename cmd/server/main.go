package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sb-insight/agreement-service/internal/agreement"
	"github.com/sb-insight/agreement-service/internal/api"
	"github.com/sb-insight/agreement-service/internal/config"
	"github.com/sb-insight/agreement-service/internal/mailer"
	"github.com/sb-insight/agreement-service/internal/pdf"
	"github.com/sb-insight/agreement-service/internal/ratelimit"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// checkPortAvailable verifies that the target port is not already in use.
func checkPortAvailable(host string, port int) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("port %d is already in use (addr %s): %v", port, addr, err)
	}
	ln.Close()
	return nil
}

func main() {
	log.Println("Agreement service starting")

	cfg, err := config.LoadFromEnv("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	host := cfg.Server.GetHost()
	port := cfg.Server.Port
	if err := checkPortAvailable(host, port); err != nil {
		log.Fatalf("Pre-flight check FAILED: %v", err)
	}

	// Database
	if cfg.Database.URL == "" {
		log.Fatal("DATABASE_URL is not configured")
	}
	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	pingCtx, cancelPing := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelPing()
	if err := db.PingContext(pingCtx); err != nil {
		log.Fatalf("Database pre-flight FAILED: %v", err)
	}
	log.Println("Database connection verified")

	// Legal text is configuration, not code
	terms, err := os.ReadFile(cfg.Agreement.TermsPath)
	if err != nil {
		log.Fatalf("Failed to read terms text from %s: %v", cfg.Agreement.TermsPath, err)
	}

	// Email dispatch
	sender, err := mailer.NewPostmarkSender(cfg.Postmark.ServerToken, cfg.Postmark.AccountToken, cfg.Postmark.From)
	if err != nil {
		log.Fatalf("Failed to create Postmark sender: %v", err)
	}
	template, err := mailer.NewTemplate(cfg.Agreement.GuidelinesURL, cfg.Agreement.MaterialURL)
	if err != nil {
		log.Fatalf("Failed to compile confirmation template: %v", err)
	}
	if cfg.Agreement.LicensorEmail == "" {
		log.Fatal("LICENSOR_EMAIL is not configured")
	}
	dispatcher := mailer.NewDispatcher(sender, template, cfg.Agreement.LicensorEmail, cfg.Postmark.Timeout())

	// Pipeline
	pipeline := agreement.NewPipeline(
		agreement.NewValidator(),
		agreement.NewPostgresStore(db),
		pdf.NewRenderer(string(terms)),
		dispatcher,
		cfg.Agreement.StoreTimeout(),
	)

	// Rate limiter (optional)
	var limiter *ratelimit.Limiter
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		limiter = ratelimit.New(rdb, cfg.Agreement.RateLimitPerMinute, time.Minute)
		log.Printf("Rate limiting enabled: %d submissions/minute per client", cfg.Agreement.RateLimitPerMinute)
	} else {
		log.Println("Rate limiting disabled (no Redis configured)")
	}

	server := api.NewServer(cfg.Server, pipeline, limiter)

	addr := fmt.Sprintf("%s:%d", host, port)
	go func() {
		log.Printf("Listening on %s", addr)
		if err := server.ListenAndServe(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
	log.Println("Server stopped")
}
