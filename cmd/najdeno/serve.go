package main

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"
	"log/slog"
	"math/big"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"

	"github.com/erazemk/najdeno/internal/api"
	"github.com/erazemk/najdeno/internal/blob"
	"github.com/erazemk/najdeno/internal/db"
	"github.com/erazemk/najdeno/internal/model"
	"github.com/erazemk/najdeno/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the registry HTTP server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String(cfgKeyAddr, ":8080", "listen address")
	serveCmd.Flags().String(cfgKeyUploadsDir, "uploads", "directory for stored item photos")
	serveCmd.Flags().String(cfgKeyAdminUser, "admin", "admin username created on first run")
}

func runServe(cmd *cobra.Command, args []string) error {
	dbPath := viper.GetString(cfgKeyDB)
	addr := viper.GetString(cfgKeyAddr)
	uploadsDir := viper.GetString(cfgKeyUploadsDir)
	adminUser := viper.GetString(cfgKeyAdminUser)

	firstRun := false
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		firstRun = true
	}

	database, err := db.Open(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Schema, migrations, and category seed are idempotent.
	if err := db.Migrate(database); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}
	slog.Info("database ready", "path", dbPath)

	if firstRun {
		password, err := seedAdmin(database, adminUser)
		if err != nil {
			return fmt.Errorf("creating admin account: %w", err)
		}
		printAdminCredentials(adminUser, password)
	}

	// Load JWT secret from the database (auto-generated on first run).
	jwtSecret, err := store.GetJWTSecret(context.Background(), database)
	if err != nil {
		return fmt.Errorf("getting JWT secret: %w", err)
	}

	blobs, err := blob.NewStore(uploadsDir, "/uploads")
	if err != nil {
		return fmt.Errorf("setting up blob store: %w", err)
	}

	server := &http.Server{
		Addr:              addr,
		Handler:           api.NewRouter(database, jwtSecret, blobs),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-quit
		slog.Info("shutdown signal received", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
	}()

	slog.Info("server started", "addr", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	slog.Info("server stopped, closing database")
	return nil
}

// seedAdmin creates the initial admin account with a generated password.
func seedAdmin(database *sql.DB, username string) (string, error) {
	password, err := generatePassword(16)
	if err != nil {
		return "", fmt.Errorf("generating password: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}

	if _, err := store.CreateUser(context.Background(), database, username, string(hash), model.RoleAdmin); err != nil {
		return "", err
	}

	return password, nil
}

// printAdminCredentials prints the first-run admin credentials to stdout.
func printAdminCredentials(username, password string) {
	fmt.Println("Admin account created:")
	fmt.Printf("  Username: %s\n", username)
	fmt.Printf("  Password: %s\n", password)
	fmt.Println()
	fmt.Println("Save this password — it cannot be recovered.")
	fmt.Println("The admin can change it after logging in.")
	fmt.Println()
}

// generatePassword creates a random password of the given length.
func generatePassword(length int) (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%&*"
	result := make([]byte, length)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		result[i] = charset[n.Int64()]
	}
	return string(result), nil
}
