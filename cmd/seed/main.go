// Command seed loads the demo users, payment methods, restaurants and menus.
//
//	seed [-reset] [-log-level info]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/foodorder/backend/internal/domain/access"
	"github.com/foodorder/backend/internal/infrastructure/config"
	"github.com/foodorder/backend/internal/infrastructure/crypto"
	"github.com/foodorder/backend/internal/infrastructure/logger"
	"github.com/foodorder/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

func main() {
	var (
		reset    bool
		logLevel string
	)
	flag.BoolVar(&reset, "reset", false, "Delete all existing data before seeding")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	db, err := persistence.Open(context.Background(), &cfg.Database, persistence.WithGormLogger(
		logger.NewGormLogger(log, logger.DefaultGormConfig(logger.GormLevel(logLevel)))))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		_ = db.Close()
	}()

	if cfg.Crypto.EncryptionKey == "" {
		log.Fatal("An encryption key is required to seed payment methods; set ENCRYPTION_KEY")
	}
	cipher, err := crypto.NewAESCipher(cfg.Crypto.EncryptionKey)
	if err != nil {
		log.Fatal("Invalid encryption key", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	s := &seeder{db: db.DB, cipher: cipher, logger: log}
	result, err := s.Run(ctx, reset)
	if errors.Is(err, errAlreadySeeded) {
		log.Warn("Nothing to do", zap.Error(err))
		return
	}
	if err != nil {
		log.Fatal("Seeding failed", zap.Error(err))
	}

	log.Info("Database seeded",
		zap.Int("users", result.Users),
		zap.Int("payment_methods", result.PaymentMethods),
		zap.Int("restaurants", result.Restaurants),
		zap.Int("menu_items", result.MenuItems),
	)
	printCredentials()
}

func printCredentials() {
	fmt.Println("\nDemo credentials:")
	for _, u := range demoUsers {
		role := string(u.Role)
		if u.Role == access.RoleAdmin {
			role += " (all countries)"
		}
		fmt.Printf("  %-30s %-12s %-8s %s\n", u.Email, u.Password, u.Country, role)
	}
}
