package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/jyotir-aditya/fullstackAssignment/config"
	"github.com/jyotir-aditya/fullstackAssignment/internal/domain/entity"
	repo "github.com/jyotir-aditya/fullstackAssignment/internal/domain/repository"
	pginfra "github.com/jyotir-aditya/fullstackAssignment/internal/infrastructure/postgres"
	"github.com/jyotir-aditya/fullstackAssignment/pkg/helpers"
)

type sample struct {
	name, description, category string
	price, rating               float64
}

var samples = []sample{
	{"Wireless Mouse", "Ergonomic 2.4GHz mouse", "Electronics", 24.99, 4.3},
	{"Mechanical Keyboard", "Tenkeyless, brown switches", "Electronics", 89.00, 4.7},
	{"USB-C Hub", "7-in-1 adapter with HDMI", "Electronics", 39.50, 4.1},
	{"Noise Cancelling Headphones", "Over-ear, 30h battery", "Electronics", 199.99, 4.6},
	{"Claw Hammer", "16oz steel hammer", "Tools", 14.25, 4.4},
	{"Cordless Drill", "18V with two batteries", "Tools", 79.99, 4.5},
	{"Tape Measure", "25ft locking tape", "Tools", 9.99, 4.2},
	{"Screwdriver Set", "32 piece precision set", "Tools", 19.90, 4.0},
	{"Desk Lamp", "LED with dimmer", "Home", 29.00, 3.9},
	{"Coffee Grinder", "Burr grinder, 18 settings", "Home", 49.95, 4.4},
	{"Water Bottle", "1L insulated steel", "Outdoors", 22.00, 4.8},
	{"Camping Stove", "Compact butane stove", "Outdoors", 34.99, 4.1},
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		helpers.NewLogger("seed", "production").WithError(err).Fatal("invalid configuration")
	}
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	if cfg.UseMemoryStorage() {
		logger.Fatal("seeding requires STORAGE_DRIVER=postgres")
	}

	email := entity.NormalizeEmail(getenvDefault("SEED_USER_EMAIL", "demo@example.com"))
	password := os.Getenv("SEED_USER_PASSWORD")
	if password == "" {
		logger.Fatal("SEED_USER_PASSWORD is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pginfra.NewPool(ctx, cfg.DatabaseURL(), pginfra.PoolOptions{AppName: cfg.AppName + "-seed", MaxConns: 2, MinConns: 1, MaxConnLife: time.Minute})
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to postgres")
	}
	defer pool.Close()

	users := pginfra.NewUserRepository(pool)
	products := pginfra.NewProductRepository(pool)

	u, err := users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		logger.WithField("user_id", u.ID).Info("seed user exists")
	case errors.Is(err, repo.ErrNotFound):
		hash, herr := helpers.HashPassword(password)
		if herr != nil {
			logger.WithError(herr).Fatal("failed to hash password")
		}
		u = &entity.User{Email: email, Password: hash, Role: entity.DefaultRole}
		if err := users.Create(ctx, u); err != nil {
			logger.WithError(err).Fatal("failed to seed user")
		}
		logger.WithFields(logrus.Fields{"user_id": u.ID, "email": u.Email}).Info("seeded user")
	default:
		logger.WithError(err).Fatal("failed to look up seed user")
	}

	created := 0
	for _, s := range samples {
		ownerID := u.ID
		p := &entity.Product{
			Name:        s.name,
			Description: s.description,
			Category:    s.category,
			Price:       s.price,
			Rating:      s.rating,
			UserID:      &ownerID,
		}
		if err := products.Create(ctx, p); err != nil {
			logger.WithError(err).WithField("name", s.name).Fatal("failed to seed product")
		}
		created++
	}
	logger.WithField("count", created).Info("seeded products")
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
