package main

import (
	"context"
	"errors"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/teamhm/matrimony-backend/config"
	"github.com/teamhm/matrimony-backend/internal/domain/entity"
	"github.com/teamhm/matrimony-backend/internal/domain/repository"
	pginfra "github.com/teamhm/matrimony-backend/internal/infrastructure/postgres"
	"github.com/teamhm/matrimony-backend/pkg/helpers"
)

// Seeds the initial administrator account. Idempotent: reruns with the same
// ADMIN_EMAIL are a no-op.
func main() {
	_ = godotenv.Load()

	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	username := os.Getenv("ADMIN_USERNAME")
	name := os.Getenv("ADMIN_NAME")
	if email == "" || password == "" {
		log.Fatal("ADMIN_EMAIL and ADMIN_PASSWORD are required")
	}
	if username == "" {
		username = "admin"
	}
	if name == "" {
		name = "Administrator"
	}

	cfg := config.Load()
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	users := pginfra.NewUserRepository(pool)

	if _, err := users.GetByEmail(ctx, email); err == nil {
		log.Printf("admin %s already exists, nothing to do", email)
		return
	} else if !errors.Is(err, repository.ErrNotFound) {
		log.Fatalf("lookup failed: %v", err)
	}

	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	p := &entity.Profile{
		Name:       name,
		IsApproved: true,
	}
	u := &entity.User{
		Email:    email,
		Username: username,
		Password: hash,
		Role:     entity.RoleAdmin,
		Status:   entity.StatusActive,
	}
	if err := users.CreateWithProfile(ctx, u, p); err != nil {
		log.Fatalf("create admin: %v", err)
	}
	log.Printf("admin account created: %s (%s)", email, u.ID)
}
