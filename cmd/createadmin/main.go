package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/joao-fontenele/storefront-admin/internal/auth"
	"github.com/joao-fontenele/storefront-admin/internal/config"
	"github.com/joao-fontenele/storefront-admin/internal/docstore"
	"github.com/joao-fontenele/storefront-admin/internal/domain"
	"github.com/joao-fontenele/storefront-admin/internal/users"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	email := flag.String("email", "", "admin email")
	name := flag.String("name", "", "display name")
	flag.Parse()

	password := os.Getenv("ADMIN_PASSWORD")
	if *email == "" || password == "" {
		logger.Error("usage: ADMIN_PASSWORD=... createadmin -email admin@example.com [-name Admin]")
		os.Exit(1)
	}

	cfg, _, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if cfg.DocstoreDriver == "memory" {
		logger.Error("createadmin needs a persistent DOCSTORE_DRIVER")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, closeStore, err := docstore.Open(ctx, cfg.DocstoreDriver, cfg.PostgresURL, cfg.FetchRetries)
	if err != nil {
		logger.Error("failed to open document store", "error", err)
		os.Exit(1)
	}
	defer func() { _ = closeStore() }()

	repo := users.NewUserRepository(store)

	user, err := repo.GetByEmail(ctx, *email)
	if err != nil {
		logger.Error("failed to look up user", "error", err)
		os.Exit(1)
	}
	if user == nil {
		now := time.Now().UTC()
		user = &domain.User{ID: uuid.NewString(), Email: *email, CreatedAt: &now}
	}
	if *name != "" {
		user.Name = *name
	}
	user.Role = domain.RoleAdmin

	user.PasswordHash, err = auth.HashPassword(password)
	if err != nil {
		logger.Error("failed to hash password", "error", err)
		os.Exit(1)
	}

	if err := repo.Save(ctx, user); err != nil {
		logger.Error("failed to save admin", "error", err)
		os.Exit(1)
	}

	logger.Info("admin saved", "user_id", user.ID, "email", user.Email)
}
