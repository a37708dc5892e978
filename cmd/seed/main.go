package main

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-task-manager/config"
	"github.com/oksasatya/go-task-manager/internal/application"
	"github.com/oksasatya/go-task-manager/internal/domain/entity"
	pginfra "github.com/oksasatya/go-task-manager/internal/infrastructure/postgres"
	"github.com/oksasatya/go-task-manager/pkg/helpers"
)

// seed creates a demo account with a handful of tasks. Re-running it only
// logs in and adds nothing when the account already exists.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	jwt := helpers.NewJWTManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	auth := application.NewAuthService(pginfra.NewUserRepository(pool), jwt, nil, cfg.BcryptCost, logger)
	tasks := application.NewTaskService(pginfra.NewTaskRepository(pool), nil, logger, cfg.Location())

	email, password := "demo@example.com", "password123"
	res, err := auth.Register(ctx, application.RegisterInput{Username: "demo", Email: email, Password: password})
	if errors.Is(err, application.ErrDuplicateAccount) {
		logger.WithField("email", email).Info("demo user already exists, nothing to seed")
		return
	}
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}

	today := tasks.Today()
	in := func(days int) *time.Time {
		d := today.AddDate(0, 0, days)
		return &d
	}
	desc := "Outline, numbers, and a short summary for the team."
	samples := []application.CreateTaskInput{
		{Title: "Prepare quarterly report", Description: &desc, DueDate: in(3), Priority: entity.PriorityHigh},
		{Title: "Book dentist appointment", DueDate: in(10), Priority: entity.PriorityLow},
		{Title: "Review pull requests", DueDate: in(0)},
		{Title: "Read a book"},
	}
	for _, s := range samples {
		if _, err := tasks.Create(ctx, res.User.ID, s); err != nil {
			log.Fatalf("failed to seed task %q: %v", s.Title, err)
		}
	}
	logger.WithFields(map[string]any{"email": email, "password": password, "tasks": len(samples)}).Info("seeded demo account")
}
