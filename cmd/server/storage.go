package main

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/iliyamo/recipe-catalog/internal/config"
	"github.com/iliyamo/recipe-catalog/internal/database"
	"github.com/iliyamo/recipe-catalog/internal/repository"
	"github.com/iliyamo/recipe-catalog/internal/repository/memory"
	"github.com/iliyamo/recipe-catalog/internal/service"
)

// storage bundles the repositories of the selected DB_DRIVER.
type storage struct {
	name        string
	chefs       service.ChefRepository
	ingredients service.IngredientRepository
	recipes     service.RecipeRepository
	ping        func(context.Context) error
	db          *sql.DB
}

func openStorage(ctx context.Context, cfg config.Config, logger *slog.Logger) (*storage, error) {
	if cfg.DBDriver == config.DriverMemory {
		mem := memory.New()
		logger.Warn("using in-memory storage, data is lost on restart")
		return &storage{
			name:        "memory",
			chefs:       mem.Chefs(),
			ingredients: mem.Ingredients(),
			recipes:     mem.Recipes(),
			ping:        func(context.Context) error { return nil },
		}, nil
	}

	db, err := database.Open(ctx, database.Options{
		User: cfg.DBUser,
		Pass: cfg.DBPass,
		Host: cfg.DBHost,
		Port: cfg.DBPort,
		Name: cfg.DBName,
	})
	if err != nil {
		return nil, err
	}
	logger.Info("connected to mysql", "host", cfg.DBHost, "db", cfg.DBName)
	return &storage{
		name:        "mysql",
		chefs:       repository.NewChefRepo(db),
		ingredients: repository.NewIngredientRepo(db),
		recipes:     repository.NewRecipeRepo(db),
		ping:        db.PingContext,
		db:          db,
	}, nil
}

func (s *storage) Close() {
	if s.db != nil {
		_ = s.db.Close()
	}
}
