package main

import (
	"log/slog"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/GalihRensuke/GalyarderOS-sub001/internal/config"
	"github.com/GalihRensuke/GalyarderOS-sub001/internal/database"
	"github.com/GalihRensuke/GalyarderOS-sub001/internal/handlers"
	"github.com/GalihRensuke/GalyarderOS-sub001/internal/ritual"
	"github.com/GalihRensuke/GalyarderOS-sub001/internal/routes"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Connect(cfg)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	service := ritual.NewService(db)
	h := handlers.New(db, service, cfg)

	app := fiber.New(fiber.Config{
		AppName: "galyarder-rituals",
	})
	app.Use(recover.New())
	app.Use(logger.New())

	routes.Setup(app, h, cfg.JWTSecret)

	slog.Info("starting server", "port", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
