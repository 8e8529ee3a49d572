package handlers

import (
	"errors"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/GalihRensuke/GalyarderOS-sub001/internal/config"
	"github.com/GalihRensuke/GalyarderOS-sub001/internal/models"
	"github.com/GalihRensuke/GalyarderOS-sub001/internal/ritual"
	"github.com/GalihRensuke/GalyarderOS-sub001/internal/validation"
)

// Handler carries the wired dependencies for every endpoint. Constructed
// once in main; holds no request state.
type Handler struct {
	db       *gorm.DB
	service  *ritual.Service
	validate *validator.Validate
	cfg      *config.Config
}

func New(db *gorm.DB, service *ritual.Service, cfg *config.Config) *Handler {
	return &Handler{
		db:       db,
		service:  service,
		validate: validator.New(),
		cfg:      cfg,
	}
}

func ok(c *fiber.Ctx, data interface{}) error {
	return c.JSON(models.APIResponse{Success: true, Data: data})
}

func created(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(models.APIResponse{Success: true, Data: data})
}

func fail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(models.APIResponse{Success: false, Error: msg})
}

// serviceError maps engine error kinds onto HTTP statuses. Not-found and
// not-yours share a 404 surface.
func serviceError(c *fiber.Ctx, err error) error {
	var vErr *validation.Error
	switch {
	case errors.As(err, &vErr):
		return fail(c, fiber.StatusBadRequest, vErr.Error())
	case errors.Is(err, ritual.ErrNotFound):
		return fail(c, fiber.StatusNotFound, "Ritual not found")
	case errors.Is(err, ritual.ErrRitualInactive):
		return fail(c, fiber.StatusBadRequest, "Ritual is not active")
	case errors.Is(err, ritual.ErrInvalidStepReference):
		return fail(c, fiber.StatusBadRequest, "Step does not belong to this ritual")
	case errors.Is(err, ritual.ErrConflictRetryExhausted):
		return fail(c, fiber.StatusConflict, "Concurrent update conflict, please retry")
	default:
		slog.Error("ritual operation failed", "error", err, "path", c.Path())
		return fail(c, fiber.StatusInternalServerError, "Internal server error")
	}
}
