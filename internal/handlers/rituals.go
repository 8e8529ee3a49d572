package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/GalihRensuke/GalyarderOS-sub001/internal/middleware"
	"github.com/GalihRensuke/GalyarderOS-sub001/internal/models"
)

func (h *Handler) CreateRitual(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req models.CreateRitualRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validate.Struct(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Name, category, type and frequency are required")
	}

	r, err := h.service.Create(userID, req)
	if err != nil {
		return serviceError(c, err)
	}
	return created(c, r)
}

func (h *Handler) GetRitual(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	ritualID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid ritual ID")
	}

	r, err := h.service.Get(ritualID, userID)
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, r)
}

func (h *Handler) ListRituals(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))

	pageData, err := h.service.List(userID, page, limit)
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, pageData)
}

func (h *Handler) UpdateRitual(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	ritualID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid ritual ID")
	}

	var req models.UpdateRitualRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	r, err := h.service.Update(ritualID, userID, req)
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, r)
}

// DeleteRitual deactivates by default; ?hard=true purges the ritual with its
// steps and completion log.
func (h *Handler) DeleteRitual(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	ritualID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid ritual ID")
	}
	hard := c.Query("hard") == "true"

	if err := h.service.Delete(ritualID, userID, hard); err != nil {
		return serviceError(c, err)
	}
	return ok(c, fiber.Map{"deleted": true, "hard": hard})
}
