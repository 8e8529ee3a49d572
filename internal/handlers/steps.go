package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/GalihRensuke/GalyarderOS-sub001/internal/middleware"
	"github.com/GalihRensuke/GalyarderOS-sub001/internal/models"
)

func parseStepParams(c *fiber.Ctx) (ritualID, stepID uuid.UUID, err error) {
	ritualID, err = uuid.Parse(c.Params("id"))
	if err != nil {
		return
	}
	stepID, err = uuid.Parse(c.Params("stepId"))
	return
}

func (h *Handler) AddStep(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	ritualID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid ritual ID")
	}

	var req models.CreateStepRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validate.Struct(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Step name is required")
	}

	step, err := h.service.AddStep(ritualID, userID, req)
	if err != nil {
		return serviceError(c, err)
	}
	return created(c, step)
}

func (h *Handler) UpdateStep(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	ritualID, stepID, err := parseStepParams(c)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid ID")
	}

	var req models.UpdateStepRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	step, err := h.service.UpdateStep(ritualID, stepID, userID, req)
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, step)
}

func (h *Handler) RemoveStep(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	ritualID, stepID, err := parseStepParams(c)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid ID")
	}

	if err := h.service.RemoveStep(ritualID, stepID, userID); err != nil {
		return serviceError(c, err)
	}
	return ok(c, fiber.Map{"deleted": true})
}
