package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/GalihRensuke/GalyarderOS-sub001/internal/middleware"
	"github.com/GalihRensuke/GalyarderOS-sub001/internal/models"
)

func (h *Handler) CompleteRitual(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	ritualID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid ritual ID")
	}

	var req models.CompleteRitualRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	completion, err := h.service.Complete(ritualID, userID, req)
	if err != nil {
		return serviceError(c, err)
	}
	return created(c, completion)
}

func (h *Handler) ListCompletions(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	ritualID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid ritual ID")
	}
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))

	pageData, err := h.service.ListCompletions(ritualID, userID, page, limit)
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, pageData)
}

func (h *Handler) GetRitualAnalytics(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	ritualID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid ritual ID")
	}
	days, _ := strconv.Atoi(c.Query("days", "30"))

	summary, err := h.service.Analyze(ritualID, userID, days)
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, summary)
}
