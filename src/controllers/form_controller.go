package controllers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"franchise-intake-api/src/engine"
	"franchise-intake-api/src/models"
	"franchise-intake-api/src/services/forms"
	"franchise-intake-api/src/utils"
)

// GetActiveForm godoc
// @Summary      Get the published form config
// @Description  Returns the form document the wizard is currently serving
// @Tags         forms
// @Produce      json
// @Success      200  {object}  models.FormConfig
// @Failure      404  {object}  models.ErrorResponse
// @Router       /forms/active [get]
func GetActiveForm(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cfg, err := forms.GetActiveForm(ctx)
	if err != nil {
		if errors.Is(err, forms.ErrNoActiveForm) {
			return utils.HandleError(c, fiber.StatusNotFound, "No application form is currently published")
		}
		return utils.HandleError(c, fiber.StatusInternalServerError, "Failed to load form")
	}
	return c.JSON(cfg)
}

// UpsertForm godoc
// @Summary      Create or update a form config
// @Description  Validates the whole config eagerly — undeclared field references, broken step numbering, forward visibility dependencies, and malformed rules are rejected here, before any session can see them
// @Tags         forms
// @Accept       json
// @Produce      json
// @Param        body body models.FormConfig true "Form config"
// @Success      200  {object}  models.FormConfig
// @Failure      400  {object}  models.ErrorResponse
// @Failure      500  {object}  models.ErrorResponse
// @Security     BearerAuth
// @Router       /forms [put]
func UpsertForm(c *fiber.Ctx) error {
	var cfg models.FormConfig
	if err := c.BodyParser(&cfg); err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid input: "+err.Error())
	}
	if cfg.Slug == "" {
		return utils.HandleError(c, fiber.StatusBadRequest, "slug is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := forms.UpsertForm(ctx, &cfg); err != nil {
		var cfgErr *engine.ConfigError
		if errors.As(err, &cfgErr) {
			return utils.HandleError(c, fiber.StatusBadRequest, cfgErr.Error())
		}
		return utils.HandleError(c, fiber.StatusInternalServerError, "Failed to store form")
	}
	return c.JSON(cfg)
}
