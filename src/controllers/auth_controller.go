package controllers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"franchise-intake-api/src/models"
	"franchise-intake-api/src/services/admins"
	"franchise-intake-api/src/utils"
)

// Login godoc
// @Summary      Admin login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body body models.LoginRequest true "Credentials"
// @Success      200  {object}  models.LoginResponse
// @Failure      400  {object}  models.ErrorResponse
// @Failure      401  {object}  models.ErrorResponse
// @Router       /auth/login [post]
func Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid input: "+err.Error())
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, err.Error())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	res, err := admins.Login(ctx, &req)
	if err != nil {
		if errors.Is(err, admins.ErrInvalidCredentials) {
			return utils.HandleError(c, fiber.StatusUnauthorized, "Invalid email or password")
		}
		return utils.HandleError(c, fiber.StatusInternalServerError, "Login failed")
	}
	return c.JSON(res)
}
