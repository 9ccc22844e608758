package controllers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"franchise-intake-api/src/models"
	"franchise-intake-api/src/services/submissions"
	"franchise-intake-api/src/utils"
)

// GetSubmissions godoc
// @Summary      List submissions
// @Description  Paginated list of stored applications, newest first
// @Tags         submissions
// @Produce      json
// @Param        page   query  int     false  "Page number"
// @Param        limit  query  int     false  "Items per page"
// @Success      200  {object}  models.PaginatedSubmissionsResponse
// @Failure      500  {object}  models.ErrorResponse
// @Security     BearerAuth
// @Router       /submissions [get]
func GetSubmissions(c *fiber.Ctx) error {
	params := models.DefaultPagination()
	if err := c.QueryParser(&params); err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid query: "+err.Error())
	}
	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit < 1 || params.Limit > 100 {
		params.Limit = 10
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := submissions.List(ctx, params)
	if err != nil {
		return utils.HandleError(c, fiber.StatusInternalServerError, "Failed to list submissions")
	}
	return c.JSON(result)
}

// GetSubmissionByID godoc
// @Summary      Get one submission
// @Tags         submissions
// @Produce      json
// @Param        id   path  string  true  "Submission ID"
// @Success      200  {object}  models.SubmissionRecord
// @Failure      400  {object}  models.ErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Security     BearerAuth
// @Router       /submissions/{id} [get]
func GetSubmissionByID(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "invalid submission id")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	record, err := submissions.GetByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return utils.HandleError(c, fiber.StatusNotFound, "Submission not found")
		}
		return utils.HandleError(c, fiber.StatusInternalServerError, "Failed to load submission")
	}
	return c.JSON(record)
}
