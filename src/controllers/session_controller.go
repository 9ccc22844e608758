package controllers

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"franchise-intake-api/src/engine"
	"franchise-intake-api/src/models"
	"franchise-intake-api/src/services/forms"
	"franchise-intake-api/src/services/sessions"
	"franchise-intake-api/src/utils"
)

func requestCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Second)
}

// StartSession godoc
// @Summary      Start a wizard session
// @Description  Opens a new application session against the active form, resuming a saved draft when one is still fresh
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        body body models.StartSessionRequest false "Optional resume request"
// @Success      201  {object}  models.WizardView
// @Failure      400  {object}  models.ErrorResponse
// @Failure      503  {object}  models.ErrorResponse
// @Router       /sessions [post]
func StartSession(c *fiber.Ctx) error {
	var req models.StartSessionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return utils.HandleError(c, fiber.StatusBadRequest, "Invalid input: "+err.Error())
		}
		if err := utils.ValidateStruct(&req); err != nil {
			return utils.HandleError(c, fiber.StatusBadRequest, err.Error())
		}
	}

	ctx, cancel := requestCtx()
	defer cancel()

	view, err := sessions.Start(ctx, req.ResumeSessionID)
	if err != nil {
		if errors.Is(err, forms.ErrNoActiveForm) {
			return utils.HandleError(c, fiber.StatusServiceUnavailable, "No application form is currently published")
		}
		return utils.HandleError(c, fiber.StatusInternalServerError, "Failed to start session")
	}
	return c.Status(fiber.StatusCreated).JSON(view)
}

// GetSession godoc
// @Summary      Get the current view model
// @Tags         sessions
// @Produce      json
// @Param        id   path  string  true  "Session ID"
// @Success      200  {object}  models.WizardView
// @Failure      404  {object}  models.ErrorResponse
// @Router       /sessions/{id} [get]
func GetSession(c *fiber.Ctx) error {
	view, err := sessions.GetView(c.Params("id"))
	if err != nil {
		return utils.HandleError(c, fiber.StatusNotFound, "Session not found or expired")
	}
	return c.JSON(view)
}

// PutAnswer godoc
// @Summary      Record an answer
// @Description  Applies one input event: validates the value, recomputes field visibility, and schedules the debounced autosave
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        id       path  string                true  "Session ID"
// @Param        fieldId  path  string                true  "Field ID"
// @Param        body     body  models.AnswerRequest  true  "Answer value"
// @Success      200  {object}  models.WizardView
// @Failure      400  {object}  models.ErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /sessions/{id}/answers/{fieldId} [put]
func PutAnswer(c *fiber.Ctx) error {
	var req models.AnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid input: "+err.Error())
	}

	ctx, cancel := requestCtx()
	defer cancel()

	view, err := sessions.Answer(ctx, c.Params("id"), c.Params("fieldId"), req.Value)
	if err != nil {
		switch {
		case errors.Is(err, sessions.ErrSessionNotFound):
			return utils.HandleError(c, fiber.StatusNotFound, "Session not found or expired")
		case errors.Is(err, engine.ErrFieldNotFound):
			return utils.HandleError(c, fiber.StatusNotFound, "Unknown field")
		case errors.Is(err, engine.ErrWizardClosed):
			return utils.HandleError(c, fiber.StatusConflict, "Session is already submitted")
		default:
			return utils.HandleError(c, fiber.StatusInternalServerError, "Failed to record answer")
		}
	}
	return c.JSON(view)
}

// NextStep godoc
// @Summary      Advance to the next step
// @Description  Blocked with 422 while any visible field of the current step is invalid; the response body still carries the view model with the field errors
// @Tags         sessions
// @Produce      json
// @Param        id   path  string  true  "Session ID"
// @Success      200  {object}  models.WizardView
// @Failure      404  {object}  models.ErrorResponse
// @Failure      409  {object}  models.ErrorResponse
// @Failure      422  {object}  models.WizardView
// @Router       /sessions/{id}/next [post]
func NextStep(c *fiber.Ctx) error {
	view, err := sessions.Next(c.Params("id"))
	return stepResponse(c, view, err)
}

// PrevStep godoc
// @Summary      Go back one step
// @Tags         sessions
// @Produce      json
// @Param        id   path  string  true  "Session ID"
// @Success      200  {object}  models.WizardView
// @Failure      404  {object}  models.ErrorResponse
// @Failure      409  {object}  models.ErrorResponse
// @Router       /sessions/{id}/back [post]
func PrevStep(c *fiber.Ctx) error {
	view, err := sessions.Back(c.Params("id"))
	return stepResponse(c, view, err)
}

// JumpToStep godoc
// @Summary      Jump to an already-validated step
// @Tags         sessions
// @Produce      json
// @Param        id    path  string  true  "Session ID"
// @Param        step  path  int     true  "Step number"
// @Success      200  {object}  models.WizardView
// @Failure      404  {object}  models.ErrorResponse
// @Failure      409  {object}  models.ErrorResponse
// @Router       /sessions/{id}/jump/{step} [post]
func JumpToStep(c *fiber.Ctx) error {
	step, err := strconv.Atoi(c.Params("step"))
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "invalid step number")
	}
	view, err := sessions.JumpTo(c.Params("id"), step)
	return stepResponse(c, view, err)
}

// stepResponse maps wizard transition outcomes onto HTTP statuses. A
// validation block is not an internal error: the UI needs the view
// model with the per-field failures.
func stepResponse(c *fiber.Ctx, view models.WizardView, err error) error {
	if err == nil {
		return c.JSON(view)
	}

	var blocked *engine.ValidationBlockedError
	switch {
	case errors.Is(err, sessions.ErrSessionNotFound):
		return utils.HandleError(c, fiber.StatusNotFound, "Session not found or expired")
	case errors.As(err, &blocked):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(view)
	case errors.Is(err, engine.ErrNoNextStep),
		errors.Is(err, engine.ErrNoPreviousStep),
		errors.Is(err, engine.ErrJumpNotAllowed),
		errors.Is(err, engine.ErrNotOnLastStep),
		errors.Is(err, engine.ErrWizardClosed):
		return utils.HandleError(c, fiber.StatusConflict, err.Error())
	default:
		return utils.HandleError(c, fiber.StatusInternalServerError, "Something went wrong")
	}
}

// SubmitSession godoc
// @Summary      Submit the application
// @Description  Validates every visible field across all steps, transforms the answers, and persists the submission. A persistence failure returns the session to the last step
// @Tags         sessions
// @Produce      json
// @Param        id   path  string  true  "Session ID"
// @Success      200  {object}  models.SubmitResponse
// @Failure      404  {object}  models.ErrorResponse
// @Failure      409  {object}  models.ErrorResponse
// @Failure      422  {object}  models.WizardView
// @Failure      503  {object}  models.ErrorResponse
// @Router       /sessions/{id}/submit [post]
func SubmitSession(c *fiber.Ctx) error {
	ctx, cancel := requestCtx()
	defer cancel()

	view, confirmationID, err := sessions.Submit(ctx, c.Params("id"))
	if err != nil {
		var blocked *engine.ValidationBlockedError
		var transform *engine.TransformError
		switch {
		case errors.Is(err, sessions.ErrSessionNotFound):
			return utils.HandleError(c, fiber.StatusNotFound, "Session not found or expired")
		case errors.As(err, &blocked):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(view)
		case errors.Is(err, engine.ErrNotOnLastStep), errors.Is(err, engine.ErrWizardClosed):
			return utils.HandleError(c, fiber.StatusConflict, err.Error())
		case errors.As(err, &transform):
			// Never expose partial data; a generic failure is all the
			// applicant can act on.
			return utils.HandleError(c, fiber.StatusInternalServerError, "Your application could not be processed. Please try again.")
		default:
			return utils.HandleError(c, fiber.StatusServiceUnavailable, "Your application could not be submitted right now. Your answers are still here — please try again.")
		}
	}

	return c.JSON(models.SubmitResponse{ConfirmationID: confirmationID})
}

// SuspendSession godoc
// @Summary      Save and exit a session
// @Description  Persists the draft immediately and drops the in-memory session; the returned sessionId resumes it later
// @Tags         sessions
// @Produce      json
// @Param        id   path  string  true  "Session ID"
// @Success      200  {object}  models.WizardView
// @Failure      404  {object}  models.ErrorResponse
// @Failure      503  {object}  models.ErrorResponse
// @Router       /sessions/{id}/suspend [post]
func SuspendSession(c *fiber.Ctx) error {
	ctx, cancel := requestCtx()
	defer cancel()

	view, err := sessions.Suspend(ctx, c.Params("id"))
	if err != nil {
		if errors.Is(err, sessions.ErrSessionNotFound) {
			return utils.HandleError(c, fiber.StatusNotFound, "Session not found or expired")
		}
		return utils.HandleError(c, fiber.StatusServiceUnavailable, "Your progress could not be saved. Please try again before leaving.")
	}
	return c.JSON(view)
}

// AbandonSession godoc
// @Summary      Abandon a session
// @Description  Discards the session and its saved draft
// @Tags         sessions
// @Produce      json
// @Param        id   path  string  true  "Session ID"
// @Success      204
// @Failure      404  {object}  models.ErrorResponse
// @Router       /sessions/{id} [delete]
func AbandonSession(c *fiber.Ctx) error {
	ctx, cancel := requestCtx()
	defer cancel()

	if err := sessions.Abandon(ctx, c.Params("id")); err != nil {
		return utils.HandleError(c, fiber.StatusNotFound, "Session not found or expired")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
