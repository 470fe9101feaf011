package handler

import (
	"lingolab/internal/dto"
	"lingolab/internal/logger"
	"lingolab/internal/middleware"
	"lingolab/internal/service"
	"lingolab/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ProgressHandler exposes the record-activity and progress-read endpoints.
type ProgressHandler struct {
	progressService service.ProgressService
}

func NewProgressHandler(progressService service.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

// userIDFromCtx reads the authenticated user id set by the auth middleware.
func userIDFromCtx(c *fiber.Ctx) (string, bool) {
	userID, ok := c.Locals(middleware.UserIDKey).(string)
	return userID, ok && userID != ""
}

// RecordActivity records one completed learning activity for the caller.
// @Summary Record a learning activity
// @Description Applies one quiz, reading or listening activity to the caller's progress and returns the XP, streak and badge outcome.
// @Tags progress
// @Accept json
// @Produce json
// @Param request body dto.RecordActivityRequest true "Activity payload"
// @Success 200 {object} dto.RecordActivityResponse
// @Failure 400 {object} middleware.ErrorResponse "Invalid activity payload"
// @Failure 401 {object} middleware.ErrorResponse "Missing or invalid token"
// @Failure 409 {object} middleware.ErrorResponse "Concurrent update could not be resolved"
// @Security BearerAuth
// @Router /activities [post]
func (h *ProgressHandler) RecordActivity(c *fiber.Ctx) error {
	userID, ok := userIDFromCtx(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(middleware.ErrorResponse{
			Code: "UNAUTHORIZED", Message: "User identity missing from request", Status: fiber.StatusUnauthorized,
		})
	}

	var req dto.RecordActivityRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Get().Warn("Failed to parse activity body", zap.String("userID", userID), zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(middleware.ErrorResponse{
			Code: "INVALID_BODY", Message: "Request body is not valid JSON", Status: fiber.StatusBadRequest,
		})
	}

	if err := validation.ValidateRecordActivityRequest(&req); err != nil {
		return err
	}

	resp, err := h.progressService.RecordActivity(c.Context(), userID, &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

// GetMyProgress returns the caller's progress profile.
// @Summary Get my progress
// @Description Returns the caller's XP, streak, badges and assignment count.
// @Tags progress
// @Produce json
// @Success 200 {object} dto.ProfileSummary
// @Failure 401 {object} middleware.ErrorResponse "Missing or invalid token"
// @Failure 404 {object} middleware.ErrorResponse "No activity recorded yet"
// @Security BearerAuth
// @Router /users/me/progress [get]
func (h *ProgressHandler) GetMyProgress(c *fiber.Ctx) error {
	userID, ok := userIDFromCtx(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(middleware.ErrorResponse{
			Code: "UNAUTHORIZED", Message: "User identity missing from request", Status: fiber.StatusUnauthorized,
		})
	}

	summary, err := h.progressService.GetProgress(c.Context(), userID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(summary)
}
