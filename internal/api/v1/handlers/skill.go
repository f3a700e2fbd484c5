package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"box-skill-whisper/internal/api/errors"
	"box-skill-whisper/internal/api/middleware"
	"box-skill-whisper/internal/api/v1/dto"
	"box-skill-whisper/internal/api/v1/services"
)

// SkillHandler handles skill invocations and run lookups
type SkillHandler struct {
	service services.SkillService
}

// NewSkillHandler creates a new skill handler
func NewSkillHandler(service services.SkillService) *SkillHandler {
	return &SkillHandler{
		service: service,
	}
}

// Webhook handles POST /webhook
// Processes one skill invocation synchronously and writes the cards to the file.
//
// @Summary Process a Box skill invocation
// @Description Downloads the file, transcribes it, summarizes it and writes four skill cards back to Box
// @Tags skill
// @Accept json
// @Produce json
// @Param invocation body dto.WebhookRequest true "Box skill invocation event"
// @Success 200 {object} dto.WebhookResponse "Cards written, possibly with degraded cards"
// @Failure 400 {object} errors.APIError "Invalid invocation payload"
// @Failure 422 {object} errors.APIError "Media has no usable audio"
// @Failure 502 {object} errors.APIError "Box download or metadata write failed"
// @Failure 500 {object} errors.APIError "Internal server error"
// @Router /webhook [post]
func (h *SkillHandler) Webhook(c *gin.Context) {
	var req dto.WebhookRequest

	if err := middleware.ValidateRequest(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	response, err := h.service.ProcessWebhook(c.Request.Context(), c.GetString(middleware.RequestIDKey), &req)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetRun handles GET /api/v1/runs/:file_id
//
// @Summary Get the last run for a file
// @Description Returns status, degraded cards and timings of the most recent invocation for a file
// @Tags runs
// @Produce json
// @Param file_id path string true "Box file ID"
// @Success 200 {object} dto.RunResponse "Run details"
// @Failure 404 {object} errors.APIError "No run recorded for the file"
// @Failure 500 {object} errors.APIError "Internal server error"
// @Router /api/v1/runs/{file_id} [get]
func (h *SkillHandler) GetRun(c *gin.Context) {
	fileID := strings.TrimSpace(c.Param("file_id"))
	if fileID == "" {
		middleware.HandleError(c, errors.NewBadRequestError("Invalid file ID"))
		return
	}

	response, err := h.service.GetRun(c.Request.Context(), fileID)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}
