package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"validation-service/internal/service"
)

type ValidationHandler interface {
	ValidateTranscript(c *gin.Context)
	CreateLesson(c *gin.Context)
	ListValidations(c *gin.Context)
	GetValidation(c *gin.Context)
	GetLessonTranscript(c *gin.Context)
}

type validationHandler struct {
	analysisService service.AnalysisService
	logger          *zap.Logger
}

func NewValidationHandler(analysisService service.AnalysisService, logger *zap.Logger) ValidationHandler {
	return &validationHandler{analysisService: analysisService, logger: logger}
}

// ValidateRequest carries an already scored analysis for stateless
// cross-checking. The analysis_result shape is owned by the model adapter.
type ValidateRequest struct {
	Transcript     string                 `json:"transcript" binding:"required"`
	AnalysisResult map[string]interface{} `json:"analysis_result" binding:"required"`
}

type CreateLessonRequest struct {
	Transcript string `json:"transcript" binding:"required"`
}

// ValidateTranscript cross-checks a caller-supplied analysis result against
// the rigor validator without persisting anything.
func (h *validationHandler) ValidateTranscript(c *gin.Context) {
	var req ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed to bind JSON for validation", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	validated := h.analysisService.ValidateRecord(req.Transcript, req.AnalysisResult)
	c.JSON(http.StatusOK, validated)
}

// CreateLesson runs the full pipeline: model scoring, validation,
// persistence and alerting.
func (h *validationHandler) CreateLesson(c *gin.Context) {
	var req CreateLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed to bind JSON for lesson creation", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lesson, validated, err := h.analysisService.ProcessLesson(c.Request.Context(), req.Transcript)
	if err != nil {
		h.logger.Error("Failed to process lesson", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to process lesson"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"lesson_id": lesson.ID,
		"analysis":  validated,
	})
}

func (h *validationHandler) ListValidations(c *gin.Context) {
	risk := c.Query("risk")

	validations, err := h.analysisService.ListValidations(risk)
	if err != nil {
		h.logger.Error("Failed to list validations", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list validations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"validations": validations})
}

func (h *validationHandler) GetValidation(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid validation ID"})
		return
	}

	validation, err := h.analysisService.GetValidation(id)
	if err != nil {
		h.logger.Error("Failed to get validation", zap.Int64("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get validation"})
		return
	}
	if validation == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Validation not found"})
		return
	}

	c.JSON(http.StatusOK, validation)
}

func (h *validationHandler) GetLessonTranscript(c *gin.Context) {
	id := c.Param("id")

	transcript, err := h.analysisService.GetLessonTranscript(id)
	if err != nil {
		if errors.Is(err, service.ErrLessonNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Lesson not found"})
			return
		}
		h.logger.Error("Failed to load lesson transcript", zap.String("lesson_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load transcript"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"lesson_id": id, "transcript": transcript})
}
