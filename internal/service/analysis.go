package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"validation-service/internal/crypto"
	"validation-service/internal/model_client"
	"validation-service/internal/models"
	"validation-service/internal/repository"
	"validation-service/internal/telegram_bot"
	"validation-service/internal/validator"
)

var ErrLessonNotFound = errors.New("lesson not found")

// AnalysisService runs the full lesson pipeline: external model scoring,
// rigor validation, encrypted persistence and discrepancy alerting.
type AnalysisService interface {
	ProcessLesson(ctx context.Context, transcript string) (*models.Lesson, map[string]interface{}, error)
	ValidateRecord(transcript string, record map[string]interface{}) map[string]interface{}
	GetValidation(id int64) (*models.Validation, error)
	ListValidations(risk string) ([]*models.Validation, error)
	GetLessonTranscript(id string) (string, error)
}

type analysisService struct {
	validator      *validator.Validator
	modelClient    *model_client.Client
	lessonRepo     repository.LessonRepository
	validationRepo repository.ValidationRepository
	cipher         *crypto.TranscriptCipher
	bot            *telegram_bot.Bot
	modelTimeout   time.Duration
	logger         *zap.Logger
}

func NewAnalysisService(
	v *validator.Validator,
	modelClient *model_client.Client,
	lessonRepo repository.LessonRepository,
	validationRepo repository.ValidationRepository,
	cipher *crypto.TranscriptCipher,
	bot *telegram_bot.Bot,
	modelTimeout time.Duration,
	logger *zap.Logger,
) AnalysisService {
	return &analysisService{
		validator:      v,
		modelClient:    modelClient,
		lessonRepo:     lessonRepo,
		validationRepo: validationRepo,
		cipher:         cipher,
		bot:            bot,
		modelTimeout:   modelTimeout,
		logger:         logger,
	}
}

func (s *analysisService) ProcessLesson(ctx context.Context, transcript string) (*models.Lesson, map[string]interface{}, error) {
	modelCtx, cancel := context.WithTimeout(ctx, s.modelTimeout)
	record, err := s.modelClient.Analyze(modelCtx, transcript)
	cancel()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get analysis from model service: %w", err)
	}

	validated := s.validator.Validate(transcript, record)

	encrypted, err := s.cipher.Encrypt(transcript)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encrypt transcript: %w", err)
	}

	lesson := &models.Lesson{
		ID:                  uuid.NewString(),
		TranscriptEncrypted: encrypted,
	}
	if err := s.lessonRepo.SaveLesson(lesson); err != nil {
		return nil, nil, fmt.Errorf("failed to save lesson: %w", err)
	}

	validation, err := s.buildValidationRow(lesson.ID, record, validated)
	if err != nil {
		return nil, nil, err
	}
	if err := s.validationRepo.SaveValidation(validation); err != nil {
		return nil, nil, fmt.Errorf("failed to save validation: %w", err)
	}

	s.logger.Info("Lesson processed",
		zap.String("lesson_id", lesson.ID),
		zap.Int("rigorous_score", validation.RigorousScore),
		zap.Bool("flagged", validation.Flagged),
		zap.String("overall_risk", validation.OverallRisk))

	s.alertIfNeeded(lesson.ID, validated, validation)

	return lesson, validated, nil
}

func (s *analysisService) ValidateRecord(transcript string, record map[string]interface{}) map[string]interface{} {
	return s.validator.Validate(transcript, record)
}

func (s *analysisService) GetValidation(id int64) (*models.Validation, error) {
	return s.validationRepo.GetValidationByID(id)
}

func (s *analysisService) ListValidations(risk string) ([]*models.Validation, error) {
	if risk != "" {
		return s.validationRepo.GetValidationsByRisk(risk)
	}
	return s.validationRepo.GetAllValidations()
}

func (s *analysisService) GetLessonTranscript(id string) (string, error) {
	lesson, err := s.lessonRepo.GetLessonByID(id)
	if err != nil {
		return "", fmt.Errorf("failed to load lesson: %w", err)
	}
	if lesson == nil {
		return "", ErrLessonNotFound
	}
	return s.cipher.Decrypt(lesson.TranscriptEncrypted)
}

func (s *analysisService) buildValidationRow(lessonID string, record, validated map[string]interface{}) (*models.Validation, error) {
	report, _ := validated[validator.KeyValidationReport].(*models.ValidationReport)
	if report == nil {
		return nil, errors.New("validated record is missing its validation report")
	}

	reportJSON, err := json.Marshal(report)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal validation report: %w", err)
	}

	validation := &models.Validation{
		LessonID:      lessonID,
		RigorousScore: report.RigorousScore,
		CurrentScore:  validator.ExtractCurrentScore(record),
		Report:        types.JSONText(reportJSON),
	}
	validation.Delta = validation.CurrentScore - float64(validation.RigorousScore)

	if analysis, ok := validated[validator.KeyBehaviorAnalysis].(*models.BehaviorAnalysis); ok {
		validation.OverallRisk = string(analysis.Compliance.OverallRisk)
	}

	if warning, ok := validated[validator.KeyValidationWarning].(*models.DiscrepancyWarning); ok {
		warningJSON, err := json.Marshal(warning)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal discrepancy warning: %w", err)
		}
		validation.Warning = types.JSONText(warningJSON)
		validation.Flagged = true
	}

	return validation, nil
}

func (s *analysisService) alertIfNeeded(lessonID string, validated map[string]interface{}, validation *models.Validation) {
	if s.bot == nil || !validation.Flagged {
		return
	}

	warning, ok := validated[validator.KeyValidationWarning].(*models.DiscrepancyWarning)
	if !ok {
		return
	}
	if warning.OverallRisk != models.RiskHigh && warning.OverallRisk != models.RiskCritical {
		return
	}

	if err := s.bot.SendDiscrepancyAlert(lessonID, warning); err != nil {
		s.logger.Error("Failed to send discrepancy alert", zap.Error(err), zap.String("lesson_id", lessonID))
	}
}
