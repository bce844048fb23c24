package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"validation-service/internal/models"
)

type ValidationRepository interface {
	SaveValidation(validation *models.Validation) error
	GetValidationByID(id int64) (*models.Validation, error)
	GetAllValidations() ([]*models.Validation, error)
	GetValidationsByRisk(risk string) ([]*models.Validation, error)
	GetFlaggedValidations(limit int) ([]*models.Validation, error)
}

type validationRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewValidationRepository(db *sqlx.DB, logger *zap.Logger) ValidationRepository {
	return &validationRepository{db: db, logger: logger}
}

func (r *validationRepository) SaveValidation(validation *models.Validation) error {
	query := `INSERT INTO validations (lesson_id, rigorous_score, current_score, delta, overall_risk, flagged, report, warning)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id, created_at`
	return r.db.QueryRowx(query,
		validation.LessonID,
		validation.RigorousScore,
		validation.CurrentScore,
		validation.Delta,
		validation.OverallRisk,
		validation.Flagged,
		validation.Report,
		validation.Warning,
	).StructScan(validation)
}

func (r *validationRepository) GetValidationByID(id int64) (*models.Validation, error) {
	var validation models.Validation
	query := `SELECT id, lesson_id, rigorous_score, current_score, delta, overall_risk, flagged, report, warning, created_at
	          FROM validations WHERE id = $1`
	err := r.db.Get(&validation, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &validation, nil
}

func (r *validationRepository) GetAllValidations() ([]*models.Validation, error) {
	var validations []*models.Validation
	query := `SELECT id, lesson_id, rigorous_score, current_score, delta, overall_risk, flagged, report, warning, created_at
	          FROM validations ORDER BY created_at DESC`
	if err := r.db.Select(&validations, query); err != nil {
		return nil, err
	}
	return validations, nil
}

func (r *validationRepository) GetValidationsByRisk(risk string) ([]*models.Validation, error) {
	var validations []*models.Validation
	query := `SELECT id, lesson_id, rigorous_score, current_score, delta, overall_risk, flagged, report, warning, created_at
	          FROM validations WHERE overall_risk = $1 ORDER BY created_at DESC`
	if err := r.db.Select(&validations, query, risk); err != nil {
		return nil, err
	}
	return validations, nil
}

func (r *validationRepository) GetFlaggedValidations(limit int) ([]*models.Validation, error) {
	var validations []*models.Validation
	query := `SELECT id, lesson_id, rigorous_score, current_score, delta, overall_risk, flagged, report, warning, created_at
	          FROM validations WHERE flagged = true ORDER BY created_at DESC LIMIT $1`
	if err := r.db.Select(&validations, query, limit); err != nil {
		return nil, err
	}
	return validations, nil
}
