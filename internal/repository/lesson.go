package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"validation-service/internal/models"
)

type LessonRepository interface {
	SaveLesson(lesson *models.Lesson) error
	GetLessonByID(id string) (*models.Lesson, error)
}

type lessonRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewLessonRepository(db *sqlx.DB, logger *zap.Logger) LessonRepository {
	return &lessonRepository{db: db, logger: logger}
}

func (r *lessonRepository) SaveLesson(lesson *models.Lesson) error {
	query := `INSERT INTO lessons (id, transcript_encrypted) VALUES ($1, $2) RETURNING id, created_at`
	return r.db.QueryRowx(query, lesson.ID, lesson.TranscriptEncrypted).StructScan(lesson)
}

func (r *lessonRepository) GetLessonByID(id string) (*models.Lesson, error) {
	var lesson models.Lesson
	query := `SELECT id, transcript_encrypted, created_at FROM lessons WHERE id = $1`
	err := r.db.Get(&lesson, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &lesson, nil
}
