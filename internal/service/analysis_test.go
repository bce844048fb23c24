package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"validation-service/internal/crypto"
	"validation-service/internal/lexicon"
	"validation-service/internal/model_client"
	"validation-service/internal/models"
	"validation-service/internal/validator"
)

type memLessonRepo struct {
	lessons map[string]*models.Lesson
}

func (r *memLessonRepo) SaveLesson(lesson *models.Lesson) error {
	lesson.CreatedAt = time.Now()
	r.lessons[lesson.ID] = lesson
	return nil
}

func (r *memLessonRepo) GetLessonByID(id string) (*models.Lesson, error) {
	return r.lessons[id], nil
}

type memValidationRepo struct {
	saved []*models.Validation
}

func (r *memValidationRepo) SaveValidation(v *models.Validation) error {
	v.ID = int64(len(r.saved) + 1)
	v.CreatedAt = time.Now()
	r.saved = append(r.saved, v)
	return nil
}

func (r *memValidationRepo) GetValidationByID(id int64) (*models.Validation, error) {
	for _, v := range r.saved {
		if v.ID == id {
			return v, nil
		}
	}
	return nil, nil
}

func (r *memValidationRepo) GetAllValidations() ([]*models.Validation, error) {
	return r.saved, nil
}

func (r *memValidationRepo) GetValidationsByRisk(risk string) ([]*models.Validation, error) {
	var out []*models.Validation
	for _, v := range r.saved {
		if v.OverallRisk == risk {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *memValidationRepo) GetFlaggedValidations(limit int) ([]*models.Validation, error) {
	var out []*models.Validation
	for _, v := range r.saved {
		if v.Flagged && len(out) < limit {
			out = append(out, v)
		}
	}
	return out, nil
}

// modelScoreServer fakes the model adapter, always returning the given score.
func modelScoreServer(t *testing.T, score float64) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/analyze", r.URL.Path)
		var req model_client.AnalyzeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotEmpty(t, req.Transcript)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"summary": map[string]interface{}{"conformidade_geral": score},
		})
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestService(t *testing.T, modelURL string) (AnalysisService, *memLessonRepo, *memValidationRepo) {
	t.Helper()

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	cipher, err := crypto.NewTranscriptCipherWithKey(key)
	require.NoError(t, err)

	lessonRepo := &memLessonRepo{lessons: map[string]*models.Lesson{}}
	validationRepo := &memValidationRepo{}

	svc := NewAnalysisService(
		validator.New(lexicon.Default(), zap.NewNop()),
		model_client.NewClient(modelURL, 5*time.Second),
		lessonRepo,
		validationRepo,
		cipher,
		nil,
		5*time.Second,
		zap.NewNop(),
	)
	return svc, lessonRepo, validationRepo
}

func TestProcessLessonPersistsEncryptedTranscript(t *testing.T) {
	server := modelScoreServer(t, 85)
	svc, lessonRepo, validationRepo := newTestService(t, server.URL)

	transcript := "Today we are learning fractions. Please open your books to page 12."
	lesson, validated, err := svc.ProcessLesson(context.Background(), transcript)
	require.NoError(t, err)

	assert.Equal(t, 70, validated[validator.KeyRigorousScore])

	stored := lessonRepo.lessons[lesson.ID]
	require.NotNil(t, stored)
	assert.NotEqual(t, transcript, stored.TranscriptEncrypted)
	assert.NotContains(t, stored.TranscriptEncrypted, "fractions")

	require.Len(t, validationRepo.saved, 1)
	row := validationRepo.saved[0]
	assert.Equal(t, lesson.ID, row.LessonID)
	assert.Equal(t, 70, row.RigorousScore)
	assert.Equal(t, 85.0, row.CurrentScore)
	assert.Equal(t, 15.0, row.Delta)
	assert.False(t, row.Flagged)
	assert.Empty(t, row.Warning)

	roundTrip, err := svc.GetLessonTranscript(lesson.ID)
	require.NoError(t, err)
	assert.Equal(t, transcript, roundTrip)
}

func TestProcessLessonFlagsInflatedScore(t *testing.T) {
	server := modelScoreServer(t, 90)
	svc, _, validationRepo := newTestService(t, server.URL)

	transcript := "Today we will discuss cyberbullying. Only you didn't read the chapter, Pedro?"
	_, validated, err := svc.ProcessLesson(context.Background(), transcript)
	require.NoError(t, err)

	warning, ok := validated[validator.KeyValidationWarning].(*models.DiscrepancyWarning)
	require.True(t, ok)
	assert.Equal(t, models.WarningTypeInflatedScore, warning.Type)

	require.Len(t, validationRepo.saved, 1)
	row := validationRepo.saved[0]
	assert.True(t, row.Flagged)
	assert.Equal(t, string(models.RiskCritical), row.OverallRisk)
	assert.NotEmpty(t, row.Warning)

	var persisted models.DiscrepancyWarning
	require.NoError(t, json.Unmarshal(row.Warning, &persisted))
	assert.Equal(t, warning.Reason, persisted.Reason)
}

func TestProcessLessonModelFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	t.Cleanup(server.Close)

	svc, lessonRepo, validationRepo := newTestService(t, server.URL)

	_, _, err := svc.ProcessLesson(context.Background(), "anything")
	require.Error(t, err)
	assert.Empty(t, lessonRepo.lessons)
	assert.Empty(t, validationRepo.saved)
}

func TestGetLessonTranscriptNotFound(t *testing.T) {
	server := modelScoreServer(t, 85)
	svc, _, _ := newTestService(t, server.URL)

	_, err := svc.GetLessonTranscript("missing")
	assert.ErrorIs(t, err, ErrLessonNotFound)
}

func TestListValidationsFiltersByRisk(t *testing.T) {
	server := modelScoreServer(t, 85)
	svc, _, validationRepo := newTestService(t, server.URL)

	validationRepo.saved = []*models.Validation{
		{ID: 1, OverallRisk: "critical"},
		{ID: 2, OverallRisk: "low"},
	}

	all, err := svc.ListValidations("")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	critical, err := svc.ListValidations("critical")
	require.NoError(t, err)
	require.Len(t, critical, 1)
	assert.Equal(t, int64(1), critical[0].ID)
}
