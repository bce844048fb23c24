package validator

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"validation-service/internal/lexicon"
	"validation-service/internal/models"
)

const cleanTranscript = "Today we are learning fractions. Please open your books to page 12."

func newValidator(t *testing.T) *Validator {
	t.Helper()
	return New(lexicon.Default(), zap.NewNop())
}

func recordWithScore(score float64) map[string]interface{} {
	return map[string]interface{}{
		"summary": map[string]interface{}{
			"conformidade_geral": score,
		},
	}
}

func TestWeightsSumToOne(t *testing.T) {
	assert.InDelta(t, 1.0, BehaviorWeight+ContextWeight+LegalWeight, 1e-9)
}

func TestNilRecordPassesThroughUnvalidated(t *testing.T) {
	v := newValidator(t)

	assert.Nil(t, v.Validate(cleanTranscript, nil))
}

func TestCleanLessonScenario(t *testing.T) {
	v := newValidator(t)

	validated := v.Validate(cleanTranscript, recordWithScore(85))

	// behavior 100, context 90 baseline, legal 10 floor:
	// 100*0.40 + 90*0.30 + 10*0.30 = 70.
	assert.Equal(t, 70, validated[KeyRigorousScore])
	assert.InDelta(t, 0.70, validated[KeyRigorousScoreNormalized].(float64), 1e-9)

	report, ok := validated[KeyValidationReport].(*models.ValidationReport)
	require.True(t, ok)
	assert.Equal(t, 100, report.BehaviorScore)
	assert.Equal(t, 90, report.ContextScore)
	assert.Equal(t, 10, report.LegalScore)
	assert.Equal(t, models.ScoreBreakdown{
		BehaviorComponent: 40,
		ContextComponent:  27,
		LegalComponent:    3,
	}, report.ScoreBreakdown)

	// delta = 85 - 70 = 15, within the threshold.
	_, warned := validated[KeyValidationWarning]
	assert.False(t, warned)

	analysis, ok := validated[KeyBehaviorAnalysis].(*models.BehaviorAnalysis)
	require.True(t, ok)
	assert.Equal(t, 100, analysis.Scores.Behavior)
	assert.Equal(t, 90, analysis.Scores.Context)
	assert.Equal(t, 10, analysis.Scores.Legal)
	require.NotNil(t, analysis.Behavior)
	require.NotNil(t, analysis.Context)
	require.NotNil(t, analysis.Compliance)
}

func TestThresholdBoundary(t *testing.T) {
	v := newValidator(t)

	rigorous := v.Validate(cleanTranscript, recordWithScore(0))[KeyRigorousScore].(int)

	atBoundary := v.Validate(cleanTranscript, recordWithScore(float64(rigorous)+30))
	_, warned := atBoundary[KeyValidationWarning]
	assert.False(t, warned, "delta of exactly 30 must not warn")

	pastBoundary := v.Validate(cleanTranscript, recordWithScore(float64(rigorous)+31))
	warning, warned := pastBoundary[KeyValidationWarning].(*models.DiscrepancyWarning)
	require.True(t, warned, "delta of 31 must warn")
	assert.Equal(t, models.WarningTypeInflatedScore, warning.Type)
	assert.InDelta(t, 31, warning.Delta, 1e-9)
}

func TestHypocrisyScenario(t *testing.T) {
	v := newValidator(t)

	transcript := "Today we will discuss cyberbullying. Only you didn't read the chapter, Pedro?"
	validated := v.Validate(transcript, recordWithScore(90))

	analysis := validated[KeyBehaviorAnalysis].(*models.BehaviorAnalysis)
	assert.True(t, analysis.Context.TeachingAboutBullying)
	assert.True(t, analysis.Context.PracticingBullying)
	require.Len(t, analysis.Context.Contradictions, 1)
	assert.Equal(t, 20, analysis.Context.HypocrisyScore)

	// behavior 85 (sarcasm), context 20, legal 0 (sarcasm violation, no
	// constructive content): 85*0.40 + 20*0.30 = 40.
	assert.Equal(t, 40, validated[KeyRigorousScore])

	warning, warned := validated[KeyValidationWarning].(*models.DiscrepancyWarning)
	require.True(t, warned)
	assert.Contains(t, warning.Reason, "sarcasm patterns")
	assert.Contains(t, warning.Reason, "teaching-behavior contradiction (hypocrisy)")
	assert.True(t, strings.HasPrefix(warning.Reason, "Multiple issues: "))
	assert.NotEqual(t, recommendationNoSpecifics, warning.Recommendation)
	assert.Equal(t, models.RiskCritical, warning.Lei13185Risk)

	report := validated[KeyValidationReport].(*models.ValidationReport)
	assert.Equal(t, 3, report.DetectedIssuesCount)
}

func TestIdempotence(t *testing.T) {
	v := newValidator(t)
	record := recordWithScore(85)

	once := v.Validate(cleanTranscript, record)
	twice := v.Validate(cleanTranscript, once)

	assert.Equal(t, once[KeyRigorousScore], twice[KeyRigorousScore])
	assert.Equal(t, once[KeyValidationReport], twice[KeyValidationReport])
}

func TestInputsAreNotMutated(t *testing.T) {
	v := newValidator(t)
	record := recordWithScore(85)
	record["existing"] = "field"

	validated := v.Validate(cleanTranscript, record)

	assert.Len(t, record, 2)
	assert.NotContains(t, record, KeyRigorousScore)
	assert.NotContains(t, record, KeyValidationReport)
	assert.Equal(t, "field", validated["existing"])
}

func TestMissingScoreDefaultsToZero(t *testing.T) {
	v := newValidator(t)

	validated := v.Validate(cleanTranscript, map[string]interface{}{})

	// current_score 0 against a positive rigorous score is a negative delta:
	// the external model under-scored, which is not an inflation warning.
	assert.Equal(t, 70, validated[KeyRigorousScore])
	_, warned := validated[KeyValidationWarning]
	assert.False(t, warned)
}

func TestRigorousScoreStaysInRange(t *testing.T) {
	v := newValidator(t)

	triggers := []string{
		"Only you didn't finish, Ana?",
		"Pedro fell asleep again.",
		"Everyone, look at this mess.",
		"Nobody wants you in the group.",
		"Shut up, all of you.",
		"Let's discuss cyberbullying.",
		"Falamos sobre prevenção.",
		"Cada um tem responsabilidade.",
		"Denuncie para um adulto.",
		"I can't find Maria today.",
		"Today we are learning fractions.",
	}

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 200; i++ {
		var parts []string
		for _, trigger := range triggers {
			if rng.Intn(2) == 1 {
				parts = append(parts, trigger)
			}
		}
		transcript := strings.Join(parts, " ")

		validated := v.Validate(transcript, recordWithScore(float64(rng.Intn(101))))
		score := validated[KeyRigorousScore].(int)
		assert.GreaterOrEqual(t, score, 0, transcript)
		assert.LessOrEqual(t, score, 100, transcript)
	}
}

func TestAddingTriggerNeverRaisesRigorousScore(t *testing.T) {
	v := newValidator(t)

	base := v.Validate(cleanTranscript, recordWithScore(0))[KeyRigorousScore].(int)
	withSarcasm := v.Validate(cleanTranscript+" Only you forgot again, Ana?", recordWithScore(0))[KeyRigorousScore].(int)

	assert.LessOrEqual(t, withSarcasm, base)
}

func TestPanickingLeafDegradesToSafeDefaults(t *testing.T) {
	// A nil lexicon makes every leaf panic on first pattern access; each must
	// recover to its safest default instead of aborting the validation.
	v := New(nil, zap.NewNop())

	validated := v.Validate("Only you forgot again, Ana?", recordWithScore(0))

	// behavior 100, context 90, legal 100: 40 + 27 + 30 = 97.
	assert.Equal(t, 97, validated[KeyRigorousScore])
	report := validated[KeyValidationReport].(*models.ValidationReport)
	assert.Equal(t, 0, report.DetectedIssuesCount)
}
