// Package validator cross-checks an externally generated lesson analysis
// against deterministic signals extracted from the transcript itself. It
// combines the behavior, context and legal reports into a single rigorous
// score and flags the analysis when the external score overstates it.
package validator

import (
	"math"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"validation-service/internal/behavior"
	"validation-service/internal/context_detector"
	"validation-service/internal/legal"
	"validation-service/internal/lexicon"
	"validation-service/internal/models"
)

// The only tunable constants of the engine. Tests pin exact boundary behavior
// around them, so they live here and nowhere else. The weights sum to 1.0.
const (
	BehaviorWeight = 0.40
	ContextWeight  = 0.30
	LegalWeight    = 0.30

	// DiscrepancyThreshold is the maximum tolerated gap between the external
	// score and the rigorous score before a warning is attached. The check is
	// one-sided: only an external score ABOVE the rigorous one can warn. A
	// record with no extractable score reads as 0, giving a negative delta,
	// so it never produces an inflation warning; under-scoring surfaces as a
	// negative delta on the persisted validation row instead.
	DiscrepancyThreshold = 30.0
)

// Keys added to a validated analysis record. Existing keys are never removed.
const (
	KeyRigorousScore           = "rigorous_score"
	KeyRigorousScoreNormalized = "rigorous_score_normalized"
	KeyBehaviorAnalysis        = "behavior_analysis"
	KeyValidationReport        = "validation_report"
	KeyValidationWarning       = "validation_warning"
)

// Validator fans a transcript out to the three leaf detectors and reconciles
// their scores with the externally supplied one. It is stateless and safe for
// concurrent use.
type Validator struct {
	behavior *behavior.Detector
	context  *context_detector.Detector
	legal    *legal.Checker
	logger   *zap.Logger
}

func New(lex *lexicon.Lexicon, logger *zap.Logger) *Validator {
	return &Validator{
		behavior: behavior.NewDetector(lex),
		context:  context_detector.NewDetector(lex),
		legal:    legal.NewChecker(lex),
		logger:   logger,
	}
}

// Validate re-scores the transcript and returns a new record carrying the
// original fields plus the validation results. The inputs are never mutated.
// A nil record is returned unchanged, unvalidated; Validate never fails
// across this boundary.
func (v *Validator) Validate(transcript string, record map[string]interface{}) map[string]interface{} {
	if record == nil {
		return record
	}

	var (
		behaviorReport *models.BehaviorReport
		contextReport  *models.ContextReport
		legalReport    *models.ComplianceReport
	)

	// The leaves are independent; running them concurrently is purely a
	// latency optimization and cannot change the result.
	g := new(errgroup.Group)
	g.Go(func() error {
		behaviorReport = v.safeBehavior(transcript)
		return nil
	})
	g.Go(func() error {
		contextReport = v.safeContext(transcript)
		return nil
	})
	g.Go(func() error {
		legalReport = v.safeLegal(transcript)
		return nil
	})
	_ = g.Wait()

	rigorous := rigorousScore(behaviorReport.SafetyScore, contextReport.HypocrisyScore, legalReport.CombinedScore)
	current := ExtractCurrentScore(record)
	delta := current - float64(rigorous)

	issues := collectIssues(behaviorReport, contextReport, legalReport)

	report := &models.ValidationReport{
		BehaviorScore:           behaviorReport.SafetyScore,
		ContextScore:            contextReport.HypocrisyScore,
		LegalScore:              legalReport.CombinedScore,
		RigorousScore:           rigorous,
		RigorousScoreNormalized: float64(rigorous) / 100,
		ScoreBreakdown: models.ScoreBreakdown{
			BehaviorComponent: weighted(behaviorReport.SafetyScore, BehaviorWeight),
			ContextComponent:  weighted(contextReport.HypocrisyScore, ContextWeight),
			LegalComponent:    weighted(legalReport.CombinedScore, LegalWeight),
		},
		DetectedIssuesCount: len(issues),
	}

	augmented := make(map[string]interface{}, len(record)+5)
	for key, value := range record {
		augmented[key] = value
	}

	augmented[KeyRigorousScore] = rigorous
	augmented[KeyRigorousScoreNormalized] = float64(rigorous) / 100
	augmented[KeyBehaviorAnalysis] = &models.BehaviorAnalysis{
		Behavior:   behaviorReport,
		Context:    contextReport,
		Compliance: legalReport,
		Scores: models.ScoreSet{
			Behavior: behaviorReport.SafetyScore,
			Context:  contextReport.HypocrisyScore,
			Legal:    legalReport.CombinedScore,
		},
	}
	augmented[KeyValidationReport] = report

	if delta > DiscrepancyThreshold {
		augmented[KeyValidationWarning] = &models.DiscrepancyWarning{
			Type:           models.WarningTypeInflatedScore,
			CurrentScore:   current,
			RigorousScore:  rigorous,
			Delta:          delta,
			Lei13185Risk:   legalReport.Lei13185.RiskLevel,
			OverallRisk:    legalReport.OverallRisk,
			Reason:         BuildReason(labels(issues)),
			Recommendation: BuildRecommendation(remedies(issues)),
		}
		v.logger.Warn("External score exceeds rigorous score",
			zap.Float64("current_score", current),
			zap.Int("rigorous_score", rigorous),
			zap.Float64("delta", delta),
			zap.Int("issues", len(issues)))
	}

	return augmented
}

func rigorousScore(behaviorScore, contextScore, legalScore int) int {
	combined := float64(behaviorScore)*BehaviorWeight +
		float64(contextScore)*ContextWeight +
		float64(legalScore)*LegalWeight
	score := int(math.Round(combined))
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

func weighted(score int, weight float64) int {
	return int(math.Round(float64(score) * weight))
}

// A bug in one detector family must not block delivery of an analysis
// result, so each leaf degrades to its safest default report on panic.

func (v *Validator) safeBehavior(transcript string) (report *models.BehaviorReport) {
	defer func() {
		if r := recover(); r != nil {
			v.logger.Error("Behavior detector panicked, using safe defaults", zap.Any("panic", r))
			report = behavior.EmptyReport()
		}
	}()
	return v.behavior.Analyze(transcript)
}

func (v *Validator) safeContext(transcript string) (report *models.ContextReport) {
	defer func() {
		if r := recover(); r != nil {
			v.logger.Error("Context detector panicked, using safe defaults", zap.Any("panic", r))
			report = context_detector.EmptyReport()
		}
	}()
	return v.context.Analyze(transcript)
}

func (v *Validator) safeLegal(transcript string) (report *models.ComplianceReport) {
	defer func() {
		if r := recover(); r != nil {
			v.logger.Error("Legal checker panicked, using safe defaults", zap.Any("panic", r))
			report = legal.EmptyReport()
		}
	}()
	return v.legal.CheckCompliance(transcript)
}
