// Package context_detector classifies what a lesson is about and checks the
// topic against the teacher's own conduct. A teacher covering bullying
// prevention while exhibiting bullying-adjacent behavior is the contradiction
// this component exists to catch.
package context_detector

import (
	"strings"

	"validation-service/internal/lexicon"
	"validation-service/internal/models"
)

// Hypocrisy score bands. The score reads as consistency: baseline when topic
// and conduct agree, lowest band only when the lesson teaches about bullying
// while the teacher practices it.
const (
	baselineScore      = 90
	behaviorOnlyScore  = 55
	contradictionScore = 20
)

const contradictionDescription = "lesson covers bullying prevention while the transcript shows bullying-adjacent behavior by the teacher"

// Branch-keyed recommendations.
const (
	recommendationClean         = "No topic-behavior conflicts found. Keep the current approach."
	recommendationBehaviorOnly  = "Review the flagged interactions; the behavior patterns undermine classroom climate even though the lesson topic is unrelated."
	recommendationContradiction = "Align classroom conduct with the anti-bullying content being taught before this lesson is published."
)

// Detector is independent of the behavior detector: it reuses the same
// pattern tables but never consumes another component's report.
type Detector struct {
	lex *lexicon.Lexicon
}

func NewDetector(lex *lexicon.Lexicon) *Detector {
	return &Detector{lex: lex}
}

// EmptyReport is the safest default: no topics, no contradiction, baseline score.
func EmptyReport() *models.ContextReport {
	return &models.ContextReport{
		HypocrisyScore: baselineScore,
		Recommendation: recommendationClean,
	}
}

// Analyze classifies the lesson's topics and derives the hypocrisy signal.
func (d *Detector) Analyze(transcript string) *models.ContextReport {
	lower := strings.ToLower(transcript)

	report := &models.ContextReport{
		DetectedTopics: d.classifyTopics(lower),
		HypocrisyScore: baselineScore,
		Recommendation: recommendationClean,
	}

	for _, tag := range report.DetectedTopics {
		if tag == lexicon.TopicBullying {
			report.TeachingAboutBullying = true
		}
	}

	// Same lexical families the behavior detector uses for sarcasm, shaming
	// and disengagement, re-scanned here to keep the components decoupled.
	report.PracticingBullying = lexicon.Match(lower, d.lex.Sarcasm) ||
		lexicon.Match(lower, d.lex.PublicShame) ||
		lexicon.Match(lower, d.lex.Disengagement)

	switch {
	case report.TeachingAboutBullying && report.PracticingBullying:
		report.Contradictions = append(report.Contradictions, contradictionDescription)
		report.HypocrisyScore = contradictionScore
		report.Recommendation = recommendationContradiction
	case report.PracticingBullying:
		report.HypocrisyScore = behaviorOnlyScore
		report.Recommendation = recommendationBehaviorOnly
	}

	return report
}

func (d *Detector) classifyTopics(lowerTranscript string) []string {
	var tags []string
	for _, topic := range d.lex.Topics {
		if lexicon.Match(lowerTranscript, topic.Cues) {
			tags = append(tags, topic.Tag)
		}
	}
	return tags
}
