// Package behavior scans lesson transcripts for classroom-climate red flags:
// sarcasm, disengagement, public shaming, exclusion and verbal aggression.
package behavior

import (
	"fmt"
	"strings"

	"validation-service/internal/lexicon"
	"validation-service/internal/models"
)

// Scoring constants. The safety score starts at 100 and each detected
// category applies its deduction once, clamped at zero.
const (
	maxEvidence = 3

	sarcasmDeduction       = 15
	disengagementDeduction = 20
	publicShameDeduction   = 20
	exclusionDeduction     = 25
	aggressionDeduction    = 30
)

// NoIssuesSummary is the fixed summary used when nothing fired.
const NoIssuesSummary = "no classroom-climate issues detected"

// Detector is a pure, deterministic transcript scanner. It holds no state
// besides the injected pattern tables.
type Detector struct {
	lex *lexicon.Lexicon
}

func NewDetector(lex *lexicon.Lexicon) *Detector {
	return &Detector{lex: lex}
}

// EmptyReport is the safest default: no detections, full safety score.
// An empty transcript yields exactly this report.
func EmptyReport() *models.BehaviorReport {
	return &models.BehaviorReport{
		SafetyScore: 100,
		Summary:     NoIssuesSummary,
	}
}

// Analyze scans the transcript and produces a behavior report. The same
// transcript always yields the same report.
func (d *Detector) Analyze(transcript string) *models.BehaviorReport {
	sentences := lexicon.Sentences(transcript)

	report := &models.BehaviorReport{
		Sarcasm:       d.scan(sentences, d.lex.Sarcasm),
		Disengagement: d.scan(sentences, d.lex.Disengagement),
		PublicShame:   d.scan(sentences, d.lex.PublicShame),
		Exclusion:     d.scan(sentences, d.lex.Exclusion),
		Aggression:    d.scan(sentences, d.lex.Aggression),
	}

	// Severity rules are fixed per category. Any disengagement is significant
	// in this domain, so it grades high outright. Sarcasm escalates from
	// medium to high when it co-occurs with public shaming.
	if report.Sarcasm.Detected {
		report.Sarcasm.Severity = models.SeverityMedium
		if report.PublicShame.Detected {
			report.Sarcasm.Severity = models.SeverityHigh
		}
	}
	if report.Disengagement.Detected {
		report.Disengagement.Severity = models.SeverityHigh
	}
	if report.PublicShame.Detected {
		report.PublicShame.Severity = models.SeverityHigh
	}
	if report.Exclusion.Detected {
		report.Exclusion.Severity = models.SeverityHigh
	}
	if report.Aggression.Detected {
		report.Aggression.Severity = models.SeverityCritical
	}

	report.SafetyScore = safetyScore(report)
	report.Summary = summarize(report)

	return report
}

// scan returns a detection for one category: detected when at least one cue
// matches any sentence, with the first three distinct matching sentences as
// evidence, in order of first occurrence.
func (d *Detector) scan(sentences []string, cues []string) models.Detection {
	var detection models.Detection

	for _, sentence := range sentences {
		if !lexicon.Match(strings.ToLower(sentence), cues) {
			continue
		}
		detection.Detected = true
		if len(detection.Evidence) < maxEvidence && !containsString(detection.Evidence, sentence) {
			detection.Evidence = append(detection.Evidence, sentence)
		}
	}

	return detection
}

func safetyScore(report *models.BehaviorReport) int {
	score := 100
	if report.Sarcasm.Detected {
		score -= sarcasmDeduction
	}
	if report.Disengagement.Detected {
		score -= disengagementDeduction
	}
	if report.PublicShame.Detected {
		score -= publicShameDeduction
	}
	if report.Exclusion.Detected {
		score -= exclusionDeduction
	}
	if report.Aggression.Detected {
		score -= aggressionDeduction
	}
	if score < 0 {
		score = 0
	}
	return score
}

func summarize(report *models.BehaviorReport) string {
	var fired []string
	for _, nd := range report.Detections() {
		if nd.Detection.Detected {
			fired = append(fired, nd.Name)
		}
	}
	if len(fired) == 0 {
		return NoIssuesSummary
	}
	return fmt.Sprintf("issues detected: %s", strings.Join(fired, ", "))
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
