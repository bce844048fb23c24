// Package legal evaluates lesson transcripts against the anti-bullying
// obligations of Lei 13.185/2015: prevention instruction, responsibility
// framing, reporting channels and inclusion of all students.
package legal

import (
	"fmt"
	"strings"

	"validation-service/internal/lexicon"
	"validation-service/internal/models"
)

// Scoring constants. Constructive content earns points up to 100; each
// violation family costs a fixed penalty. A lesson that simply omits the
// constructive elements floors at 10 rather than 0, so omission is never
// conflated with violating the law.
const (
	preventionPoints     = 30
	responsibilityPoints = 30
	reportingPoints      = 40
	maxScore             = 100
	omissionFloor        = 10
	violationPenalty     = 20
)

const cleanSummary = "Lesson presents no Lei 13.185 compliance violations."

// Violation and recommendation templates per triggered condition.
const (
	violationSarcasm       = "Sarcastic or demeaning remarks directed at students (Lei 13.185, art. 2º)"
	violationPublicShame   = "Student exposed or ridiculed in front of the class (Lei 13.185, art. 2º)"
	violationDisengagement = "Student disengagement left unaddressed during the lesson"
	violationExclusion     = "Student excluded or isolated from class activities (Lei 13.185, art. 3º)"

	recommendSarcasm       = "Replace sarcastic remarks with direct, respectful feedback."
	recommendPublicShame   = "Address individual mistakes privately, never in front of the class."
	recommendDisengagement = "Actively re-engage students who have checked out of the lesson."
	recommendExclusion     = "Bring isolated students back into group activities."
	recommendInclusion     = "Account for every enrolled student; missing or sleeping students must be followed up."
)

// Checker is a pure transcript evaluator over injected pattern tables.
type Checker struct {
	lex *lexicon.Lexicon
}

func NewChecker(lex *lexicon.Lexicon) *Checker {
	return &Checker{lex: lex}
}

// EmptyReport is the safest default: full marks, no violations.
func EmptyReport() *models.ComplianceReport {
	lei := models.StatuteResult{
		ComplianceLevel: models.ComplianceFull,
		Score:           maxScore,
		RiskLevel:       models.RiskLow,
	}
	return &models.ComplianceReport{
		Lei13185:          lei,
		OverallCompliance: lei.ComplianceLevel,
		OverallRisk:       lei.RiskLevel,
		CombinedScore:     lei.Score,
		LegalSummary:      cleanSummary,
	}
}

// CheckCompliance evaluates the transcript against Lei 13.185. Only one
// statutory dimension is implemented, so the overall fields mirror it.
func (c *Checker) CheckCompliance(transcript string) *models.ComplianceReport {
	lei := c.checkLei13185(strings.ToLower(transcript))

	return &models.ComplianceReport{
		Lei13185:          lei,
		OverallCompliance: lei.ComplianceLevel,
		OverallRisk:       lei.RiskLevel,
		CombinedScore:     lei.Score,
		LegalSummary:      summarize(lei),
	}
}

func (c *Checker) checkLei13185(lower string) models.StatuteResult {
	var violations, recommendations []string

	appendIf := func(cues []string, violation, recommendation string) {
		if lexicon.Match(lower, cues) {
			violations = append(violations, violation)
			recommendations = append(recommendations, recommendation)
		}
	}
	appendIf(c.lex.Sarcasm, violationSarcasm, recommendSarcasm)
	appendIf(c.lex.PublicShame, violationPublicShame, recommendPublicShame)
	appendIf(c.lex.Disengagement, violationDisengagement, recommendDisengagement)
	appendIf(c.lex.Exclusion, violationExclusion, recommendExclusion)

	score := constructiveScore(lower, c.lex)
	score -= violationPenalty * len(violations)
	if score < 0 {
		score = 0
	}

	level, risk := bands(score)

	// Inclusion coverage folds into the risk level only: a student the
	// teacher cannot account for escalates risk one band.
	if lexicon.Match(lower, c.lex.InclusionGaps) {
		risk = escalate(risk)
		recommendations = append(recommendations, recommendInclusion)
	}

	return models.StatuteResult{
		ComplianceLevel: level,
		Score:           score,
		RiskLevel:       risk,
		Violations:      violations,
		Recommendations: dedupe(recommendations),
	}
}

// constructiveScore awards fixed points for each constructive instructional
// element present, capped at 100 with a floor of 10 when none are present.
func constructiveScore(lower string, lex *lexicon.Lexicon) int {
	score := 0
	if lexicon.Match(lower, lex.Prevention) {
		score += preventionPoints
	}
	if lexicon.Match(lower, lex.Responsibility) {
		score += responsibilityPoints
	}
	if lexicon.Match(lower, lex.Reporting) {
		score += reportingPoints
	}
	if score > maxScore {
		score = maxScore
	}
	if score == 0 {
		score = omissionFloor
	}
	return score
}

func bands(score int) (models.ComplianceLevel, models.RiskLevel) {
	switch {
	case score >= 80:
		return models.ComplianceFull, models.RiskLow
	case score >= 60:
		return models.CompliancePartial, models.RiskMedium
	case score >= 30:
		return models.ComplianceMinimal, models.RiskHigh
	default:
		return models.ComplianceNone, models.RiskCritical
	}
}

func escalate(risk models.RiskLevel) models.RiskLevel {
	switch risk {
	case models.RiskLow:
		return models.RiskMedium
	case models.RiskMedium:
		return models.RiskHigh
	default:
		return models.RiskCritical
	}
}

func summarize(lei models.StatuteResult) string {
	if len(lei.Violations) == 0 {
		return cleanSummary
	}
	return fmt.Sprintf("Lesson conflicts with Lei 13.185 obligations: %s.", lei.Violations[0])
}

func dedupe(list []string) []string {
	seen := make(map[string]struct{}, len(list))
	var out []string
	for _, item := range list {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
