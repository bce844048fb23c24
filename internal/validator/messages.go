package validator

import (
	"strings"

	"validation-service/internal/models"
)

// Fallback strings when a large score gap exists but none of the leaves
// flagged anything specific.
const (
	reasonNoMarkers           = "Score gap detected without specific classroom markers"
	recommendationNoSpecifics = "Maintain current practices"
)

// Issue pairs a human-readable label with its remediation template. The
// warning reason and recommendation are assembled from parallel lists of
// these, so both stay aligned.
type Issue struct {
	Label  string
	Remedy string
}

var behaviorIssues = map[string]Issue{
	models.CategorySarcasm: {
		Label:  "sarcasm patterns",
		Remedy: "replace sarcastic remarks with direct, respectful feedback",
	},
	models.CategoryDisengagement: {
		Label:  "student disengagement",
		Remedy: "re-engage students who have checked out of the lesson",
	},
	models.CategoryPublicShame: {
		Label:  "public shaming",
		Remedy: "address individual mistakes privately",
	},
	models.CategoryExclusion: {
		Label:  "student exclusion",
		Remedy: "bring isolated students back into group activities",
	},
	models.CategoryAggression: {
		Label:  "verbal aggression",
		Remedy: "remove hostile language from classroom interactions",
	},
}

var contradictionIssue = Issue{
	Label:  "teaching-behavior contradiction (hypocrisy)",
	Remedy: "align classroom conduct with the anti-bullying content being taught",
}

var legalRiskIssue = Issue{
	Label:  "elevated legal compliance risk (Lei 13.185)",
	Remedy: "review Lei 13.185 obligations on prevention, responsibility and reporting",
}

// collectIssues gathers every triggered issue across the three leaf reports,
// in a fixed order: behavior categories, then the hypocrisy contradiction,
// then elevated legal risk. Its length is the detected_issues_count.
func collectIssues(b *models.BehaviorReport, c *models.ContextReport, l *models.ComplianceReport) []Issue {
	var issues []Issue
	for _, nd := range b.Detections() {
		if nd.Detection.Detected {
			issues = append(issues, behaviorIssues[nd.Name])
		}
	}
	if len(c.Contradictions) > 0 {
		issues = append(issues, contradictionIssue)
	}
	if l.OverallRisk == models.RiskHigh || l.OverallRisk == models.RiskCritical {
		issues = append(issues, legalRiskIssue)
	}
	return issues
}

func labels(issues []Issue) []string {
	out := make([]string, len(issues))
	for i, issue := range issues {
		out[i] = issue.Label
	}
	return out
}

func remedies(issues []Issue) []string {
	out := make([]string, len(issues))
	for i, issue := range issues {
		out[i] = issue.Remedy
	}
	return out
}

// BuildReason formats the warning reason from triggered-issue labels. Pure
// function, independently testable with synthetic lists.
func BuildReason(labels []string) string {
	switch len(labels) {
	case 0:
		return reasonNoMarkers
	case 1:
		return "Detected " + labels[0]
	default:
		return "Multiple issues: " + strings.Join(labels, ", ")
	}
}

// BuildRecommendation formats the warning recommendation from the parallel
// remediation templates.
func BuildRecommendation(remedies []string) string {
	if len(remedies) == 0 {
		return recommendationNoSpecifics
	}
	return strings.Join(remedies, "; ")
}
