package models

// Severity grades a single behavioral detection.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// ComplianceLevel classifies how well a lesson satisfies a statutory check.
type ComplianceLevel string

const (
	ComplianceFull    ComplianceLevel = "full"
	CompliancePartial ComplianceLevel = "partial"
	ComplianceMinimal ComplianceLevel = "minimal"
	ComplianceNone    ComplianceLevel = "none"
)

// RiskLevel classifies the legal exposure of a lesson.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// Detection is the shared detected/not-detected shape used by every
// behavior category. When Detected is false, Severity and Evidence are empty.
type Detection struct {
	Detected bool     `json:"detected"`
	Severity Severity `json:"severity,omitempty"`
	Evidence []string `json:"evidence,omitempty"`
}

// Behavior category names, used as stable keys in reports and issue labels.
const (
	CategorySarcasm       = "sarcasm"
	CategoryDisengagement = "disengagement"
	CategoryPublicShame   = "public_shame"
	CategoryExclusion     = "exclusion"
	CategoryAggression    = "aggression"
)

// BehaviorReport is the output of the behavior detector.
type BehaviorReport struct {
	Sarcasm       Detection `json:"sarcasm"`
	Disengagement Detection `json:"disengagement"`
	PublicShame   Detection `json:"public_shame"`
	Exclusion     Detection `json:"exclusion"`
	Aggression    Detection `json:"aggression"`
	SafetyScore   int       `json:"safety_score"`
	Summary       string    `json:"summary"`
}

// NamedDetection pairs a category name with its detection for ordered iteration.
type NamedDetection struct {
	Name      string
	Detection Detection
}

// Detections returns the five categories in a fixed order so report rendering
// and issue collection stay deterministic.
func (r *BehaviorReport) Detections() []NamedDetection {
	return []NamedDetection{
		{CategorySarcasm, r.Sarcasm},
		{CategoryDisengagement, r.Disengagement},
		{CategoryPublicShame, r.PublicShame},
		{CategoryExclusion, r.Exclusion},
		{CategoryAggression, r.Aggression},
	}
}

// ContextReport is the output of the context detector.
type ContextReport struct {
	DetectedTopics        []string `json:"detected_topics"`
	TeachingAboutBullying bool     `json:"teaching_about_bullying"`
	PracticingBullying    bool     `json:"practicing_bullying"`
	Contradictions        []string `json:"contradictions"`
	HypocrisyScore        int      `json:"hypocrisy_score"`
	Recommendation        string   `json:"recommendation"`
}

// StatuteResult holds the outcome of one statutory check.
type StatuteResult struct {
	ComplianceLevel ComplianceLevel `json:"compliance_level"`
	Score           int             `json:"score"`
	RiskLevel       RiskLevel       `json:"risk_level"`
	Violations      []string        `json:"violations"`
	Recommendations []string        `json:"recommendations"`
}

// ComplianceReport is the output of the legal compliance checker. With a
// single statute implemented the overall fields mirror the Lei 13.185 result.
type ComplianceReport struct {
	Lei13185          StatuteResult   `json:"lei_13185"`
	OverallCompliance ComplianceLevel `json:"overall_compliance"`
	OverallRisk       RiskLevel       `json:"overall_risk"`
	CombinedScore     int             `json:"combined_score"`
	LegalSummary      string          `json:"legal_summary"`
}

// ScoreBreakdown shows the weighted contribution of each leaf report.
type ScoreBreakdown struct {
	BehaviorComponent int `json:"behavior_component"`
	ContextComponent  int `json:"context_component"`
	LegalComponent    int `json:"legal_component"`
}

// ScoreSet carries the raw leaf scores inside the behavior_analysis block.
type ScoreSet struct {
	Behavior int `json:"behavior"`
	Context  int `json:"context"`
	Legal    int `json:"legal"`
}

// BehaviorAnalysis is the nested sub-record attached to a validated analysis
// result. Field names are stable, consumers key off them.
type BehaviorAnalysis struct {
	Behavior   *BehaviorReport   `json:"behavior"`
	Context    *ContextReport    `json:"context"`
	Compliance *ComplianceReport `json:"compliance"`
	Scores     ScoreSet          `json:"scores"`
}

// ValidationReport is always attached to a validated analysis result,
// whether or not a discrepancy was found.
type ValidationReport struct {
	BehaviorScore           int            `json:"behavior_score"`
	ContextScore            int            `json:"context_score"`
	LegalScore              int            `json:"legal_score"`
	RigorousScore           int            `json:"rigorous_score"`
	RigorousScoreNormalized float64        `json:"rigorous_score_normalized"`
	ScoreBreakdown          ScoreBreakdown `json:"score_breakdown"`
	DetectedIssuesCount     int            `json:"detected_issues_count"`
}

// DiscrepancyWarning is attached only when the externally supplied score
// exceeds the rigorous score by more than the discrepancy threshold.
type DiscrepancyWarning struct {
	Type           string    `json:"type"`
	CurrentScore   float64   `json:"current_score"`
	RigorousScore  int       `json:"rigorous_score"`
	Delta          float64   `json:"delta"`
	Lei13185Risk   RiskLevel `json:"lei_13185_risk"`
	OverallRisk    RiskLevel `json:"overall_risk"`
	Reason         string    `json:"reason"`
	Recommendation string    `json:"recommendation"`
}

// WarningTypeInflatedScore is the only discrepancy type currently produced.
const WarningTypeInflatedScore = "inflated_score"
