package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// Lesson is a submitted classroom transcript. The transcript itself is
// minors' data and is stored encrypted.
type Lesson struct {
	ID                  string    `json:"id" db:"id"`
	TranscriptEncrypted string    `json:"-" db:"transcript_encrypted"`
	CreatedAt           time.Time `json:"created_at" db:"created_at"`
}

// Validation is the persisted outcome of cross-checking an external analysis
// result against the rigor validator. Report and Warning hold the rendered
// ValidationReport and DiscrepancyWarning as JSONB.
type Validation struct {
	ID            int64          `json:"id" db:"id"`
	LessonID      string         `json:"lesson_id" db:"lesson_id"`
	RigorousScore int            `json:"rigorous_score" db:"rigorous_score"`
	CurrentScore  float64        `json:"current_score" db:"current_score"`
	Delta         float64        `json:"delta" db:"delta"`
	OverallRisk   string         `json:"overall_risk" db:"overall_risk"`
	Flagged       bool           `json:"flagged" db:"flagged"`
	Report        types.JSONText `json:"report" db:"report"`
	Warning       types.JSONText `json:"warning,omitempty" db:"warning"`
	CreatedAt     time.Time      `json:"created_at" db:"created_at"`
}
