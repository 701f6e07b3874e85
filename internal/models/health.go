package models

// HealthGrade is a letter grade summarizing memory behavior quality.
type HealthGrade string

const (
	GradeA HealthGrade = "A"
	GradeB HealthGrade = "B"
	GradeC HealthGrade = "C"
	GradeD HealthGrade = "D"
	GradeF HealthGrade = "F"
)

// HealthAssessment combines statistics and leak analysis into a single
// score, grade and set of ranked recommendations.
type HealthAssessment struct {
	Score           float64     `json:"score"` // 0-100
	Grade           HealthGrade `json:"grade"`
	Summary         string      `json:"summary"`
	Recommendations []string    `json:"recommendations"`
}
