package domain

// Sub-score names, in breakdown order
const (
	SubScoreCarbon         = "carbon"
	SubScoreRecyclability  = "recyclability"
	SubScoreSustainability = "sustainability"
	SubScorePackaging      = "packaging"
)

// ScoreSource identifies which path of the resolution pipeline produced a breakdown
type ScoreSource string

const (
	SourceAI        ScoreSource = "ai"
	SourceHeuristic ScoreSource = "heuristic"
)

// SubScores holds the four 0-100 sub-scores
type SubScores struct {
	Carbon         int `json:"carbon"`
	Recyclability  int `json:"recyclability"`
	Sustainability int `json:"sustainability"`
	Packaging      int `json:"packaging"`
}

// ScoreFactor explains one sub-score's contribution to the overall score
type ScoreFactor struct {
	Name        string `json:"name"`
	Value       int    `json:"value"`
	Weight      int    `json:"weight"` // percent
	Description string `json:"description"`
}

// EcoScoreBreakdown is the fully populated result of scoring a product
type EcoScoreBreakdown struct {
	SubScores
	Overall   int           `json:"overall"`
	Grade     string        `json:"grade"`
	Factors   []ScoreFactor `json:"factors"`
	Source    ScoreSource   `json:"source"`
	Reasoning string        `json:"reasoning,omitempty"`
}

// AIAssessment is the parsed reply of the AI model. Overall is nil when the
// model did not provide one.
type AIAssessment struct {
	SubScores
	Overall   *int
	Reasoning string
}

// GradeFromScore maps an overall score to a letter grade
func GradeFromScore(overall int) string {
	switch {
	case overall >= 80:
		return "A"
	case overall >= 60:
		return "B"
	case overall >= 40:
		return "C"
	case overall >= 20:
		return "D"
	default:
		return "E"
	}
}
