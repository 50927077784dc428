package matching

// Similarity expresses how closely a past position resembles the target job.
type Similarity int

const (
	SimilarityNone      Similarity = 0
	SimilarityIndirect  Similarity = 10
	SimilarityPartial   Similarity = 20
	SimilarityIdentical Similarity = 30
)

// Valid reports whether s is one of the four defined levels.
func (s Similarity) Valid() bool {
	switch s {
	case SimilarityNone, SimilarityIndirect, SimilarityPartial, SimilarityIdentical:
		return true
	default:
		return false
	}
}

// Label returns the human readable level name.
func (s Similarity) Label() string {
	switch s {
	case SimilarityIdentical:
		return "identical"
	case SimilarityPartial:
		return "partial"
	case SimilarityIndirect:
		return "indirect"
	case SimilarityNone:
		return "none"
	default:
		return "unknown"
	}
}

// Qualification is a single requirement listed on a job posting.
type Qualification struct {
	ID        ID     `json:"id"`
	Name      string `json:"name"`
	IsMatched bool   `json:"isMatched"`
}

// Experience is one past position of the applicant. Duration is in months.
type Experience struct {
	ID         ID         `json:"id"`
	Title      string     `json:"title"`
	Duration   int        `json:"duration"`
	Similarity Similarity `json:"similarity"`
}

// Input groups everything Analyze needs for one applicant/job pair.
type Input struct {
	Required    []Qualification `json:"requiredQualifications"`
	Preferred   []Qualification `json:"preferredQualifications"`
	Experiences []Experience    `json:"experiences"`
}

// MatchAnalysis is the derived result of scoring. It is recomputed on demand and never stored.
type MatchAnalysis struct {
	RequiredScore           int               `json:"requiredScore"`
	PreferredScore          int               `json:"preferredScore"`
	TotalScore              int               `json:"totalScore"`
	RequiredQualifications  []Qualification   `json:"requiredQualifications"`
	PreferredQualifications []Qualification   `json:"preferredQualifications"`
	Experiences             []Experience      `json:"experiences"`
	ExperienceSummary       ExperienceSummary `json:"experienceSummary"`
}

// ExperienceSummary is informational only and does not contribute to TotalScore.
type ExperienceSummary struct {
	TotalMonths          int `json:"totalMonths"`
	IndustryMatchPercent int `json:"industryMatchPercent"`
}
