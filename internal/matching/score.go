package matching

const (
	RequiredPool  = 70
	PreferredPool = 30
	MaxScore      = RequiredPool + PreferredPool
)

// Analyze scores required and preferred qualifications against their pools.
// Experiences are carried through and summarized but never change the scores.
// It never fails; run Validate first when the input comes from outside.
func Analyze(required, preferred []Qualification, experiences []Experience) MatchAnalysis {
	req := PoolScore(required, RequiredPool)
	pref := PoolScore(preferred, PreferredPool)
	return MatchAnalysis{
		RequiredScore:           req,
		PreferredScore:          pref,
		TotalScore:              req + pref,
		RequiredQualifications:  cloneQualifications(required),
		PreferredQualifications: cloneQualifications(preferred),
		Experiences:             cloneExperiences(experiences),
		ExperienceSummary:       SummarizeExperience(experiences),
	}
}

// AnalyzeInput is Analyze over a grouped Input.
func AnalyzeInput(in Input) MatchAnalysis {
	return Analyze(in.Required, in.Preferred, in.Experiences)
}

// PoolScore returns round(matched/total*pool), rounding halves up.
// An empty collection earns the whole pool.
func PoolScore(quals []Qualification, pool int) int {
	if len(quals) == 0 {
		return pool
	}
	matched := CountMatched(quals)
	return roundRatio(matched*pool, len(quals))
}

// CountMatched returns how many qualifications are marked as matched.
func CountMatched(quals []Qualification) int {
	n := 0
	for _, q := range quals {
		if q.IsMatched {
			n++
		}
	}
	return n
}

// SummarizeExperience totals months and computes a duration weighted similarity percent.
// Entries without duration count with weight one so a résumé of zero-month roles still reports.
func SummarizeExperience(experiences []Experience) ExperienceSummary {
	if len(experiences) == 0 {
		return ExperienceSummary{}
	}
	total := 0
	weighted := 0
	weights := 0
	for _, e := range experiences {
		d := e.Duration
		if d < 0 {
			d = 0
		}
		total += d
		w := d
		if w == 0 {
			w = 1
		}
		weights += w
		weighted += w * int(e.Similarity)
	}
	return ExperienceSummary{
		TotalMonths:          total,
		IndustryMatchPercent: roundRatio(weighted*100, weights*int(SimilarityIdentical)),
	}
}

func roundRatio(num, den int) int {
	if den <= 0 {
		return 0
	}
	return (2*num + den) / (2 * den)
}

func cloneQualifications(in []Qualification) []Qualification {
	out := make([]Qualification, len(in))
	copy(out, in)
	return out
}

func cloneExperiences(in []Experience) []Experience {
	out := make([]Experience, len(in))
	copy(out, in)
	return out
}
