package match

import "sort"

// DefaultMinScore is the minimum similarity for a name to be suggested.
const DefaultMinScore = 0.6

// Candidate is a name scored against a target.
type Candidate struct {
	Name  string
	Score float64
}

// CandidateList is a list of candidates, best first.
type CandidateList []Candidate

// RankNames scores every name against target and returns those at or above
// minScore, sorted by score descending and then by name.
func RankNames(target string, names []string, minScore float64) CandidateList {
	var out CandidateList

	for _, name := range names {
		if score := Similarity(target, name); score >= minScore {
			out = append(out, Candidate{Name: name, Score: score})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}

		return out[i].Name < out[j].Name
	})

	return out
}

// Top returns the first n candidates.
func (c CandidateList) Top(n int) CandidateList {
	if n >= len(c) {
		return c
	}

	return c[:n]
}

// Names returns the candidate names in rank order.
func (c CandidateList) Names() []string {
	if len(c) == 0 {
		return nil
	}

	out := make([]string, len(c))
	for i, cand := range c {
		out[i] = cand.Name
	}

	return out
}
