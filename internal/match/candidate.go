package match

import (
	"reflect"
	"sort"
)

// Field is a readable source member offered as a candidate.
type Field struct {
	Name string
	Type reflect.Type
}

// Candidate represents a potential source member for a destination member.
type Candidate struct {
	Source Field

	// Scoring components
	NameScore  float64           // Normalized Levenshtein similarity (0-1)
	TypeCompat TypeCompatibility // Type compatibility result

	// Combined score for ranking (higher is better)
	CombinedScore float64
}

// CandidateList is a list of candidates with ranking functionality.
type CandidateList []Candidate

// RankCandidates ranks source members as matches for a destination member, best first. With
// a nil targetType the combined score is the name score alone.
func RankCandidates(targetName string, targetType reflect.Type, sources []Field) CandidateList {
	candidates := make(CandidateList, 0, len(sources))

	for _, source := range sources {
		nameScore := NameScore(source.Name, targetName)
		typeCompat := ScoreTypeCompatibility(source.Type, targetType)

		combined := nameScore
		if targetType != nil {
			combined = calculateCombinedScore(nameScore, typeCompat)
		}

		candidates = append(candidates, Candidate{
			Source:        source,
			NameScore:     nameScore,
			TypeCompat:    typeCompat,
			CombinedScore: combined,
		})
	}

	sort.Sort(candidates)

	return candidates
}

// Suggest returns up to n source member names that look like the destination member.
// With a nil targetType only names are compared.
func Suggest(targetName string, targetType reflect.Type, sources []Field, n int) []string {
	ranked := RankCandidates(targetName, targetType, sources).AboveThreshold(DefaultSuggestScore).Top(n)

	var names []string
	for _, c := range ranked {
		names = append(names, c.Source.Name)
	}

	return names
}

// calculateCombinedScore computes a combined score from name similarity and type compatibility.
// Weights:
//   - Name similarity: 60% (0.0-0.6)
//   - Type compatibility: 40% (0.0-0.4)
func calculateCombinedScore(nameScore float64, typeCompat TypeCompatibility) float64 {
	const (
		nameWeight = 0.6
		typeWeight = 0.4
	)

	var typeScore float64

	switch typeCompat {
	case TypeIdentical:
		typeScore = 1.0
	case TypeAssignable:
		typeScore = 0.9
	case TypeConvertible:
		typeScore = 0.7
	case TypeNeedsTransform:
		typeScore = 0.4
	case TypeIncompatible:
		typeScore = 0.0
	}

	return nameScore*nameWeight + typeScore*typeWeight
}

// Len implements sort.Interface.
func (c CandidateList) Len() int { return len(c) }

// Swap implements sort.Interface.
func (c CandidateList) Swap(i, j int) { c[i], c[j] = c[j], c[i] }

// Less implements sort.Interface.
// Sorts by combined score descending, then by source member name for determinism.
func (c CandidateList) Less(i, j int) bool {
	if c[i].CombinedScore != c[j].CombinedScore {
		return c[i].CombinedScore > c[j].CombinedScore
	}

	return c[i].Source.Name < c[j].Source.Name
}

// Top returns the first n candidates. A negative n keeps them all.
func (c CandidateList) Top(n int) CandidateList {
	if n < 0 || n >= len(c) {
		return c
	}

	return c[:n]
}

// AboveThreshold returns candidates with combined score above the threshold.
func (c CandidateList) AboveThreshold(threshold float64) CandidateList {
	var result CandidateList

	for _, cand := range c {
		if cand.CombinedScore >= threshold {
			result = append(result, cand)
		}
	}

	return result
}

// DefaultSuggestScore is the minimum combined score for a name to be suggested.
const DefaultSuggestScore = 0.55
