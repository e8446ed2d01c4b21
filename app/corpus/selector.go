package corpus

import "sort"

const (
	minQualityAnswers = 3
	maxQualityAnswers = 8
)

// QualityAnswer is an answer selected by the vote/accepted policy plus its
// selection rank. Derived, never persisted.
type QualityAnswer struct {
	Answer
	Rank int
}

// SelectQualityAnswers picks representative answers: every accepted answer
// first, then every answer with positive votes, both in descending vote
// order. Fewer than three selections are padded from the remaining answers
// (highest votes first); the result is capped at eight. An empty input
// yields an empty output.
func SelectQualityAnswers(answers []Answer) []QualityAnswer {
	if len(answers) == 0 {
		return nil
	}

	sorted := make([]Answer, len(answers))
	copy(sorted, answers)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Votes > sorted[j].Votes
	})

	var selected []Answer
	for _, a := range sorted {
		if a.IsAccepted {
			selected = append(selected, a)
		}
	}
	for _, a := range sorted {
		if !a.IsAccepted && a.Votes > 0 {
			selected = append(selected, a)
		}
	}

	// Pad from the complement: answers that are neither accepted nor voted.
	for _, a := range sorted {
		if len(selected) >= minQualityAnswers {
			break
		}
		if !a.IsAccepted && a.Votes <= 0 {
			selected = append(selected, a)
		}
	}

	if len(selected) > maxQualityAnswers {
		selected = selected[:maxQualityAnswers]
	}

	quality := make([]QualityAnswer, len(selected))
	for i, a := range selected {
		quality[i] = QualityAnswer{Answer: a, Rank: i + 1}
	}
	return quality
}
