package constants

import (
	"strings"
)

// Rating is the ordinal sustainability grade, A (best) through F (worst).
type Rating string

const (
	RatingA Rating = "A"
	RatingB Rating = "B"
	RatingC Rating = "C"
	RatingD Rating = "D"
	RatingF Rating = "F"
)

var allRatings = []Rating{RatingA, RatingB, RatingC, RatingD, RatingF}

func RatingsAsStringSlice() []string {
	result := make([]string, len(allRatings))
	for i, r := range allRatings {
		result[i] = string(r)
	}
	return result
}

// CanonicalizeRating maps a model-supplied grade onto the Rating enum.
// Models emit things like "B+", "b", "grade: C", or "E"; anything we cannot
// place lands on C with ok=false.
func CanonicalizeRating(input string) (Rating, bool) {
	s := strings.ToUpper(strings.TrimSpace(input))
	if s == "" {
		return RatingC, false
	}

	// strip a leading "GRADE" / "RATING" label if present
	for _, prefix := range []string{"GRADE:", "GRADE", "RATING:", "RATING"} {
		s = strings.TrimSpace(strings.TrimPrefix(s, prefix))
	}
	// drop +/- modifiers
	s = strings.TrimRight(s, "+-")

	switch s {
	case "A", "B", "C", "D", "F":
		return Rating(s), true
	case "E":
		// some graders use A-E scales; E is our F
		return RatingF, true
	}
	return RatingC, false
}

// WorseThan reports whether r is strictly worse (closer to F) than other.
func (r Rating) WorseThan(other Rating) bool {
	return ratingOrdinal(r) > ratingOrdinal(other)
}

func ratingOrdinal(r Rating) int {
	for i, x := range allRatings {
		if x == r {
			return i
		}
	}
	return len(allRatings) / 2 // unknown -> middle of the scale
}
