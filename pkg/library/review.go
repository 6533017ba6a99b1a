package library

// Review category labels, from strongest positive to strongest negative.
// The tiers mirror each other: the 50- and 500-review escalation points
// apply symmetrically on both sides.
const (
	ReviewOverwhelminglyPositive = "Overwhelmingly Positive"
	ReviewVeryPositive           = "Very Positive"
	ReviewPositive               = "Positive"
	ReviewMostlyPositive         = "Mostly Positive"
	ReviewMixed                  = "Mixed"
	ReviewMostlyNegative         = "Mostly Negative"
	ReviewNegative               = "Negative"
	ReviewVeryNegative           = "Very Negative"
	ReviewOverwhelminglyNegative = "Overwhelmingly Negative"
)

// ReviewCategory derives the qualitative review label from positive and
// negative review counts. Below 10 total reviews there is no category and
// the empty string is returned. The ratio boundaries are inclusive: exactly
// 80% positive lands in the Positive tier, not Mostly Positive.
func ReviewCategory(positive, negative int) string {
	total := positive + negative
	if total < 10 {
		return ""
	}

	ratio := float64(positive) / float64(total)

	switch {
	case ratio >= 0.95 && total >= 500:
		return ReviewOverwhelminglyPositive
	case ratio >= 0.80:
		if total >= 50 {
			return ReviewVeryPositive
		}
		return ReviewPositive
	case ratio >= 0.70:
		return ReviewMostlyPositive
	case ratio >= 0.40:
		return ReviewMixed
	case ratio >= 0.20:
		return ReviewMostlyNegative
	default:
		if total >= 500 {
			return ReviewOverwhelminglyNegative
		}
		if total >= 50 {
			return ReviewVeryNegative
		}
		return ReviewNegative
	}
}
