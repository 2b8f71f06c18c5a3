package scoring

type Tier string

const (
	TierHigh   Tier = "high"
	TierMedium Tier = "medium"
	TierLow    Tier = "low"
)

var feedbacks = map[Tier][]string{
	TierHigh: {
		"Excellent work! Your content is engaging and well-structured.",
		"Great creativity! This would definitely grab attention.",
		"Very polished submission with clear messaging.",
	},
	TierMedium: {
		"Good effort! Consider adding more specific details.",
		"Solid foundation. Try making the call-to-action stronger.",
		"Nice work! A bit more personality could make it stand out.",
	},
	TierLow: {
		"Good start! Focus on being more specific and actionable.",
		"Consider restructuring for better flow and engagement.",
		"Try adding more emotion or urgency to capture attention.",
	},
}

func TierOf(percentage int) Tier {
	switch {
	case percentage >= 85:
		return TierHigh
	case percentage >= 70:
		return TierMedium
	default:
		return TierLow
	}
}

// FeedbackFor returns a copy of the canned messages of a tier.
func FeedbackFor(t Tier) []string {
	msgs := feedbacks[t]
	out := make([]string, len(msgs))
	copy(out, msgs)
	return out
}
