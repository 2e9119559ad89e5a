package insights

// RatingToSentiment maps a 1..5 star rating onto a [-1, 1] sentiment score:
// (rating-3)/2, so the possible values are exactly {-1, -0.5, 0, 0.5, 1}.
// Out-of-range ratings are a caller contract violation; they are clamped
// defensively rather than rejected.
func RatingToSentiment(rating int) float64 {
	if rating < 1 {
		rating = 1
	}
	if rating > 5 {
		rating = 5
	}
	return float64(rating-3) / 2
}
