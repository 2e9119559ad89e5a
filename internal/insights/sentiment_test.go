package insights

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRatingToSentiment(t *testing.T) {
	tests := []struct {
		rating   int
		expected float64
	}{
		{1, -1},
		{2, -0.5},
		{3, 0},
		{4, 0.5},
		{5, 1},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, RatingToSentiment(tt.rating))
	}
}

func TestRatingToSentiment_Monotonic(t *testing.T) {
	for r := 1; r < 5; r++ {
		assert.Less(t, RatingToSentiment(r), RatingToSentiment(r+1))
	}
}

func TestRatingToSentiment_ClampsOutOfRange(t *testing.T) {
	assert.Equal(t, -1.0, RatingToSentiment(0))
	assert.Equal(t, -1.0, RatingToSentiment(-3))
	assert.Equal(t, 1.0, RatingToSentiment(6))
}
