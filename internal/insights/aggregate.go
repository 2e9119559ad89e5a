package insights

import (
	"sort"

	"github.com/creatorscook/insight-core/internal/models"
)

// delightThreshold is applied per review, not to the aggregated average:
// mild-positive reviews in (0, 0.3] contribute to no delight bucket so the
// "delight" label is not diluted by lukewarm ratings.
const delightThreshold = 0.3

const maxExampleQuotes = 3

type bucket struct {
	sentimentSum float64
	mentions     int
	quotes       []string
}

func (b *bucket) add(sentiment float64, quote string) {
	b.sentimentSum += sentiment
	b.mentions++
	if len(b.quotes) < maxExampleQuotes && quote != "" {
		b.quotes = append(b.quotes, quote)
	}
}

// Aggregate folds a review batch into per-theme pain-point and
// delight-factor buckets. A review routes each of its themes to the pain
// bucket when its sentiment is negative and to the delight bucket when it
// exceeds the per-review threshold; the same theme can legitimately appear
// in both buckets across different reviews. Empty input yields empty
// buckets, which callers must treat as insufficient data.
func Aggregate(reviews []models.Review) models.AggregatedInsights {
	pain := make(map[models.Theme]*bucket)
	delight := make(map[models.Theme]*bucket)
	var painOrder, delightOrder []models.Theme

	for _, review := range reviews {
		sentiment := RatingToSentiment(review.Rating)
		if sentiment == 0 || (sentiment > 0 && sentiment <= delightThreshold) {
			continue
		}

		quote := TransformQuote(review.Content, review.Title)
		for _, theme := range ClassifyThemes(review.Content) {
			if sentiment < 0 {
				if pain[theme] == nil {
					pain[theme] = &bucket{}
					painOrder = append(painOrder, theme)
				}
				pain[theme].add(sentiment, quote)
			} else {
				if delight[theme] == nil {
					delight[theme] = &bucket{}
					delightOrder = append(delightOrder, theme)
				}
				delight[theme].add(sentiment, quote)
			}
		}
	}

	return models.AggregatedInsights{
		PainPoints:     finalize(pain, painOrder),
		DelightFactors: finalize(delight, delightOrder),
	}
}

func finalize(buckets map[models.Theme]*bucket, order []models.Theme) []models.ThemeInsight {
	out := make([]models.ThemeInsight, 0, len(order))
	for _, theme := range order {
		b := buckets[theme]
		out = append(out, models.ThemeInsight{
			Theme:         theme,
			Sentiment:     b.sentimentSum / float64(b.mentions),
			Mentions:      b.mentions,
			ExampleQuotes: b.quotes,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Mentions > out[j].Mentions
	})

	return out
}
