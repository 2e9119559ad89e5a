package main

import (
	"fmt"
	"strings"

	"github.com/creatorscook/insight-core/internal/insights"
	"github.com/creatorscook/insight-core/internal/models"
)

// Feeds a sample review batch through the aggregator and prints the
// resulting buckets, for eyeballing classification changes without a
// database or model key.
func main() {
	reviews := []models.Review{
		{Rating: 5, Content: "amazing taste and great energy", Verified: true},
		{Rating: 1, Content: "terrible taste, waste of money", Verified: true},
		{Rating: 2, Content: "bad taste"},
		{Rating: 5, Title: "Great buy", Content: "SuperJuice Blender arrived fast and the design is beautiful"},
		{Rating: 2, Content: "battery died after two days and support never answered"},
		{Rating: 4, Content: "easy to use, worth the price"},
		{Rating: 3, Content: "it's okay I guess"},
	}

	result := insights.Aggregate(reviews)

	fmt.Println("\n" + strings.Repeat("=", 70))
	fmt.Println("🔍 INSIGHT AGGREGATION PREVIEW")
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("Reviews in: %d\n", len(reviews))

	printBucket("😞 Pain Points", result.PainPoints)
	printBucket("😊 Delight Factors", result.DelightFactors)
	fmt.Println(strings.Repeat("=", 70))
}

func printBucket(title string, list []models.ThemeInsight) {
	fmt.Printf("\n%s (%d themes)\n", title, len(list))
	for _, in := range list {
		fmt.Printf("   • %-20s sentiment %+.2f, %d mentions\n", in.Theme, in.Sentiment, in.Mentions)
		for _, quote := range in.ExampleQuotes {
			fmt.Printf("     %q\n", quote)
		}
	}
}
