package insights

import (
	"regexp"
	"strings"
)

// Quote anonymization is best-effort: it strips the obvious brand/product
// identifiers and tones down superlatives, it does not guarantee the result
// is free of identifying text.

var (
	// Two capitalized words in a row are almost always a brand or product
	// name ("Acme Blender"). Single all-caps tokens ("NUTRIBOOST") likewise.
	brandPairPattern = regexp.MustCompile(`\b[A-Z][a-z]+ [A-Z][a-z]+\b`)
	allCapsPattern   = regexp.MustCompile(`\b[A-Z]{2,}\b`)
)

// superlativeRewrites maps emotionally extreme phrasing to neutral
// equivalents with the same polarity. Checked case-insensitively, longest
// phrases first so "absolutely wonderful" wins over "wonderful".
var superlativeRewrites = []struct {
	from string
	to   string
}{
	{"absolutely wonderful", "really good"},
	{"absolutely amazing", "really good"},
	{"absolutely terrible", "really bad"},
	{"absolutely horrible", "really bad"},
	{"life changing", "very helpful"},
	{"life-changing", "very helpful"},
	{"the best ever", "very good"},
	{"the worst ever", "very bad"},
	{"mind blowing", "impressive"},
	{"mind-blowing", "impressive"},
	{"amazing", "good"},
	{"incredible", "good"},
	{"wonderful", "good"},
	{"fantastic", "good"},
	{"perfect", "good"},
	{"terrible", "bad"},
	{"horrible", "bad"},
	{"awful", "bad"},
	{"disgusting", "unpleasant"},
}

// TransformQuote rewrites a raw review excerpt into a display-safe string:
// brand/product identifiers become generic placeholders and extreme
// language is normalized. When a title is present it is prefixed to the
// content before the rewrite so it gets the same treatment.
func TransformQuote(content, title string) string {
	text := strings.TrimSpace(content)
	if title = strings.TrimSpace(title); title != "" {
		text = title + ": " + text
	}

	text = brandPairPattern.ReplaceAllString(text, "this product")
	text = allCapsPattern.ReplaceAllString(text, "this brand")

	for _, rw := range superlativeRewrites {
		text = replaceFold(text, rw.from, rw.to)
	}

	return text
}

// replaceFold replaces every case-insensitive occurrence of old with new.
func replaceFold(s, old, new string) string {
	lower := strings.ToLower(s)
	target := strings.ToLower(old)

	var b strings.Builder
	for {
		idx := strings.Index(lower, target)
		if idx < 0 {
			b.WriteString(s)
			return b.String()
		}
		b.WriteString(s[:idx])
		b.WriteString(new)
		s = s[idx+len(old):]
		lower = lower[idx+len(target):]
	}
}
