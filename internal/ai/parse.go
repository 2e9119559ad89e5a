package ai

import "encoding/json"

// extractBalanced returns the first balanced open...close substring of raw,
// skipping brackets that appear inside JSON string literals. Models often
// wrap their JSON in prose or markdown fences; this digs the payload out.
func extractBalanced(raw string, open, close byte) (string, bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(raw); i++ {
		c := raw[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			if depth > 0 {
				inString = true
			}
		case open:
			if depth == 0 {
				start = i
			}
			depth++
		case close:
			if depth > 0 {
				depth--
				if depth == 0 {
					return raw[start : i+1], true
				}
			}
		}
	}

	return "", false
}

func extractObject(raw string) (string, bool) { return extractBalanced(raw, '{', '}') }
func extractArray(raw string) (string, bool)  { return extractBalanced(raw, '[', ']') }

// coerceStringList accepts either a JSON array of strings or a bare string
// and normalizes to a slice; anything else yields nil.
func coerceStringList(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil && single != "" {
		return []string{single}
	}
	return nil
}

// coerceFloat accepts a JSON number and falls back to def otherwise.
func coerceFloat(raw json.RawMessage, def float64) float64 {
	if len(raw) == 0 {
		return def
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return def
	}
	return f
}

func coerceString(raw json.RawMessage, def string) string {
	if len(raw) == 0 {
		return def
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil || s == "" {
		return def
	}
	return s
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
