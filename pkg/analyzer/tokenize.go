package analyzer

import "strings"

// punctCutset is stripped from both ends of a token before counting. Inner
// apostrophes and hyphens survive so contractions stay intact.
const punctCutset = ".,!?\"';:*()[]{}<>|~`^«»„“”‘’…—–-"

// tokenize splits text on whitespace and normalizes each token to lowercase
// with surrounding punctuation removed. Empty results are dropped.
func tokenize(text string) []string {
	fields := strings.Fields(text)
	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		token := strings.ToLower(strings.Trim(field, punctCutset))
		if token != "" {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

// isURL reports whether a token is a link rather than a word
func isURL(token string) bool {
	return strings.Contains(token, "http") || strings.HasPrefix(token, "www.")
}

// isHashtag reports whether a token is a hashtag with actual content
func isHashtag(token string) bool {
	return len(token) > 1 && token[0] == '#'
}

// isBotHandle filters out automated accounts by handle shape. Digits are
// trimmed first so "stormbot42" and "bot_weather_7" both match.
func isBotHandle(author string) bool {
	name := strings.ToLower(strings.Trim(author, "0123456789_"))
	if name == "" {
		return false
	}
	return strings.HasPrefix(name, "bot") ||
		strings.HasSuffix(name, "bot") ||
		strings.Contains(name, "iembot")
}
