package blogservice

import "regexp"

var scriptTagPattern = regexp.MustCompile(`(?i)<\s*script[^>]*>(.*?)<\s*/\s*script\s*>`)

func sanitizeRichText(text string) string {
	return scriptTagPattern.ReplaceAllString(text, "")
}
