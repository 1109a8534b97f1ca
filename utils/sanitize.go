package utils

import "github.com/microcosm-cc/bluemonday"

var sanitizer = bluemonday.UGCPolicy()

// Sanitize cleans HTML content (product descriptions, notice banner) to prevent XSS.
func Sanitize(input string) string {
	return sanitizer.Sanitize(input)
}
