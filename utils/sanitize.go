package utils

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var sanitizer = bluemonday.UGCPolicy()

// Sanitize strips unsafe markup from user supplied text and trims it.
func Sanitize(input string) string {
	return strings.TrimSpace(sanitizer.Sanitize(input))
}
