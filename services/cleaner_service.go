package services

import (
	"regexp"
	"strings"
)

var (
	reTOC          = regexp.MustCompile(`(?im)^.*table of contents.*$`)
	rePageNumber   = regexp.MustCompile(`(?im)^[ \t]*page[ \t]*\d+([ \t]*(of|/)[ \t]*\d+)?[ \t]*$`)
	reSpecialLines = regexp.MustCompile(`(?m)^[ \t\d[:punct:]]*$`)
	reMultiNewLine = regexp.MustCompile(`\n{2,}`)
	reTrailingWS   = regexp.MustCompile(`(?m)[ \t]+$`)
)

// PreCleanText strips extraction noise from document text: table of
// contents headings, page-number lines, lines with no words, and runs of
// blank lines.
func PreCleanText(text string) string {
	cleaned := strings.ReplaceAll(text, "\r\n", "\n")
	cleaned = reTrailingWS.ReplaceAllString(cleaned, "")
	cleaned = reTOC.ReplaceAllString(cleaned, "")
	cleaned = rePageNumber.ReplaceAllString(cleaned, "")
	cleaned = reSpecialLines.ReplaceAllString(cleaned, "")
	cleaned = reMultiNewLine.ReplaceAllString(cleaned, "\n")
	return strings.TrimSpace(cleaned)
}
