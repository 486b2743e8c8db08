package tasks

import "regexp"

// Database URL patterns, tried in order. Each rule is independent so the
// source's URL conventions stay individually testable.
var databaseIDPatterns = []*regexp.Regexp{
	// Workspace-qualified: https://notion.so/workspace/<id>?v=...
	regexp.MustCompile(`(?i)notion\.so/[^/]+/([a-f0-9]{32})`),
	// Published site: https://notion.site/<id>
	regexp.MustCompile(`(?i)notion\.site/([a-f0-9]{32})`),
	// Bare path: https://notion.so/<id>
	regexp.MustCompile(`(?i)notion\.so/([a-f0-9]{32})`),
	// Workspace-qualified with query string or fragment.
	regexp.MustCompile(`(?i)notion\.so/[^/]+/([a-f0-9]{32})\?`),
	regexp.MustCompile(`(?i)notion\.so/[^/]+/([a-f0-9]{32})#`),
}

// hexIDFallback scans for any 32-character hex run when no structural
// pattern matches.
var hexIDFallback = regexp.MustCompile(`(?i)([a-f0-9]{32})`)

// ExtractDatabaseID recovers the 32-character hex database identifier from a
// pasted URL. It never fails: ok is false when nothing in the input looks
// like an identifier. The function is idempotent — running it on a bare
// identifier returns that identifier.
func ExtractDatabaseID(url string) (string, bool) {
	for _, pattern := range databaseIDPatterns {
		if match := pattern.FindStringSubmatch(url); match != nil {
			return match[1], true
		}
	}

	if match := hexIDFallback.FindStringSubmatch(url); match != nil {
		return match[1], true
	}

	return "", false
}
