package digest

import "strings"

// ExpandVars substitutes placeholders in a configured digest title.
//
// Supported variables:
// - {.Date}   => the digest day, YYYY-MM-DD
// - {.Source} => channel id or playlist title
func ExpandVars(s string, d Data) string {
	if strings.TrimSpace(s) == "" {
		return s
	}
	out := strings.ReplaceAll(s, "{.Date}", d.Date)
	out = strings.ReplaceAll(out, "{.Source}", d.Source)
	return out
}
