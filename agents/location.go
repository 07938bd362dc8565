// Package agents provides the concrete worker agents (spec.md §4 supplement):
// weather, stays, and planner, plus the shared location-extraction helper
// and user preferences they draw on. Grounded on
// original_source/src/organizer/agents/{weather,stays,planner}.py.
package agents

import "regexp"

var locationRe = regexp.MustCompile(`(?i)\bw\s+([A-Za-zĄĆĘŁŃÓŚŹŻąćęłńóśźż\-]+)`)

// ExtractLocation pulls a city out of "w <City>" phrasing (Polish "in
// <City>"), returning "" when no match is found.
func ExtractLocation(text string) string {
	m := locationRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[1]
}
