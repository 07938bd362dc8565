package core

// TeamMemoryContext is the bounded snapshot of team memory handed to a
// Coordinator on each turn (spec.md §3, §4.7). It lives in core (rather
// than the memory package that builds it) so that Coordinator/Agent
// implementations can depend on core alone and avoid an import cycle with
// the memory package, which itself depends on core.Event.
type TeamMemoryContext struct {
	RollingSummary string
	Facts          []string
	Scratchpad     []string
	RecentEvents   []Event
}
