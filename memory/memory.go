// Package memory implements team memory (spec.md §4.7): a bounded,
// deterministic, non-LLM summarization of the team event stream. Grounded
// on original_source/src/organizer/core/memory.py.
package memory

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/pawelhaladyj/opti-agents/core"
)

// RollingSummary accumulates deterministic condensation blocks.
type RollingSummary struct {
	blocks          []string
	condensedEvents int
}

func (s *RollingSummary) addBlock(text string, count int) {
	s.blocks = append(s.blocks, text)
	s.condensedEvents += count
}

// Text joins all blocks, trimmed.
func (s *RollingSummary) Text() string {
	return strings.TrimSpace(strings.Join(s.blocks, "\n"))
}

// CondensedEvents reports how many events have been folded into the summary.
func (s *RollingSummary) CondensedEvents() int { return s.condensedEvents }

// Config tunes condensation cadence and retention (spec.md §4.7).
type Config struct {
	SummarizeEvery int
	KeepRecent     int
	KeepScratchpad int
}

// DefaultConfig matches the original's defaults.
func DefaultConfig() Config {
	return Config{SummarizeEvery: 12, KeepRecent: 20, KeepScratchpad: 12}
}

var condensableTypes = map[core.EventType]bool{
	core.EventToolCall:    true,
	core.EventObservation: true,
	core.EventCritique:    true,
	core.EventDecision:    true,
	core.EventError:       true,
}

var highlightTypes = map[core.EventType]bool{
	core.EventDecision: true,
	core.EventCritique: true,
	core.EventError:    true,
}

// TeamMemory is the mutable, serialized-access memory store behind
// core.TeamMemoryContext snapshots. Safe for concurrent use.
type TeamMemory struct {
	cfg Config

	mu                  sync.Mutex
	events              []core.Event
	summary             RollingSummary
	facts               []string
	scratchpad          []string
	lastSummarizedIndex int
}

// New builds a TeamMemory with cfg; a zero Config falls back to DefaultConfig.
func New(cfg Config) *TeamMemory {
	if cfg.SummarizeEvery == 0 && cfg.KeepRecent == 0 && cfg.KeepScratchpad == 0 {
		cfg = DefaultConfig()
	}
	return &TeamMemory{cfg: cfg}
}

// AddEvent appends ev to the stream, updates the scratchpad, and condenses
// if enough events have accumulated since the last condensation.
func (m *TeamMemory) AddEvent(ev core.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.events = append(m.events, ev)
	m.appendToScratchpad(ev)
	m.maybeCondense()
}

// AddFacts appends any non-empty, not-yet-present facts, preserving
// insertion order and deduplicating (spec.md §8 fact-dedup law).
func (m *TeamMemory) AddFacts(facts ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, f := range facts {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		if !contains(m.facts, f) {
			m.facts = append(m.facts, f)
		}
	}
}

// Reset clears all memory state.
func (m *TeamMemory) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.events = nil
	m.summary = RollingSummary{}
	m.facts = nil
	m.scratchpad = nil
	m.lastSummarizedIndex = 0
}

// Context builds the bounded snapshot handed to a Coordinator this turn.
func (m *TeamMemory) Context() core.TeamMemoryContext {
	m.mu.Lock()
	defer m.mu.Unlock()

	var recent []core.Event
	if m.cfg.KeepRecent > 0 {
		recent = lastN(m.events, m.cfg.KeepRecent)
	}

	return core.TeamMemoryContext{
		RollingSummary: m.summary.Text(),
		Facts:          append([]string{}, m.facts...),
		Scratchpad:     lastN(m.scratchpad, m.cfg.KeepScratchpad),
		RecentEvents:   recent,
	}
}

// Events returns a defensive copy of the full event stream.
func (m *TeamMemory) Events() []core.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]core.Event{}, m.events...)
}

func (m *TeamMemory) appendToScratchpad(ev core.Event) {
	hint := ""
	if condensableTypes[ev.Type] {
		if slim := firstKeys(ev.Data, 2); len(slim) > 0 {
			hint = fmt.Sprintf(" data=%s", formatMap(slim))
		}
	}
	line := fmt.Sprintf("%s :: %s -> %s%s", ev.Type, ev.Actor, ev.Target, hint)
	m.scratchpad = append(m.scratchpad, line)

	cap := m.cfg.KeepScratchpad*3 + 0
	if cap < 30 {
		cap = 30
	}
	if len(m.scratchpad) > cap {
		trim := m.cfg.KeepScratchpad * 2
		if trim < 20 {
			trim = 20
		}
		m.scratchpad = lastN(m.scratchpad, trim)
	}
}

func (m *TeamMemory) maybeCondense() {
	n := m.cfg.SummarizeEvery
	if n <= 0 {
		return
	}

	pending := len(m.events) - m.lastSummarizedIndex
	if pending < n {
		return
	}

	chunk := m.events[m.lastSummarizedIndex : m.lastSummarizedIndex+n]
	block := summarizeChunk(chunk)

	m.summary.addBlock(block, len(chunk))
	m.lastSummarizedIndex += len(chunk)

	m.scratchpad = lastN(m.scratchpad, m.cfg.KeepScratchpad)
}

func summarizeChunk(chunk []core.Event) string {
	counts := map[core.EventType]int{}
	var highlights []string

	for _, ev := range chunk {
		counts[ev.Type]++

		if highlightTypes[ev.Type] {
			highlights = append(highlights, fmt.Sprintf("- %s: %s->%s%s", ev.Type, ev.Actor, ev.Target, shortData(ev.Data)))
		}
		if ev.Type == core.EventToolCall {
			highlights = append(highlights, fmt.Sprintf("- tool_call: %s%s", ev.Target, shortData(ev.Data)))
		}
	}

	types := make([]string, 0, len(counts))
	for t := range counts {
		types = append(types, string(t))
	}
	sort.Strings(types)

	countParts := make([]string, 0, len(types))
	for _, t := range types {
		countParts = append(countParts, fmt.Sprintf("%s:%d", t, counts[core.EventType(t)]))
	}

	parts := []string{
		fmt.Sprintf("[summary] +%d events ", len(chunk)),
		"counts=" + strings.Join(countParts, ", "),
	}

	if len(highlights) > 0 {
		if len(highlights) > 6 {
			highlights = highlights[:6]
		}
		parts = append(parts, "highlights:\n"+strings.Join(highlights, "\n"))
	}

	return strings.Join(parts, "\n")
}

func shortData(data map[string]any) string {
	slim := firstKeys(data, 2)
	if len(slim) == 0 {
		return ""
	}
	return fmt.Sprintf(" data=%s", formatMap(slim))
}

func firstKeys(data map[string]any, n int) map[string]any {
	if len(data) == 0 {
		return nil
	}
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) > n {
		keys = keys[:n]
	}
	out := map[string]any{}
	for _, k := range keys {
		out[k] = data[k]
	}
	return out
}

func formatMap(m map[string]any) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", k, m[k]))
	}
	return "{" + strings.Join(parts, " ") + "}"
}

func contains(ss []string, v string) bool {
	for _, s := range ss {
		if s == v {
			return true
		}
	}
	return false
}

func lastN[T any](s []T, n int) []T {
	if n <= 0 || len(s) == 0 {
		return nil
	}
	if len(s) <= n {
		out := make([]T, len(s))
		copy(out, s)
		return out
	}
	out := make([]T, n)
	copy(out, s[len(s)-n:])
	return out
}
