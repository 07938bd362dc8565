package core

// ReplayHistoryFromEvents reconstructs agent Messages from the "respond"
// subset of a team event stream (spec.md §4.8). No other event type
// participates. Used to prove the event log is self-sufficient for replay
// without runtime access (spec.md §8 replay-fidelity law).
func ReplayHistoryFromEvents(events []Event) []Message {
	out := make([]Message, 0, len(events))
	for _, ev := range events {
		if ev.Type != EventRespond {
			continue
		}
		content, _ := ev.Data["content"].(string)
		sender := ev.Actor
		if sender == "" {
			sender = "agent"
		}
		out = append(out, NewMessage(sender, content,
			WithCorrelationID(ev.CorrelationID),
			WithMeta(map[string]any{"replayed": true}),
		))
	}
	return out
}
