package core

import (
	"maps"
	"time"
)

// Role classifies who a Message's content should be attributed to.
type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
	RoleSystem Role = "system"
	RoleTool  Role = "tool"
	RoleError Role = "error"
)

// Message is an immutable value type: one utterance in the system.
// Construct with NewMessage; there is no setter, "updating" a Message means
// building a new one.
type Message struct {
	sender        string
	content       string
	role          Role
	meta          map[string]any
	timestamp     string
	correlationID string
}

// MessageOption customizes a Message at construction time.
type MessageOption func(*messageOpts)

type messageOpts struct {
	role          Role
	roleSet       bool
	meta          map[string]any
	timestamp     string
	correlationID string
}

// WithRole overrides the role that would otherwise be derived from sender.
func WithRole(r Role) MessageOption {
	return func(o *messageOpts) {
		o.role = r
		o.roleSet = true
	}
}

// WithMeta attaches arbitrary metadata to the Message.
func WithMeta(meta map[string]any) MessageOption {
	return func(o *messageOpts) { o.meta = meta }
}

// WithTimestamp overrides the timestamp (defaults to now, UTC, RFC3339).
func WithTimestamp(ts string) MessageOption {
	return func(o *messageOpts) { o.timestamp = ts }
}

// WithCorrelationID sets the turn correlation id.
func WithCorrelationID(cid string) MessageOption {
	return func(o *messageOpts) { o.correlationID = cid }
}

// NewMessage builds a Message, deriving role from sender when not set
// explicitly via WithRole. Mirrors spec.md §3's Message invariant:
// user -> user, system -> system, tool/tool_runner -> tool, error -> error,
// else agent.
func NewMessage(sender, content string, opts ...MessageOption) Message {
	o := messageOpts{}
	for _, opt := range opts {
		opt(&o)
	}

	role := o.role
	if !o.roleSet {
		role = deriveRole(sender)
	}

	meta := map[string]any{}
	maps.Copy(meta, o.meta)

	ts := o.timestamp
	if ts == "" {
		ts = nowISO()
	}

	return Message{
		sender:        sender,
		content:       content,
		role:          role,
		meta:          meta,
		timestamp:     ts,
		correlationID: o.correlationID,
	}
}

func deriveRole(sender string) Role {
	switch sender {
	case "user":
		return RoleUser
	case "system":
		return RoleSystem
	case "tool", "tool_runner":
		return RoleTool
	case "error":
		return RoleError
	default:
		return RoleAgent
	}
}

func (m Message) Sender() string            { return m.sender }
func (m Message) Content() string           { return m.content }
func (m Message) Role() Role                { return m.role }
func (m Message) Timestamp() string         { return m.timestamp }
func (m Message) CorrelationID() string     { return m.correlationID }

// Meta returns a copy of the message metadata; callers may not mutate the
// message through the returned map.
func (m Message) Meta() map[string]any {
	out := make(map[string]any, len(m.meta))
	maps.Copy(out, m.meta)
	return out
}

// WithCorrelation returns a copy of m carrying cid, if m has none yet.
// Used by the orchestrator to stamp correlation ids onto messages that
// arrive without one (spec.md §4.1 step 1, step 8).
func (m Message) WithCorrelation(cid string) Message {
	if m.correlationID != "" {
		return m
	}
	m.correlationID = cid
	return m
}

func nowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// ToDict renders the Message as a JSON-ready map, for the round-trip law in
// spec.md §8.
func (m Message) ToDict() map[string]any {
	return map[string]any{
		"sender":         m.sender,
		"content":        m.content,
		"role":           string(m.role),
		"meta":           m.Meta(),
		"timestamp":      m.timestamp,
		"correlation_id": m.correlationID,
	}
}

// MessageFromDict reconstructs a Message from ToDict's output.
func MessageFromDict(d map[string]any) Message {
	meta, _ := d["meta"].(map[string]any)
	sender, _ := d["sender"].(string)
	content, _ := d["content"].(string)
	ts, _ := d["timestamp"].(string)
	cid, _ := d["correlation_id"].(string)

	opts := []MessageOption{WithMeta(meta), WithTimestamp(ts), WithCorrelationID(cid)}
	if roleStr, ok := d["role"].(string); ok && roleStr != "" {
		opts = append(opts, WithRole(Role(roleStr)))
	}
	return NewMessage(sender, content, opts...)
}
