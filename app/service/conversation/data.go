package conversation

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message of a conversation. Immutable once appended.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// History is the literal transcript replayed to the dialogue engine on every
// call. The server keeps no copy between requests; clients carry it.
type History []Turn

// WithAssistant returns a copy of the history with an assistant turn appended.
func (h History) WithAssistant(content string) History {
	out := make(History, len(h), len(h)+1)
	copy(out, h)

	return append(out, Turn{Role: RoleAssistant, Content: content})
}

// Outcome is the terminal classification of a conversation, write-once.
type Outcome string

const (
	// OutcomeNone means the conversation continues
	OutcomeNone        Outcome = ""
	OutcomeTransferred Outcome = "TRANSFERRED"
	OutcomeScheduled   Outcome = "SCHEDULED"
	OutcomeFinalized   Outcome = "FINALIZED"
	OutcomeAbandoned   Outcome = "ABANDONED"
)

// Result is the orchestrator's per-turn output. History includes the cleaned
// assistant turn, so a terminal dispatch always carries the final reply.
type Result struct {
	Reply   string
	Outcome Outcome
	History History
}
