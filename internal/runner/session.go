package runner

import "github.com/petasbytes/tool-agent/memory"

type State string

const (
	StateAwaitingModel State = "awaiting_model"
	StateExecutingTool State = "executing_tool"
	StateDone          State = "done"
	StateFailed        State = "failed"
)

// Session is the state of a single query. It is created by Run and not
// shared between queries.
type Session struct {
	ID         string
	Query      string
	Transcript memory.Transcript
	State      State
	Iterations int
	Answer     string
}

func newSession(id, query string) *Session {
	return &Session{
		ID:         id,
		Query:      query,
		Transcript: memory.Transcript{memory.UserMessage(query)},
		State:      StateAwaitingModel,
	}
}
