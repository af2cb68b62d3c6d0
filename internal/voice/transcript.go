package voice

import (
	"strings"

	"github.com/edgard/robornet/internal/lead"
)

// Accumulator collects transcript fragments into complete turns. Nothing is
// committed until a turn boundary.
type Accumulator struct {
	user      string
	assistant strings.Builder
	turns     []lead.Turn
}

// AddUser appends a user fragment. Fragments are trimmed and joined with a
// single space; blank fragments are ignored. It returns the pending user text.
func (a *Accumulator) AddUser(fragment string) string {
	t := strings.TrimSpace(fragment)
	if t == "" {
		return a.user
	}
	if a.user != "" {
		a.user += " "
	}
	a.user += t
	return a.user
}

// AddAssistant appends an assistant fragment as is. Blank fragments are
// ignored.
func (a *Accumulator) AddAssistant(fragment string) {
	if strings.TrimSpace(fragment) == "" {
		return
	}
	a.assistant.WriteString(fragment)
}

// Commit closes the current turn: the pending user text and then the pending
// assistant text become immutable entries, and both buffers are cleared. It
// returns the entries committed by this call.
func (a *Accumulator) Commit() []lead.Turn {
	var committed []lead.Turn
	if a.user != "" {
		committed = append(committed, lead.Turn{Role: lead.RoleUser, Text: a.user})
		a.user = ""
	}
	if text := strings.TrimSpace(a.assistant.String()); text != "" {
		committed = append(committed, lead.Turn{Role: lead.RoleAssistant, Text: text})
	}
	a.assistant.Reset()
	a.turns = append(a.turns, committed...)
	return committed
}

// Pending returns the uncommitted user and assistant text.
func (a *Accumulator) Pending() (user, assistant string) {
	return a.user, a.assistant.String()
}

// Turns returns a copy of the committed transcript.
func (a *Accumulator) Turns() []lead.Turn {
	return append([]lead.Turn(nil), a.turns...)
}

// Reset drops everything.
func (a *Accumulator) Reset() {
	a.user = ""
	a.assistant.Reset()
	a.turns = nil
}

// HasExchange reports whether turns hold at least one user and one assistant
// entry.
func HasExchange(turns []lead.Turn) bool {
	var user, assistant bool
	for _, t := range turns {
		switch t.Role {
		case lead.RoleUser:
			user = true
		case lead.RoleAssistant:
			assistant = true
		}
	}
	return user && assistant
}
