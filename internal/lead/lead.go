// Package lead picks the assistant's confirmation utterance out of a voice
// transcript and pulls the customer's contact details from it.
package lead

import "strings"

// Role identifies the speaker of a transcript turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one committed utterance.
type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

var (
	confirmMarkers = []string{"верн", "данные", "повтор"}
	fieldMarkers   = []string{"тариф", "номер", "телефон", "адрес", "имя"}
)

// Select returns the assistant turn most likely to hold the read-back of the
// customer's details: the latest one mentioning both a re-confirmation and a
// field. Without such a turn it falls back to the second-to-last assistant
// turn, or the only one. ok is false when there are no assistant turns.
func Select(turns []Turn) (Turn, bool) {
	var assistant []Turn
	for _, t := range turns {
		if t.Role == RoleAssistant {
			assistant = append(assistant, t)
		}
	}
	if len(assistant) == 0 {
		return Turn{}, false
	}

	for i := len(assistant) - 1; i >= 0; i-- {
		text := strings.ToLower(assistant[i].Text)
		if containsAny(text, confirmMarkers) && containsAny(text, fieldMarkers) {
			return assistant[i], true
		}
	}

	if len(assistant) >= 2 {
		return assistant[len(assistant)-2], true
	}
	return assistant[0], true
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// Optional is a field that may be missing from the utterance.
type Optional struct {
	value string
	ok    bool
}

// Some wraps a present value.
func Some(v string) Optional { return Optional{value: v, ok: true} }

// None is a missing value.
func None() Optional { return Optional{} }

// Get returns the value and whether it is present.
func (o Optional) Get() (string, bool) { return o.value, o.ok }

// OrElse returns the value, or def when it is missing or empty.
func (o Optional) OrElse(def string) string {
	if !o.ok || o.value == "" {
		return def
	}
	return o.value
}

// Fields is the structured result of an extraction.
type Fields struct {
	Name    Optional
	Phone   Optional
	Address Optional
	Tariff  Optional
}

// Extractor turns an utterance into fields.
type Extractor interface {
	Extract(text string) Fields
}

// Defaults used when a field could not be extracted.
const (
	DefaultName    = "Клиент"
	DefaultAddress = "Волгоград"
)

// Lead is what gets relayed. Phone and Tariff stay empty when unknown; an
// empty Tariff means the customer takes the most popular one.
type Lead struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Tariff  string `json:"tariff"`
}

// Resolve fills in defaults for missing fields.
func Resolve(f Fields) Lead {
	return Lead{
		Name:    f.Name.OrElse(DefaultName),
		Phone:   f.Phone.OrElse(""),
		Address: f.Address.OrElse(DefaultAddress),
		Tariff:  f.Tariff.OrElse(""),
	}
}

// FromTranscript selects the confirmation turn and extracts a lead from it.
// ok is false when the transcript has no assistant turn.
func FromTranscript(turns []Turn, ex Extractor) (Lead, Fields, bool) {
	turn, ok := Select(turns)
	if !ok {
		return Lead{}, Fields{}, false
	}
	f := ex.Extract(turn.Text)
	return Resolve(f), f, true
}
