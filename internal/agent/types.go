package agent

// Intent is the category label deciding which capability answers a query.
type Intent string

const (
	IntentPanelSupport   Intent = "panel_support"
	IntentConferenceInfo Intent = "conference_info"
	IntentResearchLookup Intent = "research_lookup"
	IntentZoomRxWiki     Intent = "zoomrx_wiki"
	IntentGreeting       Intent = "greeting_chit_chat"
	IntentUnknown        Intent = "unknown"
)

// ValidIntent reports whether s is one of the closed label set.
func ValidIntent(s string) bool {
	switch Intent(s) {
	case IntentPanelSupport, IntentConferenceInfo, IntentResearchLookup,
		IntentZoomRxWiki, IntentGreeting, IntentUnknown:
		return true
	}
	return false
}

// Classification is the per-turn result of intent classification.
type Classification struct {
	Intent       Intent
	RefinedQuery string
	Topic        string
	FollowUp     bool
}

// Turn is a single message in a conversation.
type Turn struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// State is the per-session conversation state threaded through every turn.
// The zero value is a fresh session with no prior turn.
type State struct {
	PreviousIntent Intent
	Topic          string
	History        []Turn
}

// LastAssistantText returns the content of the most recent assistant turn,
// or "" if there is none.
func (s State) LastAssistantText() string {
	for i := len(s.History) - 1; i >= 0; i-- {
		if s.History[i].Role == "assistant" {
			return s.History[i].Content
		}
	}
	return ""
}
