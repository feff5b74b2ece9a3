package agent

import (
	"context"
	"strings"
	"testing"
)

type stubPanel struct {
	answer    string
	lastQuery string
	first     string
	last      string
}

func (p *stubPanel) Answer(ctx context.Context, userID int64, query string) (string, error) {
	p.lastQuery = query
	return p.answer, nil
}

func (p *stubPanel) UserName(ctx context.Context, userID int64) (string, string, error) {
	return p.first, p.last, nil
}

type stubWiki struct{ answer string }

func (w *stubWiki) Answer(ctx context.Context, userID int64, query string) (string, error) {
	return w.answer, nil
}

type stubRetriever struct{ context string }

func (r *stubRetriever) Context(ctx context.Context, query string) (string, error) {
	return r.context, nil
}

func testModels() Models {
	return Models{
		Classification: "clf",
		Research:       "research",
		Panel:          "panel",
		Conference:     "conf",
		Wiki:           "wiki",
		Default:        "default",
	}
}

func TestProcessFollowUpKeepsWikiIntent(t *testing.T) {
	provider := &fakeProvider{response: "zoomrx_wiki"}
	wiki := &stubWiki{answer: "HCP Surveys: traditional surveys and chart reviews."}
	e := NewEngine(provider, testModels(), NewSessions(0), nil, nil, nil, wiki)

	key := SessionKey(42)
	r1 := e.Process(context.Background(), key, 42, "What are ZoomRx's survey offerings?")
	if r1.Intent != IntentZoomRxWiki {
		t.Fatalf("turn 1 intent = %s, want %s", r1.Intent, IntentZoomRxWiki)
	}

	// The oracle would now say something else; the follow-up cue must pin
	// the intent to the previous turn's anyway.
	provider.response = "research_lookup"
	r2 := e.Process(context.Background(), key, 42, "What about advisory boards?")
	if r2.Intent != IntentZoomRxWiki {
		t.Errorf("turn 2 intent = %s, want %s", r2.Intent, IntentZoomRxWiki)
	}
}

func TestProcessPanelEarningsWithYear(t *testing.T) {
	provider := &fakeProvider{response: "unknown"}
	panel := &stubPanel{answer: "Your total earnings from 2023-01-01 to 2023-12-31 were: $420.00."}
	e := NewEngine(provider, testModels(), NewSessions(0), nil, panel, nil, nil)

	r := e.Process(context.Background(), SessionKey(7), 7, "How much did I earn in 2023?")
	if r.Intent != IntentPanelSupport {
		t.Fatalf("intent = %s, want %s", r.Intent, IntentPanelSupport)
	}
	if panel.lastQuery != "How much did I earn in 2023?" {
		t.Errorf("panel received query %q", panel.lastQuery)
	}
}

func TestProcessPanelRequiresUserID(t *testing.T) {
	provider := &fakeProvider{response: "panel_support"}
	e := NewEngine(provider, testModels(), NewSessions(0), nil, &stubPanel{}, nil, nil)

	r := e.Process(context.Background(), "session_0_0", 0, "show my earnings history")
	if !strings.Contains(r.Answer, "user ID") {
		t.Errorf("answer = %q, want user ID error", r.Answer)
	}
}

func TestProcessGreetingUsesDoctorName(t *testing.T) {
	provider := &fakeProvider{response: "greeting_chit_chat"}
	panel := &stubPanel{first: "Jane", last: "Rivera"}
	e := NewEngine(provider, testModels(), NewSessions(0), nil, panel, nil, nil)

	r := e.Process(context.Background(), SessionKey(5), 5, "hello")
	if r.Intent != IntentGreeting {
		t.Fatalf("intent = %s, want %s", r.Intent, IntentGreeting)
	}
	if !strings.Contains(r.Answer, "Dr. Rivera") {
		t.Errorf("answer = %q, want greeting addressed to Dr. Rivera", r.Answer)
	}
}

func TestProcessUnknownCannedAnswer(t *testing.T) {
	provider := &fakeProvider{response: "garbage-label"}
	e := NewEngine(provider, testModels(), NewSessions(0), nil, nil, nil, nil)

	r := e.Process(context.Background(), "session_1_0", 1, "fold my laundry please")
	if r.Intent != IntentUnknown {
		t.Fatalf("intent = %s, want %s", r.Intent, IntentUnknown)
	}
	if r.Answer != unknownAnswer {
		t.Errorf("answer = %q, want canned unknown answer", r.Answer)
	}
}

func TestProcessResearchAppendsLimitations(t *testing.T) {
	provider := &fakeProvider{responses: []string{
		"research_lookup",
		"Key findings:\n- Statins reduce LDL.",
	}}
	e := NewEngine(provider, testModels(), NewSessions(0), &stubRetriever{context: "SOURCE 1: ..."}, nil, nil, nil)

	r := e.Process(context.Background(), "session_2_0", 2, "latest statin studies")
	if r.Intent != IntentResearchLookup {
		t.Fatalf("intent = %s, want %s", r.Intent, IntentResearchLookup)
	}
	if !strings.Contains(r.Answer, "Limitations:") {
		t.Errorf("answer missing limitations line: %q", r.Answer)
	}
}

func TestProcessUpdatesSessionState(t *testing.T) {
	provider := &fakeProvider{response: "research_lookup"}
	e := NewEngine(provider, testModels(), NewSessions(0), &stubRetriever{}, nil, nil, nil)

	key := "session_11_0"
	e.Process(context.Background(), key, 11, "recent advances in cardiology imaging")

	st := e.Sessions().Get(key)
	if st.PreviousIntent != IntentResearchLookup {
		t.Errorf("PreviousIntent = %s, want %s", st.PreviousIntent, IntentResearchLookup)
	}
	if st.Topic == "" {
		t.Error("Topic not recorded")
	}
	if len(st.History) != 2 {
		t.Errorf("history length = %d, want 2", len(st.History))
	}
}
