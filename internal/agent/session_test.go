package agent

import (
	"sync"
	"testing"
)

func TestSessionsGetUnknownKey(t *testing.T) {
	s := NewSessions(0)
	st := s.Get("session_1_0")
	if st.PreviousIntent != "" || st.Topic != "" || len(st.History) != 0 {
		t.Errorf("Get on unknown key = %+v, want empty state", st)
	}
}

func TestSessionsUpdateAndGet(t *testing.T) {
	s := NewSessions(0)
	key := SessionKey(42)

	s.Update(key, IntentResearchLookup, "lung cancer",
		Turn{Role: "user", Content: "latest on lung cancer"},
		Turn{Role: "assistant", Content: "Here is a summary."},
	)

	st := s.Get(key)
	if st.PreviousIntent != IntentResearchLookup {
		t.Errorf("PreviousIntent = %s, want %s", st.PreviousIntent, IntentResearchLookup)
	}
	if st.Topic != "lung cancer" {
		t.Errorf("Topic = %q, want %q", st.Topic, "lung cancer")
	}
	if len(st.History) != 2 {
		t.Fatalf("history length = %d, want 2", len(st.History))
	}
	if st.LastAssistantText() != "Here is a summary." {
		t.Errorf("LastAssistantText = %q", st.LastAssistantText())
	}
}

func TestSessionsHistoryWindow(t *testing.T) {
	s := NewSessions(4)
	key := "session_7_0"

	for i := 0; i < 10; i++ {
		s.Update(key, IntentGreeting, "",
			Turn{Role: "user", Content: "hi"},
			Turn{Role: "assistant", Content: "hello"},
		)
	}

	st := s.Get(key)
	if len(st.History) != 4 {
		t.Errorf("history length = %d, want 4", len(st.History))
	}
}

func TestSessionsGetReturnsCopy(t *testing.T) {
	s := NewSessions(0)
	key := "session_9_0"
	s.Update(key, IntentGreeting, "", Turn{Role: "user", Content: "hi"})

	st := s.Get(key)
	st.History[0].Content = "mutated"

	if got := s.Get(key).History[0].Content; got != "hi" {
		t.Errorf("stored history mutated through Get copy: %q", got)
	}
}

func TestSessionsReset(t *testing.T) {
	s := NewSessions(0)
	key := "session_3_0"
	s.Update(key, IntentPanelSupport, "earnings", Turn{Role: "user", Content: "my earnings"})
	s.Reset(key)

	st := s.Get(key)
	if st.PreviousIntent != "" || len(st.History) != 0 {
		t.Errorf("state after Reset = %+v, want empty", st)
	}
}

func TestSessionsIsolation(t *testing.T) {
	s := NewSessions(0)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int64) {
			defer wg.Done()
			key := SessionKey(n)
			for j := 0; j < 50; j++ {
				s.Update(key, IntentResearchLookup, "t", Turn{Role: "user", Content: "q"})
				s.Get(key)
			}
		}(int64(i))
	}
	wg.Wait()

	for i := int64(0); i < 8; i++ {
		if st := s.Get(SessionKey(i)); st.PreviousIntent != IntentResearchLookup {
			t.Errorf("session %d intent = %s", i, st.PreviousIntent)
		}
	}
}
