package agent

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/zoomrx/agastya/internal/llm"
)

// Retriever supplies formatted research context for a query.
type Retriever interface {
	Context(ctx context.Context, query string) (string, error)
}

// PanelDesk answers personal panel-data questions and resolves user names.
type PanelDesk interface {
	Answer(ctx context.Context, userID int64, query string) (string, error)
	UserName(ctx context.Context, userID int64) (first, last string, err error)
}

// ConferenceLookup supplies formatted conference search context for a query.
type ConferenceLookup interface {
	Context(ctx context.Context, query string) (string, error)
}

// WikiLookup answers product knowledge-base questions from static data.
type WikiLookup interface {
	Answer(ctx context.Context, userID int64, query string) (string, error)
}

// Models maps each generation task to the model it runs on.
type Models struct {
	Classification string
	Research       string
	Panel          string
	Conference     string
	Wiki           string
	Default        string
}

// Reply is the outcome of a single processed turn.
type Reply struct {
	Answer string `json:"answer"`
	Intent Intent `json:"intent"`
}

// Engine runs the per-turn pipeline: load session state, classify,
// dispatch to the matching capability, generate the response, and write
// the state back for the next turn.
type Engine struct {
	classifier *Classifier
	sessions   *Sessions
	provider   llm.Provider
	models     Models

	research   Retriever
	panel      PanelDesk
	conference ConferenceLookup
	wiki       WikiLookup

	now func() time.Time
}

// NewEngine wires the engine from its collaborators. Any capability may be
// nil; queries routed to a missing capability get its fallback answer.
func NewEngine(provider llm.Provider, models Models, sessions *Sessions,
	research Retriever, panel PanelDesk, conference ConferenceLookup, wiki WikiLookup) *Engine {
	return &Engine{
		classifier: NewClassifier(provider, models.Classification),
		sessions:   sessions,
		provider:   provider,
		models:     models,
		research:   research,
		panel:      panel,
		conference: conference,
		wiki:       wiki,
		now:        time.Now,
	}
}

// Sessions exposes the session manager for the transport layer.
func (e *Engine) Sessions() *Sessions { return e.sessions }

// Panel exposes the panel desk for the transport layer's user lookups.
func (e *Engine) Panel() PanelDesk { return e.panel }

const fallbackAnswer = "Sorry, I encountered an issue generating a response."

const unknownAnswer = "I'm not sure how to help with that. I can assist with queries about " +
	"medical research, physician panel data, or conference information. Could you please rephrase?"

// Process handles one turn for the given session. It never returns an
// error for capability or generation failures; those degrade into fallback
// answers so the assistant always replies.
func (e *Engine) Process(ctx context.Context, sessionKey string, userID int64, input string) Reply {
	st := e.sessions.Get(sessionKey)
	cls := e.classifier.Classify(ctx, input, st)
	log.Printf("agent: intent %s for session %s", cls.Intent, sessionKey)

	var answer string
	switch cls.Intent {
	case IntentResearchLookup:
		answer = e.answerResearch(ctx, cls.RefinedQuery, input)
	case IntentPanelSupport:
		answer = e.answerPanel(ctx, userID, input)
	case IntentConferenceInfo:
		answer = e.answerConference(ctx, input)
	case IntentZoomRxWiki:
		answer = e.answerWiki(ctx, userID, input)
	case IntentGreeting:
		answer = e.answerGreeting(ctx, userID, input)
	default:
		answer = unknownAnswer
	}

	e.sessions.Update(sessionKey, cls.Intent, cls.Topic,
		Turn{Role: "user", Content: input},
		Turn{Role: "assistant", Content: answer},
	)

	return Reply{Answer: answer, Intent: cls.Intent}
}

func (e *Engine) answerResearch(ctx context.Context, query, input string) string {
	contextText := "No relevant documents were found in the knowledge base for your research query."
	if e.research != nil {
		if c, err := e.research.Context(ctx, query); err != nil {
			log.Printf("agent: research retrieval failed: %v", err)
		} else if c != "" {
			contextText = c
		}
	}

	resp, err := e.provider.Complete(ctx, llm.CompletionRequest{
		Model: e.models.Research,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: researchSystemPrompt},
			{Role: llm.RoleUser, Content: researchExampleQuery},
			{Role: llm.RoleAssistant, Content: researchExampleResponse},
			{Role: llm.RoleUser, Content: fmt.Sprintf("%s\n\nRetrieved Context:\n%s", input, contextText)},
		},
		MaxTokens:   1000,
		Temperature: 0.7,
	})
	if err != nil {
		log.Printf("agent: research generation failed: %v", err)
		return "Sorry, I encountered an issue while synthesizing research information for your query. Please try again or rephrase your question."
	}

	return e.ensureLimitations(resp.Content)
}

// ensureLimitations rewrites or appends the limitations line so it always
// carries the current date rather than one echoed from the few-shot example.
func (e *Engine) ensureLimitations(answer string) string {
	currentDate := e.now().Format("January 2, 2006")
	switch {
	case strings.Contains(answer, "Limitations: This summary reflects data available as of"):
		answer = strings.ReplaceAll(answer, "May 10, 2024", currentDate)
		answer = strings.ReplaceAll(answer, "{{today}}", currentDate)
		answer = strings.ReplaceAll(answer, "{today}", currentDate)
	case !strings.Contains(answer, "Limitations:"):
		answer += fmt.Sprintf("\n\nLimitations: This summary reflects data available as of %s. "+
			"Consult primary sources or specialists before making clinical decisions.", currentDate)
	}
	return answer
}

func (e *Engine) answerPanel(ctx context.Context, userID int64, input string) string {
	if userID == 0 {
		return "Error: I need a user ID to access panel data. This should be set during login."
	}

	contextText := "No panel data was retrieved."
	if e.panel != nil {
		if c, err := e.panel.Answer(ctx, userID, input); err != nil {
			log.Printf("agent: panel lookup failed for user %d: %v", userID, err)
		} else {
			contextText = c
		}
	}

	return e.generate(ctx, e.models.Panel, fmt.Sprintf(panelPromptTemplate, contextText, input), "panel support")
}

func (e *Engine) answerConference(ctx context.Context, input string) string {
	contextText := "I could not find specific conference document information related to your query."
	if e.conference != nil {
		if c, err := e.conference.Context(ctx, input); err != nil {
			log.Printf("agent: conference lookup failed: %v", err)
		} else if c != "" {
			contextText = c
		}
	}

	// JSON only when explicitly requested; bulleted reads better.
	template := conferenceBulletedPromptTemplate
	if strings.Contains(strings.ToLower(input), "json") {
		template = conferenceStructuredPromptTemplate
	}

	return e.generate(ctx, e.models.Conference, fmt.Sprintf(template, contextText, input), "conference info")
}

func (e *Engine) answerWiki(ctx context.Context, userID int64, input string) string {
	contextText := ""
	if e.wiki != nil {
		if c, err := e.wiki.Answer(ctx, userID, input); err != nil {
			log.Printf("agent: wiki lookup failed: %v", err)
		} else {
			contextText = c
		}
	}

	return e.generate(ctx, e.models.Wiki, fmt.Sprintf(wikiPromptTemplate, contextText, input), "zoomrx wiki")
}

func (e *Engine) answerGreeting(ctx context.Context, userID int64, input string) string {
	name := fmt.Sprintf("User %d", userID)
	if e.panel != nil {
		if _, last, err := e.panel.UserName(ctx, userID); err == nil && last != "" {
			name = "Dr. " + last
		}
	}

	lower := strings.ToLower(input)
	switch {
	case strings.Contains(lower, "hello") || strings.Contains(lower, "hi"):
		return fmt.Sprintf("Hello %s! How can I help you today with medical research, panel data, or conference information?", name)
	case strings.Contains(lower, "thank you") || strings.Contains(lower, "thanks"):
		return fmt.Sprintf("You're welcome, %s! Is there anything else I can assist with?", name)
	default:
		return fmt.Sprintf("I can help with medical research, panel data, or conference information. What would you like to know, %s?", name)
	}
}

// generate runs a single templated completion, degrading to a fallback
// string on any provider error.
func (e *Engine) generate(ctx context.Context, model, prompt, task string) string {
	resp, err := e.provider.Complete(ctx, llm.CompletionRequest{
		Model:       model,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: prompt}},
		MaxTokens:   1000,
		Temperature: 1,
	})
	if err != nil {
		log.Printf("agent: generation failed for %s: %v", task, err)
		return fmt.Sprintf("Sorry, I encountered an issue while generating the response for your %s query.", task)
	}
	return resp.Content
}
