package agent

import (
	"context"
	"log"
	"strings"

	"github.com/zoomrx/agastya/internal/llm"
)

// Classifier decides the category of a query. An LLM call produces the
// initial label; a cascade of deterministic override rules then has the
// final say. The classifier never fails: any oracle error degrades to
// IntentUnknown.
type Classifier struct {
	provider llm.Provider
	model    string
}

// NewClassifier creates a classifier backed by the given provider and model.
func NewClassifier(provider llm.Provider, model string) *Classifier {
	return &Classifier{provider: provider, model: model}
}

// overrideRule pairs a predicate over the lowercased query with the label
// it forces. Rules are evaluated in slice order and the first match wins.
// The order is load-bearing: several rules share trigger words, and moving
// one changes which label ambiguous inputs get.
type overrideRule struct {
	name  string
	match func(q string) bool
	label Intent
}

var overrideRules = []overrideRule{
	{
		// Brand mention plus product/offering wording.
		name: "wiki_product",
		match: func(q string) bool {
			return containsAny(q, brandTerms) && containsAny(q, productWording)
		},
		label: IntentZoomRxWiki,
	},
	{
		// Personal earnings with explicit recency wording.
		name: "earnings_recency",
		match: func(q string) bool {
			return containsAny(q, earningsTerms) && personalContext(q) && containsAny(q, recencyTerms)
		},
		label: IntentPanelSupport,
	},
	{
		// Personal earnings pinned to a specific year.
		name: "earnings_year",
		match: func(q string) bool {
			return containsAny(q, earningsTerms) && personalContext(q) && hasYear(q)
		},
		label: IntentPanelSupport,
	},
	{
		// Earning-opportunity questions belong to the knowledge base,
		// but only when no recency wording points at personal history.
		name: "earnings_opportunity",
		match: func(q string) bool {
			return containsAny(q, earningsTermsBroad) && containsAny(q, opportunityTerms) &&
				!containsAny(q, recencyTerms)
		},
		label: IntentZoomRxWiki,
	},
	{
		name:  "personal_data",
		match: personalDataQuery,
		label: IntentPanelSupport,
	},
	{
		// Any other ZoomRx-flavored vocabulary.
		name:  "wiki_vocab",
		match: func(q string) bool { return containsAny(q, zoomrxVocab) },
		label: IntentZoomRxWiki,
	},
	{
		name: "conference",
		match: func(q string) bool {
			return strings.Contains(q, "conference") || hasAcronym(q)
		},
		label: IntentConferenceInfo,
	},
}

func personalContext(q string) bool {
	return containsAny(q, personalTerms) || hasFirstPerson(q)
}

// personalDataQuery matches panel/market-share keywords, "my completed
// surveys" phrasing, or personal earnings with a history indicator from
// the broader recency vocabulary.
func personalDataQuery(q string) bool {
	if strings.Contains(q, "panel") || strings.Contains(q, "prescribing") || strings.Contains(q, "market share") {
		return true
	}
	if (strings.Contains(q, "surveys") || strings.Contains(q, "participation")) &&
		(containsAny(q, completionTerms) || hasFirstPerson(q)) {
		return true
	}
	personal := strings.Contains(q, "my") || hasFirstPerson(q) || strings.Contains(q, "me") ||
		strings.Contains(q, "show") || strings.Contains(q, "check")
	return containsAny(q, earningsTerms) && personal && containsAny(q, historyTerms)
}

// Classify categorizes the user's text given the prior turn's state.
//
// A detected continuation reuses the previous intent outright and skips
// the oracle. Otherwise the oracle's label is taken, normalized, and run
// through the override cascade; an out-of-set label becomes unknown.
func (c *Classifier) Classify(ctx context.Context, input string, st State) Classification {
	if IsContinuation(input, st.PreviousIntent, st.LastAssistantText()) {
		log.Printf("agent: follow-up detected, keeping intent %s", st.PreviousIntent)
		return Classification{
			Intent:       st.PreviousIntent,
			RefinedQuery: input,
			Topic:        st.Topic,
			FollowUp:     true,
		}
	}

	raw := c.oracleLabel(ctx, input)

	q := strings.ToLower(input)
	intent := Intent(raw)
	for _, rule := range overrideRules {
		if rule.match(q) {
			log.Printf("agent: override %s -> %s", rule.name, rule.label)
			intent = rule.label
			break
		}
	}
	if !ValidIntent(string(intent)) {
		intent = IntentUnknown
	}

	return Classification{
		Intent:       intent,
		RefinedQuery: input,
		Topic:        topicFingerprint(input),
	}
}

// oracleLabel asks the LLM for a category. Failures and noise both map to
// "unknown"; the cascade still runs afterwards.
func (c *Classifier) oracleLabel(ctx context.Context, input string) string {
	if c.provider == nil {
		return string(IntentUnknown)
	}

	resp, err := c.provider.Complete(ctx, llm.CompletionRequest{
		Model: c.model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: classificationPrompt},
			{Role: llm.RoleUser, Content: input},
		},
		MaxTokens:   150,
		Temperature: 1,
	})
	if err != nil {
		log.Printf("agent: classification call failed: %v", err)
		return string(IntentUnknown)
	}

	label := strings.ToLower(strings.TrimSpace(resp.Content))
	label = strings.Trim(label, `'".`)
	return label
}

// topicFingerprint derives a lossy topic label from the query: lowercase,
// drop short words, truncate. Collisions are fine; it feeds only the soft
// continuity heuristics.
func topicFingerprint(input string) string {
	var kept []string
	for _, w := range strings.Fields(strings.ToLower(input)) {
		if len(w) > 3 {
			kept = append(kept, w)
		}
	}
	topic := strings.Join(kept, " ")
	if len(topic) > 50 {
		topic = topic[:50]
	}
	return topic
}
