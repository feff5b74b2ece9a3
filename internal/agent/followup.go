package agent

import (
	"regexp"
	"strings"
)

// continuationCues are prefixes that mark a turn as extending the previous
// topic. Matching is a case-insensitive prefix check, nothing smarter; the
// occasional false positive ("and" opening an unrelated sentence) is an
// accepted tradeoff.
var continuationCues = []string{
	"tell me more", "what about", "and", "how about", "what is", "can you elaborate",
}

var (
	quotedRe   = regexp.MustCompile(`["'](.*?)["']`)
	listItemRe = regexp.MustCompile(`^\s*[\d*\-]+\.?\s+`)
	boldRe     = regexp.MustCompile(`\*\*(.*?)\*\*`)
)

// IsContinuation decides whether input extends the prior topic rather than
// starting a new request. Two independent signals, either one sufficient:
// a continuation cue prefix, or an echo of a key phrase from the previous
// assistant message. Both require a prior intent; with no prior turn the
// answer is always false.
func IsContinuation(input string, priorIntent Intent, priorAssistantText string) bool {
	if priorIntent == "" {
		return false
	}

	lower := strings.ToLower(input)
	for _, cue := range continuationCues {
		if strings.HasPrefix(lower, cue) {
			return true
		}
	}

	for _, phrase := range keyPhrases(priorAssistantText) {
		if strings.Contains(lower, strings.ToLower(phrase)) {
			return true
		}
	}
	return false
}

// keyPhrases extracts candidate topic phrases from an assistant message:
// quoted substrings, numbered or bulleted list items, and bold spans.
// Phrases of 5 characters or fewer are discarded as too generic to echo.
func keyPhrases(text string) []string {
	if text == "" {
		return nil
	}

	var phrases []string
	add := func(p string) {
		if len(p) > 5 {
			phrases = append(phrases, p)
		}
	}

	for _, sentence := range strings.Split(text, ".") {
		if strings.ContainsAny(sentence, `"'`) {
			for _, m := range quotedRe.FindAllStringSubmatch(sentence, -1) {
				add(m[1])
			}
		}
		if listItemRe.MatchString(sentence) {
			add(strings.TrimSpace(sentence))
		}
		if strings.Contains(sentence, "**") {
			for _, m := range boldRe.FindAllStringSubmatch(sentence, -1) {
				add(m[1])
			}
		}
	}
	return phrases
}
