package agent

import (
	"regexp"
	"strings"
)

// Keyword tables driving the deterministic classification overrides. The
// sets overlap on purpose; precedence is decided by rule order in
// classifier.go, not here.

var brandTerms = []string{"zoomrx", "zoom rx"}

var productWording = []string{
	"product", "service", "offer", "offering",
	"outside of", "besides",
	"what is", "what are", "tell me about",
}

var earningsTerms = []string{
	"earn", "earned", "earnings", "money", "payment", "income",
}

var earningsTermsBroad = []string{
	"earn", "earned", "earnings", "money", "payment", "income",
	"compensation", "paid", "make money",
}

var personalTerms = []string{
	"my", "check", "show", "view", "how much",
}

var recencyTerms = []string{
	"last", "past", "previous", "month", "year", "week", "recent", "history",
}

var opportunityTerms = []string{
	"increase", "how", "ways", "can", "potential",
	"opportunity", "opportunities", "possible", "more",
}

// historyTerms is the broader recency vocabulary used by the personal-data
// rule: plain recency words plus month names, quarter labels, and
// to-date phrasings.
var historyTerms = []string{
	"history", "last", "past", "recent", "previous",
	"month", "year", "week", "day",
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
	"q1", "q2", "q3", "q4",
	"so far", "to date", "have earned", "earned so far", "have i", "did i",
}

var completionTerms = []string{
	"my", "complete", "completed", "took", "taken", "did", "finished", "submitted",
}

// zoomrxVocab catches the long tail of brand, product line, and feature
// phrasings that belong to the knowledge base.
var zoomrxVocab = []string{
	"zoomrx", "zoom rx", "product", "service", "offer",
	"hcp-pt", "hcp-patient", "advisory board", "perxcept",
	"digital tracker", "web extension", "browser extension",
	"referral", "refer", "referrals", "referral program", "referring",
	"record conversations", "dialogue", "patient recording", "recording patients",
	"forward emails", "email forwarding",
	"hcp survey", "survey offering", "survey offerings",
	"types of survey", "survey types", "types of surveys",
}

var conferenceAcronyms = []string{"asco", "esmo", "acc", "ash", "aan", "aha", "aacr", "aua", "easl"}

var (
	firstPersonRe = regexp.MustCompile(`\bi\b`)
	wordRes       = map[string]*regexp.Regexp{}
)

func init() {
	for _, w := range conferenceAcronyms {
		wordRes[w] = regexp.MustCompile(`\b` + w + `\b`)
	}
}

// containsAny reports whether s contains any of the given substrings.
// s must already be lowercased.
func containsAny(s string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}

// hasFirstPerson matches a standalone "i" on word boundaries.
func hasFirstPerson(s string) bool { return firstPersonRe.MatchString(s) }

// hasAcronym matches any known conference acronym on word boundaries, so
// "acc" does not fire inside "according" or "vaccine".
func hasAcronym(s string) bool {
	for _, w := range conferenceAcronyms {
		if wordRes[w].MatchString(s) {
			return true
		}
	}
	return false
}

func hasYear(s string) bool { return bareYearRe.MatchString(s) }
