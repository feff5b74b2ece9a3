// Package wiki answers questions about ZoomRx itself: its products,
// earnings, eligibility, and participation logistics. Answers come from
// a static knowledge base; a small per-user context makes "yes" after an
// offered follow-up do the right thing.
package wiki

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
)

// productKeywords maps product IDs to the vocabulary that names them.
var productKeywords = map[string][]string{
	"hcp_surveys": {
		"survey", "surveys", "hcp survey", "medical survey", "healthcare survey",
		"questionnaire", "physician survey", "doctor survey", "hcp surveys",
		"medical questionnaire", "polling", "survey offering", "survey offerings",
		"types of survey", "survey types", "types of surveys", "chart review",
		"patient chart", "chart submission", "sales rep interaction", "qualitative interview",
		"interview", "chart reviews", "traditional survey",
	},
	"hcp_pt": {
		"patient", "patient connect", "hcp-pt", "hcp pt", "hcp-patient",
		"dialogue", "dialog", "conversation", "recording", "audio",
		"hcp-patient dialogue", "patient dialogue", "patient dialog",
		"clinical conversation", "doctor-patient", "physician-patient",
		"hcp patient", "patient recordings", "clinical recordings",
		"record conversations", "record patient", "record meeting", "patient recording",
		"conversation recording", "record visit", "record consultation",
		"conversation feature", "recording feature", "audio recording",
	},
	"advisory_boards": {
		"advisory", "board", "advisory board", "virtual advisory", "expert panel",
		"consulting", "advisor", "expert input", "advisory boards",
		"pharmaceutical advisory", "medical advisory", "consulting opportunity",
	},
	"digital_tracker": {
		"digital tracker", "perxcept", "digital insights", "passive", "browser extension", "safari extension",
		"email forwarding", "web tracking", "healthcare content tracking", "online behavior",
		"healthcare emails", "digital monitoring", "browser plugin", "web extension",
		"extension", "plugin", "monitoring tool", "content tracker", "browser monitor",
		"web monitoring", "passive monitoring", "passive tracking", "safari plugin",
		"email forwarding feature", "forward emails", "email tracking",
	},
}

// productOrder fixes the matching order so mention extraction is
// deterministic.
var productOrder = []string{"hcp_surveys", "hcp_pt", "advisory_boards", "digital_tracker"}

// genericFeatureMapping routes feature descriptions straight to the
// product that provides them.
var genericFeatureMapping = []struct {
	feature string
	product string
}{
	{"web extension", "digital_tracker"},
	{"browser extension", "digital_tracker"},
	{"browser plugin", "digital_tracker"},
	{"record conversations", "hcp_pt"},
	{"record patients", "hcp_pt"},
	{"patient recordings", "hcp_pt"},
	{"conversation recording", "hcp_pt"},
	{"forward emails", "digital_tracker"},
	{"track online", "digital_tracker"},
	{"passive monitoring", "digital_tracker"},
	{"digital tracker", "digital_tracker"},
}

var referralTerms = []string{
	"referral", "refer", "referring", "referrals", "referral program",
	"refer a colleague", "refer a friend",
}

// comparisonPhrases signal "everything except X" questions.
var comparisonPhrases = []string{
	"outside of", "besides", "other than", "apart from",
	"in addition to", "what else", "what other",
}

var affirmations = []string{"yes", "yeah", "sure", "okay", "yep", "y"}

// userContext remembers the last wiki exchange per user so a bare "yes"
// can accept an offered follow-up.
type userContext struct {
	lastProduct     string
	lastQuery       string
	followUpOffered bool
}

// Service is the wiki capability. It satisfies the engine's WikiLookup
// interface.
type Service struct {
	kb *KnowledgeBase

	mu       sync.Mutex
	contexts map[int64]*userContext
}

// NewService creates the wiki service over a loaded knowledge base.
func NewService(kb *KnowledgeBase) *Service {
	return &Service{kb: kb, contexts: make(map[int64]*userContext)}
}

func containsAny(s string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}

// questionType classifies what the user wants to know. Checks run in a
// fixed priority order; the first matching bucket wins.
func questionType(q string) string {
	switch {
	case containsAny(q, []string{
		"feature", "features", "functionality", "capabilities",
		"tools", "what can", "functions", "options",
		"what does it do", "what can it do", "how does it work",
		"web extension", "browser extension", "record conversation",
		"record patients", "recordings"}):
		return "features"
	case containsAny(q, []string{
		"outside of", "besides", "other than", "apart from", "in addition to",
		"what else", "what other", "different from", "different than",
		"other products", "other offerings", "other services"}):
		return "products"
	case containsAny(q, []string{
		"offer", "offers", "offering", "offerings",
		"product", "products", "service", "services"}):
		return "products"
	case containsAny(q, []string{
		"what is", "what are", "tell me about", "describe", "explain",
		"what does", "who is", "information on", "info about"}):
		return "what_is"
	case containsAny(q, []string{
		"benefit", "advantage", "value", "why", "purpose",
		"why should i", "what's in it for me", "what's good about",
		"reasons to", "pros of"}):
		return "benefits"
	case containsAny(q, []string{
		"how to", "how do i", "start", "join", "sign up", "enroll",
		"participate", "register", "begin", "get going", "onboarding"}):
		return "how_to"
	case containsAny(q, []string{
		"earn", "payment", "money", "compensation", "pay", "income", "salary",
		"how much", "make money", "get paid", "earnings", "payout",
		"earn more", "earn extra", "additional income", "side income"}):
		return "earnings"
	case containsAny(q, []string{
		"qualification", "qualify", "eligible", "eligibility",
		"who can", "requirements", "can i", "am i eligible",
		"do i qualify", "prerequisites"}):
		return "eligibility"
	case containsAny(q, []string{
		"faq", "question", "common question", "ask", "frequently",
		"people ask", "common concern"}):
		return "faqs"
	case containsAny(q, []string{
		"programs", "opportunities", "activities", "ways to participate"}):
		return "products"
	case containsAny(q, []string{
		"time", "commitment", "hours", "schedule", "availability",
		"how long", "time required", "time commitment"}):
		return "time_commitment"
	default:
		return "general"
	}
}

// productMentions extracts which products the query names. Comparison
// queries return nothing; the excluded product is resolved later.
func productMentions(q string) []string {
	for _, m := range genericFeatureMapping {
		if strings.Contains(q, m.feature) {
			return []string{m.product}
		}
	}

	if containsAny(q, referralTerms) {
		return []string{"referral_program"}
	}

	if containsAny(q, comparisonPhrases) {
		return nil
	}

	var mentioned []string
	for _, id := range productOrder {
		for _, keyword := range productKeywords[id] {
			if strings.Contains(q, keyword) {
				mentioned = append(mentioned, id)
				break
			}
		}
	}
	return mentioned
}

// Answer handles one wiki question.
func (s *Service) Answer(ctx context.Context, userID int64, query string) (string, error) {
	q := strings.ToLower(query)
	qt := questionType(q)

	isComparison := containsAny(q, comparisonPhrases)
	if isComparison {
		qt = "products"
	}
	log.Printf("wiki: question type %s for %q", qt, query)

	mentioned := productMentions(q)

	s.mu.Lock()
	defer s.mu.Unlock()
	uc := s.contexts[userID]
	if uc == nil {
		uc = &userContext{}
		s.contexts[userID] = uc
	}
	defer func() { uc.lastQuery = query }()

	if qt == "features" && len(mentioned) == 0 {
		uc.followUpOffered = true
		return s.featuresOverview(), nil
	}

	// A bare affirmation accepts a previously offered follow-up.
	if uc.followUpOffered {
		trimmed := strings.TrimRight(q, ".!? ")
		for _, a := range affirmations {
			if trimmed == a {
				if uc.lastProduct != "" {
					return s.formatProductInfo(uc.lastProduct, "how_to"), nil
				}
				return s.productsBulletList("Here are the main products and services ZoomRx offers:\n\n"), nil
			}
		}
	}

	switch {
	case qt == "products":
		uc.lastProduct = ""
		uc.followUpOffered = true
		return s.productListing(q, isComparison), nil

	case len(mentioned) > 0:
		productID := mentioned[0]
		uc.lastProduct = productID
		if qt == "features" {
			return s.formatProductInfo(productID, ""), nil
		}
		if qt == "faqs" {
			if faq := s.bestFAQ(productID, q); faq != nil {
				return fmt.Sprintf("Q: %s\nA: %s", faq.Question, faq.Answer), nil
			}
		}
		answer := s.formatProductInfo(productID, qt)
		if qt == "what_is" || qt == "benefits" {
			uc.followUpOffered = true
			answer += "\n\n" + s.generateFollowUp(productID, qt)
		}
		return answer, nil

	case strings.Contains(q, "zoomrx") || qt == "general":
		uc.lastProduct = ""
		uc.followUpOffered = true
		return s.generalInfo(qt) + "\n\n" + s.generateFollowUp("", qt), nil
	}

	switch qt {
	case "earnings":
		uc.followUpOffered = true
		return s.generalInfo("earnings"), nil
	case "eligibility":
		return s.generalInfo("eligibility"), nil
	case "time_commitment":
		return s.generalInfo("time_commitment"), nil
	case "how_to":
		return "To get started with ZoomRx, you'll need to:\n\n" +
			"1. Create an account at zoomrx.com\n" +
			"2. Complete your profile with your professional information\n" +
			"3. Verify your healthcare credentials\n" +
			"4. Browse available opportunities in your dashboard", nil
	}

	uc.followUpOffered = true
	return s.productsBulletList("ZoomRx offers several ways for healthcare professionals to participate and earn:\n\n") +
		s.generateFollowUp("", qt), nil
}

// featuresOverview answers "what features do you have" with the three
// feature-bearing products.
func (s *Service) featuresOverview() string {
	var sb strings.Builder
	sb.WriteString("# ZoomRx Features\n\n")
	sb.WriteString("ZoomRx offers several key features for healthcare professionals:\n\n")

	if p := s.kb.Product("digital_tracker"); p != nil {
		sb.WriteString("## Web Extension (Digital Tracker)\n")
		sb.WriteString(p.Description + "\n")
		sb.WriteString("Earnings: $30 monthly plus $1 per forwarded healthcare email.\n\n")
	}
	if p := s.kb.Product("hcp_pt"); p != nil {
		sb.WriteString("## Patient Conversation Recording (HCP-Patient Dialogue)\n")
		sb.WriteString(p.Description + "\n")
		sb.WriteString("Earnings: Up to $1000 per month for recording patient conversations.\n\n")
	}
	if p := s.kb.Product("hcp_surveys"); p != nil {
		sb.WriteString("## Surveys and Other Research Opportunities\n")
		sb.WriteString(p.Description + "\n")
		sb.WriteString("Earnings: $50-$200 per survey, with additional opportunities for chart reviews and interviews.\n\n")
	}

	sb.WriteString("Would you like to learn more about any of these specific features?")
	return sb.String()
}

// productListing renders all products, dropping the one a comparison
// query excludes.
func (s *Service) productListing(q string, isComparison bool) string {
	excluded := ""
	if isComparison {
		switch {
		case strings.Contains(q, "survey"):
			excluded = "hcp_surveys"
		case strings.Contains(q, "patient") || strings.Contains(q, "dialogue") || strings.Contains(q, "dialog"):
			excluded = "hcp_pt"
		case strings.Contains(q, "advisory") || strings.Contains(q, "board"):
			excluded = "advisory_boards"
		}
	}

	var sb strings.Builder
	if excluded != "" {
		sb.WriteString(fmt.Sprintf("ZoomRx offers the following products and services in addition to %s:\n\n",
			s.kb.Product(excluded).Name))
	} else {
		sb.WriteString("ZoomRx offers the following products and services for healthcare professionals:\n\n")
	}

	for _, p := range s.kb.Products {
		if p.ID == excluded {
			continue
		}
		sb.WriteString("## " + p.Name + "\n")
		sb.WriteString(p.Description + "\n\n")
		sb.WriteString("Key benefits:\n")
		benefits := p.Benefits
		if len(benefits) > 3 {
			benefits = benefits[:3]
		}
		for _, b := range benefits {
			sb.WriteString("• " + b + "\n")
		}
		sb.WriteString(fmt.Sprintf("\nTypical earnings: %s.\n\n", firstSentence(p.Earnings)))
	}

	sb.WriteString("Would you like to learn more about any specific product?")
	return sb.String()
}

func (s *Service) productsBulletList(header string) string {
	var sb strings.Builder
	sb.WriteString(header)
	for _, p := range s.kb.Products {
		sb.WriteString(fmt.Sprintf("• %s: %s\n\n", p.Name, p.Description))
	}
	return sb.String()
}

// formatProductInfo renders one product, either a single section or the
// full overview when section is empty.
func (s *Service) formatProductInfo(productID, section string) string {
	if productID == "referral_program" {
		return s.referralInfo()
	}

	p := s.kb.Product(productID)
	if p == nil {
		return "I don't have information about that specific product."
	}

	// Orient the reader when a generic feature query landed on a product.
	featureContext := ""
	if section == "what_is" || section == "" {
		switch productID {
		case "digital_tracker":
			featureContext = "This is the ZoomRx **Digital Tracker** product, which provides the web extension/browser monitoring functionality.\n\n"
		case "hcp_pt":
			featureContext = "This is the ZoomRx **HCP-Patient Dialogue** product, which provides the patient conversation recording functionality.\n\n"
		}
	}

	switch section {
	case "what_is":
		return fmt.Sprintf("%s%s: %s", featureContext, p.Name, p.Description)
	case "how_to":
		return fmt.Sprintf("Getting started with %s:\n%s", p.Name, p.HowToStart)
	case "earnings":
		return fmt.Sprintf("Earnings for %s:\n%s", p.Name, p.Earnings)
	case "benefits":
		var lines []string
		for _, b := range p.Benefits {
			lines = append(lines, "• "+b)
		}
		return fmt.Sprintf("Benefits of %s:\n%s", p.Name, strings.Join(lines, "\n"))
	case "faqs":
		if len(p.FAQs) == 0 {
			return fmt.Sprintf("I don't have specific FAQs about %s.", p.Name)
		}
		var blocks []string
		for _, faq := range p.FAQs {
			blocks = append(blocks, fmt.Sprintf("Q: %s\nA: %s", faq.Question, faq.Answer))
		}
		return fmt.Sprintf("Frequently Asked Questions about %s:\n\n%s", p.Name, strings.Join(blocks, "\n\n"))
	}

	// Comprehensive overview.
	var sb strings.Builder
	sb.WriteString("# " + p.Name + "\n\n")
	sb.WriteString(featureContext)
	sb.WriteString(p.Description + "\n\n")
	sb.WriteString("## Benefits\n")
	for i, b := range p.Benefits {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("• " + b)
	}
	sb.WriteString("\n\n## How to Get Started\n" + p.HowToStart)
	sb.WriteString("\n\n## Earnings\n" + p.Earnings)
	if len(p.FAQs) > 0 {
		sb.WriteString("\n\n## Frequently Asked Questions\n")
		for _, faq := range p.FAQs {
			sb.WriteString(fmt.Sprintf("\nQ: %s\nA: %s\n", faq.Question, faq.Answer))
		}
	}
	return sb.String()
}

func (s *Service) referralInfo() string {
	r := s.kb.GeneralInfo.ReferralProgram
	var sb strings.Builder
	sb.WriteString("# ZoomRx Referral Program\n\n")
	sb.WriteString("The ZoomRx referral program offers you additional earning opportunities by inviting your colleagues and patients to join.\n\n")
	sb.WriteString("## HCP Referrals\n" + r.HCPReferral + "\n\n")
	sb.WriteString("## Patient Referrals\n" + r.PatientReferral + "\n\n")
	sb.WriteString("To get your referral link, log in to your ZoomRx account, navigate to the top of the dashboard, and select 'Refer & Earn'.")
	return sb.String()
}

// generalInfo renders company-level answers by section, or the full
// overview when the section has no dedicated rendering.
func (s *Service) generalInfo(section string) string {
	gi := s.kb.GeneralInfo
	pi := s.kb.ParticipationInfo

	switch section {
	case "about", "what_is":
		return gi.AboutZoomRx
	case "earnings":
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("## Earnings Potential with ZoomRx\n\n%s\n\n", gi.EarningsPotential))
		sb.WriteString("### Specific Earning Opportunities:\n\n")
		for _, p := range s.kb.Products {
			sb.WriteString(fmt.Sprintf("**%s**: %s\n\n", p.Name, p.Earnings))
		}
		sb.WriteString("Would you like more details about any of these specific earning opportunities?")
		return sb.String()
	case "eligibility":
		return "Eligibility for ZoomRx:\n" + pi.Eligibility
	case "time_commitment":
		return "Time Commitment:\n" + pi.TimeCommitment
	case "payment_methods":
		return "Payment Methods:\n" + pi.PaymentMethods
	}

	var sb strings.Builder
	sb.WriteString("# About ZoomRx\n\n")
	sb.WriteString(gi.AboutZoomRx + "\n\n")
	sb.WriteString("## Our Mission\n" + gi.CompanyMission + "\n\n")
	sb.WriteString("## Earnings Potential\n" + gi.EarningsPotential + "\n\n")
	sb.WriteString("## Data Privacy\n" + gi.DataPrivacy + "\n\n")
	sb.WriteString("## Eligibility\n" + pi.Eligibility + "\n\n")
	sb.WriteString("## Time Commitment\n" + pi.TimeCommitment + "\n\n")
	sb.WriteString("## Payment Methods\n" + pi.PaymentMethods)
	return sb.String()
}

// generateFollowUp proposes the next question to keep the exchange going.
func (s *Service) generateFollowUp(productID, qt string) string {
	if productID != "" {
		name := s.kb.Product(productID).Name
		switch qt {
		case "earnings":
			return fmt.Sprintf("Would you like to learn more about how to get started with %s to begin earning?", name)
		case "benefits":
			return fmt.Sprintf("Would you like to learn how much you could earn with %s?", name)
		case "features":
			switch productID {
			case "digital_tracker":
				return fmt.Sprintf("Would you like to learn how to set up the %s web extension on your browser?", name)
			case "hcp_pt":
				return fmt.Sprintf("Would you like to learn how to start recording patient conversations with %s?", name)
			}
			return fmt.Sprintf("Would you like to learn more about how to get started with %s?", name)
		}
		return fmt.Sprintf("Would you like to learn how to get started with %s?", name)
	}

	switch qt {
	case "earnings":
		return "Would you like to know more about any of these specific earning opportunities?"
	case "eligibility":
		return "Would you like to know which ZoomRx opportunity might be the best fit for your specialty?"
	case "features":
		return "Which of these features would you like to learn more about: web extension (Digital Tracker), patient recordings (HCP-Patient Dialogue), or surveys?"
	}
	return "Would you like to know more about any specific ZoomRx product or service?"
}

// bigramCounts builds the character-bigram multiset of a lowercased
// string.
func bigramCounts(s string) map[string]int {
	counts := make(map[string]int)
	runes := []rune(strings.ToLower(s))
	for i := 0; i+1 < len(runes); i++ {
		counts[string(runes[i:i+2])]++
	}
	return counts
}

// similarityRatio scores how alike two strings are on a 0..1 scale
// using bigram overlap.
func similarityRatio(a, b string) float64 {
	ca, cb := bigramCounts(a), bigramCounts(b)
	if len(ca) == 0 || len(cb) == 0 {
		return 0
	}
	var total, shared int
	for g, n := range ca {
		total += n
		if m := cb[g]; m < n {
			shared += m
		} else {
			shared += n
		}
	}
	for _, n := range cb {
		total += n
	}
	return 2 * float64(shared) / float64(total)
}

// bestMatch returns the index of the candidate most similar to the
// query, or -1 when nothing scores above the match threshold.
func bestMatch(query string, candidates []string) int {
	best, bestScore := -1, 0.6
	for i, c := range candidates {
		if score := similarityRatio(query, c); score > bestScore {
			best, bestScore = i, score
		}
	}
	return best
}

// bestFAQ finds the product FAQ whose question most resembles the
// query. Nil means no question is close enough and the full FAQ list
// should be shown instead.
func (s *Service) bestFAQ(productID, q string) *FAQ {
	p := s.kb.Product(productID)
	if p == nil || len(p.FAQs) == 0 {
		return nil
	}
	questions := make([]string, len(p.FAQs))
	for i, faq := range p.FAQs {
		questions[i] = faq.Question
	}
	if i := bestMatch(q, questions); i >= 0 {
		return &p.FAQs[i]
	}
	return nil
}

// firstSentence trims everything after the first period.
func firstSentence(s string) string {
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return s[:i]
	}
	return s
}
