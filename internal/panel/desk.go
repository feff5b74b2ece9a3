// Package panel answers panelists' questions about their own activity:
// earnings, completed surveys, time spent, and participation history. It
// resolves the time period mentioned in the question to a concrete date
// range and runs the matching aggregate query.
package panel

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/zoomrx/agastya/internal/agent"
)

// staticAnswers are account-management FAQs answered without touching the
// database. Triggers are matched as lowercase substrings, in order.
var staticAnswers = []struct {
	trigger string
	answer  string
}{
	{"change email id", "To change your email ID, please go to your Profile section on our website and look for the 'Edit Profile' or 'Account Settings' option. You should be able to update your email address there. If you face any issues, please contact support."},
	{"update profile", "You can update your profile information, including personal details and payment preferences, by navigating to the 'Profile' or 'My Account' section after logging into our platform."},
	{"payment methods", "We offer several payment methods, typically including PayPal and direct bank transfers, depending on your region. Please check the 'Payments' or 'Rewards' section for details specific to your account."},
	{"forgot password", "If you've forgotten your password, please use the 'Forgot Password?' link on the login page. You'll receive an email with instructions to reset it."},
}

const helpAnswer = "I can help with questions about your panel data:\n" +
	"- Earnings in a time period (e.g., 'How much did I earn in April 2025?')\n" +
	"- Completed surveys (e.g., 'What surveys did I complete last month?')\n" +
	"- Time spent (e.g., 'How much time did I spend on surveys in 2025?')\n" +
	"- Last participation (e.g., 'When did I last participate?')\n\n" +
	"Please specify a time period like 'last month', 'this year', 'April 2025', '2025', or 'all time' for time-based queries."

// Desk is the panel capability. It satisfies the engine's PanelDesk
// interface.
type Desk struct {
	store *Store
	now   func() time.Time
}

// NewDesk creates a desk over the given store.
func NewDesk(store *Store) *Desk {
	return &Desk{store: store, now: time.Now}
}

// UserName resolves the panelist's name for greetings and profile lookups.
func (d *Desk) UserName(ctx context.Context, userID int64) (string, string, error) {
	return d.store.UserName(ctx, userID)
}

// Answer handles one panel question. Static FAQs win first; otherwise the
// question's time period and shape pick an aggregate query. Questions that
// match no known shape get the help text.
func (d *Desk) Answer(ctx context.Context, userID int64, query string) (string, error) {
	q := strings.ToLower(query)
	log.Printf("panel: handling query %q for user %d", query, userID)

	for _, faq := range staticAnswers {
		if strings.Contains(q, faq.trigger) {
			return faq.answer, nil
		}
	}

	period := agent.ExtractPeriod(query)
	rng := agent.ResolveTimeframe(period, d.now())

	switch {
	case isEarningsQuery(q) && !isTimeQuery(q):
		return d.earnings(ctx, userID, rng)
	case isTimeQuery(q):
		return d.timeStats(ctx, userID, rng)
	case isSurveyListQuery(q):
		return d.completedSurveys(ctx, userID, rng)
	case isLastParticipationQuery(q):
		return d.lastParticipation(ctx, userID)
	}

	log.Printf("panel: no query shape matched %q", query)
	return helpAnswer, nil
}

func isEarningsQuery(q string) bool {
	if strings.Contains(q, "how much") && strings.Contains(q, "earn") {
		return true
	}
	for _, t := range []string{
		"earnings", "check earn", "show earn", "view earn",
		"tell me about earn", "tell me my earn", "know my earn", "get my earn",
	} {
		if strings.Contains(q, t) {
			return true
		}
	}
	return false
}

func isSurveyListQuery(q string) bool {
	if strings.Contains(q, "surveys") && strings.Contains(q, "completed") {
		return true
	}
	if strings.Contains(q, "what surveys") && strings.Contains(q, "did i complete") {
		return true
	}
	return strings.Contains(q, "which surveys")
}

func isLastParticipationQuery(q string) bool {
	return strings.Contains(q, "last participation date") ||
		strings.Contains(q, "when did i last participate")
}

func isTimeQuery(q string) bool {
	return strings.Contains(q, "time") && strings.Contains(q, "earn") &&
		!strings.Contains(q, "all time")
}

// adjustRange enforces the future-date policy. A range starting in a year
// after the current one is rejected (second return non-zero). A range
// starting in the future within the current year falls back to year-to-
// date, and any end past today is clamped to today.
func (d *Desk) adjustRange(rng agent.Range) (agent.Range, int) {
	if !rng.Bounded() || rng.AllTime() {
		return rng, 0
	}
	today := d.now()
	start, end := *rng.Start, *rng.End
	if start.After(today) {
		if start.Year() > today.Year() {
			return rng, start.Year()
		}
		start = time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, today.Location())
	}
	if end.After(today) {
		end = today
	}
	return agent.Range{Start: &start, End: &end}, 0
}

func futureAnswer(subject string, year int) string {
	return fmt.Sprintf("I don't have %s data for %d yet as it's in the future. "+
		"I can only provide historical data. Would you like to see your %s for the current year instead?",
		subject, year, subject)
}

func (d *Desk) earnings(ctx context.Context, userID int64, rng agent.Range) (string, error) {
	rng, futureYear := d.adjustRange(rng)
	if futureYear != 0 {
		return futureAnswer("earnings", futureYear), nil
	}
	if !rng.Bounded() {
		rng = agent.ResolveTimeframe("all time", d.now())
	}

	total, found, err := d.store.Earnings(ctx, userID, *rng.Start, *rng.End)
	if err != nil {
		return "", err
	}
	from, to := agent.FormatDate(*rng.Start), agent.FormatDate(*rng.End)
	if !found {
		return fmt.Sprintf("No earnings found for you from %s to %s.", from, to), nil
	}
	return fmt.Sprintf("Your total earnings from %s to %s were: $%.2f.", from, to, total), nil
}

func (d *Desk) completedSurveys(ctx context.Context, userID int64, rng agent.Range) (string, error) {
	rng, futureYear := d.adjustRange(rng)
	if futureYear != 0 {
		return futureAnswer("survey", futureYear), nil
	}
	if !rng.Bounded() {
		rng = agent.ResolveTimeframe("all time", d.now())
	}

	titles, err := d.store.CompletedSurveys(ctx, userID, *rng.Start, *rng.End)
	if err != nil {
		return "", err
	}
	from, to := agent.FormatDate(*rng.Start), agent.FormatDate(*rng.End)
	if len(titles) == 0 {
		return fmt.Sprintf("No surveys found as completed by you from %s to %s.", from, to), nil
	}
	return fmt.Sprintf("Surveys you completed from %s to %s:\n- %s",
		from, to, strings.Join(titles, "\n- ")), nil
}

func (d *Desk) lastParticipation(ctx context.Context, userID int64) (string, error) {
	last, found, err := d.store.LastParticipation(ctx, userID)
	if err != nil {
		return "", err
	}
	if !found {
		return "No participation records found to determine your last participation date.", nil
	}
	return fmt.Sprintf("Your last participation (completed survey) date was: %s.", agent.FormatDate(last)), nil
}

func (d *Desk) timeStats(ctx context.Context, userID int64, rng agent.Range) (string, error) {
	rng, futureYear := d.adjustRange(rng)
	if futureYear != 0 {
		return futureAnswer("time spent", futureYear), nil
	}
	allTime := rng.AllTime() || !rng.Bounded()

	var start, end time.Time
	if rng.Bounded() {
		start, end = *rng.Start, *rng.End
	}
	stats, found, err := d.store.Times(ctx, userID, start, end, allTime)
	if err != nil {
		return "", err
	}

	periodText := "all time"
	if !allTime {
		periodText = fmt.Sprintf("the period %s to %s", agent.FormatDate(start), agent.FormatDate(end))
	}
	if !found {
		return fmt.Sprintf("No time records found for you for %s (excluding paired common surveys).", periodText), nil
	}
	return fmt.Sprintf("For %s, you:\n"+
		"- Spent a total of %.2f minutes on surveys.\n"+
		"- Averaged %.2f minutes per survey.\n"+
		"- Completed %d surveys (excluding paired common surveys).",
		periodText, stats.TotalMinutes, stats.AvgMinutes, stats.Completed), nil
}
