package panel

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/zoomrx/agastya/internal/db"
)

// seedDesk builds a desk over an in-memory database with one panelist who
// completed three waves in 2023, one of them a paired common survey. The
// clock is pinned to 2025-05-15.
func seedDesk(t *testing.T) *Desk {
	t.Helper()

	d, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error: %v", err)
	}
	t.Cleanup(func() { d.Close() })

	stmts := []string{
		`INSERT INTO users (id, first_name, last_name) VALUES (7, 'Jane', 'Rivera')`,
		`INSERT INTO surveys (id) VALUES (1), (2), (3)`,
		`INSERT INTO survey_language_settings (survey_id, display_title) VALUES
			(1, 'Oncology Treatment Tracker'),
			(2, 'Cardiology Chart Review'),
			(3, 'Paired Common Check')`,
		`INSERT INTO survey_attributes (survey_id, attribute, value) VALUES
			(3, 'paired_common_survey_id', '1')`,
		`INSERT INTO waves (id, survey_id) VALUES (11, 1), (12, 2), (13, 3)`,
		`INSERT INTO users_waves (id, user_id, wave_id, status, completed_date) VALUES
			(101, 7, 11, 1, '2023-05-10 14:30:00'),
			(102, 7, 12, 1, '2023-08-02 09:00:00'),
			(103, 7, 13, 1, '2023-09-01 16:45:00')`,
		`INSERT INTO users_wave_details (id, time_taken) VALUES
			(101, 1200), (102, 600), (103, 300)`,
		`INSERT INTO transactions (id, amount) VALUES (201, 50.0), (202, 25.5), (203, 10.0)`,
		`INSERT INTO earnings (id, users_wave_id, transaction_id) VALUES
			(301, 101, 201), (302, 102, 202), (303, 103, 203)`,
	}
	for _, stmt := range stmts {
		if _, err := d.Exec(stmt); err != nil {
			t.Fatalf("seeding: %v\n%s", err, stmt)
		}
	}

	desk := NewDesk(NewStore(d))
	desk.now = func() time.Time {
		return time.Date(2025, time.May, 15, 12, 0, 0, 0, time.UTC)
	}
	return desk
}

func TestAnswerEarningsForYear(t *testing.T) {
	desk := seedDesk(t)
	got, err := desk.Answer(context.Background(), 7, "How much did I earn in 2023?")
	if err != nil {
		t.Fatalf("Answer() error: %v", err)
	}
	want := "Your total earnings from 2023-01-01 to 2023-12-31 were: $85.50."
	if got != want {
		t.Errorf("Answer() = %q, want %q", got, want)
	}
}

func TestAnswerEarningsAllTimeDefault(t *testing.T) {
	desk := seedDesk(t)
	got, err := desk.Answer(context.Background(), 7, "show my earnings")
	if err != nil {
		t.Fatalf("Answer() error: %v", err)
	}
	want := "Your total earnings from 2000-01-01 to 2025-05-15 were: $85.50."
	if got != want {
		t.Errorf("Answer() = %q, want %q", got, want)
	}
}

func TestAnswerEarningsEmptyRange(t *testing.T) {
	desk := seedDesk(t)
	got, err := desk.Answer(context.Background(), 7, "How much did I earn last month?")
	if err != nil {
		t.Fatalf("Answer() error: %v", err)
	}
	want := "No earnings found for you from 2025-04-01 to 2025-04-30."
	if got != want {
		t.Errorf("Answer() = %q, want %q", got, want)
	}
}

func TestAnswerEarningsFutureYearRejected(t *testing.T) {
	desk := seedDesk(t)
	got, err := desk.Answer(context.Background(), 7, "How much did I earn in 2026?")
	if err != nil {
		t.Fatalf("Answer() error: %v", err)
	}
	if !strings.Contains(got, "2026") || !strings.Contains(got, "future") {
		t.Errorf("Answer() = %q, want future-year refusal", got)
	}
}

func TestAnswerEarningsCurrentYearClampedToToday(t *testing.T) {
	desk := seedDesk(t)
	got, err := desk.Answer(context.Background(), 7, "How much did I earn in 2025?")
	if err != nil {
		t.Fatalf("Answer() error: %v", err)
	}
	want := "No earnings found for you from 2025-01-01 to 2025-05-15."
	if got != want {
		t.Errorf("Answer() = %q, want %q", got, want)
	}
}

func TestAnswerCompletedSurveys(t *testing.T) {
	desk := seedDesk(t)
	got, err := desk.Answer(context.Background(), 7, "Which surveys did I complete?")
	if err != nil {
		t.Fatalf("Answer() error: %v", err)
	}
	if !strings.HasPrefix(got, "Surveys you completed from 2000-01-01 to 2025-05-15:") {
		t.Errorf("Answer() = %q, want survey list header", got)
	}
	for _, title := range []string{"Oncology Treatment Tracker", "Cardiology Chart Review"} {
		if !strings.Contains(got, title) {
			t.Errorf("Answer() = %q, missing %q", got, title)
		}
	}
}

func TestAnswerLastParticipation(t *testing.T) {
	desk := seedDesk(t)
	got, err := desk.Answer(context.Background(), 7, "When did I last participate?")
	if err != nil {
		t.Fatalf("Answer() error: %v", err)
	}
	want := "Your last participation (completed survey) date was: 2023-09-01."
	if got != want {
		t.Errorf("Answer() = %q, want %q", got, want)
	}
}

func TestAnswerTimeStatsExcludesPairedCommon(t *testing.T) {
	desk := seedDesk(t)
	got, err := desk.Answer(context.Background(), 7, "How much time did I earn in 2023?")
	if err != nil {
		t.Fatalf("Answer() error: %v", err)
	}
	for _, part := range []string{
		"For the period 2023-01-01 to 2023-12-31",
		"Spent a total of 30.00 minutes",
		"Averaged 15.00 minutes per survey",
		"Completed 2 surveys",
	} {
		if !strings.Contains(got, part) {
			t.Errorf("Answer() = %q, missing %q", got, part)
		}
	}
}

func TestAnswerStaticFAQ(t *testing.T) {
	desk := seedDesk(t)
	got, err := desk.Answer(context.Background(), 7, "I want to change email id")
	if err != nil {
		t.Fatalf("Answer() error: %v", err)
	}
	if !strings.Contains(got, "Account Settings") {
		t.Errorf("Answer() = %q, want static FAQ answer", got)
	}
}

func TestAnswerUnmatchedGetsHelp(t *testing.T) {
	desk := seedDesk(t)
	got, err := desk.Answer(context.Background(), 7, "what is the meaning of panel life")
	if err != nil {
		t.Fatalf("Answer() error: %v", err)
	}
	if got != helpAnswer {
		t.Errorf("Answer() = %q, want help text", got)
	}
}

func TestUserName(t *testing.T) {
	desk := seedDesk(t)
	first, last, err := desk.UserName(context.Background(), 7)
	if err != nil {
		t.Fatalf("UserName() error: %v", err)
	}
	if first != "Jane" || last != "Rivera" {
		t.Errorf("UserName() = %q %q, want Jane Rivera", first, last)
	}
	if _, _, err := desk.UserName(context.Background(), 999); err == nil {
		t.Error("UserName() for missing user returned nil error")
	}
}
