package panel

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/zoomrx/agastya/internal/agent"
	"github.com/zoomrx/agastya/internal/db"
)

// Store reads panelist activity from the replicated panel tables.
type Store struct {
	db *db.DB
}

// NewStore creates a store backed by the given database.
func NewStore(d *db.DB) *Store {
	return &Store{db: d}
}

// TimeStats aggregates survey completion effort over a period.
type TimeStats struct {
	TotalMinutes float64
	AvgMinutes   float64
	Completed    int
}

// UserName returns the panelist's first and last name.
func (s *Store) UserName(ctx context.Context, userID int64) (string, string, error) {
	var first, last string
	err := s.db.QueryRowContext(ctx,
		`SELECT first_name, last_name FROM users WHERE id = ?`, userID,
	).Scan(&first, &last)
	if err == sql.ErrNoRows {
		return "", "", fmt.Errorf("user %d not found", userID)
	}
	if err != nil {
		return "", "", fmt.Errorf("fetching user name: %w", err)
	}
	return first, last, nil
}

// Earnings sums all transaction amounts tied to waves the user completed
// within the range. The second return is false when no earnings exist.
func (s *Store) Earnings(ctx context.Context, userID int64, start, end time.Time) (float64, bool, error) {
	var total sql.NullFloat64
	err := s.db.QueryRowContext(ctx, `
		SELECT SUM(t.amount)
		FROM users_waves uw
		LEFT JOIN earnings e ON uw.id = e.users_wave_id
		JOIN transactions t ON t.id = e.transaction_id
		WHERE uw.user_id = ?
		  AND date(uw.completed_date) >= ?
		  AND date(uw.completed_date) <= ?`,
		userID, agent.FormatDate(start), agent.FormatDate(end),
	).Scan(&total)
	if err != nil {
		return 0, false, fmt.Errorf("summing earnings: %w", err)
	}
	return total.Float64, total.Valid, nil
}

// CompletedSurveys lists the distinct display titles of surveys the user
// completed within the range.
func (s *Store) CompletedSurveys(ctx context.Context, userID int64, start, end time.Time) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT l.display_title
		FROM users_waves uw
		JOIN waves w ON w.id = uw.wave_id
		JOIN survey_language_settings l ON l.survey_id = w.survey_id
		WHERE uw.user_id = ?
		  AND uw.status = 1
		  AND date(uw.completed_date) >= ?
		  AND date(uw.completed_date) <= ?
		ORDER BY l.display_title`,
		userID, agent.FormatDate(start), agent.FormatDate(end),
	)
	if err != nil {
		return nil, fmt.Errorf("listing completed surveys: %w", err)
	}
	defer rows.Close()

	var titles []string
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, fmt.Errorf("scanning survey title: %w", err)
		}
		titles = append(titles, title)
	}
	return titles, rows.Err()
}

// LastParticipation returns the most recent completed-survey date. The
// second return is false when the user has never completed a wave.
func (s *Store) LastParticipation(ctx context.Context, userID int64) (time.Time, bool, error) {
	var raw sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT MAX(uw.completed_date)
		FROM users_waves uw
		WHERE uw.user_id = ? AND uw.status = 1`, userID,
	).Scan(&raw)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("fetching last participation: %w", err)
	}
	if !raw.Valid {
		return time.Time{}, false, nil
	}

	// Stored as DATETIME text; only the date part matters here.
	datePart := strings.SplitN(raw.String, " ", 2)[0]
	if i := strings.IndexByte(datePart, 'T'); i > 0 {
		datePart = datePart[:i]
	}
	t, err := time.Parse("2006-01-02", datePart)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parsing participation date %q: %w", raw.String, err)
	}
	return t, true, nil
}

// Times aggregates time spent on completed surveys, excluding paired
// common surveys. With allTime set the date filter is omitted entirely.
// The second return is false when no timed completions exist.
func (s *Store) Times(ctx context.Context, userID int64, start, end time.Time, allTime bool) (TimeStats, bool, error) {
	query := `
		SELECT
			SUM(uwd.time_taken) / 60.0,
			AVG(uwd.time_taken) / 60.0,
			COUNT(DISTINCT uw.id)
		FROM users_waves uw
		JOIN waves w ON w.id = uw.wave_id
		JOIN users_wave_details uwd ON uwd.id = uw.id
		WHERE uw.user_id = ?
		  AND uw.status = 1
		  AND w.survey_id NOT IN (
			SELECT sa.survey_id FROM survey_attributes sa
			WHERE sa.attribute = 'paired_common_survey_id')`
	args := []any{userID}
	if !allTime {
		query += `
		  AND date(uw.completed_date) >= ?
		  AND date(uw.completed_date) <= ?`
		args = append(args, agent.FormatDate(start), agent.FormatDate(end))
	}

	var total, avg sql.NullFloat64
	var count int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&total, &avg, &count); err != nil {
		return TimeStats{}, false, fmt.Errorf("aggregating time stats: %w", err)
	}
	if !total.Valid {
		return TimeStats{}, false, nil
	}
	return TimeStats{TotalMinutes: total.Float64, AvgMinutes: avg.Float64, Completed: count}, true, nil
}
