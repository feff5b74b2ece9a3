package agent

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// epochFloor is the "beginning of time" for panel data. Nothing in the
// panel predates it, so all-time queries use it as the open lower bound.
var epochFloor = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// Range is an inclusive date range. A nil bound means unbounded on that
// side; consumers supply their own default behavior for nil bounds.
type Range struct {
	Start *time.Time
	End   *time.Time
}

// Bounded reports whether both bounds are set.
func (r Range) Bounded() bool { return r.Start != nil && r.End != nil }

// AllTime reports whether the range starts at the epoch floor.
func (r Range) AllTime() bool {
	return r.Start != nil && r.Start.Equal(epochFloor)
}

// FormatDate renders a bound as YYYY-MM-DD, the form downstream SQL expects.
func FormatDate(t time.Time) string { return t.Format("2006-01-02") }

var (
	monthYearRe = regexp.MustCompile(`(jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|jun(?:e)?|jul(?:y)?|aug(?:ust)?|sep(?:tember)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\s+(\d{4})`)
	bareYearRe  = regexp.MustCompile(`(?:^|\s)(?:(?:in|for|during)\s+)?(\d{4})\b`)
	lastNRe     = regexp.MustCompile(`last\s+(\d+)\s+(day|days|week|weeks|month|months)`)
)

var monthNumbers = map[string]time.Month{
	"jan": time.January, "january": time.January,
	"feb": time.February, "february": time.February,
	"mar": time.March, "march": time.March,
	"apr": time.April, "april": time.April,
	"may": time.May,
	"jun": time.June, "june": time.June,
	"jul": time.July, "july": time.July,
	"aug": time.August, "august": time.August,
	"sep": time.September, "september": time.September,
	"oct": time.October, "october": time.October,
	"nov": time.November, "november": time.November,
	"dec": time.December, "december": time.December,
}

// ResolveTimeframe maps a short natural-language time expression to a
// concrete date range relative to now. Rules are tried in a fixed order
// and the first match wins:
//
//  1. all-time markers
//  2. named relative windows ("last month", "this year", ...)
//  3. month name + year ("April 2025")
//  4. bare 4-digit year, optionally preceded by in/for/during
//  5. "last N days/weeks/months"
//
// If no rule matches, both bounds are nil.
func ResolveTimeframe(expr string, now time.Time) Range {
	s := strings.ToLower(expr)
	today := startOfDay(now)

	if strings.Contains(s, "all time") || strings.Contains(s, "all-time") || strings.Contains(s, "lifetime") {
		end := today
		start := epochFloor
		return Range{Start: &start, End: &end}
	}

	if r, ok := resolveNamedWindow(s, today); ok {
		return r
	}

	if m := monthYearRe.FindStringSubmatch(s); m != nil {
		year, _ := strconv.Atoi(m[2])
		month := monthNumbers[m[1]]
		start := time.Date(year, month, 1, 0, 0, 0, 0, now.Location())
		end := start.AddDate(0, 1, 0).AddDate(0, 0, -1)
		return Range{Start: &start, End: &end}
	}

	if m := bareYearRe.FindStringSubmatch(s); m != nil {
		year, _ := strconv.Atoi(m[1])
		start := time.Date(year, time.January, 1, 0, 0, 0, 0, now.Location())
		end := time.Date(year, time.December, 31, 0, 0, 0, 0, now.Location())
		return Range{Start: &start, End: &end}
	}

	if m := lastNRe.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		end := today
		var start time.Time
		switch {
		case strings.HasPrefix(m[2], "day"):
			start = today.AddDate(0, 0, -n)
		case strings.HasPrefix(m[2], "week"):
			start = today.AddDate(0, 0, -7*n)
		default:
			start = monthsBefore(today, n)
		}
		return Range{Start: &start, End: &end}
	}

	return Range{}
}

func resolveNamedWindow(s string, today time.Time) (Range, bool) {
	switch {
	case strings.Contains(s, "last month"):
		firstOfThis := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
		end := firstOfThis.AddDate(0, 0, -1)
		start := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, today.Location())
		return Range{Start: &start, End: &end}, true
	case strings.Contains(s, "last year"):
		start := time.Date(today.Year()-1, time.January, 1, 0, 0, 0, 0, today.Location())
		end := time.Date(today.Year()-1, time.December, 31, 0, 0, 0, 0, today.Location())
		return Range{Start: &start, End: &end}, true
	case strings.Contains(s, "last week"):
		// Weeks run Monday through Sunday.
		start := today.AddDate(0, 0, -(mondayIndex(today) + 7))
		end := start.AddDate(0, 0, 6)
		return Range{Start: &start, End: &end}, true
	case strings.Contains(s, "this month"):
		start := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
		end := today
		return Range{Start: &start, End: &end}, true
	case strings.Contains(s, "this year"):
		start := time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, today.Location())
		end := today
		return Range{Start: &start, End: &end}, true
	case strings.Contains(s, "this week"):
		start := today.AddDate(0, 0, -mondayIndex(today))
		end := today
		return Range{Start: &start, End: &end}, true
	}
	return Range{}, false
}

// monthsBefore returns the date n calendar months before t, clamping the
// day to the length of the target month so the subtraction never spills
// into a neighboring month the way AddDate normalization would.
func monthsBefore(t time.Time, n int) time.Time {
	year, month := t.Year(), int(t.Month())-n
	for month <= 0 {
		month += 12
		year--
	}
	day := t.Day()
	if last := daysInMonth(year, time.Month(month)); day > last {
		day = last
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, t.Location())
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, -1).Day()
}

// mondayIndex returns the weekday index with Monday as 0.
func mondayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ExtractPeriod pulls the time-period phrase out of a full panel query.
// Specific date patterns win over named windows; a query with no time
// wording at all defaults to "all time".
func ExtractPeriod(query string) string {
	s := strings.ToLower(query)

	if strings.Contains(s, "all time") || strings.Contains(s, "all-time") || strings.Contains(s, "lifetime") {
		return "all time"
	}
	if m := monthYearRe.FindString(s); m != "" {
		return m
	}
	if m := bareYearRe.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	if m := lastNRe.FindString(s); m != "" {
		return m
	}
	for _, w := range []string{"last month", "last year", "last week", "this month", "this year", "this week"} {
		if strings.Contains(s, w) {
			return w
		}
	}
	return "all time"
}
