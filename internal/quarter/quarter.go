package quarter

import (
	"cmp"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Quarter is a calendar quarter of a year.
type Quarter struct {
	Year int
	Q    int // 1..4
}

var labelPattern = regexp.MustCompile(`(?i)\bQ([1-4])\s+(\d{4})\b`)

// FromDate returns the quarter containing t. The day of month is irrelevant.
func FromDate(t time.Time) Quarter {
	return Quarter{Year: t.Year(), Q: (int(t.Month())-1)/3 + 1}
}

// Format returns a quarter label like "Q3 2025".
func Format(year, q int) string {
	return fmt.Sprintf("Q%d %04d", q, year)
}

// String returns the quarter label, e.g. "Q3 2025".
func (q Quarter) String() string {
	return Format(q.Year, q.Q)
}

// Parse parses a label that is exactly "Q<1-4> <YYYY>".
func Parse(label string) (Quarter, error) {
	s := strings.TrimSpace(label)
	m := labelPattern.FindStringSubmatchIndex(s)
	if m == nil || m[0] != 0 || m[1] != len(s) {
		return Quarter{}, fmt.Errorf("invalid quarter label %q", label)
	}
	return fromMatch(s, m)
}

// Find returns the first "Q<1-4> <YYYY>" occurrence embedded in free text.
func Find(text string) (Quarter, bool) {
	m := labelPattern.FindStringSubmatchIndex(text)
	if m == nil {
		return Quarter{}, false
	}
	q, err := fromMatch(text, m)
	if err != nil {
		return Quarter{}, false
	}
	return q, true
}

func fromMatch(s string, m []int) (Quarter, error) {
	q, err := strconv.Atoi(s[m[2]:m[3]])
	if err != nil {
		return Quarter{}, fmt.Errorf("invalid quarter in %q: %w", s, err)
	}
	year, err := strconv.Atoi(s[m[4]:m[5]])
	if err != nil {
		return Quarter{}, fmt.Errorf("invalid year in %q: %w", s, err)
	}
	return Quarter{Year: year, Q: q}, nil
}

// End returns the last calendar day of the quarter at midnight UTC.
func (q Quarter) End() time.Time {
	// Day 0 of the month after the quarter's last month.
	return time.Date(q.Year, time.Month(q.Q*3+1), 0, 0, 0, 0, 0, time.UTC)
}

// Compare orders quarters chronologically.
func (q Quarter) Compare(other Quarter) int {
	if c := cmp.Compare(q.Year, other.Year); c != 0 {
		return c
	}
	return cmp.Compare(q.Q, other.Q)
}

// Before reports whether q is earlier than other.
func (q Quarter) Before(other Quarter) bool {
	return q.Compare(other) < 0
}
