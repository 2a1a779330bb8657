package collection

import (
	"strings"
	"time"
)

// Bucket is a date window relative to today.
type Bucket string

// Buckets.
const (
	BucketAll      Bucket = "all"
	BucketToday    Bucket = "today"
	BucketUpcoming Bucket = "upcoming"
	BucketPast     Bucket = "past"
)

// StatusAll matches every status.
const StatusAll = "all"

// Criteria selects items from a list. Zero fields match everything.
type Criteria struct {
	Search string `schema:"q"`
	Status string `schema:"status"`
	Bucket Bucket `schema:"when"`
}

// ParseBucket maps a query value onto a Bucket; unknown values mean all.
func ParseBucket(s string) Bucket {
	switch b := Bucket(strings.ToLower(s)); b {
	case BucketToday, BucketUpcoming, BucketPast:
		return b
	}
	return BucketAll
}

// Filter returns the items matching c.
// POST: result preserves the relative order of items
// INVARIANT: items is not modified
func Filter[T any, P Ptr[T]](items []T, c Criteria, rules Rules[T], now time.Time) []T {
	needle := strings.ToLower(strings.TrimSpace(c.Search))
	today := dayOf(now)
	out := make([]T, 0, len(items))
	for _, it := range items {
		if c.Status != "" && c.Status != StatusAll && P(&it).GetStatus() != c.Status {
			continue
		}
		if needle != "" && !matches(rules.SearchFields(it), needle) {
			continue
		}
		if !inBucket(it, c.Bucket, rules.Date, today) {
			continue
		}
		out = append(out, it)
	}
	return out
}

func matches(fields []string, needle string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

// inBucket reports whether item falls in b. Kinds without a date ignore buckets;
// dated kinds exclude undated items from every bucket except all.
func inBucket[T any](item T, b Bucket, date func(T) (time.Time, bool), today time.Time) bool {
	if b == "" || b == BucketAll || date == nil {
		return true
	}
	d, ok := date(item)
	if !ok {
		return false
	}
	d = dayOf(d)
	switch b {
	case BucketToday:
		return d.Equal(today)
	case BucketUpcoming:
		return d.After(today)
	case BucketPast:
		return d.Before(today)
	}
	return true
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// parseDay parses a YYYY-MM-DD field; empty or malformed values are undated.
func parseDay(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", s)
	return t, err == nil
}
