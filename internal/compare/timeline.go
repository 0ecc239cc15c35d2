// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package compare

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pdiddy/case-analyzer/pkg/types"
)

const isoDate = "2006-01-02"

// Moroccan month names.
var months = [...]string{
	"يناير", "فبراير", "مارس", "أبريل", "ماي", "يونيو",
	"يوليوز", "غشت", "شتنبر", "أكتوبر", "نونبر", "دجنبر",
}

// TimelineItem is a timeline event ready for display.
type TimelineItem struct {
	types.TimelineEvent

	// When is the parsed date; zero when the date did not parse.
	When time.Time

	// Label is the display date, or the raw string when it did not parse.
	Label string
}

// SortTimeline returns the events in chronological order. The sort is stable;
// events whose date does not parse keep their relative order after all dated
// ones. The input slice is not modified.
func SortTimeline(events []types.TimelineEvent) []TimelineItem {
	items := make([]TimelineItem, len(events))
	for i, ev := range events {
		items[i] = TimelineItem{TimelineEvent: ev, Label: ev.Date}
		if t, err := parseDate(ev.Date); err == nil {
			items[i].When = t
			items[i].Label = FormatDate(t)
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].When, items[j].When
		switch {
		case a.IsZero():
			return false
		case b.IsZero():
			return true
		default:
			return a.Before(b)
		}
	})
	return items
}

// FormatDate renders t in the long Moroccan Arabic form, e.g. "12 مارس 2025".
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%d %s %d", t.Day(), months[t.Month()-1], t.Year())
}

// parseDate accepts an ISO date, optionally followed by a time part.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if len(s) > len(isoDate) {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t, nil
		}
		s = s[:len(isoDate)]
	}
	return time.Parse(isoDate, s)
}
