package visualize

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var amountPattern = regexp.MustCompile(`(\d+)(?:-(\d+))?`)

// NormalizeWeeks converts a free-form duration such as "2-3 weeks",
// "1 month" or "10 days" to weeks. Anything it cannot read counts as one
// week.
func NormalizeWeeks(s string) float64 {
	s = strings.ToLower(s)

	var unit float64
	switch {
	case strings.Contains(s, "week"):
		unit = 1
	case strings.Contains(s, "month"):
		unit = 4
	case strings.Contains(s, "day"):
		unit = 1.0 / 7
	default:
		return 1
	}

	m := amountPattern.FindStringSubmatch(s)
	if m == nil {
		return 1
	}
	lo, err := strconv.Atoi(m[1])
	if err != nil {
		return 1
	}
	amount := float64(lo)
	if m[2] != "" {
		hi, err := strconv.Atoi(m[2])
		if err != nil {
			return 1
		}
		amount = float64(lo+hi) / 2
	}

	weeks := amount * unit
	if weeks == 0 {
		return 1
	}
	return weeks
}

// TimelineItem is one estimate placed on the cumulative timeline.
type TimelineItem struct {
	Scope string  `json:"scope"`
	Raw   string  `json:"raw"`
	Weeks float64 `json:"weeks"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Timeline lays estimates end to end in document order.
type Timeline struct {
	Items       []TimelineItem `json:"items"`
	TotalWeeks  float64        `json:"totalWeeks"`
	MonthLabels []string       `json:"monthLabels"`
}

// BuildTimeline accumulates the estimates into a timeline.
func BuildTimeline(estimates []TimeEstimate) Timeline {
	tl := Timeline{Items: make([]TimelineItem, 0, len(estimates))}

	var cum float64
	for _, e := range estimates {
		w := NormalizeWeeks(e.Time)
		tl.Items = append(tl.Items, TimelineItem{
			Scope: e.Scope,
			Raw:   e.Time,
			Weeks: w,
			Start: cum,
			End:   cum + w,
		})
		cum += w
	}
	tl.TotalWeeks = cum

	months := int(math.Ceil(cum/4)) + 1
	tl.MonthLabels = make([]string, months)
	for i := range months {
		tl.MonthLabels[i] = fmt.Sprintf("Month %d", i+1)
	}
	return tl
}
