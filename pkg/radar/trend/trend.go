// Package trend buckets topic activity by calendar period and derives growth.
package trend

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/cognicore/radar/pkg/radar/internalerr"
)

// Granularity is the calendar period used for bucketing.
type Granularity string

const (
	Day   Granularity = "day"
	Week  Granularity = "week"
	Month Granularity = "month"
)

// ParseGranularity accepts day, week or month (case-insensitive).
func ParseGranularity(s string) (Granularity, error) {
	switch g := Granularity(strings.ToLower(strings.TrimSpace(s))); g {
	case Day, Week, Month:
		return g, nil
	}
	return "", fmt.Errorf("%w: unknown trend granularity %q", internalerr.ErrInvalidConfig, s)
}

// Key returns the period key of t in UTC: "2006-01-02" for days,
// ISO "2006-W01" for weeks and "2006-01" for months. Keys of one
// granularity sort lexically in time order.
func (g Granularity) Key(t time.Time) string {
	t = t.UTC()
	switch g {
	case Day:
		return t.Format("2006-01-02")
	case Week:
		year, week := t.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week)
	default:
		return t.Format("2006-01")
	}
}

// Point is the number of mentions in one period.
type Point struct {
	Period   string `json:"period"`
	Mentions int    `json:"mentions"`
}

// Aggregate counts timestamps per period and returns the points in ascending
// period order. Only periods with activity appear. The result is never nil.
func Aggregate(timestamps []time.Time, g Granularity) []Point {
	counts := make(map[string]int)
	for _, ts := range timestamps {
		counts[g.Key(ts)]++
	}

	points := make([]Point, 0, len(counts))
	for period, n := range counts {
		points = append(points, Point{Period: period, Mentions: n})
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Period < points[j].Period
	})
	return points
}

// Growth returns the percentage change from the first to the last point.
// It is 0 with fewer than two points or when the first count is 0.
func Growth(points []Point) float64 {
	if len(points) < 2 {
		return 0
	}
	first, last := points[0].Mentions, points[len(points)-1].Mentions
	if first <= 0 {
		return 0
	}
	return float64(last-first) / float64(first) * 100
}

// Total sums the mentions of all points.
func Total(points []Point) int {
	total := 0
	for _, p := range points {
		total += p.Mentions
	}
	return total
}
