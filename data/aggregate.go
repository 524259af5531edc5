package data

import (
	"sort"
	"strings"
	"time"
)

const (
	DefaultDays = 5

	windowStartHour = 11
	windowEndHour   = 14
	noonMinutes     = 12 * 60
)

// Selection decides which sample of a day represents it.
type Selection int

const (
	// SelectWindow takes the first sample whose local hour is in [11,14].
	// Days without such a sample are skipped.
	SelectWindow Selection = iota
	// SelectNearestNoon takes the sample closest to 12:00 local time.
	SelectNearestNoon
)

func ParseSelection(s string) Selection {
	if strings.EqualFold(s, "nearest") {
		return SelectNearestNoon
	}
	return SelectWindow
}

func (s Selection) String() string {
	if s == SelectNearestNoon {
		return "nearest"
	}
	return "window"
}

type dayBucket struct {
	date     time.Time
	low      float64
	high     float64
	pick     int
	distance int
}

// DailyAggregate reduces series to at most days entries, one per local
// calendar date in loc, in chronological order. Samples without a timestamp
// cannot be dated and are ignored.
func DailyAggregate(series ForecastSeries, loc *time.Location, days int, sel Selection) []DailyForecastEntry {
	if days <= 0 || len(series) == 0 {
		return nil
	}
	if loc == nil {
		loc = time.UTC
	}

	buckets := make(map[string]*dayBucket)
	for i, sample := range series {
		if sample.Timestamp.IsZero() {
			continue
		}
		local := sample.Timestamp.In(loc)
		key := local.Format(time.DateOnly)
		b, ok := buckets[key]
		if !ok {
			b = &dayBucket{
				date: time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc),
				low:  sample.Temperature,
				high: sample.Temperature,
				pick: -1,
			}
			buckets[key] = b
		}
		b.low = min(b.low, sample.Temperature)
		b.high = max(b.high, sample.Temperature)

		switch sel {
		case SelectNearestNoon:
			distance := local.Hour()*60 + local.Minute() - noonMinutes
			if distance < 0 {
				distance = -distance
			}
			if b.pick < 0 || distance < b.distance {
				b.pick, b.distance = i, distance
			}
		default:
			if b.pick < 0 && local.Hour() >= windowStartHour && local.Hour() <= windowEndHour {
				b.pick = i
			}
		}
	}

	ordered := make([]*dayBucket, 0, len(buckets))
	for _, b := range buckets {
		ordered = append(ordered, b)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].date.Before(ordered[j].date)
	})

	entries := make([]DailyForecastEntry, 0, days)
	for _, b := range ordered {
		if b.pick < 0 {
			continue
		}
		entries = append(entries, DailyForecastEntry{
			Date:   b.date,
			Sample: series[b.pick],
			Min:    b.low,
			Max:    b.high,
		})
		if len(entries) == days {
			break
		}
	}
	return entries
}
