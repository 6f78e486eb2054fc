package ranking

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Recency is the outcome of turning a publish timestamp into the recency
// component. Degraded results carry Value 0 and the parse failure in Reason.
type Recency struct {
	Value    float64
	Degraded bool
	Reason   string
}

var publishedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999", // no offset, read as UTC
	"2006-01-02",
}

// ParsePublished parses an ISO-8601 publish timestamp. A trailing "Z" and
// numeric offsets are accepted; values without an offset are taken as UTC.
func ParsePublished(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	var firstErr error
	for _, layout := range publishedLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.UTC(), nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

// RecencyOf scales the publish time into the same magnitude as the ratio.
func (o Options) RecencyOf(publishedAt string) Recency {
	t, err := ParsePublished(publishedAt)
	if err != nil {
		return Recency{Degraded: true, Reason: fmt.Sprintf("could not parse date %q: %v", publishedAt, err)}
	}
	if o.RecencyScale <= 0 {
		return Recency{Degraded: true, Reason: "non-positive recency scale"}
	}
	secs := float64(t.Unix()) + float64(t.Nanosecond())/float64(time.Second)
	return Recency{Value: finite(secs / o.RecencyScale)}
}

// Ratio is the like/view fraction with the likes-only fallback.
func (o Options) Ratio(views, likes *int64) float64 {
	switch {
	case views != nil && likes != nil && *views > 0:
		return finite(float64(*likes) / float64(*views))
	case likes != nil && *likes > 0 && (views == nil || *views == 0):
		return o.LikesOnlyRatio
	default:
		return 0
	}
}

// Score combines the ratio and recency components. It never returns NaN or
// an infinity; the Recency result tells the caller whether the date degraded.
func (o Options) Score(views, likes *int64, publishedAt string) (float64, Recency) {
	rec := o.RecencyOf(publishedAt)
	s := o.RatioWeight*o.Ratio(views, likes) + o.RecencyWeight*rec.Value
	return finite(s), rec
}

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
