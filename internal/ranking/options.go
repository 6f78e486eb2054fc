// Package ranking orders YouTube search candidates by a weighted score of
// their like/view ratio and their publish time.
package ranking

import "youbuddy/internal/config"

// Options holds the immutable tunables of a ranking run.
type Options struct {
	RatioWeight    float64
	RecencyWeight  float64
	RecencyScale   float64 // divides the Unix timestamp
	LikesOnlyRatio float64 // ratio used when likes exist but views are unknown or zero
	PoolSize       int     // candidates requested from search, at most 50
	BatchLimit     int     // ids per details call, at most 50
}

// DefaultOptions returns the stock weights and limits.
func DefaultOptions() Options {
	return Options{
		RatioWeight:    0.6,
		RecencyWeight:  0.4,
		RecencyScale:   1e10,
		LikesOnlyRatio: 0.01,
		PoolSize:       50,
		BatchLimit:     50,
	}
}

// OptionsFromConfig maps the ranking section of the config file.
func OptionsFromConfig(c config.RankingConfig) Options {
	return Options{
		RatioWeight:    c.RatioWeight,
		RecencyWeight:  c.RecencyWeight,
		RecencyScale:   c.RecencyScale,
		LikesOnlyRatio: c.LikesOnlyRatio,
		PoolSize:       c.PoolSize,
		BatchLimit:     c.BatchLimit,
	}
}
