// Studyfeed - Paper and Video Recommendations for Research Projects
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/studyfeed

package recommend

import (
	"strings"
	"time"
	"unicode"
)

// Bucket boundaries. Durations and ages are inclusive upper bounds,
// counts are exclusive.
const (
	durationXS = 3 * 60
	durationS  = 10 * 60
	durationM  = 20 * 60
	durationL  = 45 * 60

	freshOneYearDays   = 365
	freshThreeYearDays = 3 * 365

	engagementLow = 0.01
	engagementMid = 0.04
)

// DurationBucket buckets a length in seconds into one of five bins.
// It returns "" when seconds is nil or negative.
func DurationBucket(seconds *int) string {
	if seconds == nil || *seconds < 0 {
		return ""
	}
	switch s := *seconds; {
	case s <= durationXS:
		return "dur:xs"
	case s <= durationS:
		return "dur:s"
	case s <= durationM:
		return "dur:m"
	case s <= durationL:
		return "dur:l"
	default:
		return "dur:xl"
	}
}

// FreshnessBucket buckets the age of publishedAt relative to now.
// Dates in the future count as age zero.
func FreshnessBucket(publishedAt *time.Time, now time.Time) string {
	if publishedAt == nil || publishedAt.IsZero() {
		return ""
	}
	days := int(now.Sub(*publishedAt).Hours() / 24)
	if days < 0 {
		days = 0
	}
	switch {
	case days <= freshOneYearDays:
		return "fresh:1y"
	case days <= freshThreeYearDays:
		return "fresh:3y"
	default:
		return "fresh:old"
	}
}

// YearBucket buckets a publication year by its distance from now's year.
// Future years count as age zero.
func YearBucket(year *int, now time.Time) string {
	if year == nil || *year <= 0 {
		return ""
	}
	age := now.Year() - *year
	if age < 0 {
		age = 0
	}
	switch {
	case age <= 1:
		return "year:0-1"
	case age <= 3:
		return "year:2-3"
	case age <= 5:
		return "year:4-5"
	case age <= 10:
		return "year:6-10"
	default:
		return "year:old"
	}
}

// PopularityBucket buckets a view count on a log10 scale.
func PopularityBucket(views *int64) string {
	if views == nil || *views < 0 {
		return ""
	}
	switch v := *views; {
	case v < 1_000:
		return "pop:xs"
	case v < 10_000:
		return "pop:s"
	case v < 100_000:
		return "pop:m"
	case v < 1_000_000:
		return "pop:l"
	default:
		return "pop:xl"
	}
}

// EngagementBucket buckets the like-to-view ratio. It returns "" unless
// both counts are known and views is positive.
func EngagementBucket(likes, views *int64) string {
	if likes == nil || views == nil || *views <= 0 || *likes < 0 {
		return ""
	}
	ratio := float64(*likes) / float64(*views)
	switch {
	case ratio < engagementLow:
		return "eng:low"
	case ratio < engagementMid:
		return "eng:mid"
	default:
		return "eng:high"
	}
}

// NormalizeAuthor lower-cases name, strips everything except letters,
// digits and whitespace, and joins the remaining words with underscores.
// It returns "" for names with no usable characters.
func NormalizeAuthor(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range strings.ToLower(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), "_")
}

// ExtractFeatures returns the categorical tags of item. The emb category is
// not computed here; see EmbeddingCache. Missing optional attributes omit
// their category instead of failing.
func ExtractFeatures(item *Item, now time.Time) FeatureSet {
	fs := NewFeatureSet()
	fs.Add(CategoryType, string(item.Kind))

	switch item.Kind {
	case KindVideo:
		fs.Add(CategoryDuration, DurationBucket(item.DurationSeconds))
		fs.Add(CategoryFreshness, FreshnessBucket(item.PublishedAt, now))
		fs.Add(CategoryPopularity, PopularityBucket(item.ViewCount))
		fs.Add(CategoryEngagement, EngagementBucket(item.LikeCount, item.ViewCount))
	case KindPaper:
		fs.Add(CategoryYear, YearBucket(item.PublishedYear, now))
		for _, a := range item.Authors {
			fs.Add(CategoryAuthor, NormalizeAuthor(a))
		}
	}

	return fs
}
