// Studyfeed - Paper and Video Recommendations for Research Projects
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/studyfeed

package recommend

import "sort"

// Profile is what a project likes and dislikes, as per-category unions of
// item feature sets. Negative is nil when the project disliked nothing.
type Profile struct {
	Positive FeatureSet
	Negative FeatureSet
}

// Empty reports whether the positive profile has no tags (cold start).
func (p *Profile) Empty() bool {
	return p.Positive.Len() == 0
}

// BuildProfile returns the per-category union of the feature sets of
// itemIDs. Items without features contribute nothing.
func BuildProfile(itemIDs []int64, features map[int64]FeatureSet) FeatureSet {
	profile := NewFeatureSet()
	for _, id := range itemIDs {
		profile.Merge(features[id])
	}
	return profile
}

// SplitPreferences reduces preference records to the latest one per item
// and returns the liked and disliked item IDs in ascending order.
func SplitPreferences(prefs []Preference) (liked, disliked []int64) {
	ordered := make([]Preference, len(prefs))
	copy(ordered, prefs)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].CreatedAt.Equal(ordered[j].CreatedAt) {
			return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
		}
		return ordered[i].ID < ordered[j].ID
	})

	latest := make(map[int64]bool, len(ordered))
	for _, p := range ordered {
		latest[p.ItemID] = p.Liked
	}

	for id, isLiked := range latest {
		if isLiked {
			liked = append(liked, id)
		} else {
			disliked = append(disliked, id)
		}
	}
	sort.Slice(liked, func(i, j int) bool { return liked[i] < liked[j] })
	sort.Slice(disliked, func(i, j int) bool { return disliked[i] < disliked[j] })
	return liked, disliked
}

// NewProfile builds both sides of a profile from preference records and
// the persisted feature sets of the referenced items. With includeLikes
// false the positive side is empty.
func NewProfile(prefs []Preference, features map[int64]FeatureSet, includeLikes bool) *Profile {
	liked, disliked := SplitPreferences(prefs)

	p := &Profile{Positive: NewFeatureSet()}
	if includeLikes {
		p.Positive = BuildProfile(liked, features)
	}
	if len(disliked) > 0 {
		p.Negative = BuildProfile(disliked, features)
	}
	return p
}
