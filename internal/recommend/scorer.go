// Studyfeed - Paper and Video Recommendations for Research Projects
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/studyfeed

package recommend

// Jaccard returns |a ∩ b| / |a ∪ b|, or 0 when both sets are empty.
func Jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}

	intersection := 0
	for v := range small {
		if _, ok := large[v]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}

// WeightedJaccard returns the weighted sum of per-category Jaccard
// similarities between profile and item over the categories of w.
func WeightedJaccard(profile, item FeatureSet, w Weights) float64 {
	var total float64
	for _, cat := range w.sortedCategories() {
		total += w[cat] * Jaccard(profile[cat], item[cat])
	}
	return total
}

// Contributions returns the weighted Jaccard term of every category with a
// non-zero contribution.
func Contributions(profile, item FeatureSet, w Weights) map[Category]float64 {
	out := make(map[Category]float64)
	for _, cat := range w.sortedCategories() {
		if v := w[cat] * Jaccard(profile[cat], item[cat]); v > 0 {
			out[cat] = v
		}
	}
	return out
}

// Score combines positive and negative similarity into
// max(0, Jpos - lambda*Jneg). A nil negative profile skips the negative term.
func Score(positive, negative, item FeatureSet, w Weights, lambda float64) float64 {
	s := WeightedJaccard(positive, item, w)
	if negative != nil {
		s -= lambda * WeightedJaccard(negative, item, w)
	}
	if s < 0 {
		return 0
	}
	return s
}
