// Studyfeed - Paper and Video Recommendations for Research Projects
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/studyfeed

package recommend

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// ItemKind identifies the kind of recommendable item.
type ItemKind string

const (
	// KindPaper is a research paper.
	KindPaper ItemKind = "paper"

	// KindVideo is a video.
	KindVideo ItemKind = "video"
)

// Valid reports whether k is a known item kind.
func (k ItemKind) Valid() bool {
	return k == KindPaper || k == KindVideo
}

// ParseItemKind converts a string to an ItemKind.
func ParseItemKind(s string) (ItemKind, bool) {
	k := ItemKind(strings.ToLower(strings.TrimSpace(s)))
	return k, k.Valid()
}

// Category is a feature dimension along which items are tagged.
type Category string

// Feature categories. The set available to an item depends on its kind.
const (
	CategoryEmbedding  Category = "emb"
	CategoryDuration   Category = "duration"
	CategoryFreshness  Category = "freshness"
	CategoryPopularity Category = "popularity"
	CategoryEngagement Category = "engagement"
	CategoryYear       Category = "year"
	CategoryAuthor     Category = "author"
	CategoryType       Category = "type"
)

var kindCategories = map[ItemKind][]Category{
	KindVideo: {
		CategoryDuration,
		CategoryEmbedding,
		CategoryEngagement,
		CategoryFreshness,
		CategoryPopularity,
		CategoryType,
	},
	KindPaper: {
		CategoryAuthor,
		CategoryEmbedding,
		CategoryType,
		CategoryYear,
	},
}

// Categories returns the closed, sorted category set of the kind.
func (k ItemKind) Categories() []Category {
	cats := kindCategories[k]
	out := make([]Category, len(cats))
	copy(out, cats)
	return out
}

// HasCategory reports whether c belongs to the kind's category set.
func (k ItemKind) HasCategory(c Category) bool {
	for _, cat := range kindCategories[k] {
		if cat == c {
			return true
		}
	}
	return false
}

// Feature is a single (category, value) tag attached to an item.
type Feature struct {
	Category Category `json:"category"`
	Value    string   `json:"value"`
}

// FeatureSet maps each category to the set of tag values present for it.
// A missing category and an empty set are equivalent.
type FeatureSet map[Category]map[string]struct{}

// NewFeatureSet returns an empty feature set.
func NewFeatureSet() FeatureSet {
	return make(FeatureSet)
}

// FeatureSetFrom builds a feature set from feature rows.
func FeatureSetFrom(features []Feature) FeatureSet {
	fs := NewFeatureSet()
	for _, f := range features {
		fs.Add(f.Category, f.Value)
	}
	return fs
}

// Add inserts value into category. Empty values are ignored.
func (fs FeatureSet) Add(category Category, value string) {
	if value == "" {
		return
	}
	set, ok := fs[category]
	if !ok {
		set = make(map[string]struct{})
		fs[category] = set
	}
	set[value] = struct{}{}
}

// Values returns the value set of category. The result must not be modified.
func (fs FeatureSet) Values(category Category) map[string]struct{} {
	return fs[category]
}

// Has reports whether category contains value.
func (fs FeatureSet) Has(category Category, value string) bool {
	_, ok := fs[category][value]
	return ok
}

// Merge adds every tag of other into fs.
func (fs FeatureSet) Merge(other FeatureSet) {
	for cat, values := range other {
		for v := range values {
			fs.Add(cat, v)
		}
	}
}

// Clone returns a deep copy of fs.
func (fs FeatureSet) Clone() FeatureSet {
	out := make(FeatureSet, len(fs))
	out.Merge(fs)
	return out
}

// Len returns the total number of tags across all categories.
func (fs FeatureSet) Len() int {
	n := 0
	for _, values := range fs {
		n += len(values)
	}
	return n
}

// Features returns the tags as rows sorted by category, then value.
func (fs FeatureSet) Features() []Feature {
	out := make([]Feature, 0, fs.Len())
	for cat, values := range fs {
		for v := range values {
			out = append(out, Feature{Category: cat, Value: v})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Value < out[j].Value
	})
	return out
}

// Attributes holds the optional numeric, temporal and authorship attributes
// of an item. Nil pointers mean the attribute is unknown.
type Attributes struct {
	DurationSeconds *int       `json:"duration_seconds,omitempty"`
	ViewCount       *int64     `json:"view_count,omitempty"`
	LikeCount       *int64     `json:"like_count,omitempty"`
	PublishedAt     *time.Time `json:"published_at,omitempty"`
	PublishedYear   *int       `json:"published_year,omitempty"`
	Authors         []string   `json:"authors,omitempty"`
}

// Item is a paper or video accepted into a project's item set.
type Item struct {
	ID          int64    `json:"id"`
	ProjectID   int64    `json:"project_id"`
	Kind        ItemKind `json:"kind"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	URL         string   `json:"url,omitempty"`
	Attributes

	// Served marks an item already surfaced by a ranking pass.
	Served bool `json:"served"`

	// LastScore and RankPosition record the most recent ranking pass.
	LastScore    *float64 `json:"last_score,omitempty"`
	RankPosition *int     `json:"rank_position,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// Key returns the embedding cache key of the item.
func (i *Item) Key() EntityKey {
	return ItemKey(i.Kind, i.ID)
}

// Text returns the text used to embed the item.
func (i *Item) Text() string {
	if i.Description == "" {
		return i.Title
	}
	return i.Title + "\n\n" + i.Description
}

// EntityKey identifies an entity that owns an embedding record.
type EntityKey struct {
	Kind string `json:"kind"`
	ID   int64  `json:"id"`
}

// EntityProject is the entity kind of project embeddings.
const EntityProject = "project"

// ProjectKey returns the embedding key of a project.
func ProjectKey(projectID int64) EntityKey {
	return EntityKey{Kind: EntityProject, ID: projectID}
}

// ItemKey returns the embedding key of an item.
func ItemKey(kind ItemKind, id int64) EntityKey {
	return EntityKey{Kind: string(kind), ID: id}
}

// String formats the key as "kind:id".
func (k EntityKey) String() string {
	return k.Kind + ":" + strconv.FormatInt(k.ID, 10)
}

// Preference is a like or dislike recorded by a project for one item.
type Preference struct {
	ID        int64     `json:"id"`
	ProjectID int64     `json:"project_id"`
	Kind      ItemKind  `json:"kind"`
	ItemID    int64     `json:"item_id"`
	Liked     bool      `json:"liked"`
	CreatedAt time.Time `json:"created_at"`
}
