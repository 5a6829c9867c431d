// Studyfeed - Paper and Video Recommendations for Research Projects
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/studyfeed

package recommend

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"
)

var (
	// celEnv is shared by all filters; cel.Env is safe for concurrent use.
	celEnv     *cel.Env
	celEnvErr  error
	celEnvOnce sync.Once
)

func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = cel.NewEnv(
			cel.Variable("item", cel.DynType),
		)
	})
	return celEnv, celEnvErr
}

// EligibilityFilter is a compiled CEL predicate over a candidate item.
//
// The expression sees one variable, item, a map holding id, title,
// description, url, kind and served, plus duration_seconds, view_count,
// like_count, year, published_at and authors when known. Optional keys are
// absent rather than null, so expressions test them with has():
//
//	!has(item.year) || item.year >= 2015
type EligibilityFilter struct {
	expr string
	prg  cel.Program
}

// NewEligibilityFilter compiles expr. An empty expression yields a nil
// filter, which accepts every item.
func NewEligibilityFilter(expr string) (*EligibilityFilter, error) {
	if expr == "" {
		return nil, nil
	}

	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel environment: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile eligibility %q: %w", expr, issues.Err())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program eligibility %q: %w", expr, err)
	}

	return &EligibilityFilter{expr: expr, prg: prg}, nil
}

// String returns the source expression.
func (f *EligibilityFilter) String() string {
	if f == nil {
		return ""
	}
	return f.expr
}

// Eligible evaluates the filter against item.
func (f *EligibilityFilter) Eligible(item *Item) (bool, error) {
	if f == nil {
		return true, nil
	}

	out, _, err := f.prg.Eval(map[string]interface{}{"item": itemActivation(item)})
	if err != nil {
		return false, fmt.Errorf("eval eligibility: %w", err)
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("eligibility expression must return bool, got %T", out.Value())
	}
	return result, nil
}

func itemActivation(item *Item) map[string]interface{} {
	m := map[string]interface{}{
		"id":          item.ID,
		"title":       item.Title,
		"description": item.Description,
		"url":         item.URL,
		"kind":        string(item.Kind),
		"served":      item.Served,
	}
	if item.DurationSeconds != nil {
		m["duration_seconds"] = int64(*item.DurationSeconds)
	}
	if item.ViewCount != nil {
		m["view_count"] = *item.ViewCount
	}
	if item.LikeCount != nil {
		m["like_count"] = *item.LikeCount
	}
	if item.PublishedYear != nil {
		m["year"] = int64(*item.PublishedYear)
	}
	if item.PublishedAt != nil {
		m["published_at"] = *item.PublishedAt
	}
	if len(item.Authors) > 0 {
		m["authors"] = item.Authors
	}
	return m
}
