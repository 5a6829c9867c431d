// Studyfeed - Paper and Video Recommendations for Research Projects
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/studyfeed

package query

import (
	"reflect"
	"testing"
)

func TestWhereBuilder_Empty(t *testing.T) {
	wb := NewWhereBuilder()

	if !wb.IsEmpty() {
		t.Error("Expected new builder to be empty")
	}
	if wb.Count() != 0 {
		t.Errorf("Expected count 0, got %d", wb.Count())
	}

	whereClause, args := wb.Build()
	if whereClause != "1=1" {
		t.Errorf("Expected '1=1' for empty builder, got %q", whereClause)
	}
	if len(args) != 0 {
		t.Errorf("Expected 0 args, got %d", len(args))
	}
}

func TestWhereBuilder_AddEqual(t *testing.T) {
	wb := NewWhereBuilder().AddEqual("project_id", int64(4)).AddEqual("kind", "paper")

	whereClause, args := wb.Build()
	if whereClause != "project_id = ? AND kind = ?" {
		t.Errorf("unexpected clause %q", whereClause)
	}
	if !reflect.DeepEqual(args, []interface{}{int64(4), "paper"}) {
		t.Errorf("unexpected args %v", args)
	}
}

func TestWhereBuilder_AddInt64s(t *testing.T) {
	wb := NewWhereBuilder().AddInt64s("item_id", []int64{3, 1, 2})

	whereClause, args := wb.Build()
	if whereClause != "item_id IN (?, ?, ?)" {
		t.Errorf("unexpected clause %q", whereClause)
	}
	if !reflect.DeepEqual(args, []interface{}{int64(3), int64(1), int64(2)}) {
		t.Errorf("unexpected args %v", args)
	}
}

func TestWhereBuilder_AddInt64sEmptyMatchesNothing(t *testing.T) {
	wb := NewWhereBuilder().AddEqual("kind", "video").AddInt64s("item_id", nil)

	whereClause, args := wb.Build()
	if whereClause != "kind = ? AND 1=0" {
		t.Errorf("unexpected clause %q", whereClause)
	}
	if len(args) != 1 {
		t.Errorf("Expected 1 arg, got %d", len(args))
	}
}

func TestWhereBuilder_AddStrings(t *testing.T) {
	wb := NewWhereBuilder().AddStrings("category", []string{"emb", "type"}).AddStrings("value", nil)

	whereClause, args := wb.Build()
	if whereClause != "category IN (?, ?)" {
		t.Errorf("unexpected clause %q", whereClause)
	}
	if len(args) != 2 || wb.Count() != 1 {
		t.Errorf("args = %v, count = %d", args, wb.Count())
	}
}

func TestWhereBuilder_BuildWithPrefix(t *testing.T) {
	wb := NewWhereBuilder().AddClause("served = FALSE")

	whereClause, args := wb.BuildWithPrefix()
	if whereClause != "WHERE served = FALSE" {
		t.Errorf("unexpected clause %q", whereClause)
	}
	if len(args) != 0 {
		t.Errorf("Expected 0 args, got %d", len(args))
	}
}

func TestPlaceholders(t *testing.T) {
	tests := map[int]string{0: "", 1: "?", 3: "?, ?, ?"}
	for n, want := range tests {
		if got := Placeholders(n); got != want {
			t.Errorf("Placeholders(%d) = %q, want %q", n, got, want)
		}
	}
}
