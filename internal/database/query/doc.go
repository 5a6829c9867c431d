// Studyfeed - Paper and Video Recommendations for Research Projects
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/studyfeed

// Package query builds parameterized SQL WHERE clauses for the database
// package. Column names passed to the builder are trusted identifiers;
// values are always bound as arguments.
//
//	wb := query.NewWhereBuilder().
//	    AddEqual("project_id", filter.ProjectID).
//	    AddEqual("kind", string(filter.Kind))
//	if filter.UnservedOnly {
//	    wb.AddClause("served = FALSE")
//	}
//	where, args := wb.BuildWithPrefix()
//	rows, err := tx.QueryContext(ctx, "SELECT id FROM items "+where+" ORDER BY id", args...)
package query
