// Studyfeed - Paper and Video Recommendations for Research Projects
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/studyfeed

// Package services provides suture service wrappers for Studyfeed's
// long-running components: the HTTP server and the periodic feature
// refresh.
package services
