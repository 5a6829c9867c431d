// Studyfeed - Paper and Video Recommendations for Research Projects
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/studyfeed

/*
Package models defines the HTTP API envelope and status structures.

Engine types (items, rankings, preferences) live in internal/recommend and
are embedded as APIResponse.Data unchanged.

Key Components:

  - APIResponse: Standardized response wrapper with status, data and metadata
  - APIError: Machine-readable code, human-readable message, optional details
  - Metadata: Response timestamp and processing time
  - HealthStatus, ReadinessStatus: health endpoint payloads

Thread Safety:

All types are plain values; instances are not shared between requests.
*/
package models
