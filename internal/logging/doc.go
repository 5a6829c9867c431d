// Studyfeed - Paper and Video Recommendations for Research Projects
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/studyfeed

/*
Package logging provides the zerolog setup shared by every Studyfeed component.

# Overview

The package provides:
  - A global zerolog logger with JSON output for production and console
    output for development
  - Component loggers passed by value to engines and services
  - Context-aware logging that carries request_id and project_id
  - An slog adapter for libraries that only accept *slog.Logger

# Quick Start

Call Init once from main with the LOG_LEVEL, LOG_FORMAT and LOG_CALLER
settings. Before that, a JSON logger at info level writes to stderr.

	logging.Init(logging.Config{Level: "debug", Format: "console", Timestamp: true})
	logging.Info().Str("addr", addr).Msg("HTTP server listening")

# Configuration

Environment Variables:

	LOG_LEVEL   - Minimum log level: trace, debug, info, warn, error (default: info)
	LOG_FORMAT  - Output format: json, console (default: json)
	LOG_CALLER  - Include caller file:line: true, false (default: false)

# Component Loggers

Components take a zerolog.Logger by value, usually built with Component:

	rec, err := recommend.NewVideoRecommender(store, cache, cfg, logging.Component("recommend"))

# Context-Aware Logging

Request-scoped logging goes through Ctx, which adds request_id and
project_id when the HTTP layer stored them in the context:

	ctx = logging.ContextWithProjectID(ctx, projectID)
	logging.Ctx(ctx).Warn().Err(err).Msg("Embedding provider unavailable")

# slog Adapter

SlogHandler adapts zerolog to log/slog. The supervisor tree uses it for
suture's event hook:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(logging.Logger()), supervisor.DefaultTreeConfig())

# Structured Logging

Always finish an event with Msg or Send; an unfinished event is dropped:

	logging.Info().Int("inserted", n).Msg("candidates added")  // Correct
	logging.Info().Int("inserted", n)                         // WRONG - nothing is written

Prefer fields to formatted messages so entries stay searchable.

# Output Formats

JSON Format (Production):

	{"level":"info","time":"2026-03-01T10:30:00Z","message":"Server starting","port":8460}

Console Format (Development):

	10:30:00 INF Server starting port=8460

# Thread Safety

All exported functions are safe for concurrent use. The global logger is
guarded by a sync.RWMutex.

# Testing

NewTestLogger captures output in a buffer; engines in tests usually take
zerolog.Nop() instead:

	var buf bytes.Buffer
	logger := logging.NewTestLogger(&buf)
*/
package logging
