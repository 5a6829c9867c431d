// Studyfeed - Paper and Video Recommendations for Research Projects
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/studyfeed

/*
Package supervisor provides process supervision for Studyfeed using suture v4.

# Overview

Long-running services are organized into two layers:

	RootSupervisor ("studyfeed")
	├── EngineSupervisor ("engine-layer")
	│   └── FeatureRefreshService (if RECOMMEND_REFRESH_INTERVAL > 0)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Crashed services are restarted with suture's decaying failure counter;
once FailureThreshold is exceeded the layer waits FailureBackoff before
the next restart. Supervisor events are logged through sutureslog, bridged
to zerolog by logging.NewSlogLogger.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(logging.Logger()), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	tree.AddEngineService(services.NewFeatureRefreshService(refreshers, refreshCfg, logger))

	errCh := tree.ServeBackground(ctx)
	<-ctx.Done()
	<-errCh

# Service Interface

All services implement suture.Service:

	type Service interface {
	    Serve(ctx context.Context) error
	}

Returning nil stops the service for good, returning an error restarts it,
and a canceled context asks it to return promptly.

# What Is NOT Supervised

DuckDB is an embedded library and the embedding stores are clients; both
are opened and closed by main around the tree.
*/
package supervisor
