// Studyfeed - Paper and Video Recommendations for Research Projects
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/studyfeed

// Package testinfra provides container-backed infrastructure for
// integration tests.
//
// The package uses testcontainers-go to start real services in Docker.
// Every file is built only with the integration tag, so unit test runs
// never need Docker.
//
// # Redis Container
//
// RedisContainer runs a throwaway Redis server for the shared embedding
// store:
//
//	func TestRedisStore_Integration(t *testing.T) {
//	    testinfra.SkipIfNoDocker(t)
//	    ctx := context.Background()
//
//	    redisC, err := testinfra.NewRedisContainer(ctx)
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    defer testinfra.CleanupContainer(t, ctx, redisC)
//
//	    store, err := embedding.OpenRedisStore(ctx, embedding.RedisOptions{Addr: redisC.Addr})
//	    // ...
//	}
//
// # Running
//
//	go test -tags integration ./internal/...
package testinfra
