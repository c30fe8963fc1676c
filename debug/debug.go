// Copyright 2020-2024 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

// Package debug exposes the build-tag-gated debug flag.
//
// Building with -tags=debug keeps the logger active under go test and
// enables verbose diagnostics.
package debug
