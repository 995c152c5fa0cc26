// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package version holds the version of the derdump command.
package version

// Version is the current version of derdump. It can be overridden at build
// time using ldflags:
//
//	go build -ldflags "-X codello.dev/x509der/internal/version.Version=1.2.3" ./cmd/derdump
var Version = "0.1.0"
